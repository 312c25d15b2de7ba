package bot

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/avolkov/paynotify/internal/bot/session"
	"github.com/avolkov/paynotify/internal/bot/telegram"
	"github.com/avolkov/paynotify/internal/notify"
	"github.com/avolkov/paynotify/internal/recon"
	"github.com/avolkov/paynotify/internal/tabular"
)

// Тексты ответов бота
const (
	msgStart       = "Пришлите первую таблицу (XLS или HTML)."
	msgNotAFile    = "Это не файл. Попробуйте снова."
	msgBadFormat   = "Формат Вашего сообщения не соответствует запросу, прошу ещё раз пришлите таблицу."
	msgFirstSaved  = "Первая таблица сохранена. Пришлите вторую таблицу."
	msgBothAlready = "Вы уже отправили обе таблицы. Введите /start, чтобы начать заново."
	msgDone        = "‼️ Обработка завершена. Все сообщения отправлены ‼️"

	msgTableError       = "Ошибка при загрузке таблицы: "
	msgSecondTableError = "Ошибка при загрузке второй таблицы: "
)

var tableExtensions = []string{".xls", ".xlsx", ".html", ".htm"}

type bot struct {
	client     telegram.Client
	reconciler recon.Reconciler
	router     *notify.Router
	sessions   *session.Sessions
	zaplog     *zap.Logger
}

// Serve запускает цикл long poll и обрабатывает обновления по одному
func Serve(client telegram.Client, reconciler recon.Reconciler, router *notify.Router, zaplog *zap.Logger) error {
	b := &bot{
		client:     client,
		reconciler: reconciler,
		router:     router,
		sessions:   session.NewSessions(),
		zaplog:     zaplog,
	}

	ctx := context.Background()
	var offset int64
	for {
		updates, err := b.client.GetUpdates(ctx, offset)
		if err != nil {
			b.zaplog.Error("не удалось получить обновления", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		for _, update := range updates {
			offset = update.UpdateID + 1
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *bot) handleUpdate(ctx context.Context, update telegram.Update) {
	if update.Message == nil {
		return
	}
	message := update.Message
	chatID := message.Chat.ID

	if strings.HasPrefix(message.Text, "/start") {
		b.sessions.Reset(chatID)
		b.reply(ctx, chatID, msgStart)
		return
	}

	b.handleDocument(ctx, message)
}

func (b *bot) handleDocument(ctx context.Context, message *telegram.Message) {
	chatID := message.Chat.ID

	if message.Document == nil {
		b.reply(ctx, chatID, msgNotAFile)
		return
	}

	sess := b.sessions.Get(chatID)

	// отчет о нераспознанных уходит тому, кто прислал первую таблицу
	if sess.UploaderID == 0 && message.From != nil {
		sess.UploaderID = message.From.ID
	}

	if !hasTableExtension(message.Document.FileName) {
		b.reply(ctx, chatID, msgBadFormat)
		return
	}

	switch {
	case sess.Payments == nil:
		table, err := b.fetchTable(ctx, message.Document)
		if err == nil {
			err = table.Require(tabular.PaymentColumns...)
		}
		if err != nil {
			b.zaplog.Error("ошибка загрузки первой таблицы",
				zap.Int64("chat_id", chatID), zap.Error(err))
			b.reply(ctx, chatID, msgTableError+err.Error())
			return
		}
		sess.Payments = &table
		b.reply(ctx, chatID, msgFirstSaved)

	case sess.Registry == nil:
		table, err := b.fetchTable(ctx, message.Document)
		if err == nil {
			err = table.Require(tabular.RegistryColumns...)
		}
		if err == nil {
			sess.Registry = &table
			err = b.process(ctx, sess)
		}
		if err != nil {
			b.zaplog.Error("ошибка обработки второй таблицы",
				zap.Int64("chat_id", chatID), zap.Error(err))
			// вторую таблицу можно прислать заново
			sess.Registry = nil
			b.reply(ctx, chatID, msgSecondTableError+err.Error())
			return
		}
		b.sessions.Reset(chatID)
		b.reply(ctx, chatID, msgDone)

	default:
		b.reply(ctx, chatID, msgBothAlready)
	}
}

func (b *bot) process(ctx context.Context, sess *session.Session) error {
	payments, err := tabular.PaymentsFromTable(*sess.Payments)
	if err != nil {
		return err
	}
	registry, err := tabular.RegistryFromTable(*sess.Registry)
	if err != nil {
		return err
	}

	report, err := b.reconciler.Reconcile(ctx, payments, registry)
	if err != nil {
		return err
	}
	b.zaplog.Info("сверка завершена",
		zap.Int("matches", len(report.Matches)),
		zap.Int("unmatched", len(report.Unmatched)),
		zap.Int("persisted", report.Persisted))

	b.router.Dispatch(ctx, sess.UploaderID, report)
	return nil
}

func (b *bot) fetchTable(ctx context.Context, document *telegram.Document) (tabular.Table, error) {
	file, err := b.client.GetFile(ctx, document.FileID)
	if err != nil {
		return tabular.Table{}, err
	}
	data, err := b.client.Download(ctx, file.FilePath)
	if err != nil {
		return tabular.Table{}, err
	}
	return tabular.Decode(data)
}

func hasTableExtension(fileName string) bool {
	lowered := strings.ToLower(fileName)
	for _, extension := range tableExtensions {
		if strings.HasSuffix(lowered, extension) {
			return true
		}
	}
	return false
}

func (b *bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.client.SendMessage(ctx, chatID, text); err != nil {
		b.zaplog.Error("не удалось отправить ответ",
			zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
