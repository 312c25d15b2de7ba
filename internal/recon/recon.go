package recon

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/avolkov/paynotify/internal/extract"
	"github.com/avolkov/paynotify/internal/model"
	"github.com/avolkov/paynotify/internal/store"
)

type Reconciler interface {
	Reconcile(ctx context.Context, payments []model.PaymentRow, registry []model.RegistryRow) (Report, error)
}

// Итог сверки выписки с реестром
type Report struct {
	Matches   []model.MatchResult
	Unmatched []model.UnmatchedEntry
	Persisted int
}

// Служебные строки выписки (сальдо, итоги), которые попадают в нераспознанные,
// но не должны засорять отчет
var noiseKeywords = []string{"сальдо", "итог оборотов", "дебет", "кредит"}

// FilteredUnmatched возвращает нераспознанные платежи без служебных строк выписки
func (report Report) FilteredUnmatched() []model.UnmatchedEntry {
	var filtered []model.UnmatchedEntry
	for _, entry := range report.Unmatched {
		if !containsNoise(entry.Narration) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

func containsNoise(narration string) bool {
	lowered := strings.ToLower(narration)
	for _, keyword := range noiseKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

type reconciler struct {
	store  store.Store
	zaplog *zap.Logger
}

func NewReconciler(store store.Store, zaplog *zap.Logger) Reconciler {
	return &reconciler{
		store:  store,
		zaplog: zaplog,
	}
}

func (r *reconciler) Reconcile(ctx context.Context, payments []model.PaymentRow, registry []model.RegistryRow) (Report, error) {
	var report Report
	var orders []model.OrderRecord

	// Извлечение номеров счетов из обеих таблиц
	for i := range payments {
		if number, ok := extract.FromNarration(payments[i].Narration); ok {
			payments[i].Extracted = number
		}
	}
	for i := range registry {
		if number, ok := extract.FromRegistryNumber(registry[i].RawNumber); ok {
			registry[i].Extracted = number
		}
	}

	for _, payment := range payments {
		// Строки без кредита не являются входящими платежами
		if !payment.Credit.Valid {
			continue
		}

		if payment.Extracted == "" {
			report.Unmatched = append(report.Unmatched, unmatchedEntry(payment))
			continue
		}

		match, ok := firstRegistryMatch(registry, payment.Extracted)
		if !ok {
			report.Unmatched = append(report.Unmatched, unmatchedEntry(payment))
			continue
		}

		// Платеж, записанный прошлой загрузкой, не обрабатывается повторно:
		// ни записи, ни уведомления
		exists, err := r.store.ExistsByKey(ctx, payment.Date, payment.DocNumber, match.Client)
		if err != nil {
			return Report{}, err
		}
		if exists {
			r.zaplog.Info("платеж уже обработан",
				zap.String("date", payment.Date),
				zap.String("doc_number", payment.DocNumber),
				zap.String("contractor", match.Client))
			continue
		}

		orders = append(orders, model.OrderRecord{
			Date:          payment.Date,
			DocNumber:     payment.DocNumber,
			Amount:        payment.Credit.Decimal,
			AccountNumber: payment.Extracted,
			Contractor:    match.Client,
			Manager:       match.Author,
			Status:        model.OrderStatusPaid,
			Color:         model.OrderColorDefault,
		})
		report.Matches = append(report.Matches, model.MatchResult{
			Author:    match.Author,
			Client:    match.Client,
			Amount:    payment.Credit.Decimal,
			Narration: payment.Narration,
		})
	}

	// Пакетная запись после цикла. Ошибка записи прерывает сверку
	if len(orders) > 0 {
		persisted, err := r.store.InsertOrders(ctx, orders)
		if err != nil {
			return Report{}, err
		}
		report.Persisted = persisted
	}

	return report, nil
}

// firstRegistryMatch ищет первую строку реестра с совпадающим номером счета.
// Номера в реестре не обязаны быть уникальными, побеждает первая строка
func firstRegistryMatch(registry []model.RegistryRow, number string) (model.RegistryRow, bool) {
	for _, row := range registry {
		if row.Extracted != "" && row.Extracted == number {
			return row, true
		}
	}
	return model.RegistryRow{}, false
}

func unmatchedEntry(payment model.PaymentRow) model.UnmatchedEntry {
	return model.UnmatchedEntry{
		Counterparty: payment.Counterparty,
		Amount:       payment.Credit.Decimal,
		Narration:    payment.Narration,
	}
}
