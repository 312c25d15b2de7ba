package directory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/avolkov/paynotify/internal/directory/config"
)

// Получатель по умолчанию для авторов, которых нет в справочнике
const FallbackAuthor = "Unknown"

var ErrNoFallback = errors.New("no Unknown row in authors file")

// Справочник автор -> идентификатор чата.
// Загружается один раз при старте, после загрузки только читается
type Directory interface {
	Resolve(author string) int64
	Admin() (int64, bool)
}

type directory struct {
	chatIDs map[string]int64
	adminID int64
}

func NewDirectory(cfg config.Config) (Directory, error) {
	file, err := os.Open(cfg.AuthorsFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	chatIDs := make(map[string]int64, len(records))
	for i, record := range records {
		if len(record) < 2 {
			return nil, fmt.Errorf("authors file: строка %d: ожидается Author,TelegramID", i+1)
		}
		chatID, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			// заголовок Author,TelegramID
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("authors file: строка %d: %w", i+1, err)
		}
		chatIDs[record[0]] = chatID
	}

	if _, ok := chatIDs[FallbackAuthor]; !ok {
		return nil, ErrNoFallback
	}

	return &directory{
		chatIDs: chatIDs,
		adminID: cfg.AdminChatID,
	}, nil
}

func (d *directory) Resolve(author string) int64 {
	if chatID, ok := d.chatIDs[author]; ok {
		return chatID
	}
	return d.chatIDs[FallbackAuthor]
}

// Admin возвращает чат администратора. Администратор может быть не настроен,
// тогда сводка не отправляется
func (d *directory) Admin() (int64, bool) {
	return d.adminID, d.adminID != 0
}
