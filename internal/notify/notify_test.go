package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avolkov/paynotify/internal/model"
	"github.com/avolkov/paynotify/internal/recon"
)

type sentMessage struct {
	chatID int64
	text   string
}

type fakeSender struct {
	sent     []sentMessage
	failChat int64
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, text string) error {
	if f.failChat != 0 && chatID == f.failChat {
		return errors.New("delivery failed")
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

type fakeDirectory struct {
	chatIDs  map[string]int64
	fallback int64
	adminID  int64
}

func (f *fakeDirectory) Resolve(author string) int64 {
	if chatID, ok := f.chatIDs[author]; ok {
		return chatID
	}
	return f.fallback
}

func (f *fakeDirectory) Admin() (int64, bool) {
	return f.adminID, f.adminID != 0
}

func testReport() recon.Report {
	return recon.Report{
		Matches: []model.MatchResult{
			{
				Author:    "Иванов",
				Client:    "ООО Ромашка",
				Amount:    decimal.RequireFromString("500"),
				Narration: "оплата по счету № 123",
			},
			{
				Author:    "Неизвестный",
				Client:    "ООО Василек",
				Amount:    decimal.RequireFromString("200"),
				Narration: "счет 555",
			},
		},
		Unmatched: []model.UnmatchedEntry{
			{
				Counterparty: "ООО Лютик",
				Amount:       decimal.RequireFromString("300"),
				Narration:    "оплата без номера",
			},
			{Narration: "Итог оборотов за период"},
		},
	}
}

func TestDispatch(t *testing.T) {
	sender := &fakeSender{}
	dir := &fakeDirectory{
		chatIDs:  map[string]int64{"Иванов": 100},
		fallback: 999,
		adminID:  500,
	}
	router := NewRouter(sender, dir, zap.NewNop())

	router.Dispatch(context.Background(), 700, testReport())

	// два автора, сводка администратору, отчет загрузившему
	require.Len(t, sender.sent, 4)

	require.Equal(t, int64(100), sender.sent[0].chatID)
	require.Equal(t, "Клиент ООО Ромашка оплатил сумму 💲500💲\n- оплата по счету № 123", sender.sent[0].text)

	// неизвестный автор уходит на получателя по умолчанию
	require.Equal(t, int64(999), sender.sent[1].chatID)

	summary := sender.sent[2]
	require.Equal(t, int64(500), summary.chatID)
	require.Contains(t, summary.text, "ООО Ромашка")
	require.Contains(t, summary.text, "ООО Василек")
	require.Contains(t, summary.text, "🚨 НЕ РАСПОЗНАННЫЕ ОПЛАТЫ 🚨")
	require.Contains(t, summary.text, "оплата без номера")
	// служебные строки выписки отфильтрованы
	require.NotContains(t, summary.text, "Итог оборотов")

	unmatched := sender.sent[3]
	require.Equal(t, int64(700), unmatched.chatID)
	require.True(t, strings.HasPrefix(unmatched.text, "🚨 НЕ РАСПОЗНАННЫЕ ОПЛАТЫ 🚨\n\n"))
	require.Contains(t, unmatched.text, "Клиент ООО Лютик оплатил сумму 💲300💲\n- оплата без номера")
}

func TestDispatchDeliveryErrorDoesNotAbort(t *testing.T) {
	sender := &fakeSender{failChat: 100}
	dir := &fakeDirectory{
		chatIDs:  map[string]int64{"Иванов": 100, "Неизвестный": 200},
		fallback: 999,
		adminID:  500,
	}
	router := NewRouter(sender, dir, zap.NewNop())

	router.Dispatch(context.Background(), 700, testReport())

	// первый автор не получил сообщение, остальная рассылка прошла
	require.Len(t, sender.sent, 3)
	require.Equal(t, int64(200), sender.sent[0].chatID)
	require.Equal(t, int64(500), sender.sent[1].chatID)
	require.Equal(t, int64(700), sender.sent[2].chatID)
}

func TestDispatchNoAdmin(t *testing.T) {
	sender := &fakeSender{}
	dir := &fakeDirectory{
		chatIDs:  map[string]int64{"Иванов": 100, "Неизвестный": 200},
		fallback: 999,
	}
	router := NewRouter(sender, dir, zap.NewNop())

	router.Dispatch(context.Background(), 700, testReport())

	// без администратора сводка не отправляется
	require.Len(t, sender.sent, 3)
	for _, message := range sender.sent {
		require.NotEqual(t, int64(500), message.chatID)
	}
}

func TestDispatchNoUnmatched(t *testing.T) {
	sender := &fakeSender{}
	dir := &fakeDirectory{
		chatIDs:  map[string]int64{"Иванов": 100},
		fallback: 999,
		adminID:  500,
	}
	router := NewRouter(sender, dir, zap.NewNop())

	report := recon.Report{
		Matches: []model.MatchResult{
			{
				Author:    "Иванов",
				Client:    "ООО Ромашка",
				Amount:    decimal.RequireFromString("500"),
				Narration: "оплата по счету № 123",
			},
		},
	}
	router.Dispatch(context.Background(), 700, report)

	// автор и администратор, отчета о нераспознанных нет
	require.Len(t, sender.sent, 2)
	require.Equal(t, int64(100), sender.sent[0].chatID)
	require.Equal(t, int64(500), sender.sent[1].chatID)
}
