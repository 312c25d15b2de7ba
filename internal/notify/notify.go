package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/avolkov/paynotify/internal/directory"
	"github.com/avolkov/paynotify/internal/model"
	"github.com/avolkov/paynotify/internal/recon"
)

// Отправка текстового сообщения в чат, одна попытка без retry
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

const unmatchedBanner = "🚨 НЕ РАСПОЗНАННЫЕ ОПЛАТЫ 🚨"

type Router struct {
	sender    Sender
	directory directory.Directory
	zaplog    *zap.Logger
}

func NewRouter(sender Sender, directory directory.Directory, zaplog *zap.Logger) *Router {
	return &Router{
		sender:    sender,
		directory: directory,
		zaplog:    zaplog,
	}
}

// Dispatch рассылает итоги сверки: авторам их платежи, администратору сводку,
// загрузившему таблицы - отчет о нераспознанных.
// Ошибки отправки логируются и не прерывают рассылку
func (router *Router) Dispatch(ctx context.Context, uploaderID int64, report recon.Report) {
	for _, match := range report.Matches {
		chatID := router.directory.Resolve(match.Author)
		text := matchText(match)
		if err := router.sender.SendMessage(ctx, chatID, text); err != nil {
			router.zaplog.Error("не удалось отправить сообщение автору",
				zap.String("author", match.Author),
				zap.Int64("chat_id", chatID),
				zap.String("text", text),
				zap.Error(err))
			continue
		}
		router.zaplog.Info("сообщение отправлено автору",
			zap.String("author", match.Author))
	}

	filtered := report.FilteredUnmatched()

	if adminID, ok := router.directory.Admin(); ok {
		if summary := summaryText(report.Matches, filtered); summary != "" {
			if err := router.sender.SendMessage(ctx, adminID, summary); err != nil {
				router.zaplog.Error("не удалось отправить сводку администратору",
					zap.Int64("chat_id", adminID),
					zap.Error(err))
			}
		}
	} else {
		router.zaplog.Warn("администратор не настроен, сводка не отправлена")
	}

	if len(filtered) > 0 {
		if err := router.sender.SendMessage(ctx, uploaderID, unmatchedText(filtered)); err != nil {
			router.zaplog.Error("не удалось отправить отчет о нераспознанных",
				zap.Int64("chat_id", uploaderID),
				zap.Error(err))
			return
		}
		router.zaplog.Info("нераспознанные платежи отправлены пользователю",
			zap.Int64("chat_id", uploaderID))
	}
}

func matchText(match model.MatchResult) string {
	return fmt.Sprintf("Клиент %s оплатил сумму 💲%s💲\n- %s",
		match.Client, match.Amount, match.Narration)
}

func entryText(entry model.UnmatchedEntry) string {
	return fmt.Sprintf("Клиент %s оплатил сумму 💲%s💲\n- %s",
		entry.Counterparty, entry.Amount, entry.Narration)
}

func unmatchedText(entries []model.UnmatchedEntry) string {
	parts := []string{unmatchedBanner}
	for _, entry := range entries {
		parts = append(parts, entryText(entry))
	}
	return strings.Join(parts, "\n\n")
}

// summaryText собирает сводку для администратора: все сообщения авторам
// и нераспознанные оплаты одним сообщением
func summaryText(matches []model.MatchResult, unmatched []model.UnmatchedEntry) string {
	var parts []string
	for _, match := range matches {
		parts = append(parts, matchText(match))
	}
	if len(unmatched) > 0 {
		parts = append(parts, unmatchedBanner)
		for _, entry := range unmatched {
			parts = append(parts, entryText(entry))
		}
	}
	return strings.Join(parts, "\n\n")
}
