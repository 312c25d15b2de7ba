package main

import (
	"log"

	"github.com/avolkov/paynotify/internal/bot"
	"github.com/avolkov/paynotify/internal/bot/telegram"
	"github.com/avolkov/paynotify/internal/config"
	"github.com/avolkov/paynotify/internal/directory"
	"github.com/avolkov/paynotify/internal/logger"
	"github.com/avolkov/paynotify/internal/notify"
	"github.com/avolkov/paynotify/internal/recon"
	"github.com/avolkov/paynotify/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.GetConfig()

	zaplog, err := logger.NewZapLog(cfg.Logger)
	if err != nil {
		return err
	}

	store, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}

	directory, err := directory.NewDirectory(cfg.Directory)
	if err != nil {
		return err
	}
	if _, ok := directory.Admin(); !ok {
		zaplog.Warn("администратор не настроен, сводки отправляться не будут")
	}

	client := telegram.NewClient(cfg.Telegram)
	reconciler := recon.NewReconciler(store, zaplog)
	router := notify.NewRouter(client, directory, zaplog)

	return bot.Serve(client, reconciler, router, zaplog)
}
