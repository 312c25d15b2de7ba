package config

import (
	"github.com/spf13/viper"

	telegramConfig "github.com/avolkov/paynotify/internal/bot/telegram/config"
	directoryConfig "github.com/avolkov/paynotify/internal/directory/config"
	loggerConfig "github.com/avolkov/paynotify/internal/logger/config"
	storeConfig "github.com/avolkov/paynotify/internal/store/config"
)

type Config struct {
	Telegram  telegramConfig.Config
	Directory directoryConfig.Config
	Store     storeConfig.Config
	Logger    loggerConfig.Config
}

// GetConfig читает настройки из переменных окружения:
// BOT_TOKEN, TELEGRAM_API_URL, DATABASE_DSN, AUTHORS_FILE, ADMIN_CHAT_ID, LOG_LEVEL
func GetConfig() Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("telegram_api_url", "https://api.telegram.org")
	v.SetDefault("authors_file", "author_ids.csv")
	v.SetDefault("log_level", "info")

	return Config{
		Telegram: telegramConfig.Config{
			Token:  v.GetString("bot_token"),
			APIURL: v.GetString("telegram_api_url"),
		},
		Directory: directoryConfig.Config{
			AuthorsFile: v.GetString("authors_file"),
			AdminChatID: v.GetInt64("admin_chat_id"),
		},
		Store: storeConfig.Config{
			DBDsn: v.GetString("database_dsn"),
		},
		Logger: loggerConfig.Config{
			LogLevel: v.GetString("log_level"),
		},
	}
}
