package config

type Config struct {
	AuthorsFile string
	AdminChatID int64
}
