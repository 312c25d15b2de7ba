package config

type Config struct {
	Token  string
	APIURL string
}
