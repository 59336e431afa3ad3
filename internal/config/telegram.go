package config

import "os"

const telegramTokenEnvKey = "TELEGRAM_TOKEN"

type TelegramConfig struct {
	BotToken string `yaml:"token"`
}

// Token prefers TELEGRAM_TOKEN over the token from the file.
func (t *TelegramConfig) Token() string {
	if token := os.Getenv(telegramTokenEnvKey); token != "" {
		return token
	}
	return t.BotToken
}
