package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Mode string

const (
	ModeTerminal Mode = "terminal"
	ModeWeb      Mode = "web"
	ModeTelegram Mode = "telegram"
)

type Config struct {
	Mode Mode

	TelegramToken string
	TelegramDebug bool

	HTTPAddr      string
	QuestionsFile string
	LogLevel      logrus.Level
}

// Load reads an optional .env file from the working directory and then the
// environment. Variables already set in the environment win over .env.
func Load(log logrus.FieldLogger) (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using system env")
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	level, err := logrus.ParseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, errors.Wrap(err, "LOG_LEVEL")
	}
	mode, err := ParseMode(envOr("MODE", string(ModeTerminal)))
	if err != nil {
		return Config{}, err
	}
	return Config{
		Mode:          mode,
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramDebug: envBool("TELEGRAM_DEBUG", false),
		HTTPAddr:      envOr("HTTP_ADDR", ":8080"),
		QuestionsFile: envOr("QUESTIONS_FILE", "questions.yaml"),
		LogLevel:      level,
	}, nil
}

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeTerminal, ModeWeb, ModeTelegram:
		return m, nil
	default:
		return "", errors.Errorf("unknown mode %q (want terminal, web or telegram)", s)
	}
}

// Validate checks the settings the selected mode depends on.
func (c Config) Validate() error {
	if c.Mode == ModeTelegram && c.TelegramToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN environment variable is required")
	}
	return nil
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
