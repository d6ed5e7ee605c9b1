package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/PoluyanbIch/GoQuiz/internal/config"
	"github.com/PoluyanbIch/GoQuiz/internal/quiz"
	"github.com/PoluyanbIch/GoQuiz/internal/telegram"
	"github.com/PoluyanbIch/GoQuiz/internal/terminal"
	"github.com/PoluyanbIch/GoQuiz/internal/web"
)

func main() {
	mode := flag.String("mode", "", "terminal, web or telegram (overrides MODE)")
	flag.Parse()

	log := logrus.New()

	cfg, err := config.Load(log)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if *mode != "" {
		if cfg.Mode, err = config.ParseMode(*mode); err != nil {
			log.WithError(err).Fatal("invalid -mode")
		}
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	log.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	questions := quiz.LoadQuestions(cfg.QuestionsFile, log)

	switch cfg.Mode {
	case config.ModeTelegram:
		api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
		if err != nil {
			log.WithError(err).Fatal("cannot connect to Telegram")
		}
		api.Debug = cfg.TelegramDebug
		log.WithField("account", api.Self.UserName).Info("🤖 Bot is starting...")
		telegram.NewBot(api, questions, log).Start(ctx)
	case config.ModeWeb:
		if err := web.Run(ctx, cfg.HTTPAddr, questions, log); err != nil {
			log.WithError(err).Fatal("web server error")
		}
	default:
		// Keep terminal output clean of log lines while the quiz is on screen.
		if cfg.LogLevel < logrus.DebugLevel {
			log.SetLevel(logrus.WarnLevel)
		}
		if err := terminal.Run(ctx, os.Stdin, os.Stdout, questions, log); err != nil {
			log.WithError(err).Fatal("quiz failed")
		}
	}
}
