package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/PoluyanbIch/GoQuiz/internal/quiz"
)

const answerPrefix = "answer_"

// Sender is the part of *tgbotapi.BotAPI the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type chatSession struct {
	controller *quiz.Controller
	view       *chatView
}

type Bot struct {
	api       Sender
	questions []quiz.Question
	log       logrus.FieldLogger
	opts      []quiz.Option

	mu       sync.Mutex
	sessions map[int64]*chatSession
}

// NewBot wires the quiz to a Telegram API client. Each chat gets its own
// controller built with opts.
func NewBot(api Sender, questions []quiz.Question, log logrus.FieldLogger, opts ...quiz.Option) *Bot {
	return &Bot{
		api:       api,
		questions: questions,
		log:       log,
		opts:      opts,
		sessions:  make(map[int64]*chatSession),
	}
}

// Start consumes updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.closeSessions()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message != nil && update.Message.Chat != nil {
		chatID := update.Message.Chat.ID
		switch update.Message.Command() {
		case "start":
			b.sendMainMenu(chatID)
		case "quiz":
			b.startQuiz(chatID)
		case "info":
			b.handleInfo(chatID)
		default:
			b.sendMessage(chatID, "Unknown command")
		}
	}
	if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
	}
}

func (b *Bot) handleCallback(callback *tgbotapi.CallbackQuery) {
	if callback.Message == nil || callback.Message.Chat == nil {
		return
	}
	chatID := callback.Message.Chat.ID
	data := callback.Data

	notice := ""
	switch {
	case data == "start_quiz", data == "restart_quiz":
		b.startQuiz(chatID)
	case strings.HasPrefix(data, answerPrefix):
		notice = b.handleQuizAnswer(chatID, data)
	case data == "exit_quiz":
		b.exitQuiz(chatID)
	case data == "back_to_menu":
		b.sendMainMenu(chatID)
	case data == "info":
		b.handleInfo(chatID)
	default:
		b.sendMessage(chatID, "Unknown command")
	}

	callbackConfig := tgbotapi.NewCallback(callback.ID, notice)
	if _, err := b.api.Request(callbackConfig); err != nil {
		b.log.WithError(err).Error("error answering callback")
	}
}

func (b *Bot) sendMainMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "📋 <b>Main menu</b>")
	msg.ParseMode = tgbotapi.ModeHTML

	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Start quiz", "start_quiz"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ About", "info"),
		),
	)
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithError(err).Error("error sending main menu")
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithError(err).Error("error sending message")
	}
}

func (b *Bot) session(chatID int64) *chatSession {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.sessions[chatID]
	if !ok {
		view := newChatView(b.api, chatID, b.log)
		opts := append([]quiz.Option{quiz.WithLogger(b.log.WithField("chat", chatID))}, b.opts...)
		s = &chatSession{
			controller: quiz.NewController(b.questions, view, opts...),
			view:       view,
		}
		b.sessions[chatID] = s
	}
	return s
}

func (b *Bot) lookup(chatID int64) (*chatSession, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sessions[chatID]
	return s, ok
}

func (b *Bot) startQuiz(chatID int64) {
	s := b.session(chatID)
	if err := s.controller.Reset(); err != nil {
		b.log.WithError(err).WithField("chat", chatID).Error("cannot start quiz")
		b.sendMessage(chatID, "The quiz is not available right now.")
	}
}

// handleQuizAnswer returns the toast shown to the user when the press was ignored.
func (b *Bot) handleQuizAnswer(chatID int64, data string) string {
	questionIndex, answerIndex, err := parseAnswerData(data)
	if err != nil {
		b.log.WithError(err).WithField("data", data).Warn("malformed answer callback")
		return ""
	}

	s, ok := b.lookup(chatID)
	if !ok {
		return "The quiz is not running."
	}
	err = s.controller.SubmitAnswerFor(questionIndex, answerIndex)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, quiz.ErrStaleQuestion):
		return "That question is already answered."
	case errors.Is(err, quiz.ErrInputLocked):
		return "Wait for the next question."
	case errors.Is(err, quiz.ErrNotStarted):
		return "The quiz is not running."
	default:
		b.log.WithError(err).WithField("chat", chatID).Warn("answer rejected")
		return ""
	}
}

func (b *Bot) exitQuiz(chatID int64) {
	b.mu.Lock()
	s, ok := b.sessions[chatID]
	delete(b.sessions, chatID)
	b.mu.Unlock()
	if ok {
		s.controller.Close()
	}

	msg := tgbotapi.NewMessage(chatID, "🚪 Quiz stopped.")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Start again", "start_quiz"),
			tgbotapi.NewInlineKeyboardButtonData("🔙 Menu", "back_to_menu"),
		),
	)
	if _, err := b.api.Send(msg); err != nil {
		b.log.WithError(err).Error("error sending exit message")
	}
}

func (b *Bot) handleInfo(chatID int64) {
	text := fmt.Sprintf("%d questions, one try each. Pick an answer and the next question follows after a second.",
		len(b.questions))

	infoMsg := tgbotapi.NewMessage(chatID, text)
	infoMsg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Back", "back_to_menu"),
		),
	)
	if _, err := b.api.Send(infoMsg); err != nil {
		b.log.WithError(err).Error("error sending info")
	}
}

func (b *Bot) closeSessions() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for chatID, s := range b.sessions {
		s.controller.Close()
		delete(b.sessions, chatID)
	}
}

func parseAnswerData(data string) (int, int, error) {
	parts := strings.Split(strings.TrimPrefix(data, answerPrefix), "_")
	if len(parts) != 2 {
		return 0, 0, errors.Errorf("expected %s<question>_<answer>, got %q", answerPrefix, data)
	}
	questionIndex, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, errors.Wrap(err, "question index")
	}
	answerIndex, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, errors.Wrap(err, "answer index")
	}
	return questionIndex, answerIndex, nil
}
