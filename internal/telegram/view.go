package telegram

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/PoluyanbIch/GoQuiz/internal/quiz"
)

const progressWidth = 10

// chatView renders controller events for a single chat.
type chatView struct {
	api    Sender
	chatID int64
	log    logrus.FieldLogger

	score         int
	questionIndex int
	messageID     int
}

func newChatView(api Sender, chatID int64, log logrus.FieldLogger) *chatView {
	return &chatView{
		api:    api,
		chatID: chatID,
		log:    log.WithField("chat", chatID),
	}
}

func (v *chatView) QuestionChanged(q quiz.Question, index, total int) {
	v.questionIndex = index

	text := fmt.Sprintf("❓ <b>Question %d/%d</b>\n%s  🏅 %d\n\n%s",
		index+1,
		total,
		progressBar(index, total),
		v.score,
		html.EscapeString(q.Prompt))

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, answer := range q.Answers {
		callbackData := fmt.Sprintf("%s%d_%d", answerPrefix, index, i)
		button := tgbotapi.NewInlineKeyboardButtonData(answer.Text, callbackData)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🚪 Exit quiz", "exit_quiz"),
	))

	msg := tgbotapi.NewMessage(v.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)

	sent, err := v.api.Send(msg)
	if err != nil {
		v.log.WithError(err).Error("error sending question")
		return
	}
	v.messageID = sent.MessageID
}

// Feedback re-draws the question keyboard: the correct answer is always
// marked, a wrong selection is marked separately and other answers stay plain.
func (v *chatView) Feedback(answers []quiz.AnswerFeedback) {
	if v.messageID == 0 {
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, a := range answers {
		label := a.Text
		switch {
		case a.Correct:
			label = "✅ " + a.Text
		case a.Selected:
			label = "❌ " + a.Text
		}
		callbackData := fmt.Sprintf("%s%d_%d", answerPrefix, v.questionIndex, i)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackData),
		))
	}

	edit := tgbotapi.NewEditMessageReplyMarkup(v.chatID, v.messageID, tgbotapi.NewInlineKeyboardMarkup(rows...))
	if _, err := v.api.Request(edit); err != nil {
		v.log.WithError(err).Error("error marking answers")
	}
}

func (v *chatView) ScoreChanged(score int) {
	v.score = score
}

func (v *chatView) QuizFinished(score, total int, category quiz.Category) {
	v.messageID = 0

	text := fmt.Sprintf(
		"🏁 <b>Quiz finished!</b>\n\n"+
			"📊 Score: %d/%d\n"+
			"📈 Correct: %d%%\n\n"+
			"%s",
		score, total, quiz.Percentage(score, total), html.EscapeString(category.Message()))

	msg := tgbotapi.NewMessage(v.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Play again", "restart_quiz"),
			tgbotapi.NewInlineKeyboardButtonData("🔙 Menu", "back_to_menu"),
		),
	)

	if _, err := v.api.Send(msg); err != nil {
		v.log.WithError(err).Error("error sending final message")
	}
}

func progressBar(index, total int) string {
	filled := quiz.ProgressPercent(index, total) * progressWidth / 100
	return strings.Repeat("▰", filled) + strings.Repeat("▱", progressWidth-filled)
}
