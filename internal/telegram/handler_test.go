package telegram

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/PoluyanbIch/GoQuiz/internal/quiz"
)

const chatID int64 = 42

type fakeSender struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	nextID   int
	updates  chan tgbotapi.Update
	stopped  bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{updates: make(chan tgbotapi.Update, 10)}
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeSender) StopReceivingUpdates() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeSender) messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeSender) lastMessage(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	msgs := f.messages()
	require.NotEmpty(t, msgs)
	return msgs[len(msgs)-1]
}

func (f *fakeSender) edits() []tgbotapi.EditMessageReplyMarkupConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.EditMessageReplyMarkupConfig
	for _, c := range f.requests {
		if e, ok := c.(tgbotapi.EditMessageReplyMarkupConfig); ok {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeSender) lastCallback(t *testing.T) tgbotapi.CallbackConfig {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if cb, ok := f.requests[i].(tgbotapi.CallbackConfig); ok {
			return cb
		}
	}
	t.Fatalf("no callback answered")
	return tgbotapi.CallbackConfig{}
}

func command(name string) tgbotapi.Update {
	text := "/" + name
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}}
}

func press(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-" + data,
		Data:    data,
		From:    &tgbotapi.User{ID: 7},
		Message: &tgbotapi.Message{MessageID: 1, Chat: &tgbotapi.Chat{ID: chatID}},
	}}
}

func newTestBot(t *testing.T) (*Bot, *fakeSender, *testingclock.FakeClock) {
	t.Helper()
	api := newFakeSender()
	clk := testingclock.NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	log, _ := test.NewNullLogger()
	bot := NewBot(api, quiz.DefaultQuestions(), log, quiz.WithClock(clk))
	t.Cleanup(bot.closeSessions)
	return bot, api, clk
}

func keyboard(t *testing.T, msg tgbotapi.MessageConfig) tgbotapi.InlineKeyboardMarkup {
	t.Helper()
	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok, "reply markup is %T", msg.ReplyMarkup)
	return kb
}

func TestQuizCommandSendsFirstQuestion(t *testing.T) {
	bot, api, _ := newTestBot(t)

	bot.handleUpdate(command("quiz"))

	msg := api.lastMessage(t)
	assert.Equal(t, chatID, msg.ChatID)
	assert.Contains(t, msg.Text, "Question 1/5")
	assert.Contains(t, msg.Text, "Which HTML tag is used to link an external JavaScript file")
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)

	kb := keyboard(t, msg)
	require.Len(t, kb.InlineKeyboard, 5)
	assert.Equal(t, "<script>", kb.InlineKeyboard[1][0].Text)
	require.NotNil(t, kb.InlineKeyboard[1][0].CallbackData)
	assert.Equal(t, "answer_0_1", *kb.InlineKeyboard[1][0].CallbackData)
	assert.Equal(t, "exit_quiz", *kb.InlineKeyboard[4][0].CallbackData)
}

func TestQuestionPromptIsEscaped(t *testing.T) {
	api := newFakeSender()
	log, _ := test.NewNullLogger()
	questions := []quiz.Question{quiz.DefaultQuestions()[4]}
	bot := NewBot(api, questions, log)
	t.Cleanup(bot.closeSessions)

	bot.handleUpdate(command("quiz"))

	msg := api.lastMessage(t)
	assert.Contains(t, msg.Text, "Question 1/1")
	assert.Contains(t, msg.Text, "alt attribute in an &lt;img&gt; tag")
	assert.NotContains(t, msg.Text, "<img>")
}

func TestAnswerMarksKeyboardAndAdvances(t *testing.T) {
	bot, api, clk := newTestBot(t)
	bot.handleUpdate(command("quiz"))
	questionMsgID := len(api.messages())

	bot.handleUpdate(press("answer_0_2"))

	edits := api.edits()
	require.Len(t, edits, 1)
	assert.Equal(t, questionMsgID, edits[0].MessageID)
	require.NotNil(t, edits[0].ReplyMarkup)
	rows := edits[0].ReplyMarkup.InlineKeyboard
	require.Len(t, rows, 4)
	assert.Equal(t, "<link>", rows[0][0].Text)
	assert.Equal(t, "✅ <script>", rows[1][0].Text)
	assert.Equal(t, "❌ <js>", rows[2][0].Text)
	assert.Equal(t, "<javascript>", rows[3][0].Text)
	assert.Empty(t, api.lastCallback(t).Text)

	clk.Step(quiz.FeedbackDelay)
	require.Eventually(t, func() bool {
		return len(api.messages()) == questionMsgID+1
	}, time.Second, time.Millisecond)
	assert.Contains(t, api.lastMessage(t).Text, "Question 2/5")
}

func TestDoublePressIsIgnored(t *testing.T) {
	bot, api, _ := newTestBot(t)
	bot.handleUpdate(command("quiz"))

	bot.handleUpdate(press("answer_0_1"))
	bot.handleUpdate(press("answer_0_1"))

	assert.Len(t, api.edits(), 1)
	assert.Equal(t, "Wait for the next question.", api.lastCallback(t).Text)

	s, ok := bot.lookup(chatID)
	require.True(t, ok)
	assert.Equal(t, 1, s.controller.Snapshot().Score)
}

func TestStaleButtonIsIgnored(t *testing.T) {
	bot, api, _ := newTestBot(t)
	bot.handleUpdate(command("quiz"))

	bot.handleUpdate(press("answer_3_2"))

	assert.Empty(t, api.edits())
	assert.Equal(t, "That question is already answered.", api.lastCallback(t).Text)
}

func TestOldKeyboardAfterAdvanceIsIgnored(t *testing.T) {
	bot, api, clk := newTestBot(t)
	bot.handleUpdate(command("quiz"))
	bot.handleUpdate(press("answer_0_1"))

	before := len(api.messages())
	clk.Step(quiz.FeedbackDelay)
	require.Eventually(t, func() bool {
		return len(api.messages()) == before+1
	}, time.Second, time.Millisecond)

	bot.handleUpdate(press("answer_0_1"))

	assert.Len(t, api.edits(), 1)
	assert.Equal(t, "That question is already answered.", api.lastCallback(t).Text)
	s, ok := bot.lookup(chatID)
	require.True(t, ok)
	snap := s.controller.Snapshot()
	assert.Equal(t, 1, snap.Index)
	assert.Equal(t, 1, snap.Score)
	assert.False(t, snap.Locked)
}

func TestAnswerWithoutQuiz(t *testing.T) {
	bot, api, _ := newTestBot(t)

	bot.handleUpdate(press("answer_0_1"))

	assert.Equal(t, "The quiz is not running.", api.lastCallback(t).Text)
}

func TestFullQuizSendsResult(t *testing.T) {
	bot, api, clk := newTestBot(t)
	bot.handleUpdate(command("quiz"))

	answers := []int{1, 0, 0, 0, 0}
	for i, answer := range answers {
		before := len(api.messages())
		bot.handleUpdate(press(answerData(i, answer)))
		clk.Step(quiz.FeedbackDelay)
		require.Eventually(t, func() bool {
			return len(api.messages()) == before+1
		}, time.Second, time.Millisecond)
	}

	msg := api.lastMessage(t)
	assert.Contains(t, msg.Text, "Score: 2/5")
	assert.Contains(t, msg.Text, "Correct: 40%")
	assert.Contains(t, msg.Text, quiz.CategoryFail.Message())
	kb := keyboard(t, msg)
	assert.Equal(t, "restart_quiz", *kb.InlineKeyboard[0][0].CallbackData)

	bot.handleUpdate(press("restart_quiz"))
	assert.Contains(t, api.lastMessage(t).Text, "Question 1/5")
	s, ok := bot.lookup(chatID)
	require.True(t, ok)
	assert.Equal(t, 0, s.controller.Snapshot().Score)
}

func TestExitQuizDropsSession(t *testing.T) {
	bot, api, clk := newTestBot(t)
	bot.handleUpdate(command("quiz"))
	bot.handleUpdate(press("answer_0_1"))

	bot.handleUpdate(press("exit_quiz"))

	_, ok := bot.lookup(chatID)
	assert.False(t, ok)
	assert.False(t, clk.HasWaiters())
	assert.Contains(t, api.lastMessage(t).Text, "Quiz stopped")
}

func TestStartStopsOnContextCancel(t *testing.T) {
	bot, api, _ := newTestBot(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		bot.Start(ctx)
		close(done)
	}()

	api.updates <- command("start")
	require.Eventually(t, func() bool {
		return len(api.messages()) == 1
	}, time.Second, time.Millisecond)
	assert.Contains(t, api.lastMessage(t).Text, "Main menu")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("bot did not stop")
	}
	api.mu.Lock()
	assert.True(t, api.stopped)
	api.mu.Unlock()
}

func TestParseAnswerData(t *testing.T) {
	q, a, err := parseAnswerData("answer_3_2")
	require.NoError(t, err)
	assert.Equal(t, 3, q)
	assert.Equal(t, 2, a)

	for _, bad := range []string{"answer_", "answer_1", "answer_x_1", "answer_1_y", "answer_1_2_3"} {
		_, _, err := parseAnswerData(bad)
		assert.Error(t, err, bad)
	}
}

func answerData(question, answer int) string {
	return fmt.Sprintf("%s%d_%d", answerPrefix, question, answer)
}
