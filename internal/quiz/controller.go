package quiz

import (
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"
)

// FeedbackDelay is how long answer feedback stays on screen before the
// controller moves on.
const FeedbackDelay = time.Second

type Option func(*Controller)

// WithClock replaces the wall clock that schedules the advance step.
func WithClock(clk clock.WithDelayedExecution) Option {
	return func(c *Controller) {
		c.clock = clk
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

// Snapshot is a read-only copy of the controller state.
type Snapshot struct {
	Session string `json:"session"`
	State   State  `json:"-"`
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	Score   int    `json:"score"`
	Locked  bool   `json:"locked"`
}

// Controller drives one user through a fixed list of questions.
//
// Every transition runs under mu. The advance step is a one-shot timer
// tagged with the session it was scheduled in; Start and Reset stop the
// pending timer and mint a new session, so a late callback cannot move a
// newer session forward.
type Controller struct {
	mu        sync.Mutex
	questions []Question
	view      View
	clock     clock.WithDelayedExecution
	log       logrus.FieldLogger

	session uuid.UUID
	state   State
	index   int
	score   int
	pending clock.Timer
}

func NewController(questions []Question, view View, opts ...Option) *Controller {
	qs := make([]Question, len(questions))
	copy(qs, questions)

	c := &Controller{
		questions: qs,
		view:      view,
		clock:     clock.RealClock{},
		log:       discardLogger(),
		state:     StateNotStarted,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins a fresh session at the first question with a zero score.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.questions) == 0 {
		return errors.Wrap(ErrConfiguration, "question set is empty")
	}

	c.stopPending()
	c.session = uuid.New()
	c.state = StateShowingQuestion
	c.index = 0
	c.score = 0

	c.fields().Debug("quiz started")
	c.view.ScoreChanged(c.score)
	c.view.QuestionChanged(c.questions[0], 0, len(c.questions))
	return nil
}

// Reset returns the user to the first question. It is Start under another name.
func (c *Controller) Reset() error {
	return c.Start()
}

// SubmitAnswer records the user's choice for the current question.
// A submission while feedback is showing, or after the quiz finished,
// returns ErrInputLocked and changes nothing.
func (c *Controller) SubmitAnswer(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitLocked(index)
}

// SubmitAnswerFor is SubmitAnswer for clients that render answers per
// question. It returns ErrStaleQuestion when question is not the current one.
func (c *Controller) SubmitAnswerFor(question, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateNotStarted && question != c.index {
		c.fields().WithField("question", question).Debug("submission for stale question ignored")
		return errors.Wrapf(ErrStaleQuestion, "question %d is not current", question)
	}
	return c.submitLocked(index)
}

func (c *Controller) submitLocked(index int) error {
	switch c.state {
	case StateNotStarted:
		return ErrNotStarted
	case StateShowingFeedback, StateFinished:
		c.fields().WithField("answer", index).Debug("submission ignored, input locked")
		return ErrInputLocked
	}

	q := c.questions[c.index]
	if index < 0 || index >= len(q.Answers) {
		return errors.Wrapf(ErrInvalidArgument, "answer index %d out of range [0,%d)", index, len(q.Answers))
	}

	c.state = StateShowingFeedback
	correct := q.Answers[index].Correct
	if correct {
		c.score++
	}

	feedback := make([]AnswerFeedback, len(q.Answers))
	for i, a := range q.Answers {
		feedback[i] = AnswerFeedback{
			Text:     a.Text,
			Correct:  a.Correct,
			Selected: i == index,
		}
	}

	c.fields().WithFields(logrus.Fields{"answer": index, "correct": correct}).Debug("answer submitted")
	c.view.Feedback(feedback)
	if correct {
		c.view.ScoreChanged(c.score)
	}

	session := c.session
	c.pending = c.clock.AfterFunc(FeedbackDelay, func() {
		c.advance(session)
	})
	return nil
}

// Snapshot returns the current state for rendering or inspection.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		State:  c.state,
		Index:  c.index,
		Total:  len(c.questions),
		Score:  c.score,
		Locked: c.state == StateShowingFeedback || c.state == StateFinished,
	}
	if c.session != uuid.Nil {
		s.Session = c.session.String()
	}
	return s
}

// Close stops a pending advance and ends the session, so an advance that
// already fired is dropped. The controller can be started again afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopPending()
	c.session = uuid.Nil
	c.state = StateNotStarted
}

func (c *Controller) advance(session uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if session != c.session || c.state != StateShowingFeedback {
		c.log.WithField("session", session.String()).Debug("stale advance ignored")
		return
	}
	c.pending = nil
	c.index++

	if c.index < len(c.questions) {
		c.state = StateShowingQuestion
		c.fields().Debug("next question")
		c.view.QuestionChanged(c.questions[c.index], c.index, len(c.questions))
		return
	}

	c.state = StateFinished
	category := Categorize(c.score, len(c.questions))
	c.fields().WithField("category", category).Info("quiz finished")
	c.view.QuizFinished(c.score, len(c.questions), category)
}

func (c *Controller) stopPending() {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

func (c *Controller) fields() logrus.FieldLogger {
	return c.log.WithFields(logrus.Fields{
		"session": c.session.String(),
		"index":   c.index,
		"score":   c.score,
	})
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
