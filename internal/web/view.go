package web

import (
	"sync"

	"github.com/PoluyanbIch/GoQuiz/internal/quiz"
)

const (
	phaseStart    = "start"
	phaseQuestion = "question"
	phaseFeedback = "feedback"
	phaseFinished = "finished"
)

type screen struct {
	Phase    string                `json:"phase"`
	Question *questionPayload      `json:"question,omitempty"`
	Feedback []quiz.AnswerFeedback `json:"feedback,omitempty"`
	Score    int                   `json:"score"`
	Total    int                   `json:"total"`
	Progress int                   `json:"progress"`
	Result   *resultPayload        `json:"result,omitempty"`
}

func (s screen) locked() bool {
	return s.Phase == phaseFeedback || s.Phase == phaseFinished
}

type questionPayload struct {
	Index   int      `json:"index"`
	Number  int      `json:"number"`
	Prompt  string   `json:"prompt"`
	Answers []string `json:"answers"`
}

type resultPayload struct {
	Score    int           `json:"score"`
	Total    int           `json:"total"`
	Percent  int           `json:"percent"`
	Category quiz.Category `json:"category"`
	Message  string        `json:"message"`
}

// screenView keeps the last rendered screen so polling clients can draw it.
type screenView struct {
	mu  sync.RWMutex
	cur screen
}

func newScreenView(total int) *screenView {
	return &screenView{cur: screen{Phase: phaseStart, Total: total}}
}

func (v *screenView) QuestionChanged(q quiz.Question, index, total int) {
	answers := make([]string, len(q.Answers))
	for i, a := range q.Answers {
		answers[i] = a.Text
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.cur.Phase = phaseQuestion
	v.cur.Question = &questionPayload{
		Index:   index,
		Number:  index + 1,
		Prompt:  q.Prompt,
		Answers: answers,
	}
	v.cur.Feedback = nil
	v.cur.Result = nil
	v.cur.Total = total
	v.cur.Progress = quiz.ProgressPercent(index, total)
}

func (v *screenView) Feedback(answers []quiz.AnswerFeedback) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cur.Phase = phaseFeedback
	v.cur.Feedback = answers
}

func (v *screenView) ScoreChanged(score int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cur.Score = score
}

func (v *screenView) QuizFinished(score, total int, category quiz.Category) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cur.Phase = phaseFinished
	v.cur.Question = nil
	v.cur.Feedback = nil
	v.cur.Progress = 100
	v.cur.Result = &resultPayload{
		Score:    score,
		Total:    total,
		Percent:  quiz.Percentage(score, total),
		Category: category,
		Message:  category.Message(),
	}
}

func (v *screenView) current() screen {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cur
}
