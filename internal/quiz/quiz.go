package quiz

type Answer struct {
	Text    string `yaml:"text" json:"text"`
	Correct bool   `yaml:"correct" json:"correct"`
}

type Question struct {
	Prompt  string   `yaml:"question" json:"question"`
	Answers []Answer `yaml:"answers" json:"answers"`
}

// AnswerFeedback is what a view needs to mark one answer after a submission.
type AnswerFeedback struct {
	Text     string `json:"text"`
	Correct  bool   `json:"correct"`
	Selected bool   `json:"selected"`
}

// State is the controller's position in the quiz lifecycle.
type State int

const (
	StateNotStarted State = iota
	StateShowingQuestion
	StateShowingFeedback
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateShowingQuestion:
		return "showing_question"
	case StateShowingFeedback:
		return "showing_feedback"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// View renders controller events. Methods are called with the controller
// lock held and must not call back into the controller.
type View interface {
	QuestionChanged(q Question, index, total int)
	Feedback(answers []AnswerFeedback)
	ScoreChanged(score int)
	QuizFinished(score, total int, category Category)
}
