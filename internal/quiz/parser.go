package quiz

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ParseQuestions reads a YAML question bank:
//
//	- question: "What does CSS stand for?"
//	  answers:
//	    - text: "Cascading Style Sheets"
//	      correct: true
//	    - text: "Computer Style Sheets"
func ParseQuestions(r io.Reader) ([]Question, error) {
	var questions []Question
	if err := yaml.NewDecoder(r).Decode(&questions); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.Wrap(ErrConfiguration, "no questions found")
		}
		return nil, errors.Wrap(err, "decode question bank")
	}
	if err := ValidateQuestions(questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// ValidateQuestions checks that every question has a prompt, at least two
// answers and exactly one correct answer.
func ValidateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return errors.Wrap(ErrConfiguration, "no questions found")
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Prompt) == "" {
			return errors.Wrapf(ErrConfiguration, "question %d: prompt cannot be empty", i+1)
		}
		if len(q.Answers) < 2 {
			return errors.Wrapf(ErrConfiguration, "question %d: need at least 2 answers, got %d", i+1, len(q.Answers))
		}
		correct := 0
		for _, a := range q.Answers {
			if a.Correct {
				correct++
			}
		}
		if correct != 1 {
			return errors.Wrapf(ErrConfiguration, "question %d: exactly one correct answer required, got %d", i+1, correct)
		}
	}
	return nil
}

// LoadQuestions reads the question bank at filename, falling back to the
// built-in questions when the file is missing or invalid.
func LoadQuestions(filename string, log logrus.FieldLogger) []Question {
	questions, err := loadFile(filename)
	if err != nil {
		log.WithError(err).WithField("file", filename).Warn("failed to load questions, using defaults")
		return DefaultQuestions()
	}

	log.WithField("file", filename).Infof("loaded %d questions", len(questions))
	return questions
}

func loadFile(filename string) ([]Question, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "open question bank")
	}
	defer file.Close()

	return ParseQuestions(file)
}

func DefaultQuestions() []Question {
	return []Question{
		{
			Prompt: "Which HTML tag is used to link an external JavaScript file to a web page?",
			Answers: []Answer{
				{Text: "<link>"},
				{Text: "<script>", Correct: true},
				{Text: "<js>"},
				{Text: "<javascript>"},
			},
		},
		{
			Prompt: "What does CSS stand for?",
			Answers: []Answer{
				{Text: "Cascading Style Sheets", Correct: true},
				{Text: "Computer Style Sheets"},
				{Text: "Creative Style System"},
				{Text: "Colorful Style Sheets"},
			},
		},
		{
			Prompt: "Which property is used to change the background color in CSS?",
			Answers: []Answer{
				{Text: "bgcolor"},
				{Text: "background-color", Correct: true},
				{Text: "color"},
				{Text: "background"},
			},
		},
		{
			Prompt: "Which HTTP status code indicates that a requested page was not found?",
			Answers: []Answer{
				{Text: "200"},
				{Text: "301"},
				{Text: "404", Correct: true},
				{Text: "500"},
			},
		},
		{
			Prompt: "What is the primary purpose of the alt attribute in an <img> tag?",
			Answers: []Answer{
				{Text: "To provide a tooltip when hovering over the image"},
				{Text: "To specify the image's alignment on the page"},
				{Text: "To provide alternative text for screen readers", Correct: true},
				{Text: "To define the image's dimensions"},
			},
		},
	}
}
