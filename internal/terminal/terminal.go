// Package terminal plays the quiz over a line-oriented terminal.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/PoluyanbIch/GoQuiz/internal/quiz"
)

const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
	colorBold  = "\033[1m"

	checkMark = "✅"
	crossMark = "❌"

	barWidth = 20
)

type termView struct {
	mu       sync.Mutex
	out      io.Writer
	score    int
	answers  int
	finished chan struct{}
}

func (v *termView) QuestionChanged(q quiz.Question, index, total int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.answers = len(q.Answers)

	filled := quiz.ProgressPercent(index, total) * barWidth / 100
	bar := "[" + strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled) + "]"
	fmt.Fprintf(v.out, "\n%s Question %d of %d   Score: %d\n", bar, index+1, total, v.score)
	fmt.Fprintln(v.out, colorize(q.Prompt, colorBold+colorCyan))
	for i, a := range q.Answers {
		fmt.Fprintf(v.out, "     %d) %s\n", i+1, a.Text)
	}
	fmt.Fprintf(v.out, "Your answer (1-%d): ", len(q.Answers))
}

func (v *termView) Feedback(answers []quiz.AnswerFeedback) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, a := range answers {
		line := fmt.Sprintf("%d) %s", i+1, a.Text)
		switch {
		case a.Correct:
			line = checkMark + "  " + colorize(line, colorGreen)
		case a.Selected:
			line = crossMark + "  " + colorize(line, colorRed)
		default:
			line = "    " + line
		}
		fmt.Fprintln(v.out, " "+line)
	}
}

func (v *termView) ScoreChanged(score int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.score = score
}

func (v *termView) QuizFinished(score, total int, category quiz.Category) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, "\nYou answered %d out of %d questions correctly (%d%%).\n", score, total, quiz.Percentage(score, total))
	fmt.Fprintln(v.out, colorize(category.Message(), colorBold))
	fmt.Fprint(v.out, "Play again? [y/N]: ")
	select {
	case v.finished <- struct{}{}:
	default:
	}
}

func (v *termView) printf(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, format, args...)
}

func (v *termView) answerCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.answers
}

// Run plays the quiz reading answers from in until the user declines to play
// again, input ends or ctx is cancelled.
func Run(ctx context.Context, in io.Reader, out io.Writer, questions []quiz.Question, log logrus.FieldLogger, opts ...quiz.Option) error {
	view := &termView{out: out, finished: make(chan struct{}, 1)}
	opts = append([]quiz.Option{quiz.WithLogger(log)}, opts...)
	controller := quiz.NewController(questions, view, opts...)
	defer controller.Close()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(out, colorize("Quiz Time!", colorBold+colorCyan))
	if err := controller.Start(); err != nil {
		return errors.Wrap(err, "start quiz")
	}

	finished := false
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-view.finished:
			finished = true
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			select {
			case <-view.finished:
				finished = true
			default:
			}
			if finished {
				if !strings.EqualFold(line, "y") && !strings.EqualFold(line, "yes") {
					view.printf("Bye!\n")
					return nil
				}
				finished = false
				if err := controller.Reset(); err != nil {
					return errors.Wrap(err, "restart quiz")
				}
				continue
			}
			submit(controller, view, line)
		}
	}
}

func submit(controller *quiz.Controller, view *termView, line string) {
	n, err := strconv.Atoi(line)
	if err != nil {
		view.printf("Type the number of your answer (1-%d): ", view.answerCount())
		return
	}

	err = controller.SubmitAnswer(n - 1)
	switch {
	case err == nil:
	case errors.Is(err, quiz.ErrInvalidArgument):
		view.printf("Pick a number between 1 and %d: ", view.answerCount())
	case errors.Is(err, quiz.ErrInputLocked):
		view.printf("Wait for the next question.\n")
	}
}

func colorize(s, color string) string {
	if color == "" {
		return s
	}
	return color + s + colorReset
}
