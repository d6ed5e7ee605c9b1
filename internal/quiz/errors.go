package quiz

import "github.com/pkg/errors"

var (
	ErrConfiguration   = errors.New("invalid quiz configuration")
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInputLocked reports a submission that was ignored because feedback
	// for the current question is still showing or the quiz has finished.
	ErrInputLocked = errors.New("input locked")
	ErrNotStarted  = errors.New("quiz not started")
	// ErrStaleQuestion reports an answer aimed at a question that is no
	// longer the current one.
	ErrStaleQuestion = errors.New("stale question")
)
