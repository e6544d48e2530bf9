package aoai

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the CLIs can map it to a distinct exit code.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfig
	KindAuth
	KindUpload
	KindSubmission
	KindPollTimeout
	KindRetrieval
	KindCompletion
)

// String returns the stable name used in log output.
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindAuth:
		return "auth"
	case KindUpload:
		return "upload"
	case KindSubmission:
		return "submission"
	case KindPollTimeout:
		return "poll_timeout"
	case KindRetrieval:
		return "retrieval"
	case KindCompletion:
		return "completion"
	default:
		return "unknown"
	}
}

// Error tags an underlying error with the operation that produced it and a Kind.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E wraps err with an operation name and a Kind. A nil err returns nil.
func E(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind of the outermost tagged error in err's chain,
// or KindUnknown when none is present.
func KindOf(err error) Kind {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}
	return KindUnknown
}

// ExitCode maps an error to the process exit code contract. Configuration,
// authentication and untagged failures share code 1; every remaining kind
// gets its own code so callers can distinguish where the sequence broke.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case KindUpload:
		return 2
	case KindSubmission:
		return 3
	case KindPollTimeout:
		return 4
	case KindRetrieval:
		return 5
	case KindCompletion:
		return 6
	default:
		return 1
	}
}
