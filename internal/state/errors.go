package state

import "errors"

// ErrUserNotFound is the negative result of a detail fetch. It is a normal
// outcome, not a transport fault.
var ErrUserNotFound = errors.New("user not found")

// FailureKind classifies a failure stored in a slice's Err field.
type FailureKind int

const (
	LoadFailure FailureKind = iota + 1
	AddFailure
	UpdateFailure
	DeleteFailure
	DetailNotFound
	DetailFailure
)

func (k FailureKind) String() string {
	switch k {
	case LoadFailure:
		return "load failed"
	case AddFailure:
		return "add failed"
	case UpdateFailure:
		return "update failed"
	case DeleteFailure:
		return "delete failed"
	case DetailNotFound:
		return "detail not found"
	case DetailFailure:
		return "detail fetch failed"
	default:
		return "unknown failure"
	}
}

// Failure wraps the error payload of a failure action with its kind and the
// action that carried it.
type Failure struct {
	Kind   FailureKind
	Action string
	Err    error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Kind.String()
	}
	return f.Kind.String() + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error { return f.Err }

// KindOf returns the failure kind of err, or 0 if err is not a *Failure.
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return 0
}

func newFailure(kind FailureKind, a Action, err error) error {
	return &Failure{Kind: kind, Action: a.Type(), Err: err}
}

func detailFailure(a LoadUserDetailsFailure) error {
	if errors.Is(a.Err, ErrUserNotFound) {
		return newFailure(DetailNotFound, a, a.Err)
	}
	return newFailure(DetailFailure, a, a.Err)
}
