// Package diag provides errors that carry two messages: a short one safe to
// show to whoever submitted the input that failed, and a fuller technical one
// for logs. Parser and semantic failures are reported this way so that an
// API client or REPL user sees "undeclared variable x" while the server log
// can carry the wrapped internal error alongside it.
package diag

import "fmt"

// userError pairs a technical Error() message with a shorter message fit to
// show the party that submitted the offending input.
type userError struct {
	msg    string
	public string
	wrap   error
}

func (e *userError) Error() string { return e.msg }

// Public returns the message safe to return to the input's submitter.
func (e *userError) Public() string { return e.public }

func (e *userError) Unwrap() error { return e.wrap }

// New returns an error whose technical message is technical and whose
// Public() message is public. If technical is empty, one is derived from
// public.
func New(public, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got diag error(%q)", public)
	}
	return &userError{msg: technical, public: public}
}

// Wrap returns a New error that also unwraps to err.
func Wrap(err error, public, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("got diag error(%q)", public)
	}
	return &userError{msg: technical, public: public, wrap: err}
}

// Public returns the message safe to show to whoever submitted the input
// that caused err. If err was not built by this package, its own Error()
// message is returned unchanged.
func Public(err error) string {
	if ue, ok := err.(*userError); ok {
		return ue.Public()
	}
	return err.Error()
}
