package pipeline

import "fmt"

// ModelError indicates the remote generation call itself failed
// (network, auth, quota, service error). There is no retry: a failed
// call aborts the run for that upload.
type ModelError struct {
	Err error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("AI parsing error: %v", e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// ParseError indicates the model responded but the response was not
// valid JSON after fence stripping. Raw holds the model's full
// response for logging; it is deliberately excluded from Error() so
// it never reaches the user.
type ParseError struct {
	Err error
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse AI response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
