package decision

import "fmt"

// AuthError means the endpoint rejected our credentials. There is no point
// retrying, the loop treats it as fatal.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication rejected (HTTP %d)", e.Status)
}

// RateLimitError means the endpoint is throttling us. The client retries a
// bounded number of times with a fixed delay.
type RateLimitError struct {
	Status int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited (HTTP %d)", e.Status)
}

// TransientError covers network failures and server-side errors. The client
// retries with a doubling backoff; once the budget is spent the loop skips
// the iteration.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient failure: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// MalformedError means the endpoint answered but the decision payload could
// not be parsed. Never retried; the loop skips the iteration with a no-op.
type MalformedError struct {
	Reason string
	Raw    string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed decision: %s", e.Reason)
}
