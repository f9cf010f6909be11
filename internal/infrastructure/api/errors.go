package api

import "fmt"

// RequestError is the single failure kind every API call surfaces. Network
// errors, non-2xx statuses and decode failures are deliberately not told
// apart: callers only get "the request for this resource failed".
type RequestError struct {
	Resource   string
	StatusCode int    // 0 when no response was received
	Message    string // server-provided message, when one was parseable
	Err        error  // underlying transport or decode error, when any
}

func (e *RequestError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s request failed: %s", e.Resource, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s request failed with status %d", e.Resource, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s request failed: %v", e.Resource, e.Err)
	default:
		return fmt.Sprintf("%s request failed", e.Resource)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
