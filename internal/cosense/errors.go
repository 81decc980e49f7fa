package cosense

import "fmt"

// RemoteError is the structured error body returned by the REST API, for example
// {"name":"NotFoundError","message":"Page not found."}.
type RemoteError struct {
	Name       string `json:"name"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return e.Name
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// PushError is a failure reported by the commit channel. The remote only gives us
// free text, so the error is string-shaped.
type PushError string

func (e PushError) Error() string {
	return string(e)
}
