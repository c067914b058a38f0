package action

import "encoding/json"

// Result is the envelope every gateway operation returns.
//
// On success Data is set (a nil pointer means "no such record") and Message
// is empty. On failure Data is the zero value and Message holds a fixed,
// human-readable text; error detail stays in the logs.
type Result[T any] struct {
	Success bool
	Data    T
	Message string
	// Matched is set by update operations: the number of records the lookup matched.
	Matched *int64

	configErr error
}

// Ok builds a success envelope.
func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail builds a failure envelope.
func Fail[T any](message string) Result[T] {
	return Result[T]{Message: message}
}

// ConfigError returns the configuration error behind a failure, if any.
// It lets the outermost layer treat a misconfigured deployment differently
// from a request that failed; its text is never meant for end users.
func (r Result[T]) ConfigError() error {
	return r.configErr
}

type successEnvelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Matched *int64 `json:"matched,omitempty"`
}

type failureEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MarshalJSON emits {success, data[, matched]} or {success, message}, never both.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(failureEnvelope{Success: false, Message: r.Message})
	}
	return json.Marshal(successEnvelope[T]{Success: true, Data: r.Data, Matched: r.Matched})
}
