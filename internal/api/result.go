package api

// SuccessCode is the only envelope code treated as success
const SuccessCode = 200

// Envelope is the backend's response wrapper
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Result is a decoded envelope: either Ok with data, or Err with the backend's code and message
type Result[T any] struct {
	ok      bool
	value   T
	code    int
	message string
}

// Ok wraps a successful value
func Ok[T any](value T) Result[T] {
	return Result[T]{ok: true, value: value, code: SuccessCode}
}

// Err wraps a backend rejection
func Err[T any](code int, message string) Result[T] {
	return Result[T]{code: code, message: message}
}

// Result converts the envelope, treating any code other than SuccessCode as Err
func (e Envelope[T]) Result() Result[T] {
	if e.Code != SuccessCode {
		return Err[T](e.Code, e.Message)
	}
	return Ok(e.Data)
}

func (r Result[T]) IsOk() bool      { return r.ok }
func (r Result[T]) Code() int       { return r.code }
func (r Result[T]) Message() string { return r.message }

// Value returns the data and whether the result is Ok
func (r Result[T]) Value() (T, bool) {
	return r.value, r.ok
}

// Unwrap returns the data, or a *RejectedError of kind ErrOperationRejected
func (r Result[T]) Unwrap() (T, error) {
	if r.ok {
		return r.value, nil
	}
	var zero T
	return zero, &RejectedError{Kind: ErrOperationRejected, Code: r.code, Message: r.message}
}
