package widget

// Status is the lifecycle position of a FetchState.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// FetchState is the lifecycle of one request: idle, loading, a value, or a
// user-facing failure reason with its underlying cause.
type FetchState[T any] struct {
	status Status
	value  T
	reason string
	err    error
}

func Idle[T any]() FetchState[T] { return FetchState[T]{status: StatusIdle} }

func Loading[T any]() FetchState[T] { return FetchState[T]{status: StatusLoading} }

func Succeeded[T any](v T) FetchState[T] { return FetchState[T]{status: StatusSuccess, value: v} }

func Failed[T any](reason string, err error) FetchState[T] {
	return FetchState[T]{status: StatusFailure, reason: reason, err: err}
}

func (s FetchState[T]) Status() Status { return s.status }

// Value returns the loaded value and whether the state is Success.
func (s FetchState[T]) Value() (T, bool) {
	return s.value, s.status == StatusSuccess
}

// Reason is the user-facing failure message.
func (s FetchState[T]) Reason() string { return s.reason }

// Err is the cause behind a failure.
func (s FetchState[T]) Err() error { return s.err }

// Settled reports whether the request has resolved either way.
func (s FetchState[T]) Settled() bool {
	return s.status == StatusSuccess || s.status == StatusFailure
}
