package slides

import "fmt"

// IndexLoadError reports a failed index load. Status is set for a non-2xx
// response; otherwise Err holds the transport, resolution or parse cause.
type IndexLoadError struct {
	URL    string
	Status int
	Err    error
}

func (e *IndexLoadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("loading slide index %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("loading slide index %s: %v", e.URL, e.Err)
}

func (e *IndexLoadError) Unwrap() error { return e.Err }

// FragmentLoadError reports a failed fragment load for one slide path.
type FragmentLoadError struct {
	Path   string
	URL    string
	Status int
	Err    error
}

func (e *FragmentLoadError) Error() string {
	target := e.URL
	if target == "" {
		target = e.Path
	}
	if e.Status != 0 {
		return fmt.Sprintf("loading fragment %s: status %d", target, e.Status)
	}
	return fmt.Sprintf("loading fragment %s: %v", target, e.Err)
}

func (e *FragmentLoadError) Unwrap() error { return e.Err }
