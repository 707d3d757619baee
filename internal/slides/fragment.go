package slides

import (
	"context"
	"fmt"
	"io"
)

// FragmentFetcher loads the detail markup for a slide. It is stateless and
// safe for concurrent use by independent panels.
type FragmentFetcher struct {
	up        *Upstream
	sanitizer *Sanitizer
}

// NewFragmentFetcher returns a fetcher that passes every body through
// sanitizer. A nil sanitizer trusts the upstream markup.
func NewFragmentFetcher(up *Upstream, sanitizer *Sanitizer) *FragmentFetcher {
	if sanitizer == nil {
		sanitizer = &Sanitizer{name: PolicyTrusted}
	}
	return &FragmentFetcher{up: up, sanitizer: sanitizer}
}

// Load fetches the fragment at path. The path is only resolved against the
// upstream origin, never rewritten.
func (f *FragmentFetcher) Load(ctx context.Context, path string) (SanitizedHTML, error) {
	if path == "" {
		return SanitizedHTML{}, &FragmentLoadError{Path: path, Err: fmt.Errorf("empty path")}
	}

	target, err := f.up.Resolve(path)
	if err != nil {
		return SanitizedHTML{}, &FragmentLoadError{Path: path, Err: err}
	}

	resp, err := f.up.get(ctx, target, "text/html")
	if err != nil {
		return SanitizedHTML{}, &FragmentLoadError{Path: path, URL: target, Err: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		io.Copy(io.Discard, resp.Body)
		f.up.logger.Warn("fragment request failed", "path", path, "status", statusText(resp.StatusCode))
		return SanitizedHTML{}, &FragmentLoadError{Path: path, URL: target, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return SanitizedHTML{}, &FragmentLoadError{Path: path, URL: target, Err: fmt.Errorf("reading body: %w", err)}
	}

	return f.sanitizer.Sanitize(string(body)), nil
}
