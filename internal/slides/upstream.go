package slides

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Doer is the HTTP capability the fetchers are given. *http.Client
// satisfies it; tests substitute a DoerFunc.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to Doer.
type DoerFunc func(req *http.Request) (*http.Response, error)

func (f DoerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// NewHTTPClient returns the default Doer. A zero timeout leaves the
// transport's own behaviour in place.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// UpstreamOptions configures an Upstream.
type UpstreamOptions struct {
	// Origin is the absolute URL relative references resolve against.
	Origin string
	// RateLimit is requests per second; 0 disables throttling.
	RateLimit float64
	Burst     int
	Logger    *slog.Logger
}

// Upstream is the origin serving the index and fragments.
type Upstream struct {
	doer    Doer
	origin  *url.URL
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewUpstream validates opts and returns an Upstream issuing requests
// through doer.
func NewUpstream(doer Doer, opts UpstreamOptions) (*Upstream, error) {
	if doer == nil {
		doer = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	u := &Upstream{doer: doer, logger: logger}

	if opts.Origin != "" {
		origin, err := url.Parse(opts.Origin)
		if err != nil {
			return nil, fmt.Errorf("parsing origin %q: %w", opts.Origin, err)
		}
		if !origin.IsAbs() || origin.Host == "" {
			return nil, fmt.Errorf("origin %q must be an absolute URL", opts.Origin)
		}
		u.origin = origin
	}

	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		u.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return u, nil
}

// Origin returns the configured origin, or "" if none.
func (u *Upstream) Origin() string {
	if u.origin == nil {
		return ""
	}
	return u.origin.String()
}

// Resolve turns a reference into an absolute URL. Absolute references are
// returned as given; relative ones resolve against the origin.
func (u *Upstream) Resolve(ref string) (string, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parsing reference %q: %w", ref, err)
	}
	if parsed.IsAbs() {
		return parsed.String(), nil
	}
	if u.origin == nil {
		return "", fmt.Errorf("relative reference %q with no origin configured", ref)
	}
	return u.origin.ResolveReference(parsed).String(), nil
}

// get issues a GET for an already resolved URL. The caller closes the body.
func (u *Upstream) get(ctx context.Context, target, accept string) (*http.Response, error) {
	if u.limiter != nil {
		if err := u.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	u.logger.Debug("upstream request", "url", target)
	return u.doer.Do(req)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
