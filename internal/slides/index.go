package slides

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DefaultIndexPath is the well-known location of the index under the base URL.
const DefaultIndexPath = "/slides/query-index.json"

// IndexFetcher loads the slide index. It holds no state between calls.
type IndexFetcher struct {
	up      *Upstream
	baseURL string
	path    string
}

// NewIndexFetcher returns a fetcher for baseURL joined with indexPath. An
// empty baseURL keeps the index on the upstream origin.
func NewIndexFetcher(up *Upstream, baseURL, indexPath string) *IndexFetcher {
	if indexPath == "" {
		indexPath = DefaultIndexPath
	}
	return &IndexFetcher{up: up, baseURL: baseURL, path: indexPath}
}

// Ref returns the unresolved index reference.
func (f *IndexFetcher) Ref() string {
	return f.baseURL + f.path
}

// Load fetches and decodes the index. Entries are returned in source order
// without filtering or validation.
func (f *IndexFetcher) Load(ctx context.Context) (SlideIndex, error) {
	target, err := f.up.Resolve(f.Ref())
	if err != nil {
		return nil, &IndexLoadError{URL: f.Ref(), Err: err}
	}

	resp, err := f.up.get(ctx, target, "application/json")
	if err != nil {
		return nil, &IndexLoadError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		io.Copy(io.Discard, resp.Body)
		return nil, &IndexLoadError{URL: target, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &IndexLoadError{URL: target, Err: fmt.Errorf("reading body: %w", err)}
	}

	index, err := decodeIndex(body)
	if err != nil {
		return nil, &IndexLoadError{URL: target, Err: err}
	}

	f.up.logger.Debug("slide index loaded", "url", target, "slides", len(index))
	return index, nil
}

func decodeIndex(body []byte) (SlideIndex, error) {
	var doc indexDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decoding index: %w", err)
	}

	data := bytes.TrimSpace(doc.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return SlideIndex{}, nil
	}
	if data[0] != '[' {
		return nil, fmt.Errorf("decoding index: data is not an array")
	}

	var index SlideIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("decoding index entries: %w", err)
	}
	if index == nil {
		index = SlideIndex{}
	}
	return index, nil
}

// statusText is used in log lines for failed responses.
func statusText(code int) string {
	return fmt.Sprintf("%d %s", code, http.StatusText(code))
}
