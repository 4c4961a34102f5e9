package transports

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPTransport talks to the admin HTTP API.
type HTTPTransport struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPTransport returns a transport rooted at baseURL.
func NewHTTPTransport(baseURL string) *HTTPTransport {
	return &HTTPTransport{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 45 * time.Second},
	}
}

// Log returns the retained content from global offset off. A positive wait
// long-polls for the next append when off is at the end of the log.
func (t *HTTPTransport) Log(ctx context.Context, off int64, wait time.Duration) ([]byte, error) {
	path := "/v1/log?offset=" + strconv.FormatInt(off, 10)
	if wait > 0 {
		path += "&wait=" + wait.String()
	}
	return t.get(ctx, path)
}

// Stats returns the decoded /v1/stats document.
func (t *HTTPTransport) Stats(ctx context.Context) (map[string]any, error) {
	body, err := t.get(ctx, "/v1/stats")
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return out, nil
}

func (t *HTTPTransport) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return body, nil
}
