package dropbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// Endpoint base URLs. RPC calls (JSON in, JSON out) go to the api host;
// calls that carry file content go to the content host with the request
// arguments in the Dropbox-API-Arg header.
const (
	DefaultAPIURL     = "https://api.dropboxapi.com/2"
	DefaultContentURL = "https://content.dropboxapi.com/2"

	apiArgHeader = "Dropbox-API-Arg"
	userAgent    = "dropsync/0.1"
)

// Client is an HTTP client for the Dropbox API. It handles request
// construction, authentication, and error classification. It does not
// retry: a failed pipeline stage is re-triggered externally, and an
// in-process retry would only mask a broken run.
type Client struct {
	apiURL     string
	contentURL string
	httpClient *http.Client
	token      TokenSource
	logger     *slog.Logger
}

// NewClient creates a Dropbox API client. Empty URLs and a nil HTTP
// client fall back to the production endpoints and http.DefaultClient.
func NewClient(apiURL, contentURL string, httpClient *http.Client, token TokenSource, logger *slog.Logger) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	if contentURL == "" {
		contentURL = DefaultContentURL
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		apiURL:     apiURL,
		contentURL: contentURL,
		httpClient: httpClient,
		token:      token,
		logger:     logger,
	}
}

// rpc executes a JSON-in, JSON-out call against the RPC endpoint and
// decodes the response into out.
func (c *Client) rpc(ctx context.Context, path string, arg, out any) error {
	body, err := json.Marshal(arg)
	if err != nil {
		return fmt.Errorf("dropbox: marshaling %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("dropbox: creating %s request: %w", path, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.send(req, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if decErr := json.NewDecoder(resp.Body).Decode(out); decErr != nil {
		return fmt.Errorf("dropbox: decoding %s response: %w", path, decErr)
	}

	return nil
}

// content executes a call against the content endpoint. The request
// arguments travel in the Dropbox-API-Arg header; body carries the file
// bytes for uploads (http.NoBody for downloads). The caller is
// responsible for closing the response body on success.
func (c *Client) content(ctx context.Context, path string, arg any, body io.Reader, size int64) (*http.Response, error) {
	argJSON, err := json.Marshal(arg)
	if err != nil {
		return nil, fmt.Errorf("dropbox: marshaling %s arg: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.contentURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("dropbox: creating %s request: %w", path, err)
	}

	req.Header.Set(apiArgHeader, string(argJSON))

	if body != http.NoBody {
		req.Header.Set("Content-Type", "application/octet-stream")
		req.ContentLength = size
	}

	return c.send(req, path)
}

// send authenticates and executes a prepared request, classifying any
// non-2xx response. On success the caller owns the response body.
func (c *Client) send(req *http.Request, path string) (*http.Response, error) {
	tok, err := c.token.Token()
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)

		return nil, fmt.Errorf("dropbox: %s request failed: %w", path, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		return nil, c.apiError(resp, path)
	}

	c.logger.Debug("request succeeded",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
	)

	return resp, nil
}

// errorResponse is the JSON error envelope the API returns on failure.
type errorResponse struct {
	ErrorSummary string `json:"error_summary"`
}

// apiError reads an error response body and builds an APIError. Bodies
// that are not the standard JSON envelope (e.g. HTML from a proxy) are
// used verbatim as the summary.
func (c *Client) apiError(resp *http.Response, path string) error {
	raw, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		raw = []byte("(failed to read response body)")
	}

	summary := string(raw)

	var envelope errorResponse
	if json.Unmarshal(raw, &envelope) == nil && envelope.ErrorSummary != "" {
		summary = envelope.ErrorSummary
	}

	c.logger.Error("api error",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.String("summary", summary),
	)

	return &APIError{
		StatusCode: resp.StatusCode,
		Summary:    summary,
		Err:        classify(resp.StatusCode, summary),
	}
}
