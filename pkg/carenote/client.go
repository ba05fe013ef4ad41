package carenote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/carenote/carenote-mcp/pkg/metrics"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// TokenSource supplies the bearer token for authenticated calls. An empty
// token is not an error at this layer; the request simply goes out
// unauthenticated and the backend decides.
type TokenSource interface {
	BearerToken() string
}

// Client is the typed gateway to the CareNote REST backend. It performs no
// retries, caching or backoff: transient failures surface immediately to
// the caller.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenSource
	logger  *logrus.Logger
}

type Option func(*Client)

func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func NewClient(baseURL string, opts ...Option) *Client {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.JSONFormatter{})

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do executes one request against the backend. It attaches the bearer
// token when one is held, records gateway metrics, and translates non-2xx
// responses into *APIError. A 204 yields a nil body.
func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s request", op)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.BearerToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		metrics.GatewayErrors.WithLabelValues(op, "transport").Inc()
		return nil, errors.Wrapf(err, "%s request failed", op)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.GatewayErrors.WithLabelValues(op, "transport").Inc()
		return nil, errors.Wrapf(err, "read %s response", op)
	}

	elapsed := time.Since(start)
	metrics.GatewayRequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())

	c.logger.WithFields(logrus.Fields{
		"op":         op,
		"status":     resp.StatusCode,
		"elapsed_ms": elapsed.Milliseconds(),
		"bytes":      len(raw),
	}).Debug("gateway call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.GatewayErrors.WithLabelValues(op, fmt.Sprintf("%d", resp.StatusCode)).Inc()
		return nil, newAPIError(resp.StatusCode, raw)
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	return raw, nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, out interface{}) error {
	raw, err := c.do(ctx, op, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	return decodeJSON(op, raw, out)
}

func (c *Client) sendJSON(ctx context.Context, op, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		bs, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "encode %s body", op)
		}
		body = bytes.NewReader(bs)
	}
	raw, err := c.do(ctx, op, method, path, body, "application/json")
	if err != nil {
		return err
	}
	return decodeJSON(op, raw, out)
}

func jsonBody(op string, v interface{}) (io.Reader, error) {
	bs, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s body", op)
	}
	return bytes.NewReader(bs), nil
}

func decodeJSON(op string, raw []byte, out interface{}) error {
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "decode %s response", op)
	}
	return nil
}

// sendMultipart uploads one or more local files under the "files" field,
// plus any extra form fields, and returns the raw response body.
func (c *Client) sendMultipart(ctx context.Context, op, path string, filePaths []string, fields map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, fp := range filePaths {
		f, err := os.Open(fp)
		if err != nil {
			return nil, errors.Wrapf(err, "open upload file %s", fp)
		}
		part, err := writer.CreateFormFile("files", filepath.Base(fp))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "write upload part for %s", fp)
		}
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, errors.Wrapf(err, "write form field %s", k)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "finalize multipart body")
	}

	return c.do(ctx, op, http.MethodPost, path, &buf, writer.FormDataContentType())
}
