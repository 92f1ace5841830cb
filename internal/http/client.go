package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"reqwestur/internal/model"
)

const (
	// MaxResponseSize is the default body limit, 50MB, to prevent memory exhaustion
	MaxResponseSize = 50 * 1024 * 1024

	// UserAgent is sent on every request
	UserAgent = "REQWESTUR"

	// FailureStatus is reported when the exchange failed before a status was received
	FailureStatus = http.StatusBadRequest
)

// Options configures a Client
type Options struct {
	// Identity is presented during the TLS handshake when set
	Identity *tls.Certificate

	// RootCAs overrides the system pool for server verification
	RootCAs *x509.CertPool

	// Timeout of zero leaves the transport defaults in place
	Timeout time.Duration

	// MaxResponseSize of zero means the package default
	MaxResponseSize int64

	Logger *zap.Logger
}

// Client wraps the standard http.Client with request/response normalization
type Client struct {
	client  *http.Client
	maxBody int64
	logger *zap.Logger
}

// NewClient creates a new HTTP client
func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.Identity != nil || opts.RootCAs != nil {
		tlsCfg := &tls.Config{RootCAs: opts.RootCAs}
		if opts.Identity != nil {
			tlsCfg.Certificates = []tls.Certificate{*opts.Identity}
		}
		transport.TLSClientConfig = tlsCfg
	}

	maxBody := opts.MaxResponseSize
	if maxBody <= 0 {
		maxBody = MaxResponseSize
	}

	return &Client{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		maxBody: maxBody,
		logger:  logger,
	}
}

// Build turns req into a transport request: method, URI, a fixed User-Agent,
// the user's headers in order and the encoded body unless the content type is empty.
func Build(ctx context.Context, req *model.Request) (*http.Request, error) {
	payload, err := EncodeBody(req)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		body = payload.Body
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method.String(), req.Address.URI, body)
	if err != nil {
		return nil, err
	}

	for _, h := range req.Headers {
		httpReq.Header.Add(h.Name, h.Value)
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", UserAgent)
	}
	if payload != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", payload.ContentType)
	}

	return httpReq, nil
}

// Do executes req and always returns a response. Transport failures are
// folded into a response carrying FailureStatus and the error text as body.
func (c *Client) Do(ctx context.Context, req *model.Request) model.Response {
	httpReq, err := Build(ctx, req)
	if err != nil {
		return failureResponse(err)
	}

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", httpReq.Method),
			zap.String("url", httpReq.URL.Redacted()),
			zap.Error(err))
		return failureResponse(err)
	}
	defer resp.Body.Close()

	// Read response body with size limit to prevent memory exhaustion
	limitedReader := io.LimitReader(resp.Body, c.maxBody+1)
	respBody, err := io.ReadAll(limitedReader)
	if err != nil {
		return failureResponse(fmt.Errorf("failed to read response body: %w", err))
	}
	truncated := int64(len(respBody)) > c.maxBody
	if truncated {
		respBody = respBody[:c.maxBody]
		c.logger.Warn("response body truncated", zap.Int64("limit", c.maxBody))
	}

	c.logger.Debug("request completed",
		zap.String("method", httpReq.Method),
		zap.String("url", httpReq.URL.Redacted()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	return model.Response{
		Status:    uint16(resp.StatusCode),
		Reason:    http.StatusText(resp.StatusCode),
		Headers:   flattenHeaders(resp.Header),
		Cookies:   cookieValues(resp),
		Body:      bodyText(respBody, truncated),
		Truncated: truncated,
	}
}

func failureResponse(err error) model.Response {
	return model.Response{
		Status:  FailureStatus,
		Reason:  http.StatusText(FailureStatus),
		Headers: []model.Pair{},
		Body:    PrettyJSON(err.Error()),
	}
}

// cookieValues returns each Set-Cookie as name=value, without its attributes
func cookieValues(resp *http.Response) []string {
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		return nil
	}
	out := make([]string, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, c.Name+"="+c.Value)
	}
	return out
}

// bodyText prettifies complete bodies. A cut body is no longer valid JSON,
// so it is kept as received.
func bodyText(body []byte, truncated bool) string {
	if truncated {
		return string(body)
	}
	return PrettyJSON(string(body))
}

// flattenHeaders returns one pair per header value, sorted by name
func flattenHeaders(h http.Header) []model.Pair {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]model.Pair, 0, len(keys))
	for _, k := range keys {
		for _, v := range h[k] {
			pairs = append(pairs, model.Pair{Name: strings.ToLower(k), Value: v})
		}
	}
	return pairs
}

// PrettyJSON re-indents s when it is valid JSON and returns it unchanged otherwise
func PrettyJSON(s string) string {
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(s), "", "  "); err != nil {
		// Not valid JSON, return as-is
		return s
	}
	return out.String()
}
