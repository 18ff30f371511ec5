// Package apiclient provides the HTTP transport used for every call to the resume analysis backend.
// It encodes JSON or multipart bodies, normalizes non-2xx responses into *HTTPError and
// network failures into *NetworkError. It never retries and never caches.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/resume-analyzer/internal/logging"
)

// DefaultBaseURL is the backend address used when nothing else is configured.
const DefaultBaseURL = "http://localhost:8000"

// DefaultUserAgent is the user agent string for backend requests.
const DefaultUserAgent = "ResumeAnalyzer/1.0"

// RequestIDHeader carries a per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// ResponseType selects how a successful response body is interpreted.
type ResponseType int

const (
	// ResponseJSON expects a JSON payload.
	ResponseJSON ResponseType = iota
	// ResponseBinary returns the raw bytes, e.g. a PDF download.
	ResponseBinary
)

// RequestOptions configures a single request.
type RequestOptions struct {
	Headers      map[string]string
	ResponseType ResponseType
}

// MultipartFile is a request body sent as multipart/form-data.
type MultipartFile struct {
	FieldName   string // Defaults to "file"
	FileName    string
	ContentType string
	Data        []byte
}

// Response is a successful backend response.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Decode unmarshals a JSON response body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response JSON: %w", err)
	}
	return nil
}

// Options configures the client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration // Zero leaves the transport default in place
	UserAgent string
	Headers   map[string]string
	Logger    *logrus.Logger
	HTTP      *http.Client // Overrides the constructed client when set
}

// DefaultOptions returns the defaults for a local development backend.
func DefaultOptions() *Options {
	return &Options{
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
	}
}

// Client sends requests to the backend.
type Client struct {
	baseURL   string
	userAgent string
	headers   map[string]string
	http      *http.Client
	logger    *logrus.Logger
}

// New creates a client. A nil opts uses DefaultOptions.
func New(opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	httpClient := opts.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		headers:   opts.Headers,
		http:      httpClient,
		logger:    logger,
	}
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Post sends body to endpoint. A *MultipartFile body is sent as multipart/form-data,
// anything else as JSON.
func (c *Client) Post(ctx context.Context, endpoint string, body any, opts *RequestOptions) (*Response, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}

	var (
		reader      io.Reader
		contentType string
	)
	if file, ok := body.(*MultipartFile); ok {
		buf, ct, err := encodeMultipart(file)
		if err != nil {
			return nil, &NetworkError{URL: c.url(endpoint), Message: "failed to encode multipart body", Cause: err}
		}
		reader, contentType = buf, ct
	} else {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &NetworkError{URL: c.url(endpoint), Message: "failed to encode JSON body", Cause: err}
		}
		reader, contentType = bytes.NewReader(data), "application/json"
	}

	return c.do(ctx, http.MethodPost, endpoint, reader, contentType, opts)
}

// Get fetches endpoint and expects a JSON response.
func (c *Client) Get(ctx context.Context, endpoint string) (*Response, error) {
	return c.do(ctx, http.MethodGet, endpoint, nil, "", &RequestOptions{})
}

func (c *Client) url(endpoint string) string {
	return c.baseURL + endpoint
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, contentType string, opts *RequestOptions) (*Response, error) {
	urlStr := c.url(endpoint)
	requestID := uuid.NewString()
	log := c.logger.WithFields(logrus.Fields{
		"method":     method,
		"endpoint":   endpoint,
		"request_id": requestID,
	})

	req, err := http.NewRequestWithContext(ctx, method, urlStr, body)
	if err != nil {
		return nil, &NetworkError{URL: urlStr, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if opts.ResponseType == ResponseJSON {
		req.Header.Set("Accept", "application/json")
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Warn("backend request failed")
		return nil, &NetworkError{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	log = log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
		"bytes":    len(bodyBytes),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := newHTTPError(urlStr, resp.StatusCode, bodyBytes)
		log.WithField("detail", httpErr.Detail).Warn("backend returned an error status")
		return nil, httpErr
	}

	log.Debug("backend request completed")

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        bodyBytes,
	}, nil
}

func encodeMultipart(file *MultipartFile) (*bytes.Buffer, string, error) {
	fieldName := file.FieldName
	if fieldName == "" {
		fieldName = "file"
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fieldName, file.FileName))
	if file.ContentType != "" {
		header.Set("Content-Type", file.ContentType)
	} else {
		header.Set("Content-Type", "application/octet-stream")
	}

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf, w.FormDataContentType(), nil
}
