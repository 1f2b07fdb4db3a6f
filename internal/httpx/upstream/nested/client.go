package nested

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "http://localhost:8080"
	defaultTimeout = 30 * time.Second

	postsPath = "/api/posts"

	// responses larger than this are not decoded
	maxBodyBytes = 1 << 20
)

// Client is a client for the Nested posts API
type Client struct {
	endpoint   string
	token      string
	timeout    time.Duration
	httpClient *http.Client
}

// ClientOption is a function that configures the Client
type ClientOption func(*Client)

// WithBaseURL points the client at a server root; posts go to {url}/api/posts
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.endpoint = strings.TrimRight(u, "/") + postsPath
	}
}

// WithEndpoint sets the full create-post URL
func WithEndpoint(u string) ClientOption {
	return func(c *Client) {
		c.endpoint = u
	}
}

// WithToken sets the bearer credential sent on every request
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout sets the per-request timeout; it also applies to a client given with WithHTTPClient
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets the HTTP client requests are sent with.
// The client is copied, so the caller's value is never modified.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a new posts API client
func New(opts ...ClientOption) *Client {
	c := &Client{
		endpoint: defaultBaseURL + postsPath,
		timeout:  defaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	httpClient := http.Client{}
	if c.httpClient != nil {
		httpClient = *c.httpClient
	}
	httpClient.Timeout = c.timeout
	c.httpClient = &httpClient

	return c
}

// Endpoint returns the URL posts are sent to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// ProtocolError is returned when the server answers with a non-2xx status
type ProtocolError struct {
	StatusCode int
	Reason     string
	Body       string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Reason)
}

// TransportError is returned when no response was received at all
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether the request failed because it timed out
func (e *TransportError) IsTimeout() bool {
	var netErr interface{ Timeout() bool }
	if errors.As(e.Err, &netErr) {
		return netErr.Timeout()
	}
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// CreatePostInput is the body of a create-post request
type CreatePostInput struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	SubName   string   `json:"subName"`
	PostType  string   `json:"postType"`
	NSFW      bool     `json:"nsfw"`
	Spoiler   bool     `json:"spoiler"`
	URL       string   `json:"url,omitempty"`
	Flair     string   `json:"flair,omitempty"`
	ImageURLs []string `json:"imageUrls,omitempty"`
}

// PostResponse is the post representation returned by the API
type PostResponse struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	PostType       string `json:"postType"`
	AuthorUsername string `json:"authorUsername"`
	SubName        string `json:"subName"`
	CreatedAt      string `json:"createdAt"`
	NSFW           bool   `json:"nsfw"`
	Spoiler        bool   `json:"spoiler"`
}

// CreatePostOutput is the result of a successful create-post request
type CreatePostOutput struct {
	StatusCode int
	Post       *PostResponse // nil when the body was not a post
}

// CreatePost submits one post.
// Only 2xx responses are a success; the body is decoded if it looks like a post.
func (c *Client) CreatePost(ctx context.Context, in CreatePostInput) (*CreatePostOutput, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encoding post: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	status, respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}

	out := &CreatePostOutput{StatusCode: status}

	var post PostResponse
	if err := json.Unmarshal(respBody, &post); err == nil && post.ID != "" {
		out.Post = &post
	}

	return out, nil
}

// do executes an HTTP request and classifies the result
func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Err: unwrapURLError(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, &TransportError{Err: fmt.Errorf("reading response body: %w", err)}
	}

	// redirects are followed by the http.Client; any other non-2xx is an error
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, body, &ProtocolError{
			StatusCode: resp.StatusCode,
			Reason:     reasonPhrase(resp),
			Body:       string(body),
		}
	}

	return resp.StatusCode, body, nil
}

// reasonPhrase extracts the server's reason phrase from the status line
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}

// unwrapURLError drops the "Post \"url\": " prefix net/http puts on transport errors
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
