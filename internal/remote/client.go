// Package remote talks to the timesheet web application: a cookie session,
// form login on first use and CSRF-protected form posts.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Tiliavir/jbstime/internal/apperr"
)

// DefaultBaseURL is the timesheet site all paths are resolved against.
const DefaultBaseURL = "https://timetrack.jbecker.com"

const csrfCookie = "csrftoken"

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
	Cookies    []*http.Cookie
}

// Text returns the body as a string.
func (r *Response) Text() string { return string(r.Body) }

// CredentialsFunc supplies the username and password. It is only called when
// a login is actually needed, so it may prompt interactively.
type CredentialsFunc func() (username, password string, err error)

// Client is an authenticated client for the timesheet site. It is not safe
// for concurrent use.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	credentials CredentialsFunc
	state       authState
	log         *logrus.Entry
}

// Option configures a Client.
type Option func(*Client)

// WithCredentials sets the credentials provider used by the lazy login.
func WithCredentials(fn CredentialsFunc) Option {
	return func(c *Client) { c.credentials = fn }
}

// WithLogger sets the diagnostic logger.
func WithLogger(log *logrus.Entry) Option {
	return func(c *Client) { c.log = log }
}

// NewClient creates a client for the site at baseURL (DefaultBaseURL when
// empty).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", baseURL, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Jar: jar},
		log:        logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// resolve turns a site path into an absolute URL.
func (c *Client) resolve(path string) string {
	return c.baseURL.String() + path
}

// Get fetches path, logging in first if this client has not done so yet.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	if err := c.ensureLoggedIn(ctx); err != nil {
		return nil, err
	}
	return c.get(ctx, path)
}

// PostOption adjusts a form post.
type PostOption func(*postOptions)

type postOptions struct {
	referer string
	xhr     bool
}

// WithReferer fetches the CSRF token from, and sends as Referer, a page other
// than the post target.
func WithReferer(path string) PostOption {
	return func(o *postOptions) { o.referer = path }
}

// AsXHR marks the request as an XMLHttpRequest.
func AsXHR() PostOption {
	return func(o *postOptions) { o.xhr = true }
}

// Post submits form to path, logging in first if needed. The referer page is
// fetched first to obtain a fresh CSRF token.
func (c *Client) Post(ctx context.Context, path string, form url.Values, opts ...PostOption) (*Response, error) {
	if err := c.ensureLoggedIn(ctx); err != nil {
		return nil, err
	}
	o := postOptions{referer: path}
	for _, opt := range opts {
		opt(&o)
	}
	return c.post(ctx, path, form, o)
}

func (c *Client) get(ctx context.Context, path string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(path), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, path)
}

func (c *Client) post(ctx context.Context, path string, form url.Values, o postOptions) (*Response, error) {
	ref, err := c.get(ctx, o.referer)
	if err != nil {
		return nil, err
	}
	token := c.csrfToken(ref, o.referer)
	if token == "" {
		return nil, apperr.New(apperr.Unexpected, "no %s cookie returned by %s", csrfCookie, o.referer)
	}

	body := url.Values{}
	for k, v := range form {
		body[k] = append([]string(nil), v...)
	}
	body.Set("csrf_token", token)
	body.Set("csrfmiddlewaretoken", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(path), strings.NewReader(body.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-CSRFToken", token)
	req.Header.Set("Referer", c.resolve(o.referer))
	if o.xhr {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
	}
	return c.do(req, path)
}

// csrfToken reads the token from the response cookies, falling back to the
// jar when the server did not re-send it.
func (c *Client) csrfToken(resp *Response, path string) string {
	for _, ck := range resp.Cookies {
		if ck.Name == csrfCookie {
			return ck.Value
		}
	}
	u, err := url.Parse(c.resolve(path))
	if err != nil {
		return ""
	}
	for _, ck := range c.httpClient.Jar.Cookies(u) {
		if ck.Name == csrfCookie {
			return ck.Value
		}
	}
	return ""
}

func (c *Client) do(req *http.Request, path string) (*Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unexpected, err, "%s %s failed: %v", req.Method, path, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, apperr.Wrap(apperr.Unexpected, err, "reading response from %s: %v", path, err)
	}

	c.log.WithFields(logrus.Fields{
		"method": req.Method,
		"path":   path,
		"status": resp.StatusCode,
		"bytes":  len(body),
	}).Debug("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.New(apperr.Unexpected, "%s %s returned status %d", req.Method, path, resp.StatusCode)
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Cookies:    resp.Cookies(),
	}, nil
}
