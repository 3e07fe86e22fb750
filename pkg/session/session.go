// Package session provides the one HTTP session every scan component
// shares. The session carries cookies, proxy settings, and the scanner
// User-Agent, and is safe for concurrent use by all workers: state is
// established before the scan starts and only read afterwards, and the
// underlying transport pools connections per host.
package session

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/webscan/webscan/pkg/defaults"
	"github.com/webscan/webscan/pkg/ui"
)

// Config holds session construction options. Zero values fall back to
// scanner defaults.
type Config struct {
	// Timeout bounds each request end to end.
	Timeout time.Duration

	// Proxy is an optional HTTP/HTTPS proxy URL. Malformed values are
	// ignored rather than fatal, matching the tolerant posture of the
	// rest of the scanner.
	Proxy string

	// UserAgent overrides the default scanner User-Agent.
	UserAgent string

	// SkipVerify disables TLS certificate verification. Scanning targets
	// with self-signed certificates is routine, so this defaults on.
	SkipVerify bool
}

// DefaultConfig returns the session defaults used by the orchestrator.
func DefaultConfig() Config {
	return Config{
		Timeout:    defaults.RequestTimeout,
		UserAgent:  ui.UserAgent(),
		SkipVerify: true,
	}
}

// Session is the shared HTTP session. Client follows redirects (bounded);
// NoRedirectClient returns redirect responses as-is for probes whose
// oracle is the redirect itself. Both share one pooled transport and one
// cookie jar.
type Session struct {
	Client           *http.Client
	NoRedirectClient *http.Client

	userAgent string
	headers   map[string]string
}

// New builds a session from cfg.
func New(cfg Config) *Session {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.RequestTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = ui.UserAgent()
	}

	dialer := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 25,
		MaxConnsPerHost:     25,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: cfg.SkipVerify},
	}
	if cfg.Proxy != "" {
		if proxyURL, err := url.Parse(cfg.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	jar, _ := cookiejar.New(nil)

	s := &Session{
		Client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
			Jar:       jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		NoRedirectClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
			Jar:       jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: cfg.UserAgent,
		headers:   map[string]string{},
	}
	return s
}

// SeedCookies applies a raw cookie string to the session jar for the
// given target URL. Malformed fragments are skipped.
func (s *Session) SeedCookies(target, rawCookies string) {
	if rawCookies == "" {
		return
	}
	u, err := url.Parse(target)
	if err != nil {
		return
	}
	cookies := ParseCookieString(rawCookies)
	if len(cookies) > 0 {
		s.Client.Jar.SetCookies(u, cookies)
	}
}

// SetHeader adds a header sent with every session request.
func (s *Session) SetHeader(name, value string) {
	s.headers[name] = value
}

// UserAgent returns the session's User-Agent string.
func (s *Session) UserAgent() string { return s.userAgent }

// NewRequest builds a request with the session's identity headers applied.
func (s *Session) NewRequest(ctx context.Context, method, rawURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// Get issues a GET through the redirect-following client.
func (s *Session) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := s.NewRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return s.Client.Do(req)
}

// PostForm issues a URL-encoded form POST through the redirect-following
// client.
func (s *Session) PostForm(ctx context.Context, rawURL string, form url.Values) (*http.Response, error) {
	req, err := s.NewRequest(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", defaults.ContentTypeForm)
	return s.Client.Do(req)
}

// ParseCookieString splits a "name=value; name2=value2" string into
// cookies, skipping fragments without an equals sign.
func ParseCookieString(raw string) []*http.Cookie {
	var cookies []*http.Cookie
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		name, value, ok := strings.Cut(part, "=")
		if !ok || name == "" {
			continue
		}
		cookies = append(cookies, &http.Cookie{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)})
	}
	return cookies
}
