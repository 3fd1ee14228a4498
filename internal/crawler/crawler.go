
package crawler

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

var ErrInvalidURL = errors.New("invalid url: must be an absolute http(s) url")

type FailureKind string

const (
	FailureTimeout     FailureKind = "timeout"
	FailureDNS         FailureKind = "dns"
	FailureNetwork     FailureKind = "network"
	FailureStatus      FailureKind = "status"
	FailureContentType FailureKind = "content_type"
	FailureDecode      FailureKind = "decode"
)

// FetchError describes why a page could not be retrieved.
type FetchError struct {
	Kind       FailureKind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FailureStatus:
		return fmt.Sprintf("fetch %s: http status %d", e.URL, e.StatusCode)
	case FailureTimeout:
		return fmt.Sprintf("fetch %s: timed out", e.URL)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Response is a successfully fetched HTML document. Body is capped at the
// client's size limit and must be closed by the caller.
type Response struct {
	Body        io.ReadCloser
	FinalURL    string
	ContentType string
	StatusCode  int
	Elapsed     time.Duration
}

type HTTPClient struct {
	client    *http.Client
	sizeCap   int64
	userAgent string
}

func NewHTTPClient(timeout, dialTimeout time.Duration, sizeCap int64, userAgent string) *HTTPClient {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		// gzip is negotiated and decoded explicitly in Fetch
		DisableCompression: true,
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPClient{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		sizeCap:   sizeCap,
		userAgent: userAgent,
	}
}

// ValidateURL accepts only absolute http and https URLs.
func ValidateURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return nil, ErrInvalidURL
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u, nil
	}
	return nil, ErrInvalidURL
}

func (h *HTTPClient) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	start := time.Now()
	u, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, ErrInvalidURL
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, classify(u.String(), err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, &FetchError{Kind: FailureStatus, URL: u.String(), StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType != "" && mediaType != "text/html" && mediaType != "application/xhtml+xml" {
		// servers that omit the header are given the benefit of the doubt
		resp.Body.Close()
		return nil, &FetchError{Kind: FailureContentType, URL: u.String(), Err: fmt.Errorf("unexpected content type %q", mediaType)}
	}

	var body io.ReadCloser = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, &FetchError{Kind: FailureDecode, URL: u.String(), Err: err}
		}
		body = &gzipBody{Reader: gz, raw: resp.Body}
	}

	return &Response{
		Body:        &limitedBody{Reader: io.LimitReader(body, h.sizeCap), closer: body},
		FinalURL:    resp.Request.URL.String(),
		ContentType: contentType,
		StatusCode:  resp.StatusCode,
		Elapsed:     time.Since(start),
	}, nil
}

func classify(rawURL string, err error) error {
	var dnsErr *net.DNSError
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &FetchError{Kind: FailureTimeout, URL: rawURL, Err: err}
	case errors.As(err, &dnsErr):
		return &FetchError{Kind: FailureDNS, URL: rawURL, Err: err}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &FetchError{Kind: FailureTimeout, URL: rawURL, Err: err}
	}
	return &FetchError{Kind: FailureNetwork, URL: rawURL, Err: err}
}

type gzipBody struct {
	*gzip.Reader
	raw io.Closer
}

func (g *gzipBody) Close() error {
	g.Reader.Close()
	return g.raw.Close()
}

type limitedBody struct {
	io.Reader
	closer io.Closer
}

func (l *limitedBody) Close() error { return l.closer.Close() }
