package bitbucket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/oauth2"

	"bbsync/internal/log"
	"bbsync/internal/metrics"
)

// Getter issues a single GET against the server. path is relative to the base URL
// and already carries its query.
type Getter interface {
	Get(ctx context.Context, path string) (Response, error)
}

type Response struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (r Response) StatusText() string {
	if r.Status != "" {
		return r.Status
	}
	return fmt.Sprintf("%d %s", r.StatusCode, http.StatusText(r.StatusCode))
}

// TransportError is returned when no response was received.
type TransportError struct {
	URL     string
	Err     error
	Timeout bool
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

func NewClient(conn Connection, m *metrics.Metrics) *Client {
	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = conn.HTTPTimeout

	client := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(conn.BaseURL), "/"),
		httpClient: httpClient,
		metrics:    m,
	}
	if conn.Token != "" {
		oauthClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: conn.Token}))
		if transport, ok := oauthClient.Transport.(*oauth2.Transport); ok {
			transport.Base = httpClient.Transport
		}
		oauthClient.Timeout = conn.HTTPTimeout
		client.httpClient = oauthClient
	} else if conn.hasBasicAuth() {
		client.username = conn.Username
		client.password = conn.Password
	}
	return client
}

func (c *Client) Get(ctx context.Context, path string) (Response, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Accept", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	logger.Log.Debugf("GET %s", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, c.transportError(url, err)
	}
	defer func(body io.ReadCloser) {
		err := body.Close()
		if err != nil {
			logger.Log.Errorf("Failed to close response body: %v", err)
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, c.transportError(url, err)
	}
	logger.Log.Debugf("GET %s: %s", url, resp.Status)
	if resp.StatusCode >= 300 {
		c.metrics.CatalogRequest("error")
	} else {
		c.metrics.CatalogRequest("ok")
	}
	return Response{StatusCode: resp.StatusCode, Status: resp.Status, Body: body}, nil
}

func (c *Client) transportError(url string, err error) error {
	timeout := isTimeout(err)
	if timeout {
		c.metrics.CatalogRequest("timeout")
	} else {
		c.metrics.CatalogRequest("error")
	}
	return &TransportError{URL: url, Err: err, Timeout: timeout}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
