// Package httpc is the HTTP plumbing shared by the catalog clients.
package httpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	"github.com/lni/dragonboat/v4/logger"
)

var plog = logger.GetLogger("catalog")

// UserAgent is sent with every catalog request.
const UserAgent = "wowa (+https://github.com/wowa-cli/wowa)"

// StatusError is returned for responses outside the 2xx range.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected response %s", e.Method, e.URL, e.Status)
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

// New returns the DefaultPooledClient from the cleanhttp package that also
// sends the wowa User-Agent and logs every request at debug level.
func New() *http.Client {
	cli := cleanhttp.DefaultPooledClient()
	cli.Transport = &userAgentRoundTripper{
		userAgent: UserAgent,
		inner:     cli.Transport,
	}
	return cli
}

type userAgentRoundTripper struct {
	inner     http.RoundTripper
	userAgent string
}

func (rt *userAgentRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if _, ok := req.Header["User-Agent"]; !ok {
		req.Header.Set("User-Agent", rt.userAgent)
	}
	plog.Debugf("%s %s", req.Method, req.URL.Redacted())
	return rt.inner.RoundTrip(req)
}

// Get performs a single GET request and returns the response body.
// Calls are single-shot, failures are never retried.
func Get(ctx context.Context, client *http.Client, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for name, values := range header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		plog.Warningf("%s %s returned %s", req.Method, req.URL.Redacted(), resp.Status)
		return nil, &StatusError{Method: req.Method, URL: req.URL.Redacted(), StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response of %s: %w", req.URL.Redacted(), err)
	}
	return body, nil
}

// GetJSON performs a GET request and decodes the JSON response into out.
func GetJSON(ctx context.Context, client *http.Client, url string, header http.Header, out any) error {
	body, err := Get(ctx, client, url, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response of %s: %w", url, err)
	}
	return nil
}
