package httpds

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Source downloads the table from a URL.
type Source struct {
	client *Client
	url    string
}

func NewSource(client *Client, url string) *Source {
	return &Source{client: client, url: url}
}

// URL returns the configured location.
func (s *Source) URL() string { return s.url }

// Open fetches the URL and returns the response body. Any non-2xx status is
// an error.
func (s *Source) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("httpds: GET %s: unexpected status %s", s.url, resp.Status)
	}
	return resp.Body, nil
}
