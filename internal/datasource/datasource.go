// Package datasource opens the raw customer table from wherever it lives.
package datasource

import (
	"context"
	"io"
	"strings"

	"retailclean/internal/datasource/file"
	"retailclean/internal/datasource/httpds"
)

type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// ForLocation returns an HTTP source for http(s) URLs and a local file source
// for anything else. client may be nil for local paths.
func ForLocation(location string, client *httpds.Client) Source {
	if IsRemote(location) {
		if client == nil {
			client = httpds.NewClient(httpds.Config{})
		}
		return httpds.NewSource(client, location)
	}
	return file.NewLocal(location)
}

// IsRemote reports whether location would be fetched over HTTP.
func IsRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
