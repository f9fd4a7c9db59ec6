package storage

import (
	"context"
	"io"
	"strings"
)

// Uploader writes one object and returns the URL it is publicly served at.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (publicURL string, err error)
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
