package fetcher

import (
	"context"
	"io"
)

// Fetcher downloads remote data. HTTPFetcher is the only production
// implementation; tests substitute fakes.
type Fetcher interface {
	// Download fetches url and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile writes the body of url to path and reports the
	// bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)

	// HeadETag returns the ETag header from a HEAD request.
	HeadETag(ctx context.Context, url string) (string, error)

	// DownloadIfChanged fetches url unless etag still matches upstream.
	// Returns the body, the new ETag and whether a fetch happened; the
	// body is nil when unchanged.
	DownloadIfChanged(ctx context.Context, url string, etag string) (io.ReadCloser, string, bool, error)
}
