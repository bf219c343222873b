package startup

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/talent-radar/internal/fetcher"
)

// Refresher keeps the local qualified-startup file in sync with an
// externally published copy. Downloads are ETag-conditional, so an
// unchanged list costs one cheap request.
type Refresher struct {
	fetch *fetcher.HTTPFetcher
	url   string
	path  string

	mu   sync.Mutex
	etag string
}

// NewRefresher creates a refresher that mirrors url into path.
func NewRefresher(url, path string) *Refresher {
	return &Refresher{
		fetch: fetcher.NewHTTPFetcher(fetcher.HTTPOptions{}),
		url:   url,
		path:  path,
	}
}

// Refresh fetches the list if it changed upstream and rewrites the local
// file. Returns true when a new copy was written.
func (r *Refresher) Refresh(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	body, etag, changed, err := r.fetch.DownloadIfChanged(ctx, r.url, r.etag)
	if err != nil {
		return false, eris.Wrap(err, "startup: refresh list")
	}
	if !changed {
		zap.L().Debug("startup list unchanged upstream")
		return false, nil
	}
	defer body.Close()

	f, err := os.Create(r.path)
	if err != nil {
		return false, eris.Wrapf(err, "startup: write %s", r.path)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return false, eris.Wrapf(err, "startup: write %s", r.path)
	}

	r.etag = etag
	zap.L().Info("startup list refreshed", zap.String("path", r.path))
	return true, nil
}
