package aliexpress

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"telegram-coin-discount/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
)

var _ adapter.URLResolver = (*ShortLinkResolver)(nil)

// ShortLinkResolver follows a short link's redirect chain with a HEAD request
// so only headers travel, never a product page body. The caller decides what
// to do on failure; this type just reports it.
type ShortLinkResolver struct {
	http *http.Client
	log  *zerolog.Logger
}

func NewShortLinkResolver(timeout time.Duration, logger *zerolog.Logger) *ShortLinkResolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ShortLinkResolver{
		http: &http.Client{Timeout: timeout},
		log:  logger,
	}
}

// Resolve returns the final URL after redirects. The http client follows up
// to its default 10 hops; the response URL after the chain is the answer.
func (r *ShortLinkResolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build resolve request: %w", err)
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	final := resp.Request.URL.String()
	r.log.Debug().Str("from", rawURL).Str("to", final).Msg("short link resolved")
	return final, nil
}
