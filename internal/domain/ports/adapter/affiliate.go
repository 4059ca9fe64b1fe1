// File: internal/domain/ports/adapter/affiliate.go
package adapter

import (
	"context"

	"telegram-coin-discount/internal/domain/model"
)

// AffiliateAPIAdapter talks to the remote signed link-generation endpoints.
// One remote call per invocation, no retries; failures surface as errors.
type AffiliateAPIAdapter interface {
	// GenerateAffiliateLink asks the endpoint for a tracking-tagged link for
	// the given canonical product URL.
	GenerateAffiliateLink(ctx context.Context, sourceURL string) (string, error)
	// FetchProductDetail returns title/price/image enrichment for a product.
	FetchProductDetail(ctx context.Context, id model.ProductID) (*model.ProductDetail, error)
}

// URLResolver follows a short link's redirects to its final destination
// without downloading response bodies.
type URLResolver interface {
	Resolve(ctx context.Context, rawURL string) (string, error)
}
