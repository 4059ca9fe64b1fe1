package usecase

import (
	"context"
	"fmt"
	"sync/atomic"

	"telegram-coin-discount/internal/domain"
	"telegram-coin-discount/internal/domain/model"
	"telegram-coin-discount/internal/domain/ports/adapter"
	"telegram-coin-discount/internal/infra/logging"
	"telegram-coin-discount/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ LinkUseCase = (*linkUC)(nil)

// LinkUseCase runs the whole link-transformation pipeline for one inbound
// message: detection, optional short-link resolution, product-ID extraction,
// signed affiliate-link generation and coin-discount synthesis.
type LinkUseCase interface {
	Convert(ctx context.Context, text string) (*model.Conversion, error)
	Snapshot() PipelineStats
}

// PipelineStats are process-lifetime counters surfaced by the admin /stats
// command. Nothing here is persisted.
type PipelineStats struct {
	Converted       int64
	NoLink          int64
	NoProductID     int64
	APIErrors       int64
	SynthesisErrors int64
}

type linkUC struct {
	api      adapter.AffiliateAPIAdapter
	resolver adapter.URLResolver
	enrich   bool
	log      *zerolog.Logger

	converted       atomic.Int64
	noLink          atomic.Int64
	noProductID     atomic.Int64
	apiErrors       atomic.Int64
	synthesisErrors atomic.Int64
}

func NewLinkUseCase(api adapter.AffiliateAPIAdapter, resolver adapter.URLResolver, enrich bool, logger *zerolog.Logger) *linkUC {
	return &linkUC{
		api:      api,
		resolver: resolver,
		enrich:   enrich,
		log:      logger,
	}
}

// Convert is stateless: every value it touches is request-scoped, so
// concurrent invocations need no coordination.
func (u *linkUC) Convert(ctx context.Context, text string) (*model.Conversion, error) {
	log := logging.With(ctx, u.log)
	defer logging.TraceDuration(log, "LinkUC.Convert")()

	// 1. Detection. Expected to fail on ordinary chat text, so this is not
	// an error-level event and no network is touched.
	sourceURL, ok := model.DetectMarketplaceURL(text)
	if !ok {
		u.noLink.Add(1)
		metrics.IncLinkProcessed("no_link")
		return nil, domain.ErrNoLinkFound
	}

	// 2. Resolution, only for short links. Fail-open: a dead redirect
	// service must not kill the pipeline, the original URL may still carry
	// the product ID.
	resolvedURL := sourceURL
	if model.IsShortLink(sourceURL) {
		final, err := u.resolver.Resolve(ctx, sourceURL)
		if err != nil {
			metrics.IncResolverFailOpen()
			metrics.IncStageFailure("resolve")
			log.Warn().Err(err).Str("url", sourceURL).Msg("short link resolution failed, continuing with original")
		} else {
			resolvedURL = final
		}
	}

	// 3. Extraction against the resolved URL, then the original as a
	// fallback in case resolution went fail-open or landed somewhere odd.
	id, ok := model.ExtractProductID(resolvedURL)
	if !ok && resolvedURL != sourceURL {
		id, ok = model.ExtractProductID(sourceURL)
	}
	if !ok {
		u.noProductID.Add(1)
		metrics.IncStageFailure("extract")
		metrics.IncLinkProcessed("no_product_id")
		log.Warn().Str("url", resolvedURL).Msg("no plausible product id in url")
		return nil, fmt.Errorf("%w: %s", domain.ErrNoProductID, resolvedURL)
	}

	// 4. Signed link generation from the canonical product URL, never the
	// user's (possibly competitor-wrapped) link.
	affiliateLink, err := u.api.GenerateAffiliateLink(ctx, model.CanonicalProductURL(id))
	if err != nil {
		u.apiErrors.Add(1)
		metrics.IncStageFailure("generate")
		metrics.IncLinkProcessed("api_error")
		log.Error().Err(err).Str("product_id", string(id)).Msg("affiliate link generation failed")
		return nil, fmt.Errorf("generate affiliate link: %w", err)
	}

	// 5. Synthesis is a pure transform; it only fails on a malformed
	// affiliate link.
	coinLink, err := model.BuildCoinDiscountURL(affiliateLink, id)
	if err != nil {
		u.synthesisErrors.Add(1)
		metrics.IncStageFailure("synthesize")
		metrics.IncLinkProcessed("synthesis_error")
		log.Error().Err(err).Str("affiliate_link", affiliateLink).Msg("coin link synthesis failed")
		return nil, err
	}

	conv := &model.Conversion{
		SourceURL:     sourceURL,
		ResolvedURL:   resolvedURL,
		ProductID:     id,
		AffiliateLink: affiliateLink,
		CoinLink:      coinLink,
	}

	// 6. Optional enrichment. Purely additive: failure is logged and the
	// discount link ships without it.
	if u.enrich {
		detail, err := u.api.FetchProductDetail(ctx, id)
		if err != nil {
			metrics.IncStageFailure("detail")
			log.Warn().Err(err).Str("product_id", string(id)).Msg("product detail enrichment failed")
		} else {
			conv.Detail = detail
		}
	}

	u.converted.Add(1)
	metrics.IncLinkProcessed("converted")
	log.Info().
		Str("product_id", string(id)).
		Bool("resolved", conv.WasResolved()).
		Bool("enriched", conv.Detail != nil).
		Msg("link converted")
	return conv, nil
}

func (u *linkUC) Snapshot() PipelineStats {
	return PipelineStats{
		Converted:       u.converted.Load(),
		NoLink:          u.noLink.Load(),
		NoProductID:     u.noProductID.Load(),
		APIErrors:       u.apiErrors.Load(),
		SynthesisErrors: u.synthesisErrors.Load(),
	}
}
