package model

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"telegram-coin-discount/internal/domain"
)

const (
	// ShortLinkHost marks compacted redirect links that need resolution
	// before a product ID can be read out of them.
	ShortLinkHost = "s.click.aliexpress.com"

	// coinIndexURL is the fixed landing page that surfaces mobile coin
	// discounts for a product.
	coinIndexURL = "https://m.aliexpress.com/p/coin-index/index.html"

	// minProductIDLen is the plausibility floor: shorter numeric matches are
	// page/campaign IDs, not product IDs.
	minProductIDLen = 10
)

// detectionPatterns recognize a marketplace URL inside free text. Ordered
// most specific first; the first match wins and its exact substring becomes
// the candidate URL.
var detectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`https?://(?:www\.)?aliexpress\.com/item/\d+\.html`),
	regexp.MustCompile(`https?://m\.aliexpress\.com/item/\d+\.html`),
	regexp.MustCompile(`https?://s\.click\.aliexpress\.com/e/[^/\s]+`),
	regexp.MustCompile(`https?://(?:www\.|m\.)?aliexpress\.com/[^\s]*`),
}

// extractionRules find a numeric product ID in a URL. Ordered by path
// specificity, ending with a bare long-digit-run scan as the fallback.
var extractionRules = []*regexp.Regexp{
	regexp.MustCompile(`/item/(\d+)\.html`),
	regexp.MustCompile(`productIds=(\d+)`),
	regexp.MustCompile(`product/(\d+)`),
	regexp.MustCompile(`/(\d+)\.html`),
	regexp.MustCompile(`(\d{10,})`),
}

// ProductID is the numeric marketplace identifier of a product.
type ProductID string

// Valid reports whether the ID clears the plausibility floor.
func (id ProductID) Valid() bool {
	if len(id) < minProductIDLen {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// DetectMarketplaceURL scans free text for a marketplace URL. The returned
// string is exactly the matched substring, trailing non-URL words excluded.
func DetectMarketplaceURL(text string) (string, bool) {
	for _, p := range detectionPatterns {
		if m := p.FindString(text); m != "" {
			return m, true
		}
	}
	return "", false
}

// IsShortLink reports whether the URL points at the redirect service and
// therefore needs resolution before extraction. Resolving every URL would be
// wasted latency.
func IsShortLink(rawURL string) bool {
	return strings.Contains(rawURL, ShortLinkHost)
}

// ExtractProductID applies the extraction rules in order against the URL and
// returns the first match that clears the plausibility floor.
func ExtractProductID(rawURL string) (ProductID, bool) {
	for _, rule := range extractionRules {
		m := rule.FindStringSubmatch(rawURL)
		if m == nil {
			continue
		}
		if id := ProductID(m[1]); id.Valid() {
			return id, true
		}
	}
	return "", false
}

// CanonicalProductURL builds the neutral product URL used as the signed
// request's source. The original message link may be wrapped in someone
// else's affiliate parameters; the canonical form strips all of that.
func CanonicalProductURL(id ProductID) string {
	return fmt.Sprintf("https://www.aliexpress.com/item/%s.html", id)
}

// traceParams are the provider parameters that have to be threaded from a
// generated affiliate link into the coin-discount link for attribution to
// survive the redirect.
var traceParams = []string{"aff_fcid", "aff_fsk", "aff_trace_key", "terminal_id"}

// BuildCoinDiscountURL rewrites a generated affiliate link into the mobile
// coin-discount landing URL for the given product. Trace parameters absent
// from the affiliate link are omitted, never emitted empty. The result is
// always a syntactically valid URL or a synthesis error, never a panic.
func BuildCoinDiscountURL(affiliateLink string, id ProductID) (string, error) {
	if affiliateLink == "" || id == "" {
		return "", fmt.Errorf("%w: affiliate link and product id are required", domain.ErrSynthesis)
	}
	parsed, err := url.Parse(affiliateLink)
	if err != nil {
		return "", fmt.Errorf("%w: parse affiliate link: %v", domain.ErrSynthesis, err)
	}
	src := parsed.Query()

	q := url.Values{}
	q.Set("_immersiveMode", "true")
	q.Set("from", "syicon")
	q.Set("tt", "CPS_NORMAL")
	q.Set("aff_platform", "portals-tool")
	q.Set("productIds", string(id))
	for _, key := range traceParams {
		if v := src.Get(key); v != "" {
			q.Set(key, v)
		}
	}
	// sk mirrors aff_fsk on the landing page.
	if v := src.Get("aff_fsk"); v != "" {
		q.Set("sk", v)
	}

	return coinIndexURL + "?" + q.Encode(), nil
}
