package model

// ProductDetail is the optional enrichment fetched alongside the discount
// link. Absence never blocks delivery of the link itself.
type ProductDetail struct {
	ProductID ProductID
	Title     string
	Price     string
	Currency  string
	ImageURL  string
}

// Conversion is the outcome of one pipeline run over an inbound message.
// It lives for a single invocation and is never cached.
type Conversion struct {
	SourceURL     string
	ResolvedURL   string
	ProductID     ProductID
	AffiliateLink string
	CoinLink      string
	Detail        *ProductDetail
}

// WasResolved reports whether short-link resolution changed the URL.
func (c *Conversion) WasResolved() bool {
	return c.ResolvedURL != "" && c.ResolvedURL != c.SourceURL
}
