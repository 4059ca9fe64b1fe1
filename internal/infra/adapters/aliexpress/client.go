package aliexpress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"telegram-coin-discount/internal/config"
	"telegram-coin-discount/internal/domain"
	"telegram-coin-discount/internal/domain/model"
	"telegram-coin-discount/internal/domain/ports/adapter"
	"telegram-coin-discount/internal/infra/metrics"

	"github.com/rs/zerolog"
)

const (
	methodLinkGenerate  = "aliexpress.affiliate.link.generate"
	methodProductDetail = "aliexpress.affiliate.productdetail.get"
)

var _ adapter.AffiliateAPIAdapter = (*Client)(nil)

// Client calls the signed affiliate endpoints. It holds only read-only
// configuration and is safe for concurrent use. No retries: one remote call
// per invocation.
type Client struct {
	appKey     string
	appSecret  string
	trackingID string
	baseURL    string
	linkType   string
	http       *http.Client
	log        *zerolog.Logger
}

func NewClient(cfg *config.AliExpressConfig, logger *zerolog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("aliexpress config is nil")
	}
	if cfg.AppKey == "" || cfg.AppSecret == "" || cfg.TrackingID == "" {
		return nil, errors.New("aliexpress credentials are incomplete")
	}
	return &Client{
		appKey:     cfg.AppKey,
		appSecret:  cfg.AppSecret,
		trackingID: cfg.TrackingID,
		baseURL:    cfg.BaseURL,
		linkType:   cfg.PromotionLinkType,
		http:       &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}, nil
}

// ---- response envelopes ----
// The endpoint answers with one of two top-level shapes: a method-named
// success envelope or an explicit error_response. Both are decoded into one
// struct and told apart by which pointer is non-nil; any missing key at any
// depth decodes to a zero value and collapses to "not found".

type errorEnvelope struct {
	Code      json.Number `json:"code"`
	Msg       string      `json:"msg"`
	SubCode   string      `json:"sub_code"`
	SubMsg    string      `json:"sub_msg"`
	RequestID string      `json:"request_id"`
}

type linkGenerateEnvelope struct {
	RespResult struct {
		RespCode int    `json:"resp_code"`
		RespMsg  string `json:"resp_msg"`
		Result   struct {
			PromotionLinks []struct {
				PromotionLink string `json:"promotion_link"`
				SourceValue   string `json:"source_value"`
			} `json:"promotion_links"`
		} `json:"result"`
	} `json:"resp_result"`
}

type productDetailEnvelope struct {
	RespResult struct {
		RespCode int    `json:"resp_code"`
		RespMsg  string `json:"resp_msg"`
		Result   struct {
			Products []struct {
				ProductID    json.Number `json:"product_id"`
				Title        string      `json:"product_title"`
				SalePrice    string      `json:"target_sale_price"`
				SaleCurrency string      `json:"target_sale_price_currency"`
				MainImageURL string      `json:"product_main_image_url"`
			} `json:"products"`
		} `json:"result"`
	} `json:"resp_result"`
}

type apiEnvelope struct {
	Error         *errorEnvelope         `json:"error_response"`
	LinkGenerate  *linkGenerateEnvelope  `json:"aliexpress_affiliate_link_generate_response"`
	ProductDetail *productDetailEnvelope `json:"aliexpress_affiliate_productdetail_get_response"`
}

// GenerateAffiliateLink requests a tracking-tagged link for the canonical
// product URL. The tracking_id parameter is what re-attributes any incoming
// link, wrapped or not, to the operator.
func (c *Client) GenerateAffiliateLink(ctx context.Context, sourceURL string) (string, error) {
	env, err := c.call(ctx, methodLinkGenerate, map[string]string{
		"promotion_link_type": c.linkType,
		"source_values":       sourceURL,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrLinkGeneration, err)
	}
	if env.LinkGenerate == nil {
		return "", fmt.Errorf("%w: unrecognized response shape", domain.ErrLinkGeneration)
	}
	links := env.LinkGenerate.RespResult.Result.PromotionLinks
	if len(links) == 0 || links[0].PromotionLink == "" {
		c.log.Error().
			Int("resp_code", env.LinkGenerate.RespResult.RespCode).
			Str("resp_msg", env.LinkGenerate.RespResult.RespMsg).
			Str("source_url", sourceURL).
			Msg("affiliate API returned no promotion links")
		return "", fmt.Errorf("%w: empty promotion links", domain.ErrLinkGeneration)
	}
	return links[0].PromotionLink, nil
}

// FetchProductDetail returns title/price/image for a product. Fixed target
// currency and language keep captions uniform.
func (c *Client) FetchProductDetail(ctx context.Context, id model.ProductID) (*model.ProductDetail, error) {
	env, err := c.call(ctx, methodProductDetail, map[string]string{
		"product_ids":     string(id),
		"target_currency": "USD",
		"target_language": "EN",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDetailNotFound, err)
	}
	if env.ProductDetail == nil {
		return nil, fmt.Errorf("%w: unrecognized response shape", domain.ErrDetailNotFound)
	}
	products := env.ProductDetail.RespResult.Result.Products
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: empty products", domain.ErrDetailNotFound)
	}
	p := products[0]
	return &model.ProductDetail{
		ProductID: id,
		Title:     p.Title,
		Price:     p.SalePrice,
		Currency:  p.SaleCurrency,
		ImageURL:  p.MainImageURL,
	}, nil
}

// call signs and POSTs one request, decodes the envelope and surfaces an
// explicit error_response as an error after logging its fields.
func (c *Client) call(ctx context.Context, method string, extra map[string]string) (*apiEnvelope, error) {
	params := map[string]string{
		"app_key":     c.appKey,
		"method":      method,
		"sign_method": "sha256",
		"timestamp":   strconv.FormatInt(time.Now().UnixMilli(), 10),
		"v":           "2.0",
		"format":      "json",
		"tracking_id": c.trackingID,
	}
	for k, v := range extra {
		params[k] = v
	}
	params["sign"] = Sign(params, method, c.appSecret)

	form := url.Values{}
	for k, v := range params {
		if v != "" {
			form.Set(k, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.ObserveAPICall(method, int(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w, body: %s", err, string(body))
	}

	if env.Error != nil {
		c.log.Error().
			Str("method", method).
			Str("code", env.Error.Code.String()).
			Str("msg", env.Error.Msg).
			Str("sub_code", env.Error.SubCode).
			Str("sub_msg", env.Error.SubMsg).
			Str("request_id", env.Error.RequestID).
			Msg("affiliate API error envelope")
		return nil, fmt.Errorf("api error %s: %s", env.Error.Code.String(), env.Error.Msg)
	}
	return &env, nil
}
