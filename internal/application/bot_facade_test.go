package application

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"telegram-coin-discount/internal/domain"
	"telegram-coin-discount/internal/domain/model"
	"telegram-coin-discount/internal/usecase"
)

type fakeLinkUC struct {
	conv  *model.Conversion
	err   error
	stats usecase.PipelineStats
}

func (f *fakeLinkUC) Convert(ctx context.Context, text string) (*model.Conversion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.conv, nil
}

func (f *fakeLinkUC) Snapshot() usecase.PipelineStats { return f.stats }

func TestHandleLinkMessageSuccess(t *testing.T) {
	f := NewBotFacade(&fakeLinkUC{conv: &model.Conversion{
		ProductID: "1005004633663909",
		CoinLink:  "https://m.aliexpress.com/p/coin-index/index.html?productIds=1005004633663909",
	}})

	reply := f.HandleLinkMessage(context.Background(), "some text")
	if !strings.Contains(reply.Text, "productIds=1005004633663909") {
		t.Fatalf("reply missing coin link: %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "Product ID: 1005004633663909") {
		t.Fatalf("reply missing product id: %q", reply.Text)
	}
	if reply.PhotoURL != "" {
		t.Fatal("photo url set without detail")
	}
}

func TestHandleLinkMessageWithDetail(t *testing.T) {
	f := NewBotFacade(&fakeLinkUC{conv: &model.Conversion{
		ProductID: "1005004633663909",
		CoinLink:  "https://m.aliexpress.com/p/coin-index/index.html?productIds=1005004633663909",
		Detail: &model.ProductDetail{
			Title:    "Wireless Earbuds",
			Price:    "12.34",
			Currency: "USD",
			ImageURL: "https://ae01.alicdn.com/kf/x.jpg",
		},
	}})

	reply := f.HandleLinkMessage(context.Background(), "some text")
	if !strings.Contains(reply.Text, "Wireless Earbuds") {
		t.Fatalf("reply missing title: %q", reply.Text)
	}
	if reply.PhotoURL != "https://ae01.alicdn.com/kf/x.jpg" {
		t.Fatalf("photo url = %q", reply.PhotoURL)
	}
}

func TestHandleLinkMessageErrorPhrasing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"no link", domain.ErrNoLinkFound, "No AliExpress link found"},
		{"no product id", fmt.Errorf("%w: url", domain.ErrNoProductID), "Could not extract product ID"},
		{"synthesis", fmt.Errorf("%w: bad link", domain.ErrSynthesis), "Could not create coin discount link"},
		{"api error", fmt.Errorf("generate affiliate link: %w", domain.ErrLinkGeneration), "try again later"},
		{"unknown error", fmt.Errorf("boom"), "try again later"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewBotFacade(&fakeLinkUC{err: tt.err})
			reply := f.HandleLinkMessage(context.Background(), "text")
			if !strings.Contains(reply.Text, tt.want) {
				t.Fatalf("reply %q does not contain %q", reply.Text, tt.want)
			}
			if reply.PhotoURL != "" {
				t.Fatal("photo url set on failure")
			}
		})
	}
}

func TestHandleStartAndHelp(t *testing.T) {
	f := NewBotFacade(&fakeLinkUC{})
	if !strings.Contains(f.HandleStart(), "Coin Discount Bot") {
		t.Fatal("welcome text missing bot name")
	}
	if !strings.Contains(f.HandleHelp(), "s.click.aliexpress.com") {
		t.Fatal("help text missing short link format")
	}
}

func TestHandleStats(t *testing.T) {
	f := NewBotFacade(&fakeLinkUC{stats: usecase.PipelineStats{Converted: 7, NoLink: 2}})
	text := f.HandleStats()
	if !strings.Contains(text, "Converted: 7") || !strings.Contains(text, "No link: 2") {
		t.Fatalf("stats text = %q", text)
	}
}
