package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"telegram-coin-discount/internal/domain"
	"telegram-coin-discount/internal/usecase"
)

// BotFacade composes the pipeline into high-level bot replies.
// Methods return ready-to-send content so the Telegram adapter just forwards
// it to the chat; all user-facing phrasing lives here.
type BotFacade struct {
	LinkUC usecase.LinkUseCase

	startedAt time.Time
}

func NewBotFacade(linkUC usecase.LinkUseCase) *BotFacade {
	return &BotFacade{
		LinkUC:    linkUC,
		startedAt: time.Now(),
	}
}

// LinkReply is the content of one reply: text plus an optional product photo
// with the text reused as caption.
type LinkReply struct {
	Text     string
	PhotoURL string
}

const welcomeMessage = `🛍️ AliExpress Coin Discount Bot

Send me any AliExpress product link and I'll convert it to a mobile coin discount link!

How to use:
1. Copy any AliExpress product link
2. Send it to me
3. Get your coin discount link instantly!

Just send me a link to get started 🚀`

const helpMessage = `🔧 How to use this bot:

1. Find a product on AliExpress
2. Copy the link (any AliExpress product URL)
3. Send it here - just paste and send
4. Get your coin discount link instantly!

Supported link formats:
• https://www.aliexpress.com/item/...
• https://m.aliexpress.com/item/...
• Short links (s.click.aliexpress.com)

Example:
https://www.aliexpress.com/item/1005004633663909.html`

// HandleStart returns the welcome text for /start.
func (b *BotFacade) HandleStart() string { return welcomeMessage }

// HandleHelp returns the usage text for /help.
func (b *BotFacade) HandleHelp() string { return helpMessage }

// HandleLinkMessage runs the pipeline over free text and maps every outcome
// to a reply. It never returns an error: per-stage failures become their
// user-facing phrasing here, and the transport always has something to send.
func (b *BotFacade) HandleLinkMessage(ctx context.Context, text string) LinkReply {
	conv, err := b.LinkUC.Convert(ctx, text)
	switch {
	case err == nil:
		// fallthrough to success formatting below
	case errors.Is(err, domain.ErrNoLinkFound):
		return LinkReply{Text: "❌ No AliExpress link found!\n\n" +
			"Please send a valid AliExpress product link.\n" +
			"Example: https://www.aliexpress.com/item/1005004633663909.html"}
	case errors.Is(err, domain.ErrNoProductID):
		return LinkReply{Text: "❌ Could not extract product ID from the link."}
	case errors.Is(err, domain.ErrSynthesis):
		return LinkReply{Text: "❌ Could not create coin discount link."}
	default:
		return LinkReply{Text: "❌ Could not generate affiliate link. Please try again later."}
	}

	var sb strings.Builder
	sb.WriteString("✅ Coin Discount Link Generated!\n\n")
	if conv.Detail != nil {
		sb.WriteString(fmt.Sprintf("📦 %s\n", conv.Detail.Title))
		if conv.Detail.Price != "" {
			sb.WriteString(fmt.Sprintf("💵 %s %s\n", conv.Detail.Price, conv.Detail.Currency))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("🔗 Your link:\n")
	sb.WriteString(conv.CoinLink)
	sb.WriteString("\n\n💰 Mobile coin discounts apply at checkout.\n")
	sb.WriteString(fmt.Sprintf("Product ID: %s", conv.ProductID))

	reply := LinkReply{Text: sb.String()}
	if conv.Detail != nil {
		reply.PhotoURL = conv.Detail.ImageURL
	}
	return reply
}

// HandleStats builds the admin-facing counters message.
func (b *BotFacade) HandleStats() string {
	s := b.LinkUC.Snapshot()
	var sb strings.Builder
	sb.WriteString("📊 Pipeline statistics:\n\n")
	sb.WriteString(fmt.Sprintf("✅ Converted: %d\n", s.Converted))
	sb.WriteString(fmt.Sprintf("🔍 No link: %d\n", s.NoLink))
	sb.WriteString(fmt.Sprintf("🆔 No product ID: %d\n", s.NoProductID))
	sb.WriteString(fmt.Sprintf("🌐 API errors: %d\n", s.APIErrors))
	sb.WriteString(fmt.Sprintf("🧩 Synthesis errors: %d\n\n", s.SynthesisErrors))
	sb.WriteString(fmt.Sprintf("⏱ Uptime: %s", time.Since(b.startedAt).Round(time.Second)))
	return sb.String()
}
