package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"telegram-coin-discount/internal/application"
	"telegram-coin-discount/internal/domain/model"
	tele "telegram-coin-discount/internal/infra/adapters/telegram"
	"telegram-coin-discount/internal/usecase"

	"github.com/rs/zerolog"
)

// offlineAPI stands in for the affiliate API so the pipeline can be
// exercised without credentials or network access.
type offlineAPI struct{}

func (offlineAPI) GenerateAffiliateLink(_ context.Context, sourceURL string) (string, error) {
	return "https://s.click.aliexpress.com/e/_DEMOLINK", nil
}

func (offlineAPI) FetchProductDetail(_ context.Context, id model.ProductID) (*model.ProductDetail, error) {
	return &model.ProductDetail{
		ProductID: id,
		Title:     "Demo wireless earbuds",
		Price:     "12.34",
		Currency:  "USD",
		ImageURL:  "https://ae01.alicdn.com/kf/demo.jpg",
	}, nil
}

type offlineResolver struct{}

func (offlineResolver) Resolve(_ context.Context, rawURL string) (string, error) {
	return "https://www.aliexpress.com/item/1005004633663909.html", nil
}

func main() {
	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	// 1. Wire the pipeline with offline adapters
	linkUC := usecase.NewLinkUseCase(offlineAPI{}, offlineResolver{}, true, &logger)
	facade := application.NewBotFacade(linkUC)
	bot := tele.NewNoopBotAdapter()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const chatID = int64(42424242)

	// 2. Run each message through the same placeholder-then-edit flow the
	// real adapter uses
	inputs := []string{
		"check this out https://www.aliexpress.com/item/1005004633663909.html",
		"https://s.click.aliexpress.com/e/_oEuVDkp",
		"hello there",
	}
	for _, text := range inputs {
		fmt.Printf("--- incoming: %q ---\n", text)
		msgID, err := bot.SendMessage(ctx, chatID, "🔄 Processing your link...")
		if err != nil {
			log.Fatalf("send error: %v", err)
		}
		reply := facade.HandleLinkMessage(ctx, text)
		if err := bot.EditMessage(ctx, chatID, msgID, reply.Text); err != nil {
			log.Fatalf("edit error: %v", err)
		}
		if reply.PhotoURL != "" {
			if err := bot.SendPhoto(ctx, chatID, reply.PhotoURL, reply.Text); err != nil {
				log.Fatalf("photo error: %v", err)
			}
		}
	}

	// 3. Counters
	stats := linkUC.Snapshot()
	log.Printf("stats: %+v", stats)
}
