package telegram

import (
	"context"
	"log"
	"sync/atomic"

	"telegram-coin-discount/internal/domain/ports/adapter"
)

var _ adapter.TelegramBotAdapter = (*NoopBotAdapter)(nil)

// NoopBotAdapter implements adapter.TelegramBotAdapter for local/dev runs.
// It logs messages instead of talking to Telegram and hands out fake
// message IDs so edit flows can be exercised offline.
type NoopBotAdapter struct {
	nextID atomic.Int64
}

// NewNoopBotAdapter constructs the noop adapter.
func NewNoopBotAdapter() *NoopBotAdapter {
	return &NoopBotAdapter{}
}

func (b *NoopBotAdapter) SendMessage(ctx context.Context, chatID int64, text string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	id := int(b.nextID.Add(1))
	log.Printf("[noop-telegram] To chat %d (msg %d): %s\n", chatID, id, text)
	return id, nil
}

func (b *NoopBotAdapter) EditMessage(ctx context.Context, chatID int64, messageID int, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Printf("[noop-telegram] Edit chat %d msg %d: %s\n", chatID, messageID, text)
	return nil
}

func (b *NoopBotAdapter) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Printf("[noop-telegram] Photo to chat %d: %s (caption: %s)\n", chatID, photoURL, caption)
	return nil
}
