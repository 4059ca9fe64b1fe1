// File: internal/domain/ports/adapter/telegram.go
package adapter

import "context"

// TelegramBotAdapter is the reply capability the pipeline needs from the chat
// transport. SendMessage returns the sent message ID so a "processing"
// placeholder can be edited in place with the final result.
type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, chatID int64, text string) (int, error)
	EditMessage(ctx context.Context, chatID int64, messageID int, text string) error
	SendPhoto(ctx context.Context, chatID int64, photoURL, caption string) error
}
