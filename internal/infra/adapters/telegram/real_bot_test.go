package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/start", "/start"},
		{"/start@CoinDiscountBot", "/start"},
		{"/stats@CoinDiscountBot extra words", "/stats"},
		{"/help arg", "/help"},
		{"hello bot", "message"},
		{"https://www.aliexpress.com/item/1005004633663909.html", "message"},
		{"   ", "message"},
		{"", "message"},
	}
	for _, tt := range tests {
		if got := parseCommand(tt.text); got != tt.want {
			t.Errorf("parseCommand(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestGuardUpdateRecoversPanicAndReplies(t *testing.T) {
	logger := zerolog.Nop()
	var gotChat int64
	var gotText string
	send := func(ctx context.Context, chatID int64, text string) (int, error) {
		gotChat = chatID
		gotText = text
		return 1, nil
	}

	guardUpdate(context.Background(), 42, &logger, send, func() error {
		panic("nil map write deep in the pipeline")
	})

	if gotChat != 42 {
		t.Fatalf("failure reply sent to chat %d, want 42", gotChat)
	}
	if !strings.Contains(gotText, "error occurred") {
		t.Fatalf("failure reply = %q, want the generic failure text", gotText)
	}
}

func TestGuardUpdatePanicWithoutChatSendsNothing(t *testing.T) {
	logger := zerolog.Nop()
	sends := 0
	send := func(ctx context.Context, chatID int64, text string) (int, error) {
		sends++
		return 1, nil
	}

	guardUpdate(context.Background(), 0, &logger, send, func() error {
		panic("update with no message")
	})

	if sends != 0 {
		t.Fatalf("sent %d replies for an update without a chat", sends)
	}
}

func TestGuardUpdateErrorIsLoggedNotReplied(t *testing.T) {
	logger := zerolog.Nop()
	sends := 0
	send := func(ctx context.Context, chatID int64, text string) (int, error) {
		sends++
		return 1, nil
	}

	guardUpdate(context.Background(), 42, &logger, send, func() error {
		return errors.New("edit failed")
	})

	if sends != 0 {
		t.Fatalf("plain handler error triggered %d extra replies", sends)
	}
}

func TestOutgoingMessagesUseMarkdownWithoutPreview(t *testing.T) {
	msg := newTextMessage(7, "🔄 Processing your link...")
	if msg.ParseMode != tgbotapi.ModeMarkdown {
		t.Fatalf("message parse mode = %q, want Markdown", msg.ParseMode)
	}
	if !msg.DisableWebPagePreview {
		t.Fatal("message link preview not disabled")
	}

	edit := newEditMessage(7, 3, "✅ done")
	if edit.ParseMode != tgbotapi.ModeMarkdown {
		t.Fatalf("edit parse mode = %q, want Markdown", edit.ParseMode)
	}
	if !edit.DisableWebPagePreview {
		t.Fatal("edit link preview not disabled")
	}
}
