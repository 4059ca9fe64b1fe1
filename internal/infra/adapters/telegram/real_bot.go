package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-coin-discount/internal/application"
	"telegram-coin-discount/internal/config"
	"telegram-coin-discount/internal/domain/ports/adapter"
	"telegram-coin-discount/internal/infra/logging"
	"telegram-coin-discount/internal/infra/metrics"
	red "telegram-coin-discount/internal/infra/redis"
)

// handleTimeout bounds one message's pipeline run, covering both network
// calls (resolution and the signed POST) with headroom.
const handleTimeout = 30 * time.Second

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter polls updates with tgbotapi and delegates to
// BotFacade. It is a thin shim: all pipeline logic and phrasing live below
// it, only I/O and routing live here.
type RealTelegramBotAdapter struct {
	bot         *tgbotapi.BotAPI
	cfg         *config.BotConfig
	facade      *application.BotFacade
	rateLimiter *red.RateLimiter
	log         *zerolog.Logger

	adminIDsMap   map[int64]struct{}
	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, facade *application.BotFacade, rateLimiter *red.RateLimiter, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	adminMap := map[int64]struct{}{}
	for _, id := range cfg.AdminIDs {
		adminMap[id] = struct{}{}
	}

	return &RealTelegramBotAdapter{
		bot:           bot,
		cfg:           cfg,
		facade:        facade,
		rateLimiter:   rateLimiter,
		log:           logger,
		adminIDsMap:   adminMap,
		updateWorkers: workers,
	}, nil
}

func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					r.safeHandleUpdate(ctx, up)
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

const genericFailureText = "❌ An error occurred while processing your message. Please try again."

// safeHandleUpdate is the top-level guard: a panic anywhere in the pipeline
// must neither kill the worker nor leave the user without a reply.
func (r *RealTelegramBotAdapter) safeHandleUpdate(ctx context.Context, update tgbotapi.Update) {
	guardUpdate(ctx, chatIDOf(update), r.log, r.SendMessage, func() error {
		return r.handleUpdate(ctx, update)
	})
}

// guardUpdate runs one update handler with panic recovery. A recovered panic
// is logged and answered with the generic failure reply through send; plain
// errors are only logged, the handler already replied or chose not to.
func guardUpdate(ctx context.Context, chatID int64, logger *zerolog.Logger, send func(context.Context, int64, string) (int, error), fn func() error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error().Interface("panic", rec).Int64("chat_id", chatID).Msg("panic while handling update")
			if chatID != 0 {
				_, _ = send(ctx, chatID, genericFailureText)
			}
		}
	}()
	if err := fn(); err != nil {
		logger.Error().Err(err).Int64("chat_id", chatID).Msg("update handler failed")
	}
}

func chatIDOf(update tgbotapi.Update) int64 {
	if update.Message != nil && update.Message.Chat != nil {
		return update.Message.Chat.ID
	}
	return 0
}

// parseCommand returns the leading bot command of a message text, with the
// "/cmd@BotName" group-chat form normalized to "/cmd". Non-command text maps
// to "message".
func parseCommand(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "message"
	}
	cmd := fields[0]
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}
	return cmd
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil || update.Message.Text == "" {
		return nil
	}
	tgUser := update.Message.From
	if tgUser == nil {
		return nil
	}
	chatID := update.Message.Chat.ID

	command := parseCommand(update.Message.Text)
	metrics.IncTelegramCommand(command)

	// Per-message scope: bounded lifetime plus log correlation fields.
	ctx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()
	ctx = logging.WithTraceID(ctx, uuid.NewString())
	ctx = logging.WithTgID(ctx, tgUser.ID)
	ctx = logging.WithChatID(ctx, chatID)

	// Basic rate limiting per user per command. Disabled when redis is not
	// configured.
	if r.rateLimiter != nil {
		allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(tgUser.ID, command), 20, time.Minute)
		if err != nil {
			r.log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
		} else if !allowed {
			metrics.IncRateLimitTriggered()
			_, err := r.SendMessage(ctx, chatID, "Rate limit exceeded. Please try again later.")
			return err
		}
	}

	switch command {
	case "/start":
		_, err := r.SendMessage(ctx, chatID, r.facade.HandleStart())
		return err

	case "/help":
		_, err := r.SendMessage(ctx, chatID, r.facade.HandleHelp())
		return err

	case "/stats":
		if _, ok := r.adminIDsMap[tgUser.ID]; !ok {
			_, err := r.SendMessage(ctx, chatID, "This command is for admins only.")
			return err
		}
		_, err := r.SendMessage(ctx, chatID, r.facade.HandleStats())
		return err

	default:
		return r.handleLinkMessage(ctx, chatID, update.Message.Text)
	}
}

// handleLinkMessage sends a placeholder, runs the pipeline, edits the
// placeholder with the result and attaches a product photo when enrichment
// produced one.
func (r *RealTelegramBotAdapter) handleLinkMessage(ctx context.Context, chatID int64, text string) error {
	msgID, err := r.SendMessage(ctx, chatID, "🔄 Processing your link...")
	if err != nil {
		return err
	}

	reply := r.facade.HandleLinkMessage(ctx, text)

	if err := r.EditMessage(ctx, chatID, msgID, reply.Text); err != nil {
		return err
	}
	if reply.PhotoURL != "" {
		if err := r.SendPhoto(ctx, chatID, reply.PhotoURL, reply.Text); err != nil {
			// The discount link is already delivered; the photo is a bonus.
			r.log.Warn().Err(err).Int64("chat_id", chatID).Msg("failed to send product photo")
		}
	}
	return nil
}

// newTextMessage and newEditMessage carry the reply texture every outgoing
// message shares: Markdown formatting and no link preview (the reply IS the
// link, a preview would double it).
func newTextMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	return msg
}

func newEditMessage(chatID int64, messageID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	edit.DisableWebPagePreview = true
	return edit
}

func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, chatID int64, text string) (int, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}
	sent, err := r.bot.Send(newTextMessage(chatID, text))
	if err != nil {
		return 0, err
	}
	metrics.IncReplySent("text")
	return sent.MessageID, nil
}

func (r *RealTelegramBotAdapter) EditMessage(ctx context.Context, chatID int64, messageID int, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if _, err := r.bot.Send(newEditMessage(chatID, messageID, text)); err != nil {
		return err
	}
	metrics.IncReplySent("edit")
	return nil
}

func (r *RealTelegramBotAdapter) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(photoURL))
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeMarkdown
	if _, err := r.bot.Send(photo); err != nil {
		return err
	}
	metrics.IncReplySent("photo")
	return nil
}
