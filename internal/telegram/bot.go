package telegram

import (
	"net/http"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"menu-bot/internal/app"
	"menu-bot/internal/config"
)

// Bot wraps the Telegram API around the application layer.
type Bot struct {
	api *tgbotapi.BotAPI
	app *app.App
	cfg *config.Config
	log *zap.Logger
}

// NewBot initializes the Telegram Bot and sets the webhook.
func NewBot(cfg *config.Config, a *app.App, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, err
	}
	log.Info("authorized on telegram", zap.String("account", api.Self.UserName))

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, err
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, err
	}
	log.Info("webhook set", zap.String("response", resp.Description))

	return &Bot{api: api, app: a, cfg: cfg, log: log}, nil
}

// RegisterHandlers registers the webhook and OAuth callback handlers
// with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/oauth/callback", b.handleOAuthCallback)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.log.Error("failed to parse telegram update", zap.Error(err))
		return
	}

	if update.CallbackQuery != nil {
		if b.isAllowed(update.CallbackQuery.From.ID) {
			go b.handleCallbackQuery(update.CallbackQuery)
		}
		return
	}

	if update.Message == nil {
		return
	}

	if !b.isAllowed(update.Message.From.ID) {
		b.log.Warn("unauthorized access attempt",
			zap.Int64("user_id", update.Message.From.ID),
			zap.String("username", update.Message.From.UserName))
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) isAllowed(userID int64) bool {
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if userID == id {
			return true
		}
	}
	return false
}

// handleOAuthCallback completes the Google Tasks account link started
// by /linktasks.
func (b *Bot) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	if b.app.TasksAuth == nil {
		http.Error(w, "tasks sync not configured", http.StatusNotFound)
		return
	}

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")

	chatUserID, err := b.app.TasksAuth.VerifyState(state)
	if err != nil {
		b.log.Warn("rejected oauth callback", zap.Error(err))
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}

	tok, err := b.app.TasksAuth.Exchange(r.Context(), code)
	if err != nil {
		b.log.Error("oauth exchange failed", zap.Error(err))
		http.Error(w, "exchange failed", http.StatusBadGateway)
		return
	}

	member, err := b.app.Family.GetMember(r.Context(), strconv.FormatInt(chatUserID, 10))
	if err != nil || member == nil {
		http.Error(w, "unknown family member", http.StatusBadRequest)
		return
	}
	member.TasksLinked = true
	member.TasksRefreshToken = tok.RefreshToken
	if err := b.app.Family.SaveMember(r.Context(), *member); err != nil {
		b.log.Error("failed to save linked member", zap.Error(err))
		http.Error(w, "save failed", http.StatusInternalServerError)
		return
	}

	w.Write([]byte("Google Tasks linked. You can close this tab."))
	b.send(chatUserID, "✅ Google Tasks linked! Approved grocery lists will sync to your Groceries list.")
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("failed to send message", zap.Error(err))
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = "Markdown"
	if _, err := b.api.Send(edit); err != nil {
		b.log.Error("failed to edit message", zap.Error(err))
	}
}
