// Package bot is the Telegram transport adapter: it turns raw updates into
// flow-controller events and renders response descriptors back through the
// Bot API. No campaign logic lives here.
package bot

import (
	"context"
	"os"

	"FRD_airdrop_bot/internal/model"
	"FRD_airdrop_bot/internal/service"
	"FRD_airdrop_bot/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Bot struct {
	api  *tgbotapi.BotAPI
	flow *service.FlowController
}

func New(api *tgbotapi.BotAPI, flow *service.FlowController) *Bot {
	return &Bot{api: api, flow: flow}
}

// Run polls for updates until ctx is cancelled. Each update is handled on
// its own goroutine so one slow store call never stalls other chats.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30

	updates := b.api.GetUpdatesChan(cfg)
	logger.Logger().Info("bot polling started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	log := logger.Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while handling update", zap.Any("panic", r))
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			log.Warn("failed to answer callback query", zap.Error(err))
		}
		if cb.Message == nil {
			return
		}
		resp := b.flow.HandleButton(ctx, model.ButtonPress{
			Tag:        cb.Data,
			SenderID:   cb.Message.Chat.ID,
			SenderName: cb.From.FirstName,
		})
		b.send(cb.Message.Chat.ID, resp)

	case update.Message != nil && update.Message.IsCommand():
		msg := update.Message
		resp := b.flow.HandleCommand(ctx, model.Command{
			Name:       msg.Command(),
			Args:       msg.CommandArguments(),
			SenderID:   msg.Chat.ID,
			SenderName: msg.From.FirstName,
		})
		b.send(msg.Chat.ID, resp)

	case update.Message != nil:
		msg := update.Message
		resp := b.flow.HandleText(ctx, model.TextMessage{
			Text:       msg.Text,
			SenderID:   msg.Chat.ID,
			SenderName: msg.From.FirstName,
		})
		b.send(msg.Chat.ID, resp)
	}
}

func (b *Bot) send(chatID int64, resp *model.Response) {
	if resp == nil {
		return
	}
	log := logger.Logger()

	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		log.Warn("failed to send chat action", zap.Error(err))
	}

	var msg tgbotapi.Chattable
	switch {
	case resp.Document != "":
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(resp.Document))
		doc.Caption = resp.Body
		defer os.Remove(resp.Document)
		msg = doc

	case resp.Photo != "":
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(resp.Photo))
		photo.Caption = resp.Body
		photo.ParseMode = parseMode(resp.Format)
		if markup := keyboard(resp.Buttons); markup != nil {
			photo.ReplyMarkup = markup
		}
		msg = photo

	default:
		text := tgbotapi.NewMessage(chatID, resp.Body)
		text.ParseMode = parseMode(resp.Format)
		if markup := keyboard(resp.Buttons); markup != nil {
			text.ReplyMarkup = markup
		}
		msg = text
	}

	if _, err := b.api.Send(msg); err != nil {
		log.Error("failed to send response", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func parseMode(f model.Format) string {
	switch f {
	case model.FormatMarkdown:
		return tgbotapi.ModeMarkdown
	case model.FormatHTML:
		return tgbotapi.ModeHTML
	default:
		return ""
	}
}

func keyboard(buttons []model.Button) interface{} {
	if len(buttons) == 0 {
		return nil
	}
	row := make([]tgbotapi.InlineKeyboardButton, len(buttons))
	for i, btn := range buttons {
		row[i] = tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Tag)
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}
