// Package bot — Telegram-бот: по команде /cart присылает список покупок
// пользователя, чей Telegram привязан к аккаунту.
package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/foodgram/internal/domain/shopping"
	"github.com/Spok95/foodgram/internal/domain/users"
)

// API — то, чем бот пользуется из *tgbotapi.BotAPI.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

type UserFinder interface {
	GetByTelegramID(ctx context.Context, tgID int64) (*users.User, error)
}

type ReportBuilder interface {
	BuildReport(ctx context.Context, userID int64) (*shopping.Report, error)
}

type Bot struct {
	api      API
	log      *slog.Logger
	users    UserFinder
	shopping ReportBuilder
}

func New(api API, log *slog.Logger, usersRepo UserFinder, reports ReportBuilder) *Bot {
	return &Bot{
		api:      api,
		log:      log.With("component", "bot"),
		users:    usersRepo,
		shopping: reports,
	}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				b.onMessage(ctx, upd.Message)
			}
		}
	}
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

func (b *Bot) onMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleText(ctx, msg)
}
