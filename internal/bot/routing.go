package bot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/foodgram/internal/domain/shopping"
	"github.com/Spok95/foodgram/internal/infra/metrics"
)

const helpText = "Команды:\n" +
	"/start — начать работу\n" +
	"/cart — список покупок файлом .txt\n" +
	"/cart xlsx — список покупок в Excel\n" +
	"/help — помощь"

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		u, err := b.users.GetByTelegramID(ctx, msg.From.ID)
		if err != nil {
			b.log.Error("lookup telegram user", "tg_id", msg.From.ID, "err", err)
			b.send(tgbotapi.NewMessage(chatID, "Ошибка: не удалось загрузить профиль"))
			return
		}
		if u == nil {
			b.send(tgbotapi.NewMessage(chatID, notLinkedText(msg.From.ID)))
			return
		}
		m := tgbotapi.NewMessage(chatID,
			fmt.Sprintf("Привет, %s! Список покупок по рецептам из корзины — кнопкой снизу.", u.Username))
		m.ReplyMarkup = mainReplyKeyboard()
		b.send(m)

	case "help":
		b.send(tgbotapi.NewMessage(chatID, helpText))

	case "cart":
		format := shopping.FormatText
		if strings.EqualFold(strings.TrimSpace(msg.CommandArguments()), shopping.FormatXLSX) {
			format = shopping.FormatXLSX
		}
		b.sendShoppingList(ctx, chatID, msg.From.ID, format)

	default:
		b.send(tgbotapi.NewMessage(chatID, "Не знаю такую команду. Наберите /help"))
	}
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	switch strings.TrimSpace(msg.Text) {
	case btnCart:
		b.sendShoppingList(ctx, msg.Chat.ID, msg.From.ID, shopping.FormatText)
	case btnCartXLSX:
		b.sendShoppingList(ctx, msg.Chat.ID, msg.From.ID, shopping.FormatXLSX)
	default:
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "Наберите /help"))
	}
}

func notLinkedText(tgID int64) string {
	return fmt.Sprintf("Telegram не привязан к аккаунту. Укажите в профиле ваш Telegram ID: %d", tgID)
}

// sendShoppingList собирает список покупок пользователя и присылает его документом.
func (b *Bot) sendShoppingList(ctx context.Context, chatID, tgID int64, format string) {
	u, err := b.users.GetByTelegramID(ctx, tgID)
	if err != nil {
		b.log.Error("lookup telegram user", "tg_id", tgID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Ошибка: не удалось загрузить профиль"))
		return
	}
	if u == nil {
		b.send(tgbotapi.NewMessage(chatID, notLinkedText(tgID)))
		return
	}

	rep, err := b.shopping.BuildReport(ctx, u.ID)
	if err != nil {
		b.log.Error("build shopping list", "user_id", u.ID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Ошибка формирования списка покупок"))
		return
	}
	if len(rep.Recipes) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "Корзина пуста. Добавьте рецепты в список покупок на сайте."))
		return
	}

	var data []byte
	switch format {
	case shopping.FormatXLSX:
		if data, err = rep.XLSX(); err != nil {
			b.log.Error("render shopping list xlsx", "user_id", u.ID, "err", err)
			b.send(tgbotapi.NewMessage(chatID, "Ошибка формирования файла"))
			return
		}
	default:
		buf := &bytes.Buffer{}
		if err := rep.WriteText(buf); err != nil {
			b.log.Error("render shopping list text", "user_id", u.ID, "err", err)
			b.send(tgbotapi.NewMessage(chatID, "Ошибка формирования файла"))
			return
		}
		data = buf.Bytes()
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  shopping.Filename(format),
		Bytes: data,
	})
	doc.Caption = fmt.Sprintf("Рецептов: %d, ингредиентов: %d", len(rep.Recipes), len(rep.Ingredients))
	b.send(doc)
	metrics.ShoppingReports.WithLabelValues(format).Inc()
}
