package bot

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

const (
	btnCart     = "🛒 Список покупок"
	btnCartXLSX = "📊 Список покупок (Excel)"
)

// mainReplyKeyboard — нижняя панель с выгрузкой списка покупок.
func mainReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.ReplyKeyboardMarkup{
		ResizeKeyboard: true,
		Keyboard: [][]tgbotapi.KeyboardButton{
			{tgbotapi.NewKeyboardButton(btnCart)},
			{tgbotapi.NewKeyboardButton(btnCartXLSX)},
		},
	}
}
