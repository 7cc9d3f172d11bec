package bot

import (
	"fmt"
	"math"
	"strings"

	"github.com/PaulSonOfLars/gotgbot/v2"

	"github.com/ligarx-org/audiov1/access"
	"github.com/ligarx-org/audiov1/utils"
)

// SubscriptionCheckCallback is the callback payload of the "check again"
// button under a missing-subscriptions denial.
const SubscriptionCheckCallback = "subs_check"

func (p *Processor) replyDenied(b *gotgbot.Bot, msg *gotgbot.Message, decision access.Decision) error {
	if decision.Verdict == access.VerdictMissingSubscriptions {
		_, err := msg.Reply(b, missingSubscriptionsText(decision), &gotgbot.SendMessageOpts{
			ReplyParameters: &gotgbot.ReplyParameters{
				AllowSendingWithoutReply: true,
			},
			ParseMode:   gotgbot.ParseModeHTML,
			ReplyMarkup: subscriptionKeyboard(decision),
		})
		return err
	}

	_, err := msg.Reply(b, denialText(decision), utils.DefaultSendOptions)
	return err
}

func denialText(decision access.Decision) string {
	switch decision.Verdict {
	case access.VerdictBanned:
		if decision.BanReason != "" {
			return fmt.Sprintf("🚫 Siz botdan foydalanishdan bloklangansiz.\nSabab: %s", utils.Escape(decision.BanReason))
		}
		return "🚫 Siz botdan foydalanishdan bloklangansiz."
	case access.VerdictMissingSubscriptions:
		return missingSubscriptionsText(decision)
	case access.VerdictThrottled:
		seconds := int64(math.Ceil(decision.RetryAfter.Seconds()))
		return fmt.Sprintf("🕒 Juda ko'p so'rov. %d soniyadan keyin qayta urinib ko'ring.", seconds)
	default:
		return "❌ Xatolik yuz berdi. Keyinroq urinib ko'ring."
	}
}

func missingSubscriptionsText(decision access.Decision) string {
	var sb strings.Builder
	sb.WriteString("📢 Botdan foydalanish uchun quyidagi kanallarga a'zo bo'ling:\n\n")
	for _, channel := range decision.MissingChannels {
		sb.WriteString("• ")
		sb.WriteString(utils.Escape(channel.Title))
		sb.WriteString("\n")
	}
	return sb.String()
}

func subscriptionKeyboard(decision access.Decision) gotgbot.InlineKeyboardMarkup {
	var rows [][]gotgbot.InlineKeyboardButton
	for _, channel := range decision.MissingChannels {
		if channel.Link() == "" {
			continue
		}
		rows = append(rows, []gotgbot.InlineKeyboardButton{
			{Text: "➕ " + channel.Title, Url: channel.Link()},
		})
	}
	rows = append(rows, []gotgbot.InlineKeyboardButton{
		{Text: "✅ Tekshirish", CallbackData: SubscriptionCheckCallback},
	})
	return gotgbot.InlineKeyboardMarkup{InlineKeyboard: rows}
}
