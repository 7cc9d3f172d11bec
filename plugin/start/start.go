package start

import (
	"context"
	"fmt"
	"regexp"

	"github.com/PaulSonOfLars/gotgbot/v2"

	"github.com/ligarx-org/audiov1/access"
	"github.com/ligarx-org/audiov1/logger"
	"github.com/ligarx-org/audiov1/plugin"
	"github.com/ligarx-org/audiov1/utils"
)

var log = logger.New("start")

type Plugin struct {
	gate *access.ChannelGate
}

func New(gate *access.ChannelGate) *Plugin {
	return &Plugin{
		gate: gate,
	}
}

func (*Plugin) Name() string {
	return "start"
}

func (*Plugin) Commands() []gotgbot.BotCommand {
	return []gotgbot.BotCommand{
		{
			Command:     "start",
			Description: "Botni ishga tushirish",
		},
	}
}

func (p *Plugin) Handlers(botInfo *gotgbot.User) []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:      regexp.MustCompile(fmt.Sprintf(`(?i)^/start(?:@%s)?$`, botInfo.Username)),
			HandlerFunc:  p.OnStart,
			ActivityType: "start",
		},
		&plugin.CallbackHandler{
			Trigger:     regexp.MustCompile(`^subs_check$`),
			HandlerFunc: p.OnCheckSubscriptions,
			// The user is unsubscribed right now, the pipeline would
			// deadlock them out of the re-check
			SkipGate: true,
		},
	}
}

func (p *Plugin) OnStart(b *gotgbot.Bot, c plugin.Context) error {
	_, err := c.EffectiveMessage.Reply(b,
		fmt.Sprintf("👋 Salom, <b>%s</b>!\nMusiqa qidirish uchun nom yozing yoki audio yuboring.",
			utils.Escape(c.EffectiveUser.FirstName),
		),
		utils.DefaultSendOptions)
	return err
}

func (p *Plugin) OnCheckSubscriptions(b *gotgbot.Bot, c plugin.Context) error {
	missing, err := p.gate.CheckFresh(context.Background(), c.CallbackQuery.From.Id)
	if err != nil {
		log.Err(err).Int64("user_id", c.CallbackQuery.From.Id).Msg("Subscription re-check failed")
		_, err := c.CallbackQuery.Answer(b, &gotgbot.AnswerCallbackQueryOpts{
			Text:      "❌ Xatolik yuz berdi. Keyinroq urinib ko'ring.",
			ShowAlert: true,
		})
		return err
	}

	if len(missing) > 0 {
		_, err := c.CallbackQuery.Answer(b, &gotgbot.AnswerCallbackQueryOpts{
			Text:      "❌ Siz hali barcha kanallarga a'zo emassiz.",
			ShowAlert: true,
		})
		return err
	}

	if c.EffectiveMessage != nil {
		_, _, err := c.EffectiveMessage.EditText(b, "✅ Rahmat! Endi botdan foydalanishingiz mumkin.", nil)
		if err != nil {
			log.Err(err).Int64("chat_id", c.EffectiveChat.Id).Msg("Failed to edit subscription prompt")
		}
	}

	_, err = c.CallbackQuery.Answer(b, &gotgbot.AnswerCallbackQueryOpts{
		Text: "✅ A'zolik tasdiqlandi!",
	})
	return err
}
