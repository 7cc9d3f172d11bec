package broadcast

import (
	"fmt"
	"regexp"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"

	"github.com/ligarx-org/audiov1/logger"
	"github.com/ligarx-org/audiov1/model"
	"github.com/ligarx-org/audiov1/plugin"
	"github.com/ligarx-org/audiov1/utils"
)

// Telegram allows ~30 messages per second for bots; stay under it.
const sendDelay = 50 * time.Millisecond

var log = logger.New("broadcast")

type Plugin struct {
	userService model.UserService
}

func New(userService model.UserService) *Plugin {
	return &Plugin{
		userService: userService,
	}
}

func (*Plugin) Name() string {
	return "broadcast"
}

func (*Plugin) Commands() []gotgbot.BotCommand {
	return nil // Because it's an admin plugin
}

func (p *Plugin) Handlers(botInfo *gotgbot.User) []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/broadcast(?:@%s)? (?P<text>(?s).+)$`, botInfo.Username)),
			HandlerFunc: p.OnBroadcast,
			AdminOnly:   true,
			SkipGate:    true,
		},
	}
}

func (p *Plugin) OnBroadcast(b *gotgbot.Bot, c plugin.Context) error {
	text := c.NamedMatches["text"]

	users, err := p.userService.GetAllActive()
	if err != nil {
		return err
	}

	_, err = c.EffectiveMessage.Reply(b,
		fmt.Sprintf("📤 Yuborish boshlandi: %d foydalanuvchi.", len(users)),
		utils.DefaultSendOptions)
	if err != nil {
		return err
	}

	sent := 0
	failed := 0
	for _, user := range users {
		_, err := b.SendMessage(user.ID, text, &gotgbot.SendMessageOpts{
			ParseMode: gotgbot.ParseModeHTML,
		})
		if err != nil {
			// Blocked the bot, deactivated account, etc.
			failed++
			log.Debug().Err(err).Int64("user_id", user.ID).Msg("Broadcast delivery failed")
		} else {
			sent++
		}
		time.Sleep(sendDelay)
	}

	log.Info().
		Int("sent", sent).
		Int("failed", failed).
		Int64("admin_id", c.EffectiveUser.Id).
		Msg("Broadcast finished")

	_, err = c.EffectiveMessage.Reply(b,
		fmt.Sprintf("✅ Yuborildi: %d\n❌ Yetkazilmadi: %d", sent, failed),
		utils.DefaultSendOptions)
	return err
}
