package language

import (
	"fmt"
	"regexp"

	"github.com/PaulSonOfLars/gotgbot/v2"

	"github.com/ligarx-org/audiov1/model"
	"github.com/ligarx-org/audiov1/plugin"
	"github.com/ligarx-org/audiov1/utils"
)

var supported = map[string]string{
	"uz": "O'zbekcha 🇺🇿",
	"ru": "Русский 🇷🇺",
	"en": "English 🇬🇧",
}

type Plugin struct {
	userService model.UserService
}

func New(userService model.UserService) *Plugin {
	return &Plugin{
		userService: userService,
	}
}

func (*Plugin) Name() string {
	return "language"
}

func (*Plugin) Commands() []gotgbot.BotCommand {
	return []gotgbot.BotCommand{
		{
			Command:     "lang",
			Description: "Tilni o'zgartirish",
		},
	}
}

func (p *Plugin) Handlers(botInfo *gotgbot.User) []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:      regexp.MustCompile(fmt.Sprintf(`(?i)^/lang(?:@%s)?(?: (?P<lang>[a-z]{2}))?$`, botInfo.Username)),
			HandlerFunc:  p.OnLanguage,
			ActivityType: "language",
		},
	}
}

func (p *Plugin) OnLanguage(b *gotgbot.Bot, c plugin.Context) error {
	lang := c.NamedMatches["lang"]
	if lang == "" {
		_, err := c.EffectiveMessage.Reply(b,
			"🌐 Til tanlang: <code>/lang uz</code>, <code>/lang ru</code>, <code>/lang en</code>",
			utils.DefaultSendOptions)
		return err
	}

	name, ok := supported[lang]
	if !ok {
		_, err := c.EffectiveMessage.Reply(b, "❌ Bunday til qo'llab-quvvatlanmaydi.", utils.DefaultSendOptions)
		return err
	}

	if err := p.userService.SetLanguage(c.EffectiveUser.Id, lang); err != nil {
		return err
	}

	_, err := c.EffectiveMessage.Reply(b,
		fmt.Sprintf("✅ Til o'zgartirildi: %s", name),
		utils.DefaultSendOptions)
	return err
}
