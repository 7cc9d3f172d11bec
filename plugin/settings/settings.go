package settings

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PaulSonOfLars/gotgbot/v2"

	"github.com/ligarx-org/audiov1/logger"
	"github.com/ligarx-org/audiov1/model"
	"github.com/ligarx-org/audiov1/plugin"
	"github.com/ligarx-org/audiov1/utils"
)

var log = logger.New("settings")

type Plugin struct {
	settingService model.SettingService
}

func New(settingService model.SettingService) *Plugin {
	return &Plugin{
		settingService: settingService,
	}
}

func (*Plugin) Name() string {
	return "settings"
}

func (*Plugin) Commands() []gotgbot.BotCommand {
	return nil // Because it's a superuser plugin
}

func (p *Plugin) Handlers(botInfo *gotgbot.User) []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:       regexp.MustCompile(fmt.Sprintf(`(?i)^/set(?:@%s)? (?P<key>[a-z0-9_.]+) (?P<value>\S+)$`, botInfo.Username)),
			HandlerFunc:   p.OnSet,
			MegaAdminOnly: true,
			SkipGate:      true,
		},
		&plugin.CommandHandler{
			Trigger:       regexp.MustCompile(fmt.Sprintf(`(?i)^/settings(?:@%s)?$`, botInfo.Username)),
			HandlerFunc:   p.OnList,
			MegaAdminOnly: true,
			SkipGate:      true,
		},
	}
}

func (p *Plugin) OnSet(b *gotgbot.Bot, c plugin.Context) error {
	key := c.NamedMatches["key"]
	value := c.NamedMatches["value"]

	if err := p.settingService.Set(key, value); err != nil {
		return err
	}

	log.Info().
		Str("key", key).
		Str("value", value).
		Int64("admin_id", c.EffectiveUser.Id).
		Msg("Setting updated")

	_, err := c.EffectiveMessage.Reply(b,
		fmt.Sprintf("✅ <code>%s</code> = <code>%s</code>", utils.Escape(key), utils.Escape(value)),
		utils.DefaultSendOptions)
	return err
}

func (p *Plugin) OnList(b *gotgbot.Bot, c plugin.Context) error {
	allSettings, err := p.settingService.GetAll()
	if err != nil {
		return err
	}

	if len(allSettings) == 0 {
		_, err := c.EffectiveMessage.Reply(b, "<i>Sozlamalar o'zgartirilmagan, standart qiymatlar ishlatilmoqda.</i>", utils.DefaultSendOptions)
		return err
	}

	var sb strings.Builder
	sb.WriteString("⚙️ <b>Sozlamalar:</b>\n")
	for _, setting := range allSettings {
		sb.WriteString(fmt.Sprintf("• <code>%s</code> = <code>%s</code>\n",
			utils.Escape(setting.Key),
			utils.Escape(setting.Value),
		))
	}

	_, err = c.EffectiveMessage.Reply(b, sb.String(), utils.DefaultSendOptions)
	return err
}
