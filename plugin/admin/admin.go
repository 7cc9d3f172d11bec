package admin

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PaulSonOfLars/gotgbot/v2"

	"github.com/ligarx-org/audiov1/access"
	"github.com/ligarx-org/audiov1/logger"
	"github.com/ligarx-org/audiov1/model"
	"github.com/ligarx-org/audiov1/plugin"
	"github.com/ligarx-org/audiov1/utils"
)

const bannedPageSize = 10

var log = logger.New("admin")

type Plugin struct {
	registry       *access.AdminRegistry
	userService    model.UserService
	channelService model.ChannelService
}

func New(registry *access.AdminRegistry, userService model.UserService, channelService model.ChannelService) *Plugin {
	return &Plugin{
		registry:       registry,
		userService:    userService,
		channelService: channelService,
	}
}

func (*Plugin) Name() string {
	return "admin"
}

func (*Plugin) Commands() []gotgbot.BotCommand {
	return nil // Because it's an admin plugin
}

func (p *Plugin) Handlers(botInfo *gotgbot.User) []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/ban(?:@%s)? (?P<id>\d+) (?P<reason>.+)$`, botInfo.Username)),
			HandlerFunc: p.OnBan,
			AdminOnly:   true,
			SkipGate:    true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/unban(?:@%s)? (?P<id>\d+)$`, botInfo.Username)),
			HandlerFunc: p.OnUnban,
			AdminOnly:   true,
			SkipGate:    true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/banned(?:@%s)?(?: (?P<page>\d+))?$`, botInfo.Username)),
			HandlerFunc: p.OnBanned,
			AdminOnly:   true,
			SkipGate:    true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/addadmin(?:@%s)? (?P<id>\d+)$`, botInfo.Username)),
			HandlerFunc: p.OnAddAdmin,
			AdminOnly:   true,
			SkipGate:    true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/deladmin(?:@%s)? (?P<id>\d+)$`, botInfo.Username)),
			HandlerFunc: p.OnRemoveAdmin,
			AdminOnly:   true,
			SkipGate:    true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/admins(?:@%s)?$`, botInfo.Username)),
			HandlerFunc: p.OnListAdmins,
			AdminOnly:   true,
			SkipGate:    true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/addchannel(?:@%s)? (?P<id>-?\d+) (?P<username>\S+) (?P<title>.+)$`, botInfo.Username)),
			HandlerFunc: p.OnAddChannel,
			AdminOnly:   true,
			SkipGate:    true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/delchannel(?:@%s)? (?P<id>-?\d+)$`, botInfo.Username)),
			HandlerFunc: p.OnRemoveChannel,
			AdminOnly:   true,
			SkipGate:    true,
		},
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/channels(?:@%s)?$`, botInfo.Username)),
			HandlerFunc: p.OnListChannels,
			AdminOnly:   true,
			SkipGate:    true,
		},
	}
}

func (p *Plugin) OnBan(b *gotgbot.Bot, c plugin.Context) error {
	userID, _ := strconv.ParseInt(c.NamedMatches["id"], 10, 64)
	reason := c.NamedMatches["reason"]

	if p.registry.IsAdmin(userID) {
		_, err := c.EffectiveMessage.Reply(b, "❌ Administratorni bloklab bo'lmaydi.", utils.DefaultSendOptions)
		return err
	}

	err := p.userService.Ban(userID, reason)
	if errors.Is(err, model.ErrNotFound) {
		_, err := c.EffectiveMessage.Reply(b, "❌ Bunday foydalanuvchi topilmadi.", utils.DefaultSendOptions)
		return err
	}
	if err != nil {
		return err
	}

	log.Info().
		Int64("user_id", userID).
		Int64("admin_id", c.EffectiveUser.Id).
		Str("reason", reason).
		Msg("User banned")

	_, err = c.EffectiveMessage.Reply(b,
		fmt.Sprintf("🚫 Foydalanuvchi <code>%d</code> bloklandi.\nSabab: %s", userID, utils.Escape(reason)),
		utils.DefaultSendOptions)
	return err
}

func (p *Plugin) OnUnban(b *gotgbot.Bot, c plugin.Context) error {
	userID, _ := strconv.ParseInt(c.NamedMatches["id"], 10, 64)

	err := p.userService.Unban(userID)
	if errors.Is(err, model.ErrNotFound) {
		_, err := c.EffectiveMessage.Reply(b, "❌ Bunday foydalanuvchi topilmadi.", utils.DefaultSendOptions)
		return err
	}
	if err != nil {
		return err
	}

	log.Info().
		Int64("user_id", userID).
		Int64("admin_id", c.EffectiveUser.Id).
		Msg("User unbanned")

	_, err = c.EffectiveMessage.Reply(b,
		fmt.Sprintf("✅ Foydalanuvchi <code>%d</code> blokdan chiqarildi.", userID),
		utils.DefaultSendOptions)
	return err
}

func (p *Plugin) OnBanned(b *gotgbot.Bot, c plugin.Context) error {
	page := 1
	if c.NamedMatches["page"] != "" {
		page, _ = strconv.Atoi(c.NamedMatches["page"])
		if page < 1 {
			page = 1
		}
	}

	users, total, err := p.userService.GetBanned((page-1)*bannedPageSize, bannedPageSize)
	if err != nil {
		return err
	}

	if total == 0 {
		_, err := c.EffectiveMessage.Reply(b, "<i>Bloklangan foydalanuvchilar yo'q.</i>", utils.DefaultSendOptions)
		return err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🚫 <b>Bloklanganlar</b> (%d):\n", total))
	for _, user := range users {
		sb.WriteString(fmt.Sprintf("• <code>%d</code> — %s", user.ID, utils.Escape(user.GetFullName())))
		if user.BanReason.Valid {
			sb.WriteString(fmt.Sprintf(" (%s)", utils.Escape(user.BanReason.String)))
		}
		sb.WriteString("\n")
	}
	totalPages := (total + bannedPageSize - 1) / bannedPageSize
	sb.WriteString(fmt.Sprintf("\nSahifa %d/%d", page, totalPages))

	_, err = c.EffectiveMessage.Reply(b, sb.String(), utils.DefaultSendOptions)
	return err
}

func (p *Plugin) OnAddAdmin(b *gotgbot.Bot, c plugin.Context) error {
	targetID, _ := strconv.ParseInt(c.NamedMatches["id"], 10, 64)

	err := p.registry.Add(c.EffectiveUser.Id, targetID)
	if errors.Is(err, model.ErrNotAnAdmin) {
		_, err := c.EffectiveMessage.Reply(b, "❌ Sizda bunday huquq yo'q.", utils.DefaultSendOptions)
		return err
	}
	if err != nil {
		return err
	}

	_, err = c.EffectiveMessage.Reply(b,
		fmt.Sprintf("✅ <code>%d</code> administrator qilindi.", targetID),
		utils.DefaultSendOptions)
	return err
}

func (p *Plugin) OnRemoveAdmin(b *gotgbot.Bot, c plugin.Context) error {
	targetID, _ := strconv.ParseInt(c.NamedMatches["id"], 10, 64)

	err := p.registry.Remove(c.EffectiveUser.Id, targetID)
	if errors.Is(err, model.ErrProtected) {
		_, err := c.EffectiveMessage.Reply(b, "❌ Bosh administratorni o'chirib bo'lmaydi.", utils.DefaultSendOptions)
		return err
	}
	if errors.Is(err, model.ErrNotAnAdmin) {
		_, err := c.EffectiveMessage.Reply(b, "❌ Sizda bunday huquq yo'q.", utils.DefaultSendOptions)
		return err
	}
	if err != nil {
		return err
	}

	_, err = c.EffectiveMessage.Reply(b,
		fmt.Sprintf("✅ <code>%d</code> administratorlikdan olindi.", targetID),
		utils.DefaultSendOptions)
	return err
}

func (p *Plugin) OnListAdmins(b *gotgbot.Bot, c plugin.Context) error {
	admins, err := p.registry.List()
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("👮 <b>Administratorlar:</b>\n")
	for _, admin := range admins {
		sb.WriteString(fmt.Sprintf("• <code>%d</code>\n", admin.UserID))
	}
	if len(admins) == 0 {
		sb.WriteString("<i>Qo'shimcha administratorlar yo'q.</i>")
	}

	_, err = c.EffectiveMessage.Reply(b, sb.String(), utils.DefaultSendOptions)
	return err
}

func sqlNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func (p *Plugin) OnAddChannel(b *gotgbot.Bot, c plugin.Context) error {
	channelID, _ := strconv.ParseInt(c.NamedMatches["id"], 10, 64)
	username := strings.TrimPrefix(c.NamedMatches["username"], "@")
	title := c.NamedMatches["title"]

	err := p.channelService.Add(&model.MandatoryChannel{
		ChannelID: channelID,
		Username:  sqlNullString(username),
		Title:     title,
		AddedBy:   c.EffectiveUser.Id,
	})
	if err != nil {
		return err
	}

	log.Info().
		Int64("channel_id", channelID).
		Int64("admin_id", c.EffectiveUser.Id).
		Msg("Mandatory channel added")

	_, err = c.EffectiveMessage.Reply(b,
		fmt.Sprintf("✅ Majburiy kanal qo'shildi: <b>%s</b>", utils.Escape(title)),
		utils.DefaultSendOptions)
	return err
}

func (p *Plugin) OnRemoveChannel(b *gotgbot.Bot, c plugin.Context) error {
	channelID, _ := strconv.ParseInt(c.NamedMatches["id"], 10, 64)

	err := p.channelService.Remove(channelID)
	if errors.Is(err, model.ErrNotFound) {
		_, err := c.EffectiveMessage.Reply(b, "❌ Bunday kanal topilmadi.", utils.DefaultSendOptions)
		return err
	}
	if err != nil {
		return err
	}

	_, err = c.EffectiveMessage.Reply(b,
		fmt.Sprintf("✅ Kanal <code>%d</code> majburiy ro'yxatdan olindi.", channelID),
		utils.DefaultSendOptions)
	return err
}

func (p *Plugin) OnListChannels(b *gotgbot.Bot, c plugin.Context) error {
	channels, err := p.channelService.GetActive()
	if err != nil {
		return err
	}

	if len(channels) == 0 {
		_, err := c.EffectiveMessage.Reply(b, "<i>Majburiy kanallar yo'q.</i>", utils.DefaultSendOptions)
		return err
	}

	var sb strings.Builder
	sb.WriteString("📢 <b>Majburiy kanallar:</b>\n")
	for _, channel := range channels {
		sb.WriteString(fmt.Sprintf("• %s (<code>%d</code>)", utils.Escape(channel.Title), channel.ChannelID))
		if channel.Username.Valid {
			sb.WriteString(" — @" + channel.Username.String)
		}
		sb.WriteString("\n")
	}

	_, err = c.EffectiveMessage.Reply(b, sb.String(), utils.DefaultSendOptions)
	return err
}
