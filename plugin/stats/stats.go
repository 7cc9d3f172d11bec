package stats

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"

	"github.com/ligarx-org/audiov1/logger"
	"github.com/ligarx-org/audiov1/model"
	"github.com/ligarx-org/audiov1/plugin"
	"github.com/ligarx-org/audiov1/utils"
)

var log = logger.New("stats")

var trackedActivities = []string{"search", "download", "recognize", "start"}

type Plugin struct {
	userService     model.UserService
	activityService model.ActivityService
}

func New(userService model.UserService, activityService model.ActivityService) *Plugin {
	return &Plugin{
		userService:     userService,
		activityService: activityService,
	}
}

func (*Plugin) Name() string {
	return "stats"
}

func (*Plugin) Commands() []gotgbot.BotCommand {
	return nil // Because it's an admin plugin
}

func (p *Plugin) Handlers(botInfo *gotgbot.User) []plugin.Handler {
	return []plugin.Handler{
		&plugin.CommandHandler{
			Trigger:     regexp.MustCompile(fmt.Sprintf(`(?i)^/stats(?:@%s)?$`, botInfo.Username)),
			HandlerFunc: p.OnStats,
			AdminOnly:   true,
			SkipGate:    true,
		},
	}
}

func (p *Plugin) OnStats(b *gotgbot.Bot, c plugin.Context) error {
	userStats, err := p.userService.Stats()
	if err != nil {
		log.Err(err).Msg("Failed to get user statistics")
		_, err := c.EffectiveMessage.Reply(b, "❌ Statistikani olishda xatolik.", utils.DefaultSendOptions)
		return err
	}

	now := time.Now()
	var sb strings.Builder
	sb.WriteString("📊 <b>Statistika</b>\n\n")
	sb.WriteString(fmt.Sprintf("👥 Foydalanuvchilar: <b>%d</b>\n", userStats.Total))
	sb.WriteString(fmt.Sprintf("• Bugun faol: %d\n", userStats.ActiveToday))
	sb.WriteString(fmt.Sprintf("• Hafta: %d\n", userStats.ActiveWeek))
	sb.WriteString(fmt.Sprintf("• Oy: %d\n\n", userStats.ActiveMonth))

	for _, activityType := range trackedActivities {
		total, err := p.activityService.CountByType(activityType)
		if err != nil {
			log.Err(err).Str("activity_type", activityType).Msg("Failed to count activity")
			continue
		}
		today, err := p.activityService.CountByTypeSince(activityType, now.Add(-24*time.Hour))
		if err != nil {
			log.Err(err).Str("activity_type", activityType).Msg("Failed to count activity")
			continue
		}
		sb.WriteString(fmt.Sprintf("▫️ %s: <b>%d</b> (bugun: %d)\n", activityType, total, today))
	}

	_, err = c.EffectiveMessage.Reply(b, sb.String(), utils.DefaultSendOptions)
	return err
}
