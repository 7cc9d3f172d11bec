package telegram

import (
	"context"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
)

// MemberChecker answers subscription checks via the Bot API. It keeps no
// state between calls; the access layer owns all caching.
type MemberChecker struct {
	bot *gotgbot.Bot
}

func NewMemberChecker(bot *gotgbot.Bot) *MemberChecker {
	return &MemberChecker{bot: bot}
}

func (c *MemberChecker) CheckSubscription(ctx context.Context, userID, channelID int64) (bool, error) {
	opts := &gotgbot.GetChatMemberOpts{}
	if deadline, ok := ctx.Deadline(); ok {
		opts.RequestOpts = &gotgbot.RequestOpts{Timeout: time.Until(deadline)}
	}

	member, err := c.bot.GetChatMember(channelID, userID, opts)
	if err != nil {
		return false, err
	}

	status := member.MergeChatMember().Status
	return status != "left" && status != "kicked", nil
}
