package access

import (
	"context"
	"errors"

	"github.com/ligarx-org/audiov1/logger"
	"github.com/ligarx-org/audiov1/model"
)

// Controller is the single admission entry point. The pipeline order is
// fixed: ban check, subscription gate, rate limiter. A banned user learns
// nothing about channels or throttle state. The allow path has already
// written the activity record when Authorize returns.
type Controller struct {
	userService model.UserService
	gate        *ChannelGate
	limiter     *RateLimiter
	log         *logger.Logger
}

func NewController(userService model.UserService, gate *ChannelGate, limiter *RateLimiter) *Controller {
	return &Controller{
		userService: userService,
		gate:        gate,
		limiter:     limiter,
		log:         logger.New("accessController"),
	}
}

func (c *Controller) Authorize(ctx context.Context, userID int64, activityType, activityData string) Decision {
	banned, err := c.userService.IsBanned(userID)
	if err != nil {
		c.log.Err(err).Int64("user_id", userID).Msg("Ban check failed, denying")
		return denyUnavailable()
	}
	if banned {
		reason := ""
		if info, err := c.userService.BanInfo(userID); err == nil {
			reason = info.Reason
		} else if !errors.Is(err, model.ErrNotFound) {
			c.log.Err(err).Int64("user_id", userID).Msg("Failed to read ban info")
		}
		return denyBanned(reason)
	}

	missing, err := c.gate.Check(ctx, userID)
	if err != nil {
		c.log.Err(err).Int64("user_id", userID).Msg("Subscription gate failed, denying")
		return denyUnavailable()
	}
	if len(missing) > 0 {
		return denyMissingSubscriptions(missing)
	}

	retryAfter, err := c.limiter.AdmitAndRecord(userID, activityType, activityData)
	if err != nil {
		c.log.Err(err).Int64("user_id", userID).Str("activity_type", activityType).Msg("Rate limiter failed, denying")
		return denyUnavailable()
	}
	if retryAfter > 0 {
		return denyThrottled(retryAfter)
	}

	return allow()
}
