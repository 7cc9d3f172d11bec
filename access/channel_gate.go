package access

import (
	"context"
	"errors"
	"time"

	"github.com/ligarx-org/audiov1/logger"
	"github.com/ligarx-org/audiov1/model"
)

// SubscriptionChecker is the external membership-check collaborator. It must
// be safe for concurrent use and must not cache; the gate owns all caching.
type SubscriptionChecker interface {
	CheckSubscription(ctx context.Context, userID, channelID int64) (bool, error)
}

// ChannelGate verifies membership in every active mandatory channel. Cached
// verdicts expire after the configured TTL; a failed or timed-out external
// check counts as not subscribed for this decision but is never cached, so
// the next command retries instead of pinning a false negative.
type ChannelGate struct {
	channelService      model.ChannelService
	subscriptionService model.SubscriptionService
	checker             SubscriptionChecker
	settings            *Settings
	log                 *logger.Logger
	now                 func() time.Time
}

func NewChannelGate(
	channelService model.ChannelService,
	subscriptionService model.SubscriptionService,
	checker SubscriptionChecker,
	settings *Settings,
) *ChannelGate {
	return &ChannelGate{
		channelService:      channelService,
		subscriptionService: subscriptionService,
		checker:             checker,
		settings:            settings,
		log:                 logger.New("channelGate"),
		now:                 time.Now,
	}
}

// Check returns the active channels the user is not (verifiably) subscribed
// to. An empty result means the gate is passed. The returned error signals
// the mandatory-channel list itself could not be loaded.
func (g *ChannelGate) Check(ctx context.Context, userID int64) ([]model.MandatoryChannel, error) {
	channels, err := g.channelService.GetActive()
	if err != nil {
		return nil, err
	}

	var missing []model.MandatoryChannel
	ttl := g.settings.SubscriptionTTL()

	for _, channel := range channels {
		subscribed := g.isSubscribed(ctx, userID, channel.ChannelID, ttl)
		if !subscribed {
			missing = append(missing, channel)
		}
	}

	return missing, nil
}

// CheckFresh is Check with the cache bypassed. The re-check button uses it
// so a user who just joined is not told to wait out the TTL.
func (g *ChannelGate) CheckFresh(ctx context.Context, userID int64) ([]model.MandatoryChannel, error) {
	channels, err := g.channelService.GetActive()
	if err != nil {
		return nil, err
	}

	var missing []model.MandatoryChannel
	for _, channel := range channels {
		if !g.checkAndCache(ctx, userID, channel.ChannelID) {
			missing = append(missing, channel)
		}
	}

	return missing, nil
}

func (g *ChannelGate) isSubscribed(ctx context.Context, userID, channelID int64, ttl time.Duration) bool {
	cached, err := g.subscriptionService.Get(userID, channelID)
	if err == nil && g.now().Sub(cached.CheckedAt) < ttl {
		return cached.IsSubscribed
	}
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		g.log.Err(err).Int64("user_id", userID).Msg("Failed to read cached subscription")
		return false
	}

	return g.checkAndCache(ctx, userID, channelID)
}

func (g *ChannelGate) checkAndCache(ctx context.Context, userID, channelID int64) bool {
	checkCtx, cancel := context.WithTimeout(ctx, g.settings.SubscriptionCheckTimeout())
	defer cancel()

	subscribed, err := g.checker.CheckSubscription(checkCtx, userID, channelID)
	if err != nil {
		// Fail closed and leave the stale entry alone
		g.log.Debug().
			Err(err).
			Int64("user_id", userID).
			Int64("channel_id", channelID).
			Msg("Subscription check failed, treating as not subscribed")
		return false
	}

	if err := g.subscriptionService.Upsert(userID, channelID, subscribed); err != nil {
		g.log.Err(err).Int64("user_id", userID).Msg("Failed to cache subscription verdict")
	}

	return subscribed
}
