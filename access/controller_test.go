package access

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ligarx-org/audiov1/model"
)

type controllerFixture struct {
	controller          *Controller
	clock               *fakeClock
	userService         *fakeUserService
	activityService     *fakeActivityService
	channelService      *fakeChannelService
	subscriptionService *fakeSubscriptionService
	checker             *fakeChecker
}

func newControllerFixture() *controllerFixture {
	clock := newFakeClock()
	settings := NewSettings(newFakeSettingService(), testConfig())

	userService := newFakeUserService()
	activityService := newFakeActivityService(clock.Now)
	channelService := &fakeChannelService{}
	subscriptionService := newFakeSubscriptionService(clock.Now)
	checker := &fakeChecker{result: true}

	gate := NewChannelGate(channelService, subscriptionService, checker, settings)
	gate.now = clock.Now
	limiter := NewRateLimiter(activityService, settings)
	limiter.now = clock.Now

	return &controllerFixture{
		controller:          NewController(userService, gate, limiter),
		clock:               clock,
		userService:         userService,
		activityService:     activityService,
		channelService:      channelService,
		subscriptionService: subscriptionService,
		checker:             checker,
	}
}

func TestAuthorizeAllowsAndRecordsActivity(t *testing.T) {
	fixture := newControllerFixture()

	decision := fixture.controller.Authorize(context.Background(), 1, "download", "track-42")

	assert.True(t, decision.Allowed())
	assert.Equal(t, VerdictAllow, decision.Verdict)

	require.Equal(t, 1, fixture.activityService.count())
	entry := fixture.activityService.entries[0]
	assert.Equal(t, int64(1), entry.userID)
	assert.Equal(t, "download", entry.activityType)
	assert.Equal(t, "track-42", entry.activityData)
}

func TestAuthorizeDeniesBannedUser(t *testing.T) {
	fixture := newControllerFixture()
	fixture.channelService.channels = []model.MandatoryChannel{testChannel(-100123, "audiochannel")}
	require.NoError(t, fixture.userService.Ban(1, "spam"))

	decision := fixture.controller.Authorize(context.Background(), 1, "download", "")

	assert.False(t, decision.Allowed())
	assert.Equal(t, VerdictBanned, decision.Verdict)
	assert.Equal(t, "spam", decision.BanReason)

	// The pipeline stops at the ban: no subscription check, no rate slot.
	assert.Equal(t, 0, fixture.checker.calls)
	assert.Equal(t, 0, fixture.activityService.count())
}

func TestAuthorizeDeniesMissingSubscription(t *testing.T) {
	fixture := newControllerFixture()
	fixture.channelService.channels = []model.MandatoryChannel{testChannel(-100123, "audiochannel")}
	fixture.checker.result = false

	decision := fixture.controller.Authorize(context.Background(), 1, "download", "")

	assert.Equal(t, VerdictMissingSubscriptions, decision.Verdict)
	require.Len(t, decision.MissingChannels, 1)
	assert.Equal(t, int64(-100123), decision.MissingChannels[0].ChannelID)

	// A gated-out request consumes no rate slot.
	assert.Equal(t, 0, fixture.activityService.count())
}

func TestAuthorizeThrottlesBeyondLimit(t *testing.T) {
	fixture := newControllerFixture()

	for i := 0; i < 5; i++ {
		decision := fixture.controller.Authorize(context.Background(), 1, "download", "")
		require.True(t, decision.Allowed())
	}

	decision := fixture.controller.Authorize(context.Background(), 1, "download", "")

	assert.Equal(t, VerdictThrottled, decision.Verdict)
	assert.Positive(t, decision.RetryAfter)
	assert.Equal(t, 5, fixture.activityService.count())
}

func TestAuthorizeAllowsAgainAfterWindow(t *testing.T) {
	fixture := newControllerFixture()

	for i := 0; i < 5; i++ {
		fixture.controller.Authorize(context.Background(), 1, "download", "")
	}
	fixture.clock.Advance(61 * time.Second)

	decision := fixture.controller.Authorize(context.Background(), 1, "download", "")
	assert.True(t, decision.Allowed())
}

func TestAuthorizeFailsClosedOnBanCheckError(t *testing.T) {
	fixture := newControllerFixture()
	fixture.userService.bannedErr = errors.New("connection lost")

	decision := fixture.controller.Authorize(context.Background(), 1, "download", "")

	assert.Equal(t, VerdictUnavailable, decision.Verdict)
	assert.Equal(t, 0, fixture.activityService.count())
}

func TestAuthorizeFailsClosedOnLedgerError(t *testing.T) {
	fixture := newControllerFixture()
	fixture.activityService.countErr = errors.New("connection lost")

	decision := fixture.controller.Authorize(context.Background(), 1, "download", "")

	assert.Equal(t, VerdictUnavailable, decision.Verdict)
}

func TestAuthorizeFailsClosedOnChannelListError(t *testing.T) {
	fixture := newControllerFixture()
	fixture.channelService.err = errors.New("connection lost")

	decision := fixture.controller.Authorize(context.Background(), 1, "download", "")

	assert.Equal(t, VerdictUnavailable, decision.Verdict)
	assert.Equal(t, 0, fixture.activityService.count())
}
