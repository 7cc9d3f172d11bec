package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSettingsFallBackToConfig(t *testing.T) {
	settings := NewSettings(newFakeSettingService(), testConfig())

	assert.Equal(t, 60*time.Second, settings.RateLimitWindow("download"))
	assert.Equal(t, 5, settings.RateLimitMaxCount("download"))
	assert.Equal(t, 300*time.Second, settings.SubscriptionTTL())
	assert.Equal(t, 3000*time.Millisecond, settings.SubscriptionCheckTimeout())
}

func TestSettingsGlobalOverrideWinsOverConfig(t *testing.T) {
	settingService := newFakeSettingService()
	settingService.setInt(KeyRateLimitMaxCount, 20)
	settingService.setInt(KeyRateLimitWindow, 120)

	settings := NewSettings(settingService, testConfig())

	assert.Equal(t, 20, settings.RateLimitMaxCount("download"))
	assert.Equal(t, 120*time.Second, settings.RateLimitWindow("download"))
}

func TestSettingsActivityOverrideWinsOverGlobal(t *testing.T) {
	settingService := newFakeSettingService()
	settingService.setInt(KeyRateLimitMaxCount, 20)
	settingService.setInt(KeyRateLimitMaxCount+".download", 3)

	settings := NewSettings(settingService, testConfig())

	assert.Equal(t, 3, settings.RateLimitMaxCount("download"))
	assert.Equal(t, 20, settings.RateLimitMaxCount("search"))
}

func TestSettingsIgnoreInvalidValues(t *testing.T) {
	settingService := newFakeSettingService()
	settingService.values[KeyRateLimitMaxCount] = "lots"
	settingService.values[KeyRateLimitWindow] = "0"
	settingService.values[KeySubscriptionTTL] = "-5"

	settings := NewSettings(settingService, testConfig())

	assert.Equal(t, 5, settings.RateLimitMaxCount("download"))
	assert.Equal(t, 60*time.Second, settings.RateLimitWindow("download"))
	assert.Equal(t, 300*time.Second, settings.SubscriptionTTL())
}
