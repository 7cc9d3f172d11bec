package access

import (
	"strconv"
	"time"

	"github.com/ligarx-org/audiov1/config"
	"github.com/ligarx-org/audiov1/logger"
	"github.com/ligarx-org/audiov1/model"
)

const (
	KeyRateLimitWindow     = "rate_limit_window_seconds"
	KeyRateLimitMaxCount   = "rate_limit_max_count"
	KeySubscriptionTTL     = "subscription_ttl_seconds"
	KeySubscriptionTimeout = "subscription_check_timeout_ms"
)

// Settings resolves admission thresholds at decision time: a bot_settings
// row wins over the env default, per-activity-type rows
// ("rate_limit_max_count.download") win over the global row.
type Settings struct {
	settingService model.SettingService
	cfg            *config.Config
	log            *logger.Logger
}

func NewSettings(settingService model.SettingService, cfg *config.Config) *Settings {
	return &Settings{
		settingService: settingService,
		cfg:            cfg,
		log:            logger.New("settings"),
	}
}

func (s *Settings) RateLimitWindow(activityType string) time.Duration {
	seconds := s.lookupInt(KeyRateLimitWindow, activityType, s.cfg.RateLimitWindowSeconds)
	return time.Duration(seconds) * time.Second
}

func (s *Settings) RateLimitMaxCount(activityType string) int {
	return s.lookupInt(KeyRateLimitMaxCount, activityType, s.cfg.RateLimitMaxCount)
}

func (s *Settings) SubscriptionTTL() time.Duration {
	seconds := s.lookupInt(KeySubscriptionTTL, "", s.cfg.SubscriptionTTLSeconds)
	return time.Duration(seconds) * time.Second
}

func (s *Settings) SubscriptionCheckTimeout() time.Duration {
	ms := s.lookupInt(KeySubscriptionTimeout, "", s.cfg.SubscriptionCheckTimeoutMs)
	return time.Duration(ms) * time.Millisecond
}

func (s *Settings) lookupInt(key, activityType string, fallback int) int {
	if activityType != "" {
		if v, ok := s.getInt(key + "." + activityType); ok {
			return v
		}
	}
	if v, ok := s.getInt(key); ok {
		return v
	}
	return fallback
}

func (s *Settings) getInt(key string) (int, bool) {
	value, err := s.settingService.Get(key)
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		s.log.Warn().Str("key", key).Str("value", value).Msg("Ignoring non-positive setting")
		return 0, false
	}
	return n, true
}
