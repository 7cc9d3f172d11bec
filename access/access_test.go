package access

import (
	"context"
	"database/sql"
	"strconv"
	"sync"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"

	"github.com/ligarx-org/audiov1/config"
	"github.com/ligarx-org/audiov1/model"
)

// In-memory stand-ins for the sqlx services. They hold the same data the
// tables would and are safe for concurrent use where the code under test
// calls them concurrently.

func testConfig() *config.Config {
	return &config.Config{
		MegaAdminID:                1000,
		RateLimitWindowSeconds:     60,
		RateLimitMaxCount:          5,
		SubscriptionTTLSeconds:     300,
		SubscriptionCheckTimeoutMs: 3000,
	}
}

type fakeClock struct {
	mutex sync.Mutex
	t     time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.t = c.t.Add(d)
}

type fakeSettingService struct {
	values map[string]string
}

func newFakeSettingService() *fakeSettingService {
	return &fakeSettingService{values: make(map[string]string)}
}

func (s *fakeSettingService) Get(key string) (string, error) {
	value, exists := s.values[key]
	if !exists {
		return "", model.ErrNotFound
	}
	return value, nil
}

func (s *fakeSettingService) Set(key, value string) error {
	s.values[key] = value
	return nil
}

func (s *fakeSettingService) GetAll() ([]model.Setting, error) {
	settings := make([]model.Setting, 0, len(s.values))
	for key, value := range s.values {
		settings = append(settings, model.Setting{Key: key, Value: value})
	}
	return settings, nil
}

func (s *fakeSettingService) setInt(key string, value int) {
	s.values[key] = strconv.Itoa(value)
}

type activityEntry struct {
	userID       int64
	activityType string
	activityData string
	createdAt    time.Time
}

type fakeActivityService struct {
	mutex   sync.Mutex
	now     func() time.Time
	entries []activityEntry

	recordErr error
	countErr  error
}

func newFakeActivityService(now func() time.Time) *fakeActivityService {
	return &fakeActivityService{now: now}
}

func (s *fakeActivityService) Record(userID int64, activityType, activityData string) error {
	if s.recordErr != nil {
		return s.recordErr
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.entries = append(s.entries, activityEntry{
		userID:       userID,
		activityType: activityType,
		activityData: activityData,
		createdAt:    s.now(),
	})
	return nil
}

func (s *fakeActivityService) CountSince(userID int64, activityType string, since time.Time) (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	count := 0
	for _, entry := range s.entries {
		if entry.userID == userID && entry.activityType == activityType && !entry.createdAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *fakeActivityService) OldestSince(userID int64, activityType string, since time.Time) (time.Time, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	var oldest time.Time
	for _, entry := range s.entries {
		if entry.userID != userID || entry.activityType != activityType || entry.createdAt.Before(since) {
			continue
		}
		if oldest.IsZero() || entry.createdAt.Before(oldest) {
			oldest = entry.createdAt
		}
	}
	if oldest.IsZero() {
		return time.Time{}, model.ErrNotFound
	}
	return oldest, nil
}

func (s *fakeActivityService) CountByType(activityType string) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	var count int64
	for _, entry := range s.entries {
		if entry.activityType == activityType {
			count++
		}
	}
	return count, nil
}

func (s *fakeActivityService) CountByTypeSince(activityType string, since time.Time) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	var count int64
	for _, entry := range s.entries {
		if entry.activityType == activityType && !entry.createdAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *fakeActivityService) GetRange(userID int64, from, to time.Time) ([]model.ActivityRecord, error) {
	return nil, nil
}

func (s *fakeActivityService) count() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.entries)
}

type fakeUserService struct {
	banned    map[int64]string
	bannedErr error
}

func newFakeUserService() *fakeUserService {
	return &fakeUserService{banned: make(map[int64]string)}
}

func (s *fakeUserService) Upsert(user *gotgbot.User) error { return nil }

func (s *fakeUserService) Get(userID int64) (*model.User, error) {
	return nil, model.ErrNotFound
}

func (s *fakeUserService) Ban(userID int64, reason string) error {
	s.banned[userID] = reason
	return nil
}

func (s *fakeUserService) Unban(userID int64) error {
	delete(s.banned, userID)
	return nil
}

func (s *fakeUserService) IsBanned(userID int64) (bool, error) {
	if s.bannedErr != nil {
		return false, s.bannedErr
	}
	_, banned := s.banned[userID]
	return banned, nil
}

func (s *fakeUserService) BanInfo(userID int64) (*model.BanInfo, error) {
	reason, banned := s.banned[userID]
	if !banned {
		return nil, model.ErrNotFound
	}
	return &model.BanInfo{Reason: reason}, nil
}

func (s *fakeUserService) GetBanned(offset, limit int) ([]model.User, int, error) {
	return nil, 0, nil
}

func (s *fakeUserService) GetAllActive() ([]model.User, error) { return nil, nil }

func (s *fakeUserService) GetLanguage(userID int64) (string, error) { return "uz", nil }

func (s *fakeUserService) SetLanguage(userID int64, language string) error { return nil }

func (s *fakeUserService) Stats() (*model.UserStats, error) { return &model.UserStats{}, nil }

type fakeChannelService struct {
	channels []model.MandatoryChannel
	err      error
}

func (s *fakeChannelService) Add(channel *model.MandatoryChannel) error { return nil }
func (s *fakeChannelService) Remove(channelID int64) error              { return nil }

func (s *fakeChannelService) Get(channelID int64) (*model.MandatoryChannel, error) {
	return nil, model.ErrNotFound
}

func (s *fakeChannelService) GetActive() ([]model.MandatoryChannel, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.channels, nil
}

func testChannel(channelID int64, username string) model.MandatoryChannel {
	return model.MandatoryChannel{
		ChannelID: channelID,
		Username:  sql.NullString{String: username, Valid: username != ""},
		Title:     username,
		IsActive:  true,
	}
}

type subscriptionKey struct {
	userID    int64
	channelID int64
}

type fakeSubscriptionService struct {
	now     func() time.Time
	entries map[subscriptionKey]*model.Subscription
	getErr  error
}

func newFakeSubscriptionService(now func() time.Time) *fakeSubscriptionService {
	return &fakeSubscriptionService{
		now:     now,
		entries: make(map[subscriptionKey]*model.Subscription),
	}
}

func (s *fakeSubscriptionService) Get(userID, channelID int64) (*model.Subscription, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	subscription, exists := s.entries[subscriptionKey{userID, channelID}]
	if !exists {
		return nil, model.ErrNotFound
	}
	return subscription, nil
}

func (s *fakeSubscriptionService) Upsert(userID, channelID int64, isSubscribed bool) error {
	s.entries[subscriptionKey{userID, channelID}] = &model.Subscription{
		UserID:       userID,
		ChannelID:    channelID,
		IsSubscribed: isSubscribed,
		CheckedAt:    s.now(),
	}
	return nil
}

func (s *fakeSubscriptionService) seed(userID, channelID int64, isSubscribed bool, checkedAt time.Time) {
	s.entries[subscriptionKey{userID, channelID}] = &model.Subscription{
		UserID:       userID,
		ChannelID:    channelID,
		IsSubscribed: isSubscribed,
		CheckedAt:    checkedAt,
	}
}

type fakeChecker struct {
	calls  int
	result bool
	err    error
}

func (c *fakeChecker) CheckSubscription(ctx context.Context, userID, channelID int64) (bool, error) {
	c.calls++
	if c.err != nil {
		return false, c.err
	}
	return c.result, nil
}

type fakeAdminService struct {
	ids       []int64
	addCalls  int
	loadErr   error
	removeErr error
}

func (s *fakeAdminService) Add(userID, addedBy int64) error {
	s.addCalls++
	for _, id := range s.ids {
		if id == userID {
			return nil
		}
	}
	s.ids = append(s.ids, userID)
	return nil
}

func (s *fakeAdminService) Remove(userID int64) error {
	if s.removeErr != nil {
		return s.removeErr
	}
	remaining := s.ids[:0]
	for _, id := range s.ids {
		if id != userID {
			remaining = append(remaining, id)
		}
	}
	s.ids = remaining
	return nil
}

func (s *fakeAdminService) GetAll() ([]model.Admin, error) {
	admins := make([]model.Admin, 0, len(s.ids))
	for _, id := range s.ids {
		admins = append(admins, model.Admin{UserID: id})
	}
	return admins, nil
}

func (s *fakeAdminService) GetAllIDs() ([]int64, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]int64(nil), s.ids...), nil
}
