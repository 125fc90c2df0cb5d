package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/pathakanu/salaahTracker/internal/model"
	"github.com/pathakanu/salaahTracker/internal/prayer"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DateLayout is the text format of PrayerLog.PrayerDate.
const DateLayout = time.DateOnly

var (
	// ErrNotFound is returned when a user or prayer log does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already taken")
)

// Store persists users and their daily prayer completion.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// New wraps a migrated GORM connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Day formats t as a prayer date key.
func Day(t time.Time) string {
	return t.Format(DateLayout)
}

// CreateUser registers a user with an already hashed password. The unique
// username index decides races between concurrent registrations.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error) {
	user := &model.User{Username: strings.TrimSpace(username), PasswordHash: passwordHash}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

// UserByUsername looks a user up by exact username.
func (s *Store) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// UserByID looks a user up by primary key.
func (s *Store) UserByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// LinkChat stores the chat identifier reminders are delivered to. An empty
// chatID unlinks the user.
func (s *Store) LinkChat(ctx context.Context, userID uint, chatID string) error {
	res := s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("telegram_chat_id", strings.TrimSpace(chatID))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PrayersForDay returns the user's five prayer logs for date, creating any that
// do not exist yet.
func (s *Store) PrayersForDay(ctx context.Context, userID uint, date string) ([]model.PrayerLog, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&model.PrayerLog{}).
		Where("user_id = ? AND prayer_date = ?", userID, date).
		Count(&count).Error; err != nil {
		return nil, err
	}

	if count < int64(len(prayer.Prayers)) {
		seed := make([]model.PrayerLog, 0, len(prayer.Prayers))
		for _, p := range prayer.Prayers {
			seed = append(seed, model.PrayerLog{UserID: userID, PrayerName: p.String(), PrayerDate: date})
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return nil, err
		}
	}

	var logs []model.PrayerLog
	if err := db.Where("user_id = ? AND prayer_date = ?", userID, date).Find(&logs).Error; err != nil {
		return nil, err
	}
	sortLogs(logs)
	return logs, nil
}

// MarkCompleted marks one of the user's prayer logs complete. Marking an already
// completed prayer is a no-op.
func (s *Store) MarkCompleted(ctx context.Context, logID, userID uint) (*model.PrayerLog, error) {
	db := s.db.WithContext(ctx)

	var entry model.PrayerLog
	if err := db.Where("id = ? AND user_id = ?", logID, userID).First(&entry).Error; err != nil {
		return nil, notFound(err)
	}
	if entry.Completed {
		return &entry, nil
	}

	now := s.now()
	if err := db.Model(&entry).Updates(map[string]any{
		"completed":    true,
		"completed_at": now,
	}).Error; err != nil {
		return nil, err
	}
	entry.Completed = true
	entry.CompletedAt = &now
	return &entry, nil
}

// IsCompleted reports whether the user marked prayerName complete on date.
func (s *Store) IsCompleted(ctx context.Context, userID uint, prayerName, date string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.PrayerLog{}).
		Where("user_id = ? AND prayer_name = ? AND prayer_date = ? AND completed = ?", userID, prayerName, date, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListUncompletedChatIDs returns the distinct chat ids of linked users who have
// not completed prayerName on date. Users without a log for that day count as
// not completed.
func (s *Store) ListUncompletedChatIDs(ctx context.Context, prayerName, date string) ([]string, error) {
	completed := s.db.Model(&model.PrayerLog{}).
		Select("1").
		Where("prayer_logs.user_id = users.id").
		Where("prayer_logs.prayer_name = ? AND prayer_logs.prayer_date = ? AND prayer_logs.completed = ?", prayerName, date, true)

	var chatIDs []string
	err := s.db.WithContext(ctx).Model(&model.User{}).
		Where("users.telegram_chat_id <> ''").
		Where("NOT EXISTS (?)", completed).
		Distinct().
		Order("users.telegram_chat_id").
		Pluck("users.telegram_chat_id", &chatIDs).Error
	if err != nil {
		return nil, err
	}
	return chatIDs, nil
}

// PrayersBetween returns the user's logs with dates in [from, to], ordered by day
// and prayer.
func (s *Store) PrayersBetween(ctx context.Context, userID uint, from, to string) ([]model.PrayerLog, error) {
	var logs []model.PrayerLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND prayer_date >= ? AND prayer_date <= ?", userID, from, to).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	sortLogs(logs)
	return logs, nil
}

func sortLogs(logs []model.PrayerLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].PrayerDate != logs[j].PrayerDate {
			return logs[i].PrayerDate < logs[j].PrayerDate
		}
		return prayerRank(logs[i].PrayerName) < prayerRank(logs[j].PrayerName)
	})
}

func prayerRank(name string) int {
	e, ok := prayer.ParseEvent(name)
	if !ok {
		return len(prayer.Events)
	}
	return int(e)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
