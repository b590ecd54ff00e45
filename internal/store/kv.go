package store

import (
	"database/sql"
	"strconv"
)

// Settings keys. Every piece of engine state is a plain scalar under
// one of these names; nothing else touches the settings table.
const (
	KeyCheckInStreak    = "checkInStreak"
	KeyLongestStreak    = "longestCheckInStreak"
	KeyTotalCheckInDays = "totalCheckInDays"
	KeyLastCheckInDay   = "lastCheckInDate"
	KeyCheckInDays      = "checkInDates"

	KeyQuitDate               = "quitDate"
	KeyLastScheduledMilestone = "lastScheduledMilestone"
	KeyQuoteIndex             = "motivationQuoteIndex"
	KeyCheckInTime            = "checkInTime"

	KeyDailyCheckInEnabled   = "dailyCheckInEnabled"
	KeyMotivationEnabled     = "motivationalQuotesEnabled"
	KeyMilestonesEnabled     = "milestoneRemindersEnabled"
	KeyCravingSupportEnabled = "cravingTipsEnabled"

	KeyInstallationID = "installationID"
)

// KV is synchronous scalar key/value persistence. Reads never fail:
// a missing or unreadable value falls back to the caller's default
// (zero, empty, or the explicit bool default). Writes report errors so
// callers can decide whether the specific write matters.
type KV interface {
	GetString(key string) (string, bool)
	SetString(key, value string) error
	GetInt(key string) int
	SetInt(key string, value int) error
	GetBool(key string, def bool) bool
	SetBool(key string, value bool) error
	Delete(keys ...string) error
}

// Settings implements KV on the store's settings table.
type Settings struct {
	db *sql.DB
}

// Settings returns the key/value view of this store.
func (s *Store) Settings() *Settings {
	return &Settings{db: s.db}
}

func (s *Settings) GetString(key string) (string, bool) {
	var v string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&v)
	if err != nil {
		// Missing row and read failure both fall back to absent.
		return "", false
	}
	return v, true
}

func (s *Settings) SetString(key, value string) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`,
		key, value,
	)
	return err
}

func (s *Settings) GetInt(key string) int {
	raw, ok := s.GetString(key)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		// Corrupt value, treat as absent.
		return 0
	}
	return n
}

func (s *Settings) SetInt(key string, value int) error {
	return s.SetString(key, strconv.Itoa(value))
}

func (s *Settings) GetBool(key string, def bool) bool {
	raw, ok := s.GetString(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return b
}

func (s *Settings) SetBool(key string, value bool) error {
	return s.SetString(key, strconv.FormatBool(value))
}

func (s *Settings) Delete(keys ...string) error {
	for _, k := range keys {
		if _, err := s.db.Exec(`DELETE FROM settings WHERE key = ?`, k); err != nil {
			return err
		}
	}
	return nil
}
