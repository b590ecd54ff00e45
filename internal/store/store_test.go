package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSettingsRoundTrip(t *testing.T) {
	kv := openTestStore(t).Settings()

	if err := kv.SetString(KeyLastCheckInDay, "2025-06-01"); err != nil {
		t.Fatalf("SetString: %v", err)
	}
	got, ok := kv.GetString(KeyLastCheckInDay)
	if !ok || got != "2025-06-01" {
		t.Errorf("GetString = %q, %v; want %q, true", got, ok, "2025-06-01")
	}

	if err := kv.SetInt(KeyCheckInStreak, 7); err != nil {
		t.Fatalf("SetInt: %v", err)
	}
	if got := kv.GetInt(KeyCheckInStreak); got != 7 {
		t.Errorf("GetInt = %d, want 7", got)
	}

	if err := kv.SetBool(KeyMotivationEnabled, false); err != nil {
		t.Fatalf("SetBool: %v", err)
	}
	if kv.GetBool(KeyMotivationEnabled, true) {
		t.Error("GetBool returned true after storing false")
	}
}

func TestSettingsDefaults(t *testing.T) {
	kv := openTestStore(t).Settings()

	if _, ok := kv.GetString("nope"); ok {
		t.Error("GetString on missing key reported present")
	}
	if got := kv.GetInt("nope"); got != 0 {
		t.Errorf("GetInt on missing key = %d, want 0", got)
	}
	if !kv.GetBool(KeyDailyCheckInEnabled, true) {
		t.Error("GetBool default not honored for missing key")
	}
	if kv.GetBool(KeyCravingSupportEnabled, false) {
		t.Error("GetBool default not honored for missing key")
	}
}

func TestSettingsCorruptValues(t *testing.T) {
	kv := openTestStore(t).Settings()

	if err := kv.SetString(KeyCheckInStreak, "banana"); err != nil {
		t.Fatalf("SetString: %v", err)
	}
	if got := kv.GetInt(KeyCheckInStreak); got != 0 {
		t.Errorf("GetInt on corrupt value = %d, want 0", got)
	}

	if err := kv.SetString(KeyMilestonesEnabled, "maybe"); err != nil {
		t.Fatalf("SetString: %v", err)
	}
	if !kv.GetBool(KeyMilestonesEnabled, true) {
		t.Error("GetBool on corrupt value did not fall back to default")
	}
}

func TestSettingsOverwriteAndDelete(t *testing.T) {
	kv := openTestStore(t).Settings()

	if err := kv.SetInt(KeyLastScheduledMilestone, 7); err != nil {
		t.Fatalf("SetInt: %v", err)
	}
	if err := kv.SetInt(KeyLastScheduledMilestone, 14); err != nil {
		t.Fatalf("SetInt: %v", err)
	}
	if got := kv.GetInt(KeyLastScheduledMilestone); got != 14 {
		t.Errorf("GetInt after overwrite = %d, want 14", got)
	}

	if err := kv.Delete(KeyLastScheduledMilestone); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := kv.GetInt(KeyLastScheduledMilestone); got != 0 {
		t.Errorf("GetInt after delete = %d, want 0", got)
	}
}

func TestMemoryMatchesSettingsBehavior(t *testing.T) {
	for name, kv := range map[string]KV{
		"sqlite": openTestStore(t).Settings(),
		"memory": NewMemory(),
	} {
		t.Run(name, func(t *testing.T) {
			if err := kv.SetInt(KeyTotalCheckInDays, 3); err != nil {
				t.Fatalf("SetInt: %v", err)
			}
			if got := kv.GetInt(KeyTotalCheckInDays); got != 3 {
				t.Errorf("GetInt = %d, want 3", got)
			}
			if got := kv.GetInt("missing"); got != 0 {
				t.Errorf("GetInt missing = %d, want 0", got)
			}
		})
	}
}
