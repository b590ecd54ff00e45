package notify

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPackIsValid(t *testing.T) {
	pack := DefaultPack()

	if len(pack.Milestones) != 10 {
		t.Errorf("default pack has %d milestones, want 10", len(pack.Milestones))
	}
	if pack.Milestones[0].Days != 1 || pack.Milestones[len(pack.Milestones)-1].Days != 365 {
		t.Errorf("milestone table bounds = %d..%d, want 1..365",
			pack.Milestones[0].Days, pack.Milestones[len(pack.Milestones)-1].Days)
	}
	if len(pack.Quotes) != 10 {
		t.Errorf("default pack has %d quotes, want 10", len(pack.Quotes))
	}
	if len(pack.CravingSlots) != 3 {
		t.Errorf("default pack has %d craving slots, want 3", len(pack.CravingSlots))
	}
}

func TestMilestoneMessageFallback(t *testing.T) {
	pack := DefaultPack()

	if got := pack.MilestoneMessage(7); got == pack.FallbackMessage {
		t.Error("known offset returned the fallback message")
	}
	if got := pack.MilestoneMessage(42); got != pack.FallbackMessage {
		t.Errorf("unknown offset returned %q, want fallback", got)
	}
}

func TestParsePackRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{"milestones": [`},
		{"missing quotes", `{"milestones":[{"days":1,"message":"m"}],"fallback_milestone_message":"f","craving_slots":[]}`},
		{"empty quotes", `{"milestones":[{"days":1,"message":"m"}],"fallback_milestone_message":"f","quotes":[],"craving_slots":[]}`},
		{"zero day offset", `{"milestones":[{"days":0,"message":"m"}],"fallback_milestone_message":"f","quotes":["q"],"craving_slots":[]}`},
		{"hour out of range", `{"milestones":[{"days":1,"message":"m"}],"fallback_milestone_message":"f","quotes":["q"],"craving_slots":[{"hour":24,"minute":0,"message":"c"}]}`},
		{"unknown field", `{"milestones":[{"days":1,"message":"m"}],"fallback_milestone_message":"f","quotes":["q"],"craving_slots":[],"extra":1}`},
		{"descending milestones", `{"milestones":[{"days":7,"message":"a"},{"days":3,"message":"b"}],"fallback_milestone_message":"f","quotes":["q"],"craving_slots":[]}`},
		{"duplicate milestones", `{"milestones":[{"days":7,"message":"a"},{"days":7,"message":"b"}],"fallback_milestone_message":"f","quotes":["q"],"craving_slots":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePack([]byte(tt.raw)); err == nil {
				t.Error("ParsePack accepted invalid pack")
			}
		})
	}
}

func TestLoadPackFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pack.json")
	raw := `{
		"milestones": [{"days": 1, "message": "first day"}],
		"fallback_milestone_message": "well done",
		"quotes": ["keep at it"],
		"craving_slots": []
	}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	pack, err := LoadPack(path)
	if err != nil {
		t.Fatalf("LoadPack: %v", err)
	}
	if pack.MilestoneMessage(1) != "first day" {
		t.Errorf("MilestoneMessage(1) = %q", pack.MilestoneMessage(1))
	}

	if _, err := LoadPack(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadPack on missing file succeeded")
	}
}
