package notify

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

//go:embed content.json
var defaultPackJSON []byte

// Milestone pairs a day offset from the quit date with its celebration
// message.
type Milestone struct {
	Days    int    `json:"days"`
	Message string `json:"message"`
}

// CravingSlot is a repeating craving-support reminder at a fixed
// time-of-day.
type CravingSlot struct {
	Hour    int    `json:"hour"`
	Minute  int    `json:"minute"`
	Message string `json:"message"`
}

// ContentPack holds all notification copy: the milestone table, the
// rotating motivation quotes, and the craving-support slots.
type ContentPack struct {
	Milestones      []Milestone   `json:"milestones"`
	FallbackMessage string        `json:"fallback_milestone_message"`
	Quotes          []string      `json:"quotes"`
	CravingSlots    []CravingSlot `json:"craving_slots"`
}

// DefaultPack returns the embedded content pack.
func DefaultPack() *ContentPack {
	pack, err := ParsePack(defaultPackJSON)
	if err != nil {
		// The embedded pack is validated by tests; failing here means a
		// broken build, not a runtime condition.
		panic(fmt.Sprintf("embedded content pack invalid: %v", err))
	}
	return pack
}

// LoadPack reads and validates a content pack from a JSON file.
func LoadPack(path string) (*ContentPack, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content pack: %w", err)
	}
	return ParsePack(raw)
}

// ParsePack validates raw JSON against the pack schema and decodes it.
func ParsePack(raw []byte) (*ContentPack, error) {
	if err := validatePack(raw); err != nil {
		return nil, err
	}

	var pack ContentPack
	if err := json.Unmarshal(raw, &pack); err != nil {
		return nil, fmt.Errorf("decode content pack: %w", err)
	}

	// The schema checks shapes; ordering is checked here.
	if !sort.SliceIsSorted(pack.Milestones, func(i, j int) bool {
		return pack.Milestones[i].Days < pack.Milestones[j].Days
	}) {
		return nil, fmt.Errorf("milestone table must be in ascending day order")
	}
	for i := 1; i < len(pack.Milestones); i++ {
		if pack.Milestones[i].Days == pack.Milestones[i-1].Days {
			return nil, fmt.Errorf("duplicate milestone offset %d", pack.Milestones[i].Days)
		}
	}

	return &pack, nil
}

// MilestoneMessage returns the message for a milestone offset, falling
// back to the generic message for offsets not in the table.
func (p *ContentPack) MilestoneMessage(days int) string {
	for _, m := range p.Milestones {
		if m.Days == days {
			return m.Message
		}
	}
	return p.FallbackMessage
}
