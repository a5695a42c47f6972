package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WindowID fingerprints a configured window. The zero value means "none".
type WindowID uuid.UUID

var slotNamespace = uuid.MustParse("8d6a4f0e-2b7c-4f6e-9a3d-1c5e7b9f2a40")

// Identity derives a stable fingerprint from the slot's configured fields, so an
// unchanged slot keeps its identity across reloads and edits elsewhere.
func (t Timeslot) Identity() WindowID {
	canonical := fmt.Sprintf("%d|%d|%d|%d|%d|%s",
		t.BeginDay, t.BeginHour, t.BeginMinute,
		int64(t.Duration/time.Second), int64(t.FadeIn/time.Second), t.PlaylistName)
	return WindowID(uuid.NewSHA1(slotNamespace, []byte(canonical)))
}

// occurrenceID narrows a slot identity to the instance running on the given local date.
func occurrenceID(slot WindowID, now time.Time) WindowID {
	return WindowID(uuid.NewSHA1(uuid.UUID(slot), []byte(now.Format(time.DateOnly))))
}

// IsZero reports whether the identity is unset.
func (id WindowID) IsZero() bool {
	return id == WindowID{}
}

func (id WindowID) String() string {
	if id.IsZero() {
		return ""
	}
	return uuid.UUID(id).String()
}

// MarshalText renders the identity for JSON and YAML snapshots.
func (id WindowID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}
