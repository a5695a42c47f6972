package domain

import (
	"context"
	"time"
)

// ConfigRepository is a secondary port that defines how to persist configuration.
// Load never fails for a missing or corrupt document; implementations fall back to
// DefaultConfig and only report I/O problems they cannot recover from.
type ConfigRepository interface {
	Load() (Config, error)
	Save(config Config) error
}

// AudioSink is a secondary port that receives playback commands.
// Calls are fire-and-forget from the engine's point of view.
type AudioSink interface {
	SetVolume(percent int) error
	SetPlaylist(items []string) error
	Play() error
	Stop() error
}

// EventKind names a playback state change worth announcing.
type EventKind string

const (
	EventStarted   EventKind = "started"
	EventStopped   EventKind = "stopped"
	EventSnoozed   EventKind = "snoozed"
	EventDiscarded EventKind = "discarded"
	EventProfile   EventKind = "profile"
)

// Event describes a state change for external listeners (home automation, dashboards).
type Event struct {
	Kind     EventKind `json:"kind"`
	At       time.Time `json:"at"`
	Profile  string    `json:"profile,omitempty"`
	Playlist string    `json:"playlist,omitempty"`
	Window   WindowID  `json:"window,omitzero"`
	Until    time.Time `json:"until,omitzero"`
}

// EventPublisher is a secondary port that forwards events to an external broker.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
