package domain

import (
	"time"

	"clock-radio/internal/logging"
)

// NoVolume marks that no volume has been applied since the last stop.
const NoVolume = -1

// Suppression explains why a resolved window is not playing.
type Suppression string

const (
	SuppressedNone    Suppression = ""
	SuppressedSnooze  Suppression = "snooze"
	SuppressedDiscard Suppression = "discard"
)

// Session is the process-lifetime playback state. It is created at daemon start,
// shared by the tick loop and the override surface, and never persisted.
type Session struct {
	SnoozeUntil       time.Time
	DiscardRequested  bool
	DiscardedWindow   WindowID
	LastAppliedWindow WindowID
	LastAppliedVolume int

	// Current is the window playing after the latest tick, nil when idle.
	Current *ActiveWindow
	// Suppressed is set when a window resolved but an override kept it silent.
	Suppressed Suppression
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{LastAppliedVolume: NoVolume}
}

// Idle reports whether no window is currently applied.
func (s *Session) Idle() bool {
	return s.LastAppliedWindow.IsZero()
}

// Snooze silences every window until now+d and returns the deadline.
func (s *Session) Snooze(now time.Time, d time.Duration) time.Time {
	s.SnoozeUntil = now.Add(d)
	return s.SnoozeUntil
}

// CancelSnooze lifts an active snooze.
func (s *Session) CancelSnooze() {
	s.SnoozeUntil = time.Time{}
}

// RequestDiscard asks the next tick to suppress the window it resolves, or, when
// nothing is due, the next window that starts.
func (s *Session) RequestDiscard() {
	s.DiscardRequested = true
}

// CancelDiscard forgets both a pending and an applied discard.
func (s *Session) CancelDiscard() {
	s.DiscardRequested = false
	s.DiscardedWindow = WindowID{}
}

// Snoozed reports whether a snooze is in force at now.
func (s *Session) Snoozed(now time.Time) bool {
	return !s.SnoozeUntil.IsZero() && now.Before(s.SnoozeUntil)
}

// Tick evaluates the configuration at now, updates s in place and returns the audio
// commands to issue, in order. It never blocks and never fails: an unknown profile or
// dangling playlist degrades to "no window" or "empty playlist". Calling it again with
// the same inputs yields no commands.
func Tick(cfg Config, s *Session, now time.Time) []Command {
	window, ok := resolveCurrent(cfg, now)

	s.Suppressed = SuppressedNone
	if !s.SnoozeUntil.IsZero() && !now.Before(s.SnoozeUntil) {
		s.SnoozeUntil = time.Time{}
	}
	if ok && s.DiscardRequested {
		s.DiscardedWindow = window.ID
		s.DiscardRequested = false
	}
	if ok {
		switch {
		case s.Snoozed(now):
			ok = false
			s.Suppressed = SuppressedSnooze
		case window.ID == s.DiscardedWindow:
			ok = false
			s.Suppressed = SuppressedDiscard
		}
	}

	if !ok {
		s.Current = nil
		if s.LastAppliedWindow.IsZero() {
			return nil
		}
		s.LastAppliedWindow = WindowID{}
		s.LastAppliedVolume = NoVolume
		return []Command{Stop()}
	}

	var cmds []Command
	if v := window.Volume(); v != s.LastAppliedVolume {
		cmds = append(cmds, SetVolume(v))
		s.LastAppliedVolume = v
	}
	if window.ID != s.LastAppliedWindow {
		pl, found := cfg.Playlists[window.Slot.PlaylistName]
		if !found {
			logging.Warnf("playlist %q referenced by slot %d of profile %q not found, playing nothing",
				window.Slot.PlaylistName, window.Index, cfg.CurrentProfileName)
		}
		items := make([]string, len(pl.Items))
		copy(items, pl.Items)
		cmds = append(cmds, SetPlaylist(items), Play())
		s.LastAppliedWindow = window.ID
	}
	s.Current = &window
	return cmds
}

func resolveCurrent(cfg Config, now time.Time) (ActiveWindow, bool) {
	profile, ok := cfg.CurrentProfile()
	if !ok {
		return ActiveWindow{}, false
	}
	return Resolve(profile.Timetable, now)
}

// Clone copies the session for read-only use outside the owner's lock.
func (s *Session) Clone() Session {
	out := *s
	if s.Current != nil {
		w := *s.Current
		out.Current = &w
	}
	return out
}

// Snapshot represents a complete view of the system state.
type Snapshot struct {
	Config  Config
	Session Session
	// At is the instant of the latest tick, in the daemon's location.
	At time.Time
	// Dirty is set while configuration changes wait to be saved.
	Dirty bool
}
