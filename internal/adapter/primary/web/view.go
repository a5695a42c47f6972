package web

import (
	"time"

	"clock-radio/internal/domain"
)

type timeslotPayload struct {
	BeginDay       int    `json:"begin_day"`
	BeginHour      int    `json:"begin_hour"`
	BeginMinute    int    `json:"begin_minute"`
	Duration       int    `json:"duration"`
	FadeInDuration int    `json:"fade_in_duration"`
	PlaylistName   string `json:"playlist_name"`
}

// timetablePayload uses the same field names as the configuration document.
type timetablePayload struct {
	Period    string            `json:"period"`
	Timeslots []timeslotPayload `json:"timeslots"`
}

func (p timetablePayload) toDomain() (domain.Timetable, error) {
	period, err := domain.ParsePeriod(p.Period)
	if err != nil {
		return domain.Timetable{}, err
	}
	tt := domain.Timetable{Period: period, Timeslots: make([]domain.Timeslot, 0, len(p.Timeslots))}
	for _, s := range p.Timeslots {
		tt.Timeslots = append(tt.Timeslots, domain.Timeslot{
			BeginDay:     s.BeginDay,
			BeginHour:    s.BeginHour,
			BeginMinute:  s.BeginMinute,
			Duration:     time.Duration(s.Duration) * time.Second,
			FadeIn:       time.Duration(s.FadeInDuration) * time.Second,
			PlaylistName: s.PlaylistName,
		})
	}
	return tt, nil
}

func timetableToPayload(tt domain.Timetable) timetablePayload {
	out := timetablePayload{Period: tt.Period.String(), Timeslots: make([]timeslotPayload, 0, len(tt.Timeslots))}
	for _, s := range tt.Timeslots {
		out.Timeslots = append(out.Timeslots, timeslotPayload{
			BeginDay:       s.BeginDay,
			BeginHour:      s.BeginHour,
			BeginMinute:    s.BeginMinute,
			Duration:       int(s.Duration / time.Second),
			FadeInDuration: int(s.FadeIn / time.Second),
			PlaylistName:   s.PlaylistName,
		})
	}
	return out
}

type activeView struct {
	Slot     int     `json:"slot"`
	Playlist string  `json:"playlist"`
	Progress float64 `json:"progress"`
	Fade     float64 `json:"fade"`
	Volume   int     `json:"volume"`
	Window   string  `json:"window"`
}

type statusView struct {
	At             time.Time           `json:"at"`
	Profile        string              `json:"profile"`
	Profiles       []string            `json:"profiles"`
	Timetable      *timetablePayload   `json:"timetable"`
	Playlists      map[string][]string `json:"playlists"`
	Active         *activeView         `json:"active"`
	Suppressed     string              `json:"suppressed,omitempty"`
	SnoozeUntil    *time.Time          `json:"snooze_until"`
	SnoozeSeconds  int                 `json:"snooze_duration"`
	DiscardPending bool                `json:"discard_pending"`
	Discarded      bool                `json:"discarded"`
	Dirty          bool                `json:"dirty"`
}

func snapshotToView(snap domain.Snapshot) statusView {
	cfg, sess := snap.Config, snap.Session
	view := statusView{
		At:             snap.At,
		Profile:        cfg.CurrentProfileName,
		Profiles:       cfg.ProfileNames(),
		Playlists:      make(map[string][]string, len(cfg.Playlists)),
		Suppressed:     string(sess.Suppressed),
		SnoozeSeconds:  int(cfg.SnoozeDuration / time.Second),
		DiscardPending: sess.DiscardRequested,
		Discarded:      !sess.DiscardedWindow.IsZero(),
		Dirty:          snap.Dirty,
	}
	if p, ok := cfg.CurrentProfile(); ok {
		tt := timetableToPayload(p.Timetable)
		view.Timetable = &tt
	}
	for name, pl := range cfg.Playlists {
		items := make([]string, len(pl.Items))
		copy(items, pl.Items)
		view.Playlists[name] = items
	}
	if w := sess.Current; w != nil {
		view.Active = &activeView{
			Slot:     w.Index,
			Playlist: w.Slot.PlaylistName,
			Progress: w.Progress,
			Fade:     w.Fade,
			Volume:   w.Volume(),
			Window:   w.ID.String(),
		}
	}
	if sess.Snoozed(snap.At) {
		until := sess.SnoozeUntil
		view.SnoozeUntil = &until
	}
	return view
}
