package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func radioConfig() Config {
	cfg := DefaultConfig()
	cfg.CurrentProfileName = "Holidays"
	cfg.Profiles["Holidays"] = Profile{Timetable: Timetable{
		Period:    PeriodOneDay,
		Timeslots: []Timeslot{morningSlot()},
	}}
	cfg.Playlists["P"] = Playlist{Name: "P", Items: []string{"a.mp3", "b.mp3"}}
	return cfg
}

func kinds(cmds []Command) []CommandKind {
	out := make([]CommandKind, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, c.Kind)
	}
	return out
}

func TestTickScenario(t *testing.T) {
	cfg := radioConfig()
	s := NewSession()

	cmds := Tick(cfg, s, at(2026, time.January, 5, 7, 8, 20))
	require.Equal(t, []Command{
		SetVolume(83),
		SetPlaylist([]string{"a.mp3", "b.mp3"}),
		Play(),
	}, cmds)
	require.NotNil(t, s.Current)
	assert.InDelta(t, 0.139, s.Current.Progress, 1e-3)

	cmds = Tick(cfg, s, at(2026, time.January, 5, 7, 8, 22))
	assert.Equal(t, []Command{SetVolume(84)}, cmds, "only the volume follows the fade")

	cmds = Tick(cfg, s, at(2026, time.January, 5, 8, 30, 0))
	assert.Equal(t, []Command{Stop()}, cmds)
	assert.Nil(t, s.Current)
	assert.Equal(t, NoVolume, s.LastAppliedVolume)

	cmds = Tick(cfg, s, at(2026, time.January, 5, 8, 31, 0))
	assert.Empty(t, cmds, "stop is issued once")
}

func TestTickIdempotent(t *testing.T) {
	cfg := radioConfig()
	for _, now := range []time.Time{
		at(2026, time.January, 5, 6, 0, 0),
		at(2026, time.January, 5, 7, 5, 0),
		at(2026, time.January, 5, 7, 45, 0),
	} {
		s := NewSession()
		Tick(cfg, s, now)
		assert.Empty(t, Tick(cfg, s, now), now.Format(time.TimeOnly))
	}
}

func TestTickFadeRaisesVolumeWithoutReloading(t *testing.T) {
	cfg := radioConfig()
	s := NewSession()

	Tick(cfg, s, at(2026, time.January, 5, 7, 1, 0))
	cmds := Tick(cfg, s, at(2026, time.January, 5, 7, 2, 0))
	assert.Equal(t, []CommandKind{CommandSetVolume}, kinds(cmds))
	assert.Equal(t, 20, cmds[0].Volume)
}

func TestTickSnooze(t *testing.T) {
	cfg := radioConfig()
	s := NewSession()
	start := at(2026, time.January, 5, 7, 10, 0)
	Tick(cfg, s, start)

	until := s.Snooze(start, 10*time.Minute)
	assert.Equal(t, start.Add(10*time.Minute), until)

	assert.Equal(t, []Command{Stop()}, Tick(cfg, s, start))
	assert.Equal(t, SuppressedSnooze, s.Suppressed)
	for sec := 1; sec < 600; sec += 30 {
		cmds := Tick(cfg, s, start.Add(time.Duration(sec)*time.Second))
		assert.Empty(t, cmds)
	}

	cmds := Tick(cfg, s, until)
	assert.Equal(t, []CommandKind{CommandSetVolume, CommandSetPlaylist, CommandPlay}, kinds(cmds))
	assert.True(t, s.SnoozeUntil.IsZero(), "expired snooze is cleared")
	assert.Equal(t, SuppressedNone, s.Suppressed)
}

func TestTickCancelSnooze(t *testing.T) {
	cfg := radioConfig()
	s := NewSession()
	now := at(2026, time.January, 5, 7, 10, 0)
	s.Snooze(now, time.Hour)
	assert.Empty(t, Tick(cfg, s, now))

	s.CancelSnooze()
	assert.Len(t, Tick(cfg, s, now), 3)
}

func TestTickDiscardLastsForOccurrence(t *testing.T) {
	cfg := radioConfig()
	s := NewSession()
	Tick(cfg, s, at(2026, time.January, 5, 7, 10, 0))

	s.RequestDiscard()
	assert.Equal(t, []Command{Stop()}, Tick(cfg, s, at(2026, time.January, 5, 7, 11, 0)))
	assert.False(t, s.DiscardRequested)
	assert.False(t, s.DiscardedWindow.IsZero())

	for m := 12; m < 60; m += 5 {
		assert.Empty(t, Tick(cfg, s, at(2026, time.January, 5, 7, m, 0)))
		assert.Equal(t, SuppressedDiscard, s.Suppressed)
	}

	cmds := Tick(cfg, s, at(2026, time.January, 6, 7, 10, 0))
	assert.Equal(t, []CommandKind{CommandSetVolume, CommandSetPlaylist, CommandPlay}, kinds(cmds), "next day is a new occurrence")
}

func TestTickDiscardReactivatesOnEdit(t *testing.T) {
	cfg := radioConfig()
	s := NewSession()
	s.RequestDiscard()
	assert.Empty(t, Tick(cfg, s, at(2026, time.January, 5, 7, 10, 0)))

	edited := cfg.Clone()
	slot := edited.Profiles["Holidays"].Timetable.Timeslots[0]
	slot.Duration = 2 * time.Hour
	require.NoError(t, edited.SetTimetable("Holidays", Timetable{Period: PeriodOneDay, Timeslots: []Timeslot{slot}}))

	cmds := Tick(edited, s, at(2026, time.January, 5, 7, 11, 0))
	assert.Equal(t, []CommandKind{CommandSetVolume, CommandSetPlaylist, CommandPlay}, kinds(cmds))
}

func TestTickDiscardWhileIdleSkipsNextWindow(t *testing.T) {
	cfg := radioConfig()
	s := NewSession()
	s.RequestDiscard()

	assert.Empty(t, Tick(cfg, s, at(2026, time.January, 5, 6, 0, 0)))
	assert.True(t, s.DiscardRequested, "stays pending until a window resolves")

	assert.Empty(t, Tick(cfg, s, at(2026, time.January, 5, 7, 0, 0)))
	assert.Equal(t, SuppressedDiscard, s.Suppressed)

	s.CancelDiscard()
	assert.Len(t, Tick(cfg, s, at(2026, time.January, 5, 7, 1, 0)), 3)
}

func TestTickUnknownProfile(t *testing.T) {
	cfg := radioConfig()
	s := NewSession()
	Tick(cfg, s, at(2026, time.January, 5, 7, 10, 0))

	cfg.CurrentProfileName = "Missing"
	assert.Equal(t, []Command{Stop()}, Tick(cfg, s, at(2026, time.January, 5, 7, 11, 0)))
}

func TestTickDanglingPlaylistPlaysNothing(t *testing.T) {
	cfg := radioConfig()
	delete(cfg.Playlists, "P")
	s := NewSession()

	cmds := Tick(cfg, s, at(2026, time.January, 5, 7, 30, 0))
	require.Equal(t, []CommandKind{CommandSetVolume, CommandSetPlaylist, CommandPlay}, kinds(cmds))
	assert.Empty(t, cmds[1].Items)
}

func TestTickPlaylistItemsAreCopied(t *testing.T) {
	cfg := radioConfig()
	s := NewSession()
	cmds := Tick(cfg, s, at(2026, time.January, 5, 7, 30, 0))
	require.Len(t, cmds, 3)

	cmds[1].Items[0] = "changed"
	assert.Equal(t, "a.mp3", cfg.Playlists["P"].Items[0])
}

func TestTickSwitchingSlotsReloads(t *testing.T) {
	cfg := radioConfig()
	second := morningSlot()
	second.BeginHour = 8
	second.PlaylistName = "P"
	cfg.Profiles["Holidays"] = Profile{Timetable: Timetable{
		Period:    PeriodOneDay,
		Timeslots: []Timeslot{morningSlot(), second},
	}}
	s := NewSession()

	Tick(cfg, s, at(2026, time.January, 5, 7, 59, 59))
	cmds := Tick(cfg, s, at(2026, time.January, 5, 8, 0, 0))
	assert.Equal(t, []CommandKind{CommandSetVolume, CommandSetPlaylist, CommandPlay}, kinds(cmds))
	assert.Equal(t, 0, cmds[0].Volume)
}
