package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "Work", cfg.CurrentProfileName)
	assert.Equal(t, []string{"Holidays", "Work"}, cfg.ProfileNames())
	assert.Equal(t, PeriodOneWeek, cfg.Profiles["Work"].Timetable.Period)
	assert.Equal(t, DefaultSnoozeDuration, cfg.SnoozeDuration)
	assert.NoError(t, cfg.Validate())
}

func TestSwitchProfile(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.SwitchProfile("Holidays"))
	assert.Equal(t, "Holidays", cfg.CurrentProfileName)

	err := cfg.SwitchProfile("Weekend")
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.Equal(t, "Holidays", cfg.CurrentProfileName)
}

func TestSetTimetableValidates(t *testing.T) {
	cfg := DefaultConfig()
	bad := Timetable{Period: PeriodOneWeek, Timeslots: []Timeslot{{BeginDay: 7, BeginHour: 24, Duration: time.Hour}}}

	err := cfg.SetTimetable("Work", bad)
	assert.ErrorIs(t, err, ErrInvalidTimetable)
	assert.Empty(t, cfg.Profiles["Work"].Timetable.Timeslots)

	err = cfg.SetTimetable("Nope", Timetable{})
	assert.ErrorIs(t, err, ErrProfileNotFound)

	good := Timetable{Period: PeriodOneWeek, Timeslots: []Timeslot{{BeginDay: 6, BeginHour: 9, Duration: time.Hour}}}
	require.NoError(t, cfg.SetTimetable("Work", good))
	good.Timeslots[0].BeginHour = 10
	assert.Equal(t, 9, cfg.Profiles["Work"].Timetable.Timeslots[0].BeginHour, "stored timetable is a copy")
}

func TestSetSnoozeDuration(t *testing.T) {
	cfg := DefaultConfig()
	assert.ErrorIs(t, cfg.SetSnoozeDuration(0), ErrInvalidSnooze)
	assert.ErrorIs(t, cfg.SetSnoozeDuration(500*time.Millisecond), ErrInvalidSnooze)
	assert.Equal(t, DefaultSnoozeDuration, cfg.SnoozeDuration)

	require.NoError(t, cfg.SetSnoozeDuration(90*time.Second))
	assert.Equal(t, 90*time.Second, cfg.SnoozeDuration)

	require.NoError(t, cfg.SetSnoozeDuration(1500*time.Millisecond))
	assert.Equal(t, time.Second, cfg.SnoozeDuration)
}

func TestPlaylistLifecycle(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.NewPlaylist(" Morning "))
	assert.ErrorIs(t, cfg.NewPlaylist("Morning"), ErrPlaylistExists)
	assert.ErrorIs(t, cfg.NewPlaylist("   "), ErrInvalidName)

	require.NoError(t, cfg.AddItem("Morning", "a.mp3"))
	require.NoError(t, cfg.AddItem("Morning", "b.mp3"))
	require.NoError(t, cfg.AddItem("Morning", "a.mp3"))
	assert.ErrorIs(t, cfg.AddItem("Evening", "a.mp3"), ErrPlaylistNotFound)
	assert.ErrorIs(t, cfg.AddItem("Morning", ""), ErrInvalidName)

	require.NoError(t, cfg.RemoveItem("Morning", "a.mp3"))
	assert.Equal(t, []string{"b.mp3", "a.mp3"}, cfg.Playlists["Morning"].Items)
	assert.ErrorIs(t, cfg.RemoveItem("Morning", "c.mp3"), ErrItemNotFound)

	require.NoError(t, cfg.DeletePlaylist("Morning"))
	assert.Empty(t, cfg.PlaylistNames())
	assert.ErrorIs(t, cfg.DeletePlaylist("Morning"), ErrPlaylistNotFound)
}

func TestRenamePlaylistRepointsSlots(t *testing.T) {
	cfg := radioConfig()
	require.NoError(t, cfg.NewPlaylist("Q"))

	assert.ErrorIs(t, cfg.RenamePlaylist("P", "Q"), ErrPlaylistExists)
	assert.ErrorIs(t, cfg.RenamePlaylist("X", "Y"), ErrPlaylistNotFound)
	assert.ErrorIs(t, cfg.RenamePlaylist("P", ""), ErrInvalidName)
	assert.Equal(t, "P", cfg.Profiles["Holidays"].Timetable.Timeslots[0].PlaylistName)

	require.NoError(t, cfg.RenamePlaylist("P", "Wake up"))
	assert.Equal(t, []string{"Q", "Wake up"}, cfg.PlaylistNames())
	assert.Equal(t, "Wake up", cfg.Playlists["Wake up"].Name)
	assert.Equal(t, "Wake up", cfg.Profiles["Holidays"].Timetable.Timeslots[0].PlaylistName)
}

func TestCloneIsDeep(t *testing.T) {
	cfg := radioConfig()
	cp := cfg.Clone()

	cp.Playlists["P"].Items[0] = "other.mp3"
	cp.Profiles["Holidays"].Timetable.Timeslots[0].BeginHour = 9
	cp.CurrentProfileName = "Work"

	assert.Equal(t, "a.mp3", cfg.Playlists["P"].Items[0])
	assert.Equal(t, 7, cfg.Profiles["Holidays"].Timetable.Timeslots[0].BeginHour)
	assert.Equal(t, "Holidays", cfg.CurrentProfileName)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		tt   Timetable
		ok   bool
	}{
		{"one day", Timetable{Period: PeriodOneDay, Timeslots: []Timeslot{{BeginHour: 23, BeginMinute: 59, Duration: time.Minute}}}, true},
		{"one day wrong day", Timetable{Period: PeriodOneDay, Timeslots: []Timeslot{{BeginDay: 1}}}, false},
		{"two weeks last day", Timetable{Period: PeriodTwoWeeks, Timeslots: []Timeslot{{BeginDay: 13}}}, true},
		{"month day zero", Timetable{Period: PeriodOneMonth, Timeslots: []Timeslot{{BeginDay: 0}}}, false},
		{"month day 31", Timetable{Period: PeriodOneMonth, Timeslots: []Timeslot{{BeginDay: 31}}}, true},
		{"bad minute", Timetable{Period: PeriodOneDay, Timeslots: []Timeslot{{BeginMinute: 60}}}, false},
		{"negative fade", Timetable{Period: PeriodOneDay, Timeslots: []Timeslot{{FadeIn: -time.Second}}}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tt.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTimetable)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.CurrentProfileName = "Gone"
	cfg.SnoozeDuration = 0
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.ErrorIs(t, err, ErrInvalidSnooze)

	err = Timetable{Period: Period(9)}.Validate()
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestCommandDispatch(t *testing.T) {
	sink := &fakeSink{}
	for _, c := range []Command{SetVolume(40), SetPlaylist([]string{"x"}), Play(), Stop()} {
		require.NoError(t, c.Dispatch(sink))
	}
	assert.Equal(t, []string{"SetVolume(40)", "SetPlaylist(1 items)", "Play", "Stop"}, sink.calls)
	assert.Error(t, Command{Kind: "Rewind"}.Dispatch(sink))
}

type fakeSink struct{ calls []string }

func (f *fakeSink) SetVolume(p int) error {
	f.calls = append(f.calls, SetVolume(p).String())
	return nil
}

func (f *fakeSink) SetPlaylist(items []string) error {
	f.calls = append(f.calls, SetPlaylist(items).String())
	return nil
}

func (f *fakeSink) Play() error {
	f.calls = append(f.calls, "Play")
	return nil
}

func (f *fakeSink) Stop() error {
	f.calls = append(f.calls, "Stop")
	return nil
}
