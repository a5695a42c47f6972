package domain

import (
	"fmt"
	"strings"
	"time"
)

// Period governs how a Timeslot's BeginDay is interpreted.
type Period int

const (
	PeriodOneDay Period = iota
	PeriodOneWeek
	PeriodTwoWeeks
	PeriodOneMonth
)

func (p Period) String() string {
	switch p {
	case PeriodOneDay:
		return "ONE_DAY"
	case PeriodOneWeek:
		return "ONE_WEEK"
	case PeriodTwoWeeks:
		return "TWO_WEEKS"
	case PeriodOneMonth:
		return "ONE_MONTH"
	default:
		return "UNKNOWN"
	}
}

// ParsePeriod converts the persisted enum name into a Period.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ONE_DAY":
		return PeriodOneDay, nil
	case "ONE_WEEK":
		return PeriodOneWeek, nil
	case "TWO_WEEKS":
		return PeriodTwoWeeks, nil
	case "ONE_MONTH":
		return PeriodOneMonth, nil
	default:
		return PeriodOneDay, fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
}

// DayRange returns the inclusive range of BeginDay values the period accepts.
func (p Period) DayRange() (int, int) {
	switch p {
	case PeriodOneWeek:
		return 0, 6
	case PeriodTwoWeeks:
		return 0, 13
	case PeriodOneMonth:
		return 1, 31
	default:
		return 0, 0
	}
}

// Playlist is a named, ordered list of playable URIs or paths.
type Playlist struct {
	Name  string
	Items []string
}

// Timeslot is one recurring window of a timetable.
// PlaylistName is a reference into Config.Playlists and may dangle.
type Timeslot struct {
	BeginDay     int
	BeginHour    int
	BeginMinute  int
	Duration     time.Duration
	FadeIn       time.Duration
	PlaylistName string
}

// BeginSecond is the slot's start as seconds since local midnight.
func (t Timeslot) BeginSecond() int {
	return t.BeginHour*3600 + t.BeginMinute*60
}

// Timetable is an ordered list of timeslots sharing one period.
// When several slots match the same instant the first one wins.
type Timetable struct {
	Period    Period
	Timeslots []Timeslot
}

// Profile is a named, user-switchable schedule preset.
type Profile struct {
	Timetable Timetable
}

// Config is the whole user configuration read by the engine every tick.
type Config struct {
	Profiles           map[string]Profile
	Playlists          map[string]Playlist
	CurrentProfileName string
	SnoozeDuration     time.Duration
}

// DefaultSnoozeDuration applies when the document does not set one.
const DefaultSnoozeDuration = 10 * time.Minute

// DefaultConfig returns the configuration used when none exists or it cannot be read.
func DefaultConfig() Config {
	return Config{
		Profiles: map[string]Profile{
			"Work":     {Timetable: Timetable{Period: PeriodOneWeek}},
			"Holidays": {Timetable: Timetable{Period: PeriodOneDay}},
		},
		Playlists:          map[string]Playlist{},
		CurrentProfileName: "Work",
		SnoozeDuration:     DefaultSnoozeDuration,
	}
}

// CurrentProfile looks up the selected profile.
func (c Config) CurrentProfile() (Profile, bool) {
	p, ok := c.Profiles[c.CurrentProfileName]
	return p, ok
}

// Clone returns a deep copy so callers can hand out snapshots safely.
func (c Config) Clone() Config {
	out := Config{
		Profiles:           make(map[string]Profile, len(c.Profiles)),
		Playlists:          make(map[string]Playlist, len(c.Playlists)),
		CurrentProfileName: c.CurrentProfileName,
		SnoozeDuration:     c.SnoozeDuration,
	}
	for name, p := range c.Profiles {
		slots := make([]Timeslot, len(p.Timetable.Timeslots))
		copy(slots, p.Timetable.Timeslots)
		out.Profiles[name] = Profile{Timetable: Timetable{Period: p.Timetable.Period, Timeslots: slots}}
	}
	for name, pl := range c.Playlists {
		items := make([]string, len(pl.Items))
		copy(items, pl.Items)
		out.Playlists[name] = Playlist{Name: pl.Name, Items: items}
	}
	return out
}
