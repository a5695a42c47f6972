package domain

import (
	"math"
	"time"
)

// ActiveWindow is the timeslot matching an instant, with its progress through the
// window and through the fade-in, both in [0, 1].
type ActiveWindow struct {
	Index    int
	Slot     Timeslot
	Progress float64
	Fade     float64
	// ID identifies this occurrence of the slot: same fields on the same local date.
	ID WindowID
}

// Volume maps the fade fraction to a percentage.
func (w ActiveWindow) Volume() int {
	return int(math.Round(w.Fade * 100))
}

// DayIndex maps an instant onto the BeginDay numbering of the given period.
func DayIndex(p Period, now time.Time) int {
	weekday := isoWeekday(now)
	switch p {
	case PeriodOneWeek:
		return weekday - 1
	case PeriodTwoWeeks:
		_, week := now.ISOWeek()
		return weekday - 1 + 7*((week-1)%2)
	case PeriodOneMonth:
		return now.Day()
	default:
		return 0
	}
}

// Resolve returns the first timeslot of tt containing now. It is pure: the result
// depends only on its arguments, and now is read in its own location.
func Resolve(tt Timetable, now time.Time) (ActiveWindow, bool) {
	day := DayIndex(tt.Period, now)
	second := now.Hour()*3600 + now.Minute()*60 + now.Second()

	for i, slot := range tt.Timeslots {
		if slot.BeginDay != day {
			continue
		}
		begin := slot.BeginSecond()
		end := begin + int(slot.Duration/time.Second)
		if second < begin || second >= end {
			continue
		}
		elapsed := float64(second - begin)
		return ActiveWindow{
			Index:    i,
			Slot:     slot,
			Progress: fraction(elapsed, slot.Duration),
			Fade:     fraction(elapsed, slot.FadeIn),
			ID:       occurrenceID(slot.Identity(), now),
		}, true
	}
	return ActiveWindow{}, false
}

// fraction divides elapsed seconds by span, clamped to [0, 1]. An empty span counts as complete.
func fraction(elapsed float64, span time.Duration) float64 {
	total := span.Seconds()
	if total <= 0 {
		return 1
	}
	f := elapsed / total
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
