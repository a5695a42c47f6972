package domain

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks a timetable's slots against its period.
func (tt Timetable) Validate() error {
	if tt.Period < PeriodOneDay || tt.Period > PeriodOneMonth {
		return fmt.Errorf("%w: period %d", ErrUnknownPeriod, tt.Period)
	}
	lo, hi := tt.Period.DayRange()
	var errs []error
	for i, s := range tt.Timeslots {
		if s.BeginDay < lo || s.BeginDay > hi {
			errs = append(errs, fmt.Errorf("%w: slot %d begin_day %d outside %d..%d for %s", ErrInvalidTimetable, i, s.BeginDay, lo, hi, tt.Period))
		}
		if s.BeginHour < 0 || s.BeginHour > 23 {
			errs = append(errs, fmt.Errorf("%w: slot %d begin_hour %d", ErrInvalidTimetable, i, s.BeginHour))
		}
		if s.BeginMinute < 0 || s.BeginMinute > 59 {
			errs = append(errs, fmt.Errorf("%w: slot %d begin_minute %d", ErrInvalidTimetable, i, s.BeginMinute))
		}
		if s.Duration < 0 || s.FadeIn < 0 {
			errs = append(errs, fmt.Errorf("%w: slot %d negative duration", ErrInvalidTimetable, i))
		}
	}
	return errors.Join(errs...)
}

// Validate reports every problem found in the configuration. The engine tolerates an
// invalid configuration, so callers decide whether a failure is fatal.
func (c Config) Validate() error {
	var errs []error
	if c.SnoozeDuration < time.Second {
		errs = append(errs, ErrInvalidSnooze)
	}
	if _, ok := c.Profiles[c.CurrentProfileName]; !ok {
		errs = append(errs, fmt.Errorf("%w: current profile %q", ErrProfileNotFound, c.CurrentProfileName))
	}
	for name, p := range c.Profiles {
		if err := p.Timetable.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("profile %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
