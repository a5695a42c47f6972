package domain

import "errors"

var (
	// ErrProfileNotFound indicates that the named profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrPlaylistNotFound indicates that the named playlist does not exist.
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrPlaylistExists indicates that a playlist with that name already exists.
	ErrPlaylistExists = errors.New("playlist already exists")

	// ErrItemNotFound indicates that the item is not part of the playlist.
	ErrItemNotFound = errors.New("item not found in playlist")

	// ErrInvalidName indicates an empty or blank name.
	ErrInvalidName = errors.New("name must not be empty")

	// ErrUnknownPeriod indicates an unrecognised period enum name.
	ErrUnknownPeriod = errors.New("unknown period")

	// ErrInvalidTimetable indicates a timeslot with out-of-range fields.
	ErrInvalidTimetable = errors.New("invalid timetable")

	// ErrInvalidSnooze indicates a snooze duration under one second.
	ErrInvalidSnooze = errors.New("snooze duration must be at least one second")
)
