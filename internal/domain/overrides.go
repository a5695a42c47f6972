package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// SwitchProfile selects another existing profile.
func (c *Config) SwitchProfile(name string) error {
	if _, ok := c.Profiles[name]; !ok {
		return fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	c.CurrentProfileName = name
	return nil
}

// SetTimetable replaces a profile's timetable after validating it.
func (c *Config) SetTimetable(profile string, tt Timetable) error {
	if _, ok := c.Profiles[profile]; !ok {
		return fmt.Errorf("%w: %q", ErrProfileNotFound, profile)
	}
	if err := tt.Validate(); err != nil {
		return err
	}
	slots := make([]Timeslot, len(tt.Timeslots))
	copy(slots, tt.Timeslots)
	c.Profiles[profile] = Profile{Timetable: Timetable{Period: tt.Period, Timeslots: slots}}
	return nil
}

// SetSnoozeDuration changes how long Snooze silences playback.
// The duration is stored in whole seconds.
func (c *Config) SetSnoozeDuration(d time.Duration) error {
	if d < time.Second {
		return ErrInvalidSnooze
	}
	c.SnoozeDuration = d.Truncate(time.Second)
	return nil
}

// NewPlaylist creates an empty playlist.
func (c *Config) NewPlaylist(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	if _, ok := c.Playlists[name]; ok {
		return fmt.Errorf("%w: %q", ErrPlaylistExists, name)
	}
	if c.Playlists == nil {
		c.Playlists = map[string]Playlist{}
	}
	c.Playlists[name] = Playlist{Name: name}
	return nil
}

// RenamePlaylist renames a playlist and repoints every timeslot that referenced it.
func (c *Config) RenamePlaylist(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrInvalidName
	}
	pl, ok := c.Playlists[oldName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrPlaylistNotFound, oldName)
	}
	if _, exists := c.Playlists[newName]; exists {
		return fmt.Errorf("%w: %q", ErrPlaylistExists, newName)
	}
	delete(c.Playlists, oldName)
	pl.Name = newName
	c.Playlists[newName] = pl

	for name, p := range c.Profiles {
		for i := range p.Timetable.Timeslots {
			if p.Timetable.Timeslots[i].PlaylistName == oldName {
				p.Timetable.Timeslots[i].PlaylistName = newName
			}
		}
		c.Profiles[name] = p
	}
	return nil
}

// DeletePlaylist removes a playlist. Timeslots referencing it keep the dangling name.
func (c *Config) DeletePlaylist(name string) error {
	if _, ok := c.Playlists[name]; !ok {
		return fmt.Errorf("%w: %q", ErrPlaylistNotFound, name)
	}
	delete(c.Playlists, name)
	return nil
}

// AddItem appends an item to a playlist.
func (c *Config) AddItem(playlist, item string) error {
	item = strings.TrimSpace(item)
	if item == "" {
		return ErrInvalidName
	}
	pl, ok := c.Playlists[playlist]
	if !ok {
		return fmt.Errorf("%w: %q", ErrPlaylistNotFound, playlist)
	}
	pl.Items = append(slices.Clone(pl.Items), item)
	c.Playlists[playlist] = pl
	return nil
}

// RemoveItem removes the first occurrence of item from a playlist.
func (c *Config) RemoveItem(playlist, item string) error {
	pl, ok := c.Playlists[playlist]
	if !ok {
		return fmt.Errorf("%w: %q", ErrPlaylistNotFound, playlist)
	}
	idx := slices.Index(pl.Items, item)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrItemNotFound, item)
	}
	pl.Items = slices.Delete(slices.Clone(pl.Items), idx, idx+1)
	c.Playlists[playlist] = pl
	return nil
}

// PlaylistNames returns the playlist names in sorted order.
func (c Config) PlaylistNames() []string {
	names := make([]string, 0, len(c.Playlists))
	for name := range c.Playlists {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ProfileNames returns the profile names in sorted order.
func (c Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
