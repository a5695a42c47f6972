package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"clock-radio/internal/domain"
	"clock-radio/internal/logging"
)

// FileRepository implements domain.ConfigRepository using a JSON document.
// This is a secondary adapter.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileRepository creates a new file-based config repository.
func NewFileRepository(path string) (*FileRepository, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	return &FileRepository{path: path}, nil
}

// Path returns the document location.
func (f *FileRepository) Path() string {
	return f.path
}

// BackupPath is where a corrupt document is copied before defaults replace it.
func (f *FileRepository) BackupPath() string {
	return f.path + ".bak"
}

// Load reads the configuration document. A missing document yields defaults; an
// unreadable or malformed one is backed up and also yields defaults.
func (f *FileRepository) Load() (domain.Config, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		f.backup(err)
		return domain.DefaultConfig(), nil
	}

	cfg, err := decode(data)
	if err != nil {
		f.backup(err)
		return domain.DefaultConfig(), nil
	}
	if err := cfg.Validate(); err != nil {
		logging.Warnf("config %s has problems, continuing anyway: %v", f.path, err)
	}
	return cfg, nil
}

func (f *FileRepository) backup(cause error) {
	logging.Errorf("config %s unusable (%v), backing up to %s and using defaults", f.path, cause, f.BackupPath())
	data, err := os.ReadFile(f.path)
	if err != nil {
		logging.Errorf("read config for backup: %v", err)
		return
	}
	if err := os.WriteFile(f.BackupPath(), data, 0o644); err != nil {
		logging.Errorf("write config backup: %v", err)
	}
}

// Save persists the configuration atomically.
func (f *FileRepository) Save(cfg domain.Config) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := Encode(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename tmp: %w", err)
	}

	return nil
}

// persistedTimeslot is the on-disk timeslot. Absent fields decode to zero.
type persistedTimeslot struct {
	BeginHour      int    `json:"begin_hour" yaml:"begin_hour"`
	BeginMinute    int    `json:"begin_minute" yaml:"begin_minute"`
	BeginDay       int    `json:"begin_day" yaml:"begin_day"`
	Duration       int    `json:"duration" yaml:"duration"`
	FadeInDuration int    `json:"fade_in_duration" yaml:"fade_in_duration"`
	PlaylistName   string `json:"playlist_name" yaml:"playlist_name"`
}

type persistedTimetable struct {
	Period    string              `json:"period" yaml:"period"`
	Timeslots []persistedTimeslot `json:"timeslots" yaml:"timeslots"`
}

type persistedProfile struct {
	Timetable persistedTimetable `json:"timetable" yaml:"timetable"`
}

type persistedPlaylist struct {
	Items []string `json:"items" yaml:"items"`
}

// Document is the persisted shape of domain.Config.
type Document struct {
	CurrentProfileName string                       `json:"current_profile_name" yaml:"current_profile_name"`
	SnoozeDuration     *int                         `json:"snooze_duration,omitempty" yaml:"snooze_duration,omitempty"`
	Profiles           map[string]persistedProfile  `json:"profiles" yaml:"profiles"`
	Playlists          map[string]persistedPlaylist `json:"playlists" yaml:"playlists"`
}

func decode(data []byte) (domain.Config, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return doc.ToDomain()
}

// ToDomain converts the document, applying defaults for absent fields.
func (d Document) ToDomain() (domain.Config, error) {
	cfg := domain.Config{
		Profiles:           make(map[string]domain.Profile, len(d.Profiles)),
		Playlists:          make(map[string]domain.Playlist, len(d.Playlists)),
		CurrentProfileName: d.CurrentProfileName,
		SnoozeDuration:     domain.DefaultSnoozeDuration,
	}
	if d.SnoozeDuration != nil && *d.SnoozeDuration > 0 {
		cfg.SnoozeDuration = time.Duration(*d.SnoozeDuration) * time.Second
	}

	for name, p := range d.Profiles {
		period := domain.PeriodOneDay
		if p.Timetable.Period != "" {
			parsed, err := domain.ParsePeriod(p.Timetable.Period)
			if err != nil {
				return domain.Config{}, fmt.Errorf("profile %q: %w", name, err)
			}
			period = parsed
		}
		var slots []domain.Timeslot
		for _, s := range p.Timetable.Timeslots {
			slots = append(slots, domain.Timeslot{
				BeginDay:     s.BeginDay,
				BeginHour:    s.BeginHour,
				BeginMinute:  s.BeginMinute,
				Duration:     time.Duration(s.Duration) * time.Second,
				FadeIn:       time.Duration(s.FadeInDuration) * time.Second,
				PlaylistName: s.PlaylistName,
			})
		}
		cfg.Profiles[name] = domain.Profile{Timetable: domain.Timetable{Period: period, Timeslots: slots}}
	}

	for name, pl := range d.Playlists {
		items := pl.Items
		if items == nil {
			items = []string{}
		}
		cfg.Playlists[name] = domain.Playlist{Name: name, Items: items}
	}
	return cfg, nil
}

// FromDomain builds the persisted document for cfg.
func FromDomain(cfg domain.Config) Document {
	snooze := int(cfg.SnoozeDuration / time.Second)
	doc := Document{
		CurrentProfileName: cfg.CurrentProfileName,
		SnoozeDuration:     &snooze,
		Profiles:           make(map[string]persistedProfile, len(cfg.Profiles)),
		Playlists:          make(map[string]persistedPlaylist, len(cfg.Playlists)),
	}
	for name, p := range cfg.Profiles {
		slots := make([]persistedTimeslot, 0, len(p.Timetable.Timeslots))
		for _, s := range p.Timetable.Timeslots {
			slots = append(slots, persistedTimeslot{
				BeginHour:      s.BeginHour,
				BeginMinute:    s.BeginMinute,
				BeginDay:       s.BeginDay,
				Duration:       int(s.Duration / time.Second),
				FadeInDuration: int(s.FadeIn / time.Second),
				PlaylistName:   s.PlaylistName,
			})
		}
		doc.Profiles[name] = persistedProfile{Timetable: persistedTimetable{
			Period:    p.Timetable.Period.String(),
			Timeslots: slots,
		}}
	}
	for name, pl := range cfg.Playlists {
		items := pl.Items
		if items == nil {
			items = []string{}
		}
		doc.Playlists[name] = persistedPlaylist{Items: items}
	}
	return doc
}

// Encode renders cfg as the indented JSON document.
func Encode(cfg domain.Config) ([]byte, error) {
	return json.MarshalIndent(FromDomain(cfg), "", "  ")
}
