package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clock-radio/internal/domain"
)

func newRepo(t *testing.T) *FileRepository {
	t.Helper()
	repo, err := NewFileRepository(filepath.Join(t.TempDir(), "nested", "config.json"))
	require.NoError(t, err)
	return repo
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	repo := newRepo(t)

	cfg, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
	assert.NoFileExists(t, repo.BackupPath())
}

func TestLoadCorruptBacksUp(t *testing.T) {
	repo := newRepo(t)
	require.NoError(t, os.WriteFile(repo.Path(), []byte("{not json"), 0o644))

	cfg, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)

	backup, err := os.ReadFile(repo.BackupPath())
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(backup))
}

func TestLoadUnknownPeriodBacksUp(t *testing.T) {
	repo := newRepo(t)
	doc := `{"current_profile_name":"A","profiles":{"A":{"timetable":{"period":"FORTNIGHT","timeslots":[]}}},"playlists":{}}`
	require.NoError(t, os.WriteFile(repo.Path(), []byte(doc), 0o644))

	cfg, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, "Work", cfg.CurrentProfileName)
	assert.FileExists(t, repo.BackupPath())
}

func TestLoadAppliesFieldDefaults(t *testing.T) {
	repo := newRepo(t)
	doc := `{
  "current_profile_name": "Weekdays",
  "profiles": {
    "Weekdays": {"timetable": {"timeslots": [{"begin_hour": 7, "duration": 3600, "playlist_name": "P"}]}}
  },
  "playlists": {"P": {}}
}`
	require.NoError(t, os.WriteFile(repo.Path(), []byte(doc), 0o644))

	cfg, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSnoozeDuration, cfg.SnoozeDuration)

	tt := cfg.Profiles["Weekdays"].Timetable
	assert.Equal(t, domain.PeriodOneDay, tt.Period)
	require.Len(t, tt.Timeslots, 1)
	assert.Equal(t, domain.Timeslot{BeginHour: 7, Duration: time.Hour, PlaylistName: "P"}, tt.Timeslots[0])
	assert.Equal(t, domain.Playlist{Name: "P", Items: []string{}}, cfg.Playlists["P"])
}

func TestSaveRoundTrip(t *testing.T) {
	repo := newRepo(t)
	cfg := domain.DefaultConfig()
	require.NoError(t, cfg.SetSnoozeDuration(5*time.Minute))
	require.NoError(t, cfg.NewPlaylist("Morning"))
	require.NoError(t, cfg.AddItem("Morning", "http://radio.example/stream"))
	require.NoError(t, cfg.SetTimetable("Work", domain.Timetable{
		Period: domain.PeriodOneWeek,
		Timeslots: []domain.Timeslot{{
			BeginDay: 4, BeginHour: 6, BeginMinute: 45,
			Duration: 90 * time.Minute, FadeIn: 15 * time.Minute,
			PlaylistName: "Morning",
		}},
	}))

	require.NoError(t, repo.Save(cfg))
	assert.NoFileExists(t, repo.Path()+".tmp")

	loaded, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveWritesDocumentShape(t *testing.T) {
	repo := newRepo(t)
	require.NoError(t, repo.Save(domain.DefaultConfig()))

	data, err := os.ReadFile(repo.Path())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "Work", raw["current_profile_name"])
	assert.EqualValues(t, 600, raw["snooze_duration"])

	profiles := raw["profiles"].(map[string]any)
	work := profiles["Work"].(map[string]any)["timetable"].(map[string]any)
	assert.Equal(t, "ONE_WEEK", work["period"])
	assert.Equal(t, []any{}, work["timeslots"])
	assert.Equal(t, map[string]any{}, raw["playlists"])
}
