package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"clock-radio/internal/domain"
	"clock-radio/internal/logging"
	"clock-radio/internal/telemetry"
)

// RadioUseCase is the primary port for the clock radio.
// The tick loop and the override surface share one configuration and one session;
// every access goes through a single mutex so no tick sees a half-applied override.
type RadioUseCase interface {
	Start(ctx context.Context)
	Done() <-chan struct{}
	Snapshot() domain.Snapshot
	TickNow() []domain.Command

	Snooze() time.Time
	CancelSnooze()
	Discard()
	CancelDiscard()
	SwitchProfile(name string) error
	SetTimetable(profile string, tt domain.Timetable) error
	SetSnoozeDuration(d time.Duration) error

	NewPlaylist(name string) error
	RenamePlaylist(oldName, newName string) error
	DeletePlaylist(name string) error
	AddItem(playlist, item string) error
	RemoveItem(playlist, item string) error

	RequestSave()
	Flush() error
	// Settle waits up to timeout for queued audio commands to reach the sink.
	Settle(timeout time.Duration) bool
}

// Options tunes the radio loop. Zero values pick the defaults.
type Options struct {
	Interval  time.Duration
	Location  *time.Location
	Clock     clockwork.Clock
	Publisher domain.EventPublisher

	// QueueSize bounds the audio command batches waiting for the sink.
	QueueSize int
	// DrainTimeout bounds how long shutdown waits for queued audio commands.
	DrainTimeout time.Duration
}

// radioInteractor implements RadioUseCase.
// It depends only on domain layer and secondary ports.
type radioInteractor struct {
	repo      domain.ConfigRepository
	player    *dispatcher
	publisher domain.EventPublisher
	clock     clockwork.Clock
	loc       *time.Location
	interval  time.Duration
	drainFor  time.Duration

	mu      sync.Mutex
	config  domain.Config
	session *domain.Session
	lastAt  time.Time
	dirty   bool

	wake chan struct{}
	done chan struct{}
}

// NewRadioUseCase loads the configuration and prepares an idle session.
// Dependencies are injected (secondary ports).
func NewRadioUseCase(repo domain.ConfigRepository, sink domain.AudioSink, opts Options) (RadioUseCase, error) {
	if repo == nil || sink == nil {
		return nil, errors.New("repository and sink are required")
	}
	cfg, err := repo.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Profiles == nil {
		cfg.Profiles = map[string]domain.Profile{}
	}
	if cfg.Playlists == nil {
		cfg.Playlists = map[string]domain.Playlist{}
	}
	if cfg.SnoozeDuration <= 0 {
		cfg.SnoozeDuration = domain.DefaultSnoozeDuration
	}

	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Publisher == nil {
		opts.Publisher = nopPublisher{}
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 16
	}
	if opts.DrainTimeout <= 0 {
		opts.DrainTimeout = 5 * time.Second
	}

	return &radioInteractor{
		repo:      repo,
		player:    newDispatcher(sink, opts.QueueSize),
		publisher: opts.Publisher,
		clock:     opts.Clock,
		loc:       opts.Location,
		interval:  opts.Interval,
		drainFor:  opts.DrainTimeout,
		config:    cfg,
		session:   domain.NewSession(),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, domain.Event) error { return nil }

// Start begins the playback loop. The loaded configuration is saved once on the first
// iteration so the document on disk picks up format updates.
func (s *radioInteractor) Start(ctx context.Context) {
	s.RequestSave()
	go s.loop(ctx)
}

// Done is closed when the loop has exited and flushed.
func (s *radioInteractor) Done() <-chan struct{} {
	return s.done
}

func (s *radioInteractor) loop(ctx context.Context) {
	defer close(s.done)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	logging.Infof("playback loop started (every %s, %s)", s.interval, s.loc)
	s.step()
	for {
		select {
		case <-ctx.Done():
			if !s.player.drain(s.drainFor) {
				logging.Warnf("audio commands still pending after %s, leaving them", s.drainFor)
			}
			if err := s.Flush(); err != nil {
				logging.Errorf("final config save failed: %v", err)
			}
			logging.Infof("playback loop stopped")
			return
		case <-ticker.Chan():
			s.step()
		case <-s.wake:
			s.step()
		}
	}
}

func (s *radioInteractor) step() {
	s.TickNow()
	if err := s.Flush(); err != nil {
		logging.Errorf("config save failed, will retry: %v", err)
	}
}

// nudge asks the loop for an early tick so overrides show up without waiting.
func (s *radioInteractor) nudge() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// TickNow evaluates the state machine at the current instant and queues the result for
// the sink. It returns without waiting for the sink.
func (s *radioInteractor) TickNow() []domain.Command {
	now := s.clock.Now().In(s.loc)

	s.mu.Lock()
	cmds := domain.Tick(s.config, s.session, now)
	s.player.enqueue(cmds)
	s.lastAt = now
	profile := s.config.CurrentProfileName
	session := s.session.Clone()
	s.mu.Unlock()

	telemetry.Ticks.Inc()
	if len(cmds) > 0 {
		logging.Debugf("tick %s: %v", now.Format(time.TimeOnly), cmds)
	} else {
		logging.Tracef("tick %s: idle=%t", now.Format(time.TimeOnly), session.Idle())
	}
	s.announce(now, profile, session, cmds)
	return cmds
}

func (s *radioInteractor) announce(now time.Time, profile string, session domain.Session, cmds []domain.Command) {
	for _, cmd := range cmds {
		switch cmd.Kind {
		case domain.CommandPlay:
			ev := domain.Event{Kind: domain.EventStarted, At: now, Profile: profile, Window: session.LastAppliedWindow}
			if session.Current != nil {
				ev.Playlist = session.Current.Slot.PlaylistName
			}
			logging.Infof("window started: profile=%s playlist=%q", profile, ev.Playlist)
			s.publish(ev)
		case domain.CommandStop:
			logging.Infof("window stopped: profile=%s suppressed=%q", profile, session.Suppressed)
			s.publish(domain.Event{Kind: domain.EventStopped, At: now, Profile: profile})
		}
	}
}

func (s *radioInteractor) publish(ev domain.Event) {
	if err := s.publisher.Publish(context.Background(), ev); err != nil {
		logging.Warnf("publish %s event: %v", ev.Kind, err)
	}
}

// Snapshot returns a copy of the configuration and session for display.
func (s *radioInteractor) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Snapshot{
		Config:  s.config.Clone(),
		Session: s.session.Clone(),
		At:      s.lastAt,
		Dirty:   s.dirty,
	}
}

// Snooze silences playback for the configured snooze duration.
func (s *radioInteractor) Snooze() time.Time {
	now := s.clock.Now().In(s.loc)
	s.mu.Lock()
	until := s.session.Snooze(now, s.config.SnoozeDuration)
	profile := s.config.CurrentProfileName
	s.mu.Unlock()

	logging.Infof("snoozed until %s", until.Format(time.TimeOnly))
	s.publish(domain.Event{Kind: domain.EventSnoozed, At: now, Profile: profile, Until: until})
	s.nudge()
	return until
}

// CancelSnooze lifts an active snooze.
func (s *radioInteractor) CancelSnooze() {
	s.mu.Lock()
	s.session.CancelSnooze()
	s.mu.Unlock()
	logging.Infof("snooze cancelled")
	s.nudge()
}

// Discard suppresses the current occurrence, or the next one when nothing is playing.
func (s *radioInteractor) Discard() {
	now := s.clock.Now().In(s.loc)
	s.mu.Lock()
	s.session.RequestDiscard()
	profile := s.config.CurrentProfileName
	s.mu.Unlock()

	logging.Infof("discard requested")
	s.publish(domain.Event{Kind: domain.EventDiscarded, At: now, Profile: profile})
	s.nudge()
}

// CancelDiscard forgets a pending or applied discard.
func (s *radioInteractor) CancelDiscard() {
	s.mu.Lock()
	s.session.CancelDiscard()
	s.mu.Unlock()
	logging.Infof("discard cancelled")
	s.nudge()
}

// mutate applies fn to a copy of the configuration and swaps it in only on success.
func (s *radioInteractor) mutate(fn func(*domain.Config) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.config.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	s.config = next
	s.dirty = true
	return nil
}

// SwitchProfile selects another profile.
func (s *radioInteractor) SwitchProfile(name string) error {
	if err := s.mutate(func(c *domain.Config) error { return c.SwitchProfile(name) }); err != nil {
		return err
	}
	logging.Infof("profile switched to %q", name)
	s.publish(domain.Event{Kind: domain.EventProfile, At: s.clock.Now().In(s.loc), Profile: name})
	s.nudge()
	return nil
}

// SetTimetable replaces a profile's timetable.
func (s *radioInteractor) SetTimetable(profile string, tt domain.Timetable) error {
	if err := s.mutate(func(c *domain.Config) error { return c.SetTimetable(profile, tt) }); err != nil {
		return err
	}
	s.nudge()
	return nil
}

// SetSnoozeDuration changes the snooze length for future snoozes.
func (s *radioInteractor) SetSnoozeDuration(d time.Duration) error {
	return s.mutate(func(c *domain.Config) error { return c.SetSnoozeDuration(d) })
}

// NewPlaylist creates an empty playlist.
func (s *radioInteractor) NewPlaylist(name string) error {
	return s.mutate(func(c *domain.Config) error { return c.NewPlaylist(name) })
}

// RenamePlaylist renames a playlist and the timeslots that use it.
func (s *radioInteractor) RenamePlaylist(oldName, newName string) error {
	return s.mutate(func(c *domain.Config) error { return c.RenamePlaylist(oldName, newName) })
}

// DeletePlaylist removes a playlist.
func (s *radioInteractor) DeletePlaylist(name string) error {
	return s.mutate(func(c *domain.Config) error { return c.DeletePlaylist(name) })
}

// AddItem appends an item to a playlist.
func (s *radioInteractor) AddItem(playlist, item string) error {
	return s.mutate(func(c *domain.Config) error { return c.AddItem(playlist, item) })
}

// RemoveItem removes an item from a playlist.
func (s *radioInteractor) RemoveItem(playlist, item string) error {
	return s.mutate(func(c *domain.Config) error { return c.RemoveItem(playlist, item) })
}

// Settle waits up to timeout for queued audio commands to reach the sink.
func (s *radioInteractor) Settle(timeout time.Duration) bool {
	return s.player.drain(timeout)
}

// RequestSave marks the configuration for saving on the next loop iteration.
func (s *radioInteractor) RequestSave() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

// Flush saves the configuration if a save is pending.
func (s *radioInteractor) Flush() error {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	cfg := s.config.Clone()
	s.dirty = false
	s.mu.Unlock()

	if err := s.repo.Save(cfg); err != nil {
		telemetry.ConfigSaves.WithLabelValues("error").Inc()
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return err
	}
	telemetry.ConfigSaves.WithLabelValues("ok").Inc()
	logging.Debugf("config saved")
	return nil
}
