package audio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fhs/gompd/v2/mpd"
)

// DefaultMPDTimeout bounds one MPD command, dial and greeting included.
const DefaultMPDTimeout = 5 * time.Second

var errMPDBusy = errors.New("previous command still waiting for a reply")

// MPDSink implements domain.AudioSink against a Music Player Daemon.
// Every command uses a short-lived connection so a restarted MPD is picked up on the next tick.
// The client library has no deadlines, so a command that outlives Timeout is abandoned and
// further commands fail fast until it returns.
type MPDSink struct {
	network  string
	addr     string
	password string
	Timeout  time.Duration

	mu      sync.Mutex
	pending chan struct{}
}

// NewMPDSink creates a sink for MPD at addr. network is "tcp" or "unix".
func NewMPDSink(network, addr, password string) *MPDSink {
	return &MPDSink{network: network, addr: addr, password: password, Timeout: DefaultMPDTimeout}
}

func (m *MPDSink) dial() (*mpd.Client, error) {
	if m.password != "" {
		return mpd.DialAuthenticated(m.network, m.addr, m.password)
	}
	return mpd.Dial(m.network, m.addr)
}

// do runs fn with a fresh client, giving up after Timeout.
func (m *MPDSink) do(src string, fn func(c *mpd.Client) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending != nil {
		select {
		case <-m.pending:
			m.pending = nil
		default:
			return fmt.Errorf("mpd %s: %w", src, errMPDBusy)
		}
	}

	timeout := m.Timeout
	if timeout <= 0 {
		timeout = DefaultMPDTimeout
	}

	finished := make(chan struct{})
	result := make(chan error, 1)
	go func() {
		defer close(finished)
		result <- m.run(src, fn)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case err := <-result:
		return err
	case <-timer.C:
		m.pending = finished
		return fmt.Errorf("mpd %s: no reply from %s %s within %s", src, m.network, m.addr, timeout)
	}
}

func (m *MPDSink) run(src string, fn func(c *mpd.Client) error) error {
	c, err := m.dial()
	if err != nil {
		return fmt.Errorf("mpd dial %s %s (%s): %w", m.network, m.addr, src, err)
	}
	defer c.Close()

	if err := fn(c); err != nil {
		return fmt.Errorf("mpd %s: %w", src, err)
	}
	return nil
}

// SetVolume sets the mixer volume (0-100).
func (m *MPDSink) SetVolume(percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", percent)
	}
	return m.do("setvol", func(c *mpd.Client) error {
		return c.SetVolume(percent)
	})
}

// SetPlaylist replaces the MPD queue with items.
func (m *MPDSink) SetPlaylist(items []string) error {
	return m.do("load", func(c *mpd.Client) error {
		if err := c.Clear(); err != nil {
			return err
		}
		for _, item := range items {
			if err := c.Add(item); err != nil {
				return fmt.Errorf("add %q: %w", item, err)
			}
		}
		return nil
	})
}

// Play starts the queue from its current position.
func (m *MPDSink) Play() error {
	return m.do("play", func(c *mpd.Client) error {
		return c.Play(-1)
	})
}

// Stop halts playback.
func (m *MPDSink) Stop() error {
	return m.do("stop", func(c *mpd.Client) error {
		return c.Stop()
	})
}

// Ping checks that MPD is reachable.
func (m *MPDSink) Ping() error {
	return m.do("ping", func(c *mpd.Client) error {
		return c.Ping()
	})
}
