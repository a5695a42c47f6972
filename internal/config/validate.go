package config

import (
	"fmt"
	"time"
)

// Normalize rejects settings the daemon cannot run with.
func Normalize(s Settings) (Settings, error) {
	if s.DocumentPath == "" {
		return s, fmt.Errorf("config path is required")
	}
	if s.TickInterval < 100*time.Millisecond {
		return s, fmt.Errorf("tick interval must be >=100ms")
	}
	switch s.Sink {
	case "mpd", "log":
	default:
		return s, fmt.Errorf("unknown sink %q (want mpd or log)", s.Sink)
	}
	if s.Sink == "mpd" && s.MPDNetwork != "tcp" && s.MPDNetwork != "unix" {
		return s, fmt.Errorf("mpd network must be tcp or unix")
	}
	if s.Location == nil {
		s.Location = time.Local
	}
	return s, nil
}
