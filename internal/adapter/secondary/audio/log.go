package audio

import (
	"fmt"

	"clock-radio/internal/logging"
)

// LogSink implements domain.AudioSink by logging commands without touching any player.
// Useful on machines without MPD.
type LogSink struct{}

func (LogSink) SetVolume(percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("invalid volume %d", percent)
	}
	logging.Infof("audio: volume %d%%", percent)
	return nil
}

func (LogSink) SetPlaylist(items []string) error {
	logging.Infof("audio: playlist %d items %v", len(items), items)
	return nil
}

func (LogSink) Play() error {
	logging.Infof("audio: play")
	return nil
}

func (LogSink) Stop() error {
	logging.Infof("audio: stop")
	return nil
}
