package audio

import (
	"slices"
	"sync"

	"clock-radio/internal/domain"
)

// Recorder implements domain.AudioSink by remembering every command it receives.
// Fail, when set, is returned from every call after recording.
type Recorder struct {
	mu       sync.Mutex
	commands []domain.Command
	Fail     error
}

func (r *Recorder) record(c domain.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, c)
	return r.Fail
}

func (r *Recorder) SetVolume(percent int) error {
	return r.record(domain.SetVolume(percent))
}

func (r *Recorder) SetPlaylist(items []string) error {
	return r.record(domain.SetPlaylist(slices.Clone(items)))
}

func (r *Recorder) Play() error { return r.record(domain.Play()) }

func (r *Recorder) Stop() error { return r.record(domain.Stop()) }

// Commands returns a copy of everything recorded so far.
func (r *Recorder) Commands() []domain.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.commands)
}

// Reset forgets recorded commands.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = nil
}
