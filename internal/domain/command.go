package domain

import "fmt"

// CommandKind names the audio side effect to perform.
type CommandKind string

const (
	CommandSetVolume   CommandKind = "SetVolume"
	CommandSetPlaylist CommandKind = "SetPlaylist"
	CommandPlay        CommandKind = "Play"
	CommandStop        CommandKind = "Stop"
)

// Command is an audio side effect produced by Tick and executed by the use case layer.
// Volume is set for CommandSetVolume, Items for CommandSetPlaylist.
type Command struct {
	Kind   CommandKind
	Volume int
	Items  []string
}

func (c Command) String() string {
	switch c.Kind {
	case CommandSetVolume:
		return fmt.Sprintf("%s(%d)", c.Kind, c.Volume)
	case CommandSetPlaylist:
		return fmt.Sprintf("%s(%d items)", c.Kind, len(c.Items))
	default:
		return string(c.Kind)
	}
}

// SetVolume builds a volume command.
func SetVolume(percent int) Command {
	return Command{Kind: CommandSetVolume, Volume: percent}
}

// SetPlaylist builds a playlist load command.
func SetPlaylist(items []string) Command {
	return Command{Kind: CommandSetPlaylist, Items: items}
}

// Play builds a start-playback command.
func Play() Command { return Command{Kind: CommandPlay} }

// Stop builds a stop-playback command.
func Stop() Command { return Command{Kind: CommandStop} }

// Dispatch sends the command to the sink.
func (c Command) Dispatch(sink AudioSink) error {
	switch c.Kind {
	case CommandSetVolume:
		return sink.SetVolume(c.Volume)
	case CommandSetPlaylist:
		return sink.SetPlaylist(c.Items)
	case CommandPlay:
		return sink.Play()
	case CommandStop:
		return sink.Stop()
	default:
		return fmt.Errorf("unknown command kind %q", c.Kind)
	}
}
