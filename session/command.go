package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tempomesh/go-tempomesh/timeline"
	"github.com/tempomesh/go-tempomesh/timesync"
)

// ErrUnknownCommand is returned when parsing an unsupported command.
var ErrUnknownCommand = errors.New("session: unknown command")

// CommandKind identifies a local timeline command.
type CommandKind int

const (
	Start CommandKind = iota
	Resume
	Pause
	Reset
	SetTempo
)

func (k CommandKind) String() string {
	switch k {
	case Start:
		return "start"
	case Resume:
		return "resume"
	case Pause:
		return "pause"
	case Reset:
		return "reset"
	case SetTempo:
		return "tempo"
	}
	return "unknown"
}

// Command is a local user action on the shared timeline.
type Command struct {
	Kind CommandKind
	// Tempo is only used by SetTempo.
	Tempo float64
}

func (c Command) String() string {
	if c.Kind == SetTempo {
		return fmt.Sprintf("%s %g", c.Kind, c.Tempo)
	}
	return c.Kind.String()
}

// ParseCommand parses the textual form produced by Command.String.
func ParseCommand(s string) (Command, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty", ErrUnknownCommand)
	}
	for _, kind := range []CommandKind{Start, Resume, Pause, Reset} {
		if fields[0] == kind.String() {
			if len(fields) != 1 {
				return Command{}, fmt.Errorf("%s takes no arguments", kind)
			}
			return Command{Kind: kind}, nil
		}
	}
	if fields[0] != SetTempo.String() {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
	}
	if len(fields) != 2 {
		return Command{}, fmt.Errorf("%s takes exactly one argument", SetTempo)
	}
	bpm, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Command{}, fmt.Errorf("parse tempo %q: %w", fields[1], err)
	}
	if !timeline.ValidTempo(bpm) {
		return Command{}, fmt.Errorf("%w: %v", timeline.ErrInvalidTempo, bpm)
	}
	return Command{Kind: SetTempo, Tempo: bpm}, nil
}

// Apply executes the command on the engine and returns the resulting state.
func (c Command) Apply(e *timesync.Engine) timeline.State {
	switch c.Kind {
	case Start:
		return e.Start()
	case Resume:
		return e.Resume()
	case Pause:
		return e.Pause()
	case Reset:
		return e.Reset()
	case SetTempo:
		return e.SetTempo(c.Tempo)
	}
	return e.State()
}
