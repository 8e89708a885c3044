package simulator

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tempomesh/go-tempomesh/session"
)

// Step is a command issued by one client at an offset from the start of the simulation.
type Step struct {
	At      time.Duration
	Client  int
	Command session.Command
}

func (s Step) String() string {
	return fmt.Sprintf("%v %d %s", s.At, s.Client, s.Command)
}

// DefaultScript starts playback from the first client.
func DefaultScript() []Step {
	return []Step{{Client: 0, Command: session.Command{Kind: session.Start}}}
}

// ParseScript reads one step per line in the form
//
//	<at> <client> <command> [arg]
//
// e.g. "1.5s 2 tempo 96". Empty lines and lines starting with # are skipped.
// Steps are returned ordered by time, keeping the file order for equal times.
func ParseScript(r io.Reader) ([]Step, error) {
	var steps []Step
	scanner := bufio.NewScanner(r)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		step, err := parseStep(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		steps = append(steps, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].At < steps[j].At
	})
	return steps, nil
}

func parseStep(line string) (Step, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return Step{}, fmt.Errorf("expected <at> <client> <command> [arg], got %q", line)
	}
	at, err := time.ParseDuration(fields[0])
	if err != nil {
		return Step{}, fmt.Errorf("parse time: %w", err)
	}
	if at < 0 {
		return Step{}, fmt.Errorf("negative time %v", at)
	}
	client, err := strconv.Atoi(fields[1])
	if err != nil || client < 0 {
		return Step{}, fmt.Errorf("invalid client index %q", fields[1])
	}
	cmd, err := session.ParseCommand(strings.Join(fields[2:], " "))
	if err != nil {
		return Step{}, err
	}
	return Step{At: at, Client: client, Command: cmd}, nil
}
