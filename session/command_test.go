package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tempomesh/go-tempomesh/timeline"
)

func TestParseCommand(t *testing.T) {
	for _, tc := range []struct {
		in       string
		expected Command
		err      error
	}{
		{in: "start", expected: Command{Kind: Start}},
		{in: "resume", expected: Command{Kind: Resume}},
		{in: " pause ", expected: Command{Kind: Pause}},
		{in: "reset", expected: Command{Kind: Reset}},
		{in: "tempo 92.5", expected: Command{Kind: SetTempo, Tempo: 92.5}},
		{in: "tempo 0", err: timeline.ErrInvalidTempo},
		{in: "", err: ErrUnknownCommand},
		{in: "seek 3", err: ErrUnknownCommand},
	} {
		t.Run(tc.in, func(t *testing.T) {
			cmd, err := ParseCommand(tc.in)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, cmd)
		})
	}
}

func TestParseCommandArguments(t *testing.T) {
	for _, in := range []string{"start now", "tempo", "tempo 1 2", "tempo fast"} {
		_, err := ParseCommand(in)
		require.Error(t, err, in)
	}
}

func TestCommandStringRoundTrip(t *testing.T) {
	for _, cmd := range []Command{
		{Kind: Start},
		{Kind: Resume},
		{Kind: Pause},
		{Kind: Reset},
		{Kind: SetTempo, Tempo: 133.25},
	} {
		parsed, err := ParseCommand(cmd.String())
		require.NoError(t, err)
		require.Equal(t, cmd, parsed)
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.ErrorIs(t, Config{PublishRate: 0, PublishBurst: 1}.Validate(), ErrInvalidConfig)
	require.ErrorIs(t, Config{PublishRate: 1, PublishBurst: 0}.Validate(), ErrInvalidConfig)
}
