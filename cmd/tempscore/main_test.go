package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/tempscore/internal/cli"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error", err: nil, want: 0},
		{name: "generic error", err: errors.New("boom"), want: 1},
		{name: "exit error", err: &cli.ExitError{ExitCode: cli.ExitInvalidData, Reason: "invalid"}, want: 2},
		{
			name: "wrapped exit error",
			err:  fmt.Errorf("outer: %w", &cli.ExitError{ExitCode: 42, Reason: "wrapped"}),
			want: 42,
		},
		{
			name: "joined exit error",
			err:  errors.Join(errors.New("outer"), &cli.ExitError{ExitCode: 3, Reason: "joined"}),
			want: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestRootCommand(t *testing.T) {
	root := cli.NewRootCmd(version)
	assert.Equal(t, "tempscore", root.Use)
	assert.Equal(t, version, root.Version)
}
