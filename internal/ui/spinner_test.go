package ui

import (
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpinnerModel(t *testing.T) {
	m := NewSpinner()

	require.NotNil(t, m.Init(), "Init returns the tick command")
	assert.NotEmpty(t, m.View())

	// A tick advances the frame and schedules the next one
	updated, cmd := m.Update(spinner.TickMsg{Time: time.Now(), ID: 0})
	require.IsType(t, &SpinnerModel{}, updated)
	assert.NotNil(t, cmd)
}

func TestSimpleSpinnerStopsCleanly(t *testing.T) {
	// Under `go test` stdout is not a TTY, so Start renders nothing and Stop
	// must still return without blocking.
	s := NewSimpleSpinner("working...")
	s.Start()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
