package daemon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/voyahchat/sitegen/internal/config"
)

func TestScheduler_AddSchedule(t *testing.T) {
	t.Run("returns job id for valid interval", func(t *testing.T) {
		s, err := NewScheduler()
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Stop() })

		id, err := s.AddSchedule(config.ScheduleConfig{Name: "nightly", Interval: "30m"}, func() {})
		require.NoError(t, err)
		require.NotEmpty(t, id)
	})

	t.Run("rejects unparseable interval", func(t *testing.T) {
		s, err := NewScheduler()
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Stop() })

		_, err = s.AddSchedule(config.ScheduleConfig{Name: "bad", Interval: "soonish"}, func() {})
		require.Error(t, err)
	})
}

func TestScheduler_RunsRegisteredJob(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })

	fired := make(chan struct{}, 4)
	_, err = s.AddSchedule(config.ScheduleConfig{Name: "tick", Interval: "25ms"}, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	require.NoError(t, err)

	s.Start()

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("scheduled job never ran")
	}
}
