package observe_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/bus"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/observe"
)

func prior(n int) []attempt.PriorAttempt {
	out := make([]attempt.PriorAttempt, n)
	for i := range out {
		out[i] = attempt.PriorAttempt{DisplayText: "1.00", AttemptID: string(rune('a' + i))}
	}
	return out
}

func TestScreens(t *testing.T) {
	t.Parallel()
	b := bus.New()
	s := observe.NewScreens(b)
	require.Equal(t, observe.ScreenTimer, s.Current())

	b.Publish(attempt.EventArmed, nil)
	require.Equal(t, observe.ScreenTimer, s.Current())
	b.Publish(attempt.EventInspectionStarted, attempt.InspectionStarted{DurationSeconds: 15})
	require.Equal(t, observe.ScreenFocus, s.Current())
	b.Publish(attempt.EventCancelled, nil)
	require.Equal(t, observe.ScreenTimer, s.Current())

	b.Publish(attempt.EventRunStarted, nil)
	require.Equal(t, observe.ScreenFocus, s.Current())
	b.Publish(attempt.EventStopped, attempt.Stopped{})
	require.Equal(t, observe.ScreenTimer, s.Current())

	b.Publish(attempt.EventContextRefreshed, attempt.Snapshot{IsContextComplete: true})
	require.Equal(t, observe.ScreenSummary, s.Current())
	b.Publish(attempt.EventContextRefreshed, attempt.Snapshot{})
	require.Equal(t, observe.ScreenTimer, s.Current())
}

func TestCards_HighlightNewest(t *testing.T) {
	t.Parallel()
	b := bus.New()
	c := observe.NewCards(b, 5)

	b.Publish(attempt.EventContextRefreshed, attempt.Snapshot{PriorAttempts: prior(0)})
	require.Equal(t, -1, c.Highlighted())
	require.Equal(t, 0, c.Active())

	b.Publish(attempt.EventContextRefreshed, attempt.Snapshot{PriorAttempts: prior(2)})
	require.Equal(t, 1, c.Highlighted())
	require.Equal(t, 2, c.Active())

	cards := c.Cards()
	require.Len(t, cards, 5)
	require.True(t, cards[1].Highlighted)
	require.True(t, cards[1].Recorded)
	require.True(t, cards[2].Active)
	require.False(t, cards[3].Recorded)

	b.Publish(attempt.EventArmed, nil)
	require.Equal(t, -1, c.Highlighted())
}

func TestCards_Badges(t *testing.T) {
	t.Parallel()
	b := bus.New()
	c := observe.NewCards(b, 2)

	b.Publish(attempt.EventContextRefreshed, attempt.Snapshot{
		IsContextComplete: true,
		PriorAttempts: []attempt.PriorAttempt{
			{DisplayText: "DNF", IsDNF: true},
			{DisplayText: "12.34+", IsPlusTwo: true},
		},
	})

	cards := c.Cards()
	require.True(t, cards[0].DNF)
	require.True(t, cards[1].PlusTwo)
	require.Equal(t, -1, c.Active())
}

func TestNotices(t *testing.T) {
	t.Parallel()
	b := bus.New()
	n := observe.NewNotices(b)

	b.Publish(attempt.EventSyncFailed, attempt.SyncFailure{
		Message: "database is locked",
		Result:  attempt.Result{ScrambleID: "s1"},
	})
	require.Equal(t, "database is locked", n.Message())
	require.True(t, n.Resubmittable())

	b.Publish(attempt.EventContextRefreshed, attempt.Snapshot{})
	require.Empty(t, n.Message())
	require.False(t, n.Resubmittable())
}
