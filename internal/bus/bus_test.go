package bus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPublish_RegistrationOrder(t *testing.T) {
	t.Parallel()

	b := New()
	var got []string
	b.Subscribe("tick", func(any) { got = append(got, "first") })
	b.Subscribe("tick", func(any) { got = append(got, "second") })
	b.Subscribe("other", func(any) { got = append(got, "other") })

	b.Publish("tick", nil)

	require.Equal(t, []string{"first", "second"}, got)
}

func TestPublish_PayloadUnchanged(t *testing.T) {
	t.Parallel()

	type payload struct{ N int }
	b := New()
	var got any
	b.Subscribe("p", func(v any) { got = v })

	b.Publish("p", payload{N: 7})

	require.Equal(t, payload{N: 7}, got)
}

func TestPublish_NoSubscribers(t *testing.T) {
	t.Parallel()

	b := New()
	require.NotPanics(t, func() { b.Publish("nobody", 1) })
}

func TestPublish_HandlerPanicPropagates(t *testing.T) {
	t.Parallel()

	b := New()
	b.Subscribe("boom", func(any) { panic("defect") })

	require.PanicsWithValue(t, "defect", func() { b.Publish("boom", nil) })
}

func TestPublish_SubscribeDuringDelivery(t *testing.T) {
	t.Parallel()

	b := New()
	calls := 0
	b.Subscribe("e", func(any) {
		b.Subscribe("e", func(any) { calls++ })
	})

	b.Publish("e", nil)
	require.Equal(t, 0, calls, "late subscriber must not see the in-flight event")

	b.Publish("e", nil)
	require.Equal(t, 1, calls)
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()

	b := New()
	var got []int
	s1 := b.Subscribe("e", func(any) { got = append(got, 1) })
	b.Subscribe("e", func(any) { got = append(got, 2) })

	b.Unsubscribe(s1)
	b.Publish("e", nil)

	require.Equal(t, []int{2}, got)
	require.Equal(t, 1, b.Subscribers("e"))
	require.Equal(t, Name("e"), s1.Name())
}

func TestUnsubscribeAll(t *testing.T) {
	t.Parallel()

	b := New()
	called := false
	b.Subscribe("e", func(any) { called = true })
	b.Subscribe("e", func(any) { called = true })

	b.UnsubscribeAll("e")
	b.Publish("e", nil)

	require.False(t, called)
	require.Zero(t, b.Subscribers("e"))
}
