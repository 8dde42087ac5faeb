package input_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/input"
)

type fakeTarget struct {
	live    bool
	calls   []string
	onPress func()
}

func (f *fakeTarget) ActivatePress() {
	f.calls = append(f.calls, "press")
	if f.onPress != nil {
		f.onPress()
	}
}
func (f *fakeTarget) ActivateRelease() { f.calls = append(f.calls, "release") }
func (f *fakeTarget) Abort()           { f.calls = append(f.calls, "abort") }
func (f *fakeTarget) Live() bool       { return f.live }

func newCoordinator() (*input.Coordinator, *fakeTarget) {
	c := input.NewCoordinator("space")
	tgt := &fakeTarget{}
	c.Bind(tgt)
	return c, tgt
}

func TestCoordinator_DisabledForwardsNothing(t *testing.T) {
	t.Parallel()
	c, tgt := newCoordinator()

	c.Press(input.SourceKey)
	require.True(t, c.ActivationHeld())
	c.Release(input.SourceKey)

	require.Empty(t, tgt.calls)
	require.False(t, c.ActivationHeld())
}

func TestCoordinator_PressRelease(t *testing.T) {
	t.Parallel()
	c, tgt := newCoordinator()
	c.Enable()

	c.Press(input.SourceKey)
	c.Press(input.SourceKey)
	c.Release(input.SourceKey)

	require.Equal(t, []string{"press", "release"}, tgt.calls)
}

func TestCoordinator_TwoSourcesOneLogicalPair(t *testing.T) {
	t.Parallel()
	c, tgt := newCoordinator()
	c.Enable()

	c.Press(input.SourceKey)
	c.Press(input.SourceTouch)
	c.Release(input.SourceKey)
	require.Equal(t, []string{"press"}, tgt.calls, "touch still held")

	c.Release(input.SourceTouch)
	require.Equal(t, []string{"press", "release"}, tgt.calls)
}

func TestCoordinator_HeldBeforeEnableDoesNotPress(t *testing.T) {
	t.Parallel()
	c, tgt := newCoordinator()

	c.Press(input.SourceTouch)
	c.Enable()
	c.Press(input.SourceKey)
	c.Release(input.SourceTouch)
	c.Release(input.SourceKey)

	require.Empty(t, tgt.calls)

	c.Press(input.SourceKey)
	require.Equal(t, []string{"press"}, tgt.calls)
}

func TestCoordinator_DisableDuringPressDropsRelease(t *testing.T) {
	t.Parallel()
	c, tgt := newCoordinator()
	tgt.onPress = c.Disable
	c.Enable()

	c.Press(input.SourceKey)
	c.Enable()
	c.Release(input.SourceKey)

	require.Equal(t, []string{"press"}, tgt.calls)
}

func TestCoordinator_OtherKey(t *testing.T) {
	t.Parallel()
	c, tgt := newCoordinator()
	c.Enable()

	require.False(t, c.OtherKey("a"), "not live")
	tgt.live = true
	require.False(t, c.OtherKey("space"))
	require.True(t, c.OtherKey("a"))

	require.Equal(t, []string{"abort"}, tgt.calls)
}

func TestCoordinator_BindCancelOnce(t *testing.T) {
	t.Parallel()
	c, tgt := newCoordinator()
	first := input.NewKeyBinding("ctrl+x")
	second := input.NewKeyBinding("ctrl+y")

	c.BindCancel(first)
	c.BindCancel(second)

	tgt.live = true
	require.True(t, first.Handle("ctrl+x"))
	require.False(t, second.Handle("ctrl+y"))
	require.False(t, first.Handle("q"))
	require.Equal(t, []string{"abort"}, tgt.calls)
}
