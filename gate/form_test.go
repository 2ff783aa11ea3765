package gate_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StellaShiina/julebord/access"
	"github.com/StellaShiina/julebord/gate"
	"github.com/StellaShiina/julebord/store"
)

type countingGranter struct {
	calls int
	err   error
}

func (g *countingGranter) GrantAccess(context.Context) error {
	g.calls++
	return g.err
}

func newForm(g gate.Granter, q *gate.Queue) *gate.Form {
	return gate.NewForm(access.NewSecret("JUL2024"), g, q)
}

func TestSetCodeUpperCases(t *testing.T) {
	f := newForm(&countingGranter{}, gate.NewQueue())
	f.SetCode("jul2024")
	assert.Equal(t, "JUL2024", f.State().Code)
}

func TestSubmitLowercaseCodeGrants(t *testing.T) {
	g := &countingGranter{}
	q := gate.NewQueue()
	f := newForm(g, q)
	f.SetCode("jul2024")

	granted, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, 1, g.calls)
	assert.Equal(t, gate.State{Code: "JUL2024"}, f.State())
	assert.Zero(t, q.Len())
}

func TestSubmitWrongCodeRaisesAndClearsFlags(t *testing.T) {
	g := &countingGranter{}
	q := gate.NewQueue()
	f := newForm(g, q)
	f.SetCode("wrongcode")

	granted, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.False(t, granted)
	assert.Zero(t, g.calls)

	st := f.State()
	assert.True(t, st.Error)
	assert.True(t, st.Shaking)
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 3 * time.Second}, q.Delays())

	q.Advance(499 * time.Millisecond)
	assert.True(t, f.State().Shaking)

	q.Advance(time.Millisecond)
	st = f.State()
	assert.False(t, st.Shaking)
	assert.True(t, st.Error)

	q.Advance(2500 * time.Millisecond)
	st = f.State()
	assert.False(t, st.Shaking)
	assert.False(t, st.Error)
	assert.Zero(t, g.calls)
	assert.Equal(t, "WRONGCODE", st.Code)
}

func TestSubmitBlankIsDisabled(t *testing.T) {
	for _, code := range []string{"", " ", "\t\n  ", "\uFEFF", " \uFEFF\u00a0"} {
		g := &countingGranter{}
		q := gate.NewQueue()
		f := newForm(g, q)
		f.SetCode(code)

		assert.False(t, f.CanSubmit())
		granted, err := f.Submit(context.Background())
		assert.ErrorIs(t, err, gate.ErrSubmitDisabled)
		assert.False(t, granted)
		assert.False(t, f.State().Error)
		assert.Zero(t, q.Len())
		assert.Zero(t, g.calls)
	}
}

func TestResubmitDoesNotCancelEarlierResets(t *testing.T) {
	q := gate.NewQueue()
	f := newForm(&countingGranter{}, q)
	f.SetCode("nope")

	_, err := f.Submit(context.Background())
	require.NoError(t, err)
	q.Advance(2 * time.Second)
	_, err = f.Submit(context.Background())
	require.NoError(t, err)

	// the first error reset fires 3s after the first submit
	q.Advance(time.Second)
	assert.False(t, f.State().Error)

	q.Advance(2 * time.Second)
	assert.False(t, f.State().Error)
	assert.Zero(t, q.Len())
}

func TestCustomDurations(t *testing.T) {
	q := gate.NewQueue()
	f := gate.NewForm(access.NewSecret(""), &countingGranter{}, q, gate.WithDurations(100*time.Millisecond, time.Second))
	f.SetCode("x")
	_, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, time.Second}, q.Delays())
}

func TestGrantErrorIsReturned(t *testing.T) {
	boom := errors.New("disk full")
	f := newForm(&countingGranter{err: boom}, gate.NewQueue())
	f.SetCode("JUL2024")

	granted, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, granted)
}

func TestFormDrivesController(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	ctrl := access.NewController(s)
	_, err := ctrl.Initialize(ctx)
	require.NoError(t, err)

	f := newForm(ctrl, gate.NewQueue())
	f.SetCode("Jul2024")
	granted, err := f.Submit(ctx)
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, access.Protected, ctrl.State())

	value, ok, err := s.Read(ctx, access.DefaultFlagName)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", value)
}

func TestTimerSchedulerClearsFlags(t *testing.T) {
	f := gate.NewForm(access.NewSecret(""), &countingGranter{}, gate.TimerScheduler{},
		gate.WithDurations(50*time.Millisecond, 100*time.Millisecond))
	f.SetCode("wrong")
	_, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, f.State().Shaking)

	assert.Eventually(t, func() bool {
		st := f.State()
		return !st.Shaking && !st.Error
	}, time.Second, 5*time.Millisecond)
}

func TestTrimMatchesBrowser(t *testing.T) {
	assert.Equal(t, "", gate.Trim("\uFEFF"))
	assert.Equal(t, "JUL", gate.Trim("\u00a0\uFEFF JUL\n"))
	assert.Equal(t, "J U L", gate.Trim("J U L"))
}
