package command

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []Args
}

func (r *recorder) handle(_ context.Context, args Args) error {
	r.calls = append(r.calls, args)
	return nil
}

func newDispatcher(t *testing.T) (*Dispatcher, *bytes.Buffer, *recorder, *recorder) {
	t.Helper()
	out := &bytes.Buffer{}
	d := NewDispatcher(out)
	save, back := &recorder{}, &recorder{}
	require.NoError(t, d.Register([]string{"save", "s"}, save.handle, "Save the conversation", 1, "/save [filename]"))
	require.NoError(t, d.Register([]string{"back", "b"}, back.handle, "Undo exchanges", 1, ""))
	return d, out, save, back
}

func TestResolveAliases(t *testing.T) {
	d, _, _, _ := newDispatcher(t)

	byName, ok := d.Resolve("save")
	require.True(t, ok)
	byAlias, ok := d.Resolve("s")
	require.True(t, ok)
	assert.Same(t, byName, byAlias)
	assert.Equal(t, "save", byAlias.Name())

	_, ok = d.Resolve("bogus")
	assert.False(t, ok)
	_, ok = d.Resolve("SAVE")
	assert.False(t, ok)
}

func TestResolveFirstRegisteredWins(t *testing.T) {
	d := NewDispatcher(&bytes.Buffer{})
	first, second := &recorder{}, &recorder{}
	require.NoError(t, d.Register([]string{"x"}, first.handle, "first", 0, ""))
	require.NoError(t, d.Register([]string{"y", "x"}, second.handle, "second", 0, ""))

	require.NoError(t, d.Dispatch(context.Background(), "x"))
	assert.Len(t, first.calls, 1)
	assert.Empty(t, second.calls)
}

func TestRegisterValidation(t *testing.T) {
	d := NewDispatcher(&bytes.Buffer{})
	noop := func(context.Context, Args) error { return nil }

	assert.Error(t, d.Register(nil, noop, "", 0, ""))
	assert.Error(t, d.Register([]string{"ok", ""}, noop, "", 0, ""))
	assert.Error(t, d.Register([]string{"ok"}, nil, "", 0, ""))
	assert.Empty(t, d.Commands())
}

func TestDispatchTruncatesArgs(t *testing.T) {
	d, _, save, _ := newDispatcher(t)
	ctx := context.Background()

	require.NoError(t, d.Dispatch(ctx, "s"))
	require.NoError(t, d.Dispatch(ctx, "save notes"))
	require.NoError(t, d.Dispatch(ctx, "save   notes  extra more"))

	require.Len(t, save.calls, 3)
	assert.Nil(t, save.calls[0])
	assert.Equal(t, "", save.calls[0].At(0))
	assert.Equal(t, Args{"notes"}, save.calls[1])
	assert.Equal(t, Args{"notes"}, save.calls[2])
}

func TestDispatchZeroArity(t *testing.T) {
	d := NewDispatcher(&bytes.Buffer{})
	r := &recorder{}
	require.NoError(t, d.Register([]string{"reset"}, r.handle, "", 0, ""))

	require.NoError(t, d.Dispatch(context.Background(), "reset now please"))
	require.Len(t, r.calls, 1)
	assert.Empty(t, r.calls[0])
}

func TestDispatchUnknown(t *testing.T) {
	d, out, save, back := newDispatcher(t)
	require.NoError(t, d.Dispatch(context.Background(), "bogus arg"))
	assert.Equal(t, "Unrecognized command: bogus\n", out.String())
	assert.Empty(t, save.calls)
	assert.Empty(t, back.calls)

	require.NoError(t, d.Dispatch(context.Background(), "   "))
}

func TestDispatchReturnsHandlerError(t *testing.T) {
	d := NewDispatcher(&bytes.Buffer{})
	boom := fmt.Errorf("boom")
	require.NoError(t, d.Register([]string{"fail"}, func(context.Context, Args) error { return boom }, "", 0, ""))
	assert.ErrorIs(t, d.Dispatch(context.Background(), "fail"), boom)
}

func TestArgs(t *testing.T) {
	a := Args{"file", "-y"}
	assert.Equal(t, "file", a.At(0))
	assert.Equal(t, "-y", a.At(1))
	assert.Equal(t, "", a.At(2))
	assert.Equal(t, "", a.At(-1))
	assert.True(t, a.Has("-y"))
	assert.False(t, a.Has("-n"))
}

func TestDescribeAll(t *testing.T) {
	d, out, _, _ := newDispatcher(t)
	d.DescribeAll()

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "save (s)")
	assert.Contains(t, lines[0], "Save the conversation")
	assert.Contains(t, lines[1], "usage: /save [filename]")
	assert.Contains(t, lines[2], "back (b)")
}
