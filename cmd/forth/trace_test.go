package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timewinder-dev/forth"
)

func TestTraceLine(t *testing.T) {
	fth := forth.New()
	require.NoError(t, fth.Eval(": sq dup * ;"))

	var out bytes.Buffer
	require.NoError(t, traceLine(&out, fth, "3 sq", false))
	got := out.String()
	assert.Contains(t, got, "NextOp: PUSH 3")
	assert.Contains(t, got, "Stack: 3 3")
	assert.Contains(t, got, "Stack: 9\nEnd of instructions")
	assert.True(t, strings.HasSuffix(got, "Finished\n"))
	assert.Empty(t, fth.Stack(), "tracing never commits")
}

func TestTraceLine_Carry(t *testing.T) {
	fth := forth.New(forth.WithCarryStack(true))
	require.NoError(t, fth.Eval("2 3"))

	var out bytes.Buffer
	require.NoError(t, traceLine(&out, fth, "+", true))
	assert.Contains(t, out.String(), "Stack: 2 3\nNextOp: ADD")
	assert.Contains(t, out.String(), "Stack: 5\nEnd of instructions")

	out.Reset()
	err := traceLine(&out, fth, "+", false)
	assert.ErrorIs(t, err, forth.ErrStackUnderflow)
	assert.Equal(t, []int{2, 3}, fth.Stack())
}

func TestTraceLine_Errors(t *testing.T) {
	var out bytes.Buffer
	err := traceLine(&out, forth.New(), "1 0 /", false)
	assert.ErrorIs(t, err, forth.ErrDivisionByZero)

	err = traceLine(&out, forth.New(), ": foo 1 ;", false)
	assert.ErrorIs(t, err, forth.ErrInvalidWord)

	err = traceLine(&out, forth.New(), "1 nope", false)
	assert.ErrorIs(t, err, forth.ErrUnknownWord)
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.fth")
	require.NoError(t, os.WriteFile(path, []byte("1 2\n3 4 +\n"), 0o644))

	stack, err := runFile(path, false)
	require.NoError(t, err)
	assert.Equal(t, []int{7}, stack)

	stack, err = runFile(path, true)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 7}, stack)

	_, err = runFile(filepath.Join(t.TempDir(), "missing.fth"), false)
	assert.Error(t, err)
}

func TestRunFiles_KeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, src := range []string{"1 2 +", "foo", "2 3 *", "4 dup"} {
		p := filepath.Join(dir, string(rune('a'+i))+".fth")
		require.NoError(t, os.WriteFile(p, []byte(src+"\n"), 0o644))
		paths = append(paths, p)
	}

	got := runFiles(paths, false)
	require.Len(t, got, 4)
	assert.Equal(t, []int{3}, got[0].stack)
	assert.ErrorIs(t, got[1].err, forth.ErrUnknownWord)
	assert.Equal(t, []int{6}, got[2].stack)
	assert.Equal(t, []int{4, 4}, got[3].stack)
}
