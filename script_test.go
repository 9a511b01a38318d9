package forth

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalReader(t *testing.T) {
	src := `
\ squares
: sq dup * ;

3 sq
`
	f := New()
	require.NoError(t, f.EvalReader(strings.NewReader(src)))
	assert.Equal(t, []int{9}, f.Stack())
}

func TestEvalReaderLineError(t *testing.T) {
	src := "1 2 +\n\n  4 0 /  \n5"
	f := New()
	err := f.EvalReader(strings.NewReader(src))
	require.ErrorIs(t, err, ErrDivisionByZero)

	var le *LineError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 3, le.Line)
	assert.Equal(t, "4 0 /", le.Source)
	assert.Contains(t, le.Error(), "line 3")
	assert.Equal(t, []int{3}, f.Stack())
}

func TestIsComment(t *testing.T) {
	assert.True(t, IsComment(""))
	assert.True(t, IsComment("   "))
	assert.True(t, IsComment(`  \ note`))
	assert.False(t, IsComment("1 2 +"))
}

func TestEvalReaderLongLine(t *testing.T) {
	long := strings.Repeat("1 drop ", 12000) + "7"
	require.Greater(t, len(long), 64*1024)

	f := New()
	require.NoError(t, f.EvalReader(strings.NewReader("1\n"+long+"\n")))
	assert.Equal(t, []int{7}, f.Stack())

	g := New()
	err := g.EvalReader(strings.NewReader(long + " foo"))
	var le *LineError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 1, le.Line)
	assert.ErrorIs(t, err, ErrUnknownWord)
}

func TestReadLines(t *testing.T) {
	var got []string
	var nums []int
	err := ReadLines(strings.NewReader("a\r\n\nb\nc"), func(n int, line string) error {
		nums = append(nums, n)
		got = append(got, line)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "", "b", "c"}, got)
	assert.Equal(t, []int{1, 2, 3, 4}, nums)

	got = nil
	err = ReadLines(strings.NewReader("a\nb\n"), func(n int, line string) error {
		got = append(got, line)
		return ErrStopLines
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
}
