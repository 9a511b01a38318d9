package forth

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type evalCase struct {
	name  string
	lines []string
	want  []int
	err   error
}

func runCases(t *testing.T, cases []evalCase) {
	t.Helper()
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			f := New()
			var err error
			for i, line := range tt.lines {
				err = f.Eval(line)
				if i < len(tt.lines)-1 {
					require.NoError(t, err, "line %q", line)
				}
			}
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Stack())
		})
	}
}

func TestParsingAndNumbers(t *testing.T) {
	runCases(t, []evalCase{
		{name: "numbers are pushed", lines: []string{"1 2 3 4 5"}, want: []int{1, 2, 3, 4, 5}},
		{name: "negative numbers", lines: []string{"-1 -2 -3 -4 -5"}, want: []int{-1, -2, -3, -4, -5}},
	})
}

func TestArithmetic(t *testing.T) {
	runCases(t, []evalCase{
		{name: "add", lines: []string{"1 2 +"}, want: []int{3}},
		{name: "add empty", lines: []string{"+"}, err: ErrStackUnderflow},
		{name: "add one value", lines: []string{"1 +"}, err: ErrStackUnderflow},
		{name: "add more than two", lines: []string{"1 2 3 +"}, want: []int{1, 5}},
		{name: "subtract", lines: []string{"3 4 -"}, want: []int{-1}},
		{name: "subtract empty", lines: []string{"-"}, err: ErrStackUnderflow},
		{name: "subtract one value", lines: []string{"1 -"}, err: ErrStackUnderflow},
		{name: "subtract more than two", lines: []string{"1 12 3 -"}, want: []int{1, 9}},
		{name: "multiply", lines: []string{"2 4 *"}, want: []int{8}},
		{name: "multiply empty", lines: []string{"*"}, err: ErrStackUnderflow},
		{name: "multiply one value", lines: []string{"1 *"}, err: ErrStackUnderflow},
		{name: "multiply more than two", lines: []string{"1 2 3 *"}, want: []int{1, 6}},
		{name: "divide", lines: []string{"12 3 /"}, want: []int{4}},
		{name: "integer division", lines: []string{"8 3 /"}, want: []int{2}},
		{name: "divide by zero", lines: []string{"4 0 /"}, err: ErrDivisionByZero},
		{name: "divide empty", lines: []string{"/"}, err: ErrStackUnderflow},
		{name: "divide one value", lines: []string{"1 /"}, err: ErrStackUnderflow},
		{name: "divide more than two", lines: []string{"1 12 3 /"}, want: []int{1, 4}},
		{name: "add and subtract", lines: []string{"1 2 + 4 -"}, want: []int{-1}},
		{name: "multiply and divide", lines: []string{"2 4 * 3 /"}, want: []int{2}},
		{name: "multiply and add", lines: []string{"1 3 4 * +"}, want: []int{13}},
		{name: "add and multiply", lines: []string{"1 3 4 + *"}, want: []int{7}},
	})
}

func TestArithmeticProperties(t *testing.T) {
	pairs := [][2]int{{0, 0}, {1, 2}, {-5, 3}, {100, -7}, {-8, -9}, {1 << 20, 3}}
	for _, p := range pairs {
		a, b := p[0], p[1]
		t.Run(fmt.Sprintf("%d_%d", a, b), func(t *testing.T) {
			f := New()
			require.NoError(t, f.Eval(fmt.Sprintf("%d %d +", a, b)))
			assert.Equal(t, []int{a + b}, f.Stack())
			require.NoError(t, f.Eval(fmt.Sprintf("%d %d -", a, b)))
			assert.Equal(t, []int{a - b}, f.Stack())
			require.NoError(t, f.Eval(fmt.Sprintf("%d %d *", a, b)))
			assert.Equal(t, []int{a * b}, f.Stack())
			require.ErrorIs(t, f.Eval(fmt.Sprintf("%d 0 /", a)), ErrDivisionByZero)
		})
	}
}

func TestStackManipulation(t *testing.T) {
	runCases(t, []evalCase{
		{name: "dup", lines: []string{"1 dup"}, want: []int{1, 1}},
		{name: "dup top", lines: []string{"1 2 dup"}, want: []int{1, 2, 2}},
		{name: "dup empty", lines: []string{"dup"}, err: ErrStackUnderflow},
		{name: "drop only", lines: []string{"1 drop"}, want: []int{}},
		{name: "drop not only", lines: []string{"1 2 drop"}, want: []int{1}},
		{name: "drop empty", lines: []string{"drop"}, err: ErrStackUnderflow},
		{name: "swap only", lines: []string{"1 2 swap"}, want: []int{2, 1}},
		{name: "swap not only", lines: []string{"1 2 3 swap"}, want: []int{1, 3, 2}},
		{name: "swap empty", lines: []string{"swap"}, err: ErrStackUnderflow},
		{name: "swap one value", lines: []string{"1 swap"}, err: ErrStackUnderflow},
		{name: "over two", lines: []string{"1 2 over"}, want: []int{1, 2, 1}},
		{name: "over more", lines: []string{"1 2 3 over"}, want: []int{1, 2, 3, 2}},
		{name: "over empty", lines: []string{"over"}, err: ErrStackUnderflow},
		{name: "over one value", lines: []string{"1 over"}, err: ErrStackUnderflow},
	})
}

func TestUserDefinedWords(t *testing.T) {
	runCases(t, []evalCase{
		{name: "built-in words", lines: []string{": dup-twice dup dup ;", "1 dup-twice"}, want: []int{1, 1, 1}},
		{name: "right order", lines: []string{": countup 1 2 3 ;", "countup"}, want: []int{1, 2, 3}},
		{name: "override user word", lines: []string{": foo dup ;", ": foo dup dup ;", "1 foo"}, want: []int{1, 1, 1}},
		{name: "override built-in word", lines: []string{": swap dup ;", "1 swap"}, want: []int{1, 1}},
		{name: "override operator", lines: []string{": + * ;", "3 4 +"}, want: []int{12}},
		{name: "same name different words", lines: []string{": foo 5 ;", ": bar foo ;", ": foo 6 ;", "bar foo"}, want: []int{5, 6}},
		{name: "uses word with same name", lines: []string{": foo 10 ;", ": foo foo 1 + ;", "foo"}, want: []int{11}},
		{name: "non-negative number name", lines: []string{": 1 2 ;"}, err: ErrInvalidWord},
		{name: "negative number name", lines: []string{": -1 2 ;"}, err: ErrInvalidWord},
		{name: "empty body", lines: []string{": foo ;"}, err: ErrInvalidWord},
		{name: "no name", lines: []string{": ;"}, err: ErrInvalidWord},
		{name: "unknown word", lines: []string{"foo"}, err: ErrUnknownWord},
		{name: "late binding is not supported", lines: []string{": foo bar ;", ": bar 1 ;", "foo"}, err: ErrUnknownWord},
		{name: "nested words", lines: []string{": a 1 ;", ": b a a + ;", ": c b b * ;", "c"}, want: []int{4}},
	})
}

func TestCaseInsensitivity(t *testing.T) {
	runCases(t, []evalCase{
		{name: "dup", lines: []string{"1 DUP Dup dup"}, want: []int{1, 1, 1, 1}},
		{name: "drop", lines: []string{"1 2 3 4 DROP Drop drop"}, want: []int{1}},
		{name: "swap", lines: []string{"1 2 SWAP 3 Swap 4 swap"}, want: []int{2, 3, 4, 1}},
		{name: "over", lines: []string{"1 2 OVER Over over"}, want: []int{1, 2, 1, 2, 1}},
		{name: "user words", lines: []string{": foo dup ;", "1 FOO Foo foo"}, want: []int{1, 1, 1, 1}},
		{name: "definitions", lines: []string{": SWAP DUP Dup dup ;", "1 swap"}, want: []int{1, 1, 1, 1}},
	})
}

func TestDefinitionsAreLocal(t *testing.T) {
	f := New()
	require.NoError(t, f.Eval(": + - ;"))
	require.NoError(t, f.Eval("1 1 +"))
	assert.Equal(t, []int{0}, f.Stack())

	g := New()
	require.NoError(t, g.Eval("1 1 +"))
	assert.Equal(t, []int{2}, g.Stack())
	assert.NotEqual(t, f.ID, g.ID)
}

func TestFailedEvalKeepsCommittedState(t *testing.T) {
	f := New()
	require.NoError(t, f.Eval("1 2 3"))
	require.ErrorIs(t, f.Eval("4 5 0 /"), ErrDivisionByZero)
	assert.Equal(t, []int{1, 2, 3}, f.Stack())
	require.ErrorIs(t, f.Eval("7 nope"), ErrUnknownWord)
	assert.Equal(t, []int{1, 2, 3}, f.Stack())

	require.ErrorIs(t, f.Eval(": 5 6 ;"), ErrInvalidWord)
	assert.Empty(t, f.Words())
	assert.Equal(t, []int{1, 2, 3}, f.Stack())
}

func TestStackResetsPerLine(t *testing.T) {
	f := New()
	require.NoError(t, f.Eval("1 2"))
	require.ErrorIs(t, f.Eval("+"), ErrStackUnderflow)
	assert.Equal(t, []int{1, 2}, f.Stack())
	require.NoError(t, f.Eval("5"))
	assert.Equal(t, []int{5}, f.Stack())
}

func TestCarryStack(t *testing.T) {
	f := New(WithCarryStack(true))
	require.NoError(t, f.Eval("1 2"))
	require.NoError(t, f.Eval("+"))
	assert.Equal(t, []int{3}, f.Stack())
	require.ErrorIs(t, f.Eval("drop drop"), ErrStackUnderflow)
	assert.Equal(t, []int{3}, f.Stack())
}

func TestStackIsACopy(t *testing.T) {
	f := New()
	require.NoError(t, f.Eval("1 2"))
	s := f.Stack()
	s[0] = 99
	assert.Equal(t, []int{1, 2}, f.Stack())
}

func TestDefinitionIntrospection(t *testing.T) {
	f := New()
	require.NoError(t, f.Eval(": sq dup * ;"))
	require.NoError(t, f.Eval(": quad sq sq ;"))
	assert.Equal(t, []string{"quad", "sq"}, f.Words())

	toks, ok := f.Definition("QUAD")
	require.True(t, ok)
	assert.Equal(t, []string{"dup", "*", "dup", "*"}, toks)

	_, ok = f.Definition("missing")
	assert.False(t, ok)
}

func TestSnapshotRestore(t *testing.T) {
	f := New()
	require.NoError(t, f.Eval(": foo 10 ;"))
	require.NoError(t, f.Eval("1 2"))
	snap := f.Snapshot()

	require.NoError(t, f.Eval(": foo 20 ;"))
	require.NoError(t, f.Eval("foo"))
	assert.Equal(t, []int{20}, f.Stack())

	f.Restore(snap)
	assert.Equal(t, []int{1, 2}, f.Stack())
	require.NoError(t, f.Eval("foo"))
	assert.Equal(t, []int{10}, f.Stack())

	g := New()
	g.Restore(snap)
	assert.Equal(t, []string{"foo"}, g.Words())
}

func TestLeadingWhitespaceDefinition(t *testing.T) {
	f := New()
	require.NoError(t, f.Eval("   : foo 3 ;  "))
	require.NoError(t, f.Eval("foo"))
	assert.Equal(t, []int{3}, f.Stack())
}
