package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timewinder-dev/forth/model"
)

func runCheck(t *testing.T, path string) *model.Result {
	t.Helper()
	spec, err := model.LoadSpecFromFile(path)
	require.NoError(t, err, "Failed to load check file")
	exec, err := spec.BuildExecutor()
	require.NoError(t, err, "Failed to build executor")
	result, err := exec.Run()
	require.NoError(t, err, "Failed to run check")
	return result
}

func TestEventuallyAlways_SimpleSuccess(t *testing.T) {
	result := runCheck(t, "../testdata/temporal/simple_success.toml")

	assert.True(t, result.Success, "Expected check to succeed")
	assert.Equal(t, 0, len(result.Violations))
	assert.Equal(t, []int{0}, result.FinalStack)
	// initial, 3, 3 with dec, 2, 1, 0
	assert.Equal(t, 6, result.Statistics.DistinctStates)
}

func TestEventuallyAlways_SimpleFailure(t *testing.T) {
	result := runCheck(t, "../testdata/temporal/simple_fail.toml")

	assert.False(t, result.Success, "Expected check to fail")
	require.Len(t, result.Violations, 1)
	v := result.Violations[0]
	assert.Equal(t, "stays_high", v.PropertyName)
	assert.Equal(t, "EventuallyAlways", v.PropertyType)
	assert.Contains(t, v.Message, "does not hold at the end")
	assert.Equal(t, 6, v.Line)
}

func TestAlways_RedefinitionDoesNotReachOldWords(t *testing.T) {
	// dec2 captured "1 - 1 -" before dec was redefined
	result := runCheck(t, "../testdata/temporal/never_negative.yaml")

	assert.False(t, result.Success)
	require.Len(t, result.Violations, 1)
	v := result.Violations[0]
	assert.Equal(t, "non_negative", v.PropertyName)
	assert.Equal(t, 6, v.Line)
	assert.Equal(t, []int{-1}, v.State.Stack)
}
