package setutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/basalt-db/evcat/internal/setutil"
)

func TestNewStringSetContainsAllMembers(t *testing.T) {
	s := setutil.NewStringSet("a", "b")
	assert.True(t, s.Contains("a"))
	assert.True(t, s.Contains("b"))
	assert.False(t, s.Contains("c"))
	assert.Equal(t, 2, s.Len())
}

func TestZeroValueStringSetIsEmpty(t *testing.T) {
	var s setutil.StringSet
	assert.False(t, s.Contains("a"))
	assert.Equal(t, 0, s.Len())
}

func TestAddReportsWhetherNewlyAdded(t *testing.T) {
	var s setutil.StringSet
	assert.True(t, s.Add("a"))
	assert.False(t, s.Add("a"))
	assert.Equal(t, 1, s.Len())
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	s := setutil.NewStringSet("a")
	clone := s.Clone()

	s.Add("b")
	assert.True(t, s.Contains("b"))
	assert.False(t, clone.Contains("b"), "mutating the original must not affect the clone")
	assert.True(t, clone.Contains("a"))
}

func TestSliceContainsEveryMember(t *testing.T) {
	s := setutil.NewStringSet("x", "y", "z")
	got := s.Slice()
	assert.ElementsMatch(t, []string{"x", "y", "z"}, got)
}

