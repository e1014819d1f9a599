package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangedFlagIndependentOfValue(t *testing.T) {
	for _, flag := range []bool{true, false} {
		c := NewChanged(vec3{}, !flag)
		c.SetChanged(flag)

		c.Ptr().X = 4
		c.Set(vec3{Y: 1})
		c.Data.Z = 9

		assert.Equal(t, flag, c.GetChanged(), "value writes must not alter the flag")
		assert.Equal(t, vec3{Y: 1, Z: 9}, c.Get())
	}
}

func TestChangedInitialFlagIsExplicit(t *testing.T) {
	assert.True(t, NewChanged(1, true).GetChanged())
	assert.False(t, NewChanged(1, false).GetChanged())
}

func TestChangedCloneSnapshotsFlag(t *testing.T) {
	c := NewChanged([]int{1}, true)
	clone := c.Clone()
	assert.True(t, clone.GetChanged())
	assert.Equal(t, c.Get(), clone.Get())

	c.SetChanged(false)
	assert.True(t, clone.GetChanged(), "clone flag is independent of the source")

	c.SetChanged(false)
	assert.False(t, c.Clone().GetChanged())
}

func TestWithChangedReachesNestedLayer(t *testing.T) {
	nested := NewUsageChanged[position](vec3{}, false)
	WithChanged(nested, true)
	assert.True(t, nested.Data.GetChanged())

	changed, ok := IsChanged(nested)
	assert.True(t, ok)
	assert.True(t, changed)

	byValue := &Usage[scale, Changed[int]]{}
	WithChanged(byValue, true)
	assert.True(t, byValue.Data.GetChanged(), "value payload is updated in place")

	deep := NewUsage[position](NewUsage[scale](NewChanged(1, true)))
	WithChanged(deep, false)
	assert.False(t, deep.Data.Data.GetChanged())

	assert.Panics(t, func() { WithChanged(NewUsage[position](1), true) })
	_, ok = IsChanged(NewUsage[position](1))
	assert.False(t, ok)
}
