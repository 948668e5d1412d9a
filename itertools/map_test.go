package itertools

import (
	"strconv"
	"testing"

	"gotest.tools/v3/assert"
)

func TestMap(t *testing.T) {
	in := []int{1, 2, 3}
	assert.DeepEqual(t, Map(in, strconv.Itoa), []string{"1", "2", "3"})
	assert.DeepEqual(t, in, []int{1, 2, 3})
	assert.Check(t, Map([]int(nil), strconv.Itoa) == nil)
}
