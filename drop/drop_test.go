package drop

import (
	"testing"

	"gotest.tools/v3/assert"
)

type counter struct {
	drops *int
}

func (c counter) Drop() {
	*c.drops++
}

type handle struct {
	id  int
	log *[]int
}

func (h *handle) Drop() {
	*h.log = append(*h.log, h.id)
}

type exploding struct {
	id    int
	drops map[int]int
}

func (e exploding) Drop() {
	e.drops[e.id]++
	if e.id%2 == 1 {
		panic(e.id)
	}
}

func TestValue(t *testing.T) {
	var drops int
	c := counter{drops: &drops}
	Value(&c)
	assert.Equal(t, drops, 1)
	assert.Check(t, c.drops == nil, "value was not zeroed")

	n := 42
	Value(&n)
	assert.Equal(t, n, 0)
}

func TestValuePointerReceiver(t *testing.T) {
	var log []int
	h := handle{id: 7, log: &log}
	Value(&h)
	assert.DeepEqual(t, log, []int{7})
	assert.Equal(t, h, handle{})
}

func TestSlice(t *testing.T) {
	var drops int
	s := []counter{{&drops}, {&drops}, {&drops}}
	Slice(s)
	assert.Equal(t, drops, 3)
	for _, c := range s {
		assert.Check(t, c.drops == nil)
	}

	Slice[counter](nil)
}

func TestSliceContinuesAfterPanic(t *testing.T) {
	drops := map[int]int{}
	s := []exploding{{0, drops}, {1, drops}, {2, drops}, {3, drops}, {4, drops}}

	var recovered any
	func() {
		defer func() {
			recovered = recover()
		}()
		Slice(s)
	}()

	assert.Equal(t, recovered, 1)
	assert.DeepEqual(t, drops, map[int]int{0: 1, 1: 1, 2: 1, 3: 1, 4: 1})
}
