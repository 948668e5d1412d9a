package layout

import (
	"reflect"
	"testing"

	"gotest.tools/v3/assert"
)

type pointerFirst struct {
	p *int
	n int
}

type pointerSecond struct {
	n int
	p *int
}

type twoPointers struct {
	a *int
	b *string
}

func TestSame(t *testing.T) {
	assert.Check(t, Same[int32, uint32]())
	assert.Check(t, Same[int32, float32]())
	assert.Check(t, Same[*int, *string]())
	assert.Check(t, Same[*int, map[string]int]())
	assert.Check(t, Same[[]byte, []string]())
	assert.Check(t, Same[any, twoPointers]())
	assert.Check(t, Same[struct{}, [0]byte]())

	assert.Check(t, !Same[int32, int64](), "different sizes")
	assert.Check(t, !Same[struct{ a, b int16 }, int32](), "different alignment")
	assert.Check(t, !Same[uintptr, *int](), "pointer shape differs")
	assert.Check(t, !Same[pointerFirst, pointerSecond](), "pointer shape differs")
	assert.Check(t, !Same[string, []byte](), "different sizes")
}

func TestOf(t *testing.T) {
	l := Of[pointerFirst]()
	assert.Equal(t, l.Size, 2*wordSize)
	assert.Equal(t, l.Align, wordSize)
	assert.Check(t, l.HasPointers())

	assert.Check(t, !Of[[16]int64]().HasPointers())
	assert.Check(t, Of[[3]string]().HasPointers())
	assert.Equal(t, Of[[3]*int](), Of[[3]*byte]())
}

func TestOfCached(t *testing.T) {
	first := Of[twoPointers]()
	second := Of[twoPointers]()
	assert.Equal(t, first, second)
	_, ok := cache.Load(reflect.TypeFor[twoPointers]())
	assert.Check(t, ok, "layout was not cached")
}
