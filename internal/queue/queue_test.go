package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFIFO(t *testing.T) {
	t.Run("Order", func(t *testing.T) {
		q := NewFIFO(2)

		q.Push(1)
		q.Push(2)
		q.Push(3) // forces growth

		for want := uint64(1); want <= 3; want++ {
			got, ok := q.Pop()
			assert.True(t, ok)
			assert.Equal(t, want, got)
		}

		_, ok := q.Pop()
		assert.False(t, ok)
	})

	t.Run("WrapAround", func(t *testing.T) {
		q := NewFIFO(4)

		for i := uint64(0); i < 3; i++ {
			q.Push(i)
		}
		q.Pop()
		q.Pop()

		// head has advanced; pushes must wrap cleanly.
		for i := uint64(10); i < 16; i++ {
			q.Push(i)
		}

		want := []uint64{2, 10, 11, 12, 13, 14, 15}
		for _, w := range want {
			got, ok := q.Pop()
			assert.True(t, ok)
			assert.Equal(t, w, got)
		}
		assert.Equal(t, 0, q.Len())
	})
}
