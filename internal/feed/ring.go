package feed

// ring is a fixed-size circular buffer. Pushing into a full ring overwrites
// the oldest element.
type ring[T any] struct {
	data  []T
	head  int // next write position
	count int
}

func newRing[T any](size int) *ring[T] {
	return &ring[T]{data: make([]T, size)}
}

func (r *ring[T]) push(v T) {
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
	}
}

// newestFirst returns a copy of the contents, most recent push first.
func (r *ring[T]) newestFirst() []T {
	if r.count == 0 {
		return nil
	}
	out := make([]T, r.count)
	size := len(r.data)
	for i := 0; i < r.count; i++ {
		out[i] = r.data[(r.head-1-i+size)%size]
	}
	return out
}

func (r *ring[T]) reset() {
	var zero T
	for i := range r.data {
		r.data[i] = zero
	}
	r.head = 0
	r.count = 0
}
