package synthetic

import "sync"

// Fixed replays configured values in order and repeats the last one.
// It is meant for tests and reproducible demos.
type Fixed struct {
	mu     sync.Mutex
	floats []float64
	ints   []int
	fi, ii int
}

func NewFixed(floats []float64, ints []int) *Fixed {
	return &Fixed{floats: floats, ints: ints}
}

func (f *Fixed) Float64() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.floats) == 0 {
		return 0
	}
	v := f.floats[min(f.fi, len(f.floats)-1)]
	f.fi++
	return v
}

func (f *Fixed) Intn(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.ints) == 0 || n <= 0 {
		return 0
	}
	v := f.ints[min(f.ii, len(f.ints)-1)]
	f.ii++
	return v % n
}
