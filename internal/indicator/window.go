package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-indicators/pkg/errors"
)

// Window is a fixed-capacity rolling buffer that keeps a running sum and
// sum of squares over at most the last period values.
// Push is O(1) amortized and memory does not grow with the stream.
type Window struct {
	period int
	buf    []float64 // preallocated circular buffer
	idx    int       // next write position
	count  int       // current occupancy, capped at period
	sum    compensatedSum
	sumSq  compensatedSum
}

// compensatedSum is a Neumaier running sum. It keeps the low-order bits lost when
// a large value is added and later evicted.
type compensatedSum struct {
	sum float64
	c   float64
}

func (s *compensatedSum) add(v float64) {
	t := s.sum + v
	if math.Abs(s.sum) >= math.Abs(v) {
		s.c += (s.sum - t) + v
	} else {
		s.c += (v - t) + s.sum
	}

	s.sum = t
}

func (s *compensatedSum) value() float64 { return s.sum + s.c }

// NewWindow creates a window holding at most period values.
func NewWindow(period int) (*Window, error) {
	if period < 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "window period must be a positive integer, got %d", period)
	}

	return &Window{
		period: period,
		buf:    make([]float64, period),
		idx:    0,
		count:  0,
		sum:    compensatedSum{sum: 0, c: 0},
		sumSq:  compensatedSum{sum: 0, c: 0},
	}, nil
}

// Push appends a value, evicting the oldest one once the window is full.
// The running sums are rebuilt from the buffer every time the write position
// wraps, and whenever they stop being finite.
func (w *Window) Push(value float64) {
	if w.count == w.period {
		old := w.buf[w.idx]
		w.sum.add(-old)
		w.sumSq.add(-old * old)
	} else {
		w.count++
	}

	w.buf[w.idx] = value
	w.sum.add(value)
	w.sumSq.add(value * value)
	w.idx = (w.idx + 1) % w.period

	if w.idx == 0 || !isFinite(w.sum.value()) || !isFinite(w.sumSq.value()) {
		w.recompute()
	}
}

func (w *Window) recompute() {
	w.sum = compensatedSum{sum: 0, c: 0}
	w.sumSq = compensatedSum{sum: 0, c: 0}

	for _, v := range w.Values() {
		w.sum.add(v)
		w.sumSq.add(v * v)
	}
}

// Len returns the current occupancy.
func (w *Window) Len() int { return w.count }

// Period returns the capacity fixed at construction.
func (w *Window) Period() int { return w.period }

// Full reports whether period values have been seen.
func (w *Window) Full() bool { return w.count == w.period }

// Mean returns the average of the values currently held, or 0 when empty.
func (w *Window) Mean() float64 {
	if w.count == 0 {
		return 0
	}

	n := float64(w.count)

	mean := w.sum.value() / n
	if isFinite(mean) {
		return mean
	}

	// the sum overflowed; dividing first keeps every term finite
	mean = 0
	for _, v := range w.Values() {
		mean += v / n
	}

	return mean
}

// PopulationStdDev returns sqrt(sumSq/n - mean^2) over the current occupancy.
// The variance is floored at 0 to absorb cancellation error. When the squares
// overflow, the deviation is taken from the buffer with scaled differences.
func (w *Window) PopulationStdDev() float64 {
	if w.count == 0 {
		return 0
	}

	mean := w.Mean()

	variance := w.sumSq.value()/float64(w.count) - mean*mean
	if !isFinite(variance) {
		return w.scaledStdDev(mean)
	}

	if variance < 0 {
		variance = 0
	}

	return math.Sqrt(variance)
}

func (w *Window) scaledStdDev(mean float64) float64 {
	values := w.Values()

	scale := 0.0
	for _, v := range values {
		scale = math.Max(scale, math.Abs(v-mean))
	}

	if scale == 0 || math.IsInf(scale, 0) {
		return scale
	}

	n := float64(len(values))
	variance := 0.0

	for _, v := range values {
		d := (v - mean) / scale
		variance += d * d / n
	}

	return scale * math.Sqrt(variance)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Values returns the held values oldest first.
func (w *Window) Values() []float64 {
	values := make([]float64, 0, w.count)
	start := (w.idx - w.count + w.period) % w.period

	for i := 0; i < w.count; i++ {
		values = append(values, w.buf[(start+i)%w.period])
	}

	return values
}

// Reset clears the window for reuse.
func (w *Window) Reset() {
	w.idx = 0
	w.count = 0
	w.sum = compensatedSum{sum: 0, c: 0}
	w.sumSq = compensatedSum{sum: 0, c: 0}

	for i := range w.buf {
		w.buf[i] = 0
	}
}
