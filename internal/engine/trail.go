package engine

// Point is a recorded body position in simulation coordinates.
type Point struct {
	X, Y float64
}

// Trail is a fixed-capacity ring buffer of past positions, oldest first.
// When full, pushing a new point evicts exactly one entry from the front.
type Trail struct {
	buf  []Point
	head int
	n    int
}

func newTrail(capacity int) *Trail {
	return &Trail{buf: make([]Point, capacity)}
}

func (t *Trail) Len() int { return t.n }

// At returns the i-th point, where 0 is the oldest entry.
func (t *Trail) At(i int) Point {
	return t.buf[(t.head+i)%len(t.buf)]
}

// Push appends p, evicting the oldest point if the trail is at capacity.
func (t *Trail) Push(p Point) {
	if len(t.buf) == 0 {
		return
	}
	if t.n == len(t.buf) {
		t.buf[t.head] = p
		t.head = (t.head + 1) % len(t.buf)
		return
	}
	t.buf[(t.head+t.n)%len(t.buf)] = p
	t.n++
}

// Points returns the trail contents oldest first as a fresh slice.
func (t *Trail) Points() []Point {
	out := make([]Point, t.n)
	for i := 0; i < t.n; i++ {
		out[i] = t.At(i)
	}
	return out
}

// Clear empties the trail without changing its capacity.
func (t *Trail) Clear() {
	t.head = 0
	t.n = 0
}

// SetCap resizes the trail to hold at most capacity points, dropping the
// oldest entries immediately if the current contents exceed the new cap.
func (t *Trail) SetCap(capacity int) {
	if capacity == len(t.buf) {
		return
	}
	keep := t.n
	if keep > capacity {
		keep = capacity
	}
	buf := make([]Point, capacity)
	for i := 0; i < keep; i++ {
		buf[i] = t.At(t.n - keep + i)
	}
	t.buf = buf
	t.head = 0
	t.n = keep
}
