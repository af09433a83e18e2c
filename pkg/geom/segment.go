package geom

// Segment is an ordered pair of endpoints. Start and End may coincide; a
// zero-length segment is valid input to every operation.
type Segment[V Vector[V]] struct {
	Start V `json:"start"`
	End   V `json:"end"`
}

// Segment2 is a segment in the plane.
type Segment2[T Number] = Segment[Point2[T]]

// Segment3 is a segment in space.
type Segment3[T Number] = Segment[Point3[T]]

// NewSegment returns the segment from start to end.
func NewSegment[V Vector[V]](start, end V) Segment[V] {
	return Segment[V]{Start: start, End: end}
}

// Direction returns End - Start in the coordinate type. Unsigned
// coordinates wrap when End < Start; Length does not.
func (s Segment[V]) Direction() V {
	return s.End.Sub(s.Start)
}

// Length returns the Euclidean distance between the endpoints.
func (s Segment[V]) Length() float64 {
	return s.Start.Distance(s.End)
}

// Midpoint returns the average of the endpoints, rounded to the nearest
// value for integer coordinates.
func (s Segment[V]) Midpoint() V {
	return s.Start.Mean(s.End)
}

// IsDegenerate reports whether the segment is shorter than the tolerance.
func (s Segment[V]) IsDegenerate(opts ...Option) bool {
	l := s.Length()
	return l < Epsilon(opts...) || l == 0
}

// Reversed swaps the endpoints.
func (s Segment[V]) Reversed() Segment[V] {
	return Segment[V]{Start: s.End, End: s.Start}
}

// Equal reports whether both endpoints match exactly and in order.
func (s Segment[V]) Equal(o Segment[V]) bool {
	return s == o
}

func (s Segment[V]) String() string {
	return "[" + s.Start.String() + " -> " + s.End.String() + "]"
}
