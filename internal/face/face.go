package face

import (
	"context"
	"errors"
	"math"
	"sync"
)

// DescriptorSize is the feature vector length the capture pipeline emits.
const DescriptorSize = 128

// ErrNoFace is returned when a capture frame contains no detectable face.
var ErrNoFace = errors.New("no face found")

// Descriptor is a face feature vector.
type Descriptor []float32

// Capturer yields a descriptor from whatever imaging source the terminal
// has, or ErrNoFace. The capture internals are out of scope for this
// module; only this boundary is contract.
type Capturer interface {
	Capture(ctx context.Context) (Descriptor, error)
}

// Candidate is one registered descriptor in the gallery.
type Candidate struct {
	StudentID  int64
	Descriptor Descriptor
}

// Match is a successful gallery hit.
type Match struct {
	StudentID int64
	Distance  float64
}

// Matcher holds the registered-student gallery and answers nearest-neighbor
// queries by Euclidean distance. A probe matches when the nearest candidate
// lies within the acceptance threshold.
type Matcher struct {
	mu        sync.RWMutex
	gallery   []Candidate
	threshold float64
}

// NewMatcher builds an empty matcher. A non-positive threshold falls back
// to 0.6.
func NewMatcher(threshold float64) *Matcher {
	if threshold <= 0 {
		threshold = 0.6
	}
	return &Matcher{threshold: threshold}
}

// Register adds or replaces a student's descriptor.
func (m *Matcher) Register(studentID int64, descriptor Descriptor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.gallery {
		if m.gallery[i].StudentID == studentID {
			m.gallery[i].Descriptor = descriptor
			return
		}
	}
	m.gallery = append(m.gallery, Candidate{StudentID: studentID, Descriptor: descriptor})
}

// Size returns the number of registered descriptors.
func (m *Matcher) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.gallery)
}

// Match returns the nearest registered student within the threshold, or
// (nil, false) when nothing is close enough.
func (m *Matcher) Match(probe Descriptor) (*Match, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	best := Match{Distance: math.Inf(1)}
	for _, candidate := range m.gallery {
		d, ok := distance(probe, candidate.Descriptor)
		if !ok {
			continue
		}
		if d < best.Distance {
			best = Match{StudentID: candidate.StudentID, Distance: d}
		}
	}
	if math.IsInf(best.Distance, 1) || best.Distance > m.threshold {
		return nil, false
	}
	return &best, true
}

func distance(a, b Descriptor) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var sum float64
	for i := range a {
		diff := float64(a[i]) - float64(b[i])
		sum += diff * diff
	}
	return math.Sqrt(sum), true
}
