package rebel

import (
	"math/rand"
	"sync"

	"github.com/pkg/errors"
)

// ErrInsufficientSamples is returned when sampling more elements than
// a Buffer holds.
var ErrInsufficientSamples = errors.New("not enough samples in buffer")

// Buffer is a collection of training samples. Implementations must be
// safe for concurrent use.
type Buffer interface {
	Add(s Sample) error
	Len() int
	// Sample returns n distinct samples chosen uniformly at random.
	Sample(rng *rand.Rand, n int) ([]Sample, error)
	Samples() ([]Sample, error)
	Close() error
}

// ReplayBuffer is an in-memory circular Buffer. Once full, each new
// sample replaces the oldest one.
type ReplayBuffer struct {
	mx       sync.Mutex
	capacity int
	samples  []Sample
	next     int
}

var _ Buffer = (*ReplayBuffer)(nil)

func NewReplayBuffer(capacity int) *ReplayBuffer {
	return &ReplayBuffer{
		capacity: capacity,
		samples:  make([]Sample, 0, capacity),
	}
}

// Add implements Buffer.
func (b *ReplayBuffer) Add(s Sample) error {
	b.mx.Lock()
	defer b.mx.Unlock()

	if len(b.samples) < b.capacity {
		b.samples = append(b.samples, s)
	} else {
		b.samples[b.next] = s
		b.next = (b.next + 1) % b.capacity
	}

	return nil
}

// Len implements Buffer.
func (b *ReplayBuffer) Len() int {
	b.mx.Lock()
	defer b.mx.Unlock()
	return len(b.samples)
}

// Sample implements Buffer.
func (b *ReplayBuffer) Sample(rng *rand.Rand, n int) ([]Sample, error) {
	b.mx.Lock()
	defer b.mx.Unlock()

	if n > len(b.samples) {
		return nil, errors.Wrapf(ErrInsufficientSamples,
			"%d elements could not be sampled from size %d", n, len(b.samples))
	}

	result := make([]Sample, n)
	for i, j := range rng.Perm(len(b.samples))[:n] {
		result[i] = b.samples[j]
	}

	return result, nil
}

// Samples implements Buffer. The samples are in insertion order.
func (b *ReplayBuffer) Samples() ([]Sample, error) {
	b.mx.Lock()
	defer b.mx.Unlock()

	result := make([]Sample, 0, len(b.samples))
	result = append(result, b.samples[b.next:]...)
	result = append(result, b.samples[:b.next]...)
	return result, nil
}

// Close implements Buffer.
func (b *ReplayBuffer) Close() error {
	return nil
}
