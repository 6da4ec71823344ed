package value

import (
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Table is a Learner that remembers the running mean of the labels seen
// for each distinct encoding, and returns zeros for unseen encodings. It is
// exact for games small enough to enumerate their public belief states.
type Table struct {
	width int

	mx     sync.Mutex
	means  map[string][]float64
	counts map[string]int
}

var _ Learner = (*Table)(nil)

func NewTable(width int) *Table {
	return &Table{
		width:  width,
		means:  make(map[string][]float64),
		counts: make(map[string]int),
	}
}

// Value implements Function.
func (t *Table) Value(encoding []float64) ([]float64, error) {
	t.mx.Lock()
	defer t.mx.Unlock()
	if mean, ok := t.means[encodingKey(encoding)]; ok {
		return copyOf(mean), nil
	}

	return make([]float64, t.width), nil
}

// Learn implements Learner.
func (t *Table) Learn(examples []Example) error {
	t.mx.Lock()
	defer t.mx.Unlock()
	for _, ex := range examples {
		if len(ex.Values) != t.width {
			return errors.Errorf("example has %d values, expected %d", len(ex.Values), t.width)
		}

		key := encodingKey(ex.Encoding)
		mean, ok := t.means[key]
		if !ok {
			mean = make([]float64, t.width)
			t.means[key] = mean
		}

		t.counts[key]++
		n := float64(t.counts[key])
		for i, v := range ex.Values {
			mean[i] += (v - mean[i]) / n
		}
	}

	glog.V(2).Infof("Learned %d examples, %d distinct encodings", len(examples), len(t.means))
	return nil
}

// Len returns the number of distinct encodings learned.
func (t *Table) Len() int {
	t.mx.Lock()
	defer t.mx.Unlock()
	return len(t.means)
}
