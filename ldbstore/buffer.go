package ldbstore

import (
	"encoding/binary"
	"math/rand"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	rebel "github.com/timpalpant/go-rebel"
)

var (
	metaKey      = []byte("meta")
	samplePrefix = []byte("s/")
)

// SampleBuffer implements a circular replay buffer in which samples are
// stored in a LevelDB database.
//
// It is functionally equivalent to rebel.ReplayBuffer. Reopening the same
// path resumes the buffer where it was closed.
type SampleBuffer struct {
	path     string
	capacity int

	mx sync.Mutex
	// Total number of samples ever added.
	n int

	db    *leveldb.DB
	rOpts *opt.ReadOptions
	wOpts *opt.WriteOptions
}

var _ rebel.Buffer = (*SampleBuffer)(nil)

// NewSampleBuffer returns a SampleBuffer with the given capacity, backed by
// a LevelDB database at the given directory path.
func NewSampleBuffer(path string, opts *opt.Options, capacity int) (*SampleBuffer, error) {
	if capacity <= 0 {
		return nil, errors.Errorf("capacity must be positive, got %d", capacity)
	}

	db, err := leveldb.OpenFile(path, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	b := &SampleBuffer{
		path:     path,
		capacity: capacity,
		db:       db,
	}

	if err := b.loadMeta(); err != nil {
		db.Close()
		return nil, err
	}

	glog.V(1).Infof("Opened sample buffer at %s with %d samples", path, b.Len())
	return b, nil
}

func (b *SampleBuffer) loadMeta() error {
	buf, err := b.db.Get(metaKey, b.rOpts)
	if err == leveldb.ErrNotFound {
		return nil
	} else if err != nil {
		return err
	}

	n, k := binary.Uvarint(buf)
	if k <= 0 {
		return errors.Errorf("corrupt sample buffer metadata in %s", b.path)
	}

	capacity, m := binary.Uvarint(buf[k:])
	if m <= 0 {
		return errors.Errorf("corrupt sample buffer metadata in %s", b.path)
	}

	if int(capacity) != b.capacity {
		return errors.Errorf("sample buffer in %s has capacity %d, not %d",
			b.path, capacity, b.capacity)
	}

	b.n = int(n)
	return nil
}

func sampleKey(idx int) []byte {
	key := make([]byte, len(samplePrefix), len(samplePrefix)+binary.MaxVarintLen64)
	copy(key, samplePrefix)
	return binary.AppendUvarint(key, uint64(idx))
}

// Close implements rebel.Buffer.
func (b *SampleBuffer) Close() error {
	return b.db.Close()
}

// Add implements rebel.Buffer.
func (b *SampleBuffer) Add(s rebel.Sample) error {
	value, err := s.MarshalBinary()
	if err != nil {
		return err
	}

	b.mx.Lock()
	defer b.mx.Unlock()

	var meta []byte
	meta = binary.AppendUvarint(meta, uint64(b.n+1))
	meta = binary.AppendUvarint(meta, uint64(b.capacity))

	batch := new(leveldb.Batch)
	batch.Put(sampleKey(b.n%b.capacity), value)
	batch.Put(metaKey, meta)
	if err := b.db.Write(batch, b.wOpts); err != nil {
		return errors.Wrap(err, "write sample")
	}

	b.n++
	return nil
}

// Len implements rebel.Buffer.
func (b *SampleBuffer) Len() int {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.len()
}

func (b *SampleBuffer) len() int {
	if b.n < b.capacity {
		return b.n
	}

	return b.capacity
}

func (b *SampleBuffer) getSample(idx int) (rebel.Sample, error) {
	var s rebel.Sample
	buf, err := b.db.Get(sampleKey(idx), b.rOpts)
	if err != nil {
		return s, errors.Wrapf(err, "get sample %d", idx)
	}

	err = s.UnmarshalBinary(buf)
	return s, err
}

// Sample implements rebel.Buffer.
func (b *SampleBuffer) Sample(rng *rand.Rand, n int) ([]rebel.Sample, error) {
	b.mx.Lock()
	defer b.mx.Unlock()

	if n > b.len() {
		return nil, errors.Wrapf(rebel.ErrInsufficientSamples,
			"%d elements could not be sampled from size %d", n, b.len())
	}

	result := make([]rebel.Sample, n)
	for i, j := range rng.Perm(b.len())[:n] {
		s, err := b.getSample(j)
		if err != nil {
			return nil, err
		}

		result[i] = s
	}

	return result, nil
}

// Samples implements rebel.Buffer. The samples are in insertion order.
func (b *SampleBuffer) Samples() ([]rebel.Sample, error) {
	b.mx.Lock()
	defer b.mx.Unlock()

	start := 0
	if b.n > b.capacity {
		start = b.n % b.capacity
	}

	result := make([]rebel.Sample, b.len())
	for i := range result {
		s, err := b.getSample((start + i) % b.capacity)
		if err != nil {
			return nil, err
		}

		result[i] = s
	}

	return result, nil
}
