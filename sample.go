package rebel

import (
	"encoding/binary"
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/timpalpant/go-rebel/value"
)

// Sample is a single value function training example collected by an
// Agent: the encoding of the root belief state of a solved subgame and
// the value of each History in its support.
type Sample struct {
	ID      uuid.UUID
	Episode uuid.UUID
	// Number of subgames solved earlier in the same episode.
	Step int
	value.Example
}

// NewSample returns a Sample with a fresh ID.
func NewSample(episode uuid.UUID, step int, example value.Example) Sample {
	return Sample{
		ID:      uuid.New(),
		Episode: episode,
		Step:    step,
		Example: example,
	}
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s Sample) MarshalBinary() ([]byte, error) {
	// 2 uuids, then up to 3 varints and 8 bytes per float.
	n := 2*len(s.ID) + 3*binary.MaxVarintLen64 + 8*(len(s.Encoding)+len(s.Values))
	buf := make([]byte, 0, n)
	buf = append(buf, s.ID[:]...)
	buf = append(buf, s.Episode[:]...)
	buf = binary.AppendUvarint(buf, uint64(s.Step))
	buf = appendFloats(buf, s.Encoding)
	buf = appendFloats(buf, s.Values)
	return buf, nil
}

func appendFloats(buf []byte, x []float64) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(x)))
	for _, v := range x {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}

	return buf
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *Sample) UnmarshalBinary(buf []byte) error {
	if len(buf) < 2*len(s.ID) {
		return errors.Errorf("sample too short: %d bytes", len(buf))
	}

	copy(s.ID[:], buf)
	buf = buf[len(s.ID):]
	copy(s.Episode[:], buf)
	buf = buf[len(s.Episode):]

	step, n := binary.Uvarint(buf)
	if n <= 0 {
		return errors.New("invalid sample step")
	}
	s.Step = int(step)
	buf = buf[n:]

	var err error
	if s.Encoding, buf, err = readFloats(buf); err != nil {
		return errors.Wrap(err, "decode encoding")
	}

	if s.Values, buf, err = readFloats(buf); err != nil {
		return errors.Wrap(err, "decode values")
	}

	if len(buf) != 0 {
		return errors.Errorf("%d trailing bytes after sample", len(buf))
	}

	return nil
}

func readFloats(buf []byte) ([]float64, []byte, error) {
	count, n := binary.Uvarint(buf)
	if n <= 0 {
		return nil, nil, errors.New("invalid length")
	}
	buf = buf[n:]

	if uint64(len(buf)) < 8*count {
		return nil, nil, errors.Errorf("need %d floats, have %d bytes", count, len(buf))
	}

	result := make([]float64, count)
	for i := range result {
		result[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf))
		buf = buf[8:]
	}

	return result, buf, nil
}
