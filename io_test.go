package rebel

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/timpalpant/go-rebel/value"
)

func TestSaveLoadSamples(t *testing.T) {
	episode := uuid.New()
	buf := NewReplayBuffer(10)
	for i := 0; i < 4; i++ {
		s := NewSample(episode, i, value.Example{
			Encoding: []float64{3, 1, 1, 0, 0.25, 0.75},
			Values:   []float64{float64(i), -0.5},
		})
		require.NoError(t, buf.Add(s))
	}

	filename := filepath.Join(t.TempDir(), "samples.bin.gz")
	require.NoError(t, SaveSamples(buf, filename))

	loaded, err := LoadSamples(filename)
	require.NoError(t, err)
	expected, err := buf.Samples()
	require.NoError(t, err)
	require.Equal(t, expected, loaded)
	for i, s := range loaded {
		require.Equal(t, episode, s.Episode)
		require.Equal(t, i, s.Step)
	}
}

func TestReadSamples_Truncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSamples(&buf, []Sample{makeSample(1), makeSample(2)}))

	data := buf.Bytes()
	_, err := ReadSamples(bytes.NewReader(data[:len(data)-3]))
	require.Error(t, err)

	samples, err := ReadSamples(bytes.NewReader(nil))
	require.NoError(t, err)
	require.Empty(t, samples)
}

func TestSample_UnmarshalBinary_Invalid(t *testing.T) {
	var s Sample
	require.Error(t, s.UnmarshalBinary([]byte{1, 2, 3}))

	buf, err := makeSample(7).MarshalBinary()
	require.NoError(t, err)
	require.Error(t, s.UnmarshalBinary(append(buf, 0)))
	require.NoError(t, s.UnmarshalBinary(buf))
	require.Equal(t, 7, s.Step)
}
