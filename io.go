package rebel

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"
)

// SaveSamples writes the samples of buf to a gzipped file, each as its
// length as a uvarint followed by its binary encoding.
func SaveSamples(buf Buffer, filename string) (err error) {
	samples, err := buf.Samples()
	if err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := gzip.NewWriter(f)
	if err := WriteSamples(w, samples); err != nil {
		w.Close()
		return err
	}

	return w.Close()
}

// WriteSamples writes length-delimited samples to w.
func WriteSamples(w io.Writer, samples []Sample) error {
	var varintBuf [binary.MaxVarintLen64]byte
	for _, sample := range samples {
		buf, err := sample.MarshalBinary()
		if err != nil {
			return err
		}

		n := binary.PutUvarint(varintBuf[:], uint64(len(buf)))
		if _, err := w.Write(varintBuf[:n]); err != nil {
			return err
		}

		if _, err := w.Write(buf); err != nil {
			return err
		}
	}

	return nil
}

// LoadSamples reads the samples of a file written by SaveSamples.
func LoadSamples(filename string) ([]Sample, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := gzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", filename)
	}
	defer r.Close()

	return ReadSamples(r)
}

// ReadSamples reads length-delimited samples from r until EOF.
func ReadSamples(r io.Reader) ([]Sample, error) {
	br := bufio.NewReader(r)
	var samples []Sample
	for {
		n, err := binary.ReadUvarint(br)
		if err == io.EOF {
			return samples, nil
		} else if err != nil {
			return nil, err
		}

		buf := make([]byte, n)
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, errors.Wrapf(err, "read sample %d", len(samples))
		}

		var sample Sample
		if err := sample.UnmarshalBinary(buf); err != nil {
			return nil, errors.Wrapf(err, "decode sample %d", len(samples))
		}

		samples = append(samples, sample)
	}
}
