package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb/opt"

	rebel "github.com/timpalpant/go-rebel"
	"github.com/timpalpant/go-rebel/fog"
	"github.com/timpalpant/go-rebel/kuhn"
	"github.com/timpalpant/go-rebel/ldbstore"
)

func testParams() rebel.Params {
	params := rebel.DefaultParams()
	params.BufferCapacity = 4
	params.BatchSize = 2
	params.MinBufferSize = 2
	params.LearnEvery = 2
	params.MaxDepth = 1
	params.Iterations = 10
	return params
}

func TestRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "buffer")
	output := filepath.Join(t.TempDir(), "samples.bin.gz")
	tree := fog.NewTree(kuhn.New())
	require.NoError(t, run(tree, dir, testParams(), 3, 1, output))

	samples, err := rebel.LoadSamples(output)
	require.NoError(t, err)
	require.Len(t, samples, 4)

	// The buffer was closed, so it can be reopened.
	buf, err := ldbstore.NewSampleBuffer(dir, &opt.Options{}, 4)
	require.NoError(t, err)
	require.Equal(t, 4, buf.Len())
	require.NoError(t, buf.Close())
}

func TestRun_ClosesBufferOnError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "buffer")
	params := testParams()
	params.LearnEvery = 0

	tree := fog.NewTree(kuhn.New())
	require.Error(t, run(tree, dir, params, 1, 1, ""))

	buf, err := ldbstore.NewSampleBuffer(dir, &opt.Options{}, params.BufferCapacity)
	require.NoError(t, err)
	require.NoError(t, buf.Close())
}
