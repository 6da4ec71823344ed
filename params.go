package rebel

import (
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"

	"github.com/timpalpant/go-rebel/cfr"
)

// Params are the configuration options of an Agent.
// Zero values are replaced by those of DefaultParams in LoadParams.
type Params struct {
	// Maximum number of samples in the replay buffer.
	BufferCapacity int `hcl:"buffer_capacity,optional"`
	// Number of samples per learning step.
	BatchSize int `hcl:"batch_size,optional"`
	// Learning is skipped until the replay buffer holds this many samples.
	MinBufferSize int `hcl:"min_buffer_size,optional"`
	// Learn after every LearnEvery subgames.
	LearnEvery int `hcl:"learn_every,optional"`

	// Depth-limited CFR options for each subgame.
	MaxDepth           int  `hcl:"max_depth,optional"`
	Iterations         int  `hcl:"iterations,optional"`
	AlternatingUpdates bool `hcl:"alternating_updates,optional"`
	LeafParallelism    int  `hcl:"leaf_parallelism,optional"`

	// Size of the LRU cache in front of the value function. Zero disables it.
	ValueCacheSize int   `hcl:"value_cache_size,optional"`
	Seed           int64 `hcl:"seed,optional"`
}

func DefaultParams() Params {
	return Params{
		BufferCapacity: 100,
		BatchSize:      16,
		MinBufferSize:  32,
		LearnEvery:     32,
		MaxDepth:       2,
		Iterations:     100,
	}
}

func (p Params) Validate() error {
	if p.BufferCapacity <= 0 {
		return errors.Errorf("buffer capacity must be positive, got %d", p.BufferCapacity)
	}

	if p.BatchSize <= 0 || p.BatchSize > p.BufferCapacity {
		return errors.Errorf("batch size must be in [1, %d], got %d", p.BufferCapacity, p.BatchSize)
	}

	if p.LearnEvery <= 0 {
		return errors.Errorf("learn every must be positive, got %d", p.LearnEvery)
	}

	if p.ValueCacheSize < 0 {
		return errors.Errorf("value cache size must be non-negative, got %d", p.ValueCacheSize)
	}

	return p.subgameParams(p.Seed).Validate()
}

func (p Params) subgameParams(seed int64) cfr.DepthLimitedParams {
	return cfr.DepthLimitedParams{
		Params: cfr.Params{
			Iterations:         p.Iterations,
			AlternatingUpdates: p.AlternatingUpdates,
		},
		MaxDepth:        p.MaxDepth,
		LeafParallelism: p.LeafParallelism,
		Seed:            seed,
	}
}

// LoadParams reads Params from an HCL file of top-level attributes, e.g.
//
//	buffer_capacity = 1000
//	max_depth       = 2
func LoadParams(filename string) (Params, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return Params{}, errors.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var params Params
	diags = gohcl.DecodeBody(file.Body, nil, &params)
	if diags.HasErrors() {
		return Params{}, errors.Errorf("failed to decode HCL: %s", diags.Error())
	}

	params.applyDefaults()
	if err := params.Validate(); err != nil {
		return Params{}, errors.Wrapf(err, "invalid params in %s", filename)
	}

	return params, nil
}

func (p *Params) applyDefaults() {
	defaults := DefaultParams()
	if p.BufferCapacity == 0 {
		p.BufferCapacity = defaults.BufferCapacity
	}
	if p.BatchSize == 0 {
		p.BatchSize = defaults.BatchSize
	}
	if p.MinBufferSize == 0 {
		p.MinBufferSize = defaults.MinBufferSize
	}
	if p.LearnEvery == 0 {
		p.LearnEvery = defaults.LearnEvery
	}
	if p.MaxDepth == 0 {
		p.MaxDepth = defaults.MaxDepth
	}
	if p.Iterations == 0 {
		p.Iterations = defaults.Iterations
	}
}
