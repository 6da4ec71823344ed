// Run ReBeL self-play on a built-in game, learning a tabular value
// function, and report the exploitability of the resulting policy.
package main

import (
	"flag"
	"net/http"
	_ "net/http/pprof"

	"github.com/golang/glog"
	"github.com/syndtr/goleveldb/leveldb/opt"

	rebel "github.com/timpalpant/go-rebel"
	"github.com/timpalpant/go-rebel/cfr"
	"github.com/timpalpant/go-rebel/fog"
	"github.com/timpalpant/go-rebel/internal/games"
	"github.com/timpalpant/go-rebel/ldbstore"
	"github.com/timpalpant/go-rebel/value"
)

func main() {
	game := flag.String("game", "kuhn", "Game to play: kuhn or leduc")
	config := flag.String("config", "", "HCL file of agent params (defaults if empty)")
	episodes := flag.Int("episodes", 500, "Number of self-play episodes")
	evalEvery := flag.Int("eval_every", 50, "Report exploitability every N episodes")
	bufferDir := flag.String("buffer_dir", "", "Keep the replay buffer in a LevelDB database at this path")
	output := flag.String("output", "", "Save the collected samples to this gzipped file")
	seed := flag.Int64("seed", 0, "Random seed, overrides the config if nonzero")
	pprofAddr := flag.String("pprof", "", "Address to serve pprof and expvar on")
	flag.Parse()

	if *pprofAddr != "" {
		go http.ListenAndServe(*pprofAddr, nil)
	}

	params := rebel.DefaultParams()
	if *config != "" {
		var err error
		if params, err = rebel.LoadParams(*config); err != nil {
			glog.Fatal(err)
		}
	}
	if *seed != 0 {
		params.Seed = *seed
	}

	g, err := games.ByName(*game)
	if err != nil {
		glog.Fatal(err)
	}

	tree := fog.NewTree(g)

	if err := run(tree, *bufferDir, params, *episodes, *evalEvery, *output); err != nil {
		glog.Fatal(err)
	}
}

// run opens the replay buffer, plays and closes the buffer, even if
// playing fails.
func run(tree *fog.Tree, bufferDir string, params rebel.Params, episodes, evalEvery int, output string) (err error) {
	buf, err := newBuffer(bufferDir, params.BufferCapacity)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := buf.Close(); err == nil {
			err = cerr
		}
	}()

	return selfPlay(tree, buf, params, episodes, evalEvery, output)
}

// selfPlay runs episodes with an Agent that learns a tabular value
// function, and saves the samples in buf to output if it is not empty.
func selfPlay(tree *fog.Tree, buf rebel.Buffer, params rebel.Params, episodes, evalEvery int, output string) error {
	initial, err := tree.InitialPBS()
	if err != nil {
		return err
	}

	table := value.NewTable(initial.Len())
	agent, err := rebel.NewAgent(tree, table, buf, params)
	if err != nil {
		return err
	}

	glog.Infof("Playing %d episodes of %s with params %+v", episodes, tree.Game().Name(), params)
	for ep := 1; ep <= episodes; ep++ {
		if err := agent.RunEpisode(); err != nil {
			return err
		}

		if evalEvery > 0 && ep%evalEvery == 0 {
			expl := cfr.Exploitability(tree, agent.Policy())
			glog.Infof("[episode=%d] Exploitability: %.5f, %d subgames solved, %d value table entries",
				ep, expl, agent.NumSteps(), table.Len())
		}
	}

	if output != "" {
		glog.Infof("Saving %d samples to %v", buf.Len(), output)
		if err := rebel.SaveSamples(buf, output); err != nil {
			return err
		}
	}

	glog.Info(agent.Policy())
	return nil
}

func newBuffer(dir string, capacity int) (rebel.Buffer, error) {
	if dir == "" {
		return rebel.NewReplayBuffer(capacity), nil
	}

	return ldbstore.NewSampleBuffer(dir, &opt.Options{}, capacity)
}
