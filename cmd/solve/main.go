// Solve a built-in game with vanilla CFR and report the exploitability
// of the average policy.
package main

import (
	"flag"
	"net/http"
	_ "net/http/pprof"

	"github.com/golang/glog"

	"github.com/timpalpant/go-rebel/cfr"
	"github.com/timpalpant/go-rebel/fog"
	"github.com/timpalpant/go-rebel/internal/games"
)

func main() {
	game := flag.String("game", "kuhn", "Game to solve: kuhn or leduc")
	iterations := flag.Int("iterations", 1000, "Number of CFR iterations")
	evalEvery := flag.Int("eval_every", 100, "Report exploitability every N iterations")
	alternating := flag.Bool("alternating", false, "Update the policy after each player's traversal")
	cfrPlus := flag.Bool("cfrplus", false, "Use CFR+ regret matching and linear averaging")
	printPolicy := flag.Bool("print_policy", false, "Print the average policy when done")
	pprofAddr := flag.String("pprof", "", "Address to serve pprof and expvar on")
	flag.Parse()

	if *pprofAddr != "" {
		go http.ListenAndServe(*pprofAddr, nil)
	}

	g, err := games.ByName(*game)
	if err != nil {
		glog.Fatal(err)
	}

	tree := fog.NewTree(g)
	params := cfr.Params{
		Iterations:         *iterations,
		AlternatingUpdates: *alternating,
		Discount: cfr.DiscountParams{
			UseRegretMatchingPlus: *cfrPlus,
			LinearWeighting:       *cfrPlus,
		},
	}

	solver, err := cfr.New(tree, params)
	if err != nil {
		glog.Fatal(err)
	}

	glog.Infof("Solving %s: %d histories, %d information states",
		g.Name(), tree.Len(), solver.NumInfoStates())
	for solver.Iter() < *iterations {
		solver.Iterate()
		if *evalEvery > 0 && solver.Iter()%*evalEvery == 0 {
			expl := cfr.Exploitability(tree, solver.AveragePolicy())
			glog.Infof("[iter=%d] Exploitability: %.5f, Expected game value: %.4f",
				solver.Iter(), expl, solver.ExpectedValue())
		}
	}

	avg := solver.AveragePolicy()
	glog.Infof("Final exploitability after %d iterations: %.5f",
		solver.Iter(), cfr.Exploitability(tree, avg))
	if *printPolicy {
		glog.Info(avg)
	}
}
