// Package games looks up the built-in games by name.
package games

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/timpalpant/go-rebel/fog"
	"github.com/timpalpant/go-rebel/kuhn"
	"github.com/timpalpant/go-rebel/leduc"
)

var registry = map[string]func() fog.Game{
	"kuhn":  func() fog.Game { return kuhn.New() },
	"leduc": func() fog.Game { return leduc.New() },
}

// ByName returns a new instance of the named game.
func ByName(name string) (fog.Game, error) {
	newGame, ok := registry[name]
	if !ok {
		return nil, errors.Errorf("unknown game %q, expected one of %v", name, Names())
	}

	return newGame(), nil
}

// Names returns the names of all built-in games.
func Names() []string {
	var result []string
	for name := range registry {
		result = append(result, name)
	}

	sort.Strings(result)
	return result
}
