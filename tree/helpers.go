// Package tree has helpers for walking every History of a fog game tree.
package tree

import (
	"github.com/timpalpant/go-rebel/fog"
)

// Visit calls visitor on root and each of its descendants, depth first.
func Visit(tree *fog.Tree, root *fog.History, visitor func(h *fog.History)) {
	visitor(root)
	for _, child := range tree.Children(root) {
		Visit(tree, child, visitor)
	}
}

// VisitInfoStates calls visitor once for each information state of an
// acting player below root.
func VisitInfoStates(tree *fog.Tree, root *fog.History, visitor func(player int, infoState fog.InfoState)) {
	seen := make(map[string]struct{})
	Visit(tree, root, func(h *fog.History) {
		if !h.Player().IsPlayer() {
			return
		}

		player := int(h.Player())
		infoState := h.InfoState(player)
		if _, ok := seen[infoState.Key()]; ok {
			return
		}

		visitor(player, infoState)
		seen[infoState.Key()] = struct{}{}
	})
}

// VisitPublicStates calls visitor once for each distinct public state below root.
func VisitPublicStates(tree *fog.Tree, root *fog.History, visitor func(public fog.PublicState)) {
	seen := make(map[string]struct{})
	Visit(tree, root, func(h *fog.History) {
		key := h.PublicState().Key()
		if _, ok := seen[key]; ok {
			return
		}

		visitor(h.PublicState())
		seen[key] = struct{}{}
	})
}

func CountTerminalNodes(tree *fog.Tree) int {
	total := 0
	Visit(tree, tree.Root(), func(h *fog.History) {
		if h.IsTerminal() {
			total++
		}
	})

	return total
}

func CountNodes(tree *fog.Tree) int {
	total := 0
	Visit(tree, tree.Root(), func(h *fog.History) { total++ })
	return total
}

func CountInfoStates(tree *fog.Tree) int {
	total := 0
	VisitInfoStates(tree, tree.Root(), func(player int, infoState fog.InfoState) { total++ })
	return total
}

func CountPublicStates(tree *fog.Tree) int {
	total := 0
	VisitPublicStates(tree, tree.Root(), func(public fog.PublicState) { total++ })
	return total
}
