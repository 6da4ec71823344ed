// Package ldbstore implements self-play storage components that keep data
// on disk in a LevelDB database, rather than in memory.
//
// These implementations are slower than the corresponding in-memory
// components but survive restarts and can hold more samples than fit in
// memory.
package ldbstore
