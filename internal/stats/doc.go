// Package stats derives statistics from batches of relay events.
//
// Every function is pure and synchronous: it recomputes its result from the
// batch it is given and never performs I/O. Callers memoise by target id.
package stats
