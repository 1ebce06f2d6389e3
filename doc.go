// Package rtcore implements a small runtime core for compiled functional
// programs: a per-executor value stack over a bump-allocated heap, a
// tagged-value closure representation, a Cheney-style two-space copying
// collector, and a bounded inter-executor mailbox that deep-copies
// messages across heaps under allocation locks.
package rtcore
