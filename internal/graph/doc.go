// Package graph maintains the follows relation between trajectories: which
// trajectory continues from which predecessor's endpoint.
//
// The relation is a directed graph where every node has at most one
// outgoing edge (its predecessor). The package validates edge legality,
// rejects cycles before they exist, synchronizes a follower's first
// waypoint to its predecessor's last, and assembles chains and display
// groups from the edge set.
//
// Illegal mutations are refused, never raised: every candidate edge comes
// from UI choices that were already filtered, so a violation here means a
// stale view, and the right response is to leave the model untouched. The
// returned Violation exists for diagnostics, not control flow.
package graph
