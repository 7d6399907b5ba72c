// Package binding maps entity fields to expression strings and keeps the
// two in sync.
//
// A Key is a tagged union over the four bindable field shapes (waypoint
// field, constraint parameter, robot parameter, solver setting) rather than
// a concatenated string, so nothing ever has to parse a key at read time.
// The canonical string form exists only for persistence and display.
//
// ReevaluateAll is the re-evaluation coordinator: it walks every binding in
// deterministic key order, evaluates each expression against the project's
// variables, writes results into the target fields, and gates cache
// invalidation behind an absolute epsilon so numerically identical results
// do not discard a valid solve. It is fail-soft: a bad binding is collected
// and reported, never a reason to stop processing the rest.
package binding
