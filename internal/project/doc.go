// Package project defines the in-memory entity model: a project owning
// trajectories (waypoints, constraints, solver settings, cached solve
// results), robot parameters, chain group names, and the named variable
// store that expressions are evaluated against.
//
// The model is owned exclusively by this package. External mutation goes
// through setter operations that return errors; collaborators never write
// entity fields directly. This is what lets the consistency machinery
// (re-evaluation, chain synchronization) reason about every change.
//
// Concurrency: the model is single-threaded by contract. Every operation
// runs to completion before the next event is processed; there is one
// active editor at a time and no internal parallelism.
package project
