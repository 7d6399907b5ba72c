package binding

import (
	"math"
	"sort"

	"github.com/Veratay/mecanum-trajopt/internal/expr"
	"github.com/Veratay/mecanum-trajopt/internal/project"
)

// InvalidationEpsilon is the absolute tolerance below which a re-evaluated
// value is considered unchanged. A write inside the tolerance neither
// mutates the field nor discards the owning trajectory's cached solve.
const InvalidationEpsilon = 1e-9

// BindingError records one binding that failed to evaluate. The field keeps
// its current value; the error is carried for display.
type BindingError struct {
	Key        Key
	Expression string
	Err        *expr.EvalError
}

// Result is what one ReevaluateAll pass produced. Changed is the explicit
// publish step: callers that need to refresh views subscribe to this list
// rather than to any ambient notification.
type Result struct {
	// Changed lists keys whose target field value actually moved, in
	// evaluation order.
	Changed []Key

	// Invalidated lists trajectory ids whose cached solve was discarded,
	// sorted and de-duplicated.
	Invalidated []string

	// Errors lists bindings that failed to evaluate. Partial success is
	// normal; a batch with errors still applied every healthy binding.
	Errors []BindingError
}

// ReevaluateAll evaluates every binding against the project's variables and
// writes the results into the target fields.
//
// Contract points, in order per binding:
//   - evaluation failure: leave the field untouched, record the error, move on
//   - target entity missing: silent no-op (the binding may outlive its target)
//   - |new - old| <= InvalidationEpsilon: no write, no invalidation
//   - otherwise: write, report the key as changed, and discard the owning
//     trajectory's SolvedResult (for robot params: every trajectory, since
//     the dynamics model feeds every solve)
//
// The pass is idempotent: with no external changes, a second call finds
// every value inside the epsilon and mutates nothing.
func ReevaluateAll(p *project.Project, reg *Registry) Result {
	var res Result
	invalidated := make(map[string]bool)

	for _, key := range reg.Keys() {
		expression, _ := reg.Get(key)

		value, evalErr := expr.Evaluate(expression, p)
		if evalErr != nil {
			res.Errors = append(res.Errors, BindingError{Key: key, Expression: expression, Err: evalErr})
			continue
		}

		old, found := currentValue(p, key)
		if found && math.Abs(value-old) <= InvalidationEpsilon {
			continue
		}

		applied := applyValue(p, key, value)
		if !applied {
			continue
		}

		res.Changed = append(res.Changed, key)
		for _, id := range ownersOf(p, key) {
			if t, ok := p.Trajectory(id); ok && t.InvalidateSolve() {
				invalidated[id] = true
			}
		}
	}

	for id := range invalidated {
		res.Invalidated = append(res.Invalidated, id)
	}
	sort.Strings(res.Invalidated)
	return res
}

// currentValue reads the field a key addresses. found=false either when the
// target entity is missing or when the field has no current value (an unset
// constraint param).
func currentValue(p *project.Project, key Key) (value float64, found bool) {
	switch key.Kind {
	case KindWaypoint:
		t, ok := p.Trajectory(key.TrajectoryID)
		if !ok || key.WaypointIndex < 0 || key.WaypointIndex >= len(t.Waypoints) {
			return 0, false
		}
		return t.Waypoints[key.WaypointIndex].FieldValue(key.Field)
	case KindConstraint:
		t, ok := p.Trajectory(key.TrajectoryID)
		if !ok {
			return 0, false
		}
		c, ok := t.Constraint(key.ConstraintID)
		if !ok {
			return 0, false
		}
		value, found = c.Params[key.Field]
		return value, found
	case KindRobotParam:
		return p.Robot.FieldValue(key.Field)
	case KindSolverSetting:
		t, ok := p.Trajectory(key.TrajectoryID)
		if !ok {
			return 0, false
		}
		return t.Settings.FieldValue(key.Field)
	}
	return 0, false
}

// applyValue writes a value through the project's internal write paths.
// Reports whether a target existed to receive it.
func applyValue(p *project.Project, key Key, value float64) bool {
	switch key.Kind {
	case KindWaypoint:
		_, applied := p.ApplyWaypointField(key.TrajectoryID, key.WaypointIndex, key.Field, value)
		return applied
	case KindConstraint:
		_, applied := p.ApplyConstraintParam(key.TrajectoryID, key.ConstraintID, key.Field, value)
		return applied
	case KindRobotParam:
		_, applied := p.ApplyRobotParam(key.Field, value)
		return applied
	case KindSolverSetting:
		_, applied := p.ApplySolverSetting(key.TrajectoryID, key.Field, value)
		return applied
	}
	return false
}

// ownersOf lists the trajectories whose cached solve depends on the field a
// key addresses.
func ownersOf(p *project.Project, key Key) []string {
	if key.Kind == KindRobotParam {
		ids := make([]string, 0, len(p.Trajectories))
		for _, t := range p.Trajectories {
			ids = append(ids, t.ID)
		}
		return ids
	}
	return []string{key.TrajectoryID}
}
