package binding

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the four bindable field shapes.
type Kind string

const (
	KindWaypoint      Kind = "waypoint"
	KindConstraint    Kind = "constraint"
	KindRobotParam    Kind = "robotParam"
	KindSolverSetting Kind = "solverSetting"
)

// Key identifies exactly one bindable numeric field. The zero value is not
// a valid key. Keys are comparable and usable as map keys; unused fields
// stay at their zero value per kind:
//
//	waypoint:      TrajectoryID, WaypointIndex, Field
//	constraint:    TrajectoryID, ConstraintID, Field (the param key)
//	robotParam:    Field
//	solverSetting: TrajectoryID, Field
type Key struct {
	Kind          Kind
	TrajectoryID  string
	WaypointIndex int
	ConstraintID  string
	Field         string
}

// WaypointKey addresses a numeric field of one waypoint.
func WaypointKey(trajectoryID string, index int, field string) Key {
	return Key{Kind: KindWaypoint, TrajectoryID: trajectoryID, WaypointIndex: index, Field: field}
}

// ConstraintKey addresses one parameter of one constraint.
func ConstraintKey(trajectoryID, constraintID, param string) Key {
	return Key{Kind: KindConstraint, TrajectoryID: trajectoryID, ConstraintID: constraintID, Field: param}
}

// RobotParamKey addresses a project-wide robot parameter.
func RobotParamKey(field string) Key {
	return Key{Kind: KindRobotParam, Field: field}
}

// SolverSettingKey addresses a solver setting of one trajectory.
func SolverSettingKey(trajectoryID, field string) Key {
	return Key{Kind: KindSolverSetting, TrajectoryID: trajectoryID, Field: field}
}

// String renders the canonical colon-separated form used in persisted
// documents and diagnostics.
func (k Key) String() string {
	switch k.Kind {
	case KindWaypoint:
		return fmt.Sprintf("waypoint:%s:%d:%s", k.TrajectoryID, k.WaypointIndex, k.Field)
	case KindConstraint:
		return fmt.Sprintf("constraint:%s:%s:%s", k.TrajectoryID, k.ConstraintID, k.Field)
	case KindRobotParam:
		return fmt.Sprintf("robotParam:%s", k.Field)
	case KindSolverSetting:
		return fmt.Sprintf("solverSetting:%s:%s", k.TrajectoryID, k.Field)
	}
	return fmt.Sprintf("invalid:%s", string(k.Kind))
}

// ParseKey parses the canonical string form back into a Key. In-process
// callers construct keys directly; parsing serves key strings arriving from
// outside the process, such as command-line arguments.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, ":")
	switch Kind(parts[0]) {
	case KindWaypoint:
		if len(parts) != 4 {
			return Key{}, fmt.Errorf("waypoint key %q: want 4 segments, got %d", s, len(parts))
		}
		index, err := strconv.Atoi(parts[2])
		if err != nil {
			return Key{}, fmt.Errorf("waypoint key %q: bad index: %w", s, err)
		}
		return WaypointKey(parts[1], index, parts[3]), nil
	case KindConstraint:
		if len(parts) != 4 {
			return Key{}, fmt.Errorf("constraint key %q: want 4 segments, got %d", s, len(parts))
		}
		return ConstraintKey(parts[1], parts[2], parts[3]), nil
	case KindRobotParam:
		if len(parts) != 2 {
			return Key{}, fmt.Errorf("robotParam key %q: want 2 segments, got %d", s, len(parts))
		}
		return RobotParamKey(parts[1]), nil
	case KindSolverSetting:
		if len(parts) != 3 {
			return Key{}, fmt.Errorf("solverSetting key %q: want 3 segments, got %d", s, len(parts))
		}
		return SolverSettingKey(parts[1], parts[2]), nil
	}
	return Key{}, fmt.Errorf("unknown binding key kind in %q", s)
}
