package graph

import (
	"fmt"

	"github.com/Veratay/mecanum-trajopt/internal/binding"
	"github.com/Veratay/mecanum-trajopt/internal/project"
)

// ViolationCode categorizes refused follows-edge mutations.
type ViolationCode string

const (
	// ViolationNotFound indicates a missing follower or target trajectory.
	ViolationNotFound ViolationCode = "NOT_FOUND"

	// ViolationSelfFollow indicates an edge from a trajectory to itself.
	ViolationSelfFollow ViolationCode = "SELF_FOLLOW"

	// ViolationBadFollowerStart indicates the follower cannot be chained:
	// its first waypoint is missing or not heading-constrained.
	ViolationBadFollowerStart ViolationCode = "BAD_FOLLOWER_START"

	// ViolationBadTargetEnd indicates the target cannot be continued from:
	// its last waypoint is missing or is an intake waypoint.
	ViolationBadTargetEnd ViolationCode = "BAD_TARGET_END"

	// ViolationWouldCycle indicates the edge would close a follows cycle.
	ViolationWouldCycle ViolationCode = "WOULD_CYCLE"
)

// Violation describes why an edge mutation was refused. The model is left
// unchanged in every case.
type Violation struct {
	Code    ViolationCode
	Message string
}

// Error implements the error interface.
func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", v.Code, v.Message)
}

func violation(code ViolationCode, format string, args ...any) *Violation {
	return &Violation{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CanFollow reports whether a trajectory may be chained onto a predecessor:
// it needs at least one waypoint and its first waypoint must be
// heading-constrained, because that pose is about to be overwritten by
// synchronization.
func CanFollow(p *project.Project, id string) bool {
	t, ok := p.Trajectory(id)
	if !ok {
		return false
	}
	first := t.FirstWaypoint()
	return first != nil && first.Type == project.WaypointConstrained
}

// CanBeFollowed reports whether a trajectory may serve as a predecessor: it
// needs at least one waypoint and its last waypoint must be constrained or
// unconstrained. Intake endpoints cannot be continued from.
func CanBeFollowed(p *project.Project, id string) bool {
	t, ok := p.Trajectory(id)
	if !ok {
		return false
	}
	last := t.LastWaypoint()
	if last == nil {
		return false
	}
	return last.Type == project.WaypointConstrained || last.Type == project.WaypointUnconstrained
}

// WouldCreateCycle walks the follows pointers starting at targetID and
// reports whether followerID is reachable. A revisit among already-walked
// ids also counts: a pre-existing pointer cycle (possible only in data from
// old saves) disqualifies the edge rather than hanging the walk.
func WouldCreateCycle(p *project.Project, followerID, targetID string) bool {
	visited := make(map[string]bool)
	current := targetID
	for current != "" {
		if current == followerID {
			return true
		}
		if visited[current] {
			return true
		}
		visited[current] = true
		t, ok := p.Trajectory(current)
		if !ok {
			return false
		}
		current = t.Follows
	}
	return false
}

// SetFollows sets or clears a trajectory's follows edge.
//
// Clearing (targetID == "") is always legal. Setting is refused, as a
// no-op, when the edge would be self-referential, either endpoint is
// unsuitable, or the edge would close a cycle. On success the follower's
// first waypoint is synchronized from the new predecessor and the
// follower's cached solve is discarded.
//
// A nil return means the mutation was applied.
func SetFollows(p *project.Project, id, targetID string) *Violation {
	t, ok := p.Trajectory(id)
	if !ok {
		return violation(ViolationNotFound, "trajectory %q not found", id)
	}

	if targetID == "" {
		t.Follows = ""
		return nil
	}

	if targetID == id {
		return violation(ViolationSelfFollow, "trajectory %q cannot follow itself", id)
	}
	if _, ok := p.Trajectory(targetID); !ok {
		return violation(ViolationNotFound, "trajectory %q not found", targetID)
	}
	if !CanFollow(p, id) {
		return violation(ViolationBadFollowerStart,
			"trajectory %q needs a constrained first waypoint to follow another", id)
	}
	if !CanBeFollowed(p, targetID) {
		return violation(ViolationBadTargetEnd,
			"trajectory %q does not end in a chainable waypoint", targetID)
	}
	if WouldCreateCycle(p, id, targetID) {
		return violation(ViolationWouldCycle,
			"trajectory %q is already downstream of %q", targetID, id)
	}

	t.Follows = targetID
	SyncChainedWaypoint(p, id)
	t.InvalidateSolve()
	return nil
}

// SyncChainedWaypoint copies the predecessor's endpoint into the follower's
// first waypoint. Position always comes from the predecessor's last
// waypoint. Heading comes from the last solve sample when the predecessor
// ends unconstrained and has a solve (the solver chose that heading);
// otherwise it is the literal waypoint heading. No-op when the trajectory
// follows nothing or either side has no waypoints.
func SyncChainedWaypoint(p *project.Project, id string) {
	t, ok := p.Trajectory(id)
	if !ok || t.Follows == "" || len(t.Waypoints) == 0 {
		return
	}
	pred, ok := p.Trajectory(t.Follows)
	if !ok {
		return
	}
	last := pred.LastWaypoint()
	if last == nil {
		return
	}

	heading := last.Heading
	if last.Type == project.WaypointUnconstrained {
		if solved, ok := pred.Solved.FinalHeading(); ok {
			heading = solved
		}
	}

	first := &t.Waypoints[0]
	first.X = last.X
	first.Y = last.Y
	first.Heading = heading
}

// SyncAllFollowers re-synchronizes every transitive follower of id after
// its endpoint changed. invalidate chooses the policy: a manual edit
// discards each follower's cached solve, while a fresh solve landing on the
// predecessor does not (the follower's solve may still match the endpoint
// numerically). A revisit guard keeps the walk finite on residual cycles.
func SyncAllFollowers(p *project.Project, id string, invalidate bool) {
	visited := make(map[string]bool)
	syncFollowers(p, id, invalidate, visited)
}

func syncFollowers(p *project.Project, id string, invalidate bool, visited map[string]bool) {
	if visited[id] {
		return
	}
	visited[id] = true

	for _, t := range p.Trajectories {
		if t.Follows != id {
			continue
		}
		SyncChainedWaypoint(p, t.ID)
		if invalidate {
			t.InvalidateSolve()
		}
		syncFollowers(p, t.ID, invalidate, visited)
	}
}

// SyncChangedEndpoints propagates a re-evaluation pass into the chain
// graph. A changed key matters only when it moved the pose of the last
// waypoint of a trajectory something follows; each such trajectory has its
// followers re-synchronized once, with their cached solves discarded.
func SyncChangedEndpoints(p *project.Project, changed []binding.Key) {
	synced := make(map[string]bool)
	for _, key := range changed {
		if key.Kind != binding.KindWaypoint || synced[key.TrajectoryID] {
			continue
		}
		switch key.Field {
		case "x", "y", "heading":
		default:
			continue
		}
		t, ok := p.Trajectory(key.TrajectoryID)
		if !ok || key.WaypointIndex != len(t.Waypoints)-1 {
			continue
		}
		if !p.HasFollower(t.ID) {
			continue
		}
		synced[t.ID] = true
		SyncAllFollowers(p, t.ID, true)
	}
}
