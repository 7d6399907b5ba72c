package graph

import "github.com/Veratay/mecanum-trajopt/internal/project"

// TrajectoryChain returns the full chain containing id, ordered root to
// leaf. The walk first follows predecessor pointers back to the root, then
// walks forward by finding, at each step, the trajectory that follows the
// current one (at most one exists by editing convention). Revisit guards on
// both walks keep residual cycles from hanging the traversal.
func TrajectoryChain(p *project.Project, id string) []*project.Trajectory {
	t, ok := p.Trajectory(id)
	if !ok {
		return nil
	}

	// Walk backward to the chain root.
	visited := map[string]bool{t.ID: true}
	root := t
	for root.Follows != "" {
		pred, ok := p.Trajectory(root.Follows)
		if !ok || visited[pred.ID] {
			break
		}
		visited[pred.ID] = true
		root = pred
	}

	return forwardChain(p, root)
}

// forwardChain walks follower pointers from a root, appending until no
// trajectory follows the current one or a revisit occurs.
func forwardChain(p *project.Project, root *project.Trajectory) []*project.Trajectory {
	chain := []*project.Trajectory{root}
	seen := map[string]bool{root.ID: true}

	current := root
	for {
		next := followerOf(p, current.ID)
		if next == nil || seen[next.ID] {
			return chain
		}
		seen[next.ID] = true
		chain = append(chain, next)
		current = next
	}
}

// followerOf finds the trajectory whose follows edge points at id, nil when
// none does. The editing rules allow at most one; if stale data has
// several, the first in project order wins, matching display order.
func followerOf(p *project.Project, id string) *project.Trajectory {
	for _, t := range p.Trajectories {
		if t.Follows == id {
			return t
		}
	}
	return nil
}

// Group is one display chain: a root trajectory, its transitive followers
// in order, and the user-assigned name keyed by the root's id ("" when
// unnamed).
type Group struct {
	RootID  string
	Name    string
	Members []*project.Trajectory
}

// ComputeGroups partitions every trajectory into chain groups. Each
// trajectory with no follows edge roots a group built by the forward walk.
// Anything left unassigned afterwards can only be a member of a residual
// cycle that excludes all roots (data from saves predating cycle
// rejection); each such trajectory becomes its own singleton group so the
// project stays fully displayable.
func ComputeGroups(p *project.Project) []Group {
	assigned := make(map[string]bool)
	var groups []Group

	for _, t := range p.Trajectories {
		if t.Follows != "" {
			continue
		}
		members := forwardChain(p, t)
		for _, m := range members {
			assigned[m.ID] = true
		}
		groups = append(groups, Group{
			RootID:  t.ID,
			Name:    p.GroupNames[t.ID],
			Members: members,
		})
	}

	for _, t := range p.Trajectories {
		if assigned[t.ID] {
			continue
		}
		assigned[t.ID] = true
		groups = append(groups, Group{
			RootID:  t.ID,
			Name:    p.GroupNames[t.ID],
			Members: []*project.Trajectory{t},
		})
	}

	return groups
}
