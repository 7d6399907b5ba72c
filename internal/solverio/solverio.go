// Package solverio is the boundary to the external trajectory solver: it
// assembles the solve request payload from the entity model and accepts
// solved results back into it. The actual network call lives outside the
// core; nothing here dials anything.
package solverio

import (
	"fmt"

	"github.com/Veratay/mecanum-trajopt/internal/graph"
	"github.com/Veratay/mecanum-trajopt/internal/project"
)

// WaypointPayload mirrors one waypoint in the solver's request schema.
type WaypointPayload struct {
	X                   float64 `json:"x"`
	Y                   float64 `json:"y"`
	Heading             float64 `json:"heading"`
	Stop                bool    `json:"stop"`
	VMax                float64 `json:"v_max"`
	OmegaMax            float64 `json:"omega_max"`
	Type                string  `json:"type"`
	IntakeX             float64 `json:"intake_x"`
	IntakeY             float64 `json:"intake_y"`
	IntakeDistance      float64 `json:"intake_distance"`
	IntakeVelocityMax   float64 `json:"intake_velocity_max"`
	IntakeVelocitySlack float64 `json:"intake_velocity_slack"`
}

// ConstraintPayload mirrors one active constraint.
type ConstraintPayload struct {
	ID           string             `json:"id"`
	Type         string             `json:"type"`
	FromWaypoint int                `json:"fromWaypoint"`
	ToWaypoint   int                `json:"toWaypoint"`
	Params       map[string]float64 `json:"params"`
	Enabled      bool               `json:"enabled"`
}

// RobotPayload mirrors the drivetrain parameters.
type RobotPayload struct {
	Mass                  float64 `json:"mass"`
	Inertia               float64 `json:"inertia"`
	WheelRadius           float64 `json:"wheel_radius"`
	LX                    float64 `json:"lx"`
	LY                    float64 `json:"ly"`
	WMax                  float64 `json:"w_max"`
	TMax                  float64 `json:"t_max"`
	FTractionMax          float64 `json:"f_traction_max"`
	KRollerViscous        float64 `json:"k_roller_viscous"`
	DefaultIntakeDistance float64 `json:"default_intake_distance"`
	DefaultIntakeVelocity float64 `json:"default_intake_velocity"`
}

// Request is the solve payload for one trajectory.
type Request struct {
	Waypoints            []WaypointPayload   `json:"waypoints"`
	Constraints          []ConstraintPayload `json:"constraints"`
	RobotParams          RobotPayload        `json:"robot_params"`
	SamplesPerMeter      float64             `json:"samples_per_meter"`
	MinSamplesPerSegment int                 `json:"min_samples_per_segment"`
	ControlEffortWeight  float64             `json:"control_effort_weight"`
}

// BuildRequest assembles the solve payload for a trajectory. Disabled
// constraints are dropped; everything else passes through verbatim, with a
// chained first waypoint carrying whatever synchronization last wrote into
// it. The solver needs at least two waypoints to have a path to optimize.
func BuildRequest(p *project.Project, trajectoryID string) (Request, error) {
	t, ok := p.Trajectory(trajectoryID)
	if !ok {
		return Request{}, fmt.Errorf("trajectory %q not found", trajectoryID)
	}
	if len(t.Waypoints) < 2 {
		return Request{}, fmt.Errorf("trajectory %q has %d waypoints, need at least 2", trajectoryID, len(t.Waypoints))
	}

	req := Request{
		RobotParams:          robotPayload(p.Robot),
		SamplesPerMeter:      t.Settings.SamplesPerMeter,
		MinSamplesPerSegment: t.Settings.MinSamplesPerSegment,
		ControlEffortWeight:  t.Settings.ControlEffortWeight,
	}

	for i := range t.Waypoints {
		w := &t.Waypoints[i]
		req.Waypoints = append(req.Waypoints, WaypointPayload{
			X:                   w.X,
			Y:                   w.Y,
			Heading:             w.Heading,
			Stop:                w.Stop,
			VMax:                w.VMax,
			OmegaMax:            w.OmegaMax,
			Type:                string(w.Type),
			IntakeX:             w.IntakeX,
			IntakeY:             w.IntakeY,
			IntakeDistance:      w.IntakeDistance,
			IntakeVelocityMax:   w.IntakeVelocityMax,
			IntakeVelocitySlack: w.IntakeVelocitySlack,
		})
	}

	for _, c := range t.Constraints {
		if !c.Enabled {
			continue
		}
		params := make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			params[k] = v
		}
		req.Constraints = append(req.Constraints, ConstraintPayload{
			ID:           c.ID,
			Type:         string(c.Type),
			FromWaypoint: c.FromWaypoint,
			ToWaypoint:   c.ToWaypoint,
			Params:       params,
			Enabled:      true,
		})
	}

	return req, nil
}

func robotPayload(r project.RobotParams) RobotPayload {
	return RobotPayload{
		Mass:                  r.Mass,
		Inertia:               r.Inertia,
		WheelRadius:           r.WheelRadius,
		LX:                    r.LX,
		LY:                    r.LY,
		WMax:                  r.WMax,
		TMax:                  r.TMax,
		FTractionMax:          r.FTractionMax,
		KRollerViscous:        r.KRollerViscous,
		DefaultIntakeDistance: r.DefaultIntakeDistance,
		DefaultIntakeVelocity: r.DefaultIntakeVelocity,
	}
}

// AcceptResult stores a completed solve on its trajectory and propagates
// the now-known endpoint to followers. Followers keep their own cached
// solves: a fresh predecessor solve does not by itself invalidate them, and
// downstream members beyond what synchronization touches are left alone.
func AcceptResult(p *project.Project, trajectoryID string, result *project.SolvedResult) error {
	t, ok := p.Trajectory(trajectoryID)
	if !ok {
		return fmt.Errorf("trajectory %q not found", trajectoryID)
	}
	t.Solved = result
	graph.SyncAllFollowers(p, trajectoryID, false)
	return nil
}
