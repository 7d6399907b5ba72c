package persist

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Veratay/mecanum-trajopt/internal/binding"
	"github.com/Veratay/mecanum-trajopt/internal/graph"
	"github.com/Veratay/mecanum-trajopt/internal/project"
)

const expSuffix = "_exp"

// Marshal flattens a project and its bindings into canonical document
// bytes. updatedAt is stamped by the caller (the store uses UTC RFC 3339)
// so that marshaling itself stays deterministic.
//
// Cached solve results are deliberately not persisted: they are recomputed
// on demand and would otherwise dominate the document with sample arrays.
func Marshal(p *project.Project, reg *binding.Registry, updatedAt string) ([]byte, error) {
	doc := map[string]any{
		"name":         p.Name,
		"robot_params": robotDoc(p, reg),
	}
	if updatedAt != "" {
		doc["updatedAt"] = updatedAt
	}
	if p.LinkedFrom != "" {
		doc["linkedFrom"] = p.LinkedFrom
	}

	vars := p.Variables()
	if len(vars) > 0 {
		list := make([]any, 0, len(vars))
		for _, v := range vars {
			entry := map[string]any{"name": v.Name, "value": v.Value}
			if v.LinkedFrom != "" {
				entry["linkedFrom"] = v.LinkedFrom
			}
			list = append(list, entry)
		}
		doc["variables"] = list
	}

	if len(p.GroupNames) > 0 {
		names := make(map[string]any, len(p.GroupNames))
		for rootID, name := range p.GroupNames {
			names[rootID] = name
		}
		doc["groupNames"] = names
	}

	trajectories := make([]any, 0, len(p.Trajectories))
	for _, t := range p.Trajectories {
		trajectories = append(trajectories, trajectoryDoc(t, reg))
	}
	doc["trajectories"] = trajectories

	return marshalCanonical(doc)
}

func trajectoryDoc(t *project.Trajectory, reg *binding.Registry) map[string]any {
	doc := map[string]any{
		"id":              t.ID,
		"name":            t.Name,
		"solver_settings": solverSettingsDoc(t, reg),
	}
	if t.Follows != "" {
		doc["follows"] = t.Follows
	}

	waypoints := make([]any, 0, len(t.Waypoints))
	for i := range t.Waypoints {
		waypoints = append(waypoints, waypointDoc(t, i, reg))
	}
	doc["waypoints"] = waypoints

	constraints := make([]any, 0, len(t.Constraints))
	for _, c := range t.Constraints {
		constraints = append(constraints, constraintDoc(t.ID, c, reg))
	}
	doc["constraints"] = constraints

	return doc
}

func waypointDoc(t *project.Trajectory, index int, reg *binding.Registry) map[string]any {
	w := &t.Waypoints[index]
	doc := map[string]any{
		"stop": w.Stop,
		"type": string(w.Type),
	}
	for _, field := range project.WaypointFields() {
		value, _ := w.FieldValue(field)
		doc[field] = value
		if e, ok := reg.Get(binding.WaypointKey(t.ID, index, field)); ok {
			doc[field+expSuffix] = e
		}
	}
	return doc
}

func constraintDoc(trajectoryID string, c *project.Constraint, reg *binding.Registry) map[string]any {
	params := make(map[string]any, len(c.Params))
	for key, value := range c.Params {
		params[key] = value
		if e, ok := reg.Get(binding.ConstraintKey(trajectoryID, c.ID, key)); ok {
			params[key+expSuffix] = e
		}
	}
	return map[string]any{
		"id":           c.ID,
		"type":         string(c.Type),
		"fromWaypoint": float64(c.FromWaypoint),
		"toWaypoint":   float64(c.ToWaypoint),
		"enabled":      c.Enabled,
		"params":       params,
	}
}

func solverSettingsDoc(t *project.Trajectory, reg *binding.Registry) map[string]any {
	doc := make(map[string]any)
	for _, field := range project.SolverSettingFields() {
		value, _ := t.Settings.FieldValue(field)
		doc[field] = value
		if e, ok := reg.Get(binding.SolverSettingKey(t.ID, field)); ok {
			doc[field+expSuffix] = e
		}
	}
	return doc
}

func robotDoc(p *project.Project, reg *binding.Registry) map[string]any {
	doc := make(map[string]any)
	for _, field := range project.RobotParamFields() {
		value, _ := p.Robot.FieldValue(field)
		doc[field] = value
		if e, ok := reg.Get(binding.RobotParamKey(field)); ok {
			doc[field+expSuffix] = e
		}
	}
	return doc
}

// Load rebuilds a project and its binding registry from document bytes,
// then runs one re-evaluation pass so every computed value reflects the
// loaded variables before anything is rendered. A pass that moves a chain
// endpoint re-synchronizes that trajectory's followers. The pass result
// carries whatever per-binding errors the document arrived with; they are
// reported, not fatal.
func Load(data []byte) (*project.Project, *binding.Registry, binding.Result, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, binding.Result{}, fmt.Errorf("parse project document: %w", err)
	}

	p := project.New(docString(doc, "name"))
	p.LinkedFrom = docString(doc, "linkedFrom")
	reg := binding.NewRegistry()

	if raw, ok := doc["variables"].([]any); ok {
		for _, entry := range raw {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			p.RestoreVariable(project.Variable{
				Name:       docString(m, "name"),
				Value:      docNumber(m, "value"),
				LinkedFrom: docString(m, "linkedFrom"),
			})
		}
	}

	if raw, ok := doc["groupNames"].(map[string]any); ok {
		for rootID, name := range raw {
			if s, ok := name.(string); ok {
				p.GroupNames[rootID] = s
			}
		}
	}

	if raw, ok := doc["robot_params"].(map[string]any); ok {
		for _, field := range project.RobotParamFields() {
			if value, ok := raw[field].(float64); ok {
				p.Robot.SetFieldValue(field, value)
			}
		}
		extractShadows(raw, func(field, e string) {
			reg.Bind(binding.RobotParamKey(field), e)
		})
	}

	if raw, ok := doc["trajectories"].([]any); ok {
		for _, entry := range raw {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			p.AddTrajectory(loadTrajectory(m, reg))
		}
	}

	result := binding.ReevaluateAll(p, reg)
	graph.SyncChangedEndpoints(p, result.Changed)
	return p, reg, result, nil
}

func loadTrajectory(doc map[string]any, reg *binding.Registry) *project.Trajectory {
	t := &project.Trajectory{
		ID:       docString(doc, "id"),
		Name:     docString(doc, "name"),
		Follows:  docString(doc, "follows"),
		Settings: project.DefaultSolverSettings(),
	}

	if raw, ok := doc["solver_settings"].(map[string]any); ok {
		for _, field := range project.SolverSettingFields() {
			if value, ok := raw[field].(float64); ok {
				t.Settings.SetFieldValue(field, value)
			}
		}
		extractShadows(raw, func(field, e string) {
			reg.Bind(binding.SolverSettingKey(t.ID, field), e)
		})
	}

	if raw, ok := doc["waypoints"].([]any); ok {
		for i, entry := range raw {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			w := project.NewWaypoint(0, 0, 0)
			for _, field := range project.WaypointFields() {
				if value, ok := m[field].(float64); ok {
					w.SetFieldValue(field, value)
				}
			}
			if stop, ok := m["stop"].(bool); ok {
				w.Stop = stop
			}
			if wtype, ok := m["type"].(string); ok && wtype != "" {
				w.Type = project.WaypointType(wtype)
			}
			t.Waypoints = append(t.Waypoints, w)

			index := i
			extractShadows(m, func(field, e string) {
				reg.Bind(binding.WaypointKey(t.ID, index, field), e)
			})
		}
	}

	if raw, ok := doc["constraints"].([]any); ok {
		for _, entry := range raw {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			c := &project.Constraint{
				ID:           docString(m, "id"),
				Type:         project.ConstraintType(docString(m, "type")),
				FromWaypoint: int(docNumber(m, "fromWaypoint")),
				ToWaypoint:   int(docNumber(m, "toWaypoint")),
				Params:       make(map[string]float64),
				Enabled:      true,
			}
			if enabled, ok := m["enabled"].(bool); ok {
				c.Enabled = enabled
			}
			if params, ok := m["params"].(map[string]any); ok {
				for key, value := range params {
					if strings.HasSuffix(key, expSuffix) {
						continue
					}
					if number, ok := value.(float64); ok {
						c.Params[key] = number
					}
				}
				extractShadows(params, func(key, e string) {
					reg.Bind(binding.ConstraintKey(t.ID, c.ID, key), e)
				})
			}
			t.Constraints = append(t.Constraints, c)
		}
	}

	return t
}

// extractShadows calls fn for every "<field>_exp" key holding a non-empty
// expression string.
func extractShadows(doc map[string]any, fn func(field, expression string)) {
	for key, value := range doc {
		if !strings.HasSuffix(key, expSuffix) {
			continue
		}
		e, ok := value.(string)
		if !ok || e == "" {
			continue
		}
		fn(strings.TrimSuffix(key, expSuffix), e)
	}
}

func docString(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return s
}

func docNumber(doc map[string]any, key string) float64 {
	f, _ := doc[key].(float64)
	return f
}
