package project

// RobotParams describes the mecanum drivetrain. These feed the solver's
// dynamics model and are project-wide (not per trajectory).
type RobotParams struct {
	Mass        float64
	Inertia     float64
	WheelRadius float64

	// LX and LY are the half wheelbase in each direction.
	LX float64
	LY float64

	// WMax and TMax are the motor free speed and stall torque.
	WMax float64
	TMax float64

	FTractionMax   float64
	KRollerViscous float64

	DefaultIntakeDistance float64
	DefaultIntakeVelocity float64
}

// DefaultRobotParams returns the stock 15kg mecanum robot.
func DefaultRobotParams() RobotParams {
	return RobotParams{
		Mass:                  15.0,
		Inertia:               0.5,
		WheelRadius:           0.05,
		LX:                    0.15,
		LY:                    0.15,
		WMax:                  100.0,
		TMax:                  1.0,
		FTractionMax:          20.0,
		KRollerViscous:        3.0,
		DefaultIntakeDistance: 0.5,
		DefaultIntakeVelocity: 1.0,
	}
}

// RobotParamFields returns the bindable robot parameter field names.
func RobotParamFields() []string {
	return []string{
		"mass", "inertia", "wheel_radius", "lx", "ly",
		"w_max", "t_max", "f_traction_max", "k_roller_viscous",
		"default_intake_distance", "default_intake_velocity",
	}
}

// FieldValue returns a bindable robot parameter by name.
func (r *RobotParams) FieldValue(name string) (float64, bool) {
	switch name {
	case "mass":
		return r.Mass, true
	case "inertia":
		return r.Inertia, true
	case "wheel_radius":
		return r.WheelRadius, true
	case "lx":
		return r.LX, true
	case "ly":
		return r.LY, true
	case "w_max":
		return r.WMax, true
	case "t_max":
		return r.TMax, true
	case "f_traction_max":
		return r.FTractionMax, true
	case "k_roller_viscous":
		return r.KRollerViscous, true
	case "default_intake_distance":
		return r.DefaultIntakeDistance, true
	case "default_intake_velocity":
		return r.DefaultIntakeVelocity, true
	}
	return 0, false
}

func (r *RobotParams) SetFieldValue(name string, value float64) bool {
	switch name {
	case "mass":
		r.Mass = value
	case "inertia":
		r.Inertia = value
	case "wheel_radius":
		r.WheelRadius = value
	case "lx":
		r.LX = value
	case "ly":
		r.LY = value
	case "w_max":
		r.WMax = value
	case "t_max":
		r.TMax = value
	case "f_traction_max":
		r.FTractionMax = value
	case "k_roller_viscous":
		r.KRollerViscous = value
	case "default_intake_distance":
		r.DefaultIntakeDistance = value
	case "default_intake_velocity":
		r.DefaultIntakeVelocity = value
	default:
		return false
	}
	return true
}
