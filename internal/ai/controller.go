package ai

import "time"

// Controller represents an AI controller driven by TickManager.
type Controller interface {
	// Start activates the controller (called on Register)
	Start()

	// Stop deactivates the controller (called on Unregister)
	Stop()

	// Tick advances the controller by dt of scaled game time
	Tick(dt time.Duration)
}

// Stepper is advanced before controllers on every frame (physics space).
type Stepper interface {
	Step(dt time.Duration)
}
