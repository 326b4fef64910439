package domain

type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusDone    Status = "done"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusPending, StatusActive, StatusDone}

// Valid reports whether s is one of the three lifecycle statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusDone:
		return true
	}
	return false
}

// Rank orders statuses along the lifecycle. Unknown statuses rank as pending.
func (s Status) Rank() int {
	switch s {
	case StatusActive:
		return 1
	case StatusDone:
		return 2
	}
	return 0
}

// Percent is the completion a status implies on its own.
func (s Status) Percent() int {
	switch s {
	case StatusActive:
		return 60
	case StatusDone:
		return 100
	}
	return 20
}

func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "In progress"
	case StatusDone:
		return "Done"
	}
	return "Pending"
}

// ParseStatus maps user or legacy text onto a Status.
func ParseStatus(text string) (Status, bool) {
	switch Status(text) {
	case StatusPending, StatusActive, StatusDone:
		return Status(text), true
	}
	switch text {
	case "pendiente":
		return StatusPending, true
	case "proceso", "en-proceso", "in-progress", "in_progress":
		return StatusActive, true
	case "terminado", "completado", "completed":
		return StatusDone, true
	}
	return "", false
}

type PhaseName string

const (
	PhaseIntake    PhaseName = "intake"
	PhaseExecution PhaseName = "execution"
)

// Phases lists the workflow phases in order.
var Phases = []PhaseName{PhaseIntake, PhaseExecution}

func (p PhaseName) Valid() bool {
	return p == PhaseIntake || p == PhaseExecution
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)
