package app

import "github.com/alexanderramin/planboard/internal/domain"

// Result is what every mutation entry point reports. Validation failures
// come back with OK false and a message; persistence failures additionally
// return an error from the call.
type Result struct {
	OK       bool
	Message  string
	Degraded bool
}

func Succeeded() Result { return Result{OK: true} }

func Failed(message string) Result { return Result{Message: message} }

// ScheduleTarget names the row whose dates an edit applies to. An empty
// SubtaskID targets the project itself.
type ScheduleTarget struct {
	ProjectID int
	SubtaskID string
}

func (t ScheduleTarget) IsSubtask() bool { return t.SubtaskID != "" }

// ProjectInput carries the fields of a new project.
type ProjectInput struct {
	Name         string
	Owner        string
	Tag          string
	Image        string
	Start        string
	End          string
	Dependencies []int
}

// ProjectPatch holds direct field edits. Nil fields are left unchanged.
type ProjectPatch struct {
	Name  *string
	Owner *string
	Tag   *string
	Image *string
	End   *string
}

// Merge overlays later edits on top of p.
func (p ProjectPatch) Merge(later ProjectPatch) ProjectPatch {
	if later.Name != nil {
		p.Name = later.Name
	}
	if later.Owner != nil {
		p.Owner = later.Owner
	}
	if later.Tag != nil {
		p.Tag = later.Tag
	}
	if later.Image != nil {
		p.Image = later.Image
	}
	if later.End != nil {
		p.End = later.End
	}
	return p
}

func (p ProjectPatch) Empty() bool {
	return p.Name == nil && p.Owner == nil && p.Tag == nil && p.Image == nil && p.End == nil
}

// SubtaskInput describes a subtask to add.
type SubtaskInput struct {
	ParentID string
	Name     string
	Status   domain.Status
	Start    string
	End      string
}

// SubtaskPatch edits a subtask. Nil fields are left unchanged.
type SubtaskPatch struct {
	Name   *string
	Status *domain.Status
	Start  *string
	End    *string
}

// RiskSummary is the read model for one project's risk.
type RiskSummary struct {
	ProjectID    int
	ProjectName  string
	Level        domain.RiskLevel
	Score        int
	Alerts       []string
	Progress     int
	DelayPercent int
	DaysLeft     *int
}
