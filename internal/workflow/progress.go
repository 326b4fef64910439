package workflow

import (
	"math"

	"github.com/alexanderramin/planboard/internal/domain"
)

// MissingRequired lists required tasks of the phase that are not done.
func (e *Engine) MissingRequired(p *domain.Project, phase domain.PhaseName) []string {
	ph := p.Workflow.Phase(phase)
	if ph == nil {
		return nil
	}
	var missing []string
	for _, t := range ph.Required {
		if !t.Done {
			missing = append(missing, t.Name)
		}
	}
	return missing
}

// PhaseCounters counts required and optional tasks of a phase together.
func (e *Engine) PhaseCounters(p *domain.Project, phase domain.PhaseName) (total, done int) {
	ph := p.Workflow.Phase(phase)
	if ph == nil {
		return 0, 0
	}
	for _, t := range ph.Tasks() {
		total++
		if t.Done {
			done++
		}
	}
	return total, done
}

// Progress blends required completion of both phases (50 points each) with a
// bonus of up to 10 points for optional tasks, clamped to 0..100.
func (e *Engine) Progress(p *domain.Project) int {
	intake := requiredRatio(p.Workflow.Intake)
	execution := requiredRatio(p.Workflow.Execution)
	required := int(math.Round(intake*50 + execution*50))

	optTotal, optDone := 0, 0
	for _, ph := range []domain.Phase{p.Workflow.Intake, p.Workflow.Execution} {
		for _, t := range ph.Optional {
			optTotal++
			if t.Done {
				optDone++
			}
		}
	}
	bonus := 0
	if optTotal > 0 {
		bonus = min(10, int(math.Round(float64(optDone)/float64(optTotal)*10)))
	}
	return clamp(required+bonus, 0, 100)
}

func requiredRatio(ph domain.Phase) float64 {
	if len(ph.Required) == 0 {
		return 1
	}
	done := 0
	for _, t := range ph.Required {
		if t.Done {
			done++
		}
	}
	return float64(done) / float64(len(ph.Required))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}

// DeriveStatus is the status the checklist alone justifies.
func (e *Engine) DeriveStatus(p *domain.Project) domain.Status {
	if len(e.MissingRequired(p, domain.PhaseIntake)) > 0 {
		return domain.StatusPending
	}
	if len(e.MissingRequired(p, domain.PhaseExecution)) > 0 {
		return domain.StatusActive
	}
	return domain.StatusDone
}

// ApplyAutoRegression lowers p.Status to the derived status when the
// checklist no longer supports it. It never raises the status.
func (e *Engine) ApplyAutoRegression(p *domain.Project) bool {
	derived := e.DeriveStatus(p)
	if !p.Status.Valid() {
		p.Status = domain.StatusPending
	}
	if derived.Rank() < p.Status.Rank() {
		p.Status = derived
		return true
	}
	return false
}

// ResetPhase clears every done flag in the phase.
func (e *Engine) ResetPhase(p *domain.Project, phase domain.PhaseName) bool {
	ph := p.Workflow.Phase(phase)
	if ph == nil {
		return false
	}
	changed := false
	for i := range ph.Required {
		changed = changed || ph.Required[i].Done
		ph.Required[i].Done = false
	}
	for i := range ph.Optional {
		changed = changed || ph.Optional[i].Done
		ph.Optional[i].Done = false
	}
	return changed
}
