package workflow

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/planboard/internal/domain"
)

var allowedTransitions = map[domain.Status][]domain.Status{
	domain.StatusPending: {domain.StatusActive},
	domain.StatusActive:  {domain.StatusPending, domain.StatusDone},
	domain.StatusDone:    {domain.StatusActive, domain.StatusPending},
}

// Allowed reports whether the transition table permits from -> to.
func Allowed(from, to domain.Status) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanTransition checks, in order: identity, the transition table, unfinished
// dependencies (for any target other than pending), intake requirements for
// pending -> active, and intake then execution requirements for -> done.
func (e *Engine) CanTransition(p *domain.Project, target domain.Status, all []domain.Project) Decision {
	from := p.Status
	if !from.Valid() {
		from = domain.StatusPending
	}
	if !target.Valid() {
		return deny("unknown status %q", target)
	}
	if from == target {
		return allow()
	}
	if !Allowed(from, target) {
		return deny("cannot move from %s to %s", from.Label(), target.Label())
	}

	if target != domain.StatusPending {
		if blockers := e.gate.BlockingDependencies(p, all); len(blockers) > 0 {
			return deny("blocked by dependency: finish %s first", joinIDs(blockers))
		}
	}

	if from == domain.StatusPending && target == domain.StatusActive {
		if missing := e.MissingRequired(p, domain.PhaseIntake); len(missing) > 0 {
			return deny("complete intake before starting: %s", strings.Join(missing, ", "))
		}
	}

	if target == domain.StatusDone {
		if missing := e.MissingRequired(p, domain.PhaseIntake); len(missing) > 0 {
			return deny("complete intake before finishing: %s", strings.Join(missing, ", "))
		}
		if missing := e.MissingRequired(p, domain.PhaseExecution); len(missing) > 0 {
			return deny("complete execution before finishing: %s", strings.Join(missing, ", "))
		}
	}
	return allow()
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "#" + strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
