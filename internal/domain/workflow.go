package domain

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Task struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Done     bool   `json:"done"`
	Required bool   `json:"required"`
}

type Phase struct {
	Required                []Task   `json:"required"`
	Optional                []Task   `json:"optional"`
	DeletedDefaultOptionals []string `json:"deletedDefaultOptionals"`
}

type Workflow struct {
	Intake    Phase `json:"intake"`
	Execution Phase `json:"execution"`
}

// Phase returns the named phase, or nil for an unknown name.
func (w *Workflow) Phase(name PhaseName) *Phase {
	switch name {
	case PhaseIntake:
		return &w.Intake
	case PhaseExecution:
		return &w.Execution
	}
	return nil
}

func (w Workflow) Clone() Workflow {
	return Workflow{Intake: w.Intake.Clone(), Execution: w.Execution.Clone()}
}

// Clone copies every list, keeping nil and empty lists distinct so the
// copy encodes exactly like the original.
func (p Phase) Clone() Phase {
	return Phase{
		Required:                slices.Clone(p.Required),
		Optional:                slices.Clone(p.Optional),
		DeletedDefaultOptionals: slices.Clone(p.DeletedDefaultOptionals),
	}
}

// Tasks returns required then optional tasks.
func (p *Phase) Tasks() []Task {
	out := make([]Task, 0, len(p.Required)+len(p.Optional))
	out = append(out, p.Required...)
	return append(out, p.Optional...)
}

// FindTask locates a task by id in either list.
func (p *Phase) FindTask(id string) *Task {
	for i := range p.Required {
		if p.Required[i].ID == id {
			return &p.Required[i]
		}
	}
	for i := range p.Optional {
		if p.Optional[i].ID == id {
			return &p.Optional[i]
		}
	}
	return nil
}

// HasKey reports whether any task in the phase normalizes to key.
func (p *Phase) HasKey(key string) bool {
	for _, t := range p.Tasks() {
		if TaskKey(t.Name) == key {
			return true
		}
	}
	return false
}

// TaskKey reduces a name to its merge identity: lowercase, accents
// stripped, runs of anything other than a-z0-9 collapsed to one hyphen.
func TaskKey(name string) string {
	folded := cases.Lower(language.Und).String(strings.TrimSpace(name))
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if s, _, err := transform.String(stripper, folded); err == nil {
		folded = s
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
