// Package workflow maintains the two-phase project checklist, derives
// progress from it and gates status transitions on it.
package workflow

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/alexanderramin/planboard/internal/domain"
)

// RawTask is the canonical ingestion shape for checklist entries. Every
// persisted or legacy task passes through it exactly once on its way into a
// domain.Phase.
type RawTask struct {
	ID       string
	Name     string
	Done     bool
	Required bool
}

// PhaseInput is what a phase is rebuilt from.
type PhaseInput struct {
	Tasks                   []RawTask
	DeletedDefaultOptionals []string
}

// DependencyGate answers which dependencies of p are still unfinished.
type DependencyGate interface {
	BlockingDependencies(p *domain.Project, all []domain.Project) []int
}

// GateFunc adapts a function to DependencyGate.
type GateFunc func(p *domain.Project, all []domain.Project) []int

func (f GateFunc) BlockingDependencies(p *domain.Project, all []domain.Project) []int {
	return f(p, all)
}

// Engine applies a Config to projects.
type Engine struct {
	cfg  Config
	gate DependencyGate
}

// NewEngine builds an engine. A nil gate never reports blocking dependencies.
func NewEngine(cfg Config, gate DependencyGate) *Engine {
	if gate == nil {
		gate = GateFunc(func(*domain.Project, []domain.Project) []int { return nil })
	}
	return &Engine{cfg: cfg, gate: gate}
}

func (e *Engine) Config() Config { return e.cfg }

// NormalizePhase rebuilds a phase from raw input. Required tasks come strictly
// from configuration, taking their done flag from the first matching input.
// Required-flagged inputs with no definition are kept as required. Everything
// else becomes optional, deduplicated by name key.
func (e *Engine) NormalizePhase(phase domain.PhaseName, in PhaseInput, legacy []RawTask) domain.Phase {
	pc := e.cfg.Phase(phase)
	inputs := sanitizeTasks(append(append([]RawTask(nil), in.Tasks...), legacy...))
	consumed := make([]bool, len(inputs))

	match := func(def TaskDef) *RawTask {
		defKey, defIDKey := domain.TaskKey(def.Name), domain.TaskKey(def.ID)
		for i := range inputs {
			if consumed[i] {
				continue
			}
			t := &inputs[i]
			if (t.ID != "" && domain.TaskKey(t.ID) == defIDKey) || domain.TaskKey(t.Name) == defKey {
				consumed[i] = true
				return t
			}
		}
		return nil
	}

	out := domain.Phase{Required: []domain.Task{}, Optional: []domain.Task{}}
	keys := make(map[string]bool)
	ids := make(map[string]bool)

	for _, def := range pc.Required {
		t := domain.Task{ID: def.ID, Name: def.Name, Required: true}
		if m := match(def); m != nil {
			t.Done = m.Done
		}
		out.Required = append(out.Required, t)
		keys[domain.TaskKey(def.Name)] = true
		ids[def.ID] = true
	}

	for i, raw := range inputs {
		if consumed[i] || !raw.Required {
			continue
		}
		key := domain.TaskKey(raw.Name)
		if keys[key] {
			continue
		}
		consumed[i] = true
		keys[key] = true
		id := uniqueID(ids, domain.CoalesceStr(raw.ID, requiredTaskID(phase, raw.Name)))
		out.Required = append(out.Required, domain.Task{ID: id, Name: raw.Name, Done: raw.Done, Required: true})
	}

	deleted := make(map[string]bool)
	for _, id := range in.DeletedDefaultOptionals {
		if id == "" || deleted[id] {
			continue
		}
		deleted[id] = true
		out.DeletedDefaultOptionals = append(out.DeletedDefaultOptionals, id)
	}
	if out.DeletedDefaultOptionals == nil {
		out.DeletedDefaultOptionals = []string{}
	}

	pushOptional := func(id, name string, done bool) {
		key := domain.TaskKey(name)
		if key == "" || keys[key] {
			return
		}
		keys[key] = true
		id = uniqueID(ids, domain.CoalesceStr(id, optionalTaskID(phase, name)))
		out.Optional = append(out.Optional, domain.Task{ID: id, Name: name, Done: done})
	}

	for _, def := range pc.DefaultOptional {
		if deleted[def.ID] {
			continue
		}
		name, done := def.Name, false
		if m := match(def); m != nil {
			name, done = m.Name, m.Done
		}
		pushOptional(def.ID, name, done)
	}

	for i, raw := range inputs {
		if consumed[i] || deleted[raw.ID] {
			continue
		}
		pushOptional(raw.ID, raw.Name, raw.Done)
	}
	return out
}

// NormalizeWorkflow re-normalizes both phases of p from its current state.
// legacy tasks are folded into the intake phase. Reports whether anything
// changed.
func (e *Engine) NormalizeWorkflow(p *domain.Project, legacy []RawTask) bool {
	next := domain.Workflow{
		Intake:    e.NormalizePhase(domain.PhaseIntake, inputFromPhase(p.Workflow.Intake), legacy),
		Execution: e.NormalizePhase(domain.PhaseExecution, inputFromPhase(p.Workflow.Execution), nil),
	}
	if sameJSON(p.Workflow, next) {
		return false
	}
	p.Workflow = next
	return true
}

// DefaultWorkflow is the checklist a new project starts with.
func (e *Engine) DefaultWorkflow() domain.Workflow {
	return domain.Workflow{
		Intake:    e.NormalizePhase(domain.PhaseIntake, PhaseInput{}, nil),
		Execution: e.NormalizePhase(domain.PhaseExecution, PhaseInput{}, nil),
	}
}

func inputFromPhase(ph domain.Phase) PhaseInput {
	in := PhaseInput{DeletedDefaultOptionals: ph.DeletedDefaultOptionals}
	for _, t := range ph.Required {
		in.Tasks = append(in.Tasks, RawTask{ID: t.ID, Name: t.Name, Done: t.Done, Required: true})
	}
	for _, t := range ph.Optional {
		in.Tasks = append(in.Tasks, RawTask{ID: t.ID, Name: t.Name, Done: t.Done})
	}
	return in
}

func sanitizeTasks(raw []RawTask) []RawTask {
	out := make([]RawTask, 0, len(raw))
	for _, t := range raw {
		t.Name = strings.TrimSpace(t.Name)
		t.ID = strings.TrimSpace(t.ID)
		if t.Name == "" || domain.TaskKey(t.Name) == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

func uniqueID(taken map[string]bool, id string) string {
	candidate := id
	for n := 2; taken[candidate]; n++ {
		candidate = id + "-" + strconv.Itoa(n)
	}
	taken[candidate] = true
	return candidate
}

func sameJSON(a, b any) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	return errA == nil && errB == nil && string(ja) == string(jb)
}
