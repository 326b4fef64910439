package importer

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/workflow"
)

// legacyTasks maps checklist ids of the first release to their current id
// and name.
var legacyTasks = map[string]workflow.TaskDef{
	"pendiente-materiales": {ID: "intake-materials", Name: "Materials"},
	"pendiente-planos":     {ID: "intake-blueprints", Name: "Blueprints"},
	"pendiente-validar":    {ID: "intake-validate", Name: "Validate"},
}

var phasePrefixes = map[string]string{
	"pendiente-": "intake-",
	"proceso-":   "execution-",
}

// fields is one JSON object keyed by field name. Accessors take aliases and
// return the first present one.
type fields map[string]json.RawMessage

func (f fields) raw(keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		if v, ok := f[k]; ok && string(v) != "null" {
			return v, true
		}
	}
	return nil, false
}

// str reads a string, or a number rendered as text.
func (f fields) str(keys ...string) string {
	v, ok := f.raw(keys...)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String()
	}
	return ""
}

func (f fields) integer(keys ...string) (int, bool) {
	text := f.str(keys...)
	if text == "" {
		return 0, false
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (f fields) boolean(keys ...string) (bool, bool) {
	v, ok := f.raw(keys...)
	if !ok {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(v, &b); err != nil {
		return false, false
	}
	return b, true
}

func (f fields) list(keys ...string) []fields {
	v, ok := f.raw(keys...)
	if !ok {
		return nil
	}
	var out []fields
	if err := json.Unmarshal(v, &out); err != nil {
		return nil
	}
	return out
}

func (f fields) object(keys ...string) fields {
	v, ok := f.raw(keys...)
	if !ok {
		return nil
	}
	var out fields
	if err := json.Unmarshal(v, &out); err != nil {
		return nil
	}
	return out
}

func (f fields) isList(keys ...string) bool {
	v, ok := f.raw(keys...)
	return ok && len(v) > 0 && v[0] == '['
}

// ints reads a list of ids given as numbers, numeric strings, or one comma
// separated string.
func (f fields) ints(keys ...string) []int {
	v, ok := f.raw(keys...)
	if !ok {
		return nil
	}
	var text string
	if err := json.Unmarshal(v, &text); err == nil {
		return domain.ParseDependencies(text, 0)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		return nil
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, strings.Trim(string(item), `" `))
	}
	return domain.ParseDependencies(strings.Join(parts, ","), 0)
}

func convertProject(index int, f fields) Record {
	r := Record{Index: index, RawStatus: f.str("status", "estado")}
	id, _ := f.integer("id")
	status, ok := domain.ParseStatus(r.RawStatus)
	if !ok {
		status = domain.StatusPending
	}
	r.Project = domain.Project{
		ID:                 id,
		Name:               f.str("name", "nombre"),
		Owner:              f.str("owner", "responsable"),
		Tag:                f.str("tag", "etiqueta"),
		Image:              f.str("image", "imagen"),
		Start:              f.str("start", "fechaInicio"),
		End:                f.str("end", "fechaFin"),
		Status:             status,
		Dependencies:       f.ints("dependencies", "dependencias"),
		Subtasks:           convertSubtasks(f.list("subtasks", "subtareas")),
		Comments:           convertComments(f.list("comments", "comentarios")),
		CreatedAt:          f.str("createdAt"),
		LastActivityAt:     f.str("lastActivityAt"),
		LastActivitySource: f.str("lastActivitySource"),
	}

	wf := f.object("workflow")
	r.Intake = convertPhase(wf, "intake", "pendiente")
	r.Execution = convertPhase(wf, "execution", "proceso")
	for _, t := range f.list("tasks", "tareas") {
		r.Legacy = append(r.Legacy, convertTask(t, false))
	}
	return r
}

func convertPhase(wf fields, keys ...string) workflow.PhaseInput {
	var in workflow.PhaseInput
	if wf == nil {
		return in
	}
	if wf.isList(keys...) {
		for _, t := range wf.list(keys...) {
			in.Tasks = append(in.Tasks, convertTask(t, false))
		}
		return in
	}
	phase := wf.object(keys...)
	if phase == nil {
		return in
	}
	for _, t := range phase.list("required", "requeridas") {
		in.Tasks = append(in.Tasks, convertTask(t, true))
	}
	for _, t := range phase.list("optional", "opcionales") {
		in.Tasks = append(in.Tasks, convertTask(t, false))
	}
	for _, t := range phase.list("tasks", "tareas") {
		in.Tasks = append(in.Tasks, convertTask(t, false))
	}
	if v, ok := phase.raw("deletedDefaultOptionals"); ok {
		var ids []string
		if err := json.Unmarshal(v, &ids); err == nil {
			for _, id := range ids {
				in.DeletedDefaultOptionals = append(in.DeletedDefaultOptionals, canonicalTaskID(id))
			}
		}
	}
	return in
}

func convertTask(f fields, required bool) workflow.RawTask {
	t := workflow.RawTask{
		ID:       canonicalTaskID(f.str("id")),
		Name:     f.str("name", "nombre"),
		Required: required,
	}
	if def, ok := legacyTasks[f.str("id")]; ok && sameKey(t.Name, legacyName(def.ID)) {
		t.Name = def.Name
	}
	if r, ok := f.boolean("required"); ok {
		t.Required = t.Required || r
	}
	if done, ok := f.boolean("done", "completada"); ok {
		t.Done = done
	} else if s, ok := domain.ParseStatus(f.str("status", "estado")); ok {
		t.Done = s == domain.StatusDone
	}
	return t
}

// canonicalTaskID rewrites ids carrying a legacy phase prefix.
func canonicalTaskID(id string) string {
	if def, ok := legacyTasks[id]; ok {
		return def.ID
	}
	for old, repl := range phasePrefixes {
		if rest, ok := strings.CutPrefix(id, old); ok {
			return repl + rest
		}
	}
	return id
}

// legacyName is the Spanish default name for a canonical default task id.
func legacyName(id string) string {
	switch id {
	case "intake-materials":
		return "Materiales"
	case "intake-blueprints":
		return "Planos"
	case "intake-validate":
		return "Validar"
	}
	return ""
}

func sameKey(a, b string) bool {
	return domain.TaskKey(a) == domain.TaskKey(b)
}

func convertSubtasks(items []fields) []domain.Subtask {
	if items == nil {
		return nil
	}
	out := make([]domain.Subtask, 0, len(items))
	for _, f := range items {
		status, ok := domain.ParseStatus(f.str("status", "estado"))
		if !ok {
			status = domain.StatusPending
		}
		out = append(out, domain.Subtask{
			ID:       f.str("id"),
			Name:     f.str("name", "nombre"),
			Status:   status,
			Start:    f.str("start", "fechaInicio"),
			End:      f.str("end", "fechaFin"),
			Children: convertSubtasks(f.list("children", "subtareas")),
		})
	}
	return out
}

func convertComments(items []fields) []domain.Comment {
	if items == nil {
		return nil
	}
	out := make([]domain.Comment, 0, len(items))
	for i, f := range items {
		body := f.str("body", "texto", "text")
		if body == "" {
			continue
		}
		out = append(out, domain.Comment{
			ID:        domain.CoalesceStr(f.str("id"), "comment-"+strconv.Itoa(i+1)),
			Author:    domain.CoalesceStr(f.str("author", "autor"), "Anonymous"),
			Body:      body,
			CreatedAt: f.str("createdAt", "fecha"),
		})
	}
	return out
}

// Build returns the record's project with its checklist normalized by e.
func (r Record) Build(e *workflow.Engine) domain.Project {
	p := r.Project.Clone()
	p.Workflow = domain.Workflow{
		Intake:    e.NormalizePhase(domain.PhaseIntake, r.Intake, r.Legacy),
		Execution: e.NormalizePhase(domain.PhaseExecution, r.Execution, nil),
	}
	return p
}
