package domain

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/planboard/internal/calendar"
)

type Project struct {
	ID                 int       `json:"id"`
	Name               string    `json:"name"`
	Owner              string    `json:"owner"`
	Tag                string    `json:"tag"`
	Image              string    `json:"image"`
	Start              string    `json:"start"`
	End                string    `json:"end"`
	Status             Status    `json:"status"`
	Dependencies       []int     `json:"dependencies"`
	Workflow           Workflow  `json:"workflow"`
	Subtasks           []Subtask `json:"subtasks"`
	Comments           []Comment `json:"comments"`
	CreatedAt          string    `json:"createdAt"`
	LastActivityAt     string    `json:"lastActivityAt"`
	LastActivitySource string    `json:"lastActivitySource,omitempty"`
}

type Comment struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
}

// DisplayID returns the "#n" label used in listings.
func (p *Project) DisplayID() string {
	return "#" + strconv.Itoa(p.ID)
}

// DisplayName falls back to the id label when the project is unnamed.
func (p *Project) DisplayName() string {
	if strings.TrimSpace(p.Name) == "" {
		return "Project " + p.DisplayID()
	}
	return p.Name
}

// Validate checks the fields a caller must supply when creating or editing.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name is required")
	}
	if p.Start != "" && !calendar.Valid(p.Start) {
		return fmt.Errorf("start date %q must be YYYY-MM-DD", p.Start)
	}
	if p.End != "" && !calendar.Valid(p.End) {
		return fmt.Errorf("end date %q must be YYYY-MM-DD", p.End)
	}
	for _, dep := range p.Dependencies {
		if dep == p.ID {
			return fmt.Errorf("project %s cannot depend on itself", p.DisplayID())
		}
	}
	return nil
}

// EnsureMetadata fills creation and activity timestamps when absent.
func (p *Project) EnsureMetadata(now time.Time) bool {
	changed := false
	if p.CreatedAt == "" {
		p.CreatedAt = now.UTC().Format(time.RFC3339)
		changed = true
	}
	if p.LastActivityAt == "" {
		p.LastActivityAt = p.CreatedAt
		changed = true
	}
	return changed
}

// TouchActivity records that source just mutated the project.
func (p *Project) TouchActivity(now time.Time, source string) {
	p.EnsureMetadata(now)
	p.LastActivityAt = now.UTC().Format(time.RFC3339)
	p.LastActivitySource = source
}

// Clone returns a deep copy sharing no slices with p.
func (p Project) Clone() Project {
	out := p
	out.Dependencies = slices.Clone(p.Dependencies)
	out.Workflow = p.Workflow.Clone()
	out.Subtasks = CloneSubtasks(p.Subtasks)
	out.Comments = slices.Clone(p.Comments)
	return out
}

// CloneProjects deep-copies a project collection.
func CloneProjects(projects []Project) []Project {
	if projects == nil {
		return nil
	}
	out := make([]Project, len(projects))
	for i := range projects {
		out[i] = projects[i].Clone()
	}
	return out
}

// FindProject returns a pointer into projects for id, or nil.
func FindProject(projects []Project, id int) *Project {
	for i := range projects {
		if projects[i].ID == id {
			return &projects[i]
		}
	}
	return nil
}

// NextProjectID returns one past the highest id in use.
func NextProjectID(projects []Project) int {
	max := 0
	for _, p := range projects {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

// ParseDependencies reads a comma separated id list. Non-numeric, non-positive,
// duplicate and self references are dropped.
func ParseDependencies(text string, self int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, part := range strings.Split(text, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n <= 0 || n == self || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// FormatDependencies is the inverse of ParseDependencies.
func FormatDependencies(deps []int) string {
	parts := make([]string, len(deps))
	for i, d := range deps {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ", ")
}

// SortByEnd orders projects by end date, then id. Undated projects sink.
func SortByEnd(projects []Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		a, b := projects[i].End, projects[j].End
		switch {
		case a == b:
			return projects[i].ID < projects[j].ID
		case a == "":
			return false
		case b == "":
			return true
		}
		return a < b
	})
}

// GroupByStatus buckets projects into board columns, each sorted by end date.
func GroupByStatus(projects []Project) map[Status][]Project {
	out := make(map[Status][]Project, len(Statuses))
	for _, p := range projects {
		s := p.Status
		if !s.Valid() {
			s = StatusPending
		}
		out[s] = append(out[s], p)
	}
	for _, s := range Statuses {
		SortByEnd(out[s])
	}
	return out
}
