package importer

import (
	"fmt"

	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/domain"
)

// ValidateDocument checks a parsed document before it is imported and
// returns every problem found. Problems the normalizer repairs on its own,
// like missing dates, are not reported.
func ValidateDocument(doc *Document) []error {
	var errs []error

	ids := make(map[int]bool, len(doc.Records))
	for _, r := range doc.Records {
		ids[r.Project.ID] = true
	}

	seen := make(map[int]bool, len(doc.Records))
	for _, r := range doc.Records {
		prefix := fmt.Sprintf("projects[%d]", r.Index)
		p := r.Project

		if !r.assignedID {
			if seen[p.ID] {
				errs = append(errs, fmt.Errorf("%s.id: duplicate id %d", prefix, p.ID))
			}
			seen[p.ID] = true
		}
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if r.RawStatus != "" {
			if _, ok := domain.ParseStatus(r.RawStatus); !ok {
				errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, r.RawStatus))
			}
		}
		errs = append(errs, validateOptionalDate(prefix+".start", p.Start)...)
		errs = append(errs, validateOptionalDate(prefix+".end", p.End)...)
		if calendar.Valid(p.Start) && calendar.Valid(p.End) && calendar.Before(p.End, p.Start) {
			errs = append(errs, fmt.Errorf("%s.end %q is before start %q", prefix, p.End, p.Start))
		}
		for _, dep := range p.Dependencies {
			switch {
			case dep == p.ID:
				errs = append(errs, fmt.Errorf("%s.dependencies: project cannot depend on itself", prefix))
			case !ids[dep]:
				errs = append(errs, fmt.Errorf("%s.dependencies: project %d not found", prefix, dep))
			}
		}
		errs = append(errs, validateSubtasks(prefix+".subtasks", p.Subtasks, make(map[string]bool))...)
	}

	return errs
}

func validateSubtasks(prefix string, nodes []domain.Subtask, ids map[string]bool) []error {
	var errs []error
	for i, n := range nodes {
		p := fmt.Sprintf("%s[%d]", prefix, i)
		if n.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", p))
		}
		if n.ID != "" {
			if ids[n.ID] {
				errs = append(errs, fmt.Errorf("%s.id: duplicate id %q", p, n.ID))
			}
			ids[n.ID] = true
		}
		errs = append(errs, validateOptionalDate(p+".start", n.Start)...)
		errs = append(errs, validateOptionalDate(p+".end", n.End)...)
		errs = append(errs, validateSubtasks(p+".children", n.Children, ids)...)
	}
	return errs
}

func validateOptionalDate(field, value string) []error {
	if value == "" || calendar.Valid(value) {
		return nil
	}
	return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, value)}
}
