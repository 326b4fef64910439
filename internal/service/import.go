package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/planboard/internal/app"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/importer"
)

type ImportOptions struct {
	// Replace swaps the whole board for the document. Otherwise imported
	// projects are appended with fresh ids.
	Replace bool
	// Force imports even when validation reported problems.
	Force bool
}

type ImportReport struct {
	Imported []int
	Problems []error
}

// ImportFile loads a board document from path and imports it as one
// undoable change.
func (s *ScheduleStore) ImportFile(ctx context.Context, path string, opts ImportOptions) (ImportReport, app.Result, error) {
	start := time.Now()
	doc, err := importer.LoadFile(path)
	if err != nil {
		s.observe(ctx, "ImportFile", start, app.Failed(err.Error()), err, map[string]any{"path": path})
		return ImportReport{}, app.Failed(err.Error()), err
	}
	return s.ImportDocument(ctx, doc, opts)
}

// ImportDocument validates doc and merges it into the board.
func (s *ScheduleStore) ImportDocument(ctx context.Context, doc *importer.Document, opts ImportOptions) (ImportReport, app.Result, error) {
	report := ImportReport{Problems: importer.ValidateDocument(doc)}
	if len(report.Problems) > 0 && !opts.Force {
		return report, app.Failed(fmt.Sprintf("Import has %d problem(s)", len(report.Problems))), nil
	}

	var imported []int
	res, err := s.commit(ctx, change{
		useCase: "ImportDocument",
		event:   &Event{Kind: EventProjectChanged},
		fields:  map[string]any{"records": len(doc.Records), "replace": opts.Replace},
		apply: func() string {
			imported = nil
			base := s.projects
			if opts.Replace {
				base = nil
				s.editingID = 0
				s.currentIndex = 0
			}
			incoming := doc.Projects(s.wf)
			if !opts.Replace {
				renumber(incoming, domain.NextProjectID(base))
			}
			now := s.clock()
			next := append(domain.CloneProjects(base), incoming...)
			for i := len(base); i < len(next); i++ {
				next[i].TouchActivity(now, "import")
				imported = append(imported, next[i].ID)
			}
			s.projects = next
			return ""
		},
	})
	if err == nil && res.OK {
		report.Imported = imported
	}
	return report, res, err
}

// renumber gives incoming projects consecutive ids starting at first and
// rewrites dependencies between them. Dependencies on projects outside the
// batch are dropped.
func renumber(incoming []domain.Project, first int) {
	ids := make(map[int]int, len(incoming))
	for i := range incoming {
		ids[incoming[i].ID] = first + i
	}
	for i := range incoming {
		p := &incoming[i]
		p.ID = first + i
		deps := make([]int, 0, len(p.Dependencies))
		for _, d := range p.Dependencies {
			if id, ok := ids[d]; ok {
				deps = append(deps, id)
			}
		}
		p.Dependencies = deps
	}
}
