// Package importer reads board documents written by earlier versions of
// the tracker, including the Spanish field names, and turns them into
// canonical projects plus raw checklist input for the workflow engine.
package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/workflow"
)

// CurrentVersion is the newest document version this package understands.
// Documents without a version are treated as version 1.
const CurrentVersion = 1

var ErrUnsupportedVersion = errors.New("unsupported document version")

// Record is one imported project. The workflow of Project is left empty;
// Intake, Execution and Legacy are the raw checklist input it is built from.
type Record struct {
	Index     int
	Project   domain.Project
	RawStatus string
	Intake    workflow.PhaseInput
	Execution workflow.PhaseInput
	// Legacy holds the top-level task list of old documents. It folds into
	// the intake phase.
	Legacy []workflow.RawTask
	// assignedID is set when the source carried no usable id.
	assignedID bool
}

// Document is a parsed import file.
type Document struct {
	Version    int
	LastUpdate string
	Records    []Record
}

// Projects returns the records' projects with workflows built by e.
func (d *Document) Projects(e *workflow.Engine) []domain.Project {
	out := make([]domain.Project, 0, len(d.Records))
	for _, r := range d.Records {
		out = append(out, r.Build(e))
	}
	return out
}

// LoadFile reads and parses an import file.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	return Parse(data)
}

// Parse accepts {"projects": [...]}, {"proyectos": [...]} or a bare array.
func Parse(data []byte) (*Document, error) {
	var probe json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}

	doc := &Document{Version: 1}
	var items []fields
	if len(probe) > 0 && probe[0] == '[' {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	} else {
		var root fields
		if err := json.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
		if v, ok := root.integer("version"); ok {
			doc.Version = v
		}
		if doc.Version > CurrentVersion || doc.Version < 1 {
			return nil, fmt.Errorf("version %d: %w", doc.Version, ErrUnsupportedVersion)
		}
		doc.LastUpdate = root.str("lastUpdate", "ultimaActualizacion")
		items = root.list("projects", "proyectos")
	}

	doc.Records = make([]Record, 0, len(items))
	for i, item := range items {
		doc.Records = append(doc.Records, convertProject(i, item))
	}
	assignMissingIDs(doc.Records)
	return doc, nil
}

func assignMissingIDs(records []Record) {
	next := 1
	for _, r := range records {
		if r.Project.ID >= next {
			next = r.Project.ID + 1
		}
	}
	for i := range records {
		if records[i].Project.ID <= 0 {
			records[i].Project.ID = next
			records[i].assignedID = true
			next++
		}
	}
}
