package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/planboard/internal/domain"
)

// Document is the persisted board layout.
type Document struct {
	Projects   []domain.Project `json:"projects"`
	LastUpdate string           `json:"lastUpdate"`
}

func encodeDocument(projects []domain.Project, now time.Time) ([]byte, error) {
	if projects == nil {
		projects = []domain.Project{}
	}
	data, err := json.Marshal(Document{Projects: projects, LastUpdate: now.UTC().Format(time.RFC3339)})
	if err != nil {
		return nil, fmt.Errorf("encoding board document: %w", err)
	}
	return data, nil
}

func decodeDocument(data []byte) ([]domain.Project, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding board document: %w", err)
	}
	if doc.Projects == nil {
		doc.Projects = []domain.Project{}
	}
	return doc.Projects, nil
}
