package repository

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/domain"
)

const inlineImagePrefix = "data:image/"

// stripInlineImages returns a copy of projects without embedded data URLs
// and the display ids of the projects that lost their image.
func stripInlineImages(projects []domain.Project) ([]domain.Project, []string) {
	out := domain.CloneProjects(projects)
	var stripped []string
	for i := range out {
		if strings.HasPrefix(out[i].Image, inlineImagePrefix) {
			out[i].Image = ""
			stripped = append(stripped, out[i].DisplayID())
		}
	}
	return out, stripped
}

// fitQuota encodes projects under limit bytes, dropping inline images when
// the full document does not fit. A limit of zero disables the check.
func fitQuota(projects []domain.Project, limit int, encode func([]domain.Project) ([]byte, error)) ([]byte, SaveOutcome, error) {
	data, err := encode(projects)
	if err != nil {
		return nil, SaveOutcome{}, err
	}
	if limit <= 0 || len(data) <= limit {
		return data, SaveOutcome{}, nil
	}

	slim, stripped := stripInlineImages(projects)
	if len(stripped) == 0 {
		return nil, SaveOutcome{}, fmt.Errorf("document is %d bytes, limit %d: %w", len(data), limit, ErrQuotaExceeded)
	}
	data, err = encode(slim)
	if err != nil {
		return nil, SaveOutcome{}, err
	}
	if len(data) > limit {
		return nil, SaveOutcome{}, fmt.Errorf("document is %d bytes without images, limit %d: %w", len(data), limit, ErrQuotaExceeded)
	}
	return data, SaveOutcome{
		Degraded: true,
		Notes:    []string{"inline images dropped to fit local storage: " + strings.Join(stripped, ", ")},
	}, nil
}
