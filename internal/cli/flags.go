package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/gantt"
	"github.com/spf13/pflag"
)

// statusValue is a pflag.Value accepting canonical and legacy status names.
type statusValue struct{ target *domain.Status }

func newStatusValue(target *domain.Status) pflag.Value { return statusValue{target: target} }

func (v statusValue) String() string {
	if v.target == nil {
		return ""
	}
	return string(*v.target)
}

func (v statusValue) Set(text string) error {
	s, ok := domain.ParseStatus(strings.ToLower(strings.TrimSpace(text)))
	if !ok {
		return fmt.Errorf("status must be pending, active or done, got %q", text)
	}
	*v.target = s
	return nil
}

func (statusValue) Type() string { return "status" }

type phaseValue struct{ target *domain.PhaseName }

func newPhaseValue(target *domain.PhaseName) pflag.Value { return phaseValue{target: target} }

func (v phaseValue) String() string {
	if v.target == nil {
		return ""
	}
	return string(*v.target)
}

func (v phaseValue) Set(text string) error {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "intake", "pendiente":
		*v.target = domain.PhaseIntake
	case "execution", "proceso":
		*v.target = domain.PhaseExecution
	default:
		return fmt.Errorf("phase must be intake or execution, got %q", text)
	}
	return nil
}

func (phaseValue) Type() string { return "phase" }

// dateValue holds a strict YYYY-MM-DD date.
type dateValue struct{ target *string }

func newDateValue(target *string) pflag.Value { return dateValue{target: target} }

func (v dateValue) String() string {
	if v.target == nil {
		return ""
	}
	return *v.target
}

func (v dateValue) Set(text string) error {
	text = strings.TrimSpace(text)
	if !calendar.Valid(text) {
		return fmt.Errorf("date must be YYYY-MM-DD, got %q", text)
	}
	*v.target = text
	return nil
}

func (dateValue) Type() string { return "date" }

// edgeValue selects which end of a bar a resize drags.
type edgeValue struct{ target *gantt.Zone }

func newEdgeValue(target *gantt.Zone) pflag.Value { return edgeValue{target: target} }

func (v edgeValue) String() string {
	if v.target == nil {
		return ""
	}
	if *v.target == gantt.ZoneLeftHandle {
		return "left"
	}
	return "right"
}

func (v edgeValue) Set(text string) error {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "left", "start":
		*v.target = gantt.ZoneLeftHandle
	case "right", "end":
		*v.target = gantt.ZoneRightHandle
	default:
		return fmt.Errorf("edge must be left or right, got %q", text)
	}
	return nil
}

func (edgeValue) Type() string { return "edge" }

func parseStatusArg(text string) (domain.Status, error) {
	var s domain.Status
	err := newStatusValue(&s).Set(text)
	return s, err
}

func parsePhaseArg(text string) (domain.PhaseName, error) {
	var p domain.PhaseName
	err := newPhaseValue(&p).Set(text)
	return p, err
}
