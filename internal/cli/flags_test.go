package cli

import (
	"testing"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/gantt"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagValues_ParseThroughFlagSet(t *testing.T) {
	var (
		status domain.Status
		phase  domain.PhaseName
		date   string
		edge   = gantt.ZoneRightHandle
	)
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Var(newStatusValue(&status), "status", "")
	fs.Var(newPhaseValue(&phase), "phase", "")
	fs.Var(newDateValue(&date), "date", "")
	fs.Var(newEdgeValue(&edge), "edge", "")

	require.NoError(t, fs.Parse([]string{"--status", "proceso", "--phase", "Execution", "--date", "2026-02-28", "--edge", "left"}))
	assert.Equal(t, domain.StatusActive, status)
	assert.Equal(t, domain.PhaseExecution, phase)
	assert.Equal(t, "2026-02-28", date)
	assert.Equal(t, gantt.ZoneLeftHandle, edge)
	assert.Equal(t, "left", fs.Lookup("edge").Value.String())
	assert.Equal(t, "date", fs.Lookup("date").Value.Type())
}

func TestFlagValues_RejectInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"status", []string{"--status", "archived"}},
		{"phase", []string{"--phase", "review"}},
		{"impossible date", []string{"--date", "2026-02-30"}},
		{"edge", []string{"--edge", "middle"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				status domain.Status
				phase  domain.PhaseName
				date   string
				edge   gantt.Zone
			)
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			fs.Var(newStatusValue(&status), "status", "")
			fs.Var(newPhaseValue(&phase), "phase", "")
			fs.Var(newDateValue(&date), "date", "")
			fs.Var(newEdgeValue(&edge), "edge", "")
			assert.Error(t, fs.Parse(tt.args))
		})
	}
}

func TestParseProjectID(t *testing.T) {
	id, err := parseProjectID("#12")
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	_, err = parseProjectID("0")
	assert.Error(t, err)
	_, err = parseProjectID("kitchen")
	assert.Error(t, err)
}
