package scheduler

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/planboard/internal/calendar"
	"github.com/alexanderramin/planboard/internal/domain"
)

const (
	delayThresholdPct  = 20
	inactivityDaysWarn = 3
	openCriticalWarn   = 3
)

type RiskInput struct {
	Project *domain.Project
	All     []domain.Project
	Today   time.Time
	// Progress is the project's workflow progress, 0..100.
	Progress int
	// MissingIntake and MissingExecution are the names of unfinished
	// required tasks per phase.
	MissingIntake    []string
	MissingExecution []string
}

type RiskResult struct {
	Level               domain.RiskLevel
	Score               int
	Alerts              []string
	DelayPercent        int
	OpenCriticalTasks   int
	MaterialPending     bool
	BlockedByDependency bool
	BlockingIDs         []int
	InactivityDays      int
	DaysLeft            *int
}

// ScheduleDelay compares where the calendar says a project should be with
// where its checklist says it is.
type ScheduleDelay struct {
	ExpectedPct int
	ActualPct   int
	DelayPct    int
}

// ComputeScheduleDelay returns the expected completion implied by elapsed
// days against the actual progress. Undated projects report no delay.
func ComputeScheduleDelay(p *domain.Project, today time.Time, progress int) ScheduleDelay {
	start, okStart := calendar.Parse(p.Start)
	end, okEnd := calendar.Parse(p.End)
	if !okStart || !okEnd {
		return ScheduleDelay{}
	}
	total := max(1, calendar.DayDiff(start, end)+1)
	elapsed := max(0, min(total, calendar.DayDiff(start, today)+1))
	expected := int(math.Round(float64(elapsed) / float64(total) * 100))
	actual := max(0, min(100, progress))
	return ScheduleDelay{ExpectedPct: expected, ActualPct: actual, DelayPct: expected - actual}
}

// DaysRemaining counts days from today until the project's end date.
func DaysRemaining(p *domain.Project, today time.Time) (int, bool) {
	end, ok := calendar.Parse(p.End)
	if !ok {
		return 0, false
	}
	return calendar.DayDiff(today, end), true
}

// BlockingDependencies lists dependencies that exist and are not done.
// Dependencies pointing at deleted projects never block.
func BlockingDependencies(p *domain.Project, all []domain.Project) []int {
	var out []int
	for _, id := range p.Dependencies {
		dep := domain.FindProject(all, id)
		if dep != nil && dep.Status != domain.StatusDone {
			out = append(out, id)
		}
	}
	return out
}

// ComputeRisk scores a project on material shortage, dependency blocks,
// schedule delay, inactivity and open required tasks.
func ComputeRisk(input RiskInput) RiskResult {
	p := input.Project
	today := calendar.Noon(input.Today)
	result := RiskResult{}

	for _, name := range input.MissingIntake {
		if strings.Contains(domain.TaskKey(name), "material") {
			result.MaterialPending = true
			break
		}
	}
	result.OpenCriticalTasks = len(input.MissingIntake) + len(input.MissingExecution)

	delay := ComputeScheduleDelay(p, today, input.Progress)
	result.DelayPercent = delay.DelayPct
	delayHigh := delay.DelayPct > delayThresholdPct

	result.BlockingIDs = BlockingDependencies(p, input.All)
	result.BlockedByDependency = len(result.BlockingIDs) > 0

	if last, ok := activityDate(p.LastActivityAt); ok {
		result.InactivityDays = max(0, calendar.DayDiff(last, today))
	}
	inactive := result.InactivityDays >= inactivityDaysWarn

	if days, ok := DaysRemaining(p, today); ok {
		result.DaysLeft = &days
	}

	if result.MaterialPending {
		result.Alerts = append(result.Alerts, "Required materials missing")
		result.Score += 3
	}
	if result.BlockedByDependency {
		result.Alerts = append(result.Alerts, "Blocked by dependency")
		result.Score += 3
	}
	if inactive {
		result.Alerts = append(result.Alerts, fmt.Sprintf("%d days without activity", result.InactivityDays))
		result.Score++
	}
	if delayHigh {
		result.Alerts = append(result.Alerts, fmt.Sprintf("Behind schedule by more than 20%% (%d%%)", delay.DelayPct))
		result.Score += 2
	}
	if result.OpenCriticalTasks >= openCriticalWarn {
		result.Alerts = append(result.Alerts, fmt.Sprintf("Many critical tasks open (%d)", result.OpenCriticalTasks))
		result.Score += 2
	}

	switch {
	case result.Score >= 5 || len(result.Alerts) >= 3:
		result.Level = domain.RiskHigh
	case result.Score >= 2 || len(result.Alerts) >= 1:
		result.Level = domain.RiskMedium
	default:
		result.Level = domain.RiskLow
	}
	return result
}

func activityDate(stamp string) (time.Time, bool) {
	if len(stamp) < len(calendar.Layout) {
		return time.Time{}, false
	}
	return calendar.Parse(stamp[:len(calendar.Layout)])
}
