package derive

import (
	"testing"
	"time"

	"dashfleet/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func vehicle(id int, name string, issues int) models.Vehicle {
	return models.Vehicle{ID: id, Name: name, Health: 72, NextService: "2025-07-01", Issues: issues}
}

func intPtr(n int) *int { return &n }

func TestPriorityFor(t *testing.T) {
	cases := []struct {
		issues  int
		want    models.Priority
		pending bool
	}{
		{0, "", false},
		{1, models.PriorityLow, true},
		{2, models.PriorityMedium, true},
		{3, models.PriorityHigh, true},
		{5, models.PriorityHigh, true},
	}
	for _, tc := range cases {
		got, pending := PriorityFor(tc.issues)
		assert.Equal(t, tc.want, got, "issues=%d", tc.issues)
		assert.Equal(t, tc.pending, pending, "issues=%d", tc.issues)
	}
}

func TestRepairInfoFor_StableAcrossRenders(t *testing.T) {
	v := vehicle(3, "Acme X", 2)

	first := RepairInfoFor(v, RepairOverride{}, now)
	second := RepairInfoFor(v, RepairOverride{}, now)
	assert.Equal(t, first, second)

	assert.GreaterOrEqual(t, first.Cost, 50)
	assert.LessOrEqual(t, first.Cost, 1000)
	assert.GreaterOrEqual(t, first.ETADays, 1)
	assert.LessOrEqual(t, first.ETADays, 10)
	assert.Equal(t, 1, first.Unresolved)
	assert.Equal(t, now.AddDate(0, 0, first.ETADays).Format("2006-01-02"), first.ETADate)
}

func TestRepairInfoFor_Overrides(t *testing.T) {
	v := vehicle(3, "Acme X", 2)

	info := RepairInfoFor(v, RepairOverride{
		Cost:       intPtr(480),
		ETADays:    intPtr(4),
		Unresolved: intPtr(3),
	}, now)

	assert.Equal(t, 480, info.Cost)
	assert.Equal(t, 4, info.ETADays)
	assert.Equal(t, 3, info.Unresolved)
	assert.Equal(t, now.AddDate(0, 0, 4).Format("2006-01-02"), info.ETADate)
}

func TestRepairInfoFor_ZeroIssues(t *testing.T) {
	info := RepairInfoFor(vehicle(9, "Zeta Z", 0), RepairOverride{}, now)
	assert.Equal(t, 0, info.Unresolved)
}

func TestPredict(t *testing.T) {
	fleet := []models.Vehicle{
		vehicle(1, "Acme X", 0),
		vehicle(2, "Beta Y", 1),
		vehicle(3, "Gamma W", 2),
		vehicle(4, "Zeta Z", 3),
	}

	preds := Predict(fleet)
	require.Len(t, preds, 3, "issue-free vehicles are excluded")

	assert.Len(t, preds[0].Issues, 1)
	assert.Len(t, preds[1].Issues, 2)
	assert.Len(t, preds[2].Issues, 3)

	assert.Equal(t, models.SeverityMedium, preds[0].Severity)
	assert.Equal(t, models.SeverityHigh, preds[1].Severity)
	assert.Equal(t, models.SeverityCritical, preds[2].Severity)

	// Issue types are distinct per vehicle and drawn from the catalog.
	for _, p := range preds {
		seen := map[models.IssueType]bool{}
		for _, issue := range p.Issues {
			assert.False(t, seen[issue.Type], "duplicate issue type %s", issue.Type)
			seen[issue.Type] = true
			_, known := models.IssueInfo(issue.Type)
			assert.True(t, known)
			assert.NotEmpty(t, issue.Label)
			assert.NotEmpty(t, issue.Insight)
		}
	}

	// Stable across repeated derivations of the same fleet.
	assert.Equal(t, preds, Predict(fleet))
}

func TestPredict_CapsAtThree(t *testing.T) {
	preds := Predict([]models.Vehicle{vehicle(5, "Heavy", 3)})
	require.Len(t, preds, 1)
	assert.Len(t, preds[0].Issues, 3)
}

func TestBuildHistory_Idempotent(t *testing.T) {
	v := vehicle(7, "Acme X", 2)

	first := BuildHistory(v, 2, now)
	second := BuildHistory(v, 2, now)
	assert.Equal(t, first, second, "identical inputs must yield identical event lists")

	// pendingIssues=2: 2 Pending rows plus max(2, 3-2)=2 Completed rows.
	require.Len(t, first, 4)
}

func TestBuildHistory_Composition(t *testing.T) {
	cases := []struct {
		pending       int
		wantPending   int
		wantCompleted int
	}{
		{0, 0, 3},
		{1, 1, 2},
		{2, 2, 2},
		{3, 3, 2},
		{10, 10, 0}, // whole catalog pending, no unused types remain
		{12, 10, 0},
	}

	for _, tc := range cases {
		v := vehicle(11, "Omega Q", tc.pending)
		events := BuildHistory(v, tc.pending, now)

		var pending, completed int
		pendingTypes := map[models.ServiceType]bool{}
		completedTypes := map[models.ServiceType]bool{}
		for _, e := range events {
			switch e.Status {
			case models.HistoryPending:
				pending++
				assert.False(t, pendingTypes[e.ServiceType], "pending=%d: duplicate pending type %s", tc.pending, e.ServiceType)
				pendingTypes[e.ServiceType] = true
			case models.HistoryCompleted:
				completed++
				completedTypes[e.ServiceType] = true
			}
		}

		assert.Equal(t, tc.wantPending, pending, "pending=%d", tc.pending)
		assert.Equal(t, tc.wantCompleted, completed, "pending=%d", tc.pending)

		// Completed types never reuse a pending type.
		for ct := range completedTypes {
			assert.False(t, pendingTypes[ct], "pending=%d: type %s used by both statuses", tc.pending, ct)
		}
	}
}

func TestBuildHistory_SortedNewestFirst(t *testing.T) {
	events := BuildHistory(vehicle(2, "Beta Y", 3), 3, now)
	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i-1].Date, events[i].Date)
	}
}

func TestBuildHistory_DatesAndCosts(t *testing.T) {
	events := BuildHistory(vehicle(4, "Delta D", 2), 2, now)
	require.Len(t, events, 4)

	wantDates := map[string]bool{
		now.AddDate(0, 0, -7).Format("2006-01-02"):  true, // pending week 1
		now.AddDate(0, 0, -14).Format("2006-01-02"): true, // pending week 2
		now.AddDate(0, 0, -65).Format("2006-01-02"): true, // completed 30*2+5
		now.AddDate(0, 0, -95).Format("2006-01-02"): true, // completed 30*3+5
	}
	for _, e := range events {
		assert.True(t, wantDates[e.Date], "unexpected event date %s", e.Date)

		meta, known := models.ServiceInfo(e.ServiceType)
		require.True(t, known)
		if meta.CostLow == 0 && meta.CostHigh == 0 {
			assert.Nil(t, e.Cost)
		} else {
			require.NotNil(t, e.Cost)
			assert.GreaterOrEqual(t, *e.Cost, meta.CostLow)
			assert.LessOrEqual(t, *e.Cost, meta.CostHigh)
		}
		assert.Contains(t, meta.Notes, e.Notes)
	}
}

func TestBuildHistory_DistinctVehiclesDiffer(t *testing.T) {
	a := BuildHistory(vehicle(1, "Acme X", 2), 2, now)
	b := BuildHistory(vehicle(2, "Acme X", 2), 2, now)

	// Different identities should produce different shuffles for at least the
	// service-type ordering. (Not guaranteed for every pair, but these seeds
	// are fixed so the expectation is stable.)
	assert.NotEqual(t, a, b)
}
