// Package derive holds the pure functions that compute every on-demand view
// projection from a Vehicle. Each function is seeded from the vehicle's
// identity, so re-rendering a view can never silently change a number that
// was already shown for the same vehicle. Callers that carry a displayed
// value across views pass it as an explicit override, which always wins over
// recomputation.
package derive

import (
	"math"
	"sort"
	"time"

	"dashfleet/internal/models"
	"dashfleet/pkg/seedrand"
)

const dateLayout = "2006-01-02"

// Seed salts keep the independent derivations from consuming the same
// sequence for the same vehicle.
const (
	repairSeedSalt uint32 = 0x5CA1AB1E
)

// PriorityFor classifies a vehicle's scheduling priority by issue count.
// Vehicles with zero issues are not pending and have no priority; the second
// return is false for them.
func PriorityFor(issues int) (models.Priority, bool) {
	switch {
	case issues >= 3:
		return models.PriorityHigh, true
	case issues == 2:
		return models.PriorityMedium, true
	case issues == 1:
		return models.PriorityLow, true
	default:
		return "", false
	}
}

// RepairOverride carries values a caller already displayed elsewhere. A nil
// field means "compute the default"; a set field is used verbatim.
type RepairOverride struct {
	Cost       *int
	ETADays    *int
	Unresolved *int
}

// RepairInfoFor computes the maintenance-view projection of v as of now.
// Defaults are drawn from a generator seeded by vehicle identity, so the same
// vehicle shows the same estimate on every render of the same fleet load.
func RepairInfoFor(v models.Vehicle, ov RepairOverride, now time.Time) models.RepairInfo {
	rng := seedrand.New(seedrand.HashSeed(v.Identity()) ^ repairSeedSalt)

	cost := int(math.Round(50 + rng()*950))
	if ov.Cost != nil {
		cost = *ov.Cost
	}

	etaDays := int(math.Round(rng() * 10))
	if etaDays < 1 {
		etaDays = 1
	}
	if ov.ETADays != nil {
		etaDays = *ov.ETADays
	}

	unresolved := v.Issues - 1
	if unresolved < 0 {
		unresolved = 0
	}
	if ov.Unresolved != nil {
		unresolved = *ov.Unresolved
	}

	return models.RepairInfo{
		Cost:       cost,
		ETADays:    etaDays,
		ETADate:    now.AddDate(0, 0, etaDays).Format(dateLayout),
		Unresolved: unresolved,
	}
}

// Predict builds the failures-view list: one entry per vehicle with unresolved
// issues, carrying up to three distinct issue types drawn without replacement
// from the catalog. The draw is seeded by identity and issue count, so the
// list is stable for a given fleet load.
func Predict(vehicles []models.Vehicle) []models.FailurePrediction {
	predictions := make([]models.FailurePrediction, 0)

	for _, v := range vehicles {
		if v.Issues <= 0 {
			continue
		}

		seed := seedrand.HashSeed(v.Identity()) ^ uint32(v.Issues)
		shuffled := seedrand.Shuffle(models.IssueTypes, seed)

		count := v.Issues
		if count > 3 {
			count = 3
		}

		issues := make([]models.IssueReport, 0, count)
		for _, t := range shuffled[:count] {
			meta, _ := models.IssueInfo(t)
			issues = append(issues, models.IssueReport{Type: t, IssueMeta: meta})
		}

		predictions = append(predictions, models.FailurePrediction{
			Vehicle:  v,
			Issues:   issues,
			Severity: models.SeverityForIssueCount(v.Issues),
		})
	}
	return predictions
}

// BuildHistory regenerates the maintenance-history log for a vehicle. It is
// fully deterministic over (id, name, pendingIssues, now's calendar date):
// exactly min(pendingIssues, catalog size) Pending rows with pairwise-distinct
// service types, then max(2, 3-pendingIssues) Completed rows drawn from the
// unused remainder, sorted newest first.
func BuildHistory(v models.Vehicle, pendingIssues int, now time.Time) []models.HistoryEvent {
	if pendingIssues < 0 {
		pendingIssues = 0
	}

	seed := seedrand.HashSeed(v.Identity()) ^ uint32(pendingIssues)
	rng := seedrand.New(seed)

	shuffled := seedrand.Shuffle(models.ServiceTypes, seed)
	pendingCount := pendingIssues
	if pendingCount > len(shuffled) {
		pendingCount = len(shuffled)
	}

	events := make([]models.HistoryEvent, 0, pendingCount+3)

	for i, t := range shuffled[:pendingCount] {
		note, cost := drawServiceDetails(rng, t)
		events = append(events, models.HistoryEvent{
			Date:        now.AddDate(0, 0, -7*(i+1)).Format(dateLayout), // one per week, going back
			ServiceType: t,
			Status:      models.HistoryPending,
			Cost:        cost,
			Notes:       note,
		})
	}

	remaining := shuffled[pendingCount:]
	olderCount := 3 - pendingIssues
	if olderCount < 2 {
		olderCount = 2
	}
	for i := 0; i < olderCount && i < len(remaining); i++ {
		t := remaining[i]
		note, cost := drawServiceDetails(rng, t)
		events = append(events, models.HistoryEvent{
			Date:        now.AddDate(0, 0, -(30*(i+2) + 5)).Format(dateLayout),
			ServiceType: t,
			Status:      models.HistoryCompleted,
			Cost:        cost,
			Notes:       note,
		})
	}

	// Newest first. Dates are ISO-formatted, so string order is date order.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date > events[j].Date
	})
	return events
}

// drawServiceDetails draws the note variant and cost for one event,
// continuing rng's sequence. Free services (zero cost band) report a nil cost
// and consume no cost draw.
func drawServiceDetails(rng seedrand.Source, t models.ServiceType) (string, *int) {
	meta, _ := models.ServiceInfo(t)
	note := meta.Notes[int(rng()*float64(len(meta.Notes)))]
	cost := seedrand.IntBetween(rng, meta.CostLow, meta.CostHigh)
	if meta.CostLow == 0 && meta.CostHigh == 0 {
		return note, nil
	}
	return note, &cost
}
