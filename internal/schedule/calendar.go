// Package schedule projects the fleet onto a month grid for the scheduling
// view and ranks vehicles awaiting a slot.
package schedule

import (
	"sort"
	"time"

	"dashfleet/internal/derive"
	"dashfleet/internal/models"
)

const dateLayout = "2006-01-02"

// Day is one populated cell of the month grid. Days without scheduled
// vehicles are not listed; the client renders them from Days + StartWeekday.
type Day struct {
	Day      int              `json:"day"`
	Vehicles []models.Vehicle `json:"vehicles"`
}

// MonthGrid is the calendar projection of one displayed month.
type MonthGrid struct {
	Year         int        `json:"year"`
	Month        time.Month `json:"month"`
	MonthName    string     `json:"monthName"`
	Days         int        `json:"days"`         // day count of the month
	StartWeekday int        `json:"startWeekday"` // 0=Sunday offset of day 1
	Today        int        `json:"today"`        // 0 unless the grid shows the current month
	Scheduled    []Day      `json:"scheduled"`
}

// PendingVehicle is a vehicle needing a maintenance slot, ranked for the
// pending list.
type PendingVehicle struct {
	models.Vehicle
	Priority models.Priority `json:"priority"`
}

// Project builds the month grid for year/month, grouping vehicles by the day
// their next service falls on. now only decides the today marker.
func Project(vehicles []models.Vehicle, year int, month time.Month, now time.Time) MonthGrid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	grid := MonthGrid{
		Year:         year,
		Month:        month,
		MonthName:    month.String(),
		Days:         first.AddDate(0, 1, -1).Day(),
		StartWeekday: int(first.Weekday()),
		Scheduled:    []Day{},
	}
	if now.Year() == year && now.Month() == month {
		grid.Today = now.Day()
	}

	byDay := map[int][]models.Vehicle{}
	for _, v := range vehicles {
		scheduled, err := time.Parse(dateLayout, v.NextService)
		if err != nil {
			continue
		}
		if scheduled.Year() == year && scheduled.Month() == month {
			byDay[scheduled.Day()] = append(byDay[scheduled.Day()], v)
		}
	}

	days := make([]int, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Ints(days)
	for _, day := range days {
		grid.Scheduled = append(grid.Scheduled, Day{Day: day, Vehicles: byDay[day]})
	}
	return grid
}

// Pending lists vehicles with unresolved issues, sorted by issue count
// descending (ties keep fleet order), each tagged with its priority class.
func Pending(vehicles []models.Vehicle) []PendingVehicle {
	pending := make([]PendingVehicle, 0)
	for _, v := range vehicles {
		priority, ok := derive.PriorityFor(v.Issues)
		if !ok {
			continue
		}
		pending = append(pending, PendingVehicle{Vehicle: v, Priority: priority})
	}

	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Issues > pending[j].Issues
	})
	return pending
}
