// Package synth converts raw dataset rows into the Vehicle fleet. Synthesis
// runs once per dataset load; its output is the single shared input every view
// derives from. The next-service date, issue count and maintenance flag are
// drawn fresh on every load and are explicitly outside the reproducibility
// guarantees the seeded derivations give.
package synth

import (
	"math"
	"math/rand"
	"strconv"
	"time"

	"dashfleet/internal/models"
)

// MaxFleetSize caps the admitted row sequence; rows past the cap are ignored
// in order.
const MaxFleetSize = 200

const dateLayout = "2006-01-02"

// Synthesize builds the fleet from rows as of now. Rows without brand or
// model are dropped; ids are assigned 1..k over the admitted, truncated
// sequence with no gaps.
func Synthesize(rows []models.RawRecord, now time.Time) []models.Vehicle {
	vehicles := make([]models.Vehicle, 0, min(len(rows), MaxFleetSize))

	for _, row := range rows {
		if !row.Admissible() {
			continue
		}
		if len(vehicles) == MaxFleetSize {
			break
		}

		issues := rand.Intn(4)
		vehicles = append(vehicles, models.Vehicle{
			ID:            len(vehicles) + 1,
			Name:          row[models.ColumnBrand] + " " + row[models.ColumnModel],
			Health:        healthScore(row),
			NextService:   now.AddDate(0, 0, 7+rand.Intn(30)).Format(dateLayout),
			Issues:        issues,
			InMaintenance: issues > 0 && rand.Float64() < 0.25,
			Raw:           row,
		})
	}
	return vehicles
}

// healthScore derives the 0-100 health integer from range_km, falling back to
// battery_capacity_kWh. Missing or non-numeric cells coerce to 0.
func healthScore(row models.RawRecord) int {
	if r := numericCell(row, models.ColumnRangeKm); r > 0 {
		return int(math.Round(math.Min(100, r/500*100)))
	}
	if c := numericCell(row, models.ColumnBatteryCapacity); c > 0 {
		return int(math.Round(math.Min(100, c/100*100)))
	}
	return 0
}

func numericCell(row models.RawRecord, col string) float64 {
	v, err := strconv.ParseFloat(row[col], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
