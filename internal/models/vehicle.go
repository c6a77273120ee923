package models

import "strconv"

// RawRecord is one row of the imported vehicle-specification dataset, mapped
// from column name to cell value. Blank cells are absent from the map.
type RawRecord map[string]string

// Dataset columns the synthesis layer consumes.
const (
	ColumnBrand           = "brand"
	ColumnModel           = "model"
	ColumnRangeKm         = "range_km"
	ColumnBatteryCapacity = "battery_capacity_kWh"
)

// Admissible reports whether the record carries the identity columns required
// for synthesis. Rows without brand or model are silently dropped.
func (r RawRecord) Admissible() bool {
	return r[ColumnBrand] != "" && r[ColumnModel] != ""
}

// Vehicle is one synthesized fleet unit. It is created once per dataset load
// and immutable afterwards; everything else shown for it is derived on demand.
// The ID is the 1-based position in the admitted row sequence, so it is only
// stable within a single load.
type Vehicle struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Health        int       `json:"health"`
	NextService   string    `json:"nextService"` // YYYY-MM-DD
	Issues        int       `json:"issues"`
	InMaintenance bool      `json:"inMaintenance"`
	Raw           RawRecord `json:"raw,omitempty"`
}

// Identity is the string the seeded derivations hash. Keeping it in one place
// guarantees every view seeds from the same value for the same vehicle.
func (v Vehicle) Identity() string {
	return strconv.Itoa(v.ID) + "|" + v.Name
}
