package models

// Priority classifies a pending vehicle for the scheduling view. Vehicles with
// zero issues are excluded from the pending set and never get a priority.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// RepairInfo is the ephemeral maintenance-view projection of a vehicle.
type RepairInfo struct {
	Cost       int    `json:"cost"`    // dollars
	ETADays    int    `json:"etaDays"` // >= 1
	ETADate    string `json:"etaDate"` // YYYY-MM-DD, today + ETADays
	Unresolved int    `json:"unresolved"`
}

// HistoryStatus is the state of one maintenance-history event.
type HistoryStatus string

const (
	HistoryPending   HistoryStatus = "Pending"
	HistoryCompleted HistoryStatus = "Completed"
)

// HistoryEvent is one row of a vehicle's deterministically regenerated
// maintenance log. Cost is nil when no charge applies.
type HistoryEvent struct {
	Date        string        `json:"date"` // YYYY-MM-DD
	ServiceType ServiceType   `json:"type"`
	Status      HistoryStatus `json:"status"`
	Cost        *int          `json:"cost"`
	Notes       string        `json:"notes"`
}

// TrendPoint is one labeled value in a 4-week trend series.
type TrendPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// IssueReport is one expanded issue card on the failures view.
type IssueReport struct {
	Type IssueType `json:"issueType"`
	IssueMeta
}

// FailurePrediction is the failures-view projection of one vehicle with
// unresolved issues.
type FailurePrediction struct {
	Vehicle  Vehicle       `json:"vehicle"`
	Issues   []IssueReport `json:"issues"`
	Severity Severity      `json:"severity"`
}
