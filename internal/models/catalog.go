package models

// IssueType enumerates the closed catalog of predicted-failure categories.
// Lookups go through IssueInfo, which is total: unknown values get the default
// entry and a false second return, never a silent fallback.
type IssueType string

const (
	IssueBrakes       IssueType = "brakes"
	IssueTransmission IssueType = "transmission"
	IssueBattery      IssueType = "battery"
	IssueSuspension   IssueType = "suspension"
	IssueTires        IssueType = "tires"
	IssueCooling      IssueType = "cooling"
	IssueElectrical   IssueType = "electrical"
)

// IssueTypes is the catalog in its fixed canonical order. Issue assignment
// shuffles a copy of this slice; the order here is part of the deterministic
// contract and must not change.
var IssueTypes = []IssueType{
	IssueBrakes,
	IssueTransmission,
	IssueBattery,
	IssueSuspension,
	IssueTires,
	IssueCooling,
	IssueElectrical,
}

// Severity bands used for issue badges and per-issue metadata.
type Severity string

const (
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SeverityForIssueCount bands a vehicle's issue count for its badge.
func SeverityForIssueCount(issues int) Severity {
	switch {
	case issues >= 3:
		return SeverityCritical
	case issues == 2:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

// IssueMeta is the display metadata attached to a catalog entry. It never
// feeds back into any computation.
type IssueMeta struct {
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Insight     string   `json:"insight"`
	Severity    Severity `json:"severity"`
	Area        string   `json:"area"`
}

var issueCatalog = map[IssueType]IssueMeta{
	IssueBrakes: {
		Label:       "Brakes",
		Description: "Brake pad wear exceeding threshold",
		Insight:     "Replace brake pads immediately. Inspect rotors for scoring. Check brake fluid level.",
		Severity:    SeverityCritical,
		Area:        "brakes",
	},
	IssueTransmission: {
		Label:       "Transmission",
		Description: "Shifting delays or rough engagement",
		Insight:     "Flush transmission fluid. Inspect clutch assembly. May need software update or sensor replacement.",
		Severity:    SeverityHigh,
		Area:        "transmission",
	},
	IssueBattery: {
		Label:       "Battery",
		Description: "Battery capacity below 70%",
		Insight:     "Test battery health. Clean terminals. Consider replacement if over 3 years old.",
		Severity:    SeverityMedium,
		Area:        "battery",
	},
	IssueSuspension: {
		Label:       "Suspension",
		Description: "Unusual wear patterns detected",
		Insight:     "Inspect shock absorbers and struts. Check alignment. Replace worn bushings.",
		Severity:    SeverityMedium,
		Area:        "suspension",
	},
	IssueTires: {
		Label:       "Tires",
		Description: "Tread depth below safe limit",
		Insight:     "Replace tires immediately. Check tire pressure. Rotate remaining tires.",
		Severity:    SeverityCritical,
		Area:        "tires",
	},
	IssueCooling: {
		Label:       "Cooling System",
		Description: "Coolant temperature elevated",
		Insight:     "Check coolant level. Inspect radiator for leaks. Test thermostat operation.",
		Severity:    SeverityHigh,
		Area:        "cooling",
	},
	IssueElectrical: {
		Label:       "Electrical",
		Description: "Voltage fluctuations detected",
		Insight:     "Test alternator output. Inspect wiring harness. Check for loose connections.",
		Severity:    SeverityMedium,
		Area:        "electrical",
	},
}

var defaultIssueMeta = IssueMeta{
	Label:       "General",
	Description: "Unclassified issue",
	Insight:     "Schedule a general inspection.",
	Severity:    SeverityMedium,
	Area:        "general",
}

// IssueInfo resolves catalog metadata for t. The second return is false when t
// is not a known catalog entry, in which case the default entry is returned.
func IssueInfo(t IssueType) (IssueMeta, bool) {
	meta, ok := issueCatalog[t]
	if !ok {
		return defaultIssueMeta, false
	}
	return meta, true
}

// ServiceType enumerates the closed catalog of maintenance service categories
// used by history generation.
type ServiceType string

const (
	ServiceBatteryCheck         ServiceType = "Battery Check"
	ServiceBrakeService         ServiceType = "Brake Service"
	ServiceSoftwareUpdate       ServiceType = "Software Update"
	ServiceTireRotation         ServiceType = "Tire Rotation"
	ServiceCoolingSystem        ServiceType = "Cooling System"
	ServiceHVPowerElectronics   ServiceType = "HV Power Electronics"
	ServiceSuspensionInspection ServiceType = "Suspension Inspection"
	ServiceChargingPort         ServiceType = "Charging Port"
	ServiceHVACService          ServiceType = "HVAC Service"
	ServiceSteeringAlignment    ServiceType = "Steering Alignment"
)

// ServiceTypes is the service catalog in its fixed canonical order, the input
// to the seeded shuffle in history generation.
var ServiceTypes = []ServiceType{
	ServiceBatteryCheck,
	ServiceBrakeService,
	ServiceSoftwareUpdate,
	ServiceTireRotation,
	ServiceCoolingSystem,
	ServiceHVPowerElectronics,
	ServiceSuspensionInspection,
	ServiceChargingPort,
	ServiceHVACService,
	ServiceSteeringAlignment,
}

// ServiceMeta carries per-type note variants and an inclusive cost band in
// dollars. CostLow == CostHigh == 0 means the service is free of charge.
type ServiceMeta struct {
	Notes    []string
	CostLow  int
	CostHigh int
}

var serviceCatalog = map[ServiceType]ServiceMeta{
	ServiceBatteryCheck: {
		Notes:   []string{"Cell balancing & calibration", "Thermal management tune", "SOH diagnostics"},
		CostLow: 220, CostHigh: 380,
	},
	ServiceBrakeService: {
		Notes:   []string{"Front pads replaced", "Rotor skim + fluid", "Parking brake recalibration"},
		CostLow: 140, CostHigh: 320,
	},
	ServiceSoftwareUpdate: {
		Notes:   []string{"Efficiency firmware update", "ADAS patch applied", "BMS update"},
		CostLow: 0, CostHigh: 0,
	},
	ServiceTireRotation: {
		Notes:   []string{"Front-rear rotation", "Rotation + pressure check"},
		CostLow: 40, CostHigh: 80,
	},
	ServiceCoolingSystem: {
		Notes:   []string{"Coolant top-up & bleed", "Pump inspection", "Radiator flush"},
		CostLow: 180, CostHigh: 420,
	},
	ServiceHVPowerElectronics: {
		Notes:   []string{"Inverter thermal paste refresh", "DC/DC inspection", "IGBT check"},
		CostLow: 260, CostHigh: 520,
	},
	ServiceSuspensionInspection: {
		Notes:   []string{"Bushing check", "Control arm torque", "Dampers inspection"},
		CostLow: 120, CostHigh: 260,
	},
	ServiceChargingPort: {
		Notes:   []string{"Connector clean & reseat", "CCS latch replacement", "Wiring continuity"},
		CostLow: 90, CostHigh: 210,
	},
	ServiceHVACService: {
		Notes:   []string{"Cabin filter + recharge", "Heat pump efficiency test"},
		CostLow: 110, CostHigh: 240,
	},
	ServiceSteeringAlignment: {
		Notes:   []string{"Toe adjust", "Camber/caster check"},
		CostLow: 80, CostHigh: 160,
	},
}

var defaultServiceMeta = ServiceMeta{
	Notes:   []string{"Service"},
	CostLow: 120, CostHigh: 240,
}

// ServiceInfo resolves catalog metadata for t. The second return is false when
// t is not a known catalog entry.
func ServiceInfo(t ServiceType) (ServiceMeta, bool) {
	meta, ok := serviceCatalog[t]
	if !ok {
		return defaultServiceMeta, false
	}
	return meta, true
}
