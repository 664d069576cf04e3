// Package services provides energy sizing calculations for site visits and
// the export/quote documents built from them.
package services

// Catalogue indexes devices by id.
type Catalogue map[string]Device

// NewCatalogue builds a Catalogue from a device list. On duplicate ids the
// first device wins.
func NewCatalogue(devices []Device) Catalogue {
	c := make(Catalogue, len(devices))
	for _, d := range devices {
		if _, ok := c[d.ID]; !ok {
			c[d.ID] = d
		}
	}
	return c
}

// ResolvedDevice holds the effective attributes of one requirement line after
// visit overrides have been applied over catalogue defaults.
type ResolvedDevice struct {
	Name           string
	MaxPowerW      float64
	UsageDurationH float64
	HourlyPowerKW  float64
	IncludedInPeak bool
}

// ResolveRequirement applies the requirement's overrides over the device's
// catalogue values. An override that is set always wins, even when equal to
// the catalogue value. Inclusion defaults to true when the line carries no flag;
// the device's DefaultIncludedInPeakPower is not consulted here.
func ResolveRequirement(req VisitRequirement, device Device) ResolvedDevice {
	r := ResolvedDevice{
		Name:           device.Name,
		MaxPowerW:      device.MaxPower,
		UsageDurationH: device.UsageDuration,
		HourlyPowerKW:  device.HourlyPower,
		IncludedInPeak: true,
	}
	if req.OverrideName != "" {
		r.Name = req.OverrideName
	}
	if req.OverrideMaxPower != nil {
		r.MaxPowerW = *req.OverrideMaxPower
	}
	if req.OverrideUsageDuration != nil {
		r.UsageDurationH = *req.OverrideUsageDuration
	}
	if req.OverrideHourlyPower != nil {
		r.HourlyPowerKW = *req.OverrideHourlyPower
	}
	if req.IncludedInPeakPower != nil {
		r.IncludedInPeak = *req.IncludedInPeakPower
	}
	return r
}

// DailyEnergyKWh returns hourly power × duration × quantity for a resolved line.
func (r ResolvedDevice) DailyEnergyKWh(quantity int) float64 {
	return r.HourlyPowerKW * r.UsageDurationH * float64(quantity)
}

// resolvedLine pairs a requirement with its resolved attributes.
type resolvedLine struct {
	Requirement VisitRequirement
	Resolved    ResolvedDevice
}

// resolveLines drops lines whose device is missing from the catalogue or whose
// quantity is zero, and resolves the rest in input order. Every aggregation
// goes through here so absent and zero lines are treated identically.
func resolveLines(reqs []VisitRequirement, catalogue Catalogue) []resolvedLine {
	lines := make([]resolvedLine, 0, len(reqs))
	for _, req := range reqs {
		if req.Quantity == 0 {
			continue
		}
		device, ok := catalogue[req.DeviceID]
		if !ok {
			continue
		}
		lines = append(lines, resolvedLine{
			Requirement: req,
			Resolved:    ResolveRequirement(req, device),
		})
	}
	return lines
}

// VisitTotals holds the aggregate sizing figures of one visit.
type VisitTotals struct {
	TotalPeakPowerW     float64 `json:"totalPeakPowerW"`
	TotalDailyEnergyKWh float64 `json:"totalDailyEnergyKWh"`
	TotalHourlyPowerKW  float64 `json:"totalHourlyPowerKW"`
	DeviceCount         int     `json:"deviceCount"`
	ExcludedCount       int     `json:"excludedCount"`
}

// AggregateVisit folds a visit's requirement lines into totals. Peak power
// only counts lines included in peak power; daily energy, hourly power and
// device count cover every line. ExcludedCount counts lines, not units.
func AggregateVisit(reqs []VisitRequirement, catalogue Catalogue) VisitTotals {
	return aggregateLines(resolveLines(reqs, catalogue))
}

func aggregateLines(lines []resolvedLine) VisitTotals {
	var totals VisitTotals
	for _, l := range lines {
		qty := float64(l.Requirement.Quantity)
		if l.Resolved.IncludedInPeak {
			totals.TotalPeakPowerW += l.Resolved.MaxPowerW * qty
		} else {
			totals.ExcludedCount++
		}
		totals.TotalDailyEnergyKWh += l.Resolved.DailyEnergyKWh(l.Requirement.Quantity)
		totals.TotalHourlyPowerKW += l.Resolved.HourlyPowerKW * qty
		totals.DeviceCount += l.Requirement.Quantity
	}
	return totals
}
