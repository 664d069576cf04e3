package services

import "fmt"

// BatteryBasis selects which visit aggregate a synthetic battery line carries
// as its power.
type BatteryBasis int

const (
	// BatteryBasisHourly carries the visit's total hourly power (kW).
	BatteryBasisHourly BatteryBasis = iota
	// BatteryBasisPeak carries the visit's total peak power (W).
	BatteryBasisPeak
)

// BatteryLine is the derived storage line appended to exports and quotes when
// a visit asks for autonomy days. It has no catalogue device.
type BatteryLine struct {
	AutonomyDays        int
	Basis               BatteryBasis
	Power               float64
	Quantity            int
	DurationH           float64
	IncludedInPeakPower bool
}

// ExportLabel is the appliance name used on export rows.
func (b BatteryLine) ExportLabel() string {
	return "Batterie"
}

// QuoteLabel is the item name used on quotes.
func (b BatteryLine) QuoteLabel() string {
	return fmt.Sprintf("Batterie (Autonomie: %dj)", b.AutonomyDays)
}

// SynthesizeBattery returns the battery line for a visit, or false when
// autonomyDays is nil or not positive.
func SynthesizeBattery(autonomyDays *int, totals VisitTotals, basis BatteryBasis) (BatteryLine, bool) {
	if autonomyDays == nil || *autonomyDays <= 0 {
		return BatteryLine{}, false
	}

	power := totals.TotalHourlyPowerKW
	if basis == BatteryBasisPeak {
		power = totals.TotalPeakPowerW
	}

	return BatteryLine{
		AutonomyDays:        *autonomyDays,
		Basis:               basis,
		Power:               power,
		Quantity:            1,
		DurationH:           0,
		IncludedInPeakPower: false,
	}, true
}
