package services

// Fallback header values for quotes.
const (
	QuoteNoClientName = "Client sans nom"
	QuoteNoAddress    = "Adresse non renseignée"
	QuoteDefaultSite  = "Site par défaut"
	QuoteNoDate       = "Date inconnue"
)

// QuoteItem is one line of a commercial offer.
type QuoteItem struct {
	Name                string  `json:"name"`
	Quantity            int     `json:"quantity"`
	PowerW              float64 `json:"powerW"`
	DurationH           float64 `json:"durationH"`
	DailyKWh            float64 `json:"dailyKWh"`
	IncludedInPeakPower bool    `json:"includedInPeakPower"`
}

// QuoteData is the document model of a commercial offer for one visit.
type QuoteData struct {
	Name          string      `json:"name"`
	Address       string      `json:"address"`
	SiteName      string      `json:"siteName"`
	VisitDate     string      `json:"visitDate"`
	Items         []QuoteItem `json:"items"`
	TotalDailyKWh float64     `json:"totalDailyKWh"`
	TotalMaxW     float64     `json:"totalMaxW"`
}

// BuildQuote assembles the offer for a visit. Items follow requirement order,
// skipping lines whose device is missing; the battery item, sized on the
// visit's peak power, comes last. TotalDailyKWh sums every item and TotalMaxW
// sums power × quantity of items included in peak power.
func BuildQuote(visit Visit, client Client, address *Address, devices []Device) QuoteData {
	lines := resolveLines(visit.Requirements, NewCatalogue(devices))

	items := make([]QuoteItem, 0, len(lines)+1)
	for _, l := range lines {
		items = append(items, QuoteItem{
			Name:                l.Resolved.Name,
			Quantity:            l.Requirement.Quantity,
			PowerW:              l.Resolved.MaxPowerW,
			DurationH:           l.Resolved.UsageDurationH,
			DailyKWh:            l.Resolved.DailyEnergyKWh(l.Requirement.Quantity),
			IncludedInPeakPower: l.Resolved.IncludedInPeak,
		})
	}

	if battery, ok := SynthesizeBattery(visit.AutonomyDays, aggregateLines(lines), BatteryBasisPeak); ok {
		items = append(items, QuoteItem{
			Name:                battery.QuoteLabel(),
			Quantity:            battery.Quantity,
			PowerW:              battery.Power,
			DurationH:           battery.DurationH,
			DailyKWh:            0,
			IncludedInPeakPower: battery.IncludedInPeakPower,
		})
	}

	q := QuoteData{
		Name:      client.Name,
		Address:   QuoteNoAddress,
		SiteName:  QuoteDefaultSite,
		VisitDate: QuoteNoDate,
		Items:     items,
	}
	if q.Name == "" {
		q.Name = QuoteNoClientName
	}
	if address != nil {
		q.Address = address.FullAddress()
		if address.Label != "" {
			q.SiteName = address.Label
		}
	}
	if visit.Date != "" {
		q.VisitDate = FormatVisitDate(visit.Date)
	}

	for _, item := range items {
		q.TotalDailyKWh += item.DailyKWh
		if item.IncludedInPeakPower {
			q.TotalMaxW += item.PowerW * float64(item.Quantity)
		}
	}
	return q
}
