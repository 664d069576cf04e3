package services

import "strings"

// Placeholders used when an export row references a missing record.
const (
	UnknownClientName = "Inconnu"
	UnknownAgentName  = "Inconnu"
	UnknownSiteLabel  = "N/A"
)

// ExportRow is one appliance line of one visit, flattened with its client,
// address and agent context. Numeric fields carry resolved values.
type ExportRow struct {
	VisitID             string  `json:"visitId"`
	Client              string  `json:"client"`
	Lieu                string  `json:"lieu"`
	Adresse             string  `json:"adresse"`
	Date                string  `json:"date"`
	Agent               string  `json:"agent"`
	Appareil            string  `json:"appareil"`
	PuissanceHoraireKWh float64 `json:"puissanceHoraireKWh"`
	PuissanceMaxW       float64 `json:"puissanceMaxW"`
	DureeHj             float64 `json:"dureeHj"`
	Quantite            int     `json:"quantite"`
	InclusPuissance     bool    `json:"inclusPuissance"`
	Batterie            bool    `json:"batterie,omitempty"`
}

// DailyKWh returns the row's estimated daily consumption.
func (r ExportRow) DailyKWh() float64 {
	return r.PuissanceHoraireKWh * r.DureeHj * float64(r.Quantite)
}

// FlattenVisits produces one row per resolvable requirement line across all
// visits, in visit input order. A visit with autonomy days gets a battery row
// after its requirement rows, carrying the visit's hourly power total and peak
// power total. Missing clients and addresses degrade to placeholders.
func FlattenVisits(visits []Visit, clients []Client, addresses []Address, devices []Device) []ExportRow {
	catalogue := NewCatalogue(devices)
	clientsByID := make(map[string]Client, len(clients))
	for _, c := range clients {
		clientsByID[c.ID] = c
	}
	addressesByID := make(map[string]Address, len(addresses))
	for _, a := range addresses {
		addressesByID[a.ID] = a
	}

	var rows []ExportRow
	for _, visit := range visits {
		base := ExportRow{
			VisitID: visit.ID,
			Client:  UnknownClientName,
			Lieu:    UnknownSiteLabel,
			Date:    FormatVisitDate(visit.Date),
			Agent:   visit.AgentName,
		}
		if client, ok := clientsByID[visit.ClientID]; ok && client.Name != "" {
			base.Client = client.Name
		}
		if addr, ok := addressesByID[visit.AddressID]; ok {
			if addr.Label != "" {
				base.Lieu = addr.Label
			}
			base.Adresse = addr.FullAddress()
		}
		if base.Agent == "" {
			base.Agent = UnknownAgentName
		}

		lines := resolveLines(visit.Requirements, catalogue)
		for _, l := range lines {
			row := base
			row.Appareil = l.Resolved.Name
			row.PuissanceHoraireKWh = l.Resolved.HourlyPowerKW
			row.PuissanceMaxW = l.Resolved.MaxPowerW
			row.DureeHj = l.Resolved.UsageDurationH
			row.Quantite = l.Requirement.Quantity
			row.InclusPuissance = l.Resolved.IncludedInPeak
			rows = append(rows, row)
		}

		totals := aggregateLines(lines)
		if battery, ok := SynthesizeBattery(visit.AutonomyDays, totals, BatteryBasisHourly); ok {
			row := base
			row.Appareil = battery.ExportLabel()
			row.PuissanceHoraireKWh = battery.Power
			row.PuissanceMaxW = totals.TotalPeakPowerW
			row.DureeHj = battery.DurationH
			row.Quantite = battery.Quantity
			row.InclusPuissance = battery.IncludedInPeakPower
			row.Batterie = true
			rows = append(rows, row)
		}
	}
	return rows
}

// FilterExportRows keeps rows whose client, agent or appliance contains term,
// case-insensitively. An empty term keeps every row.
func FilterExportRows(rows []ExportRow, term string) []ExportRow {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return rows
	}
	var out []ExportRow
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Client), term) ||
			strings.Contains(strings.ToLower(r.Agent), term) ||
			strings.Contains(strings.ToLower(r.Appareil), term) {
			out = append(out, r)
		}
	}
	return out
}

// ExportSummary holds the KPIs shown above a row listing.
type ExportSummary struct {
	RowCount      int     `json:"rowCount"`
	TotalDailyKWh float64 `json:"totalDailyKWh"`
}

// SummarizeRows totals the daily consumption of the given rows. Battery rows
// have zero duration and so add nothing.
func SummarizeRows(rows []ExportRow) ExportSummary {
	s := ExportSummary{RowCount: len(rows)}
	for _, r := range rows {
		s.TotalDailyKWh += r.DailyKWh()
	}
	return s
}
