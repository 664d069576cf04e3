package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// summaryCSVHeaders are the column titles of the summary CSV.
var summaryCSVHeaders = []string{
	"Client", "Lieu", "Adresse", "Date", "Agent", "Appareil",
	"Puissance Horaire (kWh)", "Puissance Max (W)", "Duree (h/j)", "Quantite", "Inclus Puissance",
}

// utf8BOM lets spreadsheet software detect the encoding of the CSV.
const utf8BOM = "\ufeff"

// GenerateSummaryCSV writes export rows as a semicolon separated CSV with
// French decimal commas, prefixed by a UTF-8 byte order mark.
func GenerateSummaryCSV(rows []ExportRow) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(summaryCSVHeaders); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		included := "Non"
		if r.InclusPuissance {
			included = "Oui"
		}
		record := []string{
			r.Client,
			r.Lieu,
			r.Adresse,
			r.Date,
			r.Agent,
			r.Appareil,
			FormatDecimalFR(r.PuissanceHoraireKWh),
			FormatDecimalFR(r.PuissanceMaxW),
			FormatDecimalFR(r.DureeHj),
			strconv.Itoa(r.Quantite),
			included,
		}
		for i := 0; i < 6; i++ {
			record[i] = sanitizeExcelCell(record[i])
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
