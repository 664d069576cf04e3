package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the full workbook export.
const (
	SheetClients = "Clients"
	SheetVisits  = "Visites"
	SheetDetails = "Détails Besoins"
)

// VisitSheetRow is one line of the "Visites" sheet.
type VisitSheetRow struct {
	ID     string
	Client string
	Lieu   string
	Date   string
	Status string
	Report string
	Notes  string
}

// WorkbookData holds everything written to the workbook export.
type WorkbookData struct {
	GeneratedDate string
	Clients       []Client
	Visits        []VisitSheetRow
	Rows          []ExportRow
	Summary       ExportSummary
}

// BuildWorkbookData prepares the workbook sheets from a snapshot. Requirement
// details come from FlattenVisits so they carry resolved values.
func BuildWorkbookData(s Snapshot, generated time.Time) WorkbookData {
	data := WorkbookData{
		GeneratedDate: generated.Format("02/01/2006"),
		Clients:       s.Clients,
		Rows:          FlattenVisits(s.Visits, s.Clients, s.Addresses, s.Devices),
	}
	data.Summary = SummarizeRows(data.Rows)

	for _, v := range s.Visits {
		row := VisitSheetRow{
			ID:     v.ID,
			Client: UnknownClientName,
			Lieu:   UnknownClientName,
			Date:   FormatVisitDate(v.Date),
			Status: v.Status,
			Report: v.Report,
			Notes:  v.Notes,
		}
		if c, ok := s.FindClient(v.ClientID); ok && c.Name != "" {
			row.Client = c.Name
		}
		if a, ok := s.FindAddress(v.AddressID); ok {
			row.Lieu = fmt.Sprintf("%s: %s, %s", a.Label, a.Street, a.City)
		}
		data.Visits = append(data.Visits, row)
	}
	return data
}

// sheetColumn describes one column of a data sheet.
type sheetColumn struct {
	Header string
	Width  float64
}

// workbookStyles are the style ids shared by every sheet.
type workbookStyles struct {
	title    int
	subtitle int
	header   int
	data     int
	battery  int
	label    int
	value    int
}

// GenerateWorkbook creates the xlsx export (clients, visits and requirement
// details) and returns the file contents.
func GenerateWorkbook(data WorkbookData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetClients); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	for _, name := range []string{SheetVisits, SheetDetails} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return nil, err
	}

	// ── Clients ─────────────────────────────────────────────────────────
	clientCols := []sheetColumn{
		{"ID", 18}, {"Nom", 28}, {"Email", 30}, {"Telephone", 16},
		{"Entreprise", 24}, {"Commentaire_Client", 40}, {"Cree_le", 20},
	}
	clientRows := make([][]any, 0, len(data.Clients))
	for _, c := range data.Clients {
		created := ""
		if !c.CreatedAt.IsZero() {
			created = c.CreatedAt.Format("02/01/2006 15:04:05")
		}
		clientRows = append(clientRows, []any{
			c.ID, c.Name, c.Email, c.Phone, c.Company, c.Notes, created,
		})
	}
	if err := writeDataSheet(f, SheetClients, "Clients", data.GeneratedDate, clientCols, clientRows, nil, styles); err != nil {
		return nil, err
	}

	// ── Visites ─────────────────────────────────────────────────────────
	visitCols := []sheetColumn{
		{"ID", 18}, {"Client", 28}, {"Lieu", 40}, {"Date", 14},
		{"Statut", 14}, {"Rapport_Visite", 50}, {"Observations", 50},
	}
	visitRows := make([][]any, 0, len(data.Visits))
	for _, v := range data.Visits {
		visitRows = append(visitRows, []any{v.ID, v.Client, v.Lieu, v.Date, v.Status, v.Report, v.Notes})
	}
	if err := writeDataSheet(f, SheetVisits, "Visites", data.GeneratedDate, visitCols, visitRows, nil, styles); err != nil {
		return nil, err
	}

	// ── Détails Besoins ─────────────────────────────────────────────────
	detailCols := []sheetColumn{
		{"ID_Visite", 18}, {"Client", 26}, {"Lieu", 20}, {"Adresse", 36}, {"Date", 12},
		{"Agent", 18}, {"Appareil", 30}, {"Quantite", 10}, {"Puis_Max_W", 12},
		{"Consommation_Horaire_kWh", 14}, {"Duree_h_j", 10}, {"Inclus_Puissance", 10},
		{"Total_Journalier_kWh", 14},
	}
	detailRows := make([][]any, 0, len(data.Rows))
	var batteryRows []int
	for i, r := range data.Rows {
		included := "Non"
		if r.InclusPuissance {
			included = "Oui"
		}
		detailRows = append(detailRows, []any{
			r.VisitID, r.Client, r.Lieu, r.Adresse, r.Date, r.Agent, r.Appareil,
			r.Quantite, r.PuissanceMaxW, r.PuissanceHoraireKWh, r.DureeHj, included, r.DailyKWh(),
		})
		if r.Batterie {
			batteryRows = append(batteryRows, i)
		}
	}
	if err := writeDataSheet(f, SheetDetails, "Détails Besoins", data.GeneratedDate, detailCols, detailRows, batteryRows, styles); err != nil {
		return nil, err
	}

	// Summary below the details table.
	summaryRow := 5 + len(detailRows) + 1
	lastCol := colName(len(detailCols) - 1)
	labelCol := colName(len(detailCols) - 2)
	f.SetCellValue(SheetDetails, fmt.Sprintf("%s%d", labelCol, summaryRow), "Total kWh/j:")
	f.SetCellStyle(SheetDetails, fmt.Sprintf("%s%d", labelCol, summaryRow), fmt.Sprintf("%s%d", labelCol, summaryRow), styles.label)
	f.SetCellValue(SheetDetails, fmt.Sprintf("%s%d", lastCol, summaryRow), data.Summary.TotalDailyKWh)
	f.SetCellStyle(SheetDetails, fmt.Sprintf("%s%d", lastCol, summaryRow), fmt.Sprintf("%s%d", lastCol, summaryRow), styles.value)

	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error

	if s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	}); err != nil {
		return s, fmt.Errorf("create title style: %w", err)
	}

	if s.subtitle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	}); err != nil {
		return s, fmt.Errorf("create subtitle style: %w", err)
	}

	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
		Border: thinBorders(),
	}); err != nil {
		return s, fmt.Errorf("create header style: %w", err)
	}

	if s.data, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
	}); err != nil {
		return s, fmt.Errorf("create data style: %w", err)
	}

	// Battery rows: italic on a pale yellow fill.
	if s.battery, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10, Italic: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFF8DC"}, Pattern: 1},
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
	}); err != nil {
		return s, fmt.Errorf("create battery style: %w", err)
	}

	if s.label, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	}); err != nil {
		return s, fmt.Errorf("create summary label style: %w", err)
	}

	if s.value, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	}); err != nil {
		return s, fmt.Errorf("create summary value style: %w", err)
	}

	return s, nil
}

// writeDataSheet lays out a titled table: title on row 1, date on row 2,
// headers on row 4 (frozen) and data from row 5. highlight lists the data row
// indexes drawn with the battery style.
func writeDataSheet(f *excelize.File, sheet, title, date string, cols []sheetColumn, rows [][]any, highlight []int, s workbookStyles) error {
	lastCol := colName(len(cols) - 1)

	for i, c := range cols {
		letter := colName(i)
		if err := f.SetColWidth(sheet, letter, letter, c.Width); err != nil {
			return fmt.Errorf("set col width %s!%s: %w", sheet, letter, err)
		}
	}

	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return fmt.Errorf("merge title %s: %w", sheet, err)
	}
	f.SetCellValue(sheet, "A1", title)
	f.SetCellStyle(sheet, "A1", lastCol+"1", s.title)

	if err := f.MergeCell(sheet, "A2", lastCol+"2"); err != nil {
		return fmt.Errorf("merge date %s: %w", sheet, err)
	}
	f.SetCellValue(sheet, "A2", fmt.Sprintf("Export du %s - %d lignes", date, len(rows)))
	f.SetCellStyle(sheet, "A2", lastCol+"2", s.subtitle)

	for i, c := range cols {
		f.SetCellValue(sheet, fmt.Sprintf("%s4", colName(i)), c.Header)
	}
	f.SetCellStyle(sheet, "A4", lastCol+"4", s.header)

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      4,
		TopLeftCell: "A5",
		ActivePane:  "bottomLeft",
	})

	highlighted := make(map[int]bool, len(highlight))
	for _, i := range highlight {
		highlighted[i] = true
	}

	for rowIdx, values := range rows {
		rowStr := fmt.Sprintf("%d", rowIdx+5)
		for colIdx, v := range values {
			if str, ok := v.(string); ok {
				v = sanitizeExcelCell(str)
			}
			f.SetCellValue(sheet, colName(colIdx)+rowStr, v)
		}
		style := s.data
		if highlighted[rowIdx] {
			style = s.battery
		}
		f.SetCellStyle(sheet, "A"+rowStr, lastCol+rowStr, style)
	}
	return nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}

// colName converts a 0-based column index to an Excel column letter (A, B, ..., Z, AA, ...).
func colName(index int) string {
	name := ""
	for index >= 0 {
		name = string(rune('A'+index%26)) + name
		index = index/26 - 1
	}
	return name
}
