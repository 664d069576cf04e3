package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"solarvisit/services"
)

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, "\"", "")
	return s
}

// buildSummaryRows flattens every visit and applies the optional ?q= filter.
func buildSummaryRows(app *pocketbase.PocketBase, e *core.RequestEvent) ([]services.ExportRow, error) {
	s, err := services.LoadSnapshot(app)
	if err != nil {
		return nil, err
	}
	rows := services.FlattenVisits(s.Visits, s.Clients, s.Addresses, s.Devices)
	return services.FilterExportRows(rows, e.Request.URL.Query().Get("q")), nil
}

func attachment(e *core.RequestEvent, contentType, filename string, body []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	e.Response.Write(body)
	return nil
}

// HandleSummaryCSV downloads the flattened requirement rows as CSV.
// Route: GET /exports/summary.csv
func HandleSummaryCSV(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rows, err := buildSummaryRows(app, e)
		if err != nil {
			app.Logger().Error("export_csv: load failed", "error", err)
			return e.String(http.StatusInternalServerError, "Failed to load visits")
		}

		csvBytes, err := services.GenerateSummaryCSV(rows)
		if err != nil {
			app.Logger().Error("export_csv: failed to generate", "error", err)
			return e.String(http.StatusInternalServerError, "Failed to generate CSV file")
		}

		filename := fmt.Sprintf("export_visites_%s.csv", time.Now().Format("2006-01-02"))
		return attachment(e, "text/csv; charset=utf-8", filename, csvBytes)
	}
}

// HandleSummaryJSON returns the flattened requirement rows with their totals.
// Route: GET /exports/summary.json
func HandleSummaryJSON(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rows, err := buildSummaryRows(app, e)
		if err != nil {
			app.Logger().Error("export_json: load failed", "error", err)
			return e.JSON(http.StatusInternalServerError, map[string]any{"error": "failed to load visits"})
		}
		if rows == nil {
			rows = []services.ExportRow{}
		}
		return e.JSON(http.StatusOK, map[string]any{
			"rows":    rows,
			"summary": services.SummarizeRows(rows),
		})
	}
}

// HandleWorkbookExport downloads the three-sheet workbook of all data.
// Route: GET /exports/workbook.xlsx
func HandleWorkbookExport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s, err := services.LoadSnapshot(app)
		if err != nil {
			app.Logger().Error("export_excel: load failed", "error", err)
			return e.String(http.StatusInternalServerError, "Failed to load visits")
		}

		now := time.Now()
		xlsxBytes, err := services.GenerateWorkbook(services.BuildWorkbookData(s, now))
		if err != nil {
			app.Logger().Error("export_excel: failed to generate", "error", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("export_complet_%s.xlsx", now.Format("2006-01-02"))
		return attachment(e, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", filename, xlsxBytes)
	}
}

// HandleBackupExport downloads every collection as a JSON backup.
// Route: GET /exports/backup.json
func HandleBackupExport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s, err := services.LoadSnapshot(app)
		if err != nil {
			app.Logger().Error("backup: load failed", "error", err)
			return e.String(http.StatusInternalServerError, "Failed to load data")
		}

		data, err := services.MarshalBackup(s)
		if err != nil {
			app.Logger().Error("backup: marshal failed", "error", err)
			return e.String(http.StatusInternalServerError, "Failed to build backup")
		}

		filename := fmt.Sprintf("backup_%s.json", time.Now().Format("2006-01-02"))
		return attachment(e, "application/json", filename, data)
	}
}

// HandleBackupRestore imports a JSON backup uploaded as the "file" form field.
// Route: POST /imports/backup
func HandleBackupRestore(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return e.String(http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return e.String(http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		s, err := services.ParseBackup(file)
		if err != nil {
			app.Logger().Warn("restore: invalid backup", "file", header.Filename, "error", err)
			return e.String(http.StatusBadRequest, "Invalid backup file")
		}

		result, err := services.RestoreBackup(app, s)
		if err != nil {
			app.Logger().Error("restore: failed", "file", header.Filename, "error", err)
			return e.String(http.StatusInternalServerError, "Failed to restore backup")
		}

		app.Logger().Info("backup restored",
			"file", header.Filename,
			"clients", result.Clients,
			"addresses", result.Addresses,
			"devices", result.Devices,
			"visits", result.Visits,
			"skipped", result.Skipped,
			"removed", result.Removed,
		)
		return e.JSON(http.StatusOK, result)
	}
}
