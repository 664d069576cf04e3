package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/spf13/cobra"

	"solarvisit/collections"
	"solarvisit/services"
)

// exportFormats maps the --format values to their generators.
var exportFormats = map[string]func(services.Snapshot, string) ([]byte, error){
	"xlsx": func(s services.Snapshot, _ string) ([]byte, error) {
		return services.GenerateWorkbook(services.BuildWorkbookData(s, time.Now()))
	},
	"csv": func(s services.Snapshot, q string) ([]byte, error) {
		rows := services.FlattenVisits(s.Visits, s.Clients, s.Addresses, s.Devices)
		return services.GenerateSummaryCSV(services.FilterExportRows(rows, q))
	},
	"backup": func(s services.Snapshot, _ string) ([]byte, error) {
		return services.MarshalBackup(s)
	},
}

var exportExtensions = map[string]string{"xlsx": "xlsx", "csv": "csv", "backup": "json"}

// newExportCmd writes an export of the local data to a file without
// starting the HTTP server.
func newExportCmd(app *pocketbase.PocketBase) *cobra.Command {
	var format, output, query string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the visits export (xlsx, csv or backup) to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			generate, ok := exportFormats[format]
			if !ok {
				return fmt.Errorf("unknown format %q (want xlsx, csv or backup)", format)
			}

			collections.Setup(app)
			s, err := services.LoadSnapshot(app)
			if err != nil {
				return err
			}
			data, err := generate(s, query)
			if err != nil {
				return fmt.Errorf("generate %s export: %w", format, err)
			}

			if output == "" {
				output = fmt.Sprintf("export_%s.%s", time.Now().Format("2006-01-02"), exportExtensions[format])
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			log.Printf("export: wrote %d visits to %s", len(s.Visits), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "xlsx", "export format: xlsx, csv or backup")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default export_<date>.<ext>)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter rows by client, agent or appliance (csv only)")
	return cmd
}
