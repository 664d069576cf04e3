package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"solarvisit/config"
	"solarvisit/services"
)

// buildQuoteData loads a visit with its client, address and the catalogue,
// returning the assembled quote. A missing visit yields
// services.ErrVisitNotFound.
func buildQuoteData(app *pocketbase.PocketBase, visitID string) (services.QuoteData, error) {
	visit, err := services.LoadVisit(app, visitID)
	if err != nil {
		return services.QuoteData{}, err
	}
	client, _, err := services.LoadClient(app, visit.ClientID)
	if err != nil {
		return services.QuoteData{}, err
	}
	var address *services.Address
	a, ok, err := services.LoadAddress(app, visit.AddressID)
	if err != nil {
		return services.QuoteData{}, err
	}
	if ok {
		address = &a
	}
	devices, err := services.LoadDevices(app)
	if err != nil {
		return services.QuoteData{}, err
	}
	return services.BuildQuote(visit, client, address, devices), nil
}

// visitLoadError writes 404 for a missing visit and 500 for anything else.
func visitLoadError(app *pocketbase.PocketBase, e *core.RequestEvent, op, visitID string, err error) error {
	if errors.Is(err, services.ErrVisitNotFound) {
		return e.String(http.StatusNotFound, "Visit not found")
	}
	app.Logger().Error(op+": load failed", "visit", visitID, "error", err)
	return e.String(http.StatusInternalServerError, "Failed to load visit")
}

// HandleVisitTotals returns the aggregated energy figures of a visit.
// Route: GET /api/visits/{id}/totals
func HandleVisitTotals(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		visitID := e.Request.PathValue("id")
		if visitID == "" {
			return e.String(http.StatusBadRequest, "Missing visit ID")
		}

		visit, err := services.LoadVisit(app, visitID)
		if err != nil {
			return visitLoadError(app, e, "visit_totals", visitID, err)
		}
		devices, err := services.LoadDevices(app)
		if err != nil {
			return visitLoadError(app, e, "visit_totals", visitID, err)
		}

		totals := services.AggregateVisit(visit.Requirements, services.NewCatalogue(devices))
		return e.JSON(http.StatusOK, totals)
	}
}

// HandleVisitQuote returns the quote of a visit as JSON.
// Route: GET /api/visits/{id}/quote
func HandleVisitQuote(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		visitID := e.Request.PathValue("id")
		if visitID == "" {
			return e.String(http.StatusBadRequest, "Missing visit ID")
		}

		quote, err := buildQuoteData(app, visitID)
		if err != nil {
			return visitLoadError(app, e, "visit_quote", visitID, err)
		}
		return e.JSON(http.StatusOK, quote)
	}
}

// HandleVisitQuotePDF renders the quote of a visit as a downloadable PDF.
// Route: GET /visits/{id}/quote/pdf
func HandleVisitQuotePDF(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		visitID := e.Request.PathValue("id")
		if visitID == "" {
			return e.String(http.StatusBadRequest, "Missing visit ID")
		}

		quote, err := buildQuoteData(app, visitID)
		if err != nil {
			return visitLoadError(app, e, "quote_pdf", visitID, err)
		}

		pdfBytes, err := services.GenerateQuotePDF(quote, cfg.CompanyName, time.Now().Format("02/01/2006"))
		if err != nil {
			app.Logger().Error("quote_pdf: failed to generate", "visit", visitID, "error", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("Devis_%s_%s.pdf", sanitizeFilename(quote.Name), time.Now().Format("2006-01-02"))

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// CreateVisitRequest is the body accepted by HandleVisitCreate.
type CreateVisitRequest struct {
	ClientID     string `json:"clientId"`
	AddressID    string `json:"addressId"`
	Date         string `json:"date"`
	AutonomyDays *int   `json:"autonomyDays"`
	Notes        string `json:"notes"`
	Requirements []struct {
		DeviceID string `json:"deviceId"`
		Quantity int    `json:"quantity"`
	} `json:"requirements"`
}

// HandleVisitCreate creates a scheduled visit stamped with the configured
// agent identity. Requirement lines are seeded from the catalogue.
// Route: POST /api/visits
func HandleVisitCreate(app *pocketbase.PocketBase, cfg config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req CreateVisitRequest
		if err := e.BindBody(&req); err != nil {
			return e.String(http.StatusBadRequest, "Invalid request body")
		}
		if req.ClientID == "" {
			return e.String(http.StatusBadRequest, "Missing client ID")
		}
		if _, err := app.FindRecordById("clients", req.ClientID); err != nil {
			return e.String(http.StatusBadRequest, "Unknown client")
		}
		if req.AddressID != "" {
			addr, err := app.FindRecordById("addresses", req.AddressID)
			if err != nil || addr.GetString("client") != req.ClientID {
				return e.String(http.StatusBadRequest, "Unknown address for client")
			}
		}

		autonomy := cfg.DefaultAutonomyDays
		if req.AutonomyDays != nil {
			autonomy = *req.AutonomyDays
		}
		visit := services.NewVisit(req.ClientID, req.AddressID, req.Date, cfg.Agent(), autonomy)
		visit.Notes = req.Notes

		if len(req.Requirements) > 0 {
			devices, err := services.LoadDevices(app)
			if err != nil {
				app.Logger().Error("visit_create: load catalogue", "error", err)
				return e.String(http.StatusInternalServerError, "Failed to load catalogue")
			}
			catalogue := services.NewCatalogue(devices)
			for _, line := range req.Requirements {
				device, ok := catalogue[line.DeviceID]
				if !ok {
					return e.String(http.StatusBadRequest, fmt.Sprintf("Unknown device %q", line.DeviceID))
				}
				if line.Quantity < 0 {
					return e.String(http.StatusBadRequest, "Quantity must not be negative")
				}
				visit.Requirements = append(visit.Requirements, services.NewRequirement(device, line.Quantity))
			}
		}

		id, err := services.SaveVisit(app, visit)
		if err != nil {
			app.Logger().Error("visit_create: save failed", "error", err)
			return e.String(http.StatusInternalServerError, "Failed to save visit")
		}
		visit.ID = id

		app.Logger().Info("visit created", "visit", id, "client", req.ClientID, "agent", visit.AgentName)
		return e.JSON(http.StatusCreated, visit)
	}
}
