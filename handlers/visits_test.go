package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase/core"

	"solarvisit/config"
	"solarvisit/services"
	"solarvisit/testhelpers"
)

func testConfig() config.Config {
	return config.Config{
		AgentName:           "Marie Curie",
		TeamID:              "team-nord",
		CompanyName:         "Soleil SARL",
		DefaultAutonomyDays: 1,
	}
}

func TestHandleVisitTotals_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := createVisitFixture(t, app)

	req := httptest.NewRequest(http.MethodGet, "/api/visits/"+f.visit.Id+"/totals", nil)
	req.SetPathValue("id", f.visit.Id)
	rec := httptest.NewRecorder()
	if err := HandleVisitTotals(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var totals services.VisitTotals
	if err := json.Unmarshal(rec.Body.Bytes(), &totals); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if totals.TotalPeakPowerW != 7000 {
		t.Errorf("TotalPeakPowerW = %v, want 7000", totals.TotalPeakPowerW)
	}
	if totals.TotalDailyEnergyKWh != 40 {
		t.Errorf("TotalDailyEnergyKWh = %v, want 40", totals.TotalDailyEnergyKWh)
	}
	if totals.DeviceCount != 2 {
		t.Errorf("DeviceCount = %d, want 2", totals.DeviceCount)
	}
}

func TestHandleVisitTotals_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/visits/nonexistent/totals", nil)
	req.SetPathValue("id", "nonexistent")
	rec := httptest.NewRecorder()
	if err := HandleVisitTotals(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleVisitQuote_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := createVisitFixture(t, app)

	req := httptest.NewRequest(http.MethodGet, "/api/visits/"+f.visit.Id+"/quote", nil)
	req.SetPathValue("id", f.visit.Id)
	rec := httptest.NewRecorder()
	if err := HandleVisitQuote(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var quote services.QuoteData
	if err := json.Unmarshal(rec.Body.Bytes(), &quote); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if quote.Name != "Jean Dupont" {
		t.Errorf("Name = %q", quote.Name)
	}
	if quote.SiteName != "Maison principale" {
		t.Errorf("SiteName = %q", quote.SiteName)
	}
	if quote.VisitDate != "14/03/2026" {
		t.Errorf("VisitDate = %q, want 14/03/2026", quote.VisitDate)
	}
	if len(quote.Items) != 2 {
		t.Fatalf("expected device + battery items, got %d", len(quote.Items))
	}
	battery := quote.Items[1]
	if battery.Name != "Batterie (Autonomie: 2j)" || battery.PowerW != 7000 {
		t.Errorf("battery item = %+v", battery)
	}
	if quote.TotalMaxW != 7000 {
		t.Errorf("TotalMaxW = %v, want 7000", quote.TotalMaxW)
	}
}

func TestHandleVisitQuotePDF_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := createVisitFixture(t, app)

	req := httptest.NewRequest(http.MethodGet, "/visits/"+f.visit.Id+"/quote/pdf", nil)
	req.SetPathValue("id", f.visit.Id)
	rec := httptest.NewRecorder()
	if err := HandleVisitQuotePDF(app, testConfig())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "Devis_Jean-Dupont_") {
		t.Errorf("unexpected disposition %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("expected body to start with %PDF")
	}
}

func TestHandleVisitQuotePDF_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/visits/nonexistent/quote/pdf", nil)
	req.SetPathValue("id", "nonexistent")
	rec := httptest.NewRecorder()
	if err := HandleVisitQuotePDF(app, testConfig())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleVisitQuote_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/visits/nonexistent/quote", nil)
	req.SetPathValue("id", "nonexistent")
	rec := httptest.NewRecorder()
	if err := HandleVisitQuote(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleVisitQuote_StoreErrorIs500(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	f := createVisitFixture(t, app)

	devices, err := app.FindCollectionByNameOrId("devices")
	if err != nil {
		t.Fatalf("find devices collection: %v", err)
	}
	if err := app.Delete(devices); err != nil {
		t.Fatalf("delete devices collection: %v", err)
	}

	cases := map[string]func(*core.RequestEvent) error{
		"quote":  HandleVisitQuote(app),
		"pdf":    HandleVisitQuotePDF(app, testConfig()),
		"totals": HandleVisitTotals(app),
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/visits/"+f.visit.Id+"/quote", nil)
			req.SetPathValue("id", f.visit.Id)
			rec := httptest.NewRecorder()
			if err := h(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusInternalServerError {
				t.Errorf("expected 500, got %d", rec.Code)
			}
		})
	}
}

func TestHandleVisitCreate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestClient(t, app, "Paul Martin")
	address := testhelpers.CreateTestAddress(t, app, client.Id, "Atelier")
	device := testhelpers.CreateTestDevice(t, app, "Plaques Induction", 7000, 1, 3)
	other := testhelpers.CreateTestClient(t, app, "Autre Client")
	otherAddress := testhelpers.CreateTestAddress(t, app, other.Id, "Ailleurs")

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid with lines", `{"clientId":"` + client.Id + `","addressId":"` + address.Id + `","date":"2026-05-02","requirements":[{"deviceId":"` + device.Id + `","quantity":1}]}`, http.StatusCreated},
		{"missing client", `{"date":"2026-05-02"}`, http.StatusBadRequest},
		{"unknown client", `{"clientId":"nope"}`, http.StatusBadRequest},
		{"address of other client", `{"clientId":"` + client.Id + `","addressId":"` + otherAddress.Id + `"}`, http.StatusBadRequest},
		{"unknown device", `{"clientId":"` + client.Id + `","requirements":[{"deviceId":"ghost","quantity":1}]}`, http.StatusBadRequest},
		{"invalid json", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/visits", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			if err := HandleVisitCreate(app, testConfig())(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleVisitCreate_StampsAgentAndDefaults(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestClient(t, app, "Paul Martin")

	body := `{"clientId":"` + client.Id + `","date":"2026-05-02"}`
	req := httptest.NewRequest(http.MethodPost, "/api/visits", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	if err := HandleVisitCreate(app, testConfig())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created services.Visit
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	stored, err := services.LoadVisit(app, created.ID)
	if err != nil {
		t.Fatalf("LoadVisit: %v", err)
	}
	if stored.AgentName != "Marie Curie" || stored.TeamID != "team-nord" {
		t.Errorf("agent stamp = %q/%q", stored.AgentName, stored.TeamID)
	}
	if stored.Status != services.VisitStatusScheduled {
		t.Errorf("Status = %q", stored.Status)
	}
	if stored.AutonomyDays == nil || *stored.AutonomyDays != 1 {
		t.Errorf("AutonomyDays = %v, want default 1", stored.AutonomyDays)
	}
	if len(stored.Requirements) != 0 {
		t.Errorf("expected no requirements, got %d", len(stored.Requirements))
	}
}

func TestHandleVisitCreate_DefaultConfigHasNoBattery(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	client := testhelpers.CreateTestClient(t, app, "Paul Martin")
	device := testhelpers.CreateTestDevice(t, app, "Plaques Induction", 7000, 1, 3)

	cfg := testConfig()
	cfg.DefaultAutonomyDays = config.DefaultAutonomyDays

	body := `{"clientId":"` + client.Id + `","date":"2026-05-02","requirements":[{"deviceId":"` + device.Id + `","quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/visits", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	if err := HandleVisitCreate(app, cfg)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created services.Visit
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	stored, err := services.LoadVisit(app, created.ID)
	if err != nil {
		t.Fatalf("LoadVisit: %v", err)
	}
	if stored.AutonomyDays != nil {
		t.Errorf("AutonomyDays = %d, want unset", *stored.AutonomyDays)
	}

	quote, err := buildQuoteData(app, created.ID)
	if err != nil {
		t.Fatalf("buildQuoteData: %v", err)
	}
	if len(quote.Items) != 1 {
		t.Errorf("expected only the device line, got %+v", quote.Items)
	}
}
