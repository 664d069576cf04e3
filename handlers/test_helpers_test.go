package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"solarvisit/services"
	"solarvisit/testhelpers"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

type visitFixture struct {
	client  *core.Record
	address *core.Record
	device  *core.Record
	visit   *core.Record
}

// createVisitFixture stores one client with one address and a visit needing
// two heat pumps (3500 W, 8 h/day, 2.5 kW) with two autonomy days.
func createVisitFixture(t *testing.T, app *pocketbase.PocketBase) visitFixture {
	t.Helper()

	var f visitFixture
	f.client = testhelpers.CreateTestClient(t, app, "Jean Dupont")
	f.address = testhelpers.CreateTestAddress(t, app, f.client.Id, "Maison principale")
	f.device = testhelpers.CreateTestDevice(t, app, "Pompe à Chaleur", 3500, 8, 2.5)
	f.visit = testhelpers.CreateTestVisit(t, app, f.client.Id, f.address.Id, "2026-03-14", 2,
		[]services.VisitRequirement{{DeviceID: f.device.Id, Quantity: 2}})
	return f
}
