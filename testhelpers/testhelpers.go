// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"solarvisit/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestClient creates a client record with the given name and returns it.
func CreateTestClient(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("clients")
	if err != nil {
		t.Fatalf("failed to find clients collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("email", "contact@example.fr")
	record.Set("phone", "0601020304")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test client: %v", err)
	}

	return record
}

// CreateTestAddress creates an address record linked to a client and returns it.
func CreateTestAddress(t *testing.T, app *pocketbase.PocketBase, clientID, label string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("addresses")
	if err != nil {
		t.Fatalf("failed to find addresses collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("client", clientID)
	record.Set("label", label)
	record.Set("street", "12 rue des Lilas")
	record.Set("city", "Lyon")
	record.Set("zip", "69003")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test address: %v", err)
	}

	return record
}

// CreateTestDevice creates a catalogue device and returns it.
func CreateTestDevice(t *testing.T, app *pocketbase.PocketBase, name string, maxPower, usageDuration, hourlyPower float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("devices")
	if err != nil {
		t.Fatalf("failed to find devices collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("max_power", maxPower)
	record.Set("usage_duration", usageDuration)
	record.Set("hourly_power", hourlyPower)
	record.Set("default_included_in_peak_power", true)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test device: %v", err)
	}

	return record
}

// CreateTestVisit creates a scheduled visit. requirements is stored as-is in
// the JSON field, so callers usually pass []services.VisitRequirement.
func CreateTestVisit(t *testing.T, app *pocketbase.PocketBase, clientID, addressID, date string, autonomyDays int, requirements any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("visits")
	if err != nil {
		t.Fatalf("failed to find visits collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("client", clientID)
	record.Set("address", addressID)
	record.Set("date", date)
	record.Set("status", "SCHEDULED")
	record.Set("requirements", requirements)
	record.Set("agent_name", "Agent Test")
	if autonomyDays > 0 {
		record.Set("autonomy_days", autonomyDays)
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test visit: %v", err)
	}

	return record
}

// AssertBodyContains checks that body contains all specified fragments.
func AssertBodyContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected body to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
