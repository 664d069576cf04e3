package collections_test

import (
	"testing"

	"solarvisit/collections"
	"solarvisit/services"
	"solarvisit/testhelpers"
)

func TestSeed_CreatesDefaultDevices(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	s, err := services.LoadSnapshot(app)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(s.Devices) != 4 {
		t.Fatalf("expected 4 devices, got %d", len(s.Devices))
	}

	byName := make(map[string]services.Device)
	for _, d := range s.Devices {
		byName[d.Name] = d
	}
	pac, ok := byName["Pompe à Chaleur"]
	if !ok {
		t.Fatal("Pompe à Chaleur not seeded")
	}
	if pac.MaxPower != 3500 || pac.UsageDuration != 8 || pac.HourlyPower != 2.5 {
		t.Errorf("Pompe à Chaleur = %+v", pac)
	}
	if pac.DefaultIncludedInPeakPower == nil || !*pac.DefaultIncludedInPeakPower {
		t.Error("expected seeded devices to be included in peak power by default")
	}
	if ve, ok := byName["Borne de Recharge VE"]; !ok || ve.MaxPower != 7400 {
		t.Errorf("Borne de Recharge VE = %+v (found=%v)", ve, ok)
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}
	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}

	records, err := app.FindAllRecords("devices")
	if err != nil {
		t.Fatalf("query devices: %v", err)
	}
	if len(records) != 4 {
		t.Errorf("expected 4 devices after two seeds, got %d", len(records))
	}
}

func TestSeed_SkipsWhenCatalogueExists(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestDevice(t, app, "Climatiseur", 1500, 6, 1.0)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	records, _ := app.FindAllRecords("devices")
	if len(records) != 1 {
		t.Errorf("expected seed to leave existing catalogue alone, got %d devices", len(records))
	}
}
