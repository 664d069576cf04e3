package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"

	"solarvisit/services"
)

type deviceDef struct {
	name          string
	maxPower      float64
	usageDuration float64
	hourlyPower   float64
}

// defaultDevices is the catalogue inserted into an empty devices collection.
var defaultDevices = []deviceDef{
	{name: "Pompe à Chaleur", maxPower: 3500, usageDuration: 8, hourlyPower: 2.5},
	{name: "Ballon Thermo-dynamique", maxPower: 2000, usageDuration: 4, hourlyPower: 1.2},
	{name: "Plaques Induction", maxPower: 7000, usageDuration: 1, hourlyPower: 3.0},
	{name: "Borne de Recharge VE", maxPower: 7400, usageDuration: 6, hourlyPower: 7.4},
}

// Seed populates the device catalogue with the default appliances. It is
// safe to call on every startup because it returns early if any device
// records already exist.
func Seed(app *pocketbase.PocketBase) error {
	devicesCol, err := app.FindCollectionByNameOrId("devices")
	if err != nil {
		return fmt.Errorf("seed: could not find devices collection: %w", err)
	}
	existing, err := app.FindAllRecords(devicesCol)
	if err != nil {
		return fmt.Errorf("seed: could not query devices: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: devices collection is empty, inserting default catalogue")

	for _, d := range defaultDevices {
		included := true
		_, err := services.SaveDevice(app, services.Device{
			Name:                       d.name,
			MaxPower:                   d.maxPower,
			UsageDuration:              d.usageDuration,
			HourlyPower:                d.hourlyPower,
			DefaultIncludedInPeakPower: &included,
		})
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	log.Printf("seed: inserted %d devices", len(defaultDevices))
	return nil
}
