package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"solarvisit/services"
)

// Setup programmatically creates/ensures the clients, addresses, devices
// and visits collections exist.
func Setup(app *pocketbase.PocketBase) {
	clients := ensureCollection(app, "clients", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "email", Required: false})
		c.Fields.Add(&core.TextField{Name: "phone", Required: false})
		c.Fields.Add(&core.TextField{Name: "company", Required: false})
		c.Fields.Add(&core.TextField{Name: "notes", Required: false})
		c.Fields.Add(&core.TextField{Name: "agent_id", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	addresses := ensureCollection(app, "addresses", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "client",
			Required:      true,
			CollectionId:  clients.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "label", Required: false})
		c.Fields.Add(&core.TextField{Name: "street", Required: false})
		c.Fields.Add(&core.TextField{Name: "city", Required: false})
		c.Fields.Add(&core.TextField{Name: "zip", Required: false})
	})

	ensureCollection(app, "devices", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "max_power", Required: false})
		c.Fields.Add(&core.NumberField{Name: "usage_duration", Required: false})
		c.Fields.Add(&core.NumberField{Name: "hourly_power", Required: false})
		// true, false or null (unset).
		c.Fields.Add(&core.JSONField{Name: "default_included_in_peak_power"})
		c.Fields.Add(&core.TextField{Name: "notes", Required: false})
	})

	ensureCollection(app, "visits", func(c *core.Collection) {
		// Optional: exports fall back to placeholders when these are gone.
		c.Fields.Add(&core.RelationField{
			Name:         "client",
			Required:     false,
			CollectionId: clients.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "address",
			Required:     false,
			CollectionId: addresses.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.TextField{Name: "date", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:     "status",
			Required: true,
			Values: []string{
				services.VisitStatusScheduled,
				services.VisitStatusCompleted,
				services.VisitStatusCancelled,
			},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.JSONField{Name: "requirements"})
		c.Fields.Add(&core.NumberField{Name: "autonomy_days", Required: false, OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "report", Required: false})
		c.Fields.Add(&core.TextField{Name: "notes", Required: false})
		c.Fields.Add(&core.TextField{Name: "agent_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "team_id", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
