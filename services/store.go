package services

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/pocketbase/pocketbase/core"
)

// LoadSnapshot reads every client, address, device and visit into memory.
// Visits are ordered by date, most recent first.
func LoadSnapshot(app core.App) (Snapshot, error) {
	var s Snapshot

	clients, err := findAllSorted(app, "clients", "name", false)
	if err != nil {
		return s, fmt.Errorf("load clients: %w", err)
	}
	for _, r := range clients {
		s.Clients = append(s.Clients, clientFromRecord(r))
	}

	addresses, err := findAllSorted(app, "addresses", "label", false)
	if err != nil {
		return s, fmt.Errorf("load addresses: %w", err)
	}
	for _, r := range addresses {
		s.Addresses = append(s.Addresses, addressFromRecord(r))
	}

	devices, err := LoadDevices(app)
	if err != nil {
		return s, err
	}
	s.Devices = devices

	visits, err := findAllSorted(app, "visits", "date", true)
	if err != nil {
		return s, fmt.Errorf("load visits: %w", err)
	}
	for _, r := range visits {
		v, err := visitFromRecord(r)
		if err != nil {
			return s, err
		}
		s.Visits = append(s.Visits, v)
	}

	return s, nil
}

// findAllSorted returns every record of a collection ordered by a text field.
func findAllSorted(app core.App, collection, field string, desc bool) ([]*core.Record, error) {
	records, err := app.FindAllRecords(collection)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].GetString(field), records[j].GetString(field)
		if desc {
			return a > b
		}
		return a < b
	})
	return records, nil
}

func clientFromRecord(r *core.Record) Client {
	return Client{
		ID:        r.Id,
		Name:      r.GetString("name"),
		Email:     r.GetString("email"),
		Phone:     r.GetString("phone"),
		Company:   r.GetString("company"),
		Notes:     r.GetString("notes"),
		AgentID:   r.GetString("agent_id"),
		CreatedAt: r.GetDateTime("created").Time(),
		UpdatedAt: r.GetDateTime("updated").Time(),
	}
}

func addressFromRecord(r *core.Record) Address {
	return Address{
		ID:       r.Id,
		ClientID: r.GetString("client"),
		Label:    r.GetString("label"),
		Street:   r.GetString("street"),
		City:     r.GetString("city"),
		Zip:      r.GetString("zip"),
	}
}

func deviceFromRecord(r *core.Record) Device {
	d := Device{
		ID:            r.Id,
		Name:          r.GetString("name"),
		MaxPower:      r.GetFloat("max_power"),
		UsageDuration: r.GetFloat("usage_duration"),
		HourlyPower:   r.GetFloat("hourly_power"),
		Notes:         r.GetString("notes"),
	}
	var included *bool
	if err := r.UnmarshalJSONField("default_included_in_peak_power", &included); err == nil {
		d.DefaultIncludedInPeakPower = included
	}
	return d
}

func visitFromRecord(r *core.Record) (Visit, error) {
	v := Visit{
		ID:        r.Id,
		ClientID:  r.GetString("client"),
		AddressID: r.GetString("address"),
		Date:      r.GetString("date"),
		Status:    r.GetString("status"),
		Report:    r.GetString("report"),
		Notes:     r.GetString("notes"),
		AgentName: r.GetString("agent_name"),
		TeamID:    r.GetString("team_id"),
		UpdatedAt: r.GetDateTime("updated").Time(),
	}
	if days := r.GetInt("autonomy_days"); days > 0 {
		v.AutonomyDays = &days
	}
	if raw := r.GetString("requirements"); raw != "" && raw != "null" {
		if err := r.UnmarshalJSONField("requirements", &v.Requirements); err != nil {
			return v, fmt.Errorf("decode requirements of visit %s: %w", r.Id, err)
		}
	}
	if v.Requirements == nil {
		v.Requirements = []VisitRequirement{}
	}
	return v, nil
}

// ErrVisitNotFound is returned by LoadVisit when no visit has the given id.
var ErrVisitNotFound = errors.New("visit not found")

// LoadVisit reads a single visit by id.
func LoadVisit(app core.App, id string) (Visit, error) {
	r, err := app.FindRecordById("visits", id)
	if errors.Is(err, sql.ErrNoRows) {
		return Visit{}, fmt.Errorf("%w: %s", ErrVisitNotFound, id)
	}
	if err != nil {
		return Visit{}, fmt.Errorf("load visit %s: %w", id, err)
	}
	return visitFromRecord(r)
}

// LoadClient reads a single client. A missing client is not an error and
// reports false.
func LoadClient(app core.App, id string) (Client, bool, error) {
	r, err := findOptional(app, "clients", id)
	if r == nil || err != nil {
		return Client{}, false, err
	}
	return clientFromRecord(r), true, nil
}

// LoadAddress reads a single address. A missing address reports false.
func LoadAddress(app core.App, id string) (Address, bool, error) {
	r, err := findOptional(app, "addresses", id)
	if r == nil || err != nil {
		return Address{}, false, err
	}
	return addressFromRecord(r), true, nil
}

// LoadDevices reads the device catalogue.
func LoadDevices(app core.App) ([]Device, error) {
	records, err := findAllSorted(app, "devices", "name", false)
	if err != nil {
		return nil, fmt.Errorf("load devices: %w", err)
	}
	devices := make([]Device, 0, len(records))
	for _, r := range records {
		devices = append(devices, deviceFromRecord(r))
	}
	return devices, nil
}

// findOptional returns nil without error for an empty id or a missing record.
func findOptional(app core.App, collection, id string) (*core.Record, error) {
	if id == "" {
		return nil, nil
	}
	r, err := app.FindRecordById(collection, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s %s: %w", collection, id, err)
	}
	return r, nil
}

// SaveClient creates a client record and returns its id.
func SaveClient(app core.App, c Client) (string, error) {
	col, err := app.FindCollectionByNameOrId("clients")
	if err != nil {
		return "", fmt.Errorf("clients collection: %w", err)
	}
	r := core.NewRecord(col)
	r.Set("name", c.Name)
	r.Set("email", c.Email)
	r.Set("phone", c.Phone)
	r.Set("company", c.Company)
	r.Set("notes", c.Notes)
	r.Set("agent_id", c.AgentID)
	if err := app.Save(r); err != nil {
		return "", fmt.Errorf("save client %q: %w", c.Name, err)
	}
	return r.Id, nil
}

// SaveAddress creates an address record and returns its id.
func SaveAddress(app core.App, a Address) (string, error) {
	col, err := app.FindCollectionByNameOrId("addresses")
	if err != nil {
		return "", fmt.Errorf("addresses collection: %w", err)
	}
	r := core.NewRecord(col)
	r.Set("client", a.ClientID)
	r.Set("label", a.Label)
	r.Set("street", a.Street)
	r.Set("city", a.City)
	r.Set("zip", a.Zip)
	if err := app.Save(r); err != nil {
		return "", fmt.Errorf("save address %q: %w", a.Label, err)
	}
	return r.Id, nil
}

// SaveDevice creates a catalogue device record and returns its id.
func SaveDevice(app core.App, d Device) (string, error) {
	col, err := app.FindCollectionByNameOrId("devices")
	if err != nil {
		return "", fmt.Errorf("devices collection: %w", err)
	}
	r := core.NewRecord(col)
	r.Set("name", d.Name)
	r.Set("max_power", d.MaxPower)
	r.Set("usage_duration", d.UsageDuration)
	r.Set("hourly_power", d.HourlyPower)
	r.Set("default_included_in_peak_power", d.DefaultIncludedInPeakPower)
	r.Set("notes", d.Notes)
	if err := app.Save(r); err != nil {
		return "", fmt.Errorf("save device %q: %w", d.Name, err)
	}
	return r.Id, nil
}

// SaveVisit creates a visit record and returns its id.
func SaveVisit(app core.App, v Visit) (string, error) {
	col, err := app.FindCollectionByNameOrId("visits")
	if err != nil {
		return "", fmt.Errorf("visits collection: %w", err)
	}
	reqs := v.Requirements
	if reqs == nil {
		reqs = []VisitRequirement{}
	}
	status := v.Status
	if status == "" {
		status = VisitStatusScheduled
	}

	r := core.NewRecord(col)
	r.Set("client", v.ClientID)
	r.Set("address", v.AddressID)
	r.Set("date", v.Date)
	r.Set("status", status)
	r.Set("requirements", reqs)
	if v.AutonomyDays != nil {
		r.Set("autonomy_days", *v.AutonomyDays)
	}
	r.Set("report", v.Report)
	r.Set("notes", v.Notes)
	r.Set("agent_name", v.AgentName)
	r.Set("team_id", v.TeamID)
	if err := app.Save(r); err != nil {
		return "", fmt.Errorf("save visit: %w", err)
	}
	return r.Id, nil
}
