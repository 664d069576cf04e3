package services

import "time"

// Visit statuses.
const (
	VisitStatusScheduled = "SCHEDULED"
	VisitStatusCompleted = "COMPLETED"
	VisitStatusCancelled = "CANCELLED"
)

// Client is a prospect or customer visited by an agent.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company,omitempty"`
	Notes     string    `json:"notes"`
	AgentID   string    `json:"agentId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Address is an installation site belonging to a client.
type Address struct {
	ID       string `json:"id"`
	ClientID string `json:"clientId"`
	Label    string `json:"label"`
	Street   string `json:"street"`
	City     string `json:"city"`
	Zip      string `json:"zip"`
}

// FullAddress returns the "{street}, {zip} {city}" form used on exports and quotes.
func (a Address) FullAddress() string {
	return a.Street + ", " + a.Zip + " " + a.City
}

// Device is a catalogue appliance with its default electrical characteristics.
type Device struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	MaxPower      float64 `json:"maxPower"`      // W
	UsageDuration float64 `json:"usageDuration"` // h/day
	HourlyPower   float64 `json:"hourlyPower"`   // kW while running
	// DefaultIncludedInPeakPower seeds new requirement lines; nil means true.
	DefaultIncludedInPeakPower *bool  `json:"defaultIncludedInPeakPower,omitempty"`
	Notes                      string `json:"notes,omitempty"`
}

// VisitRequirement is one appliance line recorded during a visit. Every
// pointer field is optional: nil means "use the catalogue value".
type VisitRequirement struct {
	DeviceID              string   `json:"deviceId"`
	Quantity              int      `json:"quantity"`
	IncludedInPeakPower   *bool    `json:"includedInPeakPower,omitempty"`
	OverrideName          string   `json:"overrideName,omitempty"`
	OverrideMaxPower      *float64 `json:"overrideMaxPower,omitempty"`
	OverrideUsageDuration *float64 `json:"overrideUsageDuration,omitempty"`
	OverrideHourlyPower   *float64 `json:"overrideHourlyPower,omitempty"`
}

// Visit is a scheduled or completed site visit.
type Visit struct {
	ID           string             `json:"id"`
	ClientID     string             `json:"clientId"`
	AddressID    string             `json:"addressId"`
	Date         string             `json:"date"`
	Status       string             `json:"status"`
	Requirements []VisitRequirement `json:"requirements"`
	AutonomyDays *int               `json:"autonomyDays,omitempty"`
	Report       string             `json:"report"`
	Notes        string             `json:"notes"`
	AgentName    string             `json:"agentName"`
	TeamID       string             `json:"teamId,omitempty"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// Snapshot is an in-memory copy of every collection, as handed to the
// aggregation functions.
type Snapshot struct {
	Clients   []Client  `json:"clients"`
	Addresses []Address `json:"addresses"`
	Devices   []Device  `json:"devices"`
	Visits    []Visit   `json:"visits"`
}

// FindClient looks up a client by id.
func (s Snapshot) FindClient(id string) (Client, bool) {
	for _, c := range s.Clients {
		if c.ID == id {
			return c, true
		}
	}
	return Client{}, false
}

// FindAddress looks up an address by id.
func (s Snapshot) FindAddress(id string) (Address, bool) {
	for _, a := range s.Addresses {
		if a.ID == id {
			return a, true
		}
	}
	return Address{}, false
}

// FindVisit looks up a visit by id.
func (s Snapshot) FindVisit(id string) (Visit, bool) {
	for _, v := range s.Visits {
		if v.ID == id {
			return v, true
		}
	}
	return Visit{}, false
}
