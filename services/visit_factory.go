package services

// AgentIdentity is the agent/team pair stamped on visits at creation time.
type AgentIdentity struct {
	AgentName string
	TeamID    string
}

// NewVisit returns a scheduled visit stamped with the given agent identity.
func NewVisit(clientID, addressID, date string, agent AgentIdentity, autonomyDays int) Visit {
	v := Visit{
		ClientID:     clientID,
		AddressID:    addressID,
		Date:         date,
		Status:       VisitStatusScheduled,
		Requirements: []VisitRequirement{},
		AgentName:    agent.AgentName,
		TeamID:       agent.TeamID,
	}
	if autonomyDays > 0 {
		v.AutonomyDays = &autonomyDays
	}
	return v
}

// NewRequirement returns a requirement line for device, seeding its
// inclusion flag from the device's catalogue default.
func NewRequirement(device Device, quantity int) VisitRequirement {
	included := true
	if device.DefaultIncludedInPeakPower != nil {
		included = *device.DefaultIncludedInPeakPower
	}
	return VisitRequirement{
		DeviceID:            device.ID,
		Quantity:            quantity,
		IncludedInPeakPower: &included,
	}
}
