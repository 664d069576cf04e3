package services

import (
	"sort"
	"time"
)

// DeviceNeed is the total quantity of one catalogue device across visits.
type DeviceNeed struct {
	Device   Device `json:"device"`
	Quantity int    `json:"quantity"`
}

// ClientNeed lists what a client needs across all of their visits.
type ClientNeed struct {
	Client Client       `json:"client"`
	Items  []DeviceNeed `json:"items"`
}

// ClientNeeds sums requirement quantities per device for each client. Devices
// missing from the catalogue and non-positive totals are dropped, as are
// clients left without any item. Items keep first-seen order.
func ClientNeeds(s Snapshot) []ClientNeed {
	catalogue := NewCatalogue(s.Devices)

	var needs []ClientNeed
	for _, client := range s.Clients {
		totals := make(map[string]int)
		var order []string
		for _, v := range s.Visits {
			if v.ClientID != client.ID {
				continue
			}
			for _, req := range v.Requirements {
				if _, seen := totals[req.DeviceID]; !seen {
					order = append(order, req.DeviceID)
				}
				totals[req.DeviceID] += req.Quantity
			}
		}

		var items []DeviceNeed
		for _, id := range order {
			device, ok := catalogue[id]
			if !ok || totals[id] <= 0 {
				continue
			}
			items = append(items, DeviceNeed{Device: device, Quantity: totals[id]})
		}
		if len(items) > 0 {
			needs = append(needs, ClientNeed{Client: client, Items: items})
		}
	}
	return needs
}

// UpcomingVisit is a scheduled visit with its client, when known.
type UpcomingVisit struct {
	Visit  Visit   `json:"visit"`
	Client *Client `json:"client,omitempty"`
}

// UpcomingVisits returns scheduled visits dated at or after now, earliest
// first, at most limit of them (limit <= 0 means no limit). Visits with an
// unparseable date are skipped.
func UpcomingVisits(s Snapshot, now time.Time, limit int) []UpcomingVisit {
	type dated struct {
		visit Visit
		at    time.Time
	}
	var candidates []dated
	for _, v := range s.Visits {
		if v.Status != VisitStatusScheduled {
			continue
		}
		at, ok := ParseVisitDateIn(v.Date, now.Location())
		if !ok || at.Before(now) {
			continue
		}
		candidates = append(candidates, dated{visit: v, at: at})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].at.Before(candidates[j].at)
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]UpcomingVisit, 0, len(candidates))
	for _, c := range candidates {
		u := UpcomingVisit{Visit: c.visit}
		if client, ok := s.FindClient(c.visit.ClientID); ok {
			u.Client = &client
		}
		out = append(out, u)
	}
	return out
}
