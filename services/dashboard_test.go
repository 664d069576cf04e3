package services

import (
	"testing"
	"time"
)

func TestClientNeeds(t *testing.T) {
	s := Snapshot{
		Clients: []Client{{ID: "c1", Name: "Jean"}, {ID: "c2", Name: "Claire"}, {ID: "c3", Name: "Sans besoin"}},
		Devices: []Device{{ID: "pac", Name: "PAC"}, {ID: "ve", Name: "Borne"}},
		Visits: []Visit{
			{ClientID: "c1", Requirements: []VisitRequirement{{DeviceID: "ve", Quantity: 1}, {DeviceID: "pac", Quantity: 1}}},
			{ClientID: "c1", Requirements: []VisitRequirement{{DeviceID: "pac", Quantity: 2}, {DeviceID: "ghost", Quantity: 5}}},
			{ClientID: "c2", Requirements: []VisitRequirement{{DeviceID: "pac", Quantity: 0}, {DeviceID: "ve", Quantity: 1}}},
			{ClientID: "c3", Requirements: []VisitRequirement{{DeviceID: "pac", Quantity: 0}}},
		},
	}

	needs := ClientNeeds(s)
	if len(needs) != 2 {
		t.Fatalf("expected 2 clients with needs, got %d", len(needs))
	}

	jean := needs[0]
	if jean.Client.ID != "c1" || len(jean.Items) != 2 {
		t.Fatalf("jean = %+v", jean)
	}
	if jean.Items[0].Device.ID != "ve" || jean.Items[0].Quantity != 1 {
		t.Errorf("first item = %+v, want ve×1 (first seen)", jean.Items[0])
	}
	if jean.Items[1].Device.ID != "pac" || jean.Items[1].Quantity != 3 {
		t.Errorf("second item = %+v, want pac×3", jean.Items[1])
	}

	claire := needs[1]
	if len(claire.Items) != 1 || claire.Items[0].Device.ID != "ve" {
		t.Errorf("claire = %+v", claire)
	}
}

func TestUpcomingVisits(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s := Snapshot{
		Clients: []Client{{ID: "c1", Name: "Jean"}},
		Visits: []Visit{
			{ID: "past", ClientID: "c1", Status: VisitStatusScheduled, Date: "2026-04-30"},
			{ID: "late", ClientID: "c1", Status: VisitStatusScheduled, Date: "2026-06-10T08:00"},
			{ID: "soon", ClientID: "gone", Status: VisitStatusScheduled, Date: "2026-05-02"},
			{ID: "done", ClientID: "c1", Status: VisitStatusCompleted, Date: "2026-05-03"},
			{ID: "bad", ClientID: "c1", Status: VisitStatusScheduled, Date: "un jour"},
			{ID: "mid", ClientID: "c1", Status: VisitStatusScheduled, Date: "2026-05-20"},
		},
	}

	got := UpcomingVisits(s, now, 0)
	wantOrder := []string{"soon", "mid", "late"}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d visits, want %d", len(got), len(wantOrder))
	}
	for i, id := range wantOrder {
		if got[i].Visit.ID != id {
			t.Errorf("position %d = %q, want %q", i, got[i].Visit.ID, id)
		}
	}
	if got[0].Client != nil {
		t.Error("expected nil client for missing client")
	}
	if got[1].Client == nil || got[1].Client.Name != "Jean" {
		t.Errorf("client = %+v", got[1].Client)
	}

	if limited := UpcomingVisits(s, now, 2); len(limited) != 2 {
		t.Errorf("limit 2 returned %d visits", len(limited))
	}
}

func TestUpcomingVisits_LocalDatesUseNowLocation(t *testing.T) {
	paris := time.FixedZone("CEST", 2*3600)
	now := time.Date(2026, 5, 1, 12, 30, 0, 0, paris)
	s := Snapshot{
		Visits: []Visit{
			// 11:00 local is earlier today; read as UTC it would be 13:00 local.
			{ID: "this-morning", Status: VisitStatusScheduled, Date: "2026-05-01T11:00"},
			{ID: "this-afternoon", Status: VisitStatusScheduled, Date: "2026-05-01T13:00"},
			{ID: "stored-utc", Status: VisitStatusScheduled, Date: "2026-05-01 11:00:00.000Z"},
		},
	}

	got := UpcomingVisits(s, now, 0)
	wantOrder := []string{"this-afternoon", "stored-utc"}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d visits, want %d: %+v", len(got), len(wantOrder), got)
	}
	for i, id := range wantOrder {
		if got[i].Visit.ID != id {
			t.Errorf("position %d = %q, want %q", i, got[i].Visit.ID, id)
		}
	}
}
