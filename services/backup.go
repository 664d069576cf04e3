package services

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pocketbase/pocketbase/core"
)

// RestoreResult holds the outcome of a backup restore.
type RestoreResult struct {
	Clients   int `json:"clients"`
	Addresses int `json:"addresses"`
	Devices   int `json:"devices"`
	Visits    int `json:"visits"`
	// Skipped counts addresses dropped because their client is not in the backup.
	Skipped int `json:"skipped"`
	// Removed counts the records deleted before the backup was inserted.
	Removed int `json:"removed"`
}

// restoreOrder lists the collections wiped before a restore, referencing
// collections first.
var restoreOrder = []string{"visits", "addresses", "clients", "devices"}

// MarshalBackup serializes a full snapshot as indented JSON.
func MarshalBackup(s Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}
	return data, nil
}

// ParseBackup decodes a backup produced by MarshalBackup.
func ParseBackup(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode backup: %w", err)
	}
	return s, nil
}

// RestoreBackup replaces the stored data with the snapshot in a single
// transaction: existing clients, addresses, devices and visits are deleted
// first, then every record of the snapshot is inserted. Restoring the same
// backup twice leaves one copy of it.
// Records get fresh ids; references between them are rewritten to the new ids.
// Device ids missing from the backup are kept as-is so their lines stay
// dangling. Visit relations to missing clients or addresses are cleared, and
// addresses of missing clients are skipped.
func RestoreBackup(app core.App, s Snapshot) (*RestoreResult, error) {
	result := &RestoreResult{}

	err := app.RunInTransaction(func(txApp core.App) error {
		*result = RestoreResult{}

		for _, name := range restoreOrder {
			records, err := txApp.FindAllRecords(name)
			if err != nil {
				return fmt.Errorf("list %s: %w", name, err)
			}
			for _, r := range records {
				if err := txApp.Delete(r); err != nil {
					return fmt.Errorf("delete %s %s: %w", name, r.Id, err)
				}
				result.Removed++
			}
		}

		clientIDs := make(map[string]string, len(s.Clients))
		for _, c := range s.Clients {
			id, err := SaveClient(txApp, c)
			if err != nil {
				return err
			}
			clientIDs[c.ID] = id
			result.Clients++
		}

		addressIDs := make(map[string]string, len(s.Addresses))
		for _, a := range s.Addresses {
			clientID, ok := clientIDs[a.ClientID]
			if !ok {
				result.Skipped++
				continue
			}
			a.ClientID = clientID
			id, err := SaveAddress(txApp, a)
			if err != nil {
				return err
			}
			addressIDs[a.ID] = id
			result.Addresses++
		}

		deviceIDs := make(map[string]string, len(s.Devices))
		for _, d := range s.Devices {
			id, err := SaveDevice(txApp, d)
			if err != nil {
				return err
			}
			deviceIDs[d.ID] = id
			result.Devices++
		}

		for _, v := range s.Visits {
			v.ClientID = clientIDs[v.ClientID]
			v.AddressID = addressIDs[v.AddressID]
			reqs := make([]VisitRequirement, len(v.Requirements))
			for i, req := range v.Requirements {
				if id, ok := deviceIDs[req.DeviceID]; ok {
					req.DeviceID = id
				}
				reqs[i] = req
			}
			v.Requirements = reqs
			if _, err := SaveVisit(txApp, v); err != nil {
				return err
			}
			result.Visits++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("restore backup: %w", err)
	}
	return result, nil
}
