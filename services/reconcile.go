package services

import (
	"fmt"

	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/models"

	"gorm.io/gorm"
)

// Cross-aggregate reconciliation. The two aggregates share no transaction, so
// a crash between the space write and the tenant write leaves one side
// reflecting an assignment the other never saw. The Accommodation record is
// the authoritative occupancy fact: a stub with no matching active
// accommodation is an orphan and gets removed; an active accommodation with no
// stub gets its stub restored when the target space is still free, otherwise
// it is reported for an operator to untangle.

type ReconcileReport struct {
	PropertyID    string   `json:"propertyID"`
	RemovedStubs  []string `json:"removedStubs"`  // "roomID/bedID tenantID"
	RestoredStubs []string `json:"restoredStubs"` // accommodation present, stub was missing
	Unrepairable  []string `json:"unrepairable"`  // needs an operator
}

func (r *ReconcileReport) Clean() bool {
	return len(r.RemovedStubs) == 0 && len(r.RestoredStubs) == 0 && len(r.Unrepairable) == 0
}

// ReconcileProperty cross-checks every stub in the property against the tenant
// store and repairs what it safely can, then re-rolls-up the whole tree.
func ReconcileProperty(db *gorm.DB, landlordID uint, propertyKey string) (*ReconcileReport, error) {
	report := &ReconcileReport{
		RemovedStubs:  []string{},
		RestoredStubs: []string{},
		Unrepairable:  []string{},
	}

	property, err := mutateProperty(db, propertyKey, landlordID, func(p *models.Property) error {
		report.PropertyID = p.PropertyID
		report.RemovedStubs = report.RemovedStubs[:0]
		report.RestoredStubs = report.RestoredStubs[:0]
		report.Unrepairable = report.Unrepairable[:0]

		occupants := 0
		for i := range p.Rooms {
			room := &p.Rooms[i]
			for j := range room.Beds {
				bed := &room.Beds[j]
				kept := bed.Tenants[:0]
				for _, stub := range bed.Tenants {
					ok, err := stubBacked(db, stub.TenantID, p.PropertyID, room.RoomID, bed.BedID)
					if err != nil {
						return err
					}
					if !ok {
						report.RemovedStubs = append(report.RemovedStubs,
							fmt.Sprintf("%s/%s %s", room.RoomID, bed.BedID, stub.TenantID))
						continue
					}
					kept = append(kept, stub)
				}
				bed.Tenants = kept
				if len(bed.Tenants) == 0 && bed.Status == models.BedStatusNotAvailable && !bed.ManualHold {
					bed.Status = models.BedStatusAvailable
				}
			}
			kept := room.Tenants[:0]
			for _, stub := range room.Tenants {
				ok, err := stubBacked(db, stub.TenantID, p.PropertyID, room.RoomID, "")
				if err != nil {
					return err
				}
				if !ok {
					report.RemovedStubs = append(report.RemovedStubs,
						fmt.Sprintf("%s %s", room.RoomID, stub.TenantID))
					continue
				}
				kept = append(kept, stub)
			}
			room.Tenants = kept
		}

		if err := restoreMissingStubs(db, p, report); err != nil {
			return err
		}

		for i := range p.Rooms {
			occupants += len(p.Rooms[i].Tenants)
			for j := range p.Rooms[i].Beds {
				occupants += len(p.Rooms[i].Beds[j].Tenants)
			}
			RecomputeRoomStatus(&p.Rooms[i])
		}
		RecomputePropertyStatus(p)
		p.TotalTenants = occupants
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !report.Clean() {
		InvalidateListingCache(property.PropertyID, property.LandlordID)
	}
	return report, nil
}

// stubBacked reports whether the tenant store holds an active accommodation
// matching the stub's exact tuple.
func stubBacked(db *gorm.DB, tenantID, propertyID, roomID, bedID string) (bool, error) {
	var tenant models.Tenant
	result := db.Where("tenant_id = ?", tenantID).Find(&tenant)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	active := tenant.ActiveAccommodation(propertyID, roomID)
	return active != nil && active.BedID == bedID, nil
}

// restoreMissingStubs walks every tenant holding an active accommodation in
// this property and re-embeds any stub the space side lost. A target bed that
// is meanwhile occupied by someone else cannot be repaired automatically.
func restoreMissingStubs(db *gorm.DB, p *models.Property, report *ReconcileReport) error {
	var tenants []models.Tenant
	if err := db.Find(&tenants).Error; err != nil {
		return err
	}
	for i := range tenants {
		tenant := &tenants[i]
		for j := range tenant.Accommodations {
			acc := &tenant.Accommodations[j]
			if !acc.IsActive || acc.PropertyID != p.PropertyID {
				continue
			}
			room := p.FindRoom(acc.RoomID)
			if room == nil {
				report.Unrepairable = append(report.Unrepairable,
					fmt.Sprintf("%s: room %s is gone", tenant.TenantID, acc.RoomID))
				continue
			}
			if acc.BedID == "" {
				if hasStub(room.Tenants, tenant.TenantID) {
					continue
				}
				room.Tenants = append(room.Tenants, tenant.Stub())
				report.RestoredStubs = append(report.RestoredStubs,
					fmt.Sprintf("%s %s", acc.RoomID, tenant.TenantID))
				continue
			}
			bed := room.FindBed(acc.BedID)
			if bed == nil {
				report.Unrepairable = append(report.Unrepairable,
					fmt.Sprintf("%s: bed %s is gone", tenant.TenantID, acc.BedID))
				continue
			}
			if hasStub(bed.Tenants, tenant.TenantID) {
				continue
			}
			if len(bed.Tenants) > 0 {
				report.Unrepairable = append(report.Unrepairable,
					fmt.Sprintf("%s: bed %s is occupied by someone else", tenant.TenantID, acc.BedID))
				continue
			}
			bed.Tenants = []models.TenantStub{tenant.Stub()}
			bed.Status = models.BedStatusNotAvailable
			report.RestoredStubs = append(report.RestoredStubs,
				fmt.Sprintf("%s/%s %s", acc.RoomID, acc.BedID, tenant.TenantID))
		}
	}
	return nil
}

func hasStub(stubs []models.TenantStub, tenantID string) bool {
	for _, s := range stubs {
		if s.TenantID == tenantID {
			return true
		}
	}
	return false
}
