package services

import (
	"strings"

	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/models"
	"github.com/ACORE-IT-HUB-PVT-LTD/pg-hostal-nearprop-sub000/utils"

	"gorm.io/gorm"
)

// GetTenant loads a tenant with the full accommodation history.
func GetTenant(db *gorm.DB, tenantID string) (*models.Tenant, error) {
	var tenant models.Tenant
	result := db.Where("tenant_id = ?", tenantID).Find(&tenant)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound("tenant %s does not exist", tenantID)
	}
	return &tenant, nil
}

type NewTenantInput struct {
	Name    string
	LegalID string
	Mobile  string
	Email   string
}

// findOrCreateTenant resolves the tenant side of an assignment: an existing
// tenant by id, or a profile created on first assignment. Legal id and mobile
// are required and unique across tenants; a matching legal id reuses the
// existing profile, a mobile already registered to someone else is a conflict.
func findOrCreateTenant(db *gorm.DB, tenantID string, payload *NewTenantInput) (*models.Tenant, error) {
	if tenantID != "" {
		return GetTenant(db, tenantID)
	}
	if payload == nil {
		return nil, ErrValidation("either tenantID or a new tenant payload is required")
	}
	if strings.TrimSpace(payload.Name) == "" || strings.TrimSpace(payload.LegalID) == "" {
		return nil, ErrValidation("tenant name and legal id are required")
	}
	mobile := utils.NormalizePhoneNumber(payload.Mobile)
	if !utils.ValidatePhoneNumber(payload.Mobile) {
		return nil, ErrValidation("tenant mobile %q is not a valid number", payload.Mobile)
	}

	var existing models.Tenant
	result := db.Where("legal_id = ?", payload.LegalID).Find(&existing)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		return &existing, nil
	}
	result = db.Where("mobile = ?", mobile).Find(&existing)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		return nil, ErrConflict("mobile %s is already registered to tenant %s", mobile, existing.TenantID)
	}

	id, err := NextTenantID(db)
	if err != nil {
		return nil, err
	}
	tenant := models.Tenant{
		TenantID:       id,
		Name:           payload.Name,
		LegalID:        payload.LegalID,
		Mobile:         mobile,
		Email:          payload.Email,
		Accommodations: models.AccommodationList{},
	}
	if err := db.Create(&tenant).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func saveTenantCAS(db *gorm.DB, t *models.Tenant) error {
	result := db.Model(&models.Tenant{}).
		Where("id = ? AND version = ?", t.ID, t.Version).
		Updates(map[string]interface{}{
			"accommodations": t.Accommodations,
			"version":        t.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConcurrency("tenant %s was modified concurrently", t.TenantID)
	}
	t.Version++
	return nil
}

func mutateTenant(db *gorm.DB, tenantID string, mutate func(*models.Tenant) error) (*models.Tenant, error) {
	var lastErr error
	for attempt := 0; attempt < casAttempts; attempt++ {
		tenant, err := GetTenant(db, tenantID)
		if err != nil {
			return nil, err
		}
		if err := mutate(tenant); err != nil {
			return nil, err
		}
		if err := saveTenantCAS(db, tenant); err != nil {
			if KindOf(err) == KindConcurrency {
				lastErr = err
				continue
			}
			return nil, err
		}
		return tenant, nil
	}
	return nil, lastErr
}
