// Package engine - Status & notification settings
package engine

import (
	"github.com/google/uuid"
	"github.com/repario/server/internal/errors"
	"github.com/repario/server/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// defaultStatusMessages are the hard-coded templates a user starts with
var defaultStatusMessages = map[models.InvoiceStatus]string{
	models.StatusPending: "Your invoice has been received and is pending review.",
	models.StatusWorking: "Work on your invoice is in progress.",
	models.StatusDone:    "Your invoice is complete. Thank you for your business!",
	models.StatusRefused: "Unfortunately we cannot proceed with your invoice.",
}

// StatusEngine manages the lazily materialized per-user status settings
type StatusEngine struct {
	db *gorm.DB
}

// NewStatusEngine creates a new status engine
func NewStatusEngine(db *gorm.DB) *StatusEngine {
	return &StatusEngine{db: db}
}

// EnsureDefaults upserts the four status rows for a user from the
// hard-coded defaults. (user_id, status) is the conflict key, so
// repeated calls are safe and existing rows are never touched.
func (e *StatusEngine) EnsureDefaults(userID uuid.UUID) error {
	var count int64
	if err := e.db.Model(&models.StatusSetting{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return errors.NewInternalError(err)
	}
	if count >= int64(len(models.AllStatuses)) {
		return nil
	}

	for _, status := range models.AllStatuses {
		setting := models.StatusSetting{
			UserID:         userID,
			Status:         status,
			DefaultMessage: defaultStatusMessages[status],
			AllowExtraNote: true,
			SendWhatsApp:   false,
		}
		err := e.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "status"}},
			DoNothing: true,
		}).Create(&setting).Error
		if err != nil {
			return errors.NewInternalError(err)
		}
	}
	return nil
}

// List returns the user's four status settings in display order,
// materializing defaults first
func (e *StatusEngine) List(userID uuid.UUID) ([]models.StatusSetting, error) {
	if err := e.EnsureDefaults(userID); err != nil {
		return nil, err
	}

	var settings []models.StatusSetting
	if err := e.db.Where("user_id = ?", userID).Find(&settings).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}

	// Stable display order regardless of insertion order
	ordered := make([]models.StatusSetting, 0, len(settings))
	for _, status := range models.AllStatuses {
		for _, s := range settings {
			if s.Status == status {
				ordered = append(ordered, s)
				break
			}
		}
	}
	return ordered, nil
}

// Get reads one status setting; an absent row triggers the ensure path
// and one retry (self-healing read)
func (e *StatusEngine) Get(userID uuid.UUID, status models.InvoiceStatus) (*models.StatusSetting, error) {
	if !status.Valid() {
		return nil, errors.NewValidationError("status", "status must be one of pending, working, done, refused")
	}

	var setting models.StatusSetting
	err := e.db.Where("user_id = ? AND status = ?", userID, status).First(&setting).Error
	if err == gorm.ErrRecordNotFound {
		if err := e.EnsureDefaults(userID); err != nil {
			return nil, err
		}
		err = e.db.Where("user_id = ? AND status = ?", userID, status).First(&setting).Error
	}
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("status setting")
		}
		return nil, errors.NewInternalError(err)
	}
	return &setting, nil
}

// StatusSettingInput carries the writable attributes of a status setting
type StatusSettingInput struct {
	DefaultMessage *string `json:"default_message"`
	AllowExtraNote *bool   `json:"allow_extra_note"`
	SendWhatsApp   *bool   `json:"send_whatsapp"`
}

// Update modifies one status setting
func (e *StatusEngine) Update(userID uuid.UUID, status models.InvoiceStatus, in StatusSettingInput) (*models.StatusSetting, error) {
	setting, err := e.Get(userID, status)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.DefaultMessage != nil {
		updates["default_message"] = *in.DefaultMessage
	}
	if in.AllowExtraNote != nil {
		updates["allow_extra_note"] = *in.AllowExtraNote
	}
	if in.SendWhatsApp != nil {
		updates["send_whatsapp"] = *in.SendWhatsApp
	}
	if len(updates) == 0 {
		return setting, nil
	}

	if err := e.db.Model(setting).Updates(updates).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}
	return e.Get(userID, status)
}
