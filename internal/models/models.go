// Package models contains the core Repario data structures
// Every row is owned by exactly one profile (tenant-per-user scoping)
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =============================================================================
// INVOICE STATUS
// =============================================================================

// InvoiceStatus is the lifecycle state of an invoice
type InvoiceStatus string

const (
	StatusPending InvoiceStatus = "pending"
	StatusWorking InvoiceStatus = "working"
	StatusDone    InvoiceStatus = "done"
	StatusRefused InvoiceStatus = "refused"
)

// AllStatuses lists every invoice status in display order
var AllStatuses = []InvoiceStatus{StatusPending, StatusWorking, StatusDone, StatusRefused}

// Valid reports whether s is one of the known statuses
func (s InvoiceStatus) Valid() bool {
	switch s {
	case StatusPending, StatusWorking, StatusDone, StatusRefused:
		return true
	}
	return false
}

// =============================================================================
// FIELD TYPES
// =============================================================================

// FieldType is the kind of input slot a layout field renders as
type FieldType string

const (
	FieldInput       FieldType = "input"
	FieldDescription FieldType = "description"
	FieldDropdown    FieldType = "dropdown"
	FieldCheckboxes  FieldType = "checkboxes"
)

// Valid reports whether t is one of the known field types
func (t FieldType) Valid() bool {
	switch t {
	case FieldInput, FieldDescription, FieldDropdown, FieldCheckboxes:
		return true
	}
	return false
}

// HasOptions reports whether the field type owns an option set
func (t FieldType) HasOptions() bool {
	return t == FieldDropdown || t == FieldCheckboxes
}

// =============================================================================
// SYSTEM MODELS
// =============================================================================

// Profile represents a registered user account
type Profile struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string     `json:"-" gorm:"size:255"`
	DisplayName  string     `json:"display_name" gorm:"size:100"`
	Phone        string     `json:"phone" gorm:"size:30"`
	LogoURL      string     `json:"logo_url"`
	Role         string     `json:"role" gorm:"size:20;default:'user'"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BeforeCreate assigns the primary key
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Customer represents a billable party owned by one profile
// Name uniqueness is advisory only; near-duplicates are caught at
// invoice-creation time, not by a constraint
type Customer struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	Name      string    `json:"name" gorm:"not null;size:255;index"`
	Phone     *string   `json:"phone" gorm:"size:30"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns the primary key
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Item represents a reusable priced catalog entry
// Deletion is soft (is_active=false) so historical invoices keep their
// name/price snapshots intact
type Item struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Description string    `json:"description"`
	UnitPrice   float64   `json:"unit_price" gorm:"not null;default:0"`
	Unit        string    `json:"unit" gorm:"size:30"`
	SKU         string    `json:"sku" gorm:"size:50"`
	Category    string    `json:"category" gorm:"size:100;index"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate assigns the primary key
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// =============================================================================
// LAYOUT MODELS
// =============================================================================

// Layout represents a named form template owned by one profile
// At most one layout per user has IsDefault=true
type Layout struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	IsDefault bool      `json:"is_default" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Sections []LayoutSection `json:"sections,omitempty" gorm:"foreignKey:LayoutID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns the primary key
func (l *Layout) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// LayoutSection represents an ordered group of fields within a layout
type LayoutSection struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	LayoutID  uuid.UUID `json:"layout_id" gorm:"type:uuid;index;not null"`
	Title     string    `json:"title" gorm:"not null;size:255"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Fields []LayoutField `json:"fields,omitempty" gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns the primary key
func (s *LayoutSection) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// LayoutField represents a single typed input slot within a section
type LayoutField struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	SectionID   uuid.UUID `json:"section_id" gorm:"type:uuid;index;not null"`
	Label       string    `json:"label" gorm:"not null;size:255"`
	Type        FieldType `json:"type" gorm:"not null;size:20"`
	Placeholder string    `json:"placeholder" gorm:"size:255"`
	Required    bool      `json:"required" gorm:"default:false"`
	SortOrder   int       `json:"sort_order" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Options []FieldOption `json:"options,omitempty" gorm:"foreignKey:FieldID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns the primary key
func (f *LayoutField) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// FieldOption represents one selectable choice of a dropdown/checkboxes field
// Value is a machine slug derived from Label when not supplied
type FieldOption struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	FieldID   uuid.UUID `json:"field_id" gorm:"type:uuid;index;not null"`
	Label     string    `json:"label" gorm:"not null;size:255"`
	Value     string    `json:"value" gorm:"not null;size:255"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
}

// BeforeCreate assigns the primary key
func (o *FieldOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// =============================================================================
// INVOICE MODELS
// =============================================================================

// Invoice represents a billed document composed from a customer, an
// optional layout and a set of line items
type Invoice struct {
	ID          uuid.UUID     `json:"id" gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID     `json:"user_id" gorm:"type:uuid;index;not null"`
	CustomerID  uuid.UUID     `json:"customer_id" gorm:"type:uuid;index;not null"`
	LayoutID    *uuid.UUID    `json:"layout_id" gorm:"type:uuid;index"`
	FormData    FormData      `json:"form_data" gorm:"type:jsonb"`
	Status      InvoiceStatus `json:"status" gorm:"size:20;default:'pending'"`
	Subtotal    float64       `json:"subtotal" gorm:"not null;default:0"`
	TaxRate     float64       `json:"tax_rate" gorm:"not null;default:0"`
	TaxAmount   float64       `json:"tax_amount" gorm:"not null;default:0"`
	TotalAmount float64       `json:"total_amount" gorm:"not null;default:0"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Relations
	Customer *Customer     `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Items    []InvoiceItem `json:"items,omitempty" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate assigns the primary key
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// InvoiceItem represents one line of an invoice
// Name and price are snapshots, not foreign keys into the catalog
type InvoiceItem struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	InvoiceID   uuid.UUID `json:"invoice_id" gorm:"type:uuid;index;not null"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Description string    `json:"description"`
	Quantity    float64   `json:"quantity" gorm:"not null"`
	Price       float64   `json:"price" gorm:"not null"`
	Total       float64   `json:"total" gorm:"not null"`
	SortOrder   int       `json:"sort_order" gorm:"default:0"`
}

// BeforeCreate assigns the primary key
func (i *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// =============================================================================
// STATUS SETTINGS
// =============================================================================

// StatusSetting holds the per-user notification defaults for one status
// Rows are lazily materialized on first read
type StatusSetting struct {
	ID             uuid.UUID     `json:"id" gorm:"type:uuid;primary_key"`
	UserID         uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_status_settings_user_status"`
	Status         InvoiceStatus `json:"status" gorm:"size:20;not null;uniqueIndex:idx_status_settings_user_status"`
	DefaultMessage string        `json:"default_message"`
	AllowExtraNote bool          `json:"allow_extra_note" gorm:"default:true"`
	// Explicit column name: the default naming strategy would split
	// this into send_whats_app
	SendWhatsApp   bool          `json:"send_whatsapp" gorm:"column:send_whatsapp;default:false"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// BeforeCreate assigns the primary key
func (s *StatusSetting) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
