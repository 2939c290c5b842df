package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a single catalog listing. Prices are kept in whole
// Kenyan shillings and converted to minor units only at payment time.
type Product struct {
	Slug        string          `gorm:"column:slug;primaryKey" json:"slug"`
	Name        string          `gorm:"column:name;not null" json:"name"`
	Description string          `gorm:"column:description;not null" json:"description"`
	CategoryID  string          `gorm:"column:category_id;not null" json:"category_id"`
	Image       *string         `gorm:"column:image" json:"image,omitempty"`
	PriceKsh    decimal.Decimal `gorm:"column:price_ksh;type:numeric(12,2);not null" json:"price_ksh"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
