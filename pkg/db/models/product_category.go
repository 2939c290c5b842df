package models

import "time"

// ProductCategory groups catalog items and carries the pastel tone the
// storefront renders behind its section.
type ProductCategory struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;not null" json:"description"`
	Tone        string    `gorm:"column:tone;not null" json:"tone"`
	Position    int       `gorm:"column:position;not null;default:0" json:"position"`
	Products    []Product `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"products,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
