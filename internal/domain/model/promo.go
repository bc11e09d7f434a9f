package model

import "time"

type PromoStatus string

const (
	PromoStatusActive   PromoStatus = "active"
	PromoStatusInactive PromoStatus = "inactive"
)

// PromoCode fee 為折扣百分比
type PromoCode struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Name      string      `gorm:"unique;not null;type:varchar(50)" json:"name"`
	Fee       int         `gorm:"not null" json:"fee"`
	Status    PromoStatus `gorm:"not null;type:varchar(10);default:'active'" json:"status"`
	UsedCount int         `gorm:"not null;default:0" json:"used_count"`
	CreatedAt time.Time   `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
