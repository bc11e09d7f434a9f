package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ProductID string          `gorm:"primaryKey;type:varchar(255)" json:"product_id"`
	OwnerID   int             `gorm:"not null;index" json:"owner_id"` // 外鍵，關聯到 User (賣家)
	Name      string          `gorm:"not null;type:varchar(255)" json:"name"`
	Price     decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"`
	Avatar    string          `gorm:"type:varchar(512)" json:"avatar"`
	CreatedAt time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
