package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	UserID    int       `gorm:"primaryKey" json:"user_id"`
	UserName  string    `gorm:"not null;type:varchar(50)" json:"user_name"`
	UserEmail string    `gorm:"unique;not null;type:varchar(100)" json:"user_email"`
	Role      Role      `gorm:"not null;type:varchar(10);default:'USER'" json:"role"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
