package models

import (
	"time"
)

type Customer struct {
	ID        uint      `gorm:"column:customer_id;primaryKey" json:"customerId"`
	Name      string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"column:email;type:varchar(255);not null" json:"email"`
	Phone     string    `gorm:"column:phone;type:varchar(50)" json:"phone"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"createdAt"`
}
