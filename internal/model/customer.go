package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the aggregate root all ledger activity hangs off.
// Concurrent ledger writes for one customer serialize on this row
// (SELECT ... FOR UPDATE), so two sales against the same customer can
// never read a stale balance.
type Customer struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name    string    `gorm:"index;not null"`
	Phone   string    `gorm:"uniqueIndex;not null"`
	Address *string
	Email   *string
	Active  bool `gorm:"not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Customer) TableName() string { return "customers" }
