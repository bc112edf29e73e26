package model

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors an identity from the hosted identity provider. Authentication
// and sessions happen there; this table only anchors business ownership and
// audit attribution. The id matches the provider's subject claim.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"type:varchar(255)" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
