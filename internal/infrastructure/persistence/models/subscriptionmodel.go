package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tablier/internal/shared/constants"
)

// SubscriptionModel is the database persistence model for subscriptions.
// One row per (user, role) lineage event; the latest row by created_at is
// the authoritative state for that pair.
type SubscriptionModel struct {
	ID                   uint      `gorm:"primarykey"`
	UserID               string    `gorm:"not null;size:64;index:idx_user_role_created,priority:1"`
	Role                 string    `gorm:"not null;size:20;index:idx_user_role_created,priority:2"`
	Plan                 string    `gorm:"not null;size:20"`
	Status               string    `gorm:"not null;size:20;index:idx_status"`
	StartDate            time.Time `gorm:"not null"`
	EndDate              time.Time `gorm:"not null;index:idx_end_date"`
	GracePeriodEnd       *time.Time
	MonthlyPrice         float64 `gorm:"not null;default:0"`
	StripeCustomerID     *string `gorm:"size:255;index:idx_stripe_customer"`
	StripeSubscriptionID *string `gorm:"size:255;index:idx_stripe_subscription"`
	Metadata             datatypes.JSON
	CreatedAt            time.Time `gorm:"index:idx_user_role_created,priority:3"`
	UpdatedAt            time.Time
	DeletedAt            gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}
