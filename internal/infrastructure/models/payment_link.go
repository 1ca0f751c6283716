package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

type PaymentLink struct {
	PaymentID        string      `gorm:"type:varchar(32);primaryKey"`
	RecipientAddress string      `gorm:"type:varchar(64);not null;index"`
	TokenMint        string      `gorm:"type:varchar(64);not null"`
	AmountType       string      `gorm:"type:varchar(16);not null"`
	FixedAmount      null.Uint64 `gorm:"type:bigint"`
	MinAmount        null.Uint64 `gorm:"type:bigint"`
	MaxAmount        null.Uint64 `gorm:"type:bigint"`
	Reusable         bool        `gorm:"not null"`
	MaxUsageCount    null.Uint64 `gorm:"type:bigint"`
	UsageCount       uint64      `gorm:"not null;default:0"`
	Status           string      `gorm:"type:varchar(16);not null;index"`
	Label            string      `gorm:"type:varchar(255)"`
	Message          string      `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (PaymentLink) TableName() string {
	return "payment_links"
}

type PaymentRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	PaymentID   string    `gorm:"type:varchar(32);not null;index"`
	TokenMint   string    `gorm:"type:varchar(64);not null"`
	Amount      uint64    `gorm:"not null"`
	TxSignature string    `gorm:"type:varchar(128);not null"`
	Status      string    `gorm:"type:varchar(16);not null"`
	CompletedAt time.Time `gorm:"not null"`
	CreatedAt   time.Time
}

func (PaymentRecord) TableName() string {
	return "payment_records"
}
