package entities

import (
	"time"

	"github.com/google/uuid"
)

// PaymentRecordStatus is always "completed"; partial or retried payments are
// not modeled, only confirmed transfers are recorded.
type PaymentRecordStatus string

const PaymentRecordStatusCompleted PaymentRecordStatus = "completed"

// PaymentRecord is an immutable history entry for a completed payment against
// a link. Records are deleted together with their parent link.
type PaymentRecord struct {
	ID          uuid.UUID           `json:"id"`
	PaymentID   string              `json:"paymentId"`
	TokenMint   string              `json:"tokenMint"`
	Amount      uint64              `json:"amount"`
	TxSignature string              `json:"txSignature"`
	Status      PaymentRecordStatus `json:"status"`
	CompletedAt time.Time           `json:"completedAt"`
}
