package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"privacy-pay.backend/internal/domain/entities"
	"privacy-pay.backend/internal/infrastructure/models"
)

// PaymentRecordRepositoryImpl implements PaymentRecordRepository on gorm
type PaymentRecordRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentRecordRepository(db *gorm.DB) *PaymentRecordRepositoryImpl {
	return &PaymentRecordRepositoryImpl{db: db}
}

func (r *PaymentRecordRepositoryImpl) Create(ctx context.Context, record *entities.PaymentRecord) error {
	m := &models.PaymentRecord{
		ID:          record.ID,
		PaymentID:   record.PaymentID,
		TokenMint:   record.TokenMint,
		Amount:      record.Amount,
		TxSignature: record.TxSignature,
		Status:      string(record.Status),
		CompletedAt: record.CompletedAt,
		CreatedAt:   time.Now(),
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *PaymentRecordRepositoryImpl) ListByPaymentID(ctx context.Context, paymentID string) ([]*entities.PaymentRecord, error) {
	var ms []models.PaymentRecord
	if err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("completed_at ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.toEntities(ms), nil
}

func (r *PaymentRecordRepositoryImpl) ListByRecipient(ctx context.Context, recipientAddress string) ([]*entities.PaymentRecord, error) {
	var ms []models.PaymentRecord
	if err := r.db.WithContext(ctx).
		Joins("JOIN payment_links ON payment_links.payment_id = payment_records.payment_id").
		Where("payment_links.recipient_address = ?", recipientAddress).
		Order("payment_records.completed_at DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.toEntities(ms), nil
}

func (r *PaymentRecordRepositoryImpl) toEntities(ms []models.PaymentRecord) []*entities.PaymentRecord {
	var records []*entities.PaymentRecord
	for _, m := range ms {
		records = append(records, &entities.PaymentRecord{
			ID:          m.ID,
			PaymentID:   m.PaymentID,
			TokenMint:   m.TokenMint,
			Amount:      m.Amount,
			TxSignature: m.TxSignature,
			Status:      entities.PaymentRecordStatus(m.Status),
			CompletedAt: m.CompletedAt,
		})
	}
	return records
}
