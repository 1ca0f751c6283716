package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"privacy-pay.backend/internal/domain/entities"
	"privacy-pay.backend/internal/infrastructure/models"
)

// PaymentLinkRepositoryImpl implements PaymentLinkRepository on gorm, the
// persistent alternative to the in-memory store behind the same interface
type PaymentLinkRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentLinkRepository(db *gorm.DB) *PaymentLinkRepositoryImpl {
	return &PaymentLinkRepositoryImpl{db: db}
}

func (r *PaymentLinkRepositoryImpl) Create(ctx context.Context, link *entities.PaymentLink) error {
	m := &models.PaymentLink{
		PaymentID:        link.PaymentID,
		RecipientAddress: link.RecipientAddress,
		TokenMint:        link.TokenMint,
		AmountType:       string(link.AmountType),
		FixedAmount:      link.FixedAmount,
		MinAmount:        link.MinAmount,
		MaxAmount:        link.MaxAmount,
		Reusable:         link.Reusable,
		MaxUsageCount:    link.MaxUsageCount,
		UsageCount:       link.UsageCount,
		Status:           string(link.Status),
		Label:            link.Label,
		Message:          link.Message,
		CreatedAt:        link.CreatedAt,
		UpdatedAt:        time.Now(),
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *PaymentLinkRepositoryImpl) GetByID(ctx context.Context, paymentID string) (*entities.PaymentLink, error) {
	var m models.PaymentLink
	if err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *PaymentLinkRepositoryImpl) ListByRecipient(ctx context.Context, recipientAddress string) ([]*entities.PaymentLink, error) {
	var ms []models.PaymentLink
	if err := r.db.WithContext(ctx).
		Where("recipient_address = ?", recipientAddress).
		Order("created_at DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	var links []*entities.PaymentLink
	for _, m := range ms {
		model := m
		links = append(links, r.toEntity(&model))
	}
	return links, nil
}

func (r *PaymentLinkRepositoryImpl) UpdateStatus(ctx context.Context, paymentID string, status entities.PaymentLinkStatus) error {
	return r.db.WithContext(ctx).Model(&models.PaymentLink{}).
		Where("payment_id = ?", paymentID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

// IncrementUsage applies the lifecycle transition inside a transaction so the
// read-modify-write is atomic under concurrent completes
func (r *PaymentLinkRepositoryImpl) IncrementUsage(ctx context.Context, paymentID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.PaymentLink
		if err := tx.Where("payment_id = ?", paymentID).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		link := r.toEntity(&m)
		link.RegisterUse()
		return tx.Model(&models.PaymentLink{}).
			Where("payment_id = ?", paymentID).
			Updates(map[string]interface{}{
				"usage_count": link.UsageCount,
				"status":      link.Status,
				"updated_at":  time.Now(),
			}).Error
	})
}

// Delete removes the link and cascades to its records in one transaction
func (r *PaymentLinkRepositoryImpl) Delete(ctx context.Context, paymentID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("payment_id = ?", paymentID).Delete(&models.PaymentRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("payment_id = ?", paymentID).Delete(&models.PaymentLink{}).Error
	})
}

func (r *PaymentLinkRepositoryImpl) CountByStatus(ctx context.Context) (map[entities.PaymentLinkStatus]int, error) {
	var rows []struct {
		Status string
		Count  int
	}
	if err := r.db.WithContext(ctx).Model(&models.PaymentLink{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[entities.PaymentLinkStatus]int, len(rows))
	for _, row := range rows {
		counts[entities.PaymentLinkStatus(row.Status)] = row.Count
	}
	return counts, nil
}

func (r *PaymentLinkRepositoryImpl) toEntity(m *models.PaymentLink) *entities.PaymentLink {
	return &entities.PaymentLink{
		PaymentID:        m.PaymentID,
		RecipientAddress: m.RecipientAddress,
		TokenMint:        m.TokenMint,
		AmountType:       entities.AmountType(m.AmountType),
		FixedAmount:      m.FixedAmount,
		MinAmount:        m.MinAmount,
		MaxAmount:        m.MaxAmount,
		Reusable:         m.Reusable,
		MaxUsageCount:    m.MaxUsageCount,
		UsageCount:       m.UsageCount,
		Status:           entities.PaymentLinkStatus(m.Status),
		Label:            m.Label,
		Message:          m.Message,
		CreatedAt:        m.CreatedAt,
	}
}
