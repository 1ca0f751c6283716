package repositories

import (
	"context"
	"sync"

	"privacy-pay.backend/internal/domain/entities"
)

// MemoryStore is the default, process-local store for payment links and their
// history. It is an explicit struct constructed once at startup and handed to
// the usecases; state is lost on restart and not shared across instances.
//
// A single mutex covers both collections so a link delete and its record
// cascade are one atomic step.
type MemoryStore struct {
	mu      sync.RWMutex
	links   map[string]*entities.PaymentLink
	records []*entities.PaymentRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links: make(map[string]*entities.PaymentLink),
	}
}

// Links returns the link repository view of the store
func (s *MemoryStore) Links() *MemoryPaymentLinkRepository {
	return &MemoryPaymentLinkRepository{store: s}
}

// Records returns the record repository view of the store
func (s *MemoryStore) Records() *MemoryPaymentRecordRepository {
	return &MemoryPaymentRecordRepository{store: s}
}

// MemoryPaymentLinkRepository implements PaymentLinkRepository over MemoryStore
type MemoryPaymentLinkRepository struct {
	store *MemoryStore
}

func (r *MemoryPaymentLinkRepository) Create(_ context.Context, link *entities.PaymentLink) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *link
	r.store.links[link.PaymentID] = &cp
	return nil
}

func (r *MemoryPaymentLinkRepository) GetByID(_ context.Context, paymentID string) (*entities.PaymentLink, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	link, ok := r.store.links[paymentID]
	if !ok {
		return nil, nil
	}
	cp := *link
	return &cp, nil
}

func (r *MemoryPaymentLinkRepository) ListByRecipient(_ context.Context, recipientAddress string) ([]*entities.PaymentLink, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	// linear scan, fine at in-memory scale
	var out []*entities.PaymentLink
	for _, link := range r.store.links {
		if link.RecipientAddress == recipientAddress {
			cp := *link
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MemoryPaymentLinkRepository) UpdateStatus(_ context.Context, paymentID string, status entities.PaymentLinkStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if link, ok := r.store.links[paymentID]; ok {
		link.Status = status
	}
	return nil
}

func (r *MemoryPaymentLinkRepository) IncrementUsage(_ context.Context, paymentID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if link, ok := r.store.links[paymentID]; ok {
		link.RegisterUse()
	}
	return nil
}

func (r *MemoryPaymentLinkRepository) Delete(_ context.Context, paymentID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.links, paymentID)
	// reverse iteration keeps indices valid while removing matches
	for i := len(r.store.records) - 1; i >= 0; i-- {
		if r.store.records[i].PaymentID == paymentID {
			r.store.records = append(r.store.records[:i], r.store.records[i+1:]...)
		}
	}
	return nil
}

func (r *MemoryPaymentLinkRepository) CountByStatus(_ context.Context) (map[entities.PaymentLinkStatus]int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	counts := make(map[entities.PaymentLinkStatus]int)
	for _, link := range r.store.links {
		counts[link.Status]++
	}
	return counts, nil
}

// MemoryPaymentRecordRepository implements PaymentRecordRepository over MemoryStore
type MemoryPaymentRecordRepository struct {
	store *MemoryStore
}

func (r *MemoryPaymentRecordRepository) Create(_ context.Context, record *entities.PaymentRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *record
	r.store.records = append(r.store.records, &cp)
	return nil
}

func (r *MemoryPaymentRecordRepository) ListByPaymentID(_ context.Context, paymentID string) ([]*entities.PaymentRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entities.PaymentRecord
	for _, rec := range r.store.records {
		if rec.PaymentID == paymentID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MemoryPaymentRecordRepository) ListByRecipient(_ context.Context, recipientAddress string) ([]*entities.PaymentRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	owned := make(map[string]bool)
	for id, link := range r.store.links {
		if link.RecipientAddress == recipientAddress {
			owned[id] = true
		}
	}
	var out []*entities.PaymentRecord
	for _, rec := range r.store.records {
		if owned[rec.PaymentID] {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}
