package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/volatiletech/null/v8"
	"privacy-pay.backend/internal/domain/entities"
	domainerrors "privacy-pay.backend/internal/domain/errors"
	domainRepos "privacy-pay.backend/internal/domain/repositories"
	"privacy-pay.backend/internal/infrastructure/solana"
	"privacy-pay.backend/internal/metrics"
	"privacy-pay.backend/pkg/utils"
)

// PaymentLinkUsecase owns the payment link lifecycle: creation constraints,
// payment acceptance rules, usage-driven state transitions and
// ownership-checked deletion.
type PaymentLinkUsecase struct {
	linkRepo   domainRepos.PaymentLinkRepository
	recordRepo domainRepos.PaymentRecordRepository
	registry   *solana.Registry

	// serializes the check-then-record sequence in CompletePayment so two
	// concurrent completes cannot both pass CanAcceptPayment on a one-time link
	completeMu sync.Mutex
}

func NewPaymentLinkUsecase(
	linkRepo domainRepos.PaymentLinkRepository,
	recordRepo domainRepos.PaymentRecordRepository,
	registry *solana.Registry,
) *PaymentLinkUsecase {
	return &PaymentLinkUsecase{
		linkRepo:   linkRepo,
		recordRepo: recordRepo,
		registry:   registry,
	}
}

type CreatePaymentLinkInput struct {
	RecipientAddress string
	TokenMint        string // mint address or token name; empty means native SOL
	AmountType       entities.AmountType
	FixedAmount      *uint64
	MinAmount        *uint64
	MaxAmount        *uint64
	Reusable         bool
	MaxUsageCount    *uint64
	Label            string
	Message          string
}

// CreatePaymentLink validates the request and stores a fresh active link.
// The returned metadata still carries the recipient address; callers strip
// it before answering untrusted requesters.
func (uc *PaymentLinkUsecase) CreatePaymentLink(ctx context.Context, input CreatePaymentLinkInput) (*entities.PaymentLink, error) {
	if input.RecipientAddress == "" {
		return nil, domainerrors.BadRequest("recipientAddress is required")
	}
	recipient, err := solana.NormalizeAddress(input.RecipientAddress)
	if err != nil {
		return nil, domainerrors.BadRequest("recipientAddress is not a valid solana address")
	}

	tokenRef := input.TokenMint
	if tokenRef == "" {
		tokenRef = uc.registry.Native().Mint
	}
	token, ok := uc.registry.Resolve(tokenRef)
	if !ok {
		return nil, domainerrors.BadRequest("unsupported token: " + input.TokenMint)
	}

	link := &entities.PaymentLink{
		PaymentID:        utils.GeneratePaymentID(),
		RecipientAddress: recipient,
		TokenMint:        token.Mint,
		AmountType:       input.AmountType,
		Reusable:         input.Reusable,
		MaxUsageCount:    null.Uint64FromPtr(input.MaxUsageCount),
		UsageCount:       0,
		Status:           entities.PaymentLinkStatusActive,
		Label:            input.Label,
		Message:          input.Message,
		CreatedAt:        time.Now(),
	}

	switch input.AmountType {
	case entities.AmountTypeFixed:
		if input.FixedAmount == nil || *input.FixedAmount == 0 {
			return nil, domainerrors.BadRequest("fixed links require fixedAmount > 0")
		}
		link.FixedAmount = null.Uint64From(*input.FixedAmount)
	case entities.AmountTypeFlexible:
		if input.MinAmount != nil && input.MaxAmount != nil && *input.MaxAmount < *input.MinAmount {
			return nil, domainerrors.BadRequest("maxAmount must not be below minAmount")
		}
		link.MinAmount = null.Uint64FromPtr(input.MinAmount)
		link.MaxAmount = null.Uint64FromPtr(input.MaxAmount)
	default:
		return nil, domainerrors.BadRequest("amountType must be fixed or flexible")
	}

	if err := uc.linkRepo.Create(ctx, link); err != nil {
		return nil, domainerrors.InternalError(err)
	}

	metrics.LinksCreated.Inc()
	return link, nil
}

// GetPaymentLink returns the full record including the recipient address;
// trusted callers only.
func (uc *PaymentLinkUsecase) GetPaymentLink(ctx context.Context, paymentID string) (*entities.PaymentLink, error) {
	link, err := uc.linkRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}
	return link, nil
}

// GetPublicInfo is the payer-facing view with the recipient stripped
func (uc *PaymentLinkUsecase) GetPublicInfo(ctx context.Context, paymentID string) (*entities.PaymentLinkPublicInfo, error) {
	link, err := uc.GetPaymentLink(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, nil
	}
	return link.PublicInfo(), nil
}

// CanAcceptPayment reports whether the link currently accepts payments;
// false when the link does not exist.
func (uc *PaymentLinkUsecase) CanAcceptPayment(ctx context.Context, paymentID string) (bool, error) {
	link, err := uc.GetPaymentLink(ctx, paymentID)
	if err != nil {
		return false, err
	}
	if link == nil {
		return false, nil
	}
	return link.CanAcceptPayment(), nil
}

// ValidateAmount checks a proposed amount against the link's policy and
// returns a display-ready error on violation
func (uc *PaymentLinkUsecase) ValidateAmount(ctx context.Context, paymentID string, amount uint64) error {
	link, err := uc.GetPaymentLink(ctx, paymentID)
	if err != nil {
		return err
	}
	if link == nil {
		return domainerrors.NotFound("payment link not found")
	}
	return uc.checkAmount(link, amount)
}

func (uc *PaymentLinkUsecase) checkAmount(link *entities.PaymentLink, amount uint64) error {
	token, _ := uc.registry.ByMint(link.TokenMint)
	decimals := 9
	name := ""
	if token != nil {
		decimals = token.Decimals
		name = " " + token.Name
	}

	if amount == 0 {
		return domainerrors.BadRequest("amount must be greater than 0")
	}

	if link.AmountType == entities.AmountTypeFixed {
		if !link.FixedAmount.Valid || amount != link.FixedAmount.Uint64 {
			return domainerrors.BadRequest(
				"amount must be exactly " + FormatTokenAmount(link.FixedAmount.Uint64, decimals) + name)
		}
		return nil
	}

	if link.MinAmount.Valid && amount < link.MinAmount.Uint64 {
		return domainerrors.BadRequest(
			"amount must be at least " + FormatTokenAmount(link.MinAmount.Uint64, decimals) + name)
	}
	if link.MaxAmount.Valid && amount > link.MaxAmount.Uint64 {
		return domainerrors.BadRequest(
			"amount must be at most " + FormatTokenAmount(link.MaxAmount.Uint64, decimals) + name)
	}
	return nil
}

// CompletePayment records a confirmed payment and advances the link's
// lifecycle. The whole check-then-record sequence runs under a lock; without
// it two concurrent completes could both pass the acceptance check.
func (uc *PaymentLinkUsecase) CompletePayment(ctx context.Context, paymentID string, amount uint64, txSignature string) (*entities.PaymentRecord, error) {
	uc.completeMu.Lock()
	defer uc.completeMu.Unlock()

	link, err := uc.GetPaymentLink(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, domainerrors.NotFound("payment link not found")
	}
	if !link.CanAcceptPayment() {
		return nil, domainerrors.Gone("payment link is no longer accepting payments")
	}
	if err := uc.checkAmount(link, amount); err != nil {
		return nil, err
	}

	record := &entities.PaymentRecord{
		ID:          utils.GenerateRecordID(),
		PaymentID:   paymentID,
		TokenMint:   link.TokenMint,
		Amount:      amount,
		TxSignature: txSignature,
		Status:      entities.PaymentRecordStatusCompleted,
		CompletedAt: time.Now(),
	}
	if err := uc.recordRepo.Create(ctx, record); err != nil {
		return nil, domainerrors.InternalError(err)
	}
	if err := uc.linkRepo.IncrementUsage(ctx, paymentID); err != nil {
		return nil, domainerrors.InternalError(err)
	}

	tokenName := link.TokenMint
	if token, ok := uc.registry.ByMint(link.TokenMint); ok {
		tokenName = token.Name
	}
	metrics.PaymentsCompleted.WithLabelValues(tokenName).Inc()
	return record, nil
}

// ResolveRecipient returns the payee address for a validated amount; this is
// the only path that hands the recipient to a payer.
func (uc *PaymentLinkUsecase) ResolveRecipient(ctx context.Context, paymentID string, amount uint64) (string, error) {
	link, err := uc.GetPaymentLink(ctx, paymentID)
	if err != nil {
		return "", err
	}
	if link == nil {
		return "", domainerrors.NotFound("payment link not found")
	}
	if !link.CanAcceptPayment() {
		return "", domainerrors.Gone("payment link is no longer accepting payments")
	}
	if err := uc.checkAmount(link, amount); err != nil {
		return "", err
	}
	return link.RecipientAddress, nil
}

// ListPaymentLinks returns the recipient's links, full records
func (uc *PaymentLinkUsecase) ListPaymentLinks(ctx context.Context, recipientAddress string) ([]*entities.PaymentLink, error) {
	recipient, err := solana.NormalizeAddress(recipientAddress)
	if err != nil {
		return nil, domainerrors.BadRequest("recipientAddress is not a valid solana address")
	}
	links, err := uc.linkRepo.ListByRecipient(ctx, recipient)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}
	return links, nil
}

// ListPaymentHistory returns the records of payments against the recipient's links
func (uc *PaymentLinkUsecase) ListPaymentHistory(ctx context.Context, recipientAddress string) ([]*entities.PaymentRecord, error) {
	recipient, err := solana.NormalizeAddress(recipientAddress)
	if err != nil {
		return nil, domainerrors.BadRequest("recipientAddress is not a valid solana address")
	}
	records, err := uc.recordRepo.ListByRecipient(ctx, recipient)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}
	return records, nil
}

// DisableLink is the administrative active -> disabled transition, guarded by
// the same ownership check as deletion
func (uc *PaymentLinkUsecase) DisableLink(ctx context.Context, paymentID, recipientAddress string) error {
	link, err := uc.authorizeOwner(ctx, paymentID, recipientAddress)
	if err != nil {
		return err
	}
	if link.Status != entities.PaymentLinkStatusActive {
		return domainerrors.Gone("payment link is already " + string(link.Status))
	}
	if err := uc.linkRepo.UpdateStatus(ctx, paymentID, entities.PaymentLinkStatusDisabled); err != nil {
		return domainerrors.InternalError(err)
	}
	return nil
}

// DeletePaymentLink removes a link and all of its payment records
func (uc *PaymentLinkUsecase) DeletePaymentLink(ctx context.Context, paymentID, recipientAddress string) error {
	if _, err := uc.authorizeOwner(ctx, paymentID, recipientAddress); err != nil {
		return err
	}
	if err := uc.linkRepo.Delete(ctx, paymentID); err != nil {
		return domainerrors.InternalError(err)
	}
	return nil
}

func (uc *PaymentLinkUsecase) authorizeOwner(ctx context.Context, paymentID, recipientAddress string) (*entities.PaymentLink, error) {
	link, err := uc.GetPaymentLink(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, domainerrors.NotFound("payment link not found")
	}
	recipient, err := solana.NormalizeAddress(recipientAddress)
	if err != nil || recipient != link.RecipientAddress {
		return nil, domainerrors.Forbidden("recipient address does not match link owner")
	}
	return link, nil
}
