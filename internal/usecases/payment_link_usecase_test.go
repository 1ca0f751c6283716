package usecases

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"privacy-pay.backend/internal/domain/entities"
	domainerrors "privacy-pay.backend/internal/domain/errors"
	"privacy-pay.backend/internal/infrastructure/repositories"
	"privacy-pay.backend/internal/infrastructure/solana"
)

const (
	ownerAddr = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"
	otherAddr = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	usdcMint  = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

func newTestLinkUsecase() *PaymentLinkUsecase {
	store := repositories.NewMemoryStore()
	return NewPaymentLinkUsecase(store.Links(), store.Records(), solana.NewRegistry())
}

func uint64Ptr(v uint64) *uint64 { return &v }

func TestCreatePaymentLink_FixedDefaults(t *testing.T) {
	uc := newTestLinkUsecase()
	ctx := context.Background()

	link, err := uc.CreatePaymentLink(ctx, CreatePaymentLinkInput{
		RecipientAddress: ownerAddr,
		AmountType:       entities.AmountTypeFixed,
		FixedAmount:      uint64Ptr(500_000_000),
		Label:            "coffee",
	})
	require.NoError(t, err)
	require.Len(t, link.PaymentID, 16)
	require.Equal(t, ownerAddr, link.RecipientAddress)
	// no token given means native SOL
	require.Equal(t, "So11111111111111111111111111111111111111112", link.TokenMint)
	require.Equal(t, entities.PaymentLinkStatusActive, link.Status)
	require.Zero(t, link.UsageCount)
	require.False(t, link.Reusable)
}

func TestCreatePaymentLink_TokenByName(t *testing.T) {
	uc := newTestLinkUsecase()

	link, err := uc.CreatePaymentLink(context.Background(), CreatePaymentLinkInput{
		RecipientAddress: ownerAddr,
		TokenMint:        "usdc",
		AmountType:       entities.AmountTypeFixed,
		FixedAmount:      uint64Ptr(1_000_000),
	})
	require.NoError(t, err)
	require.Equal(t, usdcMint, link.TokenMint)
}

func TestCreatePaymentLink_ValidationErrors(t *testing.T) {
	uc := newTestLinkUsecase()
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreatePaymentLinkInput
		code  int
	}{
		{"missing recipient", CreatePaymentLinkInput{AmountType: entities.AmountTypeFixed, FixedAmount: uint64Ptr(1)}, 400},
		{"invalid recipient", CreatePaymentLinkInput{RecipientAddress: "not-an-address", AmountType: entities.AmountTypeFixed, FixedAmount: uint64Ptr(1)}, 400},
		{"unsupported token", CreatePaymentLinkInput{RecipientAddress: ownerAddr, TokenMint: "DOGE", AmountType: entities.AmountTypeFixed, FixedAmount: uint64Ptr(1)}, 400},
		{"fixed without amount", CreatePaymentLinkInput{RecipientAddress: ownerAddr, AmountType: entities.AmountTypeFixed}, 400},
		{"fixed zero amount", CreatePaymentLinkInput{RecipientAddress: ownerAddr, AmountType: entities.AmountTypeFixed, FixedAmount: uint64Ptr(0)}, 400},
		{"flexible max below min", CreatePaymentLinkInput{RecipientAddress: ownerAddr, AmountType: entities.AmountTypeFlexible, MinAmount: uint64Ptr(100), MaxAmount: uint64Ptr(50)}, 400},
		{"bad amount type", CreatePaymentLinkInput{RecipientAddress: ownerAddr, AmountType: "negotiable"}, 400},
	}

	for _, tc := range cases {
		_, err := uc.CreatePaymentLink(ctx, tc.input)
		require.Error(t, err, tc.name)
		appErr, ok := err.(*domainerrors.AppError)
		require.True(t, ok, tc.name)
		require.Equal(t, tc.code, appErr.Code, tc.name)
	}
}

func TestGetPublicInfo_StripsRecipient(t *testing.T) {
	uc := newTestLinkUsecase()
	ctx := context.Background()

	link, err := uc.CreatePaymentLink(ctx, CreatePaymentLinkInput{
		RecipientAddress: ownerAddr,
		AmountType:       entities.AmountTypeFixed,
		FixedAmount:      uint64Ptr(1_000),
	})
	require.NoError(t, err)

	info, err := uc.GetPublicInfo(ctx, link.PaymentID)
	require.NoError(t, err)
	require.Equal(t, link.PaymentID, info.PaymentID)

	missing, err := uc.GetPublicInfo(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestValidateAmount_FixedAndFlexible(t *testing.T) {
	uc := newTestLinkUsecase()
	ctx := context.Background()

	fixed, err := uc.CreatePaymentLink(ctx, CreatePaymentLinkInput{
		RecipientAddress: ownerAddr,
		AmountType:       entities.AmountTypeFixed,
		FixedAmount:      uint64Ptr(500_000_000),
	})
	require.NoError(t, err)

	require.NoError(t, uc.ValidateAmount(ctx, fixed.PaymentID, 500_000_000))
	err = uc.ValidateAmount(ctx, fixed.PaymentID, 400_000_000)
	require.ErrorContains(t, err, "amount must be exactly 0.5 SOL")
	err = uc.ValidateAmount(ctx, fixed.PaymentID, 0)
	require.ErrorContains(t, err, "amount must be greater than 0")

	flexible, err := uc.CreatePaymentLink(ctx, CreatePaymentLinkInput{
		RecipientAddress: ownerAddr,
		TokenMint:        "USDC",
		AmountType:       entities.AmountTypeFlexible,
		MinAmount:        uint64Ptr(1_000_000),
		MaxAmount:        uint64Ptr(10_000_000),
	})
	require.NoError(t, err)

	require.NoError(t, uc.ValidateAmount(ctx, flexible.PaymentID, 1_000_000))
	require.NoError(t, uc.ValidateAmount(ctx, flexible.PaymentID, 10_000_000))
	err = uc.ValidateAmount(ctx, flexible.PaymentID, 999_999)
	require.ErrorContains(t, err, "amount must be at least 1 USDC")
	err = uc.ValidateAmount(ctx, flexible.PaymentID, 10_000_001)
	require.ErrorContains(t, err, "amount must be at most 10 USDC")

	err = uc.ValidateAmount(ctx, "missing", 1)
	appErr := err.(*domainerrors.AppError)
	require.Equal(t, 404, appErr.Code)
}

func TestCompletePayment_OneTimeLifecycle(t *testing.T) {
	uc := newTestLinkUsecase()
	ctx := context.Background()

	link, err := uc.CreatePaymentLink(ctx, CreatePaymentLinkInput{
		RecipientAddress: ownerAddr,
		AmountType:       entities.AmountTypeFixed,
		FixedAmount:      uint64Ptr(1_000_000),
	})
	require.NoError(t, err)

	record, err := uc.CompletePayment(ctx, link.PaymentID, 1_000_000, "sig1")
	require.NoError(t, err)
	require.Equal(t, link.PaymentID, record.PaymentID)
	require.Equal(t, uint64(1_000_000), record.Amount)
	require.Equal(t, entities.PaymentRecordStatusCompleted, record.Status)

	got, err := uc.GetPaymentLink(ctx, link.PaymentID)
	require.NoError(t, err)
	require.Equal(t, entities.PaymentLinkStatusCompleted, got.Status)
	require.Equal(t, uint64(1), got.UsageCount)

	// the second completion must be rejected, not recorded
	_, err = uc.CompletePayment(ctx, link.PaymentID, 1_000_000, "sig2")
	appErr := err.(*domainerrors.AppError)
	require.Equal(t, 410, appErr.Code)

	history, err := uc.ListPaymentHistory(ctx, ownerAddr)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestCompletePayment_WrongAmountLeavesLinkUntouched(t *testing.T) {
	uc := newTestLinkUsecase()
	ctx := context.Background()

	link, err := uc.CreatePaymentLink(ctx, CreatePaymentLinkInput{
		RecipientAddress: ownerAddr,
		AmountType:       entities.AmountTypeFixed,
		FixedAmount:      uint64Ptr(1_000_000),
	})
	require.NoError(t, err)

	_, err = uc.CompletePayment(ctx, link.PaymentID, 999, "sig")
	require.Error(t, err)

	got, err := uc.GetPaymentLink(ctx, link.PaymentID)
	require.NoError(t, err)
	require.Zero(t, got.UsageCount)
	require.Equal(t, entities.PaymentLinkStatusActive, got.Status)
}

func TestCompletePayment_CappedReusable(t *testing.T) {
	uc := newTestLinkUsecase()
	ctx := context.Background()

	link, err := uc.CreatePaymentLink(ctx, CreatePaymentLinkInput{
		RecipientAddress: ownerAddr,
		AmountType:       entities.AmountTypeFlexible,
		Reusable:         true,
		MaxUsageCount:    uint64Ptr(2),
	})
	require.NoError(t, err)

	_, err = uc.CompletePayment(ctx, link.PaymentID, 100, "sig1")
	require.NoError(t, err)
	_, err = uc.CompletePayment(ctx, link.PaymentID, 200, "sig2")
	require.NoError(t, err)

	_, err = uc.CompletePayment(ctx, link.PaymentID, 300, "sig3")
	appErr := err.(*domainerrors.AppError)
	require.Equal(t, 410, appErr.Code)

	got, err := uc.GetPaymentLink(ctx, link.PaymentID)
	require.NoError(t, err)
	require.Equal(t, entities.PaymentLinkStatusCompleted, got.Status)
	require.Equal(t, uint64(2), got.UsageCount)
}

func TestCompletePayment_ConcurrentOneTime(t *testing.T) {
	uc := newTestLinkUsecase()
	ctx := context.Background()

	link, err := uc.CreatePaymentLink(ctx, CreatePaymentLinkInput{
		RecipientAddress: ownerAddr,
		AmountType:       entities.AmountTypeFixed,
		FixedAmount:      uint64Ptr(1_000),
	})
	require.NoError(t, err)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.CompletePayment(ctx, link.PaymentID, 1_000, "sig")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	require.Equal(t, 1, succeeded)

	history, err := uc.ListPaymentHistory(ctx, ownerAddr)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestResolveRecipient(t *testing.T) {
	uc := newTestLinkUsecase()
	ctx := context.Background()

	link, err := uc.CreatePaymentLink(ctx, CreatePaymentLinkInput{
		RecipientAddress: ownerAddr,
		AmountType:       entities.AmountTypeFixed,
		FixedAmount:      uint64Ptr(1_000),
	})
	require.NoError(t, err)

	recipient, err := uc.ResolveRecipient(ctx, link.PaymentID, 1_000)
	require.NoError(t, err)
	require.Equal(t, ownerAddr, recipient)

	_, err = uc.ResolveRecipient(ctx, link.PaymentID, 999)
	appErr := err.(*domainerrors.AppError)
	require.Equal(t, 400, appErr.Code)

	_, err = uc.ResolveRecipient(ctx, "missing", 1_000)
	appErr = err.(*domainerrors.AppError)
	require.Equal(t, 404, appErr.Code)

	_, err = uc.CompletePayment(ctx, link.PaymentID, 1_000, "sig")
	require.NoError(t, err)

	_, err = uc.ResolveRecipient(ctx, link.PaymentID, 1_000)
	appErr = err.(*domainerrors.AppError)
	require.Equal(t, 410, appErr.Code)
}

func TestDisableLink(t *testing.T) {
	uc := newTestLinkUsecase()
	ctx := context.Background()

	link, err := uc.CreatePaymentLink(ctx, CreatePaymentLinkInput{
		RecipientAddress: ownerAddr,
		AmountType:       entities.AmountTypeFlexible,
		Reusable:         true,
	})
	require.NoError(t, err)

	err = uc.DisableLink(ctx, link.PaymentID, otherAddr)
	appErr := err.(*domainerrors.AppError)
	require.Equal(t, 403, appErr.Code)

	require.NoError(t, uc.DisableLink(ctx, link.PaymentID, ownerAddr))

	got, err := uc.GetPaymentLink(ctx, link.PaymentID)
	require.NoError(t, err)
	require.Equal(t, entities.PaymentLinkStatusDisabled, got.Status)

	// disabling twice reports the terminal state
	err = uc.DisableLink(ctx, link.PaymentID, ownerAddr)
	appErr = err.(*domainerrors.AppError)
	require.Equal(t, 410, appErr.Code)

	ok, err := uc.CanAcceptPayment(ctx, link.PaymentID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDeletePaymentLink_CascadesRecords(t *testing.T) {
	uc := newTestLinkUsecase()
	ctx := context.Background()

	link, err := uc.CreatePaymentLink(ctx, CreatePaymentLinkInput{
		RecipientAddress: ownerAddr,
		AmountType:       entities.AmountTypeFlexible,
		Reusable:         true,
	})
	require.NoError(t, err)

	_, err = uc.CompletePayment(ctx, link.PaymentID, 100, "sig1")
	require.NoError(t, err)
	_, err = uc.CompletePayment(ctx, link.PaymentID, 200, "sig2")
	require.NoError(t, err)

	err = uc.DeletePaymentLink(ctx, link.PaymentID, otherAddr)
	appErr := err.(*domainerrors.AppError)
	require.Equal(t, 403, appErr.Code)

	require.NoError(t, uc.DeletePaymentLink(ctx, link.PaymentID, ownerAddr))

	got, err := uc.GetPaymentLink(ctx, link.PaymentID)
	require.NoError(t, err)
	require.Nil(t, got)

	history, err := uc.ListPaymentHistory(ctx, ownerAddr)
	require.NoError(t, err)
	require.Empty(t, history)

	err = uc.DeletePaymentLink(ctx, link.PaymentID, ownerAddr)
	appErr = err.(*domainerrors.AppError)
	require.Equal(t, 404, appErr.Code)
}

func TestListPaymentLinks_FiltersByRecipient(t *testing.T) {
	uc := newTestLinkUsecase()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := uc.CreatePaymentLink(ctx, CreatePaymentLinkInput{
			RecipientAddress: ownerAddr,
			AmountType:       entities.AmountTypeFlexible,
			Reusable:         true,
		})
		require.NoError(t, err)
	}
	_, err := uc.CreatePaymentLink(ctx, CreatePaymentLinkInput{
		RecipientAddress: otherAddr,
		AmountType:       entities.AmountTypeFlexible,
		Reusable:         true,
	})
	require.NoError(t, err)

	links, err := uc.ListPaymentLinks(ctx, ownerAddr)
	require.NoError(t, err)
	require.Len(t, links, 3)

	_, err = uc.ListPaymentLinks(ctx, "garbage")
	appErr := err.(*domainerrors.AppError)
	require.Equal(t, 400, appErr.Code)

	_, err = uc.ListPaymentHistory(ctx, "garbage")
	appErr = err.(*domainerrors.AppError)
	require.Equal(t, 400, appErr.Code)
}
