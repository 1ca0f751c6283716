package usecases

import (
	"context"
	"math"

	"privacy-pay.backend/internal/domain/entities"
)

// RelayerConfigSource provides the relayer fee configuration. The production
// implementation memoizes a single fetch for the process lifetime.
type RelayerConfigSource interface {
	Config(ctx context.Context) *entities.RelayerConfig
}

// FeeUsecase predicts the relayer's fee deduction so a quote shown before
// signing matches what the relayer will actually charge. The relayer pays
// `total - fee` to the recipient where `fee = total*rate + rent`; quoting a
// desired recipient amount means inverting that relation for `total`.
type FeeUsecase struct {
	source RelayerConfigSource
}

func NewFeeUsecase(source RelayerConfigSource) *FeeUsecase {
	return &FeeUsecase{source: source}
}

// QuoteWithdraw computes the total private-balance debit and the fee portion
// for a withdrawal that should net amountToRecipient base units.
func (u *FeeUsecase) QuoteWithdraw(ctx context.Context, token *entities.Token, amountToRecipient uint64) entities.FeeQuote {
	cfg := u.source.Config(ctx)
	if token.Native {
		return QuoteWithdrawNative(amountToRecipient, cfg)
	}
	return QuoteWithdrawSPL(amountToRecipient, token, cfg)
}

// QuoteDeposit is the deposit-side counterpart: deposits carry no relayer fee
// regardless of token.
func (u *FeeUsecase) QuoteDeposit(amount uint64) entities.FeeQuote {
	return entities.FeeQuote{Total: amount, Fee: 0}
}

// Shortfall returns how much must still be deposited before the private
// balance covers a withdrawal netting amountToRecipient, zero when the
// balance already suffices.
func (u *FeeUsecase) Shortfall(ctx context.Context, token *entities.Token, amountToRecipient, privateBalance uint64) (entities.FeeQuote, uint64) {
	quote := u.QuoteWithdraw(ctx, token, amountToRecipient)
	if privateBalance >= quote.Total {
		return quote, 0
	}
	return quote, quote.Total - privateBalance
}

// MinimumWithdrawal returns the relayer's per-token withdrawal floor in base
// units, zero when the relayer publishes none.
func (u *FeeUsecase) MinimumWithdrawal(ctx context.Context, token *entities.Token) uint64 {
	cfg := u.source.Config(ctx)
	min, ok := cfg.MinimumWithdrawal[token.Name]
	if !ok {
		return 0
	}
	return uint64(math.Floor(min * float64(token.UnitsPerToken)))
}

// QuoteWithdrawNative inverts the fee relation for the native token:
// total = floor((amount + rent) / (1 - rate)), fee = total - amount.
func QuoteWithdrawNative(amountToRecipient uint64, cfg *entities.RelayerConfig) entities.FeeQuote {
	rent := uint64(math.Floor(entities.LamportsPerSOL * cfg.WithdrawRentFee))
	rate := cfg.WithdrawFeeRate

	// a rate of 1 or more would make the inversion divide by zero or flip sign
	if rate >= 1 {
		return entities.FeeQuote{Total: amountToRecipient + rent, Fee: rent}
	}

	total := uint64(math.Floor(float64(amountToRecipient+rent) / (1 - rate)))
	var fee uint64
	if total > amountToRecipient {
		fee = total - amountToRecipient
	}
	return entities.FeeQuote{Total: total, Fee: fee}
}

// QuoteWithdrawSPL is the SPL variant: rent comes from the relayer's
// per-token rent map scaled by the token's base units, and the fee is
// recomputed with the forward formula floor(total*rate) + rent. That matches
// the relayer's own deduction but can differ from strict inversion by one
// base unit; kept as-is for parity with what the relayer charges.
func QuoteWithdrawSPL(amountToRecipient uint64, token *entities.Token, cfg *entities.RelayerConfig) entities.FeeQuote {
	rent := uint64(math.Floor(cfg.SPLRentFee(token.Name) * float64(token.UnitsPerToken)))
	rate := cfg.WithdrawFeeRate

	if rate >= 1 {
		return entities.FeeQuote{Total: amountToRecipient + rent, Fee: rent}
	}

	total := uint64(math.Floor(float64(amountToRecipient+rent) / (1 - rate)))
	fee := uint64(math.Floor(float64(total)*rate)) + rent
	return entities.FeeQuote{Total: total, Fee: fee}
}
