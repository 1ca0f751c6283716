package entities

// RelayerConfig mirrors the relayer's published fee configuration. Fetched
// once per process; when the fetch fails the hardcoded defaults apply.
type RelayerConfig struct {
	WithdrawFeeRate   float64            `json:"withdraw_fee_rate"`
	WithdrawRentFee   float64            `json:"withdraw_rent_fee"`
	RentFees          map[string]float64 `json:"rent_fees"`
	MinimumWithdrawal map[string]float64 `json:"minimum_withdrawal"`
}

// LamportsPerSOL is the number of base units in one SOL
const LamportsPerSOL = 1_000_000_000

const (
	// DefaultWithdrawFeeRate is the fallback relayer fee rate
	DefaultWithdrawFeeRate = 0.0035
	// DefaultWithdrawRentFee is the fallback SOL rent fee, in whole SOL
	DefaultWithdrawRentFee = 0.006
	// DefaultSPLRentFee is the fallback per-token rent for SPL withdrawals,
	// in whole tokens
	DefaultSPLRentFee = 0.001
)

// DefaultRelayerConfig returns the hardcoded fallback configuration
func DefaultRelayerConfig() *RelayerConfig {
	return &RelayerConfig{
		WithdrawFeeRate: DefaultWithdrawFeeRate,
		WithdrawRentFee: DefaultWithdrawRentFee,
		RentFees:        map[string]float64{},
	}
}

// SPLRentFee returns the rent charged for withdrawing the named SPL token,
// falling back to the default when the relayer config has no entry for it.
func (c *RelayerConfig) SPLRentFee(tokenName string) float64 {
	if fee, ok := c.RentFees[tokenName]; ok {
		return fee
	}
	return DefaultSPLRentFee
}

// FeeQuote is the result of inverting the relayer's fee deduction: Total is
// the debit from the sender's private balance, Fee the relayer's cut.
type FeeQuote struct {
	Total uint64 `json:"total"`
	Fee   uint64 `json:"fee"`
}
