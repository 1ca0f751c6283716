package solana

import (
	"strings"

	"github.com/gagliardetto/solana-go"
	"privacy-pay.backend/internal/domain/entities"
	domainerrors "privacy-pay.backend/internal/domain/errors"
)

// NormalizeAddress parses a base58 Solana address and returns its canonical
// string form. All addresses entering the system pass through here so the
// rest of the code never branches on representation.
func NormalizeAddress(addr string) (string, error) {
	pk, err := solana.PublicKeyFromBase58(strings.TrimSpace(addr))
	if err != nil || pk.IsZero() {
		return "", domainerrors.ErrInvalidAddress
	}
	return pk.String(), nil
}

// Registry holds the supported tokens keyed by canonical mint
type Registry struct {
	byMint map[string]*entities.Token
	byName map[string]*entities.Token
	order  []*entities.Token
}

// NewRegistry builds the built-in token registry. Mints are normalized at
// construction; a bad mint literal is a programming error and panics.
func NewRegistry() *Registry {
	r := &Registry{
		byMint: make(map[string]*entities.Token),
		byName: make(map[string]*entities.Token),
	}
	r.add(&entities.Token{
		Name:          "SOL",
		Mint:          solana.SolMint.String(),
		Decimals:      9,
		UnitsPerToken: solana.LAMPORTS_PER_SOL,
		Native:        true,
	})
	r.add(&entities.Token{
		Name:          "USDC",
		Mint:          solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v").String(),
		Decimals:      6,
		UnitsPerToken: 1_000_000,
	})
	r.add(&entities.Token{
		Name:          "USDT",
		Mint:          solana.MustPublicKeyFromBase58("Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB").String(),
		Decimals:      6,
		UnitsPerToken: 1_000_000,
	})
	return r
}

func (r *Registry) add(t *entities.Token) {
	r.byMint[t.Mint] = t
	r.byName[t.Name] = t
	r.order = append(r.order, t)
}

// ByMint looks a token up by canonical mint address
func (r *Registry) ByMint(mint string) (*entities.Token, bool) {
	t, ok := r.byMint[mint]
	return t, ok
}

// ByName looks a token up by name (SOL, USDC, ...)
func (r *Registry) ByName(name string) (*entities.Token, bool) {
	t, ok := r.byName[strings.ToUpper(name)]
	return t, ok
}

// Resolve accepts either a mint address or a token name
func (r *Registry) Resolve(mintOrName string) (*entities.Token, bool) {
	if t, ok := r.ByMint(mintOrName); ok {
		return t, true
	}
	return r.ByName(mintOrName)
}

// All returns the supported tokens in registration order
func (r *Registry) All() []*entities.Token {
	return r.order
}

// Native returns the native SOL entry
func (r *Registry) Native() *entities.Token {
	return r.byName["SOL"]
}
