package utils

import (
	"crypto/rand"

	"github.com/google/uuid"
)

// base58 alphabet, same character set wallets use for addresses
const idAlphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// PaymentIDLength is the length of generated payment link IDs
const PaymentIDLength = 16

// GeneratePaymentID generates an opaque short random payment link ID
func GeneratePaymentID() string {
	buf := make([]byte, PaymentIDLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a UUID just in case
		return uuid.NewString()[:PaymentIDLength]
	}
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(buf)
}

// GenerateRecordID generates an ID for a payment record
func GenerateRecordID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}
