package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signPayload(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyGatewaySignature(t *testing.T) {
	secret := "test_secret_key"
	orderID := "order_MkWq3mLzN8aQ1x"
	paymentID := "pay_Nb2kP9qR7sT4vW"

	signature := signPayload(orderID, paymentID, secret)

	t.Run("accepts a valid signature", func(t *testing.T) {
		assert.True(t, VerifyGatewaySignature(orderID, paymentID, signature, secret))
	})

	t.Run("rejects a tampered signature", func(t *testing.T) {
		assert.False(t, VerifyGatewaySignature(orderID, paymentID, signature+"00", secret))
	})

	t.Run("rejects a signature for a different order", func(t *testing.T) {
		other := signPayload("order_other", paymentID, secret)
		assert.False(t, VerifyGatewaySignature(orderID, paymentID, other, secret))
	})

	t.Run("rejects a signature under the wrong secret", func(t *testing.T) {
		forged := signPayload(orderID, paymentID, "attacker_secret")
		assert.False(t, VerifyGatewaySignature(orderID, paymentID, forged, secret))
	})

	t.Run("rejects an empty signature", func(t *testing.T) {
		assert.False(t, VerifyGatewaySignature(orderID, paymentID, "", secret))
	})
}
