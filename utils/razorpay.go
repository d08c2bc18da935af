package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"

	"edupay/config"

	"github.com/go-resty/resty/v2"
)

// RazorpayOrderResponse represents the response from the Razorpay Orders API
type RazorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   uint   `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateGatewayOrder registers an order with Razorpay and returns the
// gateway order id the checkout page and callback both reference.
func CreateGatewayOrder(amount uint, receipt string) (*RazorpayOrderResponse, error) {
	client := resty.New()
	resp, err := client.R().
		SetBasicAuth(config.AppConfig.RazorpayKeyID, config.AppConfig.RazorpayKeySecret).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"amount":   amount,
			"currency": "INR",
			"receipt":  receipt,
		}).
		Post(config.AppConfig.RazorpayApiURL + "/orders")
	if err != nil {
		log.Printf("[GATEWAY] Failed to create Razorpay order: %v", err)
		return nil, err
	}
	if resp.StatusCode() != 200 {
		log.Printf("[GATEWAY] Razorpay order creation failed: %s", resp.String())
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode())
	}

	var orderResp RazorpayOrderResponse
	if err := json.Unmarshal(resp.Body(), &orderResp); err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %v", err)
	}
	if orderResp.ID == "" {
		return nil, fmt.Errorf("gateway response missing order id")
	}

	return &orderResp, nil
}

// VerifyGatewaySignature checks the Razorpay callback signature: an
// HMAC-SHA256 of "<gateway_order_id>|<payment_id>" under the key secret.
// Pure computation, no remote call.
func VerifyGatewaySignature(gatewayOrderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// CheckoutURL builds the hosted checkout page URL the client is redirected to.
func CheckoutURL(gatewayOrderID string, amount uint, userID, courseID, domainID uint) string {
	return fmt.Sprintf("%s?orderId=%s&amount=%d&userId=%d&courseId=%d&domainId=%d",
		config.AppConfig.CheckoutBaseURL, gatewayOrderID, amount, userID, courseID, domainID)
}
