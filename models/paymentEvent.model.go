package models

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentEvent is the append-only audit log of gateway callbacks: one row
// per consumed callback plus one per rejected-signature attempt. Exactly-once
// settlement is enforced by the order status compare-and-set, not here, so
// a gateway order may accumulate several rows. The raw payload keeps what
// the gateway actually sent.
type PaymentEvent struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrderID        uint           `gorm:"index;not null" json:"order_id"`
	GatewayOrderID string         `gorm:"type:varchar(191);not null;index" json:"gateway_order_id"`
	PaymentID      string         `gorm:"type:varchar(191);index" json:"payment_id"`
	Outcome        string         `gorm:"type:varchar(20);not null" json:"outcome"` // SUCCESS, FAILURE
	SignatureValid bool           `gorm:"default:false" json:"signature_valid"`
	PayloadRaw     datatypes.JSON `json:"payload_raw"`
	ProcessedAt    time.Time      `gorm:"autoCreateTime" json:"processed_at"`
}
