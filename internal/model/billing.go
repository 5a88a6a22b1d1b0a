package model

import "time"

// Subscription statuses driven by payment webhook events.
const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
)

// Subscription tracks a user's paid tier. Rows are updated by the billing
// worker as Paystack events arrive; the chat pipeline never writes here.
type Subscription struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	UserID               uint      `gorm:"not null;index" json:"user_id"`
	Tier                 string    `gorm:"size:32;not null" json:"tier"`
	Status               string    `gorm:"size:32;not null" json:"status"`
	PaystackSubscription string    `gorm:"size:64;index" json:"paystack_subscription"`
	PaystackCustomerCode string    `gorm:"size:64" json:"paystack_customer_code"`
	NextPaymentDate      string    `gorm:"size:64" json:"next_payment_date"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Transaction is one Paystack charge, keyed by the provider reference.
type Transaction struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	UserID              uint      `gorm:"index" json:"user_id"`
	PaystackReference   string    `gorm:"size:128;uniqueIndex" json:"paystack_reference"`
	PaystackTransaction string    `gorm:"size:64" json:"paystack_transaction"`
	AmountKobo          int64     `json:"amount_kobo"`
	Status              string    `gorm:"size:32;not null" json:"status"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
