package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"naijalaw-ai/internal/model"
)

type BillingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) *BillingRepository {
	return &BillingRepository{db: db}
}

// MarkTransactionSuccess records a successful charge against its Paystack
// reference.
func (r *BillingRepository) MarkTransactionSuccess(reference, paystackTransaction string, amountKobo int64) error {
	result := r.db.Model(&model.Transaction{}).
		Where("paystack_reference = ?", reference).
		Updates(map[string]any{
			"status":               "success",
			"paystack_transaction": paystackTransaction,
			"amount_kobo":          amountKobo,
		})
	if result.Error != nil {
		return fmt.Errorf("mark transaction success failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// First sight of this reference; keep the record anyway.
		tx := &model.Transaction{
			PaystackReference:   reference,
			PaystackTransaction: paystackTransaction,
			AmountKobo:          amountKobo,
			Status:              "success",
		}
		if err := r.db.Create(tx).Error; err != nil {
			return fmt.Errorf("create transaction failed: %w", err)
		}
	}
	return nil
}

func (r *BillingRepository) GetSubscriptionByCode(code string) (*model.Subscription, error) {
	var sub model.Subscription
	if err := r.db.Where("paystack_subscription = ?", code).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription failed: %w", err)
	}
	return &sub, nil
}

// ActivateSubscription sets a subscription active with its Paystack
// details and tier.
func (r *BillingRepository) ActivateSubscription(code, customerCode, nextPaymentDate, tier string) error {
	updates := map[string]any{
		"status":                 model.SubscriptionActive,
		"paystack_customer_code": customerCode,
	}
	if nextPaymentDate != "" {
		updates["next_payment_date"] = nextPaymentDate
	}
	if tier != "" {
		updates["tier"] = tier
	}
	if err := r.db.Model(&model.Subscription{}).
		Where("paystack_subscription = ?", code).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("activate subscription failed: %w", err)
	}
	return nil
}

// SetSubscriptionStatus moves a subscription to the given status.
func (r *BillingRepository) SetSubscriptionStatus(code, status string) error {
	if err := r.db.Model(&model.Subscription{}).
		Where("paystack_subscription = ?", code).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("set subscription status failed: %w", err)
	}
	return nil
}
