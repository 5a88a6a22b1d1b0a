package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"naijalaw-ai/internal/model"
	"naijalaw-ai/internal/repository"
)

// paystackEvent is the envelope Paystack posts to the webhook. The
// webhook handler verifies the signature and enqueues the raw body; this
// worker does the bookkeeping.
type paystackEvent struct {
	Event string `json:"event"`
	Data  struct {
		ID               json.Number `json:"id"`
		Reference        string      `json:"reference"`
		Amount           int64       `json:"amount"`
		SubscriptionCode string      `json:"subscription_code"`
		InvoiceCode      string      `json:"invoice_code"`
		NextPaymentDate  string      `json:"next_payment_date"`
		Customer         struct {
			CustomerCode string `json:"customer_code"`
		} `json:"customer"`
		Plan struct {
			PlanCode string `json:"plan_code"`
		} `json:"plan"`
		Metadata struct {
			SubscriptionID string `json:"subscription_id"`
		} `json:"metadata"`
	} `json:"data"`
}

// Paystack plan codes mapped to internal tiers.
var planTiers = map[string]string{
	"PLN_pro_monthly":        "pro",
	"PLN_pro_annual":         "pro",
	"PLN_enterprise_monthly": "enterprise",
	"PLN_enterprise_annual":  "enterprise",
}

// BillingWorker consumes verified Paystack events from a durable queue
// and applies subscription and transaction bookkeeping.
type BillingWorker struct {
	conn      *amqp.Connection
	repo      *repository.BillingRepository
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewBillingWorker(conn *amqp.Connection, repo *repository.BillingRepository, queueName string) *BillingWorker {
	return &BillingWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
	}
}

func (w *BillingWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open billing worker channel failed: %w", err)
	}

	if _, err := ch.QueueDeclare(w.queueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare billing queue failed: %w", err)
	}

	deliveries, err := ch.Consume(w.queueName, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume billing queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				if err := w.handle(d.Body); err != nil {
					log.Printf("billing worker: handle event failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *BillingWorker) handle(body []byte) error {
	var event paystackEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("decode paystack event failed: %w", err)
	}

	switch event.Event {
	case "charge.success":
		return w.handleChargeSuccess(event)
	case "subscription.create":
		return w.handleSubscriptionCreated(event)
	case "subscription.disable":
		return w.repo.SetSubscriptionStatus(event.Data.SubscriptionCode, model.SubscriptionCancelled)
	case "invoice.create":
		log.Printf("billing worker: invoice created: %s", event.Data.InvoiceCode)
		return nil
	case "invoice.payment_failed":
		return w.repo.SetSubscriptionStatus(event.Data.SubscriptionCode, model.SubscriptionExpired)
	default:
		log.Printf("billing worker: unhandled event: %s", event.Event)
		return nil
	}
}

func (w *BillingWorker) handleChargeSuccess(event paystackEvent) error {
	if err := w.repo.MarkTransactionSuccess(
		event.Data.Reference,
		event.Data.ID.String(),
		event.Data.Amount,
	); err != nil {
		return err
	}
	// Subscription payments re-activate the linked subscription.
	if code := event.Data.Metadata.SubscriptionID; code != "" {
		return w.repo.ActivateSubscription(code, event.Data.Customer.CustomerCode, "", "")
	}
	return nil
}

func (w *BillingWorker) handleSubscriptionCreated(event paystackEvent) error {
	sub, err := w.repo.GetSubscriptionByCode(event.Data.SubscriptionCode)
	if err != nil {
		return err
	}
	if sub == nil {
		log.Printf("billing worker: subscription not found: %s", event.Data.SubscriptionCode)
		return nil
	}
	return w.repo.ActivateSubscription(
		event.Data.SubscriptionCode,
		event.Data.Customer.CustomerCode,
		event.Data.NextPaymentDate,
		planTiers[event.Data.Plan.PlanCode],
	)
}

func (w *BillingWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
