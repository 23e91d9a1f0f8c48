// Package store is the subscription store collaborator: products, purchases,
// transaction updates and the entitlement check.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/keypoint-cli/keypoint/log"
	"github.com/keypoint-cli/keypoint/stream"
	"github.com/samber/mo"
)

var (
	// ErrNoProduct is returned when no purchasable product is available.
	ErrNoProduct = errors.New("no product available")

	// ErrFailed is returned when the store could not process a purchase.
	ErrFailed = errors.New("store failed to process the purchase")
)

// Kind classifies products.
type Kind int

const (
	AutoRenewable Kind = iota
	NonRenewable
	Consumable
)

func (k Kind) String() string {
	switch k {
	case AutoRenewable:
		return "auto-renewable"
	case NonRenewable:
		return "non-renewable"
	case Consumable:
		return "consumable"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

type Product struct {
	ID          string        `json:"id"`
	DisplayName string        `json:"display_name"`
	Price       string        `json:"price"`
	Kind        Kind          `json:"kind"`
	Period      time.Duration `json:"period,omitempty"`
}

type Transaction struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	PurchasedAt time.Time `json:"purchased_at"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
	Verified    bool      `json:"verified"`
	Finished    bool      `json:"finished"`
}

// Active reports whether t grants access at now.
func (t Transaction) Active(now time.Time) bool {
	return t.Verified && (t.ExpiresAt.IsZero() || now.Before(t.ExpiresAt))
}

// Outcome is how a purchase attempt ended.
type Outcome int

const (
	Verified Outcome = iota
	Unverified
	Pending
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Verified:
		return "verified"
	case Unverified:
		return "unverified"
	case Pending:
		return "pending"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// PurchaseResult carries the transaction of a Verified or Unverified outcome.
type PurchaseResult struct {
	Outcome     Outcome
	Transaction mo.Option[Transaction]
	Reason      string
}

// Update is a transaction verification result delivered outside a purchase.
type Update struct {
	Transaction Transaction
	Verified    bool
	Reason      string
}

// Client is a subscription store.
type Client interface {
	Products(ctx context.Context) ([]Product, error)
	Purchase(ctx context.Context, product Product) (PurchaseResult, error)
	// Finish acknowledges a delivered transaction so it is not redelivered.
	Finish(ctx context.Context, transaction Transaction) error
	// Updates delivers transaction results. Unfinished ones are redelivered
	// to every new subscription.
	Updates() *stream.Subscription[Update]
	Entitled(ctx context.Context) (bool, error)
}

// Observe finishes every verified transaction delivered by client until ctx
// ends. Unverified transactions are logged and left alone.
func Observe(ctx context.Context, client Client) {
	logger := log.Component("store")

	updates := client.Updates()
	defer updates.Cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case u, ok := <-updates.C():
			if !ok {
				return
			}

			if !u.Verified {
				logger.Warnf("unverified transaction %s: %s", u.Transaction.ID, u.Reason)
				continue
			}

			if err := client.Finish(ctx, u.Transaction); err != nil {
				logger.Errorf("finish %s: %v", u.Transaction.ID, err)
				continue
			}
			logger.Infof("finished transaction %s", u.Transaction.ID)
		}
	}
}
