package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/keypoint-cli/keypoint/auth"
	"github.com/keypoint-cli/keypoint/constant"
	"github.com/keypoint-cli/keypoint/internal/cache"
	"github.com/keypoint-cli/keypoint/key"
	"github.com/keypoint-cli/keypoint/log"
	"github.com/keypoint-cli/keypoint/stream"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Simulation selects the outcome of purchases made in the local store.
type Simulation string

const (
	SimulateVerified   Simulation = "verified"
	SimulateUnverified Simulation = "unverified"
	SimulatePending    Simulation = "pending"
	SimulateCancelled  Simulation = "cancelled"
	SimulateFailed     Simulation = "failed"
)

// Simulations lists every accepted simulation.
func Simulations() []Simulation {
	return []Simulation{SimulateVerified, SimulateUnverified, SimulatePending, SimulateCancelled, SimulateFailed}
}

const year = 365 * 24 * time.Hour

// DefaultProductID is the yearly subscription of the bundle.
const DefaultProductID = constant.BundleID + ".product.subscription.year"

// Vault keeps receipt tokens out of the transaction file.
type Vault interface {
	SetReceipt(transactionID, token string) error
	Receipt(transactionID string) (string, error)
	DeleteReceipt(transactionID string) error
}

// Local is a sandbox store persisted on disk. Purchases never charge anything;
// their outcome comes from the configured Simulation.
type Local struct {
	productID    string
	simulation   Simulation
	transactions *cache.Keyed[string, Transaction]
	vault        Vault
	updates      *stream.Hub[Update]
	now          func() time.Time
	logger       *log.Entry
}

var _ Client = (*Local)(nil)

type LocalOption func(*Local)

func WithProductID(id string) LocalOption {
	return func(l *Local) {
		if id != "" {
			l.productID = id
		}
	}
}

func WithSimulation(s Simulation) LocalOption {
	return func(l *Local) {
		l.simulation = s
	}
}

func WithVault(v Vault) LocalOption {
	return func(l *Local) {
		l.vault = v
	}
}

// NewLocal opens the store kept in dir.
func NewLocal(dir string, options ...LocalOption) *Local {
	l := &Local{
		productID:    DefaultProductID,
		simulation:   SimulateVerified,
		transactions: cache.New[string, Transaction](filepath.Join(dir, "transactions.json"), 0),
		vault:        auth.Keyring{},
		updates:      stream.NewHub[Update](),
		now:          time.Now,
		logger:       log.Component("store"),
	}

	for _, option := range options {
		option(l)
	}

	return l
}

// FromConfig opens the store in dir with the store.* configuration.
func FromConfig(dir string) (*Local, error) {
	simulation := Simulation(viper.GetString(key.StoreSimulate))
	if !lo.Contains(Simulations(), simulation) {
		return nil, fmt.Errorf("unknown store simulation %q, available: %v", simulation, Simulations())
	}

	return NewLocal(
		dir,
		WithProductID(viper.GetString(key.StoreProductID)),
		WithSimulation(simulation),
	), nil
}

func (l *Local) Products(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return []Product{
		{
			ID:          l.productID,
			DisplayName: "Yearly subscription",
			Price:       "$29.99",
			Kind:        AutoRenewable,
			Period:      year,
		},
		{
			ID:          constant.BundleID + ".product.lifetime",
			DisplayName: "Lifetime access",
			Price:       "$79.99",
			Kind:        NonRenewable,
		},
	}, nil
}

func (l *Local) Purchase(ctx context.Context, product Product) (PurchaseResult, error) {
	if err := ctx.Err(); err != nil {
		return PurchaseResult{}, err
	}

	l.logger.Infof("purchase %s (%s)", product.ID, l.simulation)

	switch l.simulation {
	case SimulateCancelled:
		return PurchaseResult{Outcome: Cancelled}, nil
	case SimulatePending:
		return PurchaseResult{Outcome: Pending}, nil
	case SimulateFailed:
		return PurchaseResult{}, ErrFailed
	}

	now := l.now()
	tx := Transaction{
		ID:          uuid.NewString(),
		ProductID:   product.ID,
		PurchasedAt: now,
		Verified:    l.simulation == SimulateVerified,
	}
	if product.Period > 0 {
		tx.ExpiresAt = now.Add(product.Period)
	}

	if tx.Verified {
		if err := l.vault.SetReceipt(tx.ID, uuid.NewString()); err != nil {
			l.logger.Warnf("store receipt of %s: %v", tx.ID, err)
		}
	}

	if err := l.transactions.Set(tx.ID, tx); err != nil {
		return PurchaseResult{}, fmt.Errorf("save transaction: %w", err)
	}

	if !tx.Verified {
		reason := "receipt signature does not match"
		l.updates.Publish(Update{Transaction: tx, Reason: reason})
		return PurchaseResult{Outcome: Unverified, Transaction: mo.Some(tx), Reason: reason}, nil
	}

	l.updates.Publish(Update{Transaction: tx, Verified: true})
	return PurchaseResult{Outcome: Verified, Transaction: mo.Some(tx)}, nil
}

func (l *Local) Finish(ctx context.Context, transaction Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var found bool
	err := l.transactions.Update(func(records map[string]Transaction) {
		tx, ok := records[transaction.ID]
		if !ok {
			return
		}

		found = true
		tx.Finished = true
		records[tx.ID] = tx
	})
	if err != nil {
		return err
	}

	if !found {
		return fmt.Errorf("unknown transaction %s", transaction.ID)
	}
	return nil
}

func (l *Local) Updates() *stream.Subscription[Update] {
	all, err := l.transactions.All()
	if err != nil {
		l.logger.Errorf("load transactions: %v", err)
	}

	unfinished := lo.Filter(lo.Values(all), func(tx Transaction, _ int) bool {
		return tx.Verified && !tx.Finished
	})

	backlog := lo.Map(unfinished, func(tx Transaction, _ int) Update {
		return Update{Transaction: tx, Verified: true}
	})

	return l.updates.SubscribeWith(backlog...)
}

// Entitled reports whether an active verified transaction with a stored
// receipt exists.
func (l *Local) Entitled(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	all, err := l.transactions.All()
	if err != nil {
		return false, err
	}

	now := l.now()
	for _, tx := range all {
		if !tx.Active(now) {
			continue
		}

		_, err := l.vault.Receipt(tx.ID)
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, auth.ErrNotFound):
			l.logger.Warnf("transaction %s has no receipt", tx.ID)
		default:
			// keyring unavailable, trust the transaction file
			l.logger.Warnf("read receipt of %s: %v", tx.ID, err)
			return true, nil
		}
	}

	return false, nil
}

// Transactions lists every stored transaction.
func (l *Local) Transactions() ([]Transaction, error) {
	all, err := l.transactions.All()
	if err != nil {
		return nil, err
	}
	return lo.Values(all), nil
}

// Reset forgets every transaction and receipt.
func (l *Local) Reset() error {
	all, err := l.transactions.All()
	if err != nil {
		return err
	}

	for id := range all {
		if err := l.vault.DeleteReceipt(id); err != nil {
			l.logger.Warnf("delete receipt of %s: %v", id, err)
		}
	}

	return l.transactions.Clear()
}
