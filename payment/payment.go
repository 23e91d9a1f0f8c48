// Package payment is the subscription overlay shown in front of a summary
// until the listener is entitled.
package payment

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/keypoint-cli/keypoint/log"
	"github.com/keypoint-cli/keypoint/store"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

const (
	Headline = "Unlock learning"
	Tagline  = "Grow on the go by listening and reading the world's best ideas"

	PendingNotice = "Purchase is pending approval"
)

// Alert is a dismissible error message.
type Alert struct {
	Title   string
	Message string
}

func loadProductsAlert() Alert {
	return Alert{Title: "Error", Message: "Load products error. Please, try again later"}
}

func verificationAlert(reason string) Alert {
	return Alert{Title: "Verification error", Message: "Unfortunately, payment failed. Reason: " + reason}
}

func paymentAlert(err error) Alert {
	return Alert{Title: "Payment error", Message: "Unfortunately, payment failed. Reason: " + err.Error()}
}

// Model is the payment overlay state.
type Model struct {
	Product    mo.Option[store.Product]
	Alert      mo.Option[Alert]
	Notice     mo.Option[string]
	Loading    bool
	Purchasing bool

	client store.Client
	ctx    context.Context
	logger *log.Entry
}

func New(ctx context.Context, client store.Client) *Model {
	return &Model{
		client: client,
		ctx:    ctx,
		logger: log.Component("payment"),
	}
}

// ButtonLabel is the buy button text, with the price once products are loaded.
func (m *Model) ButtonLabel() string {
	product, ok := m.Product.Get()
	if !ok {
		return "Start Listening"
	}
	return fmt.Sprintf("Start Listening • %s", product.Price)
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case AppearMsg:
		m.Loading = true
		return m.loadProducts()

	case productsMsg:
		m.Loading = false
		if msg.err != nil {
			m.logger.Errorf("load products: %v", msg.err)
			m.Alert = mo.Some(loadProductsAlert())
			return nil
		}

		product, ok := lo.Find(msg.products, func(p store.Product) bool {
			return p.Kind == store.AutoRenewable
		})
		if !ok {
			m.logger.Errorf("load products: %v", store.ErrNoProduct)
			m.Alert = mo.Some(loadProductsAlert())
			return nil
		}

		m.Product = mo.Some(product)
		return nil

	case BuyMsg:
		product, ok := m.Product.Get()
		if !ok || m.Purchasing {
			return nil
		}

		m.Purchasing = true
		m.Notice = mo.None[string]()
		return m.purchase(product)

	case purchaseMsg:
		m.Purchasing = false
		if msg.err != nil {
			m.logger.Errorf("purchase: %v", msg.err)
			m.Alert = mo.Some(paymentAlert(msg.err))
			return nil
		}

		switch msg.result.Outcome {
		case store.Verified:
			return m.finish(msg.result.Transaction.MustGet())
		case store.Unverified:
			m.Alert = mo.Some(verificationAlert(msg.result.Reason))
		case store.Pending:
			m.Notice = mo.Some(PendingNotice)
		case store.Cancelled:
			m.logger.Infof("purchase cancelled")
		}
		return nil

	case AlertDismissedMsg:
		m.Alert = mo.None[Alert]()
		return nil

	case CancelMsg, FinishedMsg:
		return nil
	}

	return nil
}

func (m *Model) loadProducts() tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		products, err := client.Products(ctx)
		return productsMsg{products: products, err: err}
	}
}

func (m *Model) purchase(product store.Product) tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		result, err := client.Purchase(ctx, product)
		return purchaseMsg{result: result, err: err}
	}
}

// finish acknowledges the transaction before reporting success.
// Unacknowledged transactions are redelivered through the store updates.
func (m *Model) finish(tx store.Transaction) tea.Cmd {
	ctx, client, logger := m.ctx, m.client, m.logger
	return func() tea.Msg {
		if err := client.Finish(ctx, tx); err != nil {
			logger.Warnf("finish %s: %v", tx.ID, err)
		}
		return FinishedMsg{Transaction: tx}
	}
}
