package payment

import "github.com/keypoint-cli/keypoint/store"

// AppearMsg is sent when the overlay is shown.
type AppearMsg struct{}

// BuyMsg purchases the loaded subscription.
type BuyMsg struct{}

// AlertDismissedMsg clears the current alert.
type AlertDismissedMsg struct{}

// CancelMsg closes the overlay without buying. The parent handles it.
type CancelMsg struct{}

// FinishedMsg reports a verified, acknowledged purchase. The parent handles it.
type FinishedMsg struct {
	Transaction store.Transaction
}

type productsMsg struct {
	products []store.Product
	err      error
}

type purchaseMsg struct {
	result store.PurchaseResult
	err    error
}
