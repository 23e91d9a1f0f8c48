// Package auth keeps store receipts in the system keyring.
package auth

import (
	"errors"

	"github.com/keypoint-cli/keypoint/constant"
	"github.com/zalando/go-keyring"
)

const service = constant.Keypoint + "-store"

// ErrNotFound is returned when no receipt is stored for a transaction.
var ErrNotFound = keyring.ErrNotFound

// Keyring stores receipts in the operating system's secret store.
type Keyring struct{}

// SetReceipt stores the receipt token of a transaction.
func (Keyring) SetReceipt(transactionID, token string) error {
	return keyring.Set(service, transactionID, token)
}

// Receipt retrieves the receipt token of a transaction.
func (Keyring) Receipt(transactionID string) (string, error) {
	return keyring.Get(service, transactionID)
}

// DeleteReceipt removes a stored receipt. Missing receipts are not an error.
func (Keyring) DeleteReceipt(transactionID string) error {
	err := keyring.Delete(service, transactionID)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
