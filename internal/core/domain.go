package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Credit   AccountType = "credit"
	Checking AccountType = "checking"
	Savings  AccountType = "savings"
)

const (
	DefaultCurrency = "USD"
	DefaultCategory = "other"
	DemoUserID      = "1"
)

type (
	AccountType string

	ReceiptItem struct {
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
	}

	Receipt struct {
		ID           string        `json:"id"`
		UserID       string        `json:"userId"`
		ImageURI     string        `json:"imageUri"`
		MerchantName string        `json:"merchantName"`
		TotalAmount  float64       `json:"totalAmount"`
		Currency     string        `json:"currency"`
		Date         time.Time     `json:"date"`
		Category     string        `json:"category"`
		Items        []ReceiptItem `json:"items,omitempty"`
		CreatedAt    time.Time     `json:"createdAt"`
		UpdatedAt    time.Time     `json:"updatedAt"`
	}

	// Transaction amounts are expense magnitudes; the sign is applied when rendering.
	Transaction struct {
		ID           string    `json:"id"`
		AccountID    string    `json:"accountId"`
		UserID       string    `json:"userId"`
		Amount       float64   `json:"amount"`
		Date         time.Time `json:"date"`
		MerchantName string    `json:"merchantName"`
		Category     string    `json:"category"`
		Pending      bool      `json:"pending"`
		ReceiptID    string    `json:"receiptId,omitempty"`
		CreatedAt    time.Time `json:"createdAt"`
	}

	Account struct {
		ID              string      `json:"id"`
		UserID          string      `json:"userId"`
		InstitutionName string      `json:"institutionName"`
		AccountName     string      `json:"accountName"`
		AccountType     AccountType `json:"accountType"`
		AccountMask     string      `json:"accountMask"`
		Balance         float64     `json:"balance"`
		IsActive        bool        `json:"isActive"`
		LastSyncedAt    time.Time   `json:"lastSyncedAt"`
		CreatedAt       time.Time   `json:"createdAt"`
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyMerchant       = errors.New("empty merchant name")
	ErrEmptyID             = errors.New("empty id")
	ErrUnknownAccountType  = errors.New("unknown account type")
	ErrMerchantNameTooLong = errors.New("merchant name too long (max 200 characters)")
)

// Valid reports whether t is one of the supported account types.
func (t AccountType) Valid() bool {
	switch t {
	case Credit, Checking, Savings:
		return true
	default:
		return false
	}
}

// Icon returns the icon identifier shown next to accounts of this type.
func (t AccountType) Icon() string {
	switch t {
	case Checking:
		return "dollar-sign"
	case Savings:
		return "briefcase"
	default:
		return "credit-card"
	}
}

func (r Receipt) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(r.MerchantName) == "" {
		return ErrEmptyMerchant
	}
	if len(r.MerchantName) > 200 {
		return ErrMerchantNameTooLong
	}
	if r.TotalAmount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(t.MerchantName) == "" {
		return ErrEmptyMerchant
	}
	if t.Amount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return ErrEmptyID
	}
	if !a.AccountType.Valid() {
		return ErrUnknownAccountType
	}
	return nil
}

// Sum returns the total of all line items.
func (r Receipt) Sum() float64 {
	var total float64
	for _, it := range r.Items {
		total += it.Amount
	}
	return total
}
