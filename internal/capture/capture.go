// Package capture defines the camera/gallery and receipt recognition capabilities.
// Only stub implementations are shipped.
package capture

import (
	"context"
	"errors"
	"time"

	"spendwise/internal/core"
)

var (
	ErrPermissionDenied = errors.New("capture: permission denied")
	ErrCancelled        = errors.New("capture: cancelled by user")
)

// ImageSource produces the URI of a captured or picked image.
type ImageSource interface {
	Capture(ctx context.Context) (string, error)
}

// StaticSource returns URI, or Err when set.
type StaticSource struct {
	URI string
	Err error
}

func (s StaticSource) Capture(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Err != nil {
		return "", s.Err
	}
	if s.URI == "" {
		return "", ErrCancelled
	}
	return s.URI, nil
}

// Result is what a recognizer extracts from a receipt image. TotalAmount is kept as
// text so the user can correct it before it is parsed.
type Result struct {
	MerchantName string
	TotalAmount  string
	Date         time.Time
	Items        []core.ReceiptItem
	Confidence   float64
	Category     string
}

type Recognizer interface {
	Recognize(ctx context.Context, imageURI string) (Result, error)
}

const DefaultRecognizeDelay = 1500 * time.Millisecond

// StubRecognizer simulates a slow OCR service and always returns the same coffee shop receipt.
type StubRecognizer struct {
	Delay time.Duration
	Now   func() time.Time
}

func NewStubRecognizer(delay time.Duration) *StubRecognizer {
	if delay < 0 {
		delay = DefaultRecognizeDelay
	}
	return &StubRecognizer{Delay: delay, Now: time.Now}
}

func (r *StubRecognizer) Recognize(ctx context.Context, imageURI string) (Result, error) {
	if imageURI == "" {
		return Result{}, errors.New("capture: empty image uri")
	}
	if r.Delay > 0 {
		timer := time.NewTimer(r.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-timer.C:
		}
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return Result{
		MerchantName: "Starbucks Coffee",
		TotalAmount:  "12.75",
		Date:         now(),
		Items: []core.ReceiptItem{
			{Description: "Grande Latte", Amount: 5.45},
			{Description: "Croissant", Amount: 4.25},
			{Description: "Tax", Amount: 0.89},
			{Description: "Tip", Amount: 2.16},
		},
		Confidence: 0.92,
		Category:   "food",
	}, nil
}
