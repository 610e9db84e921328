package views

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"spendwise/internal/capture"
	"spendwise/internal/core"
	applog "spendwise/internal/log"
	"spendwise/internal/records"
)

const placeholderMerchant = "Sample Merchant"

// Draft is an editable receipt. TotalAmount is the raw text from the form or the recognizer.
// An empty ID means a new receipt.
type Draft struct {
	ID           string
	ImageURI     string
	MerchantName string
	TotalAmount  string
	Date         time.Time
	Category     string
	Items        []core.ReceiptItem
	Confidence   float64
}

// DraftFromReceipt prepares an existing receipt for editing.
func DraftFromReceipt(r core.Receipt) Draft {
	return Draft{
		ID:           r.ID,
		ImageURI:     r.ImageURI,
		MerchantName: r.MerchantName,
		TotalAmount:  fmt.Sprintf("%.2f", r.TotalAmount),
		Date:         r.Date,
		Category:     r.Category,
		Items:        r.Items,
	}
}

type Receipts struct {
	store      *records.Store
	recognizer capture.Recognizer
	now        func() time.Time
	newID      func() string
	logger     *slog.Logger

	list []core.Receipt
}

func NewReceipts(store *records.Store, recognizer capture.Recognizer, logger *slog.Logger) *Receipts {
	if recognizer == nil {
		recognizer = capture.NewStubRecognizer(capture.DefaultRecognizeDelay)
	}
	return &Receipts{
		store:      store,
		recognizer: recognizer,
		now:        time.Now,
		newID:      uuid.NewString,
		logger:     applog.Or(logger).With(applog.FieldComponent, applog.ComponentReceipts),
	}
}

// Load reads all receipts, most recently captured first.
func (r *Receipts) Load(ctx context.Context) []core.Receipt {
	r.list = core.SortReceiptsByCreatedDescending(r.store.Receipts.List(ctx))
	return r.list
}

// List returns the receipts from the last load.
func (r *Receipts) List() []core.Receipt { return r.list }

// Capture stores a placeholder receipt for a freshly captured image.
func (r *Receipts) Capture(ctx context.Context, src capture.ImageSource) (core.Receipt, error) {
	uri, err := src.Capture(ctx)
	if err != nil {
		return core.Receipt{}, fmt.Errorf("capture image: %w", err)
	}

	now := r.now()
	rec := core.Receipt{
		ID:           r.newID(),
		UserID:       core.DemoUserID,
		ImageURI:     uri,
		MerchantName: placeholderMerchant,
		Currency:     core.DefaultCurrency,
		Date:         now,
		Category:     core.DefaultCategory,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := r.store.Receipts.Upsert(ctx, rec); err != nil {
		return core.Receipt{}, err
	}

	r.logger.InfoContext(ctx, "Receipt captured",
		applog.FieldOperation, applog.OpCapture,
		applog.FieldRecordID, rec.ID,
		applog.FieldImageURI, uri)
	r.Load(ctx)
	return rec, nil
}

// Scan runs recognition on an image and returns a draft for the user to confirm.
func (r *Receipts) Scan(ctx context.Context, imageURI string) (Draft, error) {
	start := time.Now()
	res, err := r.recognizer.Recognize(ctx, imageURI)
	if err != nil {
		return Draft{}, fmt.Errorf("recognize receipt: %w", err)
	}
	r.logger.InfoContext(ctx, "Receipt scanned",
		applog.FieldOperation, applog.OpScan,
		applog.FieldMerchant, res.MerchantName,
		"confidence", res.Confidence,
		applog.FieldDuration, time.Since(start).Milliseconds())

	return Draft{
		ImageURI:     imageURI,
		MerchantName: res.MerchantName,
		TotalAmount:  res.TotalAmount,
		Date:         res.Date,
		Category:     res.Category,
		Items:        res.Items,
		Confidence:   res.Confidence,
	}, nil
}

// Save validates the draft and upserts it. An unparsable amount is stored as 0.
// Editing an existing receipt keeps its id and creation time.
func (r *Receipts) Save(ctx context.Context, d Draft) (core.Receipt, error) {
	merchant := strings.TrimSpace(d.MerchantName)
	if merchant == "" {
		return core.Receipt{}, core.ErrEmptyMerchant
	}

	now := r.now()
	rec := core.Receipt{
		ID:           d.ID,
		UserID:       core.DemoUserID,
		ImageURI:     d.ImageURI,
		MerchantName: merchant,
		TotalAmount:  core.ParseAmountOrZero(d.TotalAmount),
		Currency:     core.DefaultCurrency,
		Date:         d.Date,
		Category:     d.Category,
		Items:        d.Items,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if rec.Date.IsZero() {
		rec.Date = now
	}
	if _, ok := core.CategoryByID(rec.Category); !ok {
		rec.Category = core.DefaultCategory
	}
	if rec.ID == "" {
		rec.ID = r.newID()
	} else if existing, ok := r.find(ctx, rec.ID); ok {
		rec.CreatedAt = existing.CreatedAt
		if existing.UserID != "" {
			rec.UserID = existing.UserID
		}
	}
	if err := rec.Validate(); err != nil {
		return core.Receipt{}, err
	}

	if err := r.store.Receipts.Upsert(ctx, rec); err != nil {
		return core.Receipt{}, err
	}
	r.logger.InfoContext(ctx, "Receipt saved",
		applog.NewFields().
			WithOperation(applog.OpUpsert).
			WithRecord(records.ReceiptsKey, rec.ID).
			With(applog.FieldAmount, rec.TotalAmount).
			ToSlice()...)
	r.Load(ctx)
	return rec, nil
}

func (r *Receipts) Delete(ctx context.Context, id string) error {
	if err := r.store.Receipts.Delete(ctx, id); err != nil {
		return err
	}
	r.Load(ctx)
	return nil
}

func (r *Receipts) find(ctx context.Context, id string) (core.Receipt, bool) {
	for _, rec := range r.store.Receipts.List(ctx) {
		if rec.ID == id {
			return rec, true
		}
	}
	return core.Receipt{}, false
}
