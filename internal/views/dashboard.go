// Package views holds the screen controllers. Each controller reloads its data
// from the record store in full and keeps the last loaded snapshot for rendering.
package views

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"spendwise/internal/core"
	applog "spendwise/internal/log"
	"spendwise/internal/pager"
	"spendwise/internal/records"
	"spendwise/internal/seed"
)

var ErrUnknownCategory = errors.New("unknown category")

const (
	DefaultTopCategories = 3
	DefaultRecent        = 5
)

// DashboardConfig sizes the dashboard sections. Zero values use the defaults.
type DashboardConfig struct {
	PageSize      int
	TopCategories int
	Recent        int
}

// CategorySummary is one row of the top categories section.
type CategorySummary struct {
	Category   core.Category
	Amount     float64
	Percentage float64
}

type DashboardView struct {
	TotalSpent       float64
	TransactionCount int
	ReceiptCount     int
	TopCategories    []CategorySummary
	Recent           []core.Transaction
}

type Dashboard struct {
	store   *records.Store
	seeder  *seed.Seeder
	cfg     DashboardConfig
	history *pager.Cursor
	logger  *slog.Logger

	txns []core.Transaction
}

// NewDashboard creates the dashboard controller. seeder may be nil.
func NewDashboard(store *records.Store, seeder *seed.Seeder, cfg DashboardConfig, logger *slog.Logger) *Dashboard {
	if cfg.TopCategories <= 0 {
		cfg.TopCategories = DefaultTopCategories
	}
	if cfg.Recent <= 0 {
		cfg.Recent = DefaultRecent
	}
	return &Dashboard{
		store:   store,
		seeder:  seeder,
		cfg:     cfg,
		history: pager.New(cfg.PageSize),
		logger:  applog.Or(logger).With(applog.FieldComponent, applog.ComponentDash),
	}
}

// Load seeds an empty store, then rebuilds the summary from all stored records.
func (d *Dashboard) Load(ctx context.Context) (*DashboardView, error) {
	if d.seeder != nil {
		if err := d.seeder.EnsureSeeded(ctx); err != nil {
			d.logger.WarnContext(ctx, "Seeding failed, continuing with stored data",
				applog.FieldOperation, applog.OpSeed,
				applog.FieldError, err)
		}
	}

	d.txns = core.SortByDateDescending(d.store.Transactions.List(ctx))
	receipts := d.store.Receipts.List(ctx)
	d.history.Clamp(len(d.txns))

	total := core.TotalSpent(d.txns)
	view := &DashboardView{
		TotalSpent:       total,
		TransactionCount: len(d.txns),
		ReceiptCount:     len(receipts),
		Recent:           core.Recent(d.txns, d.cfg.Recent),
	}
	for _, ca := range core.TopCategories(core.CategoryTotals(d.txns), d.cfg.TopCategories) {
		cat, ok := core.CategoryByID(ca.CategoryID)
		if !ok {
			continue
		}
		view.TopCategories = append(view.TopCategories, CategorySummary{
			Category:   cat,
			Amount:     ca.Amount,
			Percentage: core.PercentageOfTotal(ca.Amount, total),
		})
	}

	d.logger.DebugContext(ctx, "Dashboard loaded",
		applog.FieldOperation, applog.OpLoad,
		"transactions", view.TransactionCount,
		"receipts", view.ReceiptCount)
	return view, nil
}

// History returns the revealed part of the date sorted transaction list.
func (d *Dashboard) History() []core.Transaction {
	return pager.Window(d.history, d.txns)
}

func (d *Dashboard) HasMoreHistory() bool {
	return d.history.HasMore(len(d.txns))
}

// LoadMoreHistory reveals one more page of history.
func (d *Dashboard) LoadMoreHistory() []core.Transaction {
	d.history.LoadMore(len(d.txns))
	return d.History()
}

// OpenCategory builds the detail screen for one category from the last load.
func (d *Dashboard) OpenCategory(id string) (*CategoryDetail, error) {
	cat, ok := core.CategoryByID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, id)
	}
	txns := core.FilterByCategory(d.txns, id)
	return &CategoryDetail{
		Category:     cat,
		Total:        core.TotalSpent(txns),
		transactions: txns,
		cursor:       pager.New(d.history.PageSize()),
	}, nil
}

// CategoryDetail lists the transactions of one category, most recent first.
type CategoryDetail struct {
	Category core.Category
	Total    float64

	transactions []core.Transaction
	cursor       *pager.Cursor
}

func (c *CategoryDetail) Count() int { return len(c.transactions) }

func (c *CategoryDetail) Transactions() []core.Transaction {
	return pager.Window(c.cursor, c.transactions)
}

func (c *CategoryDetail) HasMore() bool { return c.cursor.HasMore(len(c.transactions)) }

func (c *CategoryDetail) LoadMore() []core.Transaction {
	c.cursor.LoadMore(len(c.transactions))
	return c.Transactions()
}
