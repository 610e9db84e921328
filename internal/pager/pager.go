// Package pager implements the "load more" cursor used by transaction lists.
package pager

// DefaultPageSize is how many entries a list reveals per step.
const DefaultPageSize = 10

// Cursor tracks how many entries of a list are currently revealed.
// The zero value is not usable; call New.
type Cursor struct {
	pageSize int
	revealed int
}

// New returns a cursor revealing one page. A non-positive size falls back to DefaultPageSize.
func New(pageSize int) *Cursor {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Cursor{pageSize: pageSize, revealed: pageSize}
}

func (c *Cursor) PageSize() int { return c.pageSize }

// Revealed is the configured window size, which may exceed the list length.
func (c *Cursor) Revealed() int { return c.revealed }

// HasMore reports whether entries beyond the revealed window exist.
func (c *Cursor) HasMore(total int) bool {
	return c.revealed < total
}

// LoadMore grows the window by one page, saturating at total. It is a no-op
// when everything is already revealed.
func (c *Cursor) LoadMore(total int) {
	if !c.HasMore(total) {
		return
	}
	c.revealed = min(c.revealed+c.pageSize, total)
}

// Reset goes back to a single page.
func (c *Cursor) Reset() {
	c.revealed = c.pageSize
}

// Clamp shrinks the window after a reload returned fewer entries than revealed.
// The window never drops below one page.
func (c *Cursor) Clamp(total int) {
	if c.revealed > total {
		c.revealed = max(c.pageSize, total)
	}
}

// Visible is the number of entries to render for a list of total entries.
func (c *Cursor) Visible(total int) int {
	return max(0, min(c.revealed, total))
}

// Window returns the visible prefix of items.
func Window[T any](c *Cursor, items []T) []T {
	return items[:c.Visible(len(items))]
}
