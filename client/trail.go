package client

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Display categories for trail entries.
const (
	CategoryItemCount    = "Item Count"
	CategoryLogin        = "Login"
	CategoryCountReset   = "Count Reset"
	CategoryCountStarted = "Count Started"
	CategorySettings     = "Settings Change"
	CategorySystemAction = "System Action"
)

// TrailEntry is a classified audit event ready for display.
type TrailEntry struct {
	Event    AuditEvent
	Category string
	Details  string
}

// TrailFilter is the transient filter state of the viewer. Substring
// matches are case-insensitive; date bounds are inclusive calendar
// days in the viewer's time zone.
type TrailFilter struct {
	Action string
	SKU    string
	Start  time.Time
	End    time.Time
}

// Viewer limits.
const (
	trailFetchLimit = 100
	trailPageSize   = 20
)

// TrailViewer fetches a bounded recent window of audit events,
// classifies them, and serves filtered fixed-size pages. Not safe for
// concurrent use; each viewer owns one screen's state.
type TrailViewer struct {
	client  *Client
	zone    *time.Location
	entries []TrailEntry
	filter  TrailFilter
	page    int
}

// TrailViewerOption configures a TrailViewer.
type TrailViewerOption func(*TrailViewer)

// WithTimeZone sets the zone used for calendar-day filter boundaries.
// Defaults to UTC.
func WithTimeZone(loc *time.Location) TrailViewerOption {
	return func(v *TrailViewer) { v.zone = loc }
}

// NewTrailViewer creates a TrailViewer.
func NewTrailViewer(c *Client, opts ...TrailViewerOption) *TrailViewer {
	v := &TrailViewer{client: c, zone: time.UTC, page: 1}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Refresh fetches the most recent events for a location (empty means
// all locations), classifies them, and sorts newest first with id as
// tiebreak. The current filter and page are preserved.
func (v *TrailViewer) Refresh(ctx context.Context, location string) error {
	events, _, err := v.client.Audit.Trail(ctx, &TrailOptions{
		Location: location,
		Limit:    trailFetchLimit,
	})
	if err != nil {
		return err
	}

	entries := make([]TrailEntry, 0, len(events))
	for _, e := range events {
		entries = append(entries, classify(e))
	}

	sort.Slice(entries, func(i, j int) bool {
		ti, tj := entries[i].Event.Timestamp, entries[j].Event.Timestamp
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return entries[i].Event.ID > entries[j].Event.ID
	})

	v.entries = entries
	return nil
}

// classify assigns a display category. The explicit event-kind tag
// wins; untagged events (older producers) fall back to the substring
// heuristic on sku and source.
func classify(e AuditEvent) TrailEntry {
	entry := TrailEntry{Event: e}

	switch EventKind(e.Kind()) {
	case EventScan:
		entry.Category = CategoryItemCount
		entry.Details = fmt.Sprintf("%s: Qty %d", e.SKU, e.Quantity)
		return entry
	case EventAuth:
		entry.Category = CategoryLogin
		entry.Details = e.UserName
		return entry
	case EventConfig:
		entry.Category = CategorySettings
		entry.Details = e.SKU
		return entry
	case EventCount:
		entry.Category, entry.Details = classifySource(e)
		return entry
	}

	// Untagged: an sku without an underscore is a plain item count;
	// structured skus (AUTH_LOGIN, COUNT_RESET, ...) classify by source.
	if !strings.Contains(e.SKU, "_") {
		entry.Category = CategoryItemCount
		entry.Details = fmt.Sprintf("%s: Qty %d", e.SKU, e.Quantity)
		return entry
	}

	entry.Category, entry.Details = classifySource(e)
	return entry
}

// classifySource maps the source field to a category by substring, in
// match order: auth, reset, start.
func classifySource(e AuditEvent) (category, details string) {
	src := strings.ToLower(e.Source)
	switch {
	case strings.Contains(src, "auth"):
		return CategoryLogin, e.UserName
	case strings.Contains(src, "reset"):
		return CategoryCountReset, e.Location
	case strings.Contains(src, "start"):
		return CategoryCountStarted, e.Location
	default:
		return CategorySystemAction, e.SKU
	}
}

// SetFilter replaces the filter state and resets pagination to page 1.
func (v *TrailViewer) SetFilter(f TrailFilter) {
	v.filter = f
	v.page = 1
}

// Filtered returns the entries matching the current filter. Filters
// compose with AND; each is independent, so application order cannot
// change the result.
func (v *TrailViewer) Filtered() []TrailEntry {
	out := make([]TrailEntry, 0, len(v.entries))
	for _, entry := range v.entries {
		if v.matches(entry) {
			out = append(out, entry)
		}
	}
	return out
}

// matches reports whether an entry passes every active filter.
func (v *TrailViewer) matches(entry TrailEntry) bool {
	if v.filter.Action != "" &&
		!strings.Contains(strings.ToLower(entry.Category), strings.ToLower(v.filter.Action)) {
		return false
	}
	if v.filter.SKU != "" &&
		!strings.Contains(strings.ToLower(entry.Event.SKU), strings.ToLower(v.filter.SKU)) {
		return false
	}

	if !v.filter.Start.IsZero() || !v.filter.End.IsZero() {
		day := dayOf(entry.Event.Timestamp, v.zone)
		if !v.filter.Start.IsZero() && day.Before(dayOf(v.filter.Start, v.zone)) {
			return false
		}
		if !v.filter.End.IsZero() && day.After(dayOf(v.filter.End, v.zone)) {
			return false
		}
	}

	return true
}

// dayOf truncates a time to its calendar day in the given zone.
func dayOf(t time.Time, zone *time.Location) time.Time {
	y, m, d := t.In(zone).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, zone)
}

// PageCount returns ceil(filtered/pageSize); an empty set has one
// (empty) page.
func (v *TrailViewer) PageCount() int {
	n := len(v.Filtered())
	if n == 0 {
		return 1
	}
	return (n + trailPageSize - 1) / trailPageSize
}

// SetPage moves to the given page, clamped to [1, PageCount()].
func (v *TrailViewer) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	if maxPage := v.PageCount(); n > maxPage {
		n = maxPage
	}
	v.page = n
}

// Page returns the current page of filtered entries. Page 1 of an
// empty filtered set is an empty slice, not an error.
func (v *TrailViewer) Page() []TrailEntry {
	filtered := v.Filtered()

	start := (v.page - 1) * trailPageSize
	if start >= len(filtered) {
		return []TrailEntry{}
	}
	end := start + trailPageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// CurrentPage returns the current page index (1-based).
func (v *TrailViewer) CurrentPage() int {
	return v.page
}
