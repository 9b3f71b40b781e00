package client

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"
)

func ts(day, hour int) time.Time {
	return time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC)
}

// viewerWith builds a viewer whose entries come from a canned server
// response, exercising Refresh end to end.
func viewerWith(t *testing.T, events []AuditEvent, opts ...TrailViewerOption) *TrailViewer {
	t.Helper()
	_, c := newTestServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/audit/trail": func(w http.ResponseWriter, r *http.Request) {
			jsonResponse(w, http.StatusOK, map[string]any{
				"events":   events,
				"has_more": false,
			})
		},
	})
	v := NewTrailViewer(c, opts...)
	if err := v.Refresh(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		event    AuditEvent
		category string
		details  string
	}{
		{
			"untagged plain sku is an item count",
			AuditEvent{SKU: "WIDGET-1", Quantity: 5, Source: "mobile_count"},
			CategoryItemCount, "WIDGET-1: Qty 5",
		},
		{
			"untagged auth source",
			AuditEvent{SKU: "AUTH_LOGIN", Source: "authentication", UserName: "alice"},
			CategoryLogin, "alice",
		},
		{
			"untagged reset source",
			AuditEvent{SKU: "COUNT_RESET", Source: "count_reset", Location: "MAIN"},
			CategoryCountReset, "MAIN",
		},
		{
			"untagged start source",
			AuditEvent{SKU: "COUNT_START", Source: "count_start", Location: "MAIN"},
			CategoryCountStarted, "MAIN",
		},
		{
			"untagged structured sku with unknown source",
			AuditEvent{SKU: "SYNC_JOB", Source: "scheduler"},
			CategorySystemAction, "SYNC_JOB",
		},
		{
			"tagged scan wins over structured sku",
			AuditEvent{SKU: "KIT_A", Quantity: 2, Source: "mobile_app",
				Metadata: map[string]any{"event_kind": "scan"}},
			CategoryItemCount, "KIT_A: Qty 2",
		},
		{
			"tagged auth",
			AuditEvent{SKU: "AUTH_REGISTER", Source: "registration", UserName: "bob",
				Metadata: map[string]any{"event_kind": "auth"}},
			CategoryLogin, "bob",
		},
		{
			"tagged config change",
			AuditEvent{SKU: "LOCATIONS", Source: "settings",
				Metadata: map[string]any{"event_kind": "config_change"}},
			CategorySettings, "LOCATIONS",
		},
		{
			"tagged count action defers to source",
			AuditEvent{SKU: "COUNT_RESET", Source: "count_reset", Location: "BACK",
				Metadata: map[string]any{"event_kind": "count_action"}},
			CategoryCountReset, "BACK",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := classify(tt.event)
			if entry.Category != tt.category {
				t.Errorf("category = %q, want %q", entry.Category, tt.category)
			}
			if entry.Details != tt.details {
				t.Errorf("details = %q, want %q", entry.Details, tt.details)
			}
		})
	}
}

func TestRefresh_SortsNewestFirstWithIDTiebreak(t *testing.T) {
	v := viewerWith(t, []AuditEvent{
		{ID: 1, SKU: "A", Timestamp: ts(1, 9)},
		{ID: 3, SKU: "C", Timestamp: ts(1, 10)},
		{ID: 2, SKU: "B", Timestamp: ts(1, 10)},
	})

	got := v.Filtered()
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	order := []string{got[0].Event.SKU, got[1].Event.SKU, got[2].Event.SKU}
	want := []string{"C", "B", "A"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestFilters_ComposeWithAND(t *testing.T) {
	v := viewerWith(t, []AuditEvent{
		{ID: 1, SKU: "WIDGET-1", Quantity: 3, Source: "mobile_count", Timestamp: ts(1, 9)},
		{ID: 2, SKU: "WIDGET-2", Quantity: 1, Source: "mobile_count", Timestamp: ts(2, 9)},
		{ID: 3, SKU: "AUTH_LOGIN", Source: "authentication", UserName: "alice", Timestamp: ts(2, 10)},
	})

	filters := []TrailFilter{
		{Action: "item", SKU: "widget-1"},
		{SKU: "widget", Start: ts(2, 0), End: ts(2, 0)},
		{Action: "login", Start: ts(2, 0)},
	}
	wantIDs := [][]int64{{1}, {2}, {3}}

	for i, f := range filters {
		v.SetFilter(f)
		got := v.Filtered()
		if len(got) != len(wantIDs[i]) {
			t.Fatalf("filter %d: got %d entries, want %d", i, len(got), len(wantIDs[i]))
		}
		for j, id := range wantIDs[i] {
			if got[j].Event.ID != id {
				t.Errorf("filter %d: entry %d id = %d, want %d", i, j, got[j].Event.ID, id)
			}
		}
	}
}

func TestFilters_IdempotentAndOrderIndependent(t *testing.T) {
	v := viewerWith(t, []AuditEvent{
		{ID: 1, SKU: "WIDGET-1", Quantity: 3, Source: "mobile_count", Timestamp: ts(1, 9)},
		{ID: 2, SKU: "GADGET-7", Quantity: 2, Source: "mobile_count", Timestamp: ts(1, 11)},
	})

	f := TrailFilter{Action: "count", SKU: "widget"}

	v.SetFilter(f)
	first := v.Filtered()
	v.SetFilter(f)
	second := v.Filtered()
	if len(first) != len(second) {
		t.Fatalf("re-applying the same filter changed the result: %d vs %d", len(first), len(second))
	}

	// Same criteria set in a different construction order must match.
	v.SetFilter(TrailFilter{SKU: "widget", Action: "count"})
	third := v.Filtered()
	if len(third) != len(first) {
		t.Fatalf("filter field order changed the result: %d vs %d", len(third), len(first))
	}
}

func TestDateFilter_InclusiveCalendarDays(t *testing.T) {
	v := viewerWith(t, []AuditEvent{
		{ID: 1, SKU: "A", Timestamp: time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)},
		{ID: 2, SKU: "B", Timestamp: time.Date(2026, 3, 2, 0, 1, 0, 0, time.UTC)},
		{ID: 3, SKU: "C", Timestamp: time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)},
	})

	// Bounds given as mid-day instants still cover their whole days.
	v.SetFilter(TrailFilter{Start: ts(1, 15), End: ts(2, 15)})
	got := v.Filtered()
	if len(got) != 2 {
		t.Fatalf("expected events on days 1 and 2, got %d entries", len(got))
	}
}

func TestPagination(t *testing.T) {
	events := make([]AuditEvent, 45)
	for i := range events {
		events[i] = AuditEvent{
			ID:        int64(i + 1),
			SKU:       "SKU-" + strconv.Itoa(i),
			Timestamp: ts(1, 0).Add(time.Duration(i) * time.Minute),
		}
	}
	v := viewerWith(t, events)

	if got := v.PageCount(); got != 3 {
		t.Errorf("PageCount() = %d, want 3", got)
	}
	if got := len(v.Page()); got != 20 {
		t.Errorf("page 1 size = %d, want 20", got)
	}

	v.SetPage(3)
	if got := len(v.Page()); got != 5 {
		t.Errorf("last page size = %d, want 5", got)
	}

	v.SetPage(99)
	if v.CurrentPage() != 3 {
		t.Errorf("SetPage beyond end: page = %d, want 3", v.CurrentPage())
	}
	v.SetPage(0)
	if v.CurrentPage() != 1 {
		t.Errorf("SetPage below start: page = %d, want 1", v.CurrentPage())
	}
}

func TestPagination_EmptySet(t *testing.T) {
	v := viewerWith(t, nil)

	if got := v.PageCount(); got != 1 {
		t.Errorf("PageCount() = %d, want 1", got)
	}
	if got := v.Page(); len(got) != 0 {
		t.Errorf("expected empty page, got %d entries", len(got))
	}
}

func TestSetFilter_ResetsPage(t *testing.T) {
	events := make([]AuditEvent, 30)
	for i := range events {
		events[i] = AuditEvent{ID: int64(i + 1), SKU: "X", Timestamp: ts(1, 0)}
	}
	v := viewerWith(t, events)

	v.SetPage(2)
	v.SetFilter(TrailFilter{SKU: "x"})
	if v.CurrentPage() != 1 {
		t.Errorf("page after SetFilter = %d, want 1", v.CurrentPage())
	}
}
