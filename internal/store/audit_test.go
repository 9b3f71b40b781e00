package store

import (
	"testing"

	"github.com/countledger/countledger/internal/models"
)

func TestBuildTrailFilter_Empty(t *testing.T) {
	t.Parallel()

	where, args, nextArg := buildTrailFilter(models.TrailQueryOpts{})
	if where != "" {
		t.Errorf("expected empty where, got %q", where)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got %v", args)
	}
	if nextArg != 1 {
		t.Errorf("expected nextArg 1, got %d", nextArg)
	}
}

func TestBuildTrailFilter_AllFields(t *testing.T) {
	t.Parallel()

	where, args, nextArg := buildTrailFilter(models.TrailQueryOpts{
		SKU:      "WIDGET-1",
		Location: "MAIN",
		Source:   "mobile_app",
	})

	want := "WHERE sku = $1 AND location = $2 AND source = $3"
	if where != want {
		t.Errorf("expected %q, got %q", want, where)
	}
	if len(args) != 3 {
		t.Errorf("expected 3 args, got %v", args)
	}
	if nextArg != 4 {
		t.Errorf("expected nextArg 4, got %d", nextArg)
	}
}

func TestBuildTrailFilter_Partial(t *testing.T) {
	t.Parallel()

	where, args, nextArg := buildTrailFilter(models.TrailQueryOpts{Location: "MAIN"})

	if where != "WHERE location = $1" {
		t.Errorf("unexpected where: %q", where)
	}
	if len(args) != 1 || args[0] != "MAIN" {
		t.Errorf("unexpected args: %v", args)
	}
	if nextArg != 2 {
		t.Errorf("expected nextArg 2, got %d", nextArg)
	}
}

func TestHashToken_Deterministic(t *testing.T) {
	t.Parallel()

	a := hashToken("token-a")
	b := hashToken("token-a")
	c := hashToken("token-b")

	if a != b {
		t.Error("same token should hash identically")
	}
	if a == c {
		t.Error("different tokens should hash differently")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}
