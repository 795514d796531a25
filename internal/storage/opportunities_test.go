package storage

import (
	"context"
	"testing"

	"github.com/volunteer-hub/internal/logging"
	"github.com/volunteer-hub/internal/models"
)

func newSnapshotDirectory(t *testing.T) *OpportunityDirectory {
	t.Helper()
	dir, err := NewOpportunityDirectory(nil, nil, logging.NewLogger(logging.LevelError, logging.FormatJSON))
	if err != nil {
		t.Fatalf("Failed to build directory: %v", err)
	}
	return dir
}

func TestDirectoryListFromSnapshot(t *testing.T) {
	ctx := context.Background()
	dir := newSnapshotDirectory(t)

	opps, err := dir.List(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(opps) == 0 {
		t.Fatal("Expected bundled snapshot to contain opportunities")
	}
	for _, o := range opps {
		if !o.IsActive {
			t.Errorf("Expected only active opportunities, got inactive %q", o.ID)
		}
	}
}

func TestDirectoryListFilters(t *testing.T) {
	ctx := context.Background()
	dir := newSnapshotDirectory(t)

	byCause, err := dir.List(ctx, &models.OpportunityFilter{CauseArea: "education"})
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(byCause) == 0 {
		t.Fatal("Expected education opportunities in the snapshot")
	}
	for _, o := range byCause {
		found := false
		for _, c := range o.CauseAreas {
			if c == "education" {
				found = true
			}
		}
		if !found {
			t.Errorf("Opportunity %q does not match cause filter", o.ID)
		}
	}

	virtual := true
	remote, err := dir.List(ctx, &models.OpportunityFilter{IsVirtual: &virtual})
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	for _, o := range remote {
		if !o.IsVirtual {
			t.Errorf("Opportunity %q is not virtual", o.ID)
		}
	}

	limited, err := dir.List(ctx, &models.OpportunityFilter{Limit: 3})
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(limited) != 3 {
		t.Errorf("Expected 3 opportunities, got %d", len(limited))
	}

	all, err := dir.List(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	for i := range limited {
		if limited[i].ID != all[i].ID {
			t.Errorf("Limit must preserve order: position %d got %q, want %q", i, limited[i].ID, all[i].ID)
		}
	}
}

func TestDirectoryGetFromSnapshot(t *testing.T) {
	ctx := context.Background()
	dir := newSnapshotDirectory(t)

	all, err := dir.List(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}

	got, err := dir.Get(ctx, all[0].ID)
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if got == nil || got.ID != all[0].ID {
		t.Errorf("Expected opportunity %q, got %+v", all[0].ID, got)
	}

	missing, err := dir.Get(ctx, "no-such-opportunity")
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for unknown id, got %+v", missing)
	}
}
