package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"smart-classroom/backend/internal/repository"
)

func TestSeed_EmptyDatabase(t *testing.T) {
	cat := &mockCatalogRepo{}
	cache := newMockCatalogCache()
	repo := &repository.Repository{Catalog: cat}
	svc := NewSeedService(repo, cache, zap.NewNop())

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run 失败: %v", err)
	}
	if !result.Seeded {
		t.Error("expected Seeded=true")
	}
	if cat.seeded == nil || len(cat.seeded.TimeSlots) != 30 {
		t.Errorf("expected default seed data written, got %+v", cat.seeded)
	}
	if len(cache.invalidated) != len(AllCatalogKinds) {
		t.Errorf("expected all catalog kinds invalidated, got %v", cache.invalidated)
	}
}

func TestSeed_SkipsWhenPopulated(t *testing.T) {
	f := newFixture()
	svc := NewSeedService(f.repo, nil, zap.NewNop())

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run 失败: %v", err)
	}
	if result.Seeded {
		t.Error("expected Seeded=false")
	}
	if f.catalog.seeded != nil {
		t.Error("Seed should not be called on a populated database")
	}
}

func TestDefaultSeedData_Shape(t *testing.T) {
	data := DefaultSeedData()

	if len(data.Requirements) != len(data.Classes)*len(data.Subjects) {
		t.Errorf("expected one requirement per class and subject, got %d", len(data.Requirements))
	}
	seen := make(map[[2]int]bool)
	for _, ts := range data.TimeSlots {
		key := [2]int{ts.Day, ts.Slot}
		if seen[key] {
			t.Errorf("duplicate timeslot %v", key)
		}
		seen[key] = true
		if ts.Label != DefaultSlotLabels[ts.Slot] {
			t.Errorf("unexpected label %q at %v", ts.Label, key)
		}
	}
}
