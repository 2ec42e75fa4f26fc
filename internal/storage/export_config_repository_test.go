package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/Blazer-YJJ/showcase-backend/internal/model"
)

func TestExportConfigRepository_NoActiveConfig(t *testing.T) {
	db := setupTestDB(t)
	repo := NewExportConfigRepository(db)

	_, err := repo.GetActive(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExportConfigRepository_SaveReplacesActive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewExportConfigRepository(db)
	ctx := context.Background()

	first := &model.ExportConfig{CompanyName: "Acme", CompanyTitleName: "Acme Industries", ColumnsPerRow: 3}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("saving first config: %v", err)
	}

	bg := "backgrounds/paper.jpg"
	second := &model.ExportConfig{CompanyName: "Acme2", CompanyTitleName: "Acme Industries 2", BackgroundImage: &bg, ColumnsPerRow: 2}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("saving second config: %v", err)
	}

	active, err := repo.GetActive(ctx)
	if err != nil {
		t.Fatalf("GetActive failed: %v", err)
	}
	if active.CompanyName != "Acme2" {
		t.Errorf("expected second config to be active, got %q", active.CompanyName)
	}
	if active.BackgroundImage == nil || *active.BackgroundImage != bg {
		t.Errorf("background image not round-tripped: %v", active.BackgroundImage)
	}

	configs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("expected 2 configs, got %d", len(configs))
	}
	activeCount := 0
	for _, cfg := range configs {
		if cfg.Active {
			activeCount++
		}
	}
	if activeCount != 1 {
		t.Errorf("expected exactly one active config, got %d", activeCount)
	}
}

func TestExportConfigRepository_SaveNormalizesColumns(t *testing.T) {
	db := setupTestDB(t)
	repo := NewExportConfigRepository(db)

	cfg := &model.ExportConfig{CompanyName: "Acme", ColumnsPerRow: 7}
	if err := repo.Save(context.Background(), cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	active, err := repo.GetActive(context.Background())
	if err != nil {
		t.Fatalf("GetActive failed: %v", err)
	}
	if active.ColumnsPerRow != model.DefaultColumns {
		t.Errorf("expected columns clamped to %d, got %d", model.DefaultColumns, active.ColumnsPerRow)
	}
}

func TestCompanyProfileRepository_Roundtrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCompanyProfileRepository(db)
	ctx := context.Background()

	if _, err := repo.Get(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before save, got %v", err)
	}

	if err := repo.Save(ctx, &model.CompanyProfile{Name: "Acme", Intro: "We make things."}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := repo.Save(ctx, &model.CompanyProfile{Name: "Acme GmbH", Intro: "We still make things."}); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	profile, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if profile.Name != "Acme GmbH" {
		t.Errorf("expected upsert to replace the name, got %q", profile.Name)
	}
}
