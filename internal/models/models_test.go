package models

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openModelsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:models_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func TestSeedSampleCatalogIsIdempotent(t *testing.T) {
	db := openModelsTestDB(t)

	first, err := SeedSampleCatalog(db)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if first.CategoriesCreated != 3 || first.ProductsCreated != 5 {
		t.Fatalf("unexpected first seed result: %+v", first)
	}

	second, err := SeedSampleCatalog(db)
	if err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if second.CategoriesCreated != 0 || second.ProductsCreated != 0 {
		t.Fatalf("expected no new rows on reseed, got %+v", second)
	}

	var laptop Product
	if err := db.Preload("Category").Where("name = ?", "Laptop").First(&laptop).Error; err != nil {
		t.Fatalf("load laptop failed: %v", err)
	}
	if laptop.Price.String() != "1299.99" || laptop.StockQuantity != 25 {
		t.Fatalf("unexpected laptop: price=%s stock=%d", laptop.Price.String(), laptop.StockQuantity)
	}
	if laptop.Category == nil || laptop.Category.Name != "Electronics" {
		t.Fatalf("expected laptop in Electronics, got %+v", laptop.Category)
	}
}

func TestInitDefaultAdminCreatesOnce(t *testing.T) {
	db := openModelsTestDB(t)

	admin, err := InitDefaultAdmin(db, " Admin@Example.com ", "Secret1!", "")
	if err != nil {
		t.Fatalf("init admin failed: %v", err)
	}
	if admin.Email != "admin@example.com" || admin.FullName != "Administrator" {
		t.Fatalf("unexpected admin: %+v", admin)
	}

	again, err := InitDefaultAdmin(db, "admin@example.com", "Other1!", "Someone")
	if err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	if again.ID != admin.ID {
		t.Fatalf("expected existing admin to be reused")
	}

	var count int64
	db.Model(&User{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected one user, got %d", count)
	}
}

func TestMoneyMarshalJSON(t *testing.T) {
	m := NewMoneyFromDecimal(decimal.RequireFromString("4.5"))
	raw, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(raw) != `"4.50"` {
		t.Fatalf("unexpected money json: %s", raw)
	}

	var parsed Money
	if err := json.Unmarshal([]byte(`12.345`), &parsed); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if parsed.String() != "12.35" {
		t.Fatalf("unexpected rounding: %s", parsed.String())
	}
}

func TestRefreshTokenIsActive(t *testing.T) {
	now := time.Now()
	active := &RefreshToken{ExpiresAt: now.Add(time.Hour)}
	if !active.IsActive(now) {
		t.Fatalf("expected token to be active")
	}
	expired := &RefreshToken{ExpiresAt: now.Add(-time.Second)}
	if expired.IsActive(now) {
		t.Fatalf("expected expired token to be inactive")
	}
	revoked := &RefreshToken{ExpiresAt: now.Add(time.Hour), IsRevoked: true}
	if revoked.IsActive(now) {
		t.Fatalf("expected revoked token to be inactive")
	}
	var missing *RefreshToken
	if missing.IsActive(now) {
		t.Fatalf("nil token must be inactive")
	}
}
