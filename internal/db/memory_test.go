package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"foodapp/internal/models"
)

func TestMemoryStoreUsers(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	a := &models.Account{User: models.User{ID: "u1", Email: "A@b.com", Name: "A", Role: models.RoleSeller}}

	if err := m.CreateUser(ctx, a); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	dup := &models.Account{User: models.User{ID: "u2", Email: "a@B.com"}}
	if err := m.CreateUser(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate CreateUser() error = %v", err)
	}

	got, err := m.GetUserByEmail(ctx, "a@b.com")
	if err != nil || got.ID != "u1" {
		t.Errorf("GetUserByEmail() = %+v, %v", got, err)
	}
	if _, err := m.GetUserByID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUserByID() error = %v", err)
	}
}

func TestMemoryStoreFoodItemsNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	now := time.Now()
	_ = m.CreateFoodItem(ctx, &models.FoodItem{ID: "old", SellerID: "s", CreatedAt: now.Add(-time.Hour)})
	_ = m.CreateFoodItem(ctx, &models.FoodItem{ID: "new", SellerID: "s", CreatedAt: now})
	_ = m.CreateFoodItem(ctx, &models.FoodItem{ID: "other", SellerID: "t", CreatedAt: now})

	items, err := m.ListFoodItems(ctx, "s")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].ID != "new" || items[1].ID != "old" {
		t.Errorf("items = %+v", items)
	}
}

func TestMemoryStoreUpdateUserReindexesEmail(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	for _, a := range []*models.Account{
		{User: models.User{ID: "u1", Email: "a@b.com"}},
		{User: models.User{ID: "u2", Email: "c@d.com"}},
	} {
		if err := m.CreateUser(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	upd := &models.Account{User: models.User{ID: "u1", Email: "new@b.com", Name: "N"}}
	if err := m.UpdateUser(ctx, upd); err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}
	if _, err := m.GetUserByEmail(ctx, "a@b.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("old email still indexed: %v", err)
	}
	if got, err := m.GetUserByEmail(ctx, "NEW@b.com"); err != nil || got.Name != "N" {
		t.Errorf("GetUserByEmail(new) = %+v, %v", got, err)
	}

	clash := &models.Account{User: models.User{ID: "u1", Email: "C@d.com"}}
	if err := m.UpdateUser(ctx, clash); !errors.Is(err, ErrDuplicate) {
		t.Errorf("clashing UpdateUser() error = %v", err)
	}
	if err := m.UpdateUser(ctx, &models.Account{User: models.User{ID: "ghost"}}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing UpdateUser() error = %v", err)
	}
}
