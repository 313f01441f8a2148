package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/mindfulthreads/storefront/internal/core/domain"
)

func counterResponse(name string, seq int64) bson.D {
	return bson.D{
		{Key: "ok", Value: 1},
		{Key: "value", Value: bson.D{{Key: "_id", Value: name}, {Key: "seq", Value: seq}}},
	}
}

func TestAccountRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create assigns sequence id", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB)
		mt.AddMockResponses(counterResponse(collectionAccounts, 7), mtest.CreateSuccessResponse())

		created, err := repo.Create(ctx, &domain.Account{Username: "alice", PasswordHash: "h", Role: domain.RoleDesigner})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.ID != 7 || created.Username != "alice" {
			t.Fatalf("unexpected account: %+v", created)
		}
	})

	mt.Run("duplicate username", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB)
		mt.AddMockResponses(
			counterResponse(collectionAccounts, 8),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"}),
		)

		_, err := repo.Create(ctx, &domain.Account{Username: "alice", Role: domain.RoleCustomer})
		if !errors.Is(err, domain.ErrDuplicateUsername) {
			t.Fatalf("expected ErrDuplicateUsername, got %v", err)
		}
	})

	mt.Run("find by username", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.accounts", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: int64(3)},
			{Key: "username", Value: "carol"},
			{Key: "password_hash", Value: "hash"},
			{Key: "role", Value: "admin"},
			{Key: "created_at", Value: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		}))

		a, err := repo.FindByUsername(ctx, "carol")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if a.ID != 3 || a.Role != domain.RoleAdmin || a.PasswordHash != "hash" {
			t.Fatalf("unexpected account: %+v", a)
		}
	})

	mt.Run("find missing", func(mt *mtest.T) {
		repo := NewAccountRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.accounts", mtest.FirstBatch))

		if _, err := repo.FindByID(ctx, 99); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestProductRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create keeps creator", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(counterResponse(collectionProducts, 1), mtest.CreateSuccessResponse())

		owner := int64(2)
		p, err := repo.Create(ctx, &domain.Product{Name: "Mug", Description: "d", Price: 9.99, Stock: 10, CreatedBy: &owner})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if p.ID != 1 || !p.OwnedBy(2) {
			t.Fatalf("unexpected product: %+v", p)
		}
	})

	mt.Run("list decodes unattributed", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "storefront.products", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: int64(1)},
				{Key: "name", Value: "Mug"},
				{Key: "description", Value: "d"},
				{Key: "price", Value: 9.99},
				{Key: "stock", Value: 10},
				{Key: "created_by", Value: nil},
			},
			bson.D{
				{Key: "_id", Value: int64(2)},
				{Key: "name", Value: "Tee"},
				{Key: "description", Value: "d"},
				{Key: "price", Value: 20.0},
				{Key: "stock", Value: 0},
				{Key: "created_by", Value: int64(5)},
			},
		))

		list, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("expected 2 products, got %d", len(list))
		}
		if list[0].CreatedBy != nil {
			t.Errorf("expected unattributed product, got creator %d", *list[0].CreatedBy)
		}
		if !list[1].OwnedBy(5) {
			t.Errorf("expected creator 5, got %v", list[1].CreatedBy)
		}
	})

	mt.Run("update missing", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		_, err := repo.Update(ctx, 42, domain.ProductFields{Name: "x", Description: "y"})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}})

		if err := repo.Delete(ctx, 42); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("delete existing", func(mt *mtest.T) {
		repo := NewProductRepository(mt.DB)
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}})

		if err := repo.Delete(ctx, 1); err != nil {
			t.Fatalf("delete: %v", err)
		}
	})
}
