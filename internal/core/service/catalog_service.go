package service

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/mindfulthreads/storefront/internal/core/domain"
	"github.com/mindfulthreads/storefront/internal/core/policy"
	"github.com/mindfulthreads/storefront/internal/core/ports"
	"github.com/mindfulthreads/storefront/internal/pkg/metrics"
)

const (
	catalogFlightKey = "catalog:list"

	// catalogLoadTimeout bounds a shared repository read once it is detached
	// from the request that started it.
	catalogLoadTimeout = 10 * time.Second
)

// CatalogService gates catalog operations through the access policy and keeps
// the optional list cache coherent with the repository.
type CatalogService struct {
	repo   ports.ProductRepository
	cache  ports.CatalogCache
	group  singleflight.Group
	logger zerolog.Logger

	// generation is bumped by every mutation. A list read under an older
	// generation is never written to the cache.
	generation atomic.Uint64
}

// NewCatalogService builds the service. cache may be nil.
func NewCatalogService(repo ports.ProductRepository, cache ports.CatalogCache, logger zerolog.Logger) *CatalogService {
	return &CatalogService{repo: repo, cache: cache, logger: logger}
}

// List returns every product. Order is unspecified.
func (s *CatalogService) List(ctx context.Context) ([]*domain.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.GetList(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("catalog cache read failed")
		}
		if cached != nil {
			metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
			return cached, nil
		}
		metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
	}

	ch := s.group.DoChan(catalogFlightKey, func() (any, error) {
		return s.load(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]*domain.Product), nil
	}
}

// load reads the catalog from the repository and fills the cache, unless a
// mutation landed while the read was in flight.
func (s *CatalogService) load(ctx context.Context) ([]*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, catalogLoadTimeout)
	defer cancel()

	gen := s.generation.Load()
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*domain.Product{}
	}
	if s.cache == nil || s.generation.Load() != gen {
		return list, nil
	}

	if err := s.cache.SetList(ctx, list); err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache write failed")
	}
	// A mutation between the check above and SetList would leave a stale entry.
	if s.generation.Load() != gen {
		s.invalidate(ctx)
	}
	return list, nil
}

func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a new product. Designers are recorded as the creator;
// administrators create unattributed products.
func (s *CatalogService) Create(ctx context.Context, caller *domain.Caller, in ports.ProductInput) (*domain.Product, error) {
	if err := s.authorize(caller, policy.OpCreateProduct, nil); err != nil {
		return nil, err
	}

	fields := in.Fields()
	fields.Normalize()
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		CreatedBy: policy.Attribution(caller),
		CreatedAt: now,
		UpdatedAt: now,
	}
	product.Apply(fields)

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, err
	}

	s.mutated(ctx, "create", caller)
	s.logger.Info().Int64("product_id", created.ID).Int64("account_id", caller.AccountID).Msg("product created")
	return created, nil
}

// Update replaces the mutable fields of product id. The target is loaded first
// so the ownership rule can be evaluated against its creator.
func (s *CatalogService) Update(ctx context.Context, caller *domain.Caller, id int64, in ports.ProductInput) (*domain.Product, error) {
	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(caller, policy.OpUpdateProduct, target); err != nil {
		return nil, err
	}

	fields := in.Fields()
	fields.Normalize()
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.mutated(ctx, "update", caller)
	s.logger.Info().Int64("product_id", id).Int64("account_id", caller.AccountID).Msg("product updated")
	return updated, nil
}

func (s *CatalogService) Delete(ctx context.Context, caller *domain.Caller, id int64) error {
	if err := s.authorize(caller, policy.OpDeleteProduct, nil); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.mutated(ctx, "delete", caller)
	s.logger.Info().Int64("product_id", id).Int64("account_id", caller.AccountID).Msg("product deleted")
	return nil
}

func (s *CatalogService) AdminList(ctx context.Context, caller *domain.Caller) ([]*domain.Product, error) {
	if err := s.authorize(caller, policy.OpViewAdminCatalog, nil); err != nil {
		return nil, err
	}
	return s.List(ctx)
}

func (s *CatalogService) ListByCreator(ctx context.Context, caller *domain.Caller) ([]*domain.Product, error) {
	if err := s.authorize(caller, policy.OpViewOwnProducts, nil); err != nil {
		return nil, err
	}
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	own := make([]*domain.Product, 0, len(all))
	for _, p := range all {
		if p.OwnedBy(caller.AccountID) {
			own = append(own, p)
		}
	}
	return own, nil
}

func (s *CatalogService) authorize(caller *domain.Caller, op policy.Operation, target *domain.Product) error {
	err := policy.Authorize(caller, op, target)
	if err != nil {
		metrics.AccessDeniedTotal.WithLabelValues(string(op)).Inc()
		ev := s.logger.Warn().Str("operation", string(op))
		if caller != nil {
			ev = ev.Int64("account_id", caller.AccountID).Str("role", string(caller.Role))
		}
		ev.Msg("access denied")
	}
	return err
}

func (s *CatalogService) mutated(ctx context.Context, op string, caller *domain.Caller) {
	metrics.ProductMutationsTotal.WithLabelValues(op, string(caller.Role)).Inc()
	s.generation.Add(1)
	s.group.Forget(catalogFlightKey)
	if s.cache != nil {
		s.invalidate(ctx)
	}
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}
