package storage

import (
	"context"

	"github.com/volunteer-hub/internal/circuitbreaker"
	"github.com/volunteer-hub/internal/logging"
	"github.com/volunteer-hub/internal/models"
)

// OpportunityDirectory serves the public opportunity listing. Reads try
// the cache, then the hosted backend behind a circuit breaker, and fall
// back to the bundled snapshot when neither is available. In local mode
// the snapshot is the only source.
type OpportunityDirectory struct {
	repo     *OpportunityRepository // nil in local mode
	cache    *CacheService          // nil when Redis is not configured
	breaker  *circuitbreaker.CircuitBreaker
	logger   *logging.Logger
	snapshot []*models.Opportunity
}

// NewOpportunityDirectory builds the directory. repo and cache may be nil.
func NewOpportunityDirectory(repo *OpportunityRepository, cache *CacheService, logger *logging.Logger) (*OpportunityDirectory, error) {
	snapshot, err := LoadSnapshotOpportunities()
	if err != nil {
		return nil, err
	}
	return &OpportunityDirectory{
		repo:     repo,
		cache:    cache,
		breaker:  circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("opportunities")),
		logger:   logger,
		snapshot: snapshot,
	}, nil
}

// List returns active opportunities matching the filter. Backend failures
// degrade to the snapshot rather than surfacing an error.
func (d *OpportunityDirectory) List(ctx context.Context, filter *models.OpportunityFilter) ([]*models.Opportunity, error) {
	if d.repo == nil {
		return d.fromSnapshot(filter), nil
	}

	var cacheKey string
	if d.cache != nil {
		cacheKey = d.cache.GenerateListKey(filter)
		var cached []*models.Opportunity
		hit, err := d.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			d.logger.WithError(err).Warn("Opportunity cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	var opps []*models.Opportunity
	err := d.breaker.Execute(func() error {
		var listErr error
		opps, listErr = d.repo.List(ctx, filter)
		return listErr
	})
	if err != nil {
		d.logger.WithError(err).Warn("Backend opportunity read failed, serving snapshot")
		return d.fromSnapshot(filter), nil
	}

	if d.cache != nil {
		if err := d.cache.Set(ctx, cacheKey, opps); err != nil {
			d.logger.WithError(err).Warn("Opportunity cache write failed")
		}
	}
	return opps, nil
}

// Get returns one active opportunity by id, or nil when absent.
func (d *OpportunityDirectory) Get(ctx context.Context, id string) (*models.Opportunity, error) {
	if d.repo == nil {
		return d.snapshotByID(id), nil
	}

	var cacheKey string
	if d.cache != nil {
		cacheKey = d.cache.GenerateOpportunityKey(id)
		var cached models.Opportunity
		hit, err := d.cache.Get(ctx, cacheKey, &cached)
		if err != nil {
			d.logger.WithError(err).Warn("Opportunity cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	var opp *models.Opportunity
	err := d.breaker.Execute(func() error {
		var getErr error
		opp, getErr = d.repo.Get(ctx, id)
		return getErr
	})
	if err != nil {
		d.logger.WithError(err).Warn("Backend opportunity read failed, serving snapshot")
		return d.snapshotByID(id), nil
	}

	if opp != nil && d.cache != nil {
		if err := d.cache.Set(ctx, cacheKey, opp); err != nil {
			d.logger.WithError(err).Warn("Opportunity cache write failed")
		}
	}
	return opp, nil
}

// fromSnapshot filters the bundled listing, preserving its order.
func (d *OpportunityDirectory) fromSnapshot(filter *models.OpportunityFilter) []*models.Opportunity {
	limit := defaultOpportunityLimit
	if filter != nil && filter.Limit > 0 {
		limit = filter.Limit
	}

	var out []*models.Opportunity
	for _, o := range d.snapshot {
		if filter != nil && !filter.Matches(o) {
			continue
		}
		if filter == nil && !o.IsActive {
			continue
		}
		out = append(out, o)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func (d *OpportunityDirectory) snapshotByID(id string) *models.Opportunity {
	for _, o := range d.snapshot {
		if o.ID == id && o.IsActive {
			return o
		}
	}
	return nil
}
