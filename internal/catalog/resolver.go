package catalog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/angelmondragon/ordering-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/ordering-backend/pkg/errors"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const component = "catalog"

// Resolver loads the authoritative catalog data referenced by a request.
type Resolver interface {
	Resolve(ctx context.Context, branchID uuid.UUID, itemIDs []uuid.UUID) (*Catalog, error)
}

type resolver struct {
	repo    Repository
	timeout time.Duration
}

// NewResolver builds a catalog resolver whose reads are bounded by timeout.
func NewResolver(repo Repository, timeout time.Duration) (Resolver, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("catalog timeout must be positive")
	}
	return &resolver{repo: repo, timeout: timeout}, nil
}

// Resolve reads items scoped to the branch and every promotion line for them. Any
// requested item without a catalog row fails the whole resolution with NOT_FOUND.
func (r *resolver) Resolve(ctx context.Context, branchID uuid.UUID, itemIDs []uuid.UUID) (*Catalog, error) {
	ids := uniqueIDs(itemIDs)
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var (
		items []models.CatalogItem
		lines []models.PromotionItem
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		found, err := r.repo.FindItems(groupCtx, branchID, ids)
		items = found
		return err
	})
	group.Go(func() error {
		found, err := r.repo.FindPromotionItems(groupCtx, ids)
		lines = found
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, pkgerrors.Upstream(component, err)
	}

	cat := NewCatalog(items, lines)
	if missing := missingIDs(ids, cat.Items); len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "catalog item not found").
			WithDetails(map[string]any{"item_ids": missing})
	}
	return cat, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingIDs(ids []uuid.UUID, items map[uuid.UUID]Item) []string {
	var missing []string
	for _, id := range ids {
		if _, ok := items[id]; !ok {
			missing = append(missing, id.String())
		}
	}
	sort.Strings(missing)
	return missing
}
