// Package catalog computes and applies category-set changes when a book is
// edited. The caller supplies the desired full set of category names; the
// synchronizer derives the attach/detach delta against what is stored.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

// Store is the slice of the categories repository the synchronizer needs.
type Store interface {
	ForBook(ctx context.Context, bookID uint) ([]entities.Category, error)
	GetOrCreateByName(ctx context.Context, name string) (*entities.Category, error)
	AttachToBook(ctx context.Context, bookID, categoryID uint) error
	DetachFromBook(ctx context.Context, bookID, categoryID uint) error
}

// Synchronizer reconciles a book's attached categories with a desired set.
type Synchronizer struct {
	store Store
}

// NewSynchronizer creates a category synchronizer over the given store.
func NewSynchronizer(store Store) *Synchronizer {
	return &Synchronizer{store: store}
}

// Sync reconciles the book's categories with the desired names.
//
// toAdd = desired - existing, toRemove = existing - desired; names compare
// case-sensitively. Names to add are looked up by exact name and created
// when absent, then attached. All per-name operations run concurrently and
// Sync returns only once every one of them has finished. A partial failure
// comes back as a single aggregate error; changes that already applied stay
// applied. There is no surrounding transaction, so a failed edit can leave
// the book with a mix of old and new categories.
func (s *Synchronizer) Sync(ctx context.Context, bookID uint, desired []string) error {
	existing, err := s.store.ForBook(ctx, bookID)
	if err != nil {
		return fmt.Errorf("failed to load categories for book %d: %w", bookID, err)
	}

	existingByName := make(map[string]entities.Category, len(existing))
	for _, c := range existing {
		existingByName[c.Name] = c
	}
	desiredSet := make(map[string]struct{}, len(desired))
	for _, name := range desired {
		desiredSet[name] = struct{}{}
	}

	var toAdd []string
	for name := range desiredSet {
		if _, ok := existingByName[name]; !ok {
			toAdd = append(toAdd, name)
		}
	}
	var toRemove []entities.Category
	for name, c := range existingByName {
		if _, ok := desiredSet[name]; !ok {
			toRemove = append(toRemove, c)
		}
	}

	// Fan out the per-name operations. They are independent: one failed
	// attach or detach must not stop the siblings from applying, so the
	// group does not cancel on first error. Only the request context can
	// abort outstanding work.
	var g errgroup.Group
	addErrs := make([]error, len(toAdd))
	removeErrs := make([]error, len(toRemove))

	for i, name := range toAdd {
		i, name := i, name
		g.Go(func() error {
			addErrs[i] = s.add(ctx, bookID, name)
			return addErrs[i]
		})
	}
	for i, category := range toRemove {
		i, category := i, category
		g.Go(func() error {
			removeErrs[i] = s.remove(ctx, bookID, category)
			return removeErrs[i]
		})
	}

	_ = g.Wait()

	if err := errors.Join(errors.Join(addErrs...), errors.Join(removeErrs...)); err != nil {
		return fmt.Errorf("category sync for book %d incomplete: %w", bookID, err)
	}
	return nil
}

func (s *Synchronizer) add(ctx context.Context, bookID uint, name string) error {
	category, err := s.store.GetOrCreateByName(ctx, name)
	if err != nil {
		return fmt.Errorf("category %q: %w", name, err)
	}
	if err := s.store.AttachToBook(ctx, bookID, category.ID); err != nil {
		return fmt.Errorf("attach %q: %w", name, err)
	}
	return nil
}

func (s *Synchronizer) remove(ctx context.Context, bookID uint, category entities.Category) error {
	if err := s.store.DetachFromBook(ctx, bookID, category.ID); err != nil {
		return fmt.Errorf("detach %q: %w", category.Name, err)
	}
	return nil
}
