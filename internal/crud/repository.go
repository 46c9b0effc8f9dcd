package crud

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/frahmantamala/company-api/internal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Model is any persisted row addressed by an integer primary key.
type Model interface {
	PrimaryKey() int64
}

// Relations carries related ids keyed by wire field name (e.g. "project_ids").
// A present key replaces the relation, an absent key leaves it alone.
type Relations map[string][]int64

// Relation describes how a wire field maps onto a model relation.
type Relation struct {
	Field       string
	Association string

	resolve func(tx *gorm.DB, ids []int64) (interface{}, error)
}

func (rel Relation) many() bool {
	return rel.Association != ""
}

// ManyToMany binds a list of ids to a gorm many2many association. Saving replaces
// the association set with exactly the given ids.
func ManyToMany[T Model](field, association string) Relation {
	return Relation{Field: field, Association: association, resolve: resolveIDs[T](field)}
}

// BelongsTo only checks that the referenced rows exist; the foreign key column itself
// is written by the model.
func BelongsTo[T Model](field string) Relation {
	return Relation{Field: field, resolve: resolveIDs[T](field)}
}

func resolveIDs[T Model](field string) func(tx *gorm.DB, ids []int64) (interface{}, error) {
	return func(tx *gorm.DB, ids []int64) (interface{}, error) {
		wanted := uniqueIDs(ids)
		targets := make([]T, 0, len(wanted))
		if len(wanted) == 0 {
			return targets, nil
		}

		if err := tx.Where("id IN ?", wanted).Find(&targets).Error; err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", field, err)
		}

		if len(targets) != len(wanted) {
			found := make(map[int64]bool, len(targets))
			for _, t := range targets {
				found[t.PrimaryKey()] = true
			}
			var missing []string
			for _, id := range wanted {
				if !found[id] {
					missing = append(missing, fmt.Sprint(id))
				}
			}
			return nil, internal.NewValidationFieldError(field,
				fmt.Sprintf("%s references unknown ids: %s", field, strings.Join(missing, ", ")),
				internal.ErrCodeUnknownReference)
		}
		return targets, nil
	}
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Repository is a gorm repository for one model. Many-to-many relations are preloaded on
// every read and written through association replacement.
type Repository[M Model] struct {
	db        *gorm.DB
	relations []Relation
	notFound  *internal.AppError
}

func NewRepository[M Model](db *gorm.DB, relations ...Relation) *Repository[M] {
	return &Repository[M]{
		db:        db,
		relations: relations,
		notFound:  internal.ErrRecordNotFound,
	}
}

// WithNotFound sets the error returned for a missing row.
func (r *Repository[M]) WithNotFound(err *internal.AppError) *Repository[M] {
	r.notFound = err
	return r
}

func (r *Repository[M]) preload(q *gorm.DB) *gorm.DB {
	for _, rel := range r.relations {
		if rel.many() {
			q = q.Preload(rel.Association)
		}
	}
	return q
}

// List returns one page ordered by primary key, plus the total row count.
func (r *Repository[M]) List(ctx context.Context, limit, offset int) ([]M, int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(new(M)).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count rows: %w", err)
	}

	items := make([]M, 0)
	err := r.preload(r.db.WithContext(ctx)).
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rows: %w", err)
	}

	return items, count, nil
}

func (r *Repository[M]) Get(ctx context.Context, id int64) (*M, error) {
	return r.get(r.db.WithContext(ctx), id)
}

func (r *Repository[M]) get(tx *gorm.DB, id int64) (*M, error) {
	m := new(M)
	if err := r.preload(tx).First(m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, r.notFound
		}
		return nil, fmt.Errorf("failed to get row %d: %w", id, err)
	}
	return m, nil
}

// Create inserts m, then sets its relations from refs, and returns the stored row.
func (r *Repository[M]) Create(ctx context.Context, m *M, refs Relations) (*M, error) {
	var created *M
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		resolved, err := r.resolve(tx, refs)
		if err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(m).Error; err != nil {
			return fmt.Errorf("failed to create row: %w", err)
		}

		if err := r.replace(tx, m, refs, resolved); err != nil {
			return err
		}

		created, err = r.get(tx, (*m).PrimaryKey())
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update loads the row, lets apply modify it and name the relations to replace, then saves.
func (r *Repository[M]) Update(ctx context.Context, id int64, apply func(*M) Relations) (*M, error) {
	var updated *M
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := r.get(tx, id)
		if err != nil {
			return err
		}

		refs := apply(m)
		resolved, err := r.resolve(tx, refs)
		if err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Save(m).Error; err != nil {
			return fmt.Errorf("failed to update row %d: %w", id, err)
		}

		if err := r.replace(tx, m, refs, resolved); err != nil {
			return err
		}

		updated, err = r.get(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the row together with its many-to-many association rows.
func (r *Repository[M]) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := r.get(tx, id)
		if err != nil {
			return err
		}

		q := tx
		if names := r.associations(); len(names) > 0 {
			q = tx.Select(names)
		}
		if err := q.Delete(m).Error; err != nil {
			return fmt.Errorf("failed to delete row %d: %w", id, err)
		}
		return nil
	})
}

func (r *Repository[M]) associations() []string {
	var names []string
	for _, rel := range r.relations {
		if rel.many() {
			names = append(names, rel.Association)
		}
	}
	return names
}

func (r *Repository[M]) resolve(tx *gorm.DB, refs Relations) (map[string]interface{}, error) {
	resolved := make(map[string]interface{}, len(refs))
	for _, rel := range r.relations {
		ids, ok := refs[rel.Field]
		if !ok {
			continue
		}
		targets, err := rel.resolve(tx, ids)
		if err != nil {
			return nil, err
		}
		resolved[rel.Field] = targets
	}
	return resolved, nil
}

func (r *Repository[M]) replace(tx *gorm.DB, m *M, refs Relations, resolved map[string]interface{}) error {
	for _, rel := range r.relations {
		targets, ok := resolved[rel.Field]
		if !ok || !rel.many() {
			continue
		}

		assoc := tx.Model(m).Association(rel.Association)
		if assoc.Error != nil {
			return fmt.Errorf("failed to open association %s: %w", rel.Association, assoc.Error)
		}

		var err error
		if len(refs[rel.Field]) == 0 {
			err = assoc.Clear()
		} else {
			err = assoc.Replace(targets)
		}
		if err != nil {
			return fmt.Errorf("failed to replace %s: %w", rel.Field, err)
		}
	}
	return nil
}
