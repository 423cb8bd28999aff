// Package history implements the structured professional-history
// repositories: experiences, education, certifications and languages.
//
// All four kinds share the same storage shape (autoincrement id, JSON value)
// and the same lifecycle: a save with id zero inserts, a save with an id
// updates in place preserving createdAt. Dates are "YYYY-MM" strings and are
// ordered lexically, which matches chronological order for that format.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"curriculos/internal/adapter/sqlite"
	"curriculos/internal/domain"
)

// Repo provides history persistence over the store engine.
type Repo struct {
	eng *sqlite.Engine
}

// New creates a new history repository.
func New(eng *sqlite.Engine) *Repo {
	return &Repo{eng: eng}
}

// ---------------------------------------------------------------------------
// Experiences
// ---------------------------------------------------------------------------

// SaveExperience inserts (id zero) or updates (id set) an experience.
// Updates restamp updatedAt and keep the original createdAt.
// Returns domain.ErrNotFound when updating an id that does not exist.
func (r *Repo) SaveExperience(ctx context.Context, e *domain.Experience) (*domain.Experience, error) {
	saved := *e
	now := time.Now().UTC()

	if saved.ID == 0 {
		saved.CreatedAt = now
		saved.UpdatedAt = now
		id, err := insert(ctx, r.eng, sqlite.PartExperiences, &saved)
		if err != nil {
			return nil, err
		}
		saved.ID = id
		return &saved, nil
	}

	existing, err := getByID[domain.Experience](ctx, r.eng, sqlite.PartExperiences, saved.ID)
	if err != nil {
		return nil, err
	}
	saved.CreatedAt = existing.CreatedAt
	saved.UpdatedAt = now
	if err := putAt(ctx, r.eng, sqlite.PartExperiences, saved.ID, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListExperiences returns all experiences, most recent start date first.
// Entries without a start date sort last.
func (r *Repo) ListExperiences(ctx context.Context) ([]*domain.Experience, error) {
	items, err := list[domain.Experience](ctx, r.eng, sqlite.PartExperiences)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartDate > items[j].StartDate
	})
	return items, nil
}

// DeleteExperience removes an experience by id. Absent is not an error.
func (r *Repo) DeleteExperience(ctx context.Context, id int64) error {
	return r.delete(ctx, sqlite.PartExperiences, id)
}

// InsertExperience inserts with a freshly generated id, keeping the item's
// timestamps. Used when adopting an unmatched item from an imported backup.
func (r *Repo) InsertExperience(ctx context.Context, e *domain.Experience) (int64, error) {
	ins := *e
	ins.ID = 0
	id, err := insert(ctx, r.eng, sqlite.PartExperiences, &ins)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// PutExperience overwrites the row at e.ID verbatim. Used when an imported
// item supersedes a matched local one; the local id is retained by the
// caller before the call.
func (r *Repo) PutExperience(ctx context.Context, e *domain.Experience) error {
	if e.ID == 0 {
		return domain.NewValidationError("id", "is required")
	}
	return putAt(ctx, r.eng, sqlite.PartExperiences, e.ID, e)
}

// ---------------------------------------------------------------------------
// Education
// ---------------------------------------------------------------------------

// SaveEducation inserts (id zero) or updates (id set) an education entry.
func (r *Repo) SaveEducation(ctx context.Context, e *domain.Education) (*domain.Education, error) {
	saved := *e
	now := time.Now().UTC()

	if saved.ID == 0 {
		saved.CreatedAt = now
		saved.UpdatedAt = now
		id, err := insert(ctx, r.eng, sqlite.PartEducation, &saved)
		if err != nil {
			return nil, err
		}
		saved.ID = id
		return &saved, nil
	}

	existing, err := getByID[domain.Education](ctx, r.eng, sqlite.PartEducation, saved.ID)
	if err != nil {
		return nil, err
	}
	saved.CreatedAt = existing.CreatedAt
	saved.UpdatedAt = now
	if err := putAt(ctx, r.eng, sqlite.PartEducation, saved.ID, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListEducation returns all education entries, most recent start date first.
func (r *Repo) ListEducation(ctx context.Context) ([]*domain.Education, error) {
	items, err := list[domain.Education](ctx, r.eng, sqlite.PartEducation)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartDate > items[j].StartDate
	})
	return items, nil
}

// DeleteEducation removes an education entry by id. Absent is not an error.
func (r *Repo) DeleteEducation(ctx context.Context, id int64) error {
	return r.delete(ctx, sqlite.PartEducation, id)
}

// InsertEducation inserts with a fresh id, keeping the item's timestamps.
func (r *Repo) InsertEducation(ctx context.Context, e *domain.Education) (int64, error) {
	ins := *e
	ins.ID = 0
	id, err := insert(ctx, r.eng, sqlite.PartEducation, &ins)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// PutEducation overwrites the row at e.ID verbatim.
func (r *Repo) PutEducation(ctx context.Context, e *domain.Education) error {
	if e.ID == 0 {
		return domain.NewValidationError("id", "is required")
	}
	return putAt(ctx, r.eng, sqlite.PartEducation, e.ID, e)
}

// ---------------------------------------------------------------------------
// Certifications
// ---------------------------------------------------------------------------

// SaveCertification inserts (id zero) or updates (id set) a certification.
func (r *Repo) SaveCertification(ctx context.Context, c *domain.Certification) (*domain.Certification, error) {
	saved := *c
	now := time.Now().UTC()

	if saved.ID == 0 {
		saved.CreatedAt = now
		saved.UpdatedAt = now
		id, err := insert(ctx, r.eng, sqlite.PartCertifications, &saved)
		if err != nil {
			return nil, err
		}
		saved.ID = id
		return &saved, nil
	}

	existing, err := getByID[domain.Certification](ctx, r.eng, sqlite.PartCertifications, saved.ID)
	if err != nil {
		return nil, err
	}
	saved.CreatedAt = existing.CreatedAt
	saved.UpdatedAt = now
	if err := putAt(ctx, r.eng, sqlite.PartCertifications, saved.ID, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListCertifications returns all certifications, most recent issue date
// first. Entries without a date sort last.
func (r *Repo) ListCertifications(ctx context.Context) ([]*domain.Certification, error) {
	items, err := list[domain.Certification](ctx, r.eng, sqlite.PartCertifications)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date > items[j].Date
	})
	return items, nil
}

// DeleteCertification removes a certification by id. Absent is not an error.
func (r *Repo) DeleteCertification(ctx context.Context, id int64) error {
	return r.delete(ctx, sqlite.PartCertifications, id)
}

// InsertCertification inserts with a fresh id, keeping the item's timestamps.
func (r *Repo) InsertCertification(ctx context.Context, c *domain.Certification) (int64, error) {
	ins := *c
	ins.ID = 0
	id, err := insert(ctx, r.eng, sqlite.PartCertifications, &ins)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// PutCertification overwrites the row at c.ID verbatim.
func (r *Repo) PutCertification(ctx context.Context, c *domain.Certification) error {
	if c.ID == 0 {
		return domain.NewValidationError("id", "is required")
	}
	return putAt(ctx, r.eng, sqlite.PartCertifications, c.ID, c)
}

// ---------------------------------------------------------------------------
// Languages
// ---------------------------------------------------------------------------

// SaveLanguage inserts (id zero) or updates (id set) a language.
func (r *Repo) SaveLanguage(ctx context.Context, l *domain.Language) (*domain.Language, error) {
	saved := *l
	now := time.Now().UTC()

	if saved.ID == 0 {
		saved.CreatedAt = now
		saved.UpdatedAt = now
		id, err := insert(ctx, r.eng, sqlite.PartLanguages, &saved)
		if err != nil {
			return nil, err
		}
		saved.ID = id
		return &saved, nil
	}

	existing, err := getByID[domain.Language](ctx, r.eng, sqlite.PartLanguages, saved.ID)
	if err != nil {
		return nil, err
	}
	saved.CreatedAt = existing.CreatedAt
	saved.UpdatedAt = now
	if err := putAt(ctx, r.eng, sqlite.PartLanguages, saved.ID, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListLanguages returns all languages ordered by name.
func (r *Repo) ListLanguages(ctx context.Context) ([]*domain.Language, error) {
	items, err := list[domain.Language](ctx, r.eng, sqlite.PartLanguages)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Language < items[j].Language
	})
	return items, nil
}

// DeleteLanguage removes a language by id. Absent is not an error.
func (r *Repo) DeleteLanguage(ctx context.Context, id int64) error {
	return r.delete(ctx, sqlite.PartLanguages, id)
}

// InsertLanguage inserts with a fresh id, keeping the item's timestamps.
func (r *Repo) InsertLanguage(ctx context.Context, l *domain.Language) (int64, error) {
	ins := *l
	ins.ID = 0
	id, err := insert(ctx, r.eng, sqlite.PartLanguages, &ins)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// PutLanguage overwrites the row at l.ID verbatim.
func (r *Repo) PutLanguage(ctx context.Context, l *domain.Language) error {
	if l.ID == 0 {
		return domain.NewValidationError("id", "is required")
	}
	return putAt(ctx, r.eng, sqlite.PartLanguages, l.ID, l)
}

// ---------------------------------------------------------------------------
// Shared engine plumbing
// ---------------------------------------------------------------------------

func (r *Repo) delete(ctx context.Context, part string, id int64) error {
	if err := r.eng.Delete(ctx, part, id); err != nil {
		return fmt.Errorf("delete %s %d: %w", part, id, err)
	}
	return nil
}

func list[T any](ctx context.Context, eng *sqlite.Engine, part string) ([]*T, error) {
	raws, err := eng.ListAll(ctx, part)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", part, err)
	}

	items := make([]*T, 0, len(raws))
	for _, raw := range raws {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("decode %s: %w", part, err)
		}
		items = append(items, &item)
	}
	return items, nil
}

func getByID[T any](ctx context.Context, eng *sqlite.Engine, part string, id int64) (*T, error) {
	raw, err := eng.Get(ctx, part, id)
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", part, id, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s %d: %w", part, id, domain.ErrNotFound)
	}

	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("decode %s %d: %w", part, id, err)
	}
	return &item, nil
}

func insert[T any](ctx context.Context, eng *sqlite.Engine, part string, item *T) (int64, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", part, err)
	}
	id, err := eng.Add(ctx, part, raw)
	if err != nil {
		return 0, fmt.Errorf("add %s: %w", part, err)
	}
	return id, nil
}

func putAt[T any](ctx context.Context, eng *sqlite.Engine, part string, id int64, item *T) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode %s %d: %w", part, id, err)
	}
	if err := eng.Put(ctx, part, raw, id); err != nil {
		return fmt.Errorf("put %s %d: %w", part, id, err)
	}
	return nil
}
