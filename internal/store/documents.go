package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

const documentsTable = "documents"

// Revision is one saved copy of a learner's progress document.
type Revision struct {
	ID       string
	Username string
	Revision int64
	SavedAt  time.Time
	Data     []byte
}

// DocumentRepo archives serialized progress documents per learner.
type DocumentRepo interface {
	// Save stores data as the newest revision for username.
	Save(ctx context.Context, username string, data []byte) (*Revision, error)

	// Latest returns the newest revision for username, or nil if none exist.
	Latest(ctx context.Context, username string) (*Revision, error)

	// History returns up to limit revisions for username, newest first
	// (0 = unlimited). Data is not loaded.
	History(ctx context.Context, username string, limit int) ([]Revision, error)

	// Usernames returns every learner with at least one revision.
	Usernames(ctx context.Context) ([]string, error)

	// Prune deletes all but the keep most recent revisions for username.
	Prune(ctx context.Context, username string, keep int) error
}

// documentRepo implements DocumentRepo with ent's SQL builder.
type documentRepo struct {
	drv *entsql.Driver
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *documentRepo) Save(ctx context.Context, username string, data []byte) (*Revision, error) {
	rev := &Revision{
		ID:       uuid.NewString(),
		Username: username,
		SavedAt:  time.Now().UTC(),
		Data:     data,
	}

	query, args := builder().
		Insert(documentsTable).
		Columns("id", "username", "saved_at", "data").
		Values(rev.ID, rev.Username, rev.SavedAt.UnixMilli(), string(rev.Data)).
		Query()
	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	revNum, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read saved revision: %w", err)
	}
	rev.Revision = revNum
	return rev, nil
}

func (r *documentRepo) Latest(ctx context.Context, username string) (*Revision, error) {
	query, args := builder().
		Select("id", "username", "revision", "saved_at", "data").
		From(entsql.Table(documentsTable)).
		Where(entsql.EQ("username", username)).
		OrderBy(entsql.Desc("revision")).
		Limit(1).
		Query()

	revs, err := r.query(ctx, query, args, true)
	if err != nil {
		return nil, fmt.Errorf("query latest document: %w", err)
	}
	if len(revs) == 0 {
		return nil, nil
	}
	return &revs[0], nil
}

func (r *documentRepo) History(ctx context.Context, username string, limit int) ([]Revision, error) {
	sel := builder().
		Select("id", "username", "revision", "saved_at").
		From(entsql.Table(documentsTable)).
		Where(entsql.EQ("username", username)).
		OrderBy(entsql.Desc("revision"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	revs, err := r.query(ctx, query, args, false)
	if err != nil {
		return nil, fmt.Errorf("query document history: %w", err)
	}
	return revs, nil
}

func (r *documentRepo) Usernames(ctx context.Context) ([]string, error) {
	query, args := builder().
		Select("username").
		Distinct().
		From(entsql.Table(documentsTable)).
		OrderBy("username").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query usernames: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan username: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *documentRepo) Prune(ctx context.Context, username string, keep int) error {
	if keep <= 0 {
		return nil
	}

	// Find the newest revision that falls outside the window.
	query, args := builder().
		Select("revision").
		From(entsql.Table(documentsTable)).
		Where(entsql.EQ("username", username)).
		OrderBy(entsql.Desc("revision")).
		Offset(keep).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return fmt.Errorf("query revisions for prune: %w", err)
	}
	var threshold int64
	found := rows.Next()
	if found {
		if err := rows.Scan(&threshold); err != nil {
			rows.Close()
			return fmt.Errorf("scan prune threshold: %w", err)
		}
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("close prune rows: %w", err)
	}
	if !found {
		return nil // fewer than keep revisions exist
	}

	query, args = builder().
		Delete(documentsTable).
		Where(entsql.And(
			entsql.EQ("username", username),
			entsql.LTE("revision", threshold),
		)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("prune documents: %w", err)
	}
	return nil
}

func (r *documentRepo) query(ctx context.Context, query string, args []any, withData bool) ([]Revision, error) {
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		var (
			rev     Revision
			savedAt int64
			data    string
		)
		dest := []any{&rev.ID, &rev.Username, &rev.Revision, &savedAt}
		if withData {
			dest = append(dest, &data)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		rev.SavedAt = time.UnixMilli(savedAt).UTC()
		if withData {
			rev.Data = []byte(data)
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}
