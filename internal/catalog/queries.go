package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"dvkarchive/internal/query"
)

const entryColumns = `path, dvk_id, title, artists, published, web_tags, user_tags,
    rating, views, media_file, media_digest, sequence_title, sync_id`

// Entries returns every cataloged record ordered by path.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT "+entryColumns+" FROM records ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var (
		e                         Entry
		artists, webTags, userTag string
		digest                    sql.NullString
	)
	if err := rows.Scan(
		&e.Path, &e.ID, &e.Title, &artists, &e.Published, &webTags, &userTag,
		&e.Rating, &e.Views, &e.MediaFile, &digest, &e.SequenceTitle, &e.SyncID,
	); err != nil {
		return Entry{}, fmt.Errorf("scan record: %w", err)
	}
	e.MediaDigest = digest.String
	var err error
	if e.Artists, err = decodeList(artists); err != nil {
		return Entry{}, err
	}
	if e.WebTags, err = decodeList(webTags); err != nil {
		return Entry{}, err
	}
	if e.UserTags, err = decodeList(userTag); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Search returns the entries matching a boolean query. Title, artists, tags
// and identity are searched; opts controls case and exact matching, and its
// field list is not consulted.
func (s *Store) Search(ctx context.Context, q string, opts query.Options) ([]Entry, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	tree := query.Parse(q)
	if !opts.CaseSensitive {
		tree = query.Lower(tree)
	}
	var out []Entry
	for _, e := range entries {
		values := []string{e.Title, e.ID}
		values = append(values, e.Artists...)
		values = append(values, e.WebTags...)
		values = append(values, e.UserTags...)
		if !opts.CaseSensitive {
			lower := cases.Lower(language.Und)
			for i, v := range values {
				values[i] = lower.String(v)
			}
		}
		if query.MatchValues(tree, values, opts.Exact) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Stats summarizes the catalog.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	var st Stats
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM records").Scan(&st.Records); err != nil {
		return Stats{}, fmt.Errorf("count records: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT value) FROM records, json_each(records.artists)",
	).Scan(&st.Artists); err != nil {
		return Stats{}, fmt.Errorf("count artists: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM (SELECT dvk_id FROM records GROUP BY dvk_id HAVING COUNT(1) > 1)",
	).Scan(&st.DuplicateIDs); err != nil {
		return Stats{}, fmt.Errorf("count duplicate ids: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM records WHERE sequence_title != ''",
	).Scan(&st.Sequenced); err != nil {
		return Stats{}, fmt.Errorf("count sequenced records: %w", err)
	}

	var finished string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, finished_at FROM sync_runs ORDER BY finished_at DESC LIMIT 1",
	).Scan(&st.LastSyncID, &finished)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return Stats{}, fmt.Errorf("read last sync: %w", err)
	default:
		st.LastSyncAt = parseTime(finished)
	}
	return st, nil
}

// DuplicateIDs groups the paths of records sharing an identity.
func (s *Store) DuplicateIDs(ctx context.Context) ([]DuplicateGroup, error) {
	return s.duplicates(ctx, "dvk_id")
}

// DuplicateMedia groups the paths of records whose media digests match. Only
// records synced with digests enabled take part.
func (s *Store) DuplicateMedia(ctx context.Context) ([]DuplicateGroup, error) {
	return s.duplicates(ctx, "media_digest")
}

func (s *Store) duplicates(ctx context.Context, column string) ([]DuplicateGroup, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT %[1]s, path FROM records
WHERE %[1]s IS NOT NULL AND %[1]s IN (
    SELECT %[1]s FROM records WHERE %[1]s IS NOT NULL GROUP BY %[1]s HAVING COUNT(1) > 1
)
ORDER BY %[1]s, path`, column))
	if err != nil {
		return nil, fmt.Errorf("query duplicate %s: %w", column, err)
	}
	defer rows.Close()

	var groups []DuplicateGroup
	for rows.Next() {
		var key, path string
		if err := rows.Scan(&key, &path); err != nil {
			return nil, fmt.Errorf("scan duplicate: %w", err)
		}
		if n := len(groups); n == 0 || groups[n-1].Key != key {
			groups = append(groups, DuplicateGroup{Key: key})
		}
		groups[len(groups)-1].Paths = append(groups[len(groups)-1].Paths, path)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate duplicates: %w", err)
	}
	return groups, nil
}
