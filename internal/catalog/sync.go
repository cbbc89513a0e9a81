package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"dvkarchive/internal/archive"
	"dvkarchive/internal/dvk"
	"dvkarchive/internal/fileutil"
	"dvkarchive/internal/logging"
)

// SyncOptions tunes a Sync run.
type SyncOptions struct {
	// Roots are recorded with the run for display.
	Roots []string
	// Digest hashes every existing media file.
	Digest bool
}

const upsertRecord = `INSERT INTO records (
    path, dvk_id, title, artists, published, web_tags, user_tags,
    rating, views, media_file, media_digest, sequence_title, sync_id
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET
    dvk_id = excluded.dvk_id,
    title = excluded.title,
    artists = excluded.artists,
    published = excluded.published,
    web_tags = excluded.web_tags,
    user_tags = excluded.user_tags,
    rating = excluded.rating,
    views = excluded.views,
    media_file = excluded.media_file,
    media_digest = excluded.media_digest,
    sequence_title = excluded.sequence_title,
    sync_id = excluded.sync_id`

// Sync replaces the catalog contents with the records of agg. Rows for
// records that no longer exist are removed.
func (s *Store) Sync(ctx context.Context, agg *archive.Aggregator, opts SyncOptions) (SyncResult, error) {
	ctx = ensureContext(ctx)
	result := SyncResult{ID: uuid.NewString(), Started: time.Now().UTC()}
	logger := s.logger.With(logging.String("sync_id", result.ID))

	err := retryOnBusy(ctx, func() error {
		result.Records, result.Digested = 0, 0
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin sync tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		// The run row must exist before records reference it.
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sync_runs (id, started_at, finished_at, roots, record_count) VALUES (?, ?, ?, ?, 0)`,
			result.ID, formatTime(result.Started), formatTime(result.Started), strings.Join(opts.Roots, "\n"),
		); err != nil {
			return fmt.Errorf("insert sync run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, upsertRecord)
		if err != nil {
			return fmt.Errorf("prepare upsert: %w", err)
		}
		defer stmt.Close()

		for i := range agg.Size() {
			r := agg.Get(i)
			digest := sql.NullString{}
			if opts.Digest && fileutil.Exists(r.MediaFile()) {
				sum, err := fileutil.Digest(r.MediaFile())
				if err != nil {
					logging.WarnWithContext(logger, "media digest failed", "catalog_digest_failed",
						logging.String("path", r.MediaFile()),
						logging.Error(err),
						logging.String(logging.FieldImpact, "duplicate media detection skips this file"),
					)
				} else {
					digest = sql.NullString{String: sum, Valid: true}
					result.Digested++
				}
			}
			if err := insertRecord(ctx, stmt, r, digest, result.ID); err != nil {
				return err
			}
			result.Records++
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE sync_id != ?", result.ID); err != nil {
			return fmt.Errorf("prune records: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM sync_runs WHERE id NOT IN (SELECT DISTINCT sync_id FROM records) AND id != ?", result.ID,
		); err != nil {
			return fmt.Errorf("prune sync runs: %w", err)
		}
		result.Finished = time.Now().UTC()
		if _, err := tx.ExecContext(ctx,
			"UPDATE sync_runs SET finished_at = ?, record_count = ? WHERE id = ?",
			formatTime(result.Finished), result.Records, result.ID,
		); err != nil {
			return fmt.Errorf("finish sync run: %w", err)
		}
		return tx.Commit()
	})
	if err != nil {
		return SyncResult{}, err
	}

	logger.Info("catalog synced",
		logging.Int("records", result.Records),
		logging.Int("digested", result.Digested),
		logging.Duration("duration", result.Finished.Sub(result.Started)),
	)
	return result, nil
}

func insertRecord(ctx context.Context, stmt *sql.Stmt, r *dvk.Record, digest sql.NullString, syncID string) error {
	artists, err := encodeList(r.Artists())
	if err != nil {
		return err
	}
	webTags, err := encodeList(r.WebTags())
	if err != nil {
		return err
	}
	userTags, err := encodeList(r.UserTags())
	if err != nil {
		return err
	}
	if _, err := stmt.ExecContext(ctx,
		r.Path(), r.ID().String(), r.Title(), artists, r.Time(), webTags, userTags,
		r.Rating(), r.Views(), r.MediaName(), digest, r.SequenceTitle(), syncID,
	); err != nil {
		return fmt.Errorf("upsert record %s: %w", r.Path(), err)
	}
	return nil
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(data), nil
}

func decodeList(raw string) ([]string, error) {
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}

// timeLayout keeps a fixed fraction width so stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
