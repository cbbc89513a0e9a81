package catalog_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	_ "modernc.org/sqlite"

	"dvkarchive/internal/archive"
	"dvkarchive/internal/catalog"
	"dvkarchive/internal/dvk"
	"dvkarchive/internal/query"
	"dvkarchive/internal/testsupport"
)

type fixture struct {
	root    string
	alpha   *dvk.Record
	beta    *dvk.Record
	gamma   *dvk.Record
	archive *archive.Aggregator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	root := filepath.Join(t.TempDir(), "archive")
	f := &fixture{root: root}
	f.alpha = testsupport.WriteRecord(t, root, "a.dvk", testsupport.RecordSpec{
		ID: "A1", Title: "Alpha", Artists: []string{"Bob"}, TouchMedia: true,
	})
	f.beta = testsupport.WriteRecord(t, root, "b.dvk", testsupport.RecordSpec{
		ID: "B2", Title: "Beta", Artists: []string{"Carol", "Bob"}, TouchMedia: true,
	})
	f.gamma = testsupport.WriteRecord(t, filepath.Join(root, "sub"), "c.dvk", testsupport.RecordSpec{
		ID: "A1", Title: "Gamma", Artists: []string{"Dave"},
	})
	f.reload()
	return f
}

func (f *fixture) reload() {
	f.archive = archive.NewAggregator(nil)
	f.archive.Load(f.root)
}

func openStore(t *testing.T) *catalog.Store {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store, err := catalog.Open(cfg, nil)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func entryPaths(entries []catalog.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

func TestSyncStoresRecords(t *testing.T) {
	f := newFixture(t)
	store := openStore(t)
	ctx := context.Background()

	result, err := store.Sync(ctx, f.archive, catalog.SyncOptions{Roots: []string{f.root}, Digest: true})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.ID == "" || result.Records != 3 || result.Digested != 2 {
		t.Fatalf("unexpected sync result: %+v", result)
	}

	entries, err := store.Entries(ctx)
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	want := []string{f.alpha.Path(), f.beta.Path(), f.gamma.Path()}
	if diff := cmp.Diff(want, entryPaths(entries)); diff != "" {
		t.Fatalf("unexpected entries (-want +got):\n%s", diff)
	}
	beta := entries[1]
	if beta.ID != "B2" || beta.Title != "Beta" || beta.SyncID != result.ID {
		t.Fatalf("unexpected entry: %+v", beta)
	}
	if diff := cmp.Diff([]string{"Bob", "Carol"}, beta.Artists); diff != "" {
		t.Fatalf("unexpected artists (-want +got):\n%s", diff)
	}
	if beta.MediaFile != "b.dvk.txt" || beta.MediaDigest == "" {
		t.Fatalf("expected media name and digest, got %q %q", beta.MediaFile, beta.MediaDigest)
	}
	if entries[2].MediaDigest != "" {
		t.Fatalf("expected no digest for missing media, got %q", entries[2].MediaDigest)
	}
}

func TestSyncPrunesRemovedRecords(t *testing.T) {
	f := newFixture(t)
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.Sync(ctx, f.archive, catalog.SyncOptions{}); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if err := os.Remove(f.beta.Path()); err != nil {
		t.Fatalf("remove record: %v", err)
	}
	f.reload()

	second, err := store.Sync(ctx, f.archive, catalog.SyncOptions{})
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	entries, err := store.Entries(ctx)
	if err != nil {
		t.Fatalf("entries: %v", err)
	}
	if diff := cmp.Diff([]string{f.alpha.Path(), f.gamma.Path()}, entryPaths(entries)); diff != "" {
		t.Fatalf("unexpected entries (-want +got):\n%s", diff)
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.LastSyncID != second.ID {
		t.Fatalf("expected last sync %q, got %q", second.ID, stats.LastSyncID)
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	if err := archive.SetSequence([]*dvk.Record{f.alpha, f.beta}, "Saga"); err != nil {
		t.Fatalf("set sequence: %v", err)
	}
	f.reload()
	store := openStore(t)
	ctx := context.Background()

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("stats on empty catalog: %v", err)
	}
	if stats.Records != 0 || stats.LastSyncID != "" || !stats.LastSyncAt.IsZero() {
		t.Fatalf("expected empty stats, got %+v", stats)
	}

	result, err := store.Sync(ctx, f.archive, catalog.SyncOptions{})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	stats, err = store.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := catalog.Stats{
		Records:      3,
		Artists:      3,
		DuplicateIDs: 1,
		Sequenced:    2,
		LastSyncID:   result.ID,
	}
	if diff := cmp.Diff(want, stats, cmpopts.IgnoreFields(catalog.Stats{}, "LastSyncAt")); diff != "" {
		t.Fatalf("unexpected stats (-want +got):\n%s", diff)
	}
	if stats.LastSyncAt.IsZero() {
		t.Fatal("expected last sync time")
	}
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	store := openStore(t)
	ctx := context.Background()
	if _, err := store.Sync(ctx, f.archive, catalog.SyncOptions{}); err != nil {
		t.Fatalf("sync: %v", err)
	}

	tests := []struct {
		name  string
		query string
		opts  query.Options
		want  []string
	}{
		{name: "folded artist", query: "bob", want: []string{f.alpha.Path(), f.beta.Path()}},
		{name: "negation", query: "a1 & !bob", want: []string{f.gamma.Path()}},
		{name: "case sensitive", query: "bob", opts: query.Options{CaseSensitive: true}, want: []string{}},
		{name: "exact", query: "Carol", opts: query.Options{Exact: true, CaseSensitive: true}, want: []string{f.beta.Path()}},
		{name: "exact needs whole value", query: "Car", opts: query.Options{Exact: true}, want: []string{}},
		{name: "exact operands across fields", query: "beta & carol", opts: query.Options{Exact: true}, want: []string{f.beta.Path()}},
		{name: "exact negation", query: "a1 & !alpha", opts: query.Options{Exact: true}, want: []string{f.gamma.Path()}},
		{name: "empty query", query: "", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := store.Search(ctx, tt.query, tt.opts)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if diff := cmp.Diff(tt.want, entryPaths(entries)); diff != "" {
				t.Fatalf("unexpected matches (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDuplicates(t *testing.T) {
	f := newFixture(t)
	store := openStore(t)
	ctx := context.Background()
	if _, err := store.Sync(ctx, f.archive, catalog.SyncOptions{Digest: true}); err != nil {
		t.Fatalf("sync: %v", err)
	}

	ids, err := store.DuplicateIDs(ctx)
	if err != nil {
		t.Fatalf("duplicate ids: %v", err)
	}
	wantIDs := []catalog.DuplicateGroup{{Key: "A1", Paths: []string{f.alpha.Path(), f.gamma.Path()}}}
	if diff := cmp.Diff(wantIDs, ids); diff != "" {
		t.Fatalf("unexpected duplicate ids (-want +got):\n%s", diff)
	}

	media, err := store.DuplicateMedia(ctx)
	if err != nil {
		t.Fatalf("duplicate media: %v", err)
	}
	if len(media) != 1 {
		t.Fatalf("expected one media group, got %+v", media)
	}
	if diff := cmp.Diff([]string{f.alpha.Path(), f.beta.Path()}, media[0].Paths); diff != "" {
		t.Fatalf("unexpected duplicate media (-want +got):\n%s", diff)
	}
}

func TestOpenDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCatalogDisabled())
	if _, err := catalog.Open(cfg, nil); !errors.Is(err, catalog.ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestOpenRejectsOtherSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	store, err := catalog.OpenPath(path, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = db.Close()

	if _, err := catalog.OpenPath(path, nil); !errors.Is(err, catalog.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
