package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/pelletier/go-toml/v2"

	"dvkarchive/internal/archive"
	"dvkarchive/internal/config"
	"dvkarchive/internal/export"
	"dvkarchive/internal/query"
	"dvkarchive/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	root       string
	configPath string
}

// setupCLITestEnv writes an archive with two sections and a config file
// pointing at it. Records in "one" have media, the record in "two" does not.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("DVK_ARCHIVE_DIR", "")
	cfg := testsupport.NewConfig(t)
	root := filepath.Join(testsupport.BaseDir(cfg), "archive")
	cfg.Paths.ArchiveDir = root
	cfg.Logging.Level = "error"

	testsupport.WriteRecord(t, filepath.Join(root, "one"), "a.dvk", testsupport.RecordSpec{
		ID: "A1", Title: "Alpha", Artists: []string{"Bob"}, Rating: 2, TouchMedia: true,
	})
	testsupport.WriteRecord(t, filepath.Join(root, "one"), "b.dvk", testsupport.RecordSpec{
		ID: "B2", Title: "Beta", Artists: []string{"Carol"}, Rating: 5, TouchMedia: true,
	})
	testsupport.WriteRecord(t, filepath.Join(root, "two"), "c.dvk", testsupport.RecordSpec{
		ID: "C3", Title: "Gamma", Artists: []string{"Bob"},
	})
	testsupport.WriteText(t, filepath.Join(root, "two", "stray.txt"), "stray")

	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, root: root, configPath: configPath}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func decodeTitles(t *testing.T, out string) []string {
	t.Helper()
	var views []recordView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode json output: %v\n%s", err, out)
	}
	titles := make([]string, len(views))
	for i, v := range views {
		titles[i] = v.Title
	}
	return titles
}

func TestListCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if diff := cmp.Diff([]string{"Alpha", "Beta", "Gamma"}, decodeTitles(t, out)); diff != "" {
		t.Fatalf("unexpected list order (-want +got):\n%s", diff)
	}

	out, _, err = runCLI(t, []string{"list", "--sort", "r", "--limit", "2", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("list by rating: %v", err)
	}
	if diff := cmp.Diff([]string{"Gamma", "Alpha"}, decodeTitles(t, out)); diff != "" {
		t.Fatalf("unexpected rating order (-want +got):\n%s", diff)
	}

	out, _, err = runCLI(t, []string{"list", filepath.Join(env.root, "two")}, env.configPath)
	if err != nil {
		t.Fatalf("list dir: %v", err)
	}
	requireContains(t, out, "Gamma")
	if strings.Contains(out, "Alpha") {
		t.Fatalf("expected only the records of the given directory, got:\n%s", out)
	}
}

func TestListWithoutArchiveDir(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Paths.ArchiveDir = ""
	writeTestConfig(t, env.configPath, env.cfg)

	if _, _, err := runCLI(t, []string{"list"}, env.configPath); err != errNoArchive {
		t.Fatalf("expected errNoArchive, got %v", err)
	}
}

func TestSearchCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	tests := []struct {
		args []string
		want []string
	}{
		{args: []string{"search", "gamma | alpha", "--json"}, want: []string{"Alpha", "Gamma"}},
		{args: []string{"search", "bob !gamma", "--json"}, want: []string{"Alpha"}},
		{args: []string{"search", "Bob", "--exact", "--case-sensitive", "--json"}, want: []string{"Alpha", "Gamma"}},
		{args: []string{"search", "B2", "--fields", "id", "--json"}, want: []string{"Beta"}},
		{args: []string{"search", "carol", "--fields", "title", "--json"}, want: []string{}},
	}
	for _, tt := range tests {
		out, _, err := runCLI(t, tt.args, env.configPath)
		if err != nil {
			t.Fatalf("%v: %v", tt.args, err)
		}
		if diff := cmp.Diff(tt.want, decodeTitles(t, out)); diff != "" {
			t.Fatalf("%v: unexpected matches (-want +got):\n%s", tt.args, diff)
		}
	}
}

func TestSearchOptions(t *testing.T) {
	cfg := config.Search{Exact: true, Fields: []string{"title", "id"}}
	got := searchOptions(cfg)
	want := query.Options{Exact: true, Fields: []string{"title", "id"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected options (-want +got):\n%s", diff)
	}
	got.Fields[0] = "artists"
	if cfg.Fields[0] != "title" {
		t.Fatal("options should not share the config field list")
	}
}

func TestSequenceSetAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"sequence", "set"}, env.configPath); err == nil {
		t.Fatal("expected error without a title")
	}

	out, _, err := runCLI(t, []string{"sequence", "set", "--title", "Saga", "--by-section", "--section-titles", "Book 1,Book 2"}, env.configPath)
	if err != nil {
		t.Fatalf("sequence set: %v", err)
	}
	requireContains(t, out, `Linked 3 records as "Saga"`)

	out, _, err = runCLI(t, []string{"sequence", "show", "2", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("sequence show: %v", err)
	}
	if diff := cmp.Diff([]string{"Alpha", "Beta", "Gamma"}, decodeTitles(t, out)); diff != "" {
		t.Fatalf("unexpected sequence (-want +got):\n%s", diff)
	}

	out, _, err = runCLI(t, []string{"sequence", "show", "0"}, env.configPath)
	if err != nil {
		t.Fatalf("sequence show table: %v", err)
	}
	requireContains(t, out, "Sequence: Saga")

	if _, _, err := runCLI(t, []string{"sequence", "show", "9"}, env.configPath); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestCheckCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"check"}, env.configPath); err == nil {
		t.Fatal("expected error without a check flag")
	}

	out, _, err := runCLI(t, []string{"check", "--missing-media", "--unlinked-media", "--same-ids", "--duplicate-media"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "Records with missing media (1):")
	requireContains(t, out, "..."+string(filepath.Separator)+filepath.Join("two", "c.dvk"))
	requireContains(t, out, "Files without a record (1):")
	requireContains(t, out, "..."+string(filepath.Separator)+filepath.Join("two", "stray.txt"))
	requireContains(t, out, "Records sharing an ID (0):")
	requireContains(t, out, "Duplicate media (1 groups):")
}

func TestRenameCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"rename"}, env.configPath)
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	requireContains(t, out, "Renamed 3 of 3 records")
	for _, path := range []string{
		filepath.Join(env.root, "one", "Alpha_A1.dvk"),
		filepath.Join(env.root, "one", "Alpha_A1.txt"),
		filepath.Join(env.root, "two", "Gamma_C3.dvk"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s after rename: %v", path, err)
		}
	}

	out, _, err = runCLI(t, []string{"rename"}, env.configPath)
	if err != nil {
		t.Fatalf("second rename: %v", err)
	}
	requireContains(t, out, "Renamed 0 of 3 records")
}

func TestTreeCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"tree"}, env.configPath)
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	requireContains(t, out, env.root+" (0 records)")
	requireContains(t, out, "one (2 records)")
	requireContains(t, out, "two (1 record)")
}

func TestCatalogCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"catalog", "sync", "--digest"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog sync: %v", err)
	}
	requireContains(t, out, "Synced 3 records")
	requireContains(t, out, "Hashed 2 media files")

	out, _, err = runCLI(t, []string{"catalog", "stats", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog stats: %v", err)
	}
	var stats struct {
		Records int
		Artists int
	}
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Records != 3 || stats.Artists != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	out, _, err = runCLI(t, []string{"catalog", "search", "carol"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog search: %v", err)
	}
	requireContains(t, out, "Beta")

	out, _, err = runCLI(t, []string{"catalog", "duplicates"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog duplicates: %v", err)
	}
	requireContains(t, out, "Shared IDs (0 groups):")
	requireContains(t, out, "Identical media (1 groups):")
}

func TestCatalogDisabled(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Catalog.Enabled = false
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"catalog", "stats"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "catalog disabled") {
		t.Fatalf("expected disabled catalog error, got %v", err)
	}
}

func TestExportCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(t.TempDir(), "archive.json.zst")

	_, stderr, err := runCLI(t, []string{"export", "--output", target, "--zstd", "--level", "best"}, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, stderr, "Exported 3 records")

	docs, err := export.ReadFile(target)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	titles := make([]string, len(docs))
	for i, doc := range docs {
		titles[i] = doc.Record.Title()
	}
	if diff := cmp.Diff([]string{"Alpha", "Beta", "Gamma"}, titles); diff != "" {
		t.Fatalf("unexpected export (-want +got):\n%s", diff)
	}

	out, _, err := runCLI(t, []string{"export"}, env.configPath)
	if err != nil {
		t.Fatalf("export to stdout: %v", err)
	}
	requireContains(t, out, `"title":"Gamma"`)
}

func TestConfigCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Archive directory: "+env.root)

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "[paths]")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config exists")
	}
}

func TestLockedArchiveRejectsWrites(t *testing.T) {
	env := setupCLITestEnv(t)
	lock, err := archive.AcquireLock(env.cfg.LockPath())
	if err != nil {
		t.Fatalf("acquire lock: %v", err)
	}
	defer func() { _ = lock.Release() }()

	_, _, err = runCLI(t, []string{"rename"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "locked") {
		t.Fatalf("expected lock error, got %v", err)
	}
}
