package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "nested", "dst.txt")

	if err := os.WriteFile(src, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := MoveFile(src, dst); err != nil {
		t.Fatal(err)
	}
	if Exists(src) {
		t.Fatal("source should be gone after move")
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello world" {
		t.Fatalf("content mismatch: got %q", got)
	}
}

func TestMoveFileRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	for _, path := range []string{src, dst} {
		if err := os.WriteFile(path, []byte(path), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := MoveFile(src, dst); !errors.Is(err, os.ErrExist) {
		t.Fatalf("expected ErrExist, got %v", err)
	}
	if !Exists(src) {
		t.Fatal("source should be left in place")
	}
}

func TestCopyFileVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	content := []byte("verified copy content")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
	if err := CopyFileVerified(src, dst); err == nil {
		t.Fatal("expected error copying onto an existing file")
	}
}

func TestVerifyCopyDetectsChangedDestination(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "dst.bin")
	content := []byte("verified copy content")

	h := newHash()
	h.Write(content)
	want := h.Sum(nil)

	if err := os.WriteFile(dst, content, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := verifyCopy(dst, int64(len(content)), want); err != nil {
		t.Fatalf("intact copy rejected: %v", err)
	}

	corrupt := []byte("verified copy CONTENT")
	if err := os.WriteFile(dst, corrupt, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := verifyCopy(dst, int64(len(content)), want); err == nil {
		t.Fatal("expected digest mismatch for a changed destination")
	}

	if err := os.WriteFile(dst, content[:5], 0o644); err != nil {
		t.Fatal(err)
	}
	if err := verifyCopy(dst, int64(len(content)), want); err == nil {
		t.Fatal("expected size mismatch for a truncated destination")
	}
}

func TestDigest(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	c := filepath.Join(dir, "c")
	for path, body := range map[string]string{a: "same", b: "same", c: "different"} {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	da, err := Digest(a)
	if err != nil {
		t.Fatal(err)
	}
	db, _ := Digest(b)
	dc, _ := Digest(c)
	if da != db {
		t.Fatalf("identical files should share a digest: %s vs %s", da, db)
	}
	if da == dc {
		t.Fatal("different files should not share a digest")
	}
	if len(da) != DigestSize*2 {
		t.Fatalf("unexpected digest length %d", len(da))
	}
	if _, err := Digest(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
