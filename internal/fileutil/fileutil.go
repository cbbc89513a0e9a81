package fileutil

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"golang.org/x/crypto/blake2b"
)

// DigestSize is the byte length of content digests.
const DigestSize = 32

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// Digest returns the hex BLAKE2b-256 digest of the file at path.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := newHash()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("digest %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// MoveFile renames src to dst. When the rename crosses filesystems the file is
// copied with verification and src removed afterwards. An existing dst is
// never overwritten.
func MoveFile(src, dst string) error {
	if src == dst {
		return nil
	}
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("move %s: %w", dst, os.ErrExist)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create destination dir: %w", err)
	}
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := CopyFileVerified(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// CopyFileVerified streams src to dst, then reads dst back and compares its
// size and digest with what was read from src. Removes dst on mismatch.
func CopyFileVerified(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := newHash()
	written, err := io.Copy(out, io.TeeReader(in, srcHasher))
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return err
	}

	if written != srcInfo.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcInfo.Size(), written)
	}
	if err := verifyCopy(dst, written, srcHasher.Sum(nil)); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return nil
}

// verifyCopy re-reads dst from disk and checks it against the expected size
// and digest.
func verifyCopy(dst string, size int64, want []byte) error {
	f, err := os.Open(dst)
	if err != nil {
		return fmt.Errorf("verify copy: %w", err)
	}
	defer f.Close()

	h := newHash()
	n, err := io.Copy(h, f)
	if err != nil {
		return fmt.Errorf("verify copy: %w", err)
	}
	if n != size {
		return fmt.Errorf("copy size mismatch: expected %d bytes, found %d bytes", size, n)
	}
	if !bytes.Equal(h.Sum(nil), want) {
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}
	return nil
}

func newHash() hash.Hash {
	h, err := blake2b.New(DigestSize, nil)
	if err != nil {
		// Only reachable with an invalid size or oversized key.
		panic(err)
	}
	return h
}
