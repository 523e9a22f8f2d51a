package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string, mode os.FileMode) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		t.Fatal(err)
	}
}

func TestCopyFileVerifiedPreservesModeAndMtime(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.mkv")
	dst := filepath.Join(dir, "dst.mkv")
	writeFile(t, src, "verified copy content", 0o640)
	mtime := time.Date(2001, 4, 25, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(src, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	if err := CopyFileVerified(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "verified copy content" {
		t.Fatalf("content mismatch: got %q", got)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Fatalf("expected mode 0640, got %o", info.Mode().Perm())
	}
	if !info.ModTime().Equal(mtime) {
		t.Fatalf("expected mtime %v, got %v", mtime, info.ModTime())
	}
}

func TestCopyFileVerifiedRefusesExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	writeFile(t, src, "new", 0o644)
	writeFile(t, dst, "old", 0o644)

	if err := CopyFileVerified(src, dst); !errors.Is(err, os.ErrExist) {
		t.Fatalf("expected ErrExist, got %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "old" {
		t.Fatalf("destination was modified: %q", got)
	}
}

func TestCopyFileVerifiedMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFileVerified(filepath.Join(dir, "nope"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := os.Stat(filepath.Join(dir, "dst")); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("expected no destination after failed copy")
	}
}

func TestCopyTreeCopiesNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Extras")
	writeFile(t, filepath.Join(src, "trailer.mp4"), "trailer", 0o644)
	writeFile(t, filepath.Join(src, "Behind", "interview.mkv"), "interview", 0o600)
	if err := os.Symlink("trailer.mp4", filepath.Join(src, "latest")); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "out", "Extras")
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := CopyTree(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(filepath.Join(dst, "Behind", "interview.mkv"))
	if err != nil || string(got) != "interview" {
		t.Fatalf("nested file not copied: %q %v", got, err)
	}
	target, err := os.Readlink(filepath.Join(dst, "latest"))
	if err != nil || target != "trailer.mp4" {
		t.Fatalf("symlink not recreated: %q %v", target, err)
	}
	if _, err := os.Stat(filepath.Join(src, "trailer.mp4")); err != nil {
		t.Fatal("expected source to remain after copy")
	}
}

func TestMoveRenamesWithinFilesystem(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mkv")
	dst := filepath.Join(dir, "b.mkv")
	writeFile(t, src, "movie", 0o644)

	if err := Move(src, dst); err != nil {
		t.Fatal(err)
	}
	if exists, _ := Exists(src); exists {
		t.Fatal("expected source to be gone")
	}
	if got, _ := os.ReadFile(dst); string(got) != "movie" {
		t.Fatalf("unexpected destination content %q", got)
	}
}

func TestExistsAndSameFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file")
	writeFile(t, path, "x", 0o644)
	link := filepath.Join(dir, "link")
	if err := os.Symlink(path, link); err != nil {
		t.Fatal(err)
	}

	if exists, err := Exists(path); err != nil || !exists {
		t.Fatalf("expected file to exist, got %v %v", exists, err)
	}
	if exists, err := Exists(filepath.Join(dir, "missing")); err != nil || exists {
		t.Fatalf("expected missing path, got %v %v", exists, err)
	}
	if !SameFile(path, link) {
		t.Fatal("expected symlink to resolve to the same file")
	}
	if SameFile(path, filepath.Join(dir, "missing")) {
		t.Fatal("expected missing path to differ")
	}
}
