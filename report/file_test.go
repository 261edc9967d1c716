package report

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAtomic_CreatesDirectoryAndOverwrites(t *testing.T) {
	dir := t.TempDir()
	final := filepath.Join(dir, "nested", "out.txt")

	if err := WriteAtomic(final, []byte("first")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteAtomic(final, []byte("second")); err != nil {
		t.Fatalf("second write: %v", err)
	}
	got, err := os.ReadFile(final)
	if err != nil {
		t.Fatalf("read final: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("content mismatch: %q", string(got))
	}

	entries, err := os.ReadDir(filepath.Dir(final))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestWriteAtomic_FailPreservesOriginal(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	dir := t.TempDir()
	final := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(final, []byte("original"), 0o644); err != nil {
		t.Fatalf("setup write original: %v", err)
	}
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chmod(dir, 0o755)
	})

	if err := WriteAtomic(final, []byte("should-not-write")); err == nil {
		t.Fatalf("expected WriteAtomic to fail on unwritable dir")
	}

	got, err := os.ReadFile(final)
	if err != nil {
		t.Fatalf("read final: %v", err)
	}
	if string(got) != "original" {
		t.Fatalf("original file was modified: %q", string(got))
	}
}
