package testutil

import (
	"io"
	"os"
	"testing"
)

// CopyFile duplicates src to dst for a test, preferring a copy-on-write
// clone where the platform supports one.
func CopyFile(t testing.TB, src, dst string) {
	t.Helper()
	if err := cloneFile(src, dst); err == nil {
		return
	}
	in, err := os.Open(src)
	if err != nil {
		t.Fatalf("open %s: %v", src, err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		t.Fatalf("create %s: %v", dst, err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		t.Fatalf("copy %s to %s: %v", src, dst, err)
	}
}
