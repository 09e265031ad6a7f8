package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"ruloc/internal/model"
)

func writeFixtureFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanSingleFile(t *testing.T) {
	defer goleak.VerifyNone(t)

	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "single.rs")
	writeFixtureFile(t, filePath, strings.Join([]string{
		"fn main() {",
		"    // top comment",
		"    let x = 1;",
		"}",
	}, "\n")+"\n")

	svc := NewService(2)
	result, err := svc.ScanPath(context.Background(), filePath, Options{})
	require.NoError(t, err)

	require.Len(t, result.Report.Files, 1)
	require.EqualValues(t, 1, result.Report.Summary.Files)
	require.EqualValues(t, 4, result.Report.Summary.Total.All)
	require.EqualValues(t, 3, result.Report.Summary.Total.Code)
	require.EqualValues(t, 1, result.Report.Summary.Total.Comment)
	require.Equal(t, filePath, result.Report.Files[0].Path)
}

func TestScanDirectoryDeterministicOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	tempDir := t.TempDir()
	writeFixtureFile(t, filepath.Join(tempDir, "b.rs"), "fn b() {}\n")
	writeFixtureFile(t, filepath.Join(tempDir, "a.rs"), "fn a() {}\n")
	writeFixtureFile(t, filepath.Join(tempDir, "sub", "c.rs"), "fn c() {}\n")
	writeFixtureFile(t, filepath.Join(tempDir, "README.md"), "not rust")

	svc := NewService(4)
	result, err := svc.ScanPath(context.Background(), tempDir, Options{})
	require.NoError(t, err)

	require.Len(t, result.Report.Files, 3)
	require.EqualValues(t, 3, result.Report.Summary.Files)

	var paths []string
	for _, f := range result.Report.Files {
		paths = append(paths, f.Path)
	}
	sorted := append([]string(nil), paths...)
	require.True(t, isSorted(sorted))
}

func isSorted(paths []string) bool {
	for i := 1; i < len(paths); i++ {
		if paths[i-1] > paths[i] {
			return false
		}
	}
	return true
}

func TestScanEmptyDirectoryReturnsErrNoRustFiles(t *testing.T) {
	tempDir := t.TempDir()
	writeFixtureFile(t, filepath.Join(tempDir, "notes.txt"), "hello")

	svc := NewService(1)
	_, err := svc.ScanPath(context.Background(), tempDir, Options{})
	require.ErrorIs(t, err, ErrNoRustFiles)
}

func TestScanSkipsTooLargeFile(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "big.rs")
	writeFixtureFile(t, filePath, "fn main() { let x = 1; }\n")

	svc := NewService(1)
	result, err := svc.ScanPath(context.Background(), filePath, Options{MaxFileSize: 4})
	require.NoError(t, err)
	require.Empty(t, result.Report.Files)
	require.Len(t, result.Skipped, 1)
	require.Equal(t, model.SkipTooLarge, result.Skipped[0].Reason)
}

func TestScanSingleFilePreservesSuppliedRelativePath(t *testing.T) {
	tempDir := t.TempDir()
	writeFixtureFile(t, filepath.Join(tempDir, "lib.rs"), "fn main() {}\n")

	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tempDir))
	defer os.Chdir(oldwd)

	svc := NewService(1)
	result, err := svc.ScanPath(context.Background(), "lib.rs", Options{})
	require.NoError(t, err)

	require.Len(t, result.Report.Files, 1)
	require.Equal(t, "lib.rs", result.Report.Files[0].Path)
}

func TestScanDirectoryPreservesSuppliedRootAndSymlinkName(t *testing.T) {
	tempDir := t.TempDir()
	writeFixtureFile(t, filepath.Join(tempDir, "real", "a.rs"), "fn a() {}\n")
	require.NoError(t, os.Symlink(filepath.Join(tempDir, "real"), filepath.Join(tempDir, "alias")))

	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tempDir))
	defer os.Chdir(oldwd)

	svc := NewService(2)
	result, err := svc.ScanPath(context.Background(), "real", Options{})
	require.NoError(t, err)
	require.Len(t, result.Report.Files, 1)
	require.Equal(t, filepath.Join("real", "a.rs"), result.Report.Files[0].Path)

	result, err = svc.ScanPath(context.Background(), "alias", Options{})
	require.NoError(t, err)
	require.Len(t, result.Report.Files, 1)
	require.Equal(t, filepath.Join("alias", "a.rs"), result.Report.Files[0].Path)
}

func TestScanCancellationLeavesValidPartialReport(t *testing.T) {
	tempDir := t.TempDir()
	for _, name := range []string{"a.rs", "b.rs", "c.rs"} {
		writeFixtureFile(t, filepath.Join(tempDir, name), "fn f() {}\n")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewService(2)
	result, err := svc.ScanPath(ctx, tempDir, Options{})
	// Cancellation may race with a fully-drained scan; either a clean
	// result or ErrNoRustFiles (nothing survived the race) is valid,
	// but the call must never panic or hang.
	if err != nil {
		require.ErrorIs(t, err, ErrNoRustFiles)
		return
	}
	require.LessOrEqual(t, len(result.Report.Files), 3)
}
