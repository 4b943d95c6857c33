package rewrite

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/compozy/tagflat/pkg/flatten"
	"github.com/compozy/tagflat/pkg/logger"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	multiLine = "export const Save = () => (\n  <Button\n    type=\"submit\"\n    onClick={save}\n  >\n    Save\n  </Button>\n)\n"
	flattened = "export const Save = () => (\n  <Button type=\"submit\" onClick={save}>\n    Save\n  </Button>\n)\n"
	readme    = "<div\n  class=\"keep\"\n>\n"
)

func newTestProcessor(t *testing.T, fs afero.Fs, opts Options) *Processor {
	t.Helper()
	discoverer, err := NewDiscoverer(fs, nil)
	require.NoError(t, err)
	return NewProcessor(NewFSStore(fs), discoverer, flatten.New(), opts)
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

type failingStore struct {
	Store
	failPath string
}

func (s *failingStore) Write(path, text string) error {
	if path == s.failPath {
		return fmt.Errorf("failed to replace %s: %w", path, os.ErrPermission)
	}
	return s.Store.Write(path, text)
}

func TestProcessor_Run(t *testing.T) {
	t.Run("Should only rewrite qualifying files in a directory", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "/app/src/Save.jsx", multiLine)
		writeFile(t, fs, "/app/README.md", readme)
		processor := newTestProcessor(t, fs, Options{Workers: 2})
		var logs bytes.Buffer
		ctx := logger.ContextWithLogger(context.Background(), logger.NewLogger(&logger.Config{
			Level:      logger.InfoLevel,
			Output:     &logs,
			TimeFormat: "15:04:05",
		}))

		report, err := processor.Run(ctx, []string{"/app"})

		require.NoError(t, err)
		assert.Regexp(t, `Skipping unsupported file.*/app/README\.md`, logs.String())
		assert.Regexp(t, `Flattened file.*/app/src/Save\.jsx`, logs.String())
		assert.Equal(t, flattened, readFile(t, fs, "/app/src/Save.jsx"))
		assert.Equal(t, readme, readFile(t, fs, "/app/README.md"))
		assert.Equal(t, []string{"/app/src/Save.jsx"}, report.Paths(StatusFlattened))
		assert.Equal(t, []string{"/app/README.md"}, report.Paths(StatusSkipped))
		assert.Equal(t, 1, report.Tags())
		assert.NotEmpty(t, report.RunID)
	})

	t.Run("Should rewrite the file behind a symbolic link", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "Real.jsx")
		link := filepath.Join(dir, "Link.jsx")
		require.NoError(t, os.WriteFile(target, []byte(multiLine), 0o644))
		require.NoError(t, os.Symlink(target, link))
		processor := newTestProcessor(t, afero.NewOsFs(), Options{})

		report, err := processor.Run(context.Background(), []string{link})

		require.NoError(t, err)
		assert.Equal(t, []string{link}, report.Paths(StatusFlattened))
		info, err := os.Lstat(link)
		require.NoError(t, err)
		assert.NotZero(t, info.Mode()&os.ModeSymlink)
		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, flattened, string(data))
	})

	t.Run("Should report missing paths and continue", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "/app/Save.tsx", multiLine)
		processor := newTestProcessor(t, fs, Options{})

		report, err := processor.Run(context.Background(), []string{"/missing", "/app/Save.tsx"})

		require.NoError(t, err)
		assert.Equal(t, []string{"/missing"}, report.Paths(StatusNotFound))
		assert.Equal(t, []string{"/app/Save.tsx"}, report.Paths(StatusFlattened))
	})

	t.Run("Should mark already flat files as unchanged without rewriting them", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "/app/Flat.tsx", flattened)
		processor := newTestProcessor(t, fs, Options{})
		before, err := fs.Stat("/app/Flat.tsx")
		require.NoError(t, err)

		report, err := processor.Run(context.Background(), []string{"/app"})

		require.NoError(t, err)
		assert.Equal(t, []string{"/app/Flat.tsx"}, report.Paths(StatusUnchanged))
		after, err := fs.Stat("/app/Flat.tsx")
		require.NoError(t, err)
		assert.Equal(t, before.ModTime(), after.ModTime())
	})

	t.Run("Should not write anything in dry-run mode", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "/app/Save.jsx", multiLine)
		processor := newTestProcessor(t, fs, Options{DryRun: true})

		report, err := processor.Run(context.Background(), []string{"/app"})

		require.NoError(t, err)
		assert.True(t, report.DryRun)
		assert.Equal(t, 1, report.Count(StatusFlattened))
		assert.Equal(t, multiLine, readFile(t, fs, "/app/Save.jsx"))
	})

	t.Run("Should keep processing when one file fails to write", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "/app/A.jsx", multiLine)
		writeFile(t, fs, "/app/B.jsx", multiLine)
		discoverer, err := NewDiscoverer(fs, nil)
		require.NoError(t, err)
		store := &failingStore{Store: NewFSStore(fs), failPath: "/app/A.jsx"}
		processor := NewProcessor(store, discoverer, nil, Options{Workers: 1})

		report, err := processor.Run(context.Background(), []string{"/app"})

		require.NoError(t, err)
		failures := report.Failures()
		require.Len(t, failures, 1)
		assert.Equal(t, "/app/A.jsx", failures[0].Path)
		assert.ErrorIs(t, failures[0].Err, os.ErrPermission)
		assert.Equal(t, multiLine, readFile(t, fs, "/app/A.jsx"))
		assert.Equal(t, flattened, readFile(t, fs, "/app/B.jsx"))
	})

	t.Run("Should fail files on a read-only file system", func(t *testing.T) {
		mem := afero.NewMemMapFs()
		writeFile(t, mem, "/app/Save.jsx", multiLine)
		processor := newTestProcessor(t, afero.NewReadOnlyFs(mem), Options{})

		report, err := processor.Run(context.Background(), []string{"/app"})

		require.NoError(t, err)
		assert.Equal(t, []string{"/app/Save.jsx"}, report.Paths(StatusFailed))
		assert.Equal(t, multiLine, readFile(t, mem, "/app/Save.jsx"))
	})

	t.Run("Should honor custom extensions and excluded tags", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "/app/icon.svelte", "<Icon\n  size={4}\n/>\n<Chart\n  data={d}\n/>")
		discoverer, err := NewDiscoverer(fs, nil)
		require.NoError(t, err)
		processor := NewProcessor(
			NewFSStore(fs),
			discoverer,
			flatten.New(flatten.WithExcludedTags("Chart")),
			Options{Extensions: []string{".svelte"}},
		)

		_, err = processor.Run(context.Background(), []string{"/app"})

		require.NoError(t, err)
		assert.Equal(t, "<Icon size={4}/>\n<Chart\n  data={d}\n/>", readFile(t, fs, "/app/icon.svelte"))
	})

	t.Run("Should process many files concurrently and sort the report", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		for i := 0; i < 40; i++ {
			writeFile(t, fs, fmt.Sprintf("/app/c%02d.tsx", i), multiLine)
		}
		processor := newTestProcessor(t, fs, Options{Workers: 8})

		report, err := processor.Run(context.Background(), []string{"/app"})

		require.NoError(t, err)
		paths := report.Paths(StatusFlattened)
		require.Len(t, paths, 40)
		assert.IsIncreasing(t, paths)
		for _, path := range paths {
			assert.Equal(t, flattened, readFile(t, fs, path))
		}
	})

	t.Run("Should return the context error when canceled", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "/app/Save.jsx", multiLine)
		processor := newTestProcessor(t, fs, Options{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		report, err := processor.Run(ctx, []string{"/app"})

		assert.Nil(t, report)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestProcessor_Supported(t *testing.T) {
	processor := newTestProcessor(t, afero.NewMemMapFs(), Options{})
	assert.True(t, processor.Supported("src/App.tsx"))
	assert.True(t, processor.Supported("src/App.jsx"))
	assert.False(t, processor.Supported("src/App.ts"))
	assert.False(t, processor.Supported("src/tsx"))
}
