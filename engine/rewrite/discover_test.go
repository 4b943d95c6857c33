package rewrite

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverer_Discover(t *testing.T) {
	newFS := func(t *testing.T) afero.Fs {
		fs := afero.NewMemMapFs()
		for _, path := range []string{
			"/app/src/App.tsx",
			"/app/src/components/Card.jsx",
			"/app/node_modules/lib/index.jsx",
			"/app/dist/bundle.jsx",
			"/app/src/App.test.tsx",
		} {
			writeFile(t, fs, path, "x")
		}
		return fs
	}

	t.Run("Should walk directories recursively in lexical order", func(t *testing.T) {
		d, err := NewDiscoverer(newFS(t), nil)
		require.NoError(t, err)

		files, outcomes, err := d.Discover(context.Background(), []string{"/app"})

		require.NoError(t, err)
		assert.Empty(t, outcomes)
		assert.Equal(t, []string{
			"/app/dist/bundle.jsx",
			"/app/node_modules/lib/index.jsx",
			"/app/src/App.test.tsx",
			"/app/src/App.tsx",
			"/app/src/components/Card.jsx",
		}, files)
	})

	t.Run("Should prune excluded directories and files", func(t *testing.T) {
		d, err := NewDiscoverer(newFS(t), []string{"node_modules", "dist/**", "*.test.tsx"})
		require.NoError(t, err)

		files, _, err := d.Discover(context.Background(), []string{"/app"})

		require.NoError(t, err)
		assert.Equal(t, []string{"/app/src/App.tsx", "/app/src/components/Card.jsx"}, files)
	})

	t.Run("Should not exclude files named explicitly", func(t *testing.T) {
		d, err := NewDiscoverer(newFS(t), []string{"*.test.tsx"})
		require.NoError(t, err)

		files, _, err := d.Discover(context.Background(), []string{"/app/src/App.test.tsx"})

		require.NoError(t, err)
		assert.Equal(t, []string{"/app/src/App.test.tsx"}, files)
	})

	t.Run("Should deduplicate overlapping paths", func(t *testing.T) {
		d, err := NewDiscoverer(newFS(t), []string{"node_modules", "dist"})
		require.NoError(t, err)

		files, _, err := d.Discover(context.Background(), []string{"/app/src", "/app/src/App.tsx", "/app/src/"})

		require.NoError(t, err)
		assert.Equal(t, []string{"/app/src/App.test.tsx", "/app/src/App.tsx", "/app/src/components/Card.jsx"}, files)
	})

	t.Run("Should report missing paths", func(t *testing.T) {
		d, err := NewDiscoverer(newFS(t), nil)
		require.NoError(t, err)

		files, outcomes, err := d.Discover(context.Background(), []string{"/nope"})

		require.NoError(t, err)
		assert.Empty(t, files)
		require.Len(t, outcomes, 1)
		assert.Equal(t, Outcome{Path: "/nope", Status: StatusNotFound}, outcomes[0])
	})

	t.Run("Should reject invalid patterns", func(t *testing.T) {
		_, err := NewDiscoverer(afero.NewMemMapFs(), []string{"src/[unclosed"})

		require.Error(t, err)
	})
}
