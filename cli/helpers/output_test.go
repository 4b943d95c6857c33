package helpers

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/compozy/tagflat/engine/rewrite"
	"github.com/stretchr/testify/assert"
)

func TestPrinter_Summary(t *testing.T) {
	report := &rewrite.Report{
		Outcomes: []rewrite.Outcome{
			{Path: "a.tsx", Status: rewrite.StatusFlattened, Tags: 3},
			{Path: "b.tsx", Status: rewrite.StatusUnchanged},
			{Path: "c.md", Status: rewrite.StatusSkipped},
			{Path: "d.jsx", Status: rewrite.StatusFailed, Err: errors.New("boom")},
		},
	}

	t.Run("Should print plain counts for non-terminal writers", func(t *testing.T) {
		var out bytes.Buffer
		NewPrinter(&out, false).Summary(report)
		assert.Equal(t, "tagflat: 1 flattened, 1 unchanged, 1 skipped, 1 failed (3 tags)\n", out.String())
	})

	t.Run("Should describe dry runs as pending changes", func(t *testing.T) {
		var out bytes.Buffer
		dry := &rewrite.Report{DryRun: true, Outcomes: report.Outcomes[:2]}
		NewPrinter(&out, false).Summary(dry)
		assert.Equal(t, "tagflat: 1 would flatten, 1 unchanged (3 tags)\n", out.String())
	})
}

func TestPrinter_Paths(t *testing.T) {
	t.Run("Should list paths under a heading", func(t *testing.T) {
		var out bytes.Buffer
		NewPrinter(&out, true).Paths("Would flatten:", []string{"a.tsx", "b.jsx"})
		assert.Equal(t, "Would flatten:\n  a.tsx\n  b.jsx\n", out.String())
	})

	t.Run("Should print nothing for an empty list", func(t *testing.T) {
		var out bytes.Buffer
		NewPrinter(&out, false).Paths("Would flatten:", nil)
		assert.Empty(t, out.String())
	})
}

func TestBatchError(t *testing.T) {
	t.Run("Should match its sentinel kind", func(t *testing.T) {
		err := fmt.Errorf("check: %w", NewBatchError(ErrCheckViolations, 2))
		assert.ErrorIs(t, err, ErrCheckViolations)
		assert.NotErrorIs(t, err, ErrFailedFiles)
		assert.EqualError(t, err, "check: files need flattening: 2 files")
	})

	t.Run("Should use the singular noun for one file", func(t *testing.T) {
		assert.EqualError(t, NewBatchError(ErrFailedFiles, 1), "some files could not be processed: 1 file")
	})
}

func TestParseOutputFormat(t *testing.T) {
	t.Run("Should accept known formats", func(t *testing.T) {
		for _, value := range []string{"json", "table", "yaml"} {
			format, ok := ParseOutputFormat(value)
			assert.True(t, ok)
			assert.Equal(t, OutputFormat(value), format)
		}
	})

	t.Run("Should reject unknown formats", func(t *testing.T) {
		_, ok := ParseOutputFormat("tui")
		assert.False(t, ok)
	})
}
