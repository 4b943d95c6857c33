package rewrite

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/compozy/tagflat/pkg/flatten"
	"github.com/compozy/tagflat/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultExtensions are the component-markup source extensions.
var DefaultExtensions = []string{".jsx", ".tsx"}

// Options configures a Processor.
type Options struct {
	// Extensions lists the file name suffixes that are rewritten.
	Extensions []string
	// Workers bounds the number of files processed at once.
	Workers int
	// DryRun computes outcomes without writing anything.
	DryRun bool
}

// Processor flattens every qualifying file under a set of paths.
type Processor struct {
	store      Store
	discoverer *Discoverer
	flattener  *flatten.Flattener
	opts       Options
}

// NewProcessor creates a Processor. Zero-valued options fall back to
// DefaultExtensions and GOMAXPROCS workers.
func NewProcessor(store Store, discoverer *Discoverer, flattener *flatten.Flattener, opts Options) *Processor {
	if len(opts.Extensions) == 0 {
		opts.Extensions = DefaultExtensions
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if flattener == nil {
		flattener = flatten.New()
	}
	return &Processor{
		store:      store,
		discoverer: discoverer,
		flattener:  flattener,
		opts:       opts,
	}
}

// Supported reports whether the file name ends in a configured extension.
func (p *Processor) Supported(path string) bool {
	for _, ext := range p.opts.Extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Excluded reports whether path under root matches an exclude pattern. Paths
// passed to Run directly are never excluded, so callers that collect files
// themselves check here first.
func (p *Processor) Excluded(root, path string) bool {
	return p.discoverer.Excluded(root, path)
}

// Run processes paths. Per-file problems are recorded in the report and do
// not stop the batch; the returned error is non-nil only when ctx is done.
func (p *Processor) Run(ctx context.Context, paths []string) (*Report, error) {
	report := &Report{RunID: uuid.NewString(), DryRun: p.opts.DryRun}
	log := logger.FromContext(ctx).With("run_id", report.RunID)
	files, outcomes, err := p.discoverer.Discover(ctx, paths)
	if err != nil {
		return nil, err
	}
	for _, o := range outcomes {
		p.logOutcome(log, o)
	}
	report.Outcomes = append(report.Outcomes, outcomes...)
	var mu sync.Mutex
	record := func(o Outcome) {
		p.logOutcome(log, o)
		mu.Lock()
		report.Outcomes = append(report.Outcomes, o)
		mu.Unlock()
	}
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.opts.Workers)
	for _, file := range files {
		if !p.Supported(file) {
			record(Outcome{Path: file, Status: StatusSkipped})
			continue
		}
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			record(p.processFile(file))
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report.sort()
	return report, nil
}

// processFile performs the read-modify-write cycle for one file.
func (p *Processor) processFile(path string) Outcome {
	text, err := p.store.Read(path)
	if err != nil {
		return Outcome{Path: path, Status: StatusFailed, Err: err}
	}
	result := p.flattener.Apply(text)
	if !result.Changed() {
		return Outcome{Path: path, Status: StatusUnchanged}
	}
	if !p.opts.DryRun {
		if err := p.store.Write(path, result.Text); err != nil {
			return Outcome{Path: path, Status: StatusFailed, Err: err}
		}
	}
	return Outcome{Path: path, Status: StatusFlattened, Tags: result.Tags}
}

func (p *Processor) logOutcome(log logger.Logger, o Outcome) {
	switch o.Status {
	case StatusFlattened:
		if p.opts.DryRun {
			log.Info("Would flatten file", "file", o.Path, "tags", o.Tags)
			return
		}
		log.Info("Flattened file", "file", o.Path, "tags", o.Tags)
	case StatusUnchanged:
		log.Info("Processed file", "file", o.Path)
	case StatusSkipped:
		log.Warn("Skipping unsupported file", "file", o.Path)
	case StatusNotFound:
		log.Warn("Path does not exist", "path", o.Path)
	case StatusFailed:
		log.Error("Failed to process file", "file", o.Path, "error", o.Err)
	default:
		log.Debug(fmt.Sprintf("Unknown outcome %q", o.Status), "file", o.Path)
	}
}
