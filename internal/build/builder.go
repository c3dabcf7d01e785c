// Package build runs the site build: index -> validate -> load -> render -> write.
package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/p-n-ai/quizgen/internal/assets"
	"github.com/p-n-ai/quizgen/internal/export"
	"github.com/p-n-ai/quizgen/internal/quiz"
	"github.com/p-n-ai/quizgen/internal/render"
)

// ErrInvalidIndex is returned when the index file is unreadable or not a JSON list.
var ErrInvalidIndex = errors.New("index is not a list or could not be read")

const (
	indexPage    = "index.html"
	workbookFile = "quizzes.xlsx"
)

// Skip reasons reported for dropped index entries.
const (
	ReasonInvalidEntry  = "invalid index entry"
	ReasonDuplicatePage = "duplicate page"
	ReasonUnreadable    = "category file could not be loaded"
	ReasonNullContent   = "category content is empty or has null values"
	ReasonNoQuestions   = "category has no questions list"
	ReasonWriteFailed   = "page could not be written"
	ReasonCanceled      = "build canceled"
)

// Config holds the inputs and outputs of one build.
type Config struct {
	Fs             afero.Fs // defaults to the OS filesystem
	DataDir        string
	IndexFile      string // relative to DataDir
	OutputDir      string
	Concurrency    int
	ExportWorkbook bool
	LiveReload     bool
}

// Report summarises a finished build.
type Report struct {
	BuildID  string
	Pages    []string // category pages written, in index order
	Skipped  []Skip
	Workbook string // path of the exported workbook, if any
}

// Skip records an index entry that did not produce a page.
type Skip struct {
	Position int // position in the index file
	Title    string
	File     string
	Reason   string
}

// Builder builds the static quiz site.
type Builder struct {
	cfg      Config
	renderer *render.Renderer
}

// New creates a Builder.
func New(cfg Config) *Builder {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	var opts []render.Option
	if cfg.LiveReload {
		opts = append(opts, render.WithLiveReload())
	}

	return &Builder{
		cfg:      cfg,
		renderer: render.New(opts...),
	}
}

type pending struct {
	position int
	entry    quiz.IndexEntry
}

type outcome struct {
	category *quiz.Category
	reason   string
}

// Run performs one build. It fails only when the output directory cannot be
// created, the index cannot be read, the index page cannot be written or
// ctx is canceled; every other failure drops the offending category and is
// listed in the report.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	report := &Report{BuildID: uuid.NewString()}
	logger := slog.With("build_id", report.BuildID)
	logger.Info("building site", "data_dir", b.cfg.DataDir, "output_dir", b.cfg.OutputDir)

	fs := b.cfg.Fs
	if err := fs.MkdirAll(b.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	validator, err := quiz.NewValidator(fs, b.cfg.DataDir)
	if err != nil {
		return nil, err
	}

	indexPath := filepath.Join(b.cfg.DataDir, b.cfg.IndexFile)
	raw, _ := quiz.ReadJSON(fs, indexPath)
	items, ok := raw.([]any)
	if !ok {
		logger.Error("index is not a list or could not be read", "path", indexPath)
		return nil, fmt.Errorf("%w: %s", ErrInvalidIndex, indexPath)
	}

	queue := b.validateEntries(logger, validator, items, report)
	outcomes := b.buildCategories(ctx, logger, validator, queue)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	categories := make([]quiz.Category, 0, len(queue))
	for i, o := range outcomes {
		if o.category == nil {
			report.Skipped = append(report.Skipped, Skip{
				Position: queue[i].position,
				Title:    queue[i].entry.Title,
				File:     queue[i].entry.File,
				Reason:   o.reason,
			})
			continue
		}
		categories = append(categories, *o.category)
		report.Pages = append(report.Pages, o.category.PageName())
	}

	if err := b.writeIndex(categories); err != nil {
		return nil, err
	}

	if err := assets.WriteSite(fs, b.cfg.OutputDir); err != nil {
		logger.Error("failed to write site assets", "error", err)
	}

	if b.cfg.ExportWorkbook {
		path, err := b.writeWorkbook(categories)
		if err != nil {
			logger.Error("failed to export workbook", "error", err)
		} else {
			report.Workbook = path
		}
	}

	logger.Info("site built", "pages", len(report.Pages), "skipped", len(report.Skipped))
	return report, nil
}

func (b *Builder) validateEntries(logger *slog.Logger, v *quiz.Validator, items []any, report *Report) []pending {
	queue := make([]pending, 0, len(items))
	seen := make(map[string]bool, len(items))

	for i, item := range items {
		if !v.ValidateIndexEntry(item) {
			report.Skipped = append(report.Skipped, Skip{Position: i, Reason: ReasonInvalidEntry})
			continue
		}
		entry, err := quiz.DecodeIndexEntry(item)
		if err != nil {
			logger.Warn("skipping index entry", "position", i, "error", err)
			report.Skipped = append(report.Skipped, Skip{Position: i, Reason: ReasonInvalidEntry})
			continue
		}

		page := quiz.PageName(entry.File)
		if seen[page] {
			logger.Warn("skipping duplicate index entry", "position", i, "file", entry.File)
			report.Skipped = append(report.Skipped, Skip{Position: i, Title: entry.Title, File: entry.File, Reason: ReasonDuplicatePage})
			continue
		}
		seen[page] = true
		queue = append(queue, pending{position: i, entry: entry})
	}
	return queue
}

// buildCategories loads, renders and writes each category in its own task.
// Tasks never fail: each stores its outcome in its own slot, and Wait is the
// join point before the index is rendered.
func (b *Builder) buildCategories(ctx context.Context, logger *slog.Logger, v *quiz.Validator, queue []pending) []outcome {
	outcomes := make([]outcome, len(queue))

	var g errgroup.Group
	g.SetLimit(b.cfg.Concurrency)
	for i, p := range queue {
		g.Go(func() error {
			outcomes[i] = b.buildCategory(ctx, logger, v, p.entry)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (b *Builder) buildCategory(ctx context.Context, logger *slog.Logger, v *quiz.Validator, entry quiz.IndexEntry) outcome {
	if ctx.Err() != nil {
		return outcome{reason: ReasonCanceled}
	}

	raw, ok := quiz.ReadJSON(b.cfg.Fs, filepath.Join(b.cfg.DataDir, entry.File))
	if !ok {
		return outcome{reason: ReasonUnreadable}
	}
	doc, _ := raw.(map[string]any)
	if quiz.IsNullOneLevel(doc) {
		logger.Warn("skipping category with empty content", "file", entry.File)
		return outcome{reason: ReasonNullContent}
	}

	category := quiz.Category{
		Title:   entry.Title,
		File:    entry.File,
		Content: v.DecodeContent(doc),
	}

	html, ok := b.renderer.CategoryHTML(category)
	if !ok {
		return outcome{reason: ReasonNoQuestions}
	}

	path := filepath.Join(b.cfg.OutputDir, filepath.FromSlash(category.PageName()))
	if err := writeFileAtomic(b.cfg.Fs, path, []byte(html)); err != nil {
		logger.Error("failed to write category page", "path", path, "error", err)
		return outcome{reason: ReasonWriteFailed}
	}

	logger.Debug("category page written", "path", path)
	return outcome{category: &category}
}

func (b *Builder) writeIndex(categories []quiz.Category) error {
	html, err := b.renderer.IndexHTML(categories)
	if err != nil {
		return fmt.Errorf("rendering index: %w", err)
	}
	path := filepath.Join(b.cfg.OutputDir, indexPage)
	if err := writeFileAtomic(b.cfg.Fs, path, []byte(html)); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	return nil
}

func (b *Builder) writeWorkbook(categories []quiz.Category) (string, error) {
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, categories); err != nil {
		return "", err
	}
	path := filepath.Join(b.cfg.OutputDir, workbookFile)
	if err := writeFileAtomic(b.cfg.Fs, path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}
