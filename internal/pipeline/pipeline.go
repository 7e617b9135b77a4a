// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the publishing workflow for one PDF: prepare
// directories, extract images, generate the IIIF tree with placeholder
// URLs, then rewrite them to the target URL when one is configured.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/pdf-iiif/internal/extract"
	"github.com/pdiddy/pdf-iiif/internal/fetch"
	"github.com/pdiddy/pdf-iiif/internal/hint"
	"github.com/pdiddy/pdf-iiif/internal/iiif"
	"github.com/pdiddy/pdf-iiif/internal/layout"
	"github.com/pdiddy/pdf-iiif/internal/ledger"
	"github.com/pdiddy/pdf-iiif/internal/rewrite"
	"github.com/pdiddy/pdf-iiif/pkg/types"
)

// Generator writes the IIIF tree for a set of extracted images.
type Generator interface {
	Generate(ctx context.Context, images []types.ImageRecord, doc iiif.Document, baseURL string) (iiif.Result, error)
}

// Recorder stores a finished run.
type Recorder interface {
	Record(ctx context.Context, run ledger.Run) (int64, error)
}

// Report is the outcome of a pipeline run. State is the last state reached
// and Trail lists every state entered after Idle, in order.
type Report struct {
	State     types.RunState
	Trail     []types.RunState
	Source    string
	PDFPath   string
	TargetURL string
	Info      types.DocumentInfo
	Images    []types.ImageRecord
	Generated iiif.Result
	// Rewrite is nil when no target URL was configured.
	Rewrite *rewrite.Summary
	RunID   int64
}

// Driver sequences the pipeline stages. Extractor and Generator are
// required; the rest are optional.
type Driver struct {
	Config    types.Config
	Extractor extract.Extractor
	Generator Generator

	// Ledger records successful runs. Nil disables the history.
	Ledger Recorder
	// ReadInfo reads the PDF Info dictionary for the manifest metadata.
	ReadInfo func(path string) (types.DocumentInfo, error)
	// Fetch downloads a remote source into dir. Nil uses fetch.Download.
	Fetch func(ctx context.Context, url, dir string) (string, error)

	// Out receives progress lines.
	Out io.Writer
	Now func() time.Time
}

// StageError is returned when a stage fails. State is the last state the
// run completed.
type StageError struct {
	Stage string
	State types.RunState
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s (state %s): %v", e.Stage, e.State, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Run publishes source, a local PDF path or an http(s) URL. Files written
// before a failing stage are left in place.
func (d *Driver) Run(ctx context.Context, source string) (Report, error) {
	out := d.Out
	if out == nil {
		out = io.Discard
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	started := now()
	cfg := d.Config
	placeholder := cfg.IIIF.PlaceholderURL
	if placeholder == "" {
		placeholder = types.PlaceholderURL
	}

	report := Report{State: types.StateIdle, Source: source, PDFPath: source}
	advance := func(s types.RunState) {
		report.State = s
		report.Trail = append(report.Trail, s)
	}
	fail := func(stage string, err error) (Report, error) {
		return report, &StageError{Stage: stage, State: report.State, Err: err}
	}

	dirs := layout.New(cfg.Layout)
	if err := dirs.Prepare(); err != nil {
		return fail("preparing directories", err)
	}
	advance(types.StateDirsReady)

	target, haveTarget := hint.Read(cfg.Layout.Hint(), out)
	if haveTarget {
		report.TargetURL = target
	}

	if fetch.IsRemote(source) {
		path, err := d.fetch(ctx, source, dirs.Staging)
		if err != nil {
			return fail("downloading source", err)
		}
		fmt.Fprintf(out, "downloaded: %s\n", path)
		report.PDFPath = path
	}

	if d.ReadInfo != nil {
		info, err := d.ReadInfo(report.PDFPath)
		if err != nil {
			fmt.Fprintf(out, "  warning: could not read document info: %v\n", err)
		}
		report.Info = info
	}

	images, err := d.Extractor.Extract(ctx, report.PDFPath)
	if err != nil {
		return fail("extracting images", err)
	}
	report.Images = images
	advance(types.StateExtracted)

	doc := iiif.Document{Source: source, Info: report.Info}
	res, err := d.Generator.Generate(ctx, images, doc, placeholder)
	if err != nil {
		return fail("generating IIIF resources", err)
	}
	report.Generated = res
	advance(types.StateGenerated)

	if haveTarget {
		summary, err := rewrite.Tree(rewrite.LayoutTargets(cfg.Layout), AlignBase(placeholder, target), out)
		if err != nil {
			return fail("rewriting URLs", err)
		}
		report.Rewrite = &summary
		advance(types.StateRewritten)
	}
	advance(types.StateDone)

	if d.Ledger != nil {
		id, err := d.Ledger.Record(ctx, runRecord(report, placeholder, started, now()))
		if err != nil {
			fmt.Fprintf(out, "  warning: could not record run: %v\n", err)
		} else {
			report.RunID = id
		}
	}

	if haveTarget {
		fmt.Fprintf(out, "\nDone! IIIF resources generated in %s with URLs updated to %s\n", cfg.Layout.DocsDir, target)
	} else {
		fmt.Fprintf(out, "\nDone! IIIF resources generated in %s with placeholder URLs (%s)\n", cfg.Layout.DocsDir, placeholder)
	}
	return report, nil
}

func (d *Driver) fetch(ctx context.Context, url, dir string) (string, error) {
	if d.Fetch != nil {
		return d.Fetch(ctx, url, dir)
	}
	return fetch.Download(ctx, fetch.NewClient(d.Config.HTTP), url, dir, d.Config.HTTP, d.Out)
}

// AlignBase returns the rewrite prefixes for a placeholder and target. When
// the target ends in "/" the placeholder is matched with its slash too, so
// "<placeholder>/manifest.json" becomes "<target>manifest.json".
func AlignBase(placeholder, target string) rewrite.Prefixes {
	old := placeholder
	if strings.HasSuffix(target, "/") && !strings.HasSuffix(old, "/") {
		old += "/"
	}
	return rewrite.Prefixes{Old: old, New: target}
}

func runRecord(r Report, placeholder string, started, finished time.Time) ledger.Run {
	run := ledger.Run{
		Source:      r.Source,
		StartedAt:   started,
		FinishedAt:  finished,
		State:       r.State,
		Placeholder: placeholder,
		TargetURL:   r.TargetURL,
		Tiles:       r.Generated.Tiles,
	}
	for _, img := range r.Images {
		run.Images = append(run.Images, ledger.Image{
			Index:      img.Index,
			Identifier: iiif.Identifier(img.Path),
			Page:       img.Page,
			Width:      img.Width,
			Height:     img.Height,
		})
	}
	if r.Rewrite != nil {
		for _, f := range r.Rewrite.Files {
			run.Outcomes = append(run.Outcomes, ledger.Outcome{
				Path:   f.Path,
				Status: string(f.Status),
				Reason: f.Reason(),
			})
		}
	}
	return run
}
