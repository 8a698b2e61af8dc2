package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"sync/atomic"
	"time"

	"gocloud.dev/blob"

	"github.com/quinnjr/fgo-sheba/internal/atlas"
	"github.com/quinnjr/fgo-sheba/internal/batch"
	"github.com/quinnjr/fgo-sheba/internal/logging"
	"github.com/quinnjr/fgo-sheba/internal/progress"
	"github.com/quinnjr/fgo-sheba/pkg/corpus"
)

// Categories lists every category a collection run can write to.
var Categories = []corpus.Category{
	"servants",
	"enemies",
	"equips",
	"cards",
	"skills",
	"class_icons",
	"ui",
}

// Options configures a collection run. Zero values pick sensible
// defaults.
type Options struct {
	// Limit caps how many manifest rows are processed. Zero means all.
	// It applies to the servant manifest and, when Equips is set, to
	// the equip manifest as well.
	Limit int

	// Enemies adds a phase downloading the faces of manifest rows the
	// enemy heuristic flags, under enemies/.
	Enemies bool

	// Equips adds a craft essence phase fed by the equip manifest.
	Equips bool

	// SkipDetails skips the per-servant detail fetches, and with them
	// the command card phase.
	SkipDetails bool

	// Concurrency and TaskTimeout are handed to the batch executor.
	Concurrency int
	TaskTimeout time.Duration

	// MaxSkillID bounds the skill icon id sweep. Defaults to
	// atlas.MaxSkillIconID.
	MaxSkillID int

	// ShowProgress renders a live progress line per phase.
	ShowProgress bool
}

// Collector drives a full asset collection run against one region,
// writing results into a bucket under category prefixes.
type Collector struct {
	client *atlas.Client
	region atlas.Region
	opts   Options

	bucket *blob.Bucket
	writer *corpus.Writer
	stats  *corpus.Stats
	bytes  atomic.Int64
	log    *slog.Logger
}

// New returns a collector writing into bucket.
func New(client *atlas.Client, bucket *blob.Bucket, region atlas.Region, opts Options) *Collector {
	if opts.Concurrency <= 0 {
		opts.Concurrency = batch.DefaultConcurrency
	}
	if opts.TaskTimeout <= 0 {
		opts.TaskTimeout = batch.DefaultTimeout
	}
	if opts.MaxSkillID <= 0 {
		opts.MaxSkillID = atlas.MaxSkillIconID
	}

	stats := corpus.NewStats(Categories...)
	return &Collector{
		client: client,
		region: region,
		opts:   opts,
		bucket: bucket,
		writer: corpus.NewWriter(bucket, corpus.WithStats(stats)),
		stats:  stats,
		log:    logging.New("fetch"),
	}
}

// PhaseReport accounts for one download phase.
type PhaseReport struct {
	Name   string
	Tasks  int
	OK     int
	Failed int
}

// Report summarizes a whole run.
type Report struct {
	Phases []PhaseReport
	Stats  corpus.RunStats
	Bytes  int64
}

func (r *Report) add(p PhaseReport) {
	r.Phases = append(r.Phases, p)
}

// Totals sums task outcomes across all phases.
func (r *Report) Totals() (ok, failed int) {
	for _, p := range r.Phases {
		ok += p.OK
		failed += p.Failed
	}
	return ok, failed
}

// Run executes every phase in order and writes the run metadata. Task
// failures are accounted in the report, not returned; only a missing
// manifest, a metadata write failure, or context cancellation surface
// as errors.
func (c *Collector) Run(ctx context.Context) (*Report, error) {
	servants, err := c.client.BasicServants(ctx, c.region)
	if err != nil {
		return nil, fmt.Errorf("fetch: servant manifest: %w", err)
	}
	if c.opts.Limit > 0 && len(servants) > c.opts.Limit {
		servants = servants[:c.opts.Limit]
	}
	c.log.Info("manifest loaded", "region", c.region, "servants", len(servants))

	report := &Report{}
	report.add(c.collectServantImages(ctx, servants))
	if !c.opts.SkipDetails {
		report.add(c.collectCards(ctx, servants))
	}
	report.add(c.collectSkillIcons(ctx))
	report.add(c.collectClassIcons(ctx))
	report.add(c.collectUI(ctx))
	if c.opts.Enemies {
		report.add(c.collectEnemies(ctx, servants))
	}
	if c.opts.Equips {
		report.add(c.collectEquips(ctx))
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}
	if err := c.WriteMetadata(ctx); err != nil {
		return report, err
	}

	report.Stats = c.stats.Snapshot()
	report.Bytes = c.bytes.Load()
	return report, nil
}

// collectServantImages downloads the face and portrait of every
// manifest row.
func (c *Collector) collectServantImages(ctx context.Context, servants []atlas.BasicServant) PhaseReport {
	tasks := make([]batch.Task, 0, 2*len(servants))
	for _, s := range servants {
		tasks = append(tasks,
			batch.Task{
				Label:  fmt.Sprintf("face_%d", s.ID),
				Source: c.client.FaceURL(c.region, s.ID),
				Dest:   fmt.Sprintf("servants/faces/%d_%d_face.png", s.CollectionNo, s.ID),
			},
			batch.Task{
				Label:  fmt.Sprintf("portrait_%d", s.ID),
				Source: c.client.PortraitURL(c.region, s.ID),
				Dest:   fmt.Sprintf("servants/portraits/%d_%d_portrait.png", s.CollectionNo, s.ID),
			},
		)
	}
	return c.runPhase(ctx, "servant images", tasks, slog.LevelWarn)
}

// collectCards fetches each servant's detail record for its card deck,
// then downloads one command card image per deck slot. A servant whose
// detail cannot be fetched is skipped rather than failed; enemy rows
// routinely have no detail record.
func (c *Collector) collectCards(ctx context.Context, servants []atlas.BasicServant) PhaseReport {
	var tasks []batch.Task
	for _, s := range servants {
		detail, err := c.client.ServantDetail(ctx, c.region, s.ID)
		if err != nil {
			c.log.Warn("servant detail unavailable", "servant", s.ID, "error", err)
			continue
		}
		for i, typeID := range detail.Cards {
			cardType, ok := atlas.CardTypes[typeID]
			if !ok {
				continue
			}
			tasks = append(tasks, batch.Task{
				Label:  fmt.Sprintf("card_%d_%d", s.ID, i+1),
				Source: c.client.CommandCardURL(c.region, cardType, s.ID),
				Dest:   fmt.Sprintf("cards/%s/%d_card%d.png", cardType, s.ID, i+1),
			})
		}
	}
	return c.runPhase(ctx, "command cards", tasks, slog.LevelWarn)
}

// collectSkillIcons sweeps the fixed skill icon id range. The id space
// is sparse, so misses are expected and logged quietly.
func (c *Collector) collectSkillIcons(ctx context.Context) PhaseReport {
	tasks := make([]batch.Task, 0, c.opts.MaxSkillID)
	for id := 1; id <= c.opts.MaxSkillID; id++ {
		tasks = append(tasks, batch.Task{
			Label:  fmt.Sprintf("skill_%d", id),
			Source: c.client.SkillIconURL(c.region, id),
			Dest:   fmt.Sprintf("skills/skill_%d.png", id),
		})
	}
	return c.runPhase(ctx, "skill icons", tasks, slog.LevelDebug)
}

// collectClassIcons downloads every class emblem in all rarity frames.
func (c *Collector) collectClassIcons(ctx context.Context) PhaseReport {
	ids := make([]int, 0, len(atlas.ClassNames))
	for id := range atlas.ClassNames {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	tasks := make([]batch.Task, 0, len(ids)*len(atlas.ClassIconVariants))
	for _, id := range ids {
		name := atlas.ClassNames[id]
		for _, variant := range atlas.ClassIconVariants {
			tasks = append(tasks, batch.Task{
				Label:  fmt.Sprintf("class_%s%s", name, variant),
				Source: c.client.ClassIconURL(c.region, variant, id),
				Dest:   fmt.Sprintf("class_icons/%s%s.png", name, variant),
			})
		}
	}
	return c.runPhase(ctx, "class icons", tasks, slog.LevelDebug)
}

// collectUI downloads the fixed battle UI asset set.
func (c *Collector) collectUI(ctx context.Context) PhaseReport {
	tasks := make([]batch.Task, 0, len(atlas.UIAssets))
	for _, asset := range atlas.UIAssets {
		tasks = append(tasks, batch.Task{
			Label:  "ui_" + asset.Name,
			Source: c.client.UIAssetURL(c.region, asset),
			Dest:   fmt.Sprintf("ui/%s.png", asset.Name),
		})
	}
	return c.runPhase(ctx, "ui assets", tasks, slog.LevelDebug)
}

// collectEnemies downloads face icons of the manifest rows the enemy
// heuristic flags, as a flat category of their own. The rows also
// appear under servants/, so this duplicates a handful of downloads in
// exchange for a ready-made enemy bucket.
func (c *Collector) collectEnemies(ctx context.Context, servants []atlas.BasicServant) PhaseReport {
	var tasks []batch.Task
	for _, s := range servants {
		if !s.IsEnemy() {
			continue
		}
		tasks = append(tasks, batch.Task{
			Label:  fmt.Sprintf("enemy_%d", s.ID),
			Source: c.client.FaceURL(c.region, s.ID),
			Dest:   fmt.Sprintf("enemies/%d_%d_face.png", s.CollectionNo, s.ID),
		})
	}
	return c.runPhase(ctx, "enemy faces", tasks, slog.LevelWarn)
}

// collectEquips downloads craft essence face icons from the equip
// manifest.
func (c *Collector) collectEquips(ctx context.Context) PhaseReport {
	equips, err := c.client.BasicEquips(ctx, c.region)
	if err != nil {
		c.log.Warn("equip manifest unavailable", "error", err)
		return PhaseReport{Name: "craft essences"}
	}
	if c.opts.Limit > 0 && len(equips) > c.opts.Limit {
		equips = equips[:c.opts.Limit]
	}

	tasks := make([]batch.Task, 0, len(equips))
	for _, e := range equips {
		tasks = append(tasks, batch.Task{
			Label:  fmt.Sprintf("equip_%d", e.ID),
			Source: c.client.FaceURL(c.region, e.ID),
			Dest:   fmt.Sprintf("equips/%d_%d_face.png", e.CollectionNo, e.ID),
		})
	}
	return c.runPhase(ctx, "craft essences", tasks, slog.LevelWarn)
}

// runPhase executes one batch of download tasks, with a live progress
// line when enabled, and logs failures at the given level.
func (c *Collector) runPhase(ctx context.Context, name string, tasks []batch.Task, failLevel slog.Level) PhaseReport {
	if len(tasks) == 0 {
		return PhaseReport{Name: name}
	}

	var reporter *progress.Reporter
	if c.opts.ShowProgress {
		reporter = progress.NewReporter(progress.Options{
			Label:      name,
			TotalTasks: len(tasks),
			Workers:    c.opts.Concurrency,
		})
		reporter.Start()
	}

	worker := func(ctx context.Context, task batch.Task) error {
		n, err := c.download(ctx, task)
		if err != nil {
			return err
		}
		c.bytes.Add(n)
		if reporter != nil {
			reporter.BytesWritten(n)
		}
		return nil
	}

	results := batch.Run(ctx, tasks, worker, batch.Options{
		Concurrency: c.opts.Concurrency,
		Timeout:     c.opts.TaskTimeout,
		Progress:    reporter,
	})
	if reporter != nil {
		reporter.Stop()
	}

	ok, failed := batch.Summarize(results)
	for _, r := range batch.Failed(results) {
		c.log.Log(ctx, failLevel, "download failed",
			"phase", name, "task", r.Task.Label, "error", r.Err)
	}
	c.log.Info("phase finished", "phase", name, "tasks", len(tasks), "ok", ok, "failed", failed)

	return PhaseReport{Name: name, Tasks: len(tasks), OK: ok, Failed: failed}
}

// download fetches one asset and stores it under the task destination.
// The destination's directory part is the category, so the collision
// rules and counters of the corpus writer apply.
func (c *Collector) download(ctx context.Context, task batch.Task) (int64, error) {
	data, err := c.client.GetBytes(ctx, task.Source)
	if err != nil {
		return 0, err
	}
	category := corpus.Category(path.Dir(task.Dest))
	if _, err := c.writer.Write(ctx, category, path.Base(task.Dest), data); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}
