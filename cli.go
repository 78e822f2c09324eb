package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"video-maker-pipeline/00_input"
	"video-maker-pipeline/01_text"
	"video-maker-pipeline/02_images"
	"video-maker-pipeline/03_video"
	"video-maker-pipeline/04_publish"
	"video-maker-pipeline/config"
	"video-maker-pipeline/logging"
	"video-maker-pipeline/pipeline"
	"video-maker-pipeline/state"
	"video-maker-pipeline/types"
)

type rootOptions struct {
	configPath string
	debug      bool
}

type runOptions struct {
	term         string
	prefix       string
	lang         string
	maxSentences int
	force        bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "video-maker",
		Short:         "Turn a search term into a narrated slideshow video on YouTube",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.yaml", "path to config.yaml")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "human-readable debug logging")

	root.AddCommand(newRunCmd(opts), newPublishCmd(opts), newStatusCmd(opts))
	return root
}

func newRunCmd(root *rootOptions) *cobra.Command {
	return newPipelineCmd(root, "run", "Produce the video, resuming from the last saved document", false)
}

func newPublishCmd(root *rootOptions) *cobra.Command {
	return newPipelineCmd(root, "publish", "Produce the video if needed and upload it to YouTube", true)
}

func newPipelineCmd(root *rootOptions, use, short string, upload bool) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), root, func(ctx context.Context, a *app) error {
				if _, err := a.seed(ctx, opts); err != nil {
					return err
				}
				stages, err := a.stages(upload)
				if err != nil {
					return err
				}
				return a.drive(ctx, opts.force, stages...)
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.term, "term", "t", "", "search term; starts a new document")
	f.StringVarP(&opts.prefix, "prefix", "p", "", "title prefix or its index (0 Who is, 1 What is, 2 The history of)")
	f.StringVar(&opts.lang, "lang", "", "article language code")
	f.IntVarP(&opts.maxSentences, "max-sentences", "n", 0, "maximum number of sentences")
	f.BoolVar(&opts.force, "force", false, "re-run stages whose outputs already exist")
	return cmd
}

func newStatusCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the saved document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), root, func(ctx context.Context, a *app) error {
				doc, err := a.store.Load(ctx)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			})
		},
	}
}

// app holds what every command needs: config, logger and the open store.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  state.Store
}

func withApp(ctx context.Context, opts *rootOptions, fn func(context.Context, *app) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(opts.debug || cfg.Debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	for _, dir := range []string{cfg.Paths.Content, cfg.Paths.Logs} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}

	store, err := state.New(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(ctx, &app{cfg: cfg, logger: logger, store: store})
}

// loadConfig falls back to the defaults when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// seed is the input step. Without a search term the saved document is
// resumed. A search term starts a fresh document unless the saved one was
// created from the same inputs, in which case that one is resumed.
func (a *app) seed(ctx context.Context, opts *runOptions) (*types.Document, error) {
	if opts.term == "" {
		doc, err := a.store.Load(ctx)
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.Invalid("searchTerm", "no saved document, pass --term")
		}
		if err == nil {
			a.logger.Info("resuming", zap.String("run_id", doc.RunID), zap.String("search_term", doc.SearchTerm))
		}
		return doc, err
	}

	params := input.Params{
		SearchTerm:       opts.term,
		Prefix:           a.cfg.Input.Prefix,
		MaximumSentences: a.cfg.Input.MaximumSentences,
		Lang:             a.cfg.Input.Lang,
	}
	if opts.prefix != "" {
		params.Prefix = opts.prefix
	}
	if opts.maxSentences != 0 {
		params.MaximumSentences = opts.maxSentences
	}
	if opts.lang != "" {
		params.Lang = opts.lang
	}

	fresh, err := input.NewDocument(params)
	if err != nil {
		return nil, err
	}
	doc, err := state.LoadOrDefault(ctx, a.store, fresh)
	if err != nil {
		return nil, err
	}
	if doc != fresh && sameInputs(doc, fresh) {
		a.logger.Info("resuming", zap.String("run_id", doc.RunID), zap.String("search_term", doc.SearchTerm))
		return doc, nil
	}

	doc = fresh
	if err := a.store.Save(ctx, doc); err != nil {
		return nil, err
	}
	a.logger.Info("new document", zap.String("run_id", doc.RunID), zap.String("search_term", doc.SearchTerm))
	return doc, nil
}

func sameInputs(a, b *types.Document) bool {
	return a.SearchTerm == b.SearchTerm &&
		a.Prefix == b.Prefix &&
		a.Lang == b.Lang &&
		a.MaximumSentences == b.MaximumSentences
}

func (a *app) stages(upload bool) ([]pipeline.Stage, error) {
	textStage, err := text.New(a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	stages := []pipeline.Stage{textStage, images.New(a.cfg, a.logger), video.New(a.cfg, a.logger)}
	if !upload {
		return stages, nil
	}
	publishStage, err := publish.New(a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	return append(stages, publishStage), nil
}

func (a *app) drive(ctx context.Context, force bool, stages ...pipeline.Stage) error {
	driver := pipeline.NewDriver(a.store, pipeline.WithLogger(a.logger), pipeline.WithForce(force))
	doc, err := driver.Run(ctx, stages...)
	if err != nil {
		return err
	}
	if doc.YouTubeURL != "" {
		a.logger.Info("pipeline complete", zap.String("url", doc.YouTubeURL))
	} else {
		a.logger.Info("pipeline complete", zap.String("video", doc.VideoFile))
	}
	return nil
}
