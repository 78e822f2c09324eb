package pipeline_test

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-maker-pipeline/01_text"
	"video-maker-pipeline/02_images"
	"video-maker-pipeline/03_video"
	"video-maker-pipeline/pipeline"
	"video-maker-pipeline/state"
	"video-maker-pipeline/types"
)

const article = `A lighthouse is a tower that emits light. It guides ships at sea (and on large lakes).

== History ==
Ancient lighthouses burned open fires. Modern ones use electric lamps. Many are now automated.`

type stubSource struct{ calls int }

func (s *stubSource) Fetch(ctx context.Context, term, lang string) (string, error) {
	s.calls++
	return article, nil
}

type stubExtractor struct{}

func (stubExtractor) Extract(ctx context.Context, sentence string) ([]string, error) {
	first := strings.ToLower(strings.Fields(sentence)[0])
	return []string{first, "coast"}, nil
}

type stubSearcher struct{ calls int }

func (s *stubSearcher) Search(ctx context.Context, query string, maxResults int64) ([]string, error) {
	s.calls++
	links := make([]string, maxResults)
	for i := range links {
		links[i] = fmt.Sprintf("https://img.test/%d/%d.png", s.calls, i)
	}
	return links, nil
}

type pngFetcher struct{}

func (pngFetcher) Download(ctx context.Context, url, path string) error {
	return imaging.Save(imaging.New(60, 90, color.NRGBA{B: 200, A: 255}), path)
}

type stubEncoder struct{}

func (stubEncoder) Assemble(ctx context.Context, frames []video.Frame, audioPath string, opts video.Options, obs video.Observer) (string, error) {
	obs.Start("stub")
	obs.Progress(100)
	if err := os.WriteFile(opts.Output, []byte("mp4"), 0644); err != nil {
		return "", err
	}
	obs.End(opts.Output)
	return opts.Output, nil
}

type fixture struct {
	dir      string
	store    state.Store
	source   *stubSource
	searcher *stubSearcher
	text     *text.Stage
	images   *images.Stage
	video    *video.Stage
}

func newFixture(t *testing.T, maxSentences int) *fixture {
	t.Helper()
	dir := t.TempDir()
	store := state.NewFileStore(filepath.Join(dir, "content.json"))
	require.NoError(t, store.Save(context.Background(), &types.Document{
		RunID:            "run1",
		SearchTerm:       "Lighthouse",
		Prefix:           "What is",
		Lang:             "en",
		MaximumSentences: maxSentences,
	}))

	segmenter, err := text.NewPunktSegmenter()
	require.NoError(t, err)

	f := &fixture{dir: dir, store: store, source: &stubSource{}, searcher: &stubSearcher{}}
	f.text = text.NewStage(f.source, stubExtractor{}, segmenter, nil, nil)
	f.images = images.NewStage(f.searcher, pngFetcher{}, dir, 2, nil)
	f.video = video.NewStage(video.ImagingNormalizer{BlurSigma: 9}, video.JPEGThumbnailer{Quality: 90}, stubEncoder{}, video.Settings{
		ContentDir:    dir,
		ThumbnailPath: filepath.Join(dir, "youtube-thumbnail.jpg"),
		Width:         320,
		Height:        180,
		Encode:        video.Options{Output: filepath.Join(dir, "video.mp4")},
	}, nil)
	return f
}

func (f *fixture) load(t *testing.T) *types.Document {
	t.Helper()
	doc, err := f.store.Load(context.Background())
	require.NoError(t, err)
	return doc
}

func TestScenario_Lighthouse(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	driver := pipeline.NewDriver(f.store)

	_, err := driver.Run(ctx, f.text)
	require.NoError(t, err)
	doc := f.load(t)
	assert.NotEmpty(t, doc.SourceContentOriginal)
	assert.NotContains(t, doc.SourceContentSanitized, "History")
	assert.NotContains(t, doc.SourceContentSanitized, "(")
	require.Len(t, doc.Sentences, 3)
	for _, s := range doc.Sentences {
		assert.NotEmpty(t, s.Keywords)
		assert.Empty(t, s.Images)
		assert.Empty(t, s.GoogleSearchQuery)
	}

	_, err = driver.Run(ctx, f.images)
	require.NoError(t, err)
	doc = f.load(t)
	for i, s := range doc.Sentences {
		assert.Len(t, s.Images, 2)
		assert.Equal(t, "Lighthouse "+s.Keywords[0], s.GoogleSearchQuery)
		assert.FileExists(t, images.OriginalPath(f.dir, i))
	}
	assert.Empty(t, doc.VideoFile)

	final, err := driver.Run(ctx, f.video)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.dir, "video.mp4"), final.VideoFile)
	doc = f.load(t)
	assert.Equal(t, final.VideoFile, doc.VideoFile)
	assert.FileExists(t, doc.ThumbnailFile)
	for i := range doc.Sentences {
		frame, err := imaging.Open(video.ConvertedPath(f.dir, i))
		require.NoError(t, err)
		assert.Equal(t, 320, frame.Bounds().Dx())
		assert.Equal(t, 180, frame.Bounds().Dy())
	}
	for _, name := range []string{text.StageName, images.StageName, video.StageName} {
		assert.Equal(t, types.StageCompleted, doc.StageStatusOf(name))
	}
}

func TestScenario_AllStagesInOneRun(t *testing.T) {
	f := newFixture(t, 3)

	doc, err := pipeline.NewDriver(f.store).Run(context.Background(), f.text, f.images, f.video)
	require.NoError(t, err)
	assert.Len(t, doc.Sentences, 3)
	assert.NotEmpty(t, doc.VideoFile)
	assert.Equal(t, video.PhaseDone, f.video.Phase())
}

func TestScenario_CrashAfterTextResumesAtImages(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	// first process: text completes, then the process dies before images saves
	_, err := pipeline.NewDriver(f.store).Run(ctx, f.text)
	require.NoError(t, err)
	require.Equal(t, 1, f.source.calls)

	// second process: fresh store over the same file
	restarted := state.NewFileStore(filepath.Join(f.dir, "content.json"))
	doc, err := restarted.Load(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.SourceContentSanitized)
	assert.Empty(t, doc.Sentences[0].Images)

	_, err = pipeline.NewDriver(restarted).Run(ctx, f.text, f.images)
	require.NoError(t, err)
	assert.Equal(t, 1, f.source.calls, "text must not be fetched again")
	assert.Equal(t, 3, f.searcher.calls)

	doc, err = restarted.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Sentences[0].Images, 2)
}
