package video

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"video-maker-pipeline/types"
)

// Frame is one normalized image and the caption shown over it.
type Frame struct {
	Path    string
	Caption string
}

// Options controls slideshow assembly.
type Options struct {
	Output          string
	Width           int
	Height          int
	FPS             int
	HoldSec         float64
	TransitionSec   float64
	VideoCodec      string
	VideoBitrate    string
	PixelFormat     string
	ScalePercent    int
	AudioBitrate    string
	AudioChannels   int
	AudioFadeOutSec float64

	// Captions is nil when captions are disabled.
	Captions *CaptionStyle
}

// Duration is the length of a slideshow of n frames.
func (o Options) Duration(n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n)*o.HoldSec - float64(n-1)*o.TransitionSec
}

// Encoder assembles frames and an audio track into one video.
type Encoder interface {
	Assemble(ctx context.Context, frames []Frame, audioPath string, opts Options, obs Observer) (string, error)
}

// FFmpegEncoder runs the ffmpeg binary.
type FFmpegEncoder struct {
	Path string
}

func (e FFmpegEncoder) binary() string {
	if e.Path == "" {
		return "ffmpeg"
	}
	return e.Path
}

// Assemble renders the slideshow to opts.Output. An empty audioPath
// produces a silent video.
func (e FFmpegEncoder) Assemble(ctx context.Context, frames []Frame, audioPath string, opts Options, obs Observer) (string, error) {
	if obs == nil {
		obs = ObserverFuncs{}
	}
	if err := validate(frames, audioPath, opts); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(opts.Output), 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	var assPath string
	if opts.Captions != nil {
		if cues := captionCues(frames, opts.HoldSec, opts.TransitionSec); len(cues) > 0 {
			assPath = strings.TrimSuffix(opts.Output, filepath.Ext(opts.Output)) + ".ass"
			if err := writeASS(assPath, *opts.Captions, cues); err != nil {
				return "", fmt.Errorf("write captions: %w", err)
			}
			defer os.Remove(assPath)
		}
	}

	args := buildArgs(frames, audioPath, assPath, opts)
	cmd := exec.CommandContext(ctx, e.binary(), args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", err
	}

	command := e.binary() + " " + strings.Join(args, " ")
	if err := cmd.Start(); err != nil {
		obs.Error(err.Error())
		return "", &types.EncodingError{Err: fmt.Errorf("start ffmpeg: %w", err)}
	}
	obs.Start(command)

	readProgress(stdout, opts.Duration(len(frames)), obs.Progress)

	if err := cmd.Wait(); err != nil {
		obs.Error(stderr.String())
		return "", &types.EncodingError{Stderr: stderr.String(), Err: fmt.Errorf("ffmpeg: %w", err)}
	}

	obs.End(opts.Output)
	return opts.Output, nil
}

func validate(frames []Frame, audioPath string, opts Options) error {
	if len(frames) == 0 {
		return types.Invalid("frames", "at least one frame is required")
	}
	if opts.Output == "" {
		return types.Invalid("output", "output path is required")
	}
	if opts.HoldSec <= 0 {
		return types.Invalid("holdSec", "must be positive")
	}
	if opts.TransitionSec < 0 || opts.TransitionSec >= opts.HoldSec {
		return types.Invalid("transitionSec", "must be non-negative and shorter than holdSec")
	}
	for _, f := range frames {
		if _, err := os.Stat(f.Path); err != nil {
			return &types.ConversionError{Path: f.Path, Err: err}
		}
	}
	if audioPath != "" {
		if _, err := os.Stat(audioPath); err != nil {
			return &types.ConversionError{Path: audioPath, Err: err}
		}
	}
	return nil
}

// buildArgs returns the ffmpeg arguments: one looped input per frame, an
// xfade chain between consecutive frames, optional burned captions and
// output scaling, then a looped audio track faded out at the end.
func buildArgs(frames []Frame, audioPath, assPath string, opts Options) []string {
	total := opts.Duration(len(frames))
	args := []string{"-y", "-hide_banner", "-nostats", "-progress", "pipe:1"}

	for _, f := range frames {
		args = append(args, "-loop", "1", "-t", formatSec(opts.HoldSec), "-i", f.Path)
	}
	if audioPath != "" {
		args = append(args, "-stream_loop", "-1", "-i", audioPath)
	}

	args = append(args, "-filter_complex", buildFilter(len(frames), audioPath != "", assPath, total, opts))
	args = append(args, "-map", "[vout]")
	if audioPath != "" {
		args = append(args, "-map", "[aout]")
	}

	args = append(args,
		"-c:v", opts.VideoCodec,
		"-b:v", opts.VideoBitrate,
		"-pix_fmt", opts.PixelFormat,
		"-r", strconv.Itoa(opts.FPS),
	)
	if audioPath != "" {
		args = append(args,
			"-c:a", "aac",
			"-b:a", opts.AudioBitrate,
			"-ac", strconv.Itoa(opts.AudioChannels),
		)
	}
	args = append(args,
		"-t", formatSec(total),
		"-movflags", "+faststart",
		opts.Output,
	)
	return args
}

func buildFilter(n int, withAudio bool, assPath string, total float64, opts Options) string {
	var parts []string
	for i := 0; i < n; i++ {
		parts = append(parts, fmt.Sprintf(
			"[%d:v]scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=%d,format=%s[f%d]",
			i, opts.Width, opts.Height, opts.Width, opts.Height, opts.FPS, opts.PixelFormat, i,
		))
	}

	// first frame has no incoming transition
	last := "f0"
	for i := 1; i < n; i++ {
		out := fmt.Sprintf("x%d", i)
		offset := float64(i) * (opts.HoldSec - opts.TransitionSec)
		if opts.TransitionSec > 0 {
			parts = append(parts, fmt.Sprintf("[%s][f%d]xfade=transition=fade:duration=%s:offset=%s[%s]",
				last, i, formatSec(opts.TransitionSec), formatSec(offset), out))
		} else {
			parts = append(parts, fmt.Sprintf("[%s][f%d]concat=n=2:v=1:a=0[%s]", last, i, out))
		}
		last = out
	}

	var post []string
	if assPath != "" {
		post = append(post, "subtitles="+escapeSubtitlePath(assPath))
	}
	if opts.ScalePercent > 0 && opts.ScalePercent != 100 {
		// even dimensions keep yuv420p encoders happy
		post = append(post, fmt.Sprintf("scale=trunc(iw*%d/200)*2:trunc(ih*%d/200)*2", opts.ScalePercent, opts.ScalePercent))
	}
	if len(post) == 0 {
		post = append(post, "null")
	}
	parts = append(parts, fmt.Sprintf("[%s]%s[vout]", last, strings.Join(post, ",")))

	if withAudio {
		fade := min(opts.AudioFadeOutSec, total)
		audio := fmt.Sprintf("[%d:a]atrim=0:%s,asetpts=PTS-STARTPTS", n, formatSec(total))
		if fade > 0 {
			audio += fmt.Sprintf(",afade=t=out:st=%s:d=%s", formatSec(total-fade), formatSec(fade))
		}
		parts = append(parts, audio+"[aout]")
	}

	return strings.Join(parts, ";")
}

func formatSec(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
