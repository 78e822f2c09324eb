package video

import (
	"fmt"
	"os"
	"strings"
)

// CaptionStyle is the ASS "Default" style used for sentence captions.
type CaptionStyle struct {
	Font            string
	FontSize        int
	PrimaryColour   string
	SecondaryColour string
	OutlineColour   string
	BackColour      string
	Bold            int
	Italic          int
	BorderStyle     int
	Outline         int
	Shadow          int
	Alignment       int
	MarginL         int
	MarginR         int
	MarginV         int
}

func (s CaptionStyle) line() string {
	return fmt.Sprintf("Style: Default,%s,%d,%s,%s,%s,%s,%d,%d,0,0,100,100,0,0,%d,%d,%d,%d,%d,%d,%d,1",
		s.Font, s.FontSize,
		s.PrimaryColour, s.SecondaryColour, s.OutlineColour, s.BackColour,
		s.Bold, s.Italic,
		s.BorderStyle, s.Outline, s.Shadow, s.Alignment,
		s.MarginL, s.MarginR, s.MarginV,
	)
}

// cue is one caption shown between Start and End seconds.
type cue struct {
	Start, End float64
	Text       string
}

// captionCues times each frame's caption to the interval its image is on
// screen. A caption ends where the next frame's fade begins, so two captions
// are never shown at once; the last one runs to the end of the video. Frames
// without a caption produce no cue.
func captionCues(frames []Frame, hold, transition float64) []cue {
	var cues []cue
	step := hold - transition
	for i, f := range frames {
		if strings.TrimSpace(f.Caption) == "" {
			continue
		}
		start := float64(i) * step
		end := start + step
		if i == len(frames)-1 {
			end = start + hold
		}
		cues = append(cues, cue{Start: start, End: end, Text: f.Caption})
	}
	return cues
}

// renderASS produces a complete ASS subtitle document.
func renderASS(style CaptionStyle, cues []cue) string {
	var sb strings.Builder
	sb.WriteString("[Script Info]\n")
	sb.WriteString("ScriptType: v4.00+\n")
	sb.WriteString("WrapStyle: 0\n")
	sb.WriteString("ScaledBorderAndShadow: yes\n\n")

	sb.WriteString("[V4+ Styles]\n")
	sb.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	sb.WriteString(style.line() + "\n\n")

	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	for _, c := range cues {
		fmt.Fprintf(&sb, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n", assTime(c.Start), assTime(c.End), escapeASS(c.Text))
	}
	return sb.String()
}

func writeASS(path string, style CaptionStyle, cues []cue) error {
	return os.WriteFile(path, []byte(renderASS(style, cues)), 0644)
}

// assTime formats seconds as H:MM:SS.cc.
func assTime(sec float64) string {
	cs := int(sec*100 + 0.5)
	h := cs / 360000
	m := cs / 6000 % 60
	s := cs / 100 % 60
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs%100)
}

// escapeASS keeps caption text from being read as override tags.
func escapeASS(s string) string {
	s = strings.NewReplacer("\r\n", `\N`, "\n", `\N`, "{", "(", "}", ")").Replace(s)
	return s
}

// escapeSubtitlePath escapes a path for the subtitles filter argument.
func escapeSubtitlePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.ReplaceAll(path, ":", "\\:")
	return path
}
