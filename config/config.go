package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Debug    bool           `yaml:"debug"`
	Input    InputConfig    `yaml:"input"`
	Text     TextConfig     `yaml:"text"`
	Images   ImagesConfig   `yaml:"images"`
	Video    VideoConfig    `yaml:"video"`
	Captions CaptionsConfig `yaml:"captions"`
	Upload   UploadConfig   `yaml:"upload"`
	State    StateConfig    `yaml:"state"`
	Paths    PathsConfig    `yaml:"paths"`
}

type InputConfig struct {
	Prefix           string `yaml:"prefix"`
	MaximumSentences int    `yaml:"maximum_sentences"`
	Lang             string `yaml:"lang"`
}

type TextConfig struct {
	Source            string  `yaml:"source"`            // wikipedia | reddit
	KeywordProvider   string  `yaml:"keyword_provider"`  // watson | groq
	WikipediaAPIURL   string  `yaml:"wikipedia_api_url"` // %s is replaced by the language code
	RedditSubreddit   string  `yaml:"reddit_subreddit"`
	RedditPostLimit   int     `yaml:"reddit_post_limit"`
	WatsonURL         string  `yaml:"watson_url"`
	WatsonVersion     string  `yaml:"watson_version"`
	GroqModel         string  `yaml:"groq_model"`
	Temperature       float64 `yaml:"temperature"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

type ImagesConfig struct {
	ResultsPerQuery   int64   `yaml:"results_per_query"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	DownloadTimeout   int     `yaml:"download_timeout_sec"`
	MinBytes          int     `yaml:"min_bytes"`
	MaxBytes          int64   `yaml:"max_bytes"`
}

type VideoConfig struct {
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	BlurSigma        float64 `yaml:"blur_sigma"`
	FPS              int     `yaml:"fps"`
	HoldSec          float64 `yaml:"hold_sec"`
	TransitionSec    float64 `yaml:"transition_sec"`
	VideoCodec       string  `yaml:"video_codec"`
	VideoBitrate     string  `yaml:"video_bitrate"`
	PixelFormat      string  `yaml:"pixel_format"`
	ScalePercent     int     `yaml:"scale_percent"`
	AudioBitrate     string  `yaml:"audio_bitrate"`
	AudioChannels    int     `yaml:"audio_channels"`
	AudioFadeOutSec  float64 `yaml:"audio_fade_out_sec"`
	ThumbnailQuality int     `yaml:"thumbnail_quality"`
	FFmpegPath       string  `yaml:"ffmpeg_path"`
}

// CaptionsConfig is the ASS style applied to burned-in sentence captions.
type CaptionsConfig struct {
	Enabled         *bool  `yaml:"enabled"`
	Font            string `yaml:"font"`
	FontSize        int    `yaml:"font_size"`
	PrimaryColour   string `yaml:"primary_colour"`
	SecondaryColour string `yaml:"secondary_colour"`
	OutlineColour   string `yaml:"outline_colour"`
	BackColour      string `yaml:"back_colour"`
	Bold            int    `yaml:"bold"`
	Italic          int    `yaml:"italic"`
	BorderStyle     int    `yaml:"border_style"`
	Outline         int    `yaml:"outline"`
	Shadow          int    `yaml:"shadow"`
	Alignment       int    `yaml:"alignment"`
	MarginL         int    `yaml:"margin_l"`
	MarginR         int    `yaml:"margin_r"`
	MarginV         int    `yaml:"margin_v"`
}

type UploadConfig struct {
	Auth              string `yaml:"auth"` // refresh_token | consent
	CallbackPort      int    `yaml:"callback_port"`
	ConsentTimeoutSec int    `yaml:"consent_timeout_sec"`
	Visibility        string `yaml:"visibility"`
	CategoryID        string `yaml:"category_id"`
	DefaultLanguage   string `yaml:"default_language"`
	MadeForKids       bool   `yaml:"made_for_kids"`
	NotifySubscribers bool   `yaml:"notify_subscribers"`
}

type StateConfig struct {
	Backend string `yaml:"backend"` // file | sqlite
	Path    string `yaml:"path"`
}

type PathsConfig struct {
	Content   string `yaml:"content"`
	Audio     string `yaml:"audio"`
	Video     string `yaml:"video"`
	Thumbnail string `yaml:"thumbnail"`
	Logs      string `yaml:"logs"`
}

// EnabledOrDefault reports whether captions are burned in; defaults to true when unset.
func (c *CaptionsConfig) EnabledOrDefault() bool {
	if c.Enabled != nil {
		return *c.Enabled
	}
	return true
}

// Load reads config.yaml, applies defaults and resolves relative paths
// against the directory holding the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	ApplyDefaults(&cfg)
	cfg.resolvePaths(filepath.Dir(path))
	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}

func (c *Config) resolvePaths(dir string) {
	for _, p := range []*string{&c.State.Path, &c.Paths.Content, &c.Paths.Audio, &c.Paths.Video, &c.Paths.Thumbnail, &c.Paths.Logs} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}
