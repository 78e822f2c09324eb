package config

import "path/filepath"

// ApplyDefaults fills every zero value in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Input.Prefix == "" {
		cfg.Input.Prefix = "Who is"
	}
	if cfg.Input.MaximumSentences == 0 {
		cfg.Input.MaximumSentences = 7
	}
	if cfg.Input.Lang == "" {
		cfg.Input.Lang = "en"
	}

	if cfg.Text.Source == "" {
		cfg.Text.Source = "wikipedia"
	}
	if cfg.Text.KeywordProvider == "" {
		cfg.Text.KeywordProvider = "watson"
	}
	if cfg.Text.WikipediaAPIURL == "" {
		cfg.Text.WikipediaAPIURL = "https://%s.wikipedia.org/w/api.php"
	}
	if cfg.Text.RedditSubreddit == "" {
		cfg.Text.RedditSubreddit = "all"
	}
	if cfg.Text.RedditPostLimit == 0 {
		cfg.Text.RedditPostLimit = 5
	}
	if cfg.Text.WatsonVersion == "" {
		cfg.Text.WatsonVersion = "2018-04-05"
	}
	if cfg.Text.GroqModel == "" {
		cfg.Text.GroqModel = "llama-3.1-8b-instant"
	}
	if cfg.Text.Temperature == 0 {
		cfg.Text.Temperature = 0.2
	}
	if cfg.Text.RequestsPerSecond == 0 {
		cfg.Text.RequestsPerSecond = 2
	}
	if cfg.Text.TimeoutSec == 0 {
		cfg.Text.TimeoutSec = 30
	}

	if cfg.Images.ResultsPerQuery == 0 {
		cfg.Images.ResultsPerQuery = 2
	}
	if cfg.Images.RequestsPerSecond == 0 {
		cfg.Images.RequestsPerSecond = 1
	}
	if cfg.Images.DownloadTimeout == 0 {
		cfg.Images.DownloadTimeout = 20
	}
	if cfg.Images.MinBytes == 0 {
		cfg.Images.MinBytes = 1000
	}
	if cfg.Images.MaxBytes == 0 {
		cfg.Images.MaxBytes = 10 * 1024 * 1024
	}

	if cfg.Video.Width == 0 {
		cfg.Video.Width = 1920
	}
	if cfg.Video.Height == 0 {
		cfg.Video.Height = 1080
	}
	if cfg.Video.BlurSigma == 0 {
		cfg.Video.BlurSigma = 9
	}
	if cfg.Video.FPS == 0 {
		cfg.Video.FPS = 25
	}
	if cfg.Video.HoldSec == 0 {
		cfg.Video.HoldSec = 10
	}
	if cfg.Video.TransitionSec == 0 {
		cfg.Video.TransitionSec = 1
	}
	if cfg.Video.VideoCodec == "" {
		cfg.Video.VideoCodec = "libx264"
	}
	if cfg.Video.VideoBitrate == "" {
		cfg.Video.VideoBitrate = "1024k"
	}
	if cfg.Video.PixelFormat == "" {
		cfg.Video.PixelFormat = "yuv420p"
	}
	if cfg.Video.ScalePercent == 0 {
		cfg.Video.ScalePercent = 50
	}
	if cfg.Video.AudioBitrate == "" {
		cfg.Video.AudioBitrate = "128k"
	}
	if cfg.Video.AudioChannels == 0 {
		cfg.Video.AudioChannels = 2
	}
	if cfg.Video.AudioFadeOutSec == 0 {
		cfg.Video.AudioFadeOutSec = 2
	}
	if cfg.Video.ThumbnailQuality == 0 {
		cfg.Video.ThumbnailQuality = 90
	}
	if cfg.Video.FFmpegPath == "" {
		cfg.Video.FFmpegPath = "ffmpeg"
	}

	if cfg.Captions.Font == "" {
		cfg.Captions.Font = "Impact"
	}
	if cfg.Captions.FontSize == 0 {
		cfg.Captions.FontSize = 26
	}
	if cfg.Captions.PrimaryColour == "" {
		cfg.Captions.PrimaryColour = "&H00B4FBFC"
	}
	if cfg.Captions.SecondaryColour == "" {
		cfg.Captions.SecondaryColour = cfg.Captions.PrimaryColour
	}
	if cfg.Captions.OutlineColour == "" {
		cfg.Captions.OutlineColour = "&H00000000"
	}
	if cfg.Captions.BackColour == "" {
		cfg.Captions.BackColour = "&H80000008"
	}
	if cfg.Captions.Bold == 0 {
		cfg.Captions.Bold = -1
	}
	if cfg.Captions.BorderStyle == 0 {
		cfg.Captions.BorderStyle = 1
	}
	if cfg.Captions.Outline == 0 {
		cfg.Captions.Outline = 2
	}
	if cfg.Captions.Shadow == 0 {
		cfg.Captions.Shadow = 3
	}
	if cfg.Captions.Alignment == 0 {
		cfg.Captions.Alignment = 2
	}
	if cfg.Captions.MarginL == 0 {
		cfg.Captions.MarginL = 40
	}
	if cfg.Captions.MarginR == 0 {
		cfg.Captions.MarginR = 60
	}
	if cfg.Captions.MarginV == 0 {
		cfg.Captions.MarginV = 40
	}

	if cfg.Upload.Auth == "" {
		cfg.Upload.Auth = "refresh_token"
	}
	if cfg.Upload.CallbackPort == 0 {
		cfg.Upload.CallbackPort = 5000
	}
	if cfg.Upload.ConsentTimeoutSec == 0 {
		cfg.Upload.ConsentTimeoutSec = 300
	}
	if cfg.Upload.Visibility == "" {
		cfg.Upload.Visibility = "unlisted"
	}
	if cfg.Upload.CategoryID == "" {
		cfg.Upload.CategoryID = "27" // Education
	}
	if cfg.Upload.DefaultLanguage == "" {
		cfg.Upload.DefaultLanguage = "en"
	}

	if cfg.Paths.Content == "" {
		cfg.Paths.Content = "content"
	}
	if cfg.State.Backend == "" {
		cfg.State.Backend = "file"
	}
	if cfg.State.Path == "" {
		name := "content.json"
		if cfg.State.Backend == "sqlite" {
			name = "content.db"
		}
		cfg.State.Path = filepath.Join(cfg.Paths.Content, name)
	}
	if cfg.Paths.Audio == "" {
		cfg.Paths.Audio = filepath.Join(cfg.Paths.Content, "song.mp3")
	}
	if cfg.Paths.Video == "" {
		cfg.Paths.Video = filepath.Join(cfg.Paths.Content, "video.mp4")
	}
	if cfg.Paths.Thumbnail == "" {
		cfg.Paths.Thumbnail = filepath.Join(cfg.Paths.Content, "youtube-thumbnail.jpg")
	}
	if cfg.Paths.Logs == "" {
		cfg.Paths.Logs = "logs"
	}
}
