package publish

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"video-maker-pipeline/googleapis"
)

// Publisher uploads a video and its thumbnail.
type Publisher interface {
	UploadVideo(ctx context.Context, cred oauth2.TokenSource, path string, meta Metadata, progress func(sent, total int64)) (string, error)
	UploadThumbnail(ctx context.Context, cred oauth2.TokenSource, videoID, path string) error
}

// YouTubePublisher uses the YouTube Data API v3.
type YouTubePublisher struct {
	// Options are appended to the client options of every service.
	Options           []option.ClientOption
	MadeForKids       bool
	NotifySubscribers bool
}

func (p *YouTubePublisher) service(ctx context.Context, cred oauth2.TokenSource) (*youtube.Service, error) {
	opts := append([]option.ClientOption{option.WithTokenSource(cred)}, p.Options...)
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	return svc, nil
}

// UploadVideo sends the file as a resumable upload and returns the new
// video's ID. progress receives bytes sent against the file size.
func (p *YouTubePublisher) UploadVideo(ctx context.Context, cred oauth2.TokenSource, path string, meta Metadata, progress func(sent, total int64)) (string, error) {
	svc, err := p.service(ctx, cred)
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open video file: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat video file: %w", err)
	}
	size := fi.Size()

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:                meta.Title,
			Description:          meta.Description,
			Tags:                 meta.Tags,
			CategoryId:           meta.CategoryID,
			DefaultLanguage:      meta.Language,
			DefaultAudioLanguage: meta.Language,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           meta.Privacy,
			SelfDeclaredMadeForKids: p.MadeForKids,
		},
	}

	call := svc.Videos.Insert([]string{"snippet", "status"}, video).
		NotifySubscribers(p.NotifySubscribers).
		Media(f)
	if progress != nil {
		call.ProgressUpdater(func(current, _ int64) { progress(current, size) })
	}

	uploaded, err := call.Context(ctx).Do()
	if err != nil {
		return "", googleapis.WrapError("youtube upload", err)
	}
	if progress != nil {
		progress(size, size)
	}
	return uploaded.Id, nil
}

func (p *YouTubePublisher) UploadThumbnail(ctx context.Context, cred oauth2.TokenSource, videoID, path string) error {
	svc, err := p.service(ctx, cred)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open thumbnail: %w", err)
	}
	defer f.Close()

	if _, err := svc.Thumbnails.Set(videoID).Media(f).Context(ctx).Do(); err != nil {
		return googleapis.WrapError("youtube thumbnail", err)
	}
	return nil
}

func videoURL(id string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", id)
}
