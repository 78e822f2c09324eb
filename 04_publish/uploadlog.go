package publish

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// uploadRecord is one entry in the logs directory per published video.
type uploadRecord struct {
	RunID      string   `json:"run_id"`
	VideoID    string   `json:"video_id"`
	VideoURL   string   `json:"video_url"`
	Title      string   `json:"title"`
	Tags       []string `json:"tags"`
	Privacy    string   `json:"privacy"`
	VideoFile  string   `json:"video_file"`
	UploadedAt string   `json:"uploaded_at"`
}

// logUpload saves the upload result to dir and returns the file written.
func logUpload(dir string, rec uploadRecord, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	rec.UploadedAt = now.UTC().Format(time.RFC3339)

	logFile := filepath.Join(dir, fmt.Sprintf("upload_%s_%s.json", now.Format("20060102_150405"), rec.VideoID))
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(logFile, data, 0644); err != nil {
		return "", err
	}
	return logFile, nil
}
