package types

import "time"

// Sentence is one positional unit of the video: its text, the ranked keywords
// extracted from it and the images found for it.
type Sentence struct {
	Text              string   `json:"text"`
	Keywords          []string `json:"keywords,omitempty"`
	Images            []string `json:"images,omitempty"`
	GoogleSearchQuery string   `json:"googleSearchQuery,omitempty"`
	SelectedImage     string   `json:"selectedImage,omitempty"`
}

// PrimaryKeyword returns keywords[0], or "" when no keywords are set.
func (s Sentence) PrimaryKeyword() string {
	if len(s.Keywords) == 0 {
		return ""
	}
	return s.Keywords[0]
}

// StageStatus is the lifecycle of one pipeline stage as recorded in the document
type StageStatus string

const (
	StagePending   StageStatus = "pending"
	StageRunning   StageStatus = "running"
	StageCompleted StageStatus = "completed"
	StageFailed    StageStatus = "failed"
)

// StageState is the persisted outcome of the last attempt of a stage
type StageState struct {
	Status      StageStatus `json:"status"`
	CompletedAt string      `json:"completedAt,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// Document is the single unit of state that every stage reads and refines.
// Fields are either absent (stage not run) or fully populated.
type Document struct {
	RunID            string `json:"runId"`
	CreatedAt        string `json:"createdAt"`
	SearchTerm       string `json:"searchTerm"`
	Prefix           string `json:"prefix"`
	Lang             string `json:"lang,omitempty"`
	MaximumSentences int    `json:"maximumSentences"`

	SourceContentOriginal  string     `json:"sourceContentOriginal,omitempty"`
	SourceContentSanitized string     `json:"sourceContentSanitized,omitempty"`
	Sentences              []Sentence `json:"sentences,omitempty"`

	DownloadedImages []string `json:"downloadedImages,omitempty"`

	VideoFile     string `json:"videoFile,omitempty"`
	ThumbnailFile string `json:"thumbnailFile,omitempty"`

	YouTubeID  string `json:"youtubeId,omitempty"`
	YouTubeURL string `json:"youtubeUrl,omitempty"`

	Stages map[string]StageState `json:"stages,omitempty"`
}

// Clone returns a deep copy so a stage can work on a value it exclusively owns.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	if d.Sentences != nil {
		out.Sentences = make([]Sentence, len(d.Sentences))
		for i, s := range d.Sentences {
			s.Keywords = cloneStrings(s.Keywords)
			s.Images = cloneStrings(s.Images)
			out.Sentences[i] = s
		}
	}
	out.DownloadedImages = cloneStrings(d.DownloadedImages)
	if d.Stages != nil {
		out.Stages = make(map[string]StageState, len(d.Stages))
		for k, v := range d.Stages {
			out.Stages[k] = v
		}
	}
	return &out
}

// SetStage records the status of a stage attempt.
func (d *Document) SetStage(name string, status StageStatus, err error) {
	if d.Stages == nil {
		d.Stages = make(map[string]StageState)
	}
	st := StageState{Status: status}
	if status == StageCompleted {
		st.CompletedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if err != nil {
		st.Error = err.Error()
	}
	d.Stages[name] = st
}

// StageStatusOf returns the recorded status of a stage, pending when never attempted.
func (d *Document) StageStatusOf(name string) StageStatus {
	if st, ok := d.Stages[name]; ok {
		return st.Status
	}
	return StagePending
}

// Texts returns the sentence texts in document order
func (d *Document) Texts() []string {
	out := make([]string, len(d.Sentences))
	for i, s := range d.Sentences {
		out[i] = s.Text
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
