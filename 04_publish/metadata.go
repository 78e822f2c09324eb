package publish

import (
	"strings"
	"unicode/utf8"

	"video-maker-pipeline/types"
)

// YouTube limits on snippet fields.
const (
	maxTitleRunes      = 100
	maxDescriptionSize = 5000
	maxTagsSize        = 500
)

// Metadata is what the upload sends as the video snippet and status.
type Metadata struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	Privacy     string
	Language    string
}

// BuildMetadata derives the upload metadata from the document: the title is
// the prefix and search term, the description is every sentence separated by
// a blank line, and the tags are the search term followed by the first
// sentence's keywords.
func BuildMetadata(doc *types.Document, categoryID, privacy, language string) Metadata {
	title := strings.TrimSpace(doc.Prefix + " " + doc.SearchTerm)
	tags := []string{doc.SearchTerm}
	if len(doc.Sentences) > 0 {
		tags = append(tags, doc.Sentences[0].Keywords...)
	}

	return Metadata{
		Title:       truncateRunes(stripAngleBrackets(title), maxTitleRunes),
		Description: truncateBytes(stripAngleBrackets(strings.Join(doc.Texts(), "\n\n")), maxDescriptionSize),
		Tags:        limitTags(tags, maxTagsSize),
		CategoryID:  categoryID,
		Privacy:     privacy,
		Language:    language,
	}
}

// stripAngleBrackets removes the two characters YouTube rejects in titles
// and descriptions.
func stripAngleBrackets(s string) string {
	return strings.NewReplacer("<", "", ">", "").Replace(s)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}

// limitTags drops empty tags and stops before the combined length passes
// limit.
func limitTags(tags []string, limit int) []string {
	out := make([]string, 0, len(tags))
	size := 0
	for _, tag := range tags {
		tag = strings.TrimSpace(stripAngleBrackets(tag))
		if tag == "" {
			continue
		}
		if size+len(tag) > limit {
			break
		}
		size += len(tag)
		out = append(out, tag)
	}
	return out
}
