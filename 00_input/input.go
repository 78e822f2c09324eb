package input

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"video-maker-pipeline/types"
)

// Prefixes are the title prefixes offered when the prefix is given by index.
var Prefixes = []string{"Who is", "What is", "The history of"}

// Params are the values that seed a new document.
type Params struct {
	SearchTerm       string
	Prefix           string
	MaximumSentences int
	Lang             string
}

// NewDocument validates params and creates the document every later stage
// refines. A numeric prefix selects from Prefixes.
func NewDocument(p Params) (*types.Document, error) {
	term := strings.TrimSpace(p.SearchTerm)
	if term == "" {
		return nil, types.Invalid("searchTerm", "must not be empty")
	}
	if p.MaximumSentences < 1 {
		return nil, types.Invalid("maximumSentences", "must be at least 1")
	}

	prefix, err := resolvePrefix(p.Prefix)
	if err != nil {
		return nil, err
	}

	lang := p.Lang
	if lang == "" {
		lang = "en"
	}

	return &types.Document{
		RunID:            uuid.NewString()[:8],
		CreatedAt:        time.Now().UTC().Format(time.RFC3339),
		SearchTerm:       term,
		Prefix:           prefix,
		Lang:             lang,
		MaximumSentences: p.MaximumSentences,
	}, nil
}

func resolvePrefix(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return raw, nil
	}
	if idx < 0 || idx >= len(Prefixes) {
		return "", types.Invalid("prefix", "index out of range")
	}
	return Prefixes[idx], nil
}
