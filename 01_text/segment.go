package text

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Segmenter splits prose into sentences.
type Segmenter interface {
	Split(text string) []string
}

type tokenizer interface {
	Tokenize(text string) []*sentences.Sentence
}

// PunktSegmenter uses the pretrained English Punkt model, which knows common
// abbreviations such as "Dr." and "e.g.".
type PunktSegmenter struct {
	tok tokenizer
}

func NewPunktSegmenter() (*PunktSegmenter, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load sentence tokenizer: %w", err)
	}
	return &PunktSegmenter{tok: tok}, nil
}

// Split returns the trimmed, non-empty sentences of text in order.
func (ps *PunktSegmenter) Split(text string) []string {
	var out []string
	for _, s := range ps.tok.Tokenize(text) {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}
