package input

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-maker-pipeline/types"
)

func TestNewDocument(t *testing.T) {
	doc, err := NewDocument(Params{SearchTerm: "  Lighthouse ", Prefix: "What is", MaximumSentences: 3})
	require.NoError(t, err)

	assert.Equal(t, "Lighthouse", doc.SearchTerm)
	assert.Equal(t, "What is", doc.Prefix)
	assert.Equal(t, 3, doc.MaximumSentences)
	assert.Equal(t, "en", doc.Lang)
	assert.Len(t, doc.RunID, 8)
	assert.NotEmpty(t, doc.CreatedAt)
	assert.Empty(t, doc.Sentences)
	assert.Empty(t, doc.SourceContentOriginal)
}

func TestNewDocument_PrefixByIndex(t *testing.T) {
	doc, err := NewDocument(Params{SearchTerm: "Ada Lovelace", Prefix: "0", MaximumSentences: 7})
	require.NoError(t, err)
	assert.Equal(t, "Who is", doc.Prefix)

	_, err = NewDocument(Params{SearchTerm: "Ada Lovelace", Prefix: "9", MaximumSentences: 7})
	assert.True(t, errors.Is(err, types.ErrValidation))
}

func TestNewDocument_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		field  string
	}{
		{"empty term", Params{SearchTerm: "   ", MaximumSentences: 3}, "searchTerm"},
		{"zero cap", Params{SearchTerm: "Lighthouse", MaximumSentences: 0}, "maximumSentences"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDocument(tt.params)
			var verr *types.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}
