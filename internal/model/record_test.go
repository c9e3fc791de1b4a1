package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRecord(t *testing.T) {
	rec := DefaultRecord("https://example.com")

	assert.Equal(t, "https://example.com", rec.SourceURL)
	assert.Equal(t, "https://example.com", rec.ResolvedURL)
	assert.Equal(t, DefaultTitle, rec.Title)
	assert.Len(t, rec.Benefits, 3)
	assert.Len(t, rec.Testimonials, 2)
}

func TestClone(t *testing.T) {
	rec := DefaultRecord("u")
	clone := rec.Clone()
	require.Equal(t, rec, clone)

	clone.Title = "changed"
	clone.Benefits[0] = "changed"
	assert.Equal(t, DefaultTitle, rec.Title)
	assert.Equal(t, "Resultados comprovados", rec.Benefits[0])

	var nilRec *ExtractedRecord
	assert.Nil(t, nilRec.Clone())
}
