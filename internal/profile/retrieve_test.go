package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tlweave2/AI-Job-Application-Agent/internal/model"
)

func TestRetrieve_RanksByOverlap(t *testing.T) {
	t.Parallel()
	s := testStore(t)

	snippets := s.Retrieve("Tell us about your experience building video platforms with AI", 2)
	require.NotEmpty(t, snippets)
	assert.Equal(t, "VidlyAI project", snippets[0].Topic)
	assert.Greater(t, snippets[0].Score, 0)
}

func TestRetrieve_TopKLimit(t *testing.T) {
	t.Parallel()
	s := testStore(t)

	snippets := s.Retrieve("Describe a project you worked on", 1)
	assert.LessOrEqual(t, len(snippets), 1)
}

func TestRetrieve_NoOverlap(t *testing.T) {
	t.Parallel()
	s := testStore(t)

	snippets := s.Retrieve("quantum chromodynamics lattice", 3)
	assert.Empty(t, snippets)
}

func TestRetrieve_ZeroK(t *testing.T) {
	t.Parallel()
	s := testStore(t)

	assert.Nil(t, s.Retrieve("video platform", 0))
}

func TestRetrieve_NoDocuments(t *testing.T) {
	t.Parallel()
	s := New(model.Profile{Attributes: map[string]string{"personal.email": "a@b.c"}})
	assert.Nil(t, s.Retrieve("anything at all", 3))
}

func TestRetrieve_TiesKeepDocumentOrder(t *testing.T) {
	t.Parallel()
	s := New(model.Profile{
		Attributes: map[string]string{"personal.email": "a@b.c"},
		Documents: []model.KnowledgeDoc{
			{Topic: "alpha", Content: "leadership experience"},
			{Topic: "beta", Content: "leadership experience"},
		},
	})

	snippets := s.Retrieve("leadership", 2)
	require.Len(t, snippets, 2)
	assert.Equal(t, "alpha", snippets[0].Topic)
	assert.Equal(t, "beta", snippets[1].Topic)
}

func TestExtractKeywords(t *testing.T) {
	t.Parallel()

	kws := extractKeywords("Why are you interested in this position at our company?")
	assert.Contains(t, kws, "interested")
	assert.Contains(t, kws, "position")
	assert.Contains(t, kws, "company")
	assert.NotContains(t, kws, "why")
	assert.NotContains(t, kws, "you")
	assert.NotContains(t, kws, "in")
}

func TestExtractKeywords_Dedupes(t *testing.T) {
	t.Parallel()

	kws := extractKeywords("experience, experience, EXPERIENCE!")
	assert.Equal(t, []string{"experience"}, kws)
}
