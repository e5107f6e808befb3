package profile

import (
	"sort"
	"strings"
)

// Snippet is a retrieved knowledge excerpt with its relevance score.
type Snippet struct {
	Topic   string
	Content string
	Score   int
}

// Retrieve returns the k knowledge documents most relevant to question,
// scored by keyword overlap against topic and content. Documents with zero
// overlap are omitted; ties keep the profile's document order.
func (s *Store) Retrieve(question string, k int) []Snippet {
	if k <= 0 || len(s.docs) == 0 {
		return nil
	}
	keywords := extractKeywords(question)
	if len(keywords) == 0 {
		return nil
	}

	scored := make([]Snippet, 0, len(s.docs))
	for _, doc := range s.docs {
		haystack := strings.ToLower(doc.Topic + "\n" + doc.Content)
		score := 0
		for _, kw := range keywords {
			score += strings.Count(haystack, kw)
		}
		if score == 0 {
			continue
		}
		scored = append(scored, Snippet{Topic: doc.Topic, Content: doc.Content, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// extractKeywords returns lowercase words of 3+ characters from text,
// excluding common stop words.
func extractKeywords(text string) []string {
	stopWords := map[string]bool{
		"the": true, "and": true, "for": true, "are": true, "was": true,
		"were": true, "been": true, "have": true, "has": true, "had": true,
		"this": true, "that": true, "with": true, "from": true, "what": true,
		"how": true, "does": true, "which": true, "where": true, "when": true,
		"who": true, "why": true, "can": true, "will": true, "not": true,
		"you": true, "your": true, "our": true, "about": true, "tell": true,
		"please": true, "describe": true,
	}

	words := strings.Fields(strings.ToLower(text))
	var keywords []string
	seen := make(map[string]bool)
	for _, w := range words {
		w = strings.Trim(w, "?.,!;:'\"()[]{}")
		if len(w) < 3 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
	}
	return keywords
}
