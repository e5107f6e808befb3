// Package profile loads the applicant profile and answers attribute lookups
// and knowledge retrieval for the fill pipeline.
package profile

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"github.com/rotisserie/eris"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/tlweave2/AI-Job-Application-Agent/internal/model"
)

// Match is a fuzzy attribute lookup result.
type Match struct {
	Key   string
	Value string
	Score float64
}

// Store holds the flattened applicant profile and its knowledge documents.
type Store struct {
	attrs map[string]string
	keys  []string
	docs  []model.KnowledgeDoc
}

// fileProfile is the on-disk YAML shape. Attributes may nest arbitrarily and
// are flattened to dotted keys on load (personal.email, education.gpa, ...).
type fileProfile struct {
	Attributes map[string]any       `yaml:"attributes"`
	Documents  []model.KnowledgeDoc `yaml:"documents"`
}

// Load reads an applicant profile from a YAML file.
func Load(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "profile: read file")
	}

	var fp fileProfile
	if err := yaml.Unmarshal(raw, &fp); err != nil {
		return nil, eris.Wrap(err, "profile: parse yaml")
	}

	attrs := make(map[string]string)
	flatten("", fp.Attributes, attrs)
	if len(attrs) == 0 {
		return nil, eris.New("profile: no attributes defined")
	}

	return New(model.Profile{Attributes: attrs, Documents: fp.Documents}), nil
}

// New builds a Store from an already-flattened profile.
func New(p model.Profile) *Store {
	keys := make([]string, 0, len(p.Attributes))
	for k := range p.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Store{attrs: p.Attributes, keys: keys, docs: p.Documents}
}

// flatten walks nested maps, joining key segments with dots. List leaves are
// joined with ", "; explicit nulls are dropped.
func flatten(prefix string, in map[string]any, out map[string]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, fmt.Sprint(item))
			}
			out[key] = strings.Join(parts, ", ")
		case nil:
		default:
			out[key] = strings.TrimSpace(fmt.Sprint(val))
		}
	}
}

// Attribute looks up an exact dotted key.
func (s *Store) Attribute(key string) (string, bool) {
	v, ok := s.attrs[strings.TrimSpace(key)]
	return v, ok
}

// Keys returns the attribute keys in sorted order.
func (s *Store) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of attributes.
func (s *Store) Len() int { return len(s.attrs) }

// Documents returns the knowledge documents for retrieval.
func (s *Store) Documents() []model.KnowledgeDoc { return s.docs }

// Summary renders the profile as "- key: value" lines for prompt injection.
func (s *Store) Summary() string {
	var b strings.Builder
	for _, k := range s.keys {
		b.WriteString("- ")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(s.attrs[k])
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// BestMatch finds the attribute closest to a field label. Each key is scored
// against the label twice, once by its leaf segment and once by the full
// dotted path, keeping the higher score. Returns false when no attribute
// reaches threshold.
func (s *Store) BestMatch(label string, threshold float64) (Match, bool) {
	normLabel := normalizeLabel(label)
	if normLabel == "" {
		return Match{}, false
	}

	var best Match
	for _, key := range s.keys {
		score := keyScore(normLabel, key)
		if score > best.Score {
			best = Match{Key: key, Value: s.attrs[key], Score: score}
		}
	}
	if best.Score < threshold {
		return Match{}, false
	}
	return best, true
}

var matchParams = levenshtein.NewParams()

func keyScore(normLabel, key string) float64 {
	leaf := key
	if i := strings.LastIndex(key, "."); i >= 0 {
		leaf = key[i+1:]
	}
	score := matchScore(normLabel, normalizeLabel(leaf))
	if full := matchScore(normLabel, normalizeLabel(key)); full > score {
		score = full
	}
	return score
}

// matchScore ranks exact normalized matches highest, then whole-token
// containment in either direction, then edit-distance similarity.
func matchScore(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	if containsAllTokens(a, b) || containsAllTokens(b, a) {
		return 0.9
	}
	return levenshtein.Similarity(a, b, matchParams)
}

func containsAllTokens(haystack, needle string) bool {
	have := make(map[string]bool)
	for _, t := range strings.Fields(haystack) {
		have[t] = true
	}
	for _, t := range strings.Fields(needle) {
		if !have[t] {
			return false
		}
	}
	return true
}

// stripMarks removes diacritic marks so "Résumé" normalizes to "resume".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeLabel lowercases, strips diacritics, and collapses everything
// that is not a letter or digit into single spaces.
func normalizeLabel(s string) string {
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
