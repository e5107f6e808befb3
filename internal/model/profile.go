package model

// Profile holds the applicant's structured attributes (canonical dotted keys
// such as "personal.email" or "education.gpa") and free-text knowledge
// documents used to ground long-form generation. Loaded once and shared
// read-only across a run.
type Profile struct {
	Attributes map[string]string `json:"attributes"`
	Documents  []KnowledgeDoc    `json:"documents"`
}

// KnowledgeDoc is one free-text knowledge snippet keyed by topic.
type KnowledgeDoc struct {
	Topic   string `json:"topic" yaml:"topic"`
	Content string `json:"content" yaml:"content"`
}

// Attribute returns the value for a canonical attribute key.
func (p *Profile) Attribute(key string) (string, bool) {
	v, ok := p.Attributes[key]
	return v, ok
}
