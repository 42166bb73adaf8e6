package domain

import "time"

// ResearchMarkers are the topic values that qualify a long-form event as a paper.
var ResearchMarkers = []string{"research", "science", "academic"}

// FeedTopics is the topic set requested for the default paper feed.
var FeedTopics = []string{
	"research", "science", "academic", "physics", "biology", "chemistry",
	"mathematics", "computer-science", "medicine", "engineering",
}

// ResearchTopics is the catalogue offered when submitting a paper.
var ResearchTopics = []string{
	"physics", "biology", "chemistry", "mathematics", "computer-science",
	"medicine", "engineering", "economics", "psychology", "neuroscience",
	"astronomy", "geology", "environmental-science", "materials-science",
	"artificial-intelligence", "quantum-computing", "biotechnology",
}

// Defaults applied when optional paper tags are missing.
const (
	DefaultAuthors  = "Anonymous"
	DefaultZapLimit = 10
)

// AnonymousAuthor replaces the author string inside the anonymity window.
const AnonymousAuthor = "Anonymous Researcher"

// Paper is a validated long-form research submission.
type Paper struct {
	// ID is the event id of the paper revision.
	ID string `json:"id"`

	// Author is the publishing pubkey.
	Author string `json:"author"`

	// CreatedAt is the event creation time.
	CreatedAt time.Time `json:"created_at"`

	// Slug is the d-tag, unique per author.
	Slug string `json:"slug"`

	// Title is the paper title.
	Title string `json:"title"`

	// Abstract is the summary, empty when not provided.
	Abstract string `json:"abstract"`

	// Authors is the free-form author list string.
	Authors string `json:"authors"`

	// Topics holds every t tag value.
	Topics []string `json:"topics"`

	// Keywords is the comma-split keywords tag.
	Keywords []string `json:"keywords,omitempty"`

	DOI         string `json:"doi,omitempty"`
	Institution string `json:"institution,omitempty"`
	Funding     string `json:"funding,omitempty"`

	// Content is the raw markdown body.
	Content string `json:"content"`

	// PublishedAt is the normalised publish instant.
	// It falls back to CreatedAt when the published_at tag is absent.
	PublishedAt time.Time `json:"published_at"`

	// PublishedAtValid is false when the publish timestamp could not be parsed.
	PublishedAtValid bool `json:"published_at_valid"`

	// ZapLimit is the maximum zap in sats suggested by the author.
	ZapLimit int `json:"zap_limit"`

	// Price is the author-declared price tag, zero when absent.
	Price int `json:"price,omitempty"`
}

// Address returns the NIP-33 address of the paper.
func (p *Paper) Address() string {
	return Address(KindLongForm, p.Author, p.Slug)
}

// Anonymity evaluates the anonymity window at now.
// A paper with an unparseable publish timestamp is never anonymous.
func (p *Paper) Anonymity(now time.Time) AnonymityWindow {
	if !p.PublishedAtValid {
		return AnonymityWindow{EndsAt: p.PublishedAt.Add(AnonymityPeriod)}
	}
	return EvaluateAnonymity(p.PublishedAt, now)
}

// DisplayAuthor returns the author string to show at now,
// hiding identity while the anonymity window is open.
func (p *Paper) DisplayAuthor(now time.Time) string {
	if p.Anonymity(now).Anonymous {
		return AnonymousAuthor
	}
	return p.Authors
}

// IsResearchMarker reports whether topic is one of ResearchMarkers.
func IsResearchMarker(topic string) bool {
	for _, m := range ResearchMarkers {
		if m == topic {
			return true
		}
	}
	return false
}

// PaperSubmission is the user input for publishing a new paper.
type PaperSubmission struct {
	Title       string   `json:"title" validate:"required,min=10,max=200"`
	Abstract    string   `json:"abstract" validate:"required,min=100,max=2000"`
	Content     string   `json:"content" validate:"required,min=500"`
	Authors     string   `json:"authors" validate:"required"`
	Keywords    string   `json:"keywords" validate:"required"`
	Topics      []string `json:"topics" validate:"min=1,dive,required"`
	DOI         string   `json:"doi,omitempty"`
	Funding     string   `json:"funding,omitempty"`
	Institution string   `json:"institution,omitempty"`
}
