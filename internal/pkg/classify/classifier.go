package classify

import (
	"strings"

	"github.com/legalconnect/intakego/internal/pkg/cmdapp"
	"github.com/pkg/errors"
)

// Case categories
const (
	FamilyLaw = "FAMILY_LAW"
	Criminal  = "CRIMINAL"
	Property  = "PROPERTY"
	Corporate = "CORPORATE"
	Civil     = "CIVIL"
	Other     = "OTHER"
)

var categories = map[string]bool{FamilyLaw: true, Criminal: true, Property: true,
	Corporate: true, Civil: true, Other: true}

const systemPrompt = "You are a legal classification assistant."

const classificationPrompt = `You are a legal expert. Analyze the following masked legal case description and classify it into one of the following categories:
- FAMILY_LAW
- CRIMINAL
- PROPERTY
- CORPORATE
- CIVIL
- OTHER

Provide ONLY the category name as the output.

Case Description:
`

// Completer generates a completion for the given system and user prompts
type Completer interface {
	Complete(system string, user string, temperature float64, maxTokens int) (string, error)
}

// KeywordProvider returns the ordered keyword dictionary for the fallback tier
type KeywordProvider interface {
	Entries() []KeywordEntry
}

// KeywordEntry binds one category to its keyword list
type KeywordEntry struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Classifier infers a case category from masked text in two tiers:
// a remote AI call first, an ordered keyword scan when the call fails
// or answers OTHER. The keyword list order decides which category wins
// when several match.
type Classifier struct {
	completer Completer
	keywords  KeywordProvider
}

// NewClassifier creates Classifier instance
func NewClassifier(completer Completer, keywords KeywordProvider) (*Classifier, error) {
	if completer == nil {
		return nil, errors.New("No completer provided")
	}
	if keywords == nil {
		return nil, errors.New("No keyword provider")
	}
	return &Classifier{completer: completer, keywords: keywords}, nil
}

// Classify returns one of the fixed category names, OTHER when nothing matches
func (c *Classifier) Classify(text string) string {
	if strings.TrimSpace(text) == "" {
		return Other
	}
	res, err := c.completer.Complete(systemPrompt, classificationPrompt+text, 0.0, 0)
	if err != nil {
		cmdapp.Log.Warn("AI classification failed, falling back to keywords: ", err)
	} else {
		category := normalize(res)
		if categories[category] && category != Other {
			return category
		}
		if !categories[category] {
			cmdapp.Log.Warnf("Unknown AI category '%s', falling back to keywords", res)
		}
	}
	return c.classifyWithKeywords(text)
}

func (c *Classifier) classifyWithKeywords(text string) string {
	lower := strings.ToLower(text)
	for _, e := range c.keywords.Entries() {
		for _, k := range e.Keywords {
			if strings.Contains(lower, strings.ToLower(k)) {
				cmdapp.Log.Infof("Classified via keyword '%s' as %s", k, e.Category)
				return e.Category
			}
		}
	}
	return Other
}

func normalize(s string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), " ", "_")
}
