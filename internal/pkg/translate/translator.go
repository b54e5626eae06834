package translate

import (
	"strings"

	"github.com/legalconnect/intakego/internal/pkg/cmdapp"
	"github.com/pkg/errors"
)

const (
	// chunkSize is max amount of characters sent in one translation call
	chunkSize = 50000
	// overlapSize is repeated tail of a chunk, kept to preserve context between calls
	overlapSize = 500
)

const systemPrompt = "You are a professional translator that translates English to Gujarati " +
	"while preserving mask tokens exactly as they are."

const translationPrompt = `You are a professional translator. Translate the following English text to Gujarati.

Important requirements:
- Preserve all mask tokens exactly as they are
- Maintain the same sentence structure and meaning
- Use natural Gujarati language
- Do not translate the mask tokens, keep them in English format

Text to translate:
`

// Completer generates a completion for the given system and user prompts
type Completer interface {
	Complete(system string, user string, temperature float64, maxTokens int) (string, error)
}

// Translator translates masked English text to Gujarati.
// Long texts are split into chunks at sentence boundaries. Consecutive chunks
// overlap by a fixed window and the translated overlaps are concatenated as is,
// without deduplication.
type Translator struct {
	completer Completer
}

// NewTranslator creates Translator instance
func NewTranslator(completer Completer) (*Translator, error) {
	if completer == nil {
		return nil, errors.New("No completer provided")
	}
	return &Translator{completer: completer}, nil
}

// Translate returns Gujarati text with mask tokens left unchanged.
// A failure of a single chunk leaves that chunk untranslated in the output.
// A failure of the whole call returns an error, the caller is expected
// to skip downstream Gujarati processing.
func (t *Translator) Translate(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if len(text) <= chunkSize {
		return t.translateChunk(text)
	}
	cmdapp.Log.Infof("Text is long (%d chars), translating in chunks", len(text))
	return t.translateLong(text), nil
}

func (t *Translator) translateChunk(text string) (string, error) {
	res, err := t.completer.Complete(systemPrompt, translationPrompt+text, 0.3, maxTokensFor(text))
	if err != nil {
		return "", errors.Wrap(err, "Can't translate text")
	}
	return strings.TrimSpace(res), nil
}

func (t *Translator) translateLong(text string) string {
	var result strings.Builder
	total := len(text)
	processed := 0
	for processed < total {
		chunkEnd := processed + chunkSize
		if chunkEnd > total {
			chunkEnd = total
		}
		if chunkEnd < total {
			chunkEnd = findBreak(text, processed, chunkEnd)
		}
		chunk := text[processed:chunkEnd]
		cmdapp.Log.Debugf("Translating chunk (chars %d-%d of %d)", processed, chunkEnd, total)
		translated, err := t.translateChunk(chunk)
		if err != nil {
			// chunk passes through untranslated
			cmdapp.Log.Error(err)
			translated = chunk
		}
		result.WriteString(translated)

		if chunkEnd == total {
			break
		}
		// move forward, with overlap to keep context
		processed = chunkEnd - overlapSize
		if processed < 0 {
			processed = chunkEnd
		}
	}
	return result.String()
}

// findBreak prefers the last sentence terminator or newline in the chunk,
// falls back to a hard cut when no boundary is found past the chunk midpoint
func findBreak(text string, start int, end int) int {
	lastPeriod := strings.LastIndexByte(text[:end], '.')
	lastNewline := strings.LastIndexByte(text[:end], '\n')
	breakPoint := lastPeriod
	if lastNewline > breakPoint {
		breakPoint = lastNewline
	}
	if breakPoint > start+chunkSize/2 {
		return breakPoint + 1
	}
	return end
}

func maxTokensFor(text string) int {
	estimated := len(text)/4 + 500
	if estimated < 2000 {
		estimated = 2000
	}
	if estimated > 16000 {
		estimated = 16000
	}
	return estimated
}
