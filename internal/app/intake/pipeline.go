package intake

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/legalconnect/intakego/internal/pkg/cmdapp"
	"github.com/legalconnect/intakego/internal/pkg/messages"
	"github.com/legalconnect/intakego/internal/pkg/persistence"
	"github.com/pkg/errors"
)

// ErrTranscribe indicates the transcription stage failed or returned blank text.
// It is the only pipeline error reported to the caller.
var ErrTranscribe = errors.New("can't transcribe audio")

// Transcriber converts audio bytes to English text
type Transcriber interface {
	Transcribe(audio []byte, mime string, fileName string) (string, error)
}

// Masker replaces personal data in text with mask literals
type Masker interface {
	Mask(text string) string
}

// Translator translates masked English text to Gujarati
type Translator interface {
	Translate(text string) (string, error)
}

// Synthesizer generates audio for text in the given language
type Synthesizer interface {
	Synthesize(text string, lang string) ([]byte, error)
}

// Classifier infers a legal category for masked text
type Classifier interface {
	Classify(text string) string
}

// AudioSaver persists audio records
type AudioSaver interface {
	Save(record *persistence.AudioRecord) error
	LinkCase(id string, caseID string) error
}

// CaseCreator registers a new case record
type CaseCreator interface {
	Create(userID string, title string, caseType string, category string, description string) (string, error)
}

// EventSender publishes case events to the broker
type EventSender interface {
	Send(event *messages.CaseEvent, queue string) error
}

const (
	maxDescriptionLen = 500
	defaultCaseType   = "General"
)

type pipelineInput struct {
	audio     []byte
	mime      string
	fileName  string
	userID    string
	caseTitle string
	email     string
}

// stageResult holds a stage output or marks the stage as skipped
type stageResult struct {
	value   string
	skipped bool
}

type audioStageResult struct {
	data    []byte
	skipped bool
}

func skippedStage() stageResult {
	return stageResult{skipped: true}
}

func stageValue(v string) stageResult {
	return stageResult{value: v}
}

// runPipeline processes one upload. Transcription and persistence failures
// abort, every other stage degrades the record and the run continues.
func runPipeline(data *ServiceData, inp *pipelineInput) (*persistence.AudioRecord, error) {
	cmdapp.Log.Infof("Starting audio pipeline for %s (%d bytes)", inp.fileName, len(inp.audio))

	text, err := data.Transcriber.Transcribe(inp.audio, inp.mime, inp.fileName)
	if err != nil {
		cmdapp.Log.Error(err)
		return nil, ErrTranscribe
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrTranscribe
	}
	cmdapp.Log.Infof("Transcription completed. Length: %d", len(text))

	masked := maskText(data, text)
	audioEn := synthesize(data, masked.value, "en")
	maskedGu := translateText(data, masked.value)
	audioGu := audioStageResult{skipped: true}
	if !maskedGu.skipped && strings.TrimSpace(maskedGu.value) != "" {
		audioGu = synthesize(data, maskedGu.value, "gu")
	}

	record := &persistence.AudioRecord{
		ID:            uuid.New().String(),
		Language:      "english",
		OriginalText:  text,
		MaskedText:    masked.value,
		MaskedAudioEn: audioEn.data,
		MaskedTextGu:  maskedGu.value,
		MaskedAudioGu: audioGu.data,
		UserID:        inp.userID,
		Email:         inp.email,
	}
	err = data.AudioSaver.Save(record)
	if err != nil {
		return nil, errors.Wrap(err, "can't save audio record")
	}

	if inp.userID == "" {
		cmdapp.Log.Warnf("No userId, skipping case creation for audio %s", record.ID)
		return record, nil
	}
	createCase(data, record, inp)
	return record, nil
}

func maskText(data *ServiceData, text string) stageResult {
	masked := data.Masker.Mask(text)
	if strings.TrimSpace(masked) == "" {
		cmdapp.Log.Warn("Masking returned empty, falling back to original")
		return stageValue(text)
	}
	return stageValue(masked)
}

func translateText(data *ServiceData, text string) stageResult {
	res, err := data.Translator.Translate(text)
	if err != nil {
		cmdapp.Log.Error(errors.Wrap(err, "translation failed"))
		return skippedStage()
	}
	return stageValue(res)
}

func synthesize(data *ServiceData, text string, lang string) audioStageResult {
	res, err := data.Synthesizer.Synthesize(text, lang)
	if err != nil {
		cmdapp.Log.Error(errors.Wrapf(err, "%s speech synthesis failed", lang))
		return audioStageResult{skipped: true}
	}
	return audioStageResult{data: res}
}

// createCase registers a case for the record owner and links the record to it.
// Failures here never fail the upload, the saved audio is preserved.
func createCase(data *ServiceData, record *persistence.AudioRecord, inp *pipelineInput) {
	title := strings.TrimSpace(inp.caseTitle)
	if title == "" {
		fn := inp.fileName
		if fn == "" {
			fn = "recording"
		}
		title = "Case from Audio - " + fn
	}

	description := record.MaskedText
	if description == "" {
		description = "Case created from audio upload"
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		description = string([]rune(description)[:maxDescriptionLen-3]) + "..."
	}

	category := data.Classifier.Classify(record.MaskedText)

	caseID, err := data.CaseCreator.Create(inp.userID, title, defaultCaseType, category, description)
	if err != nil {
		cmdapp.Log.Error(errors.Wrapf(err, "can't create case for user %s", inp.userID))
		return
	}
	record.CaseID = caseID
	err = data.AudioSaver.LinkCase(record.ID, caseID)
	if err != nil {
		cmdapp.Log.Error(errors.Wrapf(err, "can't link audio %s to case %s", record.ID, caseID))
	}
	cmdapp.Log.Infof("Linked audio %s to new case %s", record.ID, caseID)

	sendCaseEvent(data, record, category)
}

func sendCaseEvent(data *ServiceData, record *persistence.AudioRecord, category string) {
	if data.EventSender == nil {
		return
	}
	ev := messages.NewCaseEvent(record.ID, record.CaseID, record.UserID, record.Email, category)
	err := data.EventSender.Send(ev, messages.CaseCreated)
	if err != nil {
		cmdapp.Log.Error(errors.Wrap(err, "can't send case event"))
	}
}
