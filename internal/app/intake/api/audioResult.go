package api

import "github.com/legalconnect/intakego/internal/pkg/persistence"

// AudioResult is the processed audio record returned in JSON.
// Binary audio tracks marshal as base64 strings.
type AudioResult struct {
	ID            string `json:"id"`
	Language      string `json:"language"`
	OriginalText  string `json:"originalText"`
	MaskedText    string `json:"maskedText"`
	MaskedAudioEn []byte `json:"maskedAudioEn,omitempty"`
	MaskedTextGu  string `json:"maskedTextGu,omitempty"`
	MaskedAudioGu []byte `json:"maskedAudioGu,omitempty"`
	UserID        string `json:"userId,omitempty"`
	CaseID        string `json:"caseId,omitempty"`
	LawyerID      string `json:"lawyerId,omitempty"`
}

// NewAudioResult maps a stored record to the response structure
func NewAudioResult(r *persistence.AudioRecord) *AudioResult {
	return &AudioResult{ID: r.ID, Language: r.Language,
		OriginalText: r.OriginalText, MaskedText: r.MaskedText,
		MaskedAudioEn: r.MaskedAudioEn, MaskedTextGu: r.MaskedTextGu,
		MaskedAudioGu: r.MaskedAudioGu,
		UserID:        r.UserID, CaseID: r.CaseID, LawyerID: r.LawyerID}
}
