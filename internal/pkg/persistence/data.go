package persistence

type (
	// AudioRecord keeps one processed upload. Gujarati text and both audio
	// tracks may be empty when a soft stage failed
	AudioRecord struct {
		ID            string `bson:"ID"`
		Language      string `bson:"language"`
		OriginalText  string `bson:"originalText"`
		MaskedText    string `bson:"maskedText"`
		MaskedAudioEn []byte `bson:"maskedAudioEn,omitempty"`
		MaskedTextGu  string `bson:"maskedTextGu,omitempty"`
		MaskedAudioGu []byte `bson:"maskedAudioGu,omitempty"`
		UserID        string `bson:"userID,omitempty"`
		Email         string `bson:"email,omitempty"`
		CaseID        string `bson:"caseID,omitempty"`
		LawyerID      string `bson:"lawyerID,omitempty"`
	}

	// CaseRecord keeps a legal case created from an upload
	CaseRecord struct {
		ID          string `bson:"ID"`
		UserID      string `bson:"userID"`
		LawyerID    string `bson:"lawyerID,omitempty"`
		Title       string `bson:"title"`
		Type        string `bson:"type"`
		Category    string `bson:"category"`
		Status      string `bson:"status"`
		Description string `bson:"description,omitempty"`
	}
)
