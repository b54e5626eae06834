package openai

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/legalconnect/intakego/internal/pkg/cmdapp"
	"github.com/legalconnect/intakego/internal/pkg/utils"
	"github.com/pkg/errors"
)

type speechRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
	Voice string `json:"voice"`
}

// Synthesizer calls the text to speech service and returns binary audio
type Synthesizer struct {
	httpclient *http.Client
	url        string
	key        string
	model      string
	voices     map[string]string
}

// NewSynthesizer creates a speech synthesis client from config
func NewSynthesizer() (*Synthesizer, error) {
	res := Synthesizer{}
	var err error
	res.url, err = getServiceURL("audio/speech")
	if err != nil {
		return nil, err
	}
	res.key = cmdapp.Config.GetString("openai.key")
	if res.key == "" {
		return nil, errors.New("No openai.key setting provided")
	}
	res.model = cmdapp.Config.GetString("openai.speechModel")
	if res.model == "" {
		res.model = "tts-1"
	}
	res.voices = map[string]string{
		"en": cmdapp.Config.GetString("openai.voice.en"),
		"gu": cmdapp.Config.GetString("openai.voice.gu"),
	}
	res.httpclient = &http.Client{Timeout: time.Second * 120}
	return &res, nil
}

// Synthesize converts text to audio for the language tag ("en" or "gu")
func (s *Synthesizer) Synthesize(text string, lang string) ([]byte, error) {
	voice := s.voices[lang]
	if voice == "" {
		voice = "alloy"
	}
	inData := speechRequest{Model: s.model, Input: text, Voice: voice}
	b, err := json.Marshal(&inData)
	if err != nil {
		return nil, errors.Wrap(err, "Can't marshal request")
	}
	req, err := http.NewRequest("POST", s.url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.key)

	cmdapp.Log.Infof("Sending speech request (%s) to: %s", lang, s.url)
	resp, err := s.httpclient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	err = utils.ValidateResponse(resp)
	if err != nil {
		return nil, errors.Wrap(err, "Can't synthesize speech")
	}

	res, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read response")
	}
	if len(res) == 0 {
		return nil, errors.New("Empty audio result")
	}
	return res, nil
}
