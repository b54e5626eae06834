package openai

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/legalconnect/intakego/internal/pkg/cmdapp"
	"github.com/legalconnect/intakego/internal/pkg/utils"
	"github.com/pkg/errors"
)

// Transcriber sends audio to the speech to text service.
// The service translates while transcribing, so the result is always English.
type Transcriber struct {
	httpclient *retryablehttp.Client
	url        string
	key        string
	model      string
}

// NewTranscriber creates a transcriber client from config
func NewTranscriber() (*Transcriber, error) {
	res := Transcriber{}
	var err error
	res.url, err = getServiceURL("audio/translations")
	if err != nil {
		return nil, err
	}
	res.key = cmdapp.Config.GetString("openai.key")
	if res.key == "" {
		return nil, errors.New("No openai.key setting provided")
	}
	res.model = cmdapp.Config.GetString("openai.transcribeModel")
	if res.model == "" {
		res.model = "whisper-1"
	}
	res.httpclient = retryablehttp.NewClient()
	res.httpclient.RetryMax = 3
	res.httpclient.Logger = nil
	return &res, nil
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe sends audio bytes and returns English transcript text.
// It fails on service errors and on an empty or blank transcript.
func (t *Transcriber) Transcribe(audio []byte, mime string, fileName string) (string, error) {
	cmdapp.Log.Infof("Sending audio to: %s", t.url)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := createAudioPart(writer, fileName, mime)
	if err != nil {
		return "", errors.Wrap(err, "Can't add file to request")
	}
	_, err = part.Write(audio)
	if err != nil {
		return "", errors.Wrap(err, "Can't add file to request")
	}
	writer.WriteField("model", t.model)
	writer.Close()

	req, err := retryablehttp.NewRequest("POST", t.url, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+t.key)

	resp, err := t.httpclient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	err = utils.ValidateResponse(resp)
	if err != nil {
		return "", errors.Wrap(err, "Can't transcribe audio")
	}

	var respData transcriptionResponse
	err = json.NewDecoder(resp.Body).Decode(&respData)
	if err != nil {
		return "", errors.Wrap(err, "Can't decode response")
	}
	if strings.TrimSpace(respData.Text) == "" {
		return "", errors.New("Empty transcription result")
	}
	return respData.Text, nil
}

func createAudioPart(writer *multipart.Writer, fileName string, mime string) (io.Writer, error) {
	if mime == "" {
		mime = "audio/wav"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+escapeQuotes(fileName)+`"`)
	h.Set("Content-Type", mime)
	return writer.CreatePart(h)
}

func escapeQuotes(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, "\\\"").Replace(s)
}
