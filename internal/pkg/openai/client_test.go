package openai

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/legalconnect/intakego/internal/pkg/cmdapp"
	"github.com/stretchr/testify/assert"
)

type testResp struct {
	code int
	resp string
}

type testReq struct {
	body        string
	contentType string
	auth        string
}

func newTestR(code int, resp string) testResp {
	return testResp{code: code, resp: resp}
}

func initTestServer(t *testing.T, resp testResp) (*httptest.Server, *[]testReq) {
	t.Helper()
	resRequest := make([]testReq, 0)
	rLock := &sync.Mutex{}
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		rLock.Lock()
		defer rLock.Unlock()
		b, _ := io.ReadAll(req.Body)
		resRequest = append(resRequest, testReq{body: string(b),
			contentType: req.Header.Get("Content-Type"), auth: req.Header.Get("Authorization")})
		rw.WriteHeader(resp.code)
		rw.Write([]byte(resp.resp))
	}))
	return server, &resRequest
}

func newTestClient(url string) *Client {
	return &Client{httpclient: &http.Client{Timeout: time.Second}, url: url, key: "testKey", model: "test-model"}
}

func TestComplete(t *testing.T) {
	server, tReq := initTestServer(t, newTestR(200,
		`{"choices":[{"message":{"content":"the answer"}}]}`))
	defer server.Close()

	c := newTestClient(server.URL)
	res, err := c.Complete("sys", "user text", 0.3, 100)
	assert.Nil(t, err)
	assert.Equal(t, "the answer", res)
	assert.Equal(t, 1, len(*tReq))
	assert.Equal(t, "Bearer testKey", (*tReq)[0].auth)

	var in chatRequest
	assert.Nil(t, json.Unmarshal([]byte((*tReq)[0].body), &in))
	assert.Equal(t, "test-model", in.Model)
	assert.Equal(t, 2, len(in.Messages))
	assert.Equal(t, "system", in.Messages[0].Role)
	assert.Equal(t, "user text", in.Messages[1].Content)
}

func TestGetServiceURL(t *testing.T) {
	cmdapp.Config.Set("openai.url", "https://api.openai.com/v1")
	u, err := getServiceURL("chat/completions")
	assert.Nil(t, err)
	assert.Equal(t, "https://api.openai.com/v1/chat/completions", u)
}

func TestGetServiceURL_FailNoBase(t *testing.T) {
	cmdapp.Config.Set("openai.url", "")
	_, err := getServiceURL("audio/speech")
	assert.NotNil(t, err)
}

func TestComplete_FailCode(t *testing.T) {
	server, _ := initTestServer(t, newTestR(500, "error"))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.Complete("sys", "user text", 0, 0)
	assert.NotNil(t, err)
}

func TestComplete_FailInResponse(t *testing.T) {
	server, _ := initTestServer(t, newTestR(200, `{"error":{"message":"quota"}}`))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.Complete("sys", "user text", 0, 0)
	assert.NotNil(t, err)
}

func TestComplete_FailNoChoices(t *testing.T) {
	server, _ := initTestServer(t, newTestR(200, `{"choices":[]}`))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.Complete("sys", "user text", 0, 0)
	assert.NotNil(t, err)
}

func newTestTranscriber(url string) *Transcriber {
	cl := retryablehttp.NewClient()
	cl.RetryMax = 0
	cl.Logger = nil
	return &Transcriber{httpclient: cl, url: url, key: "testKey", model: "whisper-1"}
}

func TestTranscribe(t *testing.T) {
	server, tReq := initTestServer(t, newTestR(200, `{"text":"hello world"}`))
	defer server.Close()

	tr := newTestTranscriber(server.URL)
	res, err := tr.Transcribe([]byte("audio"), "audio/mp3", "a.mp3")
	assert.Nil(t, err)
	assert.Equal(t, "hello world", res)
	assert.Equal(t, 1, len(*tReq))
	assert.Contains(t, (*tReq)[0].contentType, "multipart/form-data")
	assert.Contains(t, (*tReq)[0].body, `filename="a.mp3"`)
	assert.Contains(t, (*tReq)[0].body, "audio/mp3")
	assert.Contains(t, (*tReq)[0].body, "whisper-1")
}

func TestTranscribe_FailEmptyText(t *testing.T) {
	server, _ := initTestServer(t, newTestR(200, `{"text":"  "}`))
	defer server.Close()

	tr := newTestTranscriber(server.URL)
	_, err := tr.Transcribe([]byte("audio"), "audio/wav", "a.wav")
	assert.NotNil(t, err)
}

func TestTranscribe_FailCode(t *testing.T) {
	server, _ := initTestServer(t, newTestR(400, "bad request"))
	defer server.Close()

	tr := newTestTranscriber(server.URL)
	_, err := tr.Transcribe([]byte("audio"), "audio/wav", "a.wav")
	assert.NotNil(t, err)
}

func newTestSynthesizer(url string) *Synthesizer {
	return &Synthesizer{httpclient: &http.Client{Timeout: time.Second}, url: url, key: "testKey",
		model: "tts-1", voices: map[string]string{"en": "alloy", "gu": "shimmer"}}
}

func TestSynthesize(t *testing.T) {
	server, tReq := initTestServer(t, newTestR(200, "binary audio"))
	defer server.Close()

	s := newTestSynthesizer(server.URL)
	res, err := s.Synthesize("some text", "gu")
	assert.Nil(t, err)
	assert.Equal(t, []byte("binary audio"), res)

	var in speechRequest
	assert.Nil(t, json.Unmarshal([]byte((*tReq)[0].body), &in))
	assert.Equal(t, "shimmer", in.Voice)
	assert.Equal(t, "some text", in.Input)
}

func TestSynthesize_FailCode(t *testing.T) {
	server, _ := initTestServer(t, newTestR(503, "down"))
	defer server.Close()

	s := newTestSynthesizer(server.URL)
	_, err := s.Synthesize("some text", "en")
	assert.NotNil(t, err)
}

func TestSynthesize_FailEmpty(t *testing.T) {
	server, _ := initTestServer(t, newTestR(200, ""))
	defer server.Close()

	s := newTestSynthesizer(server.URL)
	_, err := s.Synthesize("some text", "en")
	assert.NotNil(t, err)
}
