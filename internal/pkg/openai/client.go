package openai

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/legalconnect/intakego/internal/pkg/cmdapp"
	"github.com/legalconnect/intakego/internal/pkg/utils"
	"github.com/pkg/errors"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client calls the chat completions endpoint of a remote AI service
type Client struct {
	httpclient *http.Client
	url        string
	key        string
	model      string
}

// NewClient creates a chat completions client from config
func NewClient() (*Client, error) {
	res := Client{}
	var err error
	res.url, err = getServiceURL("chat/completions")
	if err != nil {
		return nil, err
	}
	res.key = cmdapp.Config.GetString("openai.key")
	if res.key == "" {
		return nil, errors.New("No openai.key setting provided")
	}
	res.model = cmdapp.Config.GetString("openai.model")
	if res.model == "" {
		res.model = "gpt-4o-mini"
	}
	res.httpclient = &http.Client{Timeout: time.Second * 120}
	return &res, nil
}

// getServiceURL composes the endpoint URL from the openai.url base setting
func getServiceURL(endpoint string) (string, error) {
	base, err := utils.GetURLFromConfig("openai.url")
	if err != nil {
		return "", err
	}
	return utils.URLJoin(base, endpoint), nil
}

// Complete sends system and user prompts and returns the first choice content
func (c *Client) Complete(system string, user string, temperature float64, maxTokens int) (string, error) {
	inData := chatRequest{Model: c.model, Temperature: temperature, MaxTokens: maxTokens,
		Messages: []chatMessage{{Role: "system", Content: system}, {Role: "user", Content: user}}}
	b, err := json.Marshal(&inData)
	if err != nil {
		return "", errors.Wrap(err, "Can't marshal request")
	}
	req, err := http.NewRequest("POST", c.url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.key)

	cmdapp.Log.Debugf("Sending completion request to: %s", c.url)
	resp, err := c.httpclient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	err = utils.ValidateResponse(resp)
	if err != nil {
		return "", errors.Wrap(err, "Can't get completion")
	}

	var result chatResponse
	err = json.NewDecoder(resp.Body).Decode(&result)
	if err != nil {
		return "", errors.Wrap(err, "Can't decode response")
	}
	if result.Error != nil {
		return "", errors.New("Service error: " + result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", errors.New("No choices in response")
	}
	return result.Choices[0].Message.Content, nil
}
