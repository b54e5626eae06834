package inform

import (
	"strings"

	"github.com/legalconnect/intakego/internal/pkg/messages"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/jordan-wright/email"
)

// SimpleEmailMaker builds notification emails from config templates.
// Template text may use {{CASE_ID}}, {{CATEGORY}}, {{URL}} and {{DATE}} placeholders.
type SimpleEmailMaker struct {
	url string
	c   *viper.Viper
}

func newSimpleEmailMaker(c *viper.Viper) (*SimpleEmailMaker, error) {
	r := SimpleEmailMaker{c: c}
	var err error
	r.url, err = getStringNonEmpty(c, "mail.url")
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Make prepares the email for the case event
func (maker *SimpleEmailMaker) Make(event *messages.CaseEvent) (*email.Email, error) {
	r := email.NewEmail()
	var err error
	r.Subject, err = getStringNonEmpty(maker.c, "mail.caseCreated.subject")
	if err != nil {
		return nil, err
	}
	text, err := maker.getText(event)
	if err != nil {
		return nil, err
	}
	r.Text = []byte(text)
	r.To = []string{event.Email}
	r.From, err = getStringNonEmpty(maker.c, "smtp.username")
	return r, err
}

func (maker *SimpleEmailMaker) getText(event *messages.CaseEvent) (string, error) {
	r, err := getStringNonEmpty(maker.c, "mail.caseCreated.text")
	if err != nil {
		return "", err
	}
	url := strings.Replace(maker.url, "{{CASE_ID}}", event.CaseID, -1)
	r = strings.Replace(r, "{{CASE_ID}}", event.CaseID, -1)
	r = strings.Replace(r, "{{CATEGORY}}", event.Category, -1)
	r = strings.Replace(r, "{{URL}}", url, -1)
	t := event.At.Format("2006-01-02 15:04:05")
	r = strings.Replace(r, "{{DATE}}", t, -1)
	return r, nil
}

func getStringNonEmpty(c *viper.Viper, key string) (string, error) {
	r := c.GetString(key)
	if r == "" {
		return "", errors.New("No setting " + key)
	}
	return r, nil
}
