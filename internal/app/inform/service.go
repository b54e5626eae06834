package inform

import (
	"encoding/json"
	"time"

	"github.com/legalconnect/intakego/internal/pkg/cmdapp"
	"github.com/legalconnect/intakego/internal/pkg/messages"
	"github.com/legalconnect/intakego/internal/pkg/utils"

	"github.com/cenkalti/backoff"
	"github.com/jordan-wright/email"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

// Sender send emails
type Sender interface {
	Send(email *email.Email) error
}

// EmailMaker prepares the email
type EmailMaker interface {
	Make(event *messages.CaseEvent) (*email.Email, error)
}

type backoffProvider interface {
	Get() backoff.BackOff
}

// ServiceData keeps data required for service work
type ServiceData struct {
	workCh      <-chan amqp.Delivery
	emailSender Sender
	emailMaker  EmailMaker
	bp          backoffProvider
	location    *time.Location

	fc *utils.MultiCloseChannel
}

// StartWorkerService starts the event queue listener service
func StartWorkerService(data *ServiceData) error {
	cmdapp.Log.Infof("Starting listen for messages")
	if data.emailMaker == nil {
		return errors.New("No email maker")
	}
	if data.emailSender == nil {
		return errors.New("No sender")
	}
	if data.bp == nil {
		return errors.New("No backoff provider")
	}
	if data.workCh == nil {
		return errors.New("No work channel")
	}
	if data.fc == nil {
		return errors.New("No close channel")
	}

	go listenQueue(data)
	return nil
}

// work sends the notification for one case event
func work(data *ServiceData, event *messages.CaseEvent) error {
	cmdapp.Log.Infof("Got case event for case %s", event.CaseID)

	if event.Email == "" {
		cmdapp.Log.Infof("No email in event for case %s, skipping", event.CaseID)
		return nil
	}

	ev := *event
	ev.At = toLocalTime(data, event.At)
	mail, err := data.emailMaker.Make(&ev)
	if err != nil {
		cmdapp.Log.Error(err)
		return errors.Wrap(err, "Can't prepare email")
	}

	op := func() error {
		return data.emailSender.Send(mail)
	}
	err = backoff.Retry(op, data.bp.Get())
	if err != nil {
		cmdapp.Log.Error(err)
		return errors.Wrap(err, "Can't send email")
	}
	return nil
}

func listenQueue(data *ServiceData) {
	for d := range data.workCh {
		redeliver, err := processMsg(&d, data)
		if err != nil {
			cmdapp.Log.Error("Message error. ", err)
			d.Nack(false, redeliver && !d.Redelivered) // try redeliver for the first time
			continue
		}
		d.Ack(false)
	}
	cmdapp.Log.Infof("Stopped listening queue")
	data.fc.Close()
}

func toLocalTime(data *ServiceData, t time.Time) time.Time {
	if data.location != nil {
		return t.In(data.location)
	}
	return t
}

// processMsg returns true if it needs to retry on error again
func processMsg(d *amqp.Delivery, data *ServiceData) (bool, error) {
	var event messages.CaseEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		return false, errors.Wrap(err, "Can't unmarshal message "+string(d.Body))
	}
	err := work(data, &event)
	cmdapp.Log.Infof("Msg processed")
	return true, err
}
