package rabbit

import (
	"encoding/json"

	"github.com/legalconnect/intakego/internal/pkg/cmdapp"
	"github.com/legalconnect/intakego/internal/pkg/messages"
	"github.com/streadway/amqp"

	"github.com/pkg/errors"
)

// Sender publishes events to rabbit queue
type Sender struct {
	provider *ChannelProvider
}

// NewSender initializes rabbit sender
func NewSender(provider *ChannelProvider) *Sender {
	return &Sender{provider: provider}
}

// Send publishes event to the queue
func (sender *Sender) Send(event *messages.CaseEvent, queue string) error {
	cmdapp.Log.Infof("Sending case event %s to %s", event.CaseID, queue)
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "Can't marshal event")
	}
	return sender.provider.RunOnChannelWithRetry(func(ch *amqp.Channel) error {
		return ch.Publish("", queue, false, false,
			amqp.Publishing{
				DeliveryMode: amqp.Persistent,
				ContentType:  "application/json",
				Body:         eventBytes,
			})
	})
}
