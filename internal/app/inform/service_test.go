package inform

import (
	"testing"
	"time"

	"github.com/legalconnect/intakego/internal/pkg/messages"
	"github.com/legalconnect/intakego/internal/pkg/utils"

	"github.com/cenkalti/backoff"
	"github.com/jordan-wright/email"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
)

type testEmailMaker struct {
	mail *email.Email
	err  error
	got  *messages.CaseEvent
}

func (m *testEmailMaker) Make(event *messages.CaseEvent) (*email.Email, error) {
	m.got = event
	return m.mail, m.err
}

type testEmailSender struct {
	sent  []*email.Email
	fails int
}

func (s *testEmailSender) Send(mail *email.Email) error {
	if s.fails > 0 {
		s.fails--
		return errors.New("smtp down")
	}
	s.sent = append(s.sent, mail)
	return nil
}

type testBackoff struct{}

func (bp testBackoff) Get() backoff.BackOff {
	return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, 2)
}

func newTestData() (*ServiceData, *testEmailMaker, *testEmailSender) {
	maker := &testEmailMaker{mail: email.NewEmail()}
	sender := &testEmailSender{}
	data := &ServiceData{workCh: make(chan amqp.Delivery),
		emailMaker: maker, emailSender: sender, bp: testBackoff{},
		fc: utils.NewMultiCloseChannel()}
	return data, maker, sender
}

func newTestEvent() *messages.CaseEvent {
	return messages.NewCaseEvent("a1", "c1", "u1", "client@service.com", "CIVIL")
}

func TestStartFails(t *testing.T) {
	data, _, _ := newTestData()
	data.emailMaker = nil
	assert.NotNil(t, StartWorkerService(data))

	data, _, _ = newTestData()
	data.emailSender = nil
	assert.NotNil(t, StartWorkerService(data))

	data, _, _ = newTestData()
	data.workCh = nil
	assert.NotNil(t, StartWorkerService(data))

	data, _, _ = newTestData()
	data.bp = nil
	assert.NotNil(t, StartWorkerService(data))
}

func TestStart(t *testing.T) {
	data, _, _ := newTestData()
	assert.Nil(t, StartWorkerService(data))
}

func TestWork(t *testing.T) {
	data, maker, sender := newTestData()
	err := work(data, newTestEvent())
	assert.Nil(t, err)
	assert.Equal(t, "c1", maker.got.CaseID)
	assert.Equal(t, 1, len(sender.sent))
}

func TestWork_NoEmail(t *testing.T) {
	data, maker, sender := newTestData()
	ev := newTestEvent()
	ev.Email = ""
	err := work(data, ev)
	assert.Nil(t, err)
	assert.Nil(t, maker.got)
	assert.Equal(t, 0, len(sender.sent))
}

func TestWork_MakerFails(t *testing.T) {
	data, maker, sender := newTestData()
	maker.err = errors.New("no template")
	err := work(data, newTestEvent())
	assert.NotNil(t, err)
	assert.Equal(t, 0, len(sender.sent))
}

func TestWork_RetriesSend(t *testing.T) {
	data, _, sender := newTestData()
	sender.fails = 1
	err := work(data, newTestEvent())
	assert.Nil(t, err)
	assert.Equal(t, 1, len(sender.sent))
}

func TestWork_SendFails(t *testing.T) {
	data, _, sender := newTestData()
	sender.fails = 10
	err := work(data, newTestEvent())
	assert.NotNil(t, err)
	assert.Equal(t, 0, len(sender.sent))
}

func TestWork_LocalTime(t *testing.T) {
	data, maker, _ := newTestData()
	loc, lerr := time.LoadLocation("UTC")
	assert.Nil(t, lerr)
	data.location = loc
	err := work(data, newTestEvent())
	assert.Nil(t, err)
	assert.Equal(t, loc, maker.got.At.Location())
}

func TestProcessMsg_BadJSON(t *testing.T) {
	data, _, _ := newTestData()
	redeliver, err := processMsg(&amqp.Delivery{Body: []byte("olia")}, data)
	assert.NotNil(t, err)
	assert.False(t, redeliver)
}

func TestProcessMsg(t *testing.T) {
	data, _, sender := newTestData()
	redeliver, err := processMsg(&amqp.Delivery{
		Body: []byte(`{"caseID":"c1","email":"client@service.com"}`)}, data)
	assert.Nil(t, err)
	assert.True(t, redeliver)
	assert.Equal(t, 1, len(sender.sent))
}
