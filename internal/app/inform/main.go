package inform

import (
	"time"

	"github.com/legalconnect/intakego/internal/pkg/cmdapp"
	"github.com/legalconnect/intakego/internal/pkg/messages"
	"github.com/legalconnect/intakego/internal/pkg/rabbit"
	"github.com/legalconnect/intakego/internal/pkg/utils"

	"github.com/cenkalti/backoff"
	"github.com/spf13/cobra"
)

var appName = "Legal Connect email information Service"

var rootCmd = &cobra.Command{
	Use:   "informService",
	Short: appName,
	Long:  `Service listens for case events from the queue and informs the user by email`,
	Run:   run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
}

// Execute starts the server
func Execute() {
	cmdapp.Execute(rootCmd)
}

func run(cmd *cobra.Command, args []string) {
	cmdapp.Log.Info("Starting " + appName)
	data := ServiceData{}
	data.fc = utils.NewSignalChannel()

	msgChannelProvider, err := rabbit.NewChannelProvider()
	cmdapp.CheckOrPanic(err, "Can't init rabbit channel provider")
	defer msgChannelProvider.Close()

	ch, err := msgChannelProvider.Channel()
	cmdapp.CheckOrPanic(err, "Can't open channel")

	err = ch.Qos(1, 0, false)
	cmdapp.CheckOrPanic(err, "Can't set Qos")

	_, err = rabbit.DeclareQueue(ch, messages.CaseCreated)
	cmdapp.CheckOrPanic(err, "Can't declare queue "+messages.CaseCreated)

	data.workCh, err = rabbit.NewChannel(ch, messages.CaseCreated)
	cmdapp.CheckOrPanic(err, "Can't listen to "+messages.CaseCreated+" channel")

	data.emailMaker, err = newSimpleEmailMaker(cmdapp.Config)
	cmdapp.CheckOrPanic(err, "Can't init email maker")

	location := cmdapp.Config.GetString("worker.location")
	if location != "" {
		data.location, err = time.LoadLocation(location)
		cmdapp.CheckOrPanic(err, "Can't init location")
	}

	data.emailSender, err = newSimpleEmailSender()
	cmdapp.CheckOrPanic(err, "Can't init email sender")
	data.bp = &expBackOffProvider{}

	err = StartWorkerService(&data)
	cmdapp.CheckOrPanic(err, "Can't start worker service")
	<-data.fc.C
	cmdapp.Log.Infof("Exiting service")
}

type expBackOffProvider struct {
}

func (bp *expBackOffProvider) Get() backoff.BackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     backoff.DefaultInitialInterval,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          backoff.DefaultMultiplier,
		MaxInterval:         backoff.DefaultMaxInterval,
		MaxElapsedTime:      45 * time.Second,
		Clock:               backoff.SystemClock,
	}
	b.Reset()
	return b
}
