package intake

import (
	"time"

	"github.com/streadway/amqp"

	"github.com/legalconnect/intakego/internal/pkg/classify"
	"github.com/legalconnect/intakego/internal/pkg/cmdapp"
	"github.com/legalconnect/intakego/internal/pkg/messages"
	"github.com/legalconnect/intakego/internal/pkg/metrics"
	"github.com/legalconnect/intakego/internal/pkg/mongo"
	"github.com/legalconnect/intakego/internal/pkg/openai"
	"github.com/legalconnect/intakego/internal/pkg/rabbit"
	"github.com/legalconnect/intakego/internal/pkg/ratelimit"
	"github.com/legalconnect/intakego/internal/pkg/redact"
	"github.com/legalconnect/intakego/internal/pkg/translate"

	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "intakeService",
	Short: "Legal Connect Audio Intake Service",
	Long:  `HTTP server to upload, transcribe, mask, translate and classify legal case audio`,
	Run:   run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
	rootCmd.PersistentFlags().Int32P("port", "", 8000, "Default service port")
	cmdapp.Config.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	cmdapp.Config.SetDefault("port", 8080)
	cmdapp.Config.SetDefault("rateLimit.ai", 5)
	cmdapp.Config.SetDefault("rateLimit.standard", 100)
}

// Execute starts the server
func Execute() {
	cmdapp.Execute(rootCmd)
}

func run(cmd *cobra.Command, args []string) {
	cmdapp.Log.Info("Starting intakeService")
	data := &ServiceData{}
	err := initMetrics(data)
	cmdapp.CheckOrPanic(err, "Can't init metrics")

	data.health = healthcheck.NewHandler()

	data.Transcriber, err = openai.NewTranscriber()
	cmdapp.CheckOrPanic(err, "Can't init transcriber")
	data.Synthesizer, err = openai.NewSynthesizer()
	cmdapp.CheckOrPanic(err, "Can't init synthesizer")
	completer, err := openai.NewClient()
	cmdapp.CheckOrPanic(err, "Can't init completion client")

	data.Masker = redact.NewMasker()
	data.Translator, err = translate.NewTranslator(completer)
	cmdapp.CheckOrPanic(err, "Can't init translator")

	data.Classifier, err = classify.NewClassifier(completer, initKeywords())
	cmdapp.CheckOrPanic(err, "Can't init classifier")

	data.RateLimiter = initLimiter()

	mongoSessionProvider, err := mongo.NewSessionProvider()
	cmdapp.CheckOrPanic(err, "Can't init mongo")
	defer mongoSessionProvider.Close()
	data.health.AddLivenessCheck("mongo", healthcheck.Async(mongoSessionProvider.Healthy, 10*time.Second))

	audioSaver, err := mongo.NewAudioSaver(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init audio saver")
	data.AudioSaver = audioSaver
	data.RecordProvider = audioSaver
	data.LawyerAssigner = audioSaver
	data.CaseCreator, err = mongo.NewCaseSaver(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init case saver")

	if cmdapp.Config.GetString("messageServer.url") != "" {
		msgChannelProvider, err := rabbit.NewChannelProvider()
		cmdapp.CheckOrPanic(err, "Can't init rabbit channel")
		defer msgChannelProvider.Close()
		data.health.AddLivenessCheck("rabbit", healthcheck.Async(msgChannelProvider.Healthy, 10*time.Second))
		err = initQueues(msgChannelProvider)
		cmdapp.CheckOrPanic(err, "Can't init queues")
		data.EventSender = rabbit.NewSender(msgChannelProvider)
	} else {
		cmdapp.Log.Warn("No messageServer.url, case events are not published")
	}

	data.Port = cmdapp.Config.GetInt("port")

	err = StartWebServer(data)
	cmdapp.CheckOrPanic(err, "Can't start web server")
}

func initKeywords() classify.KeywordProvider {
	path := cmdapp.Config.GetString("keywords.path")
	if path == "" {
		return classify.StaticKeywords{}
	}
	kw, err := classify.NewFileKeywords(path)
	cmdapp.CheckOrPanic(err, "Can't init keyword file")
	return kw
}

func initLimiter() *ratelimit.Limiter {
	limiter := ratelimit.NewLimiter(
		ratelimit.Limit{Events: cmdapp.Config.GetInt("rateLimit.standard"), Per: time.Minute})
	limiter.SetLimit(bucketAI,
		ratelimit.Limit{Events: cmdapp.Config.GetInt("rateLimit.ai"), Per: time.Minute})
	return limiter
}

func initQueues(prv *rabbit.ChannelProvider) error {
	cmdapp.Log.Info("Initializing queues")
	return prv.RunOnChannelWithRetry(func(ch *amqp.Channel) error {
		_, err := rabbit.DeclareQueue(ch, messages.CaseCreated)
		return err
	})
}

func initMetrics(data *ServiceData) error {
	namespace := "intake_service"
	data.metrics.uploadResponseDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_request_durations_seconds",
			Help:      "Upload request latency distributions.",
		}, nil)
	err := metrics.Register(data.metrics.uploadResponseDur)
	if err != nil {
		return err
	}
	data.metrics.uploadRequestSize = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      "upload_request_size_bytes",
			Help:      "Upload request size in bytes."}, nil)
	err = metrics.Register(data.metrics.uploadRequestSize)
	if err != nil {
		return err
	}
	data.metrics.recordResponseDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "record_request_durations_seconds",
			Help:      "Record request latency distributions.",
		}, nil)
	return metrics.Register(data.metrics.recordResponseDur)
}
