package intake

import (
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/legalconnect/intakego/internal/app/intake/api"
	"github.com/legalconnect/intakego/internal/pkg/cmdapp"
	"github.com/legalconnect/intakego/internal/pkg/mongo"
	"github.com/legalconnect/intakego/internal/pkg/persistence"

	"github.com/badoux/checkmail"
	"github.com/facebookgo/grace/gracehttp"
	"github.com/gorilla/mux"
	"github.com/heptiolabs/healthcheck"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// limiter bucket keys
const (
	bucketAI       = "ai-pipeline"
	bucketStandard = "standard"
)

const maxAudioSize = 20 << 20

type serviceMetric struct {
	uploadResponseDur prometheus.ObserverVec
	uploadRequestSize prometheus.ObserverVec

	recordResponseDur prometheus.ObserverVec
}

// RecordProvider retrieves stored audio records
type RecordProvider interface {
	Get(id string) (*persistence.AudioRecord, error)
	GetAll() ([]persistence.AudioRecord, error)
}

// LawyerAssigner syncs the accepted lawyer on audio records linked to a case
type LawyerAssigner interface {
	AssignLawyer(caseID string, lawyerID string) error
}

// RateLimiter admits or rejects requests per bucket
type RateLimiter interface {
	TryConsume(key string) bool
}

// ServiceData keeps data required for service work
type ServiceData struct {
	Transcriber    Transcriber
	Masker         Masker
	Translator     Translator
	Synthesizer    Synthesizer
	Classifier     Classifier
	AudioSaver     AudioSaver
	RecordProvider RecordProvider
	CaseCreator    CaseCreator
	LawyerAssigner LawyerAssigner
	EventSender    EventSender
	RateLimiter    RateLimiter

	Port    int
	health  healthcheck.Handler
	metrics serviceMetric
}

// StartWebServer starts the HTTP service and listens for the requests
func StartWebServer(data *ServiceData) error {
	cmdapp.Log.Infof("Starting HTTP service at %d", data.Port)
	r := NewRouter(data)

	portStr := strconv.Itoa(data.Port)
	srv := http.Server{
		Addr:              ":" + portStr,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       180 * time.Second,
		Handler:           r,
	}

	w := cmdapp.Log.Writer()
	defer w.Close()
	l := log.New(w, "", 0)
	gracehttp.SetLogger(l)

	return gracehttp.Serve(&srv)
}

// NewRouter creates the router for HTTP service
func NewRouter(data *ServiceData) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	uh := promhttp.InstrumentHandlerDuration(data.metrics.uploadResponseDur,
		promhttp.InstrumentHandlerRequestSize(data.metrics.uploadRequestSize, uploadHandler{data: data}))
	rh := promhttp.InstrumentHandlerDuration(data.metrics.recordResponseDur, recordHandler{data: data})
	lh := promhttp.InstrumentHandlerDuration(data.metrics.recordResponseDur, recordListHandler{data: data})
	ah := promhttp.InstrumentHandlerDuration(data.metrics.recordResponseDur, assignLawyerHandler{data: data})
	router.Methods("POST").Path("/audio/upload").Handler(uh)
	router.Methods("GET").Path("/audio/{id}").Handler(rh)
	router.Methods("GET").Path("/audio").Handler(lh)
	router.Methods("POST").Path("/audio/case/{caseId}/lawyer").Handler(ah)
	router.Methods("GET").Path("/metrics").Handler(promhttp.Handler())
	if data.health != nil {
		router.Methods("GET").Path("/live").HandlerFunc(data.health.LiveEndpoint)
		router.Methods("GET").Path("/ready").HandlerFunc(data.health.ReadyEndpoint)
	}
	return router
}

type uploadHandler struct {
	data *ServiceData
}

func (h uploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cmdapp.Log.Infof("Processing audio from %s", r.Host)

	if !h.data.RateLimiter.TryConsume(bucketAI) {
		http.Error(w, "Rate limit exceeded for AI audio processing. Please try again later.",
			http.StatusTooManyRequests)
		cmdapp.Log.Warnf("Rate limit exceeded for %s", bucketAI)
		return
	}

	err := r.ParseMultipartForm(32 << 20)
	if err != nil {
		http.Error(w, "Can't parse MultipartForm", http.StatusBadRequest)
		cmdapp.Log.Error(errors.Wrap(err, "Can't parse MultipartForm"))
		return
	}
	defer cleanFiles(r.MultipartForm)
	err = validateFormParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}
	email := r.FormValue(api.PrmEmail)
	if email != "" {
		err := checkmail.ValidateFormat(email)
		if err != nil {
			http.Error(w, "Wrong email", http.StatusBadRequest)
			cmdapp.Log.Errorf("Wrong email")
			return
		}
	}

	file, handler, err := r.FormFile(api.PrmFile)
	if err != nil {
		http.Error(w, "No file", http.StatusBadRequest)
		cmdapp.Log.Error(errors.Wrap(err, "no form param file"))
		return
	}
	defer file.Close()
	if handler.Size > maxAudioSize {
		http.Error(w, "File size exceeds 20MB limit", http.StatusBadRequest)
		cmdapp.Log.Errorf("Too large file %d", handler.Size)
		return
	}
	audio, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Can't read file", http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}
	if len(audio) == 0 {
		http.Error(w, "Audio file is missing or empty", http.StatusBadRequest)
		cmdapp.Log.Errorf("Empty file")
		return
	}

	inp := &pipelineInput{audio: audio,
		mime:      handler.Header.Get("Content-Type"),
		fileName:  handler.Filename,
		userID:    r.FormValue(api.PrmUserID),
		caseTitle: r.FormValue(api.PrmCaseTitle),
		email:     email}

	record, err := runPipeline(h.data, inp)
	if err != nil {
		if errors.Cause(err) == ErrTranscribe {
			http.Error(w, "Can't transcribe audio", http.StatusInternalServerError)
		} else {
			http.Error(w, "Can't process audio", http.StatusInternalServerError)
		}
		cmdapp.Log.Error(err)
		return
	}

	writeJSON(w, api.NewAudioResult(record))
}

type recordHandler struct {
	data *ServiceData
}

func (h recordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cmdapp.Log.Infof("Record request from %s", r.Host)
	if !h.data.RateLimiter.TryConsume(bucketStandard) {
		http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
		return
	}
	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "No ID", http.StatusBadRequest)
		cmdapp.Log.Errorf("No ID")
		return
	}
	record, err := h.data.RecordProvider.Get(id)
	if err != nil {
		if errors.Cause(err) == mongo.ErrNoRecord {
			http.Error(w, "Record not found with id: "+id, http.StatusNotFound)
		} else {
			http.Error(w, "Can't get record", http.StatusInternalServerError)
		}
		cmdapp.Log.Error(err)
		return
	}
	writeJSON(w, api.NewAudioResult(record))
}

type recordListHandler struct {
	data *ServiceData
}

func (h recordListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cmdapp.Log.Infof("Record list request from %s", r.Host)
	if !h.data.RateLimiter.TryConsume(bucketStandard) {
		http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
		return
	}
	records, err := h.data.RecordProvider.GetAll()
	if err != nil {
		http.Error(w, "Can't get records", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	result := make([]*api.AudioResult, 0, len(records))
	for i := range records {
		result = append(result, api.NewAudioResult(&records[i]))
	}
	writeJSON(w, result)
}

type assignLawyerHandler struct {
	data *ServiceData
}

func (h assignLawyerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cmdapp.Log.Infof("Assign lawyer request from %s", r.Host)
	if !h.data.RateLimiter.TryConsume(bucketStandard) {
		http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
		return
	}
	caseID := mux.Vars(r)["caseId"]
	lawyerID := r.FormValue(api.PrmLawyerID)
	if lawyerID == "" {
		http.Error(w, "No lawyerId", http.StatusBadRequest)
		cmdapp.Log.Errorf("No lawyerId")
		return
	}
	if err := validateInjection(r, api.PrmLawyerID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}
	err := h.data.LawyerAssigner.AssignLawyer(caseID, lawyerID)
	if err != nil {
		http.Error(w, "Can't assign lawyer", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	err := encoder.Encode(data)
	if err != nil {
		http.Error(w, "Can not prepare result", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
	}
}

func cleanFiles(f *multipart.Form) {
	if f != nil {
		f.RemoveAll()
	}
}

func validateFormParams(r *http.Request) error {
	form := r.Form
	allowed := map[string]bool{api.PrmEmail: true, api.PrmUserID: true, api.PrmCaseTitle: true}
	for k := range form {
		_, f := allowed[k]
		if !f {
			return errors.Errorf("Unknown parameter '%s'", k)
		}
	}
	for _, p := range []string{api.PrmUserID, api.PrmCaseTitle} {
		if err := validateInjection(r, p); err != nil {
			return err
		}
	}
	return nil
}

func validateInjection(r *http.Request, paramName string) error {
	p := r.FormValue(paramName)
	lp := strings.ToLower(p)
	for _, k := range []string{"$", "(", ")", "eval", "shell", "{", "}"} {
		if strings.Contains(lp, k) {
			return errors.Errorf("Wrong parameter '%s' value '%s'", paramName, p)
		}
	}
	return nil
}
