package mockservice

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/foundernote/notes-contract-tests/servicedef"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Behavior makes the service misbehave in specific ways, so that a test can check that the
// suite notices. The zero value is a correct service.
type Behavior struct {
	// DropFolderUpdates accepts folder updates but does not store them.
	DropFolderUpdates bool
	// ReorderTags stores tags in reverse order, which a correct client must tolerate.
	ReorderTags bool
	// FailDeletes answers every delete with a 500.
	FailDeletes bool
	// Degraded reports a status other than "ok" from /health.
	Degraded bool
	// LeakTagsToAllNotes applies a tags update to every note of the same user.
	LeakTagsToAllNotes bool
	// RowShapedNotes returns notes as stored rows, with snake_case column names, instead of
	// camelCase documents.
	RowShapedNotes bool
}

// RequestInfo describes a request received by the service.
type RequestInfo struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

// Service is an in-memory notes API. It implements the endpoints the suite uses, plus the
// optional tag query and catalog endpoints.
type Service struct {
	store        *store
	behavior     Behavior
	capabilities []string
	logger       *slog.Logger
	requests     []RequestInfo
	lock         sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

func WithBehavior(b Behavior) Option {
	return func(s *Service) {
		s.behavior = b
	}
}

// WithCapabilities replaces the capabilities advertised by /health. By default the service
// advertises all of them.
func WithCapabilities(capabilities ...string) Option {
	return func(s *Service) {
		s.capabilities = capabilities
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock sets the source of timestamps for created and updated notes.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.store.now = now
	}
}

func New(opts ...Option) *Service {
	s := &Service{
		store:        newStore(time.Now),
		capabilities: servicedef.AllCapabilities,
		logger:       slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the HTTP handler for all endpoints.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.recordRequests)

	r.Get("/health", s.health)
	r.Get("/notes", s.listNotes)
	r.Post("/notes", s.createNote)
	r.Get("/notes/{id}", s.getNote)
	r.Put("/notes/{id}", s.updateNote)
	r.Delete("/notes/{id}", s.deleteNote)
	r.Get("/tags", s.listTags)
	r.Get("/folders", s.listFolders)

	return r
}

// Requests returns every request received so far, oldest first.
func (s *Service) Requests() []RequestInfo {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]RequestInfo(nil), s.requests...)
}

// NoteCount is the number of notes currently stored, for all users.
func (s *Service) NoteCount() int {
	return s.store.count()
}

// Note returns a stored note directly, bypassing HTTP.
func (s *Service) Note(id string) (servicedef.Note, bool) {
	return s.store.get(id)
}

func (s *Service) recordRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			data, err := io.ReadAll(r.Body)
			r.Body.Close()
			if err != nil {
				s.logger.Error("unexpected error reading request body", "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			body = data
		}
		s.lock.Lock()
		s.requests = append(s.requests, RequestInfo{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   body,
		})
		s.lock.Unlock()
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path)

		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func (s *Service) health(w http.ResponseWriter, r *http.Request) {
	status := servicedef.StatusOK
	if s.behavior.Degraded {
		status = "degraded"
	}
	writeJSON(w, http.StatusOK, servicedef.ServiceStatus{
		Status:       status,
		Message:      "notes API is running",
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Capabilities: s.capabilities,
	})
}

func (s *Service) listNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var tag, search string
	if s.hasCapability(servicedef.CapabilityTagQuery) {
		tag, search = q.Get("tag"), q.Get("search")
	}
	notes := s.store.list(q.Get("userId"), tag, search)
	shaped := make([]interface{}, 0, len(notes))
	for _, n := range notes {
		shaped = append(shaped, s.shape(n))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notes": shaped})
}

func (s *Service) createNote(w http.ResponseWriter, r *http.Request) {
	var params servicedef.CreateNoteParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := validateCreate(params); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	note := s.store.create(params)
	s.logger.Info("note created", "id", note.ID, "userId", note.UserID)
	writeJSON(w, http.StatusOK, noteEnvelope{Success: true, Note: s.shape(note)})
}

func (s *Service) getNote(w http.ResponseWriter, r *http.Request) {
	note, ok := s.store.get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("Note not found"))
		return
	}
	writeJSON(w, http.StatusOK, noteEnvelope{Note: s.shape(note)})
}

func (s *Service) updateNote(w http.ResponseWriter, r *http.Request) {
	var update servicedef.NoteUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	note, ok := s.store.update(chi.URLParam(r, "id"), update, s.behavior)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("Note not found"))
		return
	}
	writeJSON(w, http.StatusOK, noteEnvelope{Success: true, Note: s.shape(note)})
}

func (s *Service) deleteNote(w http.ResponseWriter, r *http.Request) {
	if s.behavior.FailDeletes {
		writeJSON(w, http.StatusInternalServerError, errorBody("delete failed"))
		return
	}
	if !s.store.delete(chi.URLParam(r, "id")) {
		writeJSON(w, http.StatusNotFound, errorBody("Note not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Service) listTags(w http.ResponseWriter, r *http.Request) {
	if !s.hasCapability(servicedef.CapabilityCatalog) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, servicedef.TagListResponse{Tags: s.store.tags(r.URL.Query().Get("userId"))})
}

func (s *Service) listFolders(w http.ResponseWriter, r *http.Request) {
	if !s.hasCapability(servicedef.CapabilityCatalog) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, servicedef.FolderListResponse{Folders: s.store.folders(r.URL.Query().Get("userId"))})
}

// shape returns the JSON form of a note, which depends on Behavior.RowShapedNotes.
func (s *Service) shape(note servicedef.Note) interface{} {
	if s.behavior.RowShapedNotes {
		return newNoteRow(note)
	}
	return note
}

func (s *Service) hasCapability(desired string) bool {
	for _, c := range s.capabilities {
		if c == desired {
			return true
		}
	}
	return false
}

func validateCreate(p servicedef.CreateNoteParams) error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.UserID, validation.Required),
		validation.Field(&p.Transcription, validation.Required),
	)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

func errorBody(msg string) servicedef.ErrorResponse {
	return servicedef.ErrorResponse{Error: msg}
}
