package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/internal/analyzer"
	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/internal/reader"
	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/internal/report"
	"github.com/pratapwarrohit13/OCPM-ENTITY-RELATIONSHIP/pkg/models"
	"github.com/sirupsen/logrus"
)

const maxUploadBytes = 128 << 20

// Server is the upload/analyze HTTP front end. Each upload gets its own
// session directory; results are cached there and replayed by session id.
type Server struct {
	UploadDir string
	Workers   int
	Logger    *logrus.Logger
	router    chi.Router
}

// New creates the server and its routes.
func New(uploadDir string, workers int, logger *logrus.Logger) *Server {
	s := &Server{
		UploadDir: uploadDir,
		Workers:   workers,
		Logger:    logger,
	}

	r := chi.NewRouter()
	r.Post("/analyze", s.handleAnalyze)
	r.Get("/results/{session}", s.handleResults)
	r.Get("/healthz", s.handleHealth)
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

type analyzeResponse struct {
	Session string `json:"session"`
	report.Document
	Diagnostics []models.Diagnostic `json:"diagnostics"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}
	uploads := r.MultipartForm.File["files"]
	if len(uploads) == 0 {
		s.writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	session := uuid.NewString()
	sessionDir := filepath.Join(s.UploadDir, session)
	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		s.Logger.Errorf("Failed creating session directory: %v", err)
		s.writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}

	var paths []string
	var rejected []models.Diagnostic
	for _, upload := range uploads {
		name := filepath.Base(upload.Filename)
		if err := reader.ValidateExtension(name); err != nil {
			s.Logger.Warningf("Rejecting upload %s: %v", name, err)
			rejected = append(rejected, models.Diagnostic{
				Stage:   "upload",
				Table:   name,
				Message: err.Error(),
			})
			continue
		}
		dst := filepath.Join(sessionDir, name)
		if err := saveUpload(upload, dst); err != nil {
			s.Logger.Errorf("Failed saving upload %s: %v", name, err)
			s.writeError(w, http.StatusInternalServerError, "could not store upload")
			return
		}
		paths = append(paths, dst)
	}

	model, err := analyzer.AnalyzePaths(r.Context(), paths, s.Workers, s.Logger)
	if err != nil {
		var noData *models.NoDataError
		if errors.As(err, &noData) || len(paths) == 0 {
			s.writeError(w, http.StatusUnprocessableEntity, "no valid tables in upload")
			return
		}
		s.Logger.Errorf("Analysis failed: %v", err)
		s.writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	if err := report.WriteWorkbook(filepath.Join(sessionDir, report.WorkbookName), model); err != nil {
		s.Logger.Warningf("Could not write workbook: %v", err)
	}
	if err := report.WriteSQLScript(filepath.Join(sessionDir, "schema.sql"), model); err != nil {
		s.Logger.Warningf("Could not write SQL script: %v", err)
	}

	resp := analyzeResponse{
		Session:     session,
		Document:    report.BuildDocument(model),
		Diagnostics: append(rejected, model.Diagnostics...),
	}

	body, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "could not encode results")
		return
	}
	if err := os.WriteFile(filepath.Join(sessionDir, "results.json"), body, 0o644); err != nil {
		s.Logger.Warningf("Could not cache results: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	session := chi.URLParam(r, "session")
	if _, err := uuid.Parse(session); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	body, err := os.ReadFile(filepath.Join(s.UploadDir, session, "results.json"))
	if err != nil {
		s.writeError(w, http.StatusNotFound, "unknown session")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}

func saveUpload(upload *multipart.FileHeader, dst string) error {
	src, err := upload.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
