package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"

	"github.com/bwdocs/xpath-translator/documents"
	"github.com/bwdocs/xpath-translator/internal/logger"
	"github.com/bwdocs/xpath-translator/report"
)

type Server struct {
	db     *sql.DB // nil when using the in-memory store
	svc    *report.Service
	router *chi.Mux
}

// NewServer wires the document store behind the service. An empty
// databaseURL selects the in-memory store; anything else must be a
// reachable Postgres instance.
func NewServer(databaseURL string) (*Server, error) {
	if databaseURL == "" {
		logger.Info("no DATABASE_URL set, using in-memory document store")
		return NewServerWithStore(documents.NewInMemoryStore(), nil), nil
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewServerWithStore(documents.NewPostgresStore(db), db), nil
}

// NewServerWithStore builds a Server over an existing store. The db
// handle may be nil; it is only used by the health check.
func NewServerWithStore(store documents.Store, db *sql.DB) *Server {
	s := &Server{
		db:  db,
		svc: report.NewService(store),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/upload", s.handleUpload)
		r.Post("/translate", s.handleTranslate)
		r.Get("/parse/{fileID}", s.handleParse)
		r.Post("/batch-translate", s.handleBatchTranslate)

		r.Get("/files", s.handleListFiles)
		r.Delete("/files/{fileID}", s.handleDeleteFile)
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Health check handler
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "xpath-translator",
	})
}

// Upload handler: multipart form with a single "file" part.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file provided", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read file", err)
		return
	}

	summary, err := s.svc.Upload(header.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, report.ErrNoFile),
			errors.Is(err, report.ErrInvalidFileType),
			errors.Is(err, report.ErrFileTooLarge):
			respondError(w, http.StatusBadRequest, err.Error(), nil)
		default:
			respondError(w, http.StatusInternalServerError, "failed to process file", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// Translate handler: one expression with optional mapping context.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	tr, err := s.svc.TranslateOne(req.XPath, req.Context)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	respondJSON(w, http.StatusOK, TranslateResponse{
		XPath:         req.XPath,
		PlainLanguage: tr.Description,
		Steps:         tr.Steps,
		Confidence:    tr.Confidence,
		DataFlow:      tr.DataFlow,
	})
}

// Parse handler: full report for a previously uploaded document.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	rep, err := s.svc.ParseAndTranslate(fileID)
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			respondError(w, http.StatusNotFound, "file not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "parsing failed", err)
		return
	}

	respondJSON(w, http.StatusOK, rep)
}

// Batch translate handler.
func (s *Server) handleBatchTranslate(w http.ResponseWriter, r *http.Request) {
	var req BatchTranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.XPaths == nil {
		respondError(w, http.StatusBadRequest, "xpath list required", nil)
		return
	}

	items := make([]report.BatchItem, 0, len(req.XPaths))
	for _, x := range req.XPaths {
		items = append(items, report.BatchItem{Expr: x.Expr, Context: x.Context})
	}

	respondJSON(w, http.StatusOK, BatchTranslateResponse{
		Translations: s.svc.BatchTranslate(items),
	})
}

// List files handler
func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	infos, err := s.svc.ListDocuments()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list files", err)
		return
	}
	respondJSON(w, http.StatusOK, FilesResponse{Files: infos})
}

// Delete file handler
func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	if err := s.svc.DeleteDocument(fileID); err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			respondError(w, http.StatusNotFound, "file not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete file", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Helper functions
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]string{
		"error": message,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}

func main() {
	server, err := NewServer(os.Getenv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Failed to create server", "error", err)
	}
	if server.db != nil {
		defer server.db.Close()
	}

	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			logger.Fatal("Invalid MAX_UPLOAD_BYTES", "value", v, "error", err)
		}
		server.svc.SetMaxUploadBytes(n)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		logger.Info("Server starting", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	if err := logger.Shutdown(ctx); err != nil {
		logger.Error("Logger shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
