package server

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/insight-cli/internal/analysis"
	"github.com/KaramelBytes/insight-cli/internal/dataset"
	"github.com/KaramelBytes/insight-cli/internal/regression"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// multipartMemory is the part of an upload kept in memory before spilling to disk.
const multipartMemory = 8 << 20

var supportedExts = map[string]struct{}{".csv": {}, ".tsv": {}, ".xlsx": {}}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	models := make([]string, 0, len(regression.Kinds))
	for _, k := range regression.Kinds {
		models = append(models, k.String())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    Name,
		"version": Version,
		"endpoints": map[string]string{
			"/analyze": "POST - Upload CSV or XLSX for analysis",
			"/health":  "GET - Health check",
			"/metrics": "GET - Prometheus metrics",
		},
		"models": models,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": Name + " is running",
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	log := s.logger.With(zap.String("request_id", RequestID(r.Context())))
	fail := func(code int, msg string) {
		s.metrics.analyses.WithLabelValues(outcome(code)).Inc()
		writeJSON(w, code, errorBody{Error: msg})
	}

	tooLarge := fmt.Sprintf("File exceeds %d MB limit", s.cfg.MaxUploadBytes>>20)
	if r.ContentLength > s.cfg.MaxUploadBytes {
		fail(http.StatusRequestEntityTooLarge, tooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			fail(http.StatusRequestEntityTooLarge, tooLarge)
			return
		}
		fail(http.StatusBadRequest, "No file uploaded")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		fail(http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()
	if header.Filename == "" {
		fail(http.StatusBadRequest, "No file selected")
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := supportedExts[ext]; !ok {
		fail(http.StatusBadRequest, "Only CSV, TSV and XLSX files are supported")
		return
	}
	s.metrics.uploadBytes.Observe(float64(header.Size))

	tbl, err := s.decode(file, header, ext)
	if err != nil {
		if errors.Is(err, dataset.ErrNoRows) || errors.Is(err, dataset.ErrNoHeader) {
			fail(http.StatusBadRequest, "File is empty")
			return
		}
		fail(http.StatusBadRequest, fmt.Sprintf("Error reading file: %v", err))
		return
	}
	if tbl.Truncated {
		fail(http.StatusRequestEntityTooLarge, fmt.Sprintf("File exceeds %d row limit", s.cfg.Decode.MaxRows))
		return
	}
	tbl.Name = filepath.Base(header.Filename)

	opt := s.cfg.Forecast
	if target := strings.TrimSpace(r.FormValue("target_column")); target != "" {
		opt.TargetColumn = target
	}
	if model := strings.TrimSpace(r.FormValue("model_type")); model != "" {
		opt.Model = regression.ParseKind(model)
	}

	rep, err := analysis.NewAnalyzer(analysis.Options{Forecast: opt}, log).Analyze(r.Context(), tbl)
	s.metrics.duration.Observe(time.Since(start).Seconds())
	if err != nil {
		if analysis.IsInputError(err) {
			fail(http.StatusBadRequest, err.Error())
			return
		}
		log.Error("analysis failed", zap.Error(err))
		fail(http.StatusInternalServerError, "Analysis failed: "+strings.TrimPrefix(err.Error(), "analysis failed: "))
		return
	}
	body, err := encodeJSON(rep)
	if err != nil {
		log.Error("encode report", zap.Error(err))
		fail(http.StatusInternalServerError, "Analysis failed: encode report")
		return
	}
	s.metrics.analyses.WithLabelValues("ok").Inc()
	writeBody(w, http.StatusOK, body)
}

func (s *Server) decode(file multipart.File, header *multipart.FileHeader, ext string) (*dataset.Table, error) {
	opt := s.cfg.Decode
	if ext == ".xlsx" {
		return dataset.ReadXLSXFrom(file, header.Size, opt)
	}
	if opt.Delimiter == 0 {
		opt.Delimiter = dataset.SniffDelimiter(header.Filename)
	}
	return dataset.ReadCSV(file, opt)
}

func outcome(code int) string {
	if code >= http.StatusInternalServerError {
		return "error"
	}
	return "rejected"
}

func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	body, err := encodeJSON(v)
	if err != nil {
		code, body = http.StatusInternalServerError, []byte(`{"error":"encode response"}`+"\n")
	}
	writeBody(w, code, body)
}

func writeBody(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
