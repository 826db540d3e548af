package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sliderx/slidepdf/reader"
	"github.com/sliderx/slidepdf/slides"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Detail string `json:"detail"`
}

type healthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Endpoints map[string]string `json:"endpoints"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Service: ServiceName,
		Endpoints: map[string]string{
			"extract":  "/extract-text",
			"generate": "/generate-pdf",
		},
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With(zap.String("request_id", requestID(r.Context())))

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	req, err := slides.DecodeJSON(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		logger.Debug("rejected request", zap.Error(err))
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	_, span := s.tracer.Start(r.Context(), "slides.render")
	defer span.End()
	span.SetAttributes(attribute.String("sliderx.project_id", req.ProjectID))

	doc, err := slides.RenderWithStyle(req.Deck, s.style)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "render failed")
		logger.Error("PDF generation failed",
			zap.String("project_id", req.ProjectID),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "PDF generation failed: "+err.Error())
		return
	}

	warnings := doc.Warnings()
	span.SetAttributes(
		attribute.Int("sliderx.pages", doc.PageCount()),
		attribute.Int("sliderx.bytes", doc.Len()),
		attribute.Int("sliderx.warnings", len(warnings)),
	)
	for _, warn := range warnings {
		logger.Debug("layout overflow",
			zap.String("project_id", req.ProjectID),
			zap.Int("slide", warn.Slide),
			zap.Stringer("kind", warn.Kind),
			zap.String("detail", warn.Message))
	}

	h := w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, slides.Filename(req.ProjectID)))
	h.Set("Content-Length", strconv.Itoa(doc.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := doc.WriteTo(w); err != nil {
		logger.Warn("write response", zap.Error(err))
	}
}

// extractedSlide is the text of one page.
type extractedSlide struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

type extractResponse struct {
	Success   bool             `json:"success"`
	PageCount int              `json:"pageCount"`
	Slides    []extractedSlide `json:"slides"`
	FullText  string           `json:"fullText"`
}

// multipartMemory is how much of an upload is held in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With(zap.String("request_id", requestID(r.Context())))

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	data, err := readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		case errors.Is(err, http.ErrMissingFile):
			writeError(w, http.StatusUnprocessableEntity, "file: field required")
		default:
			logger.Debug("rejected upload", zap.Error(err))
			writeError(w, http.StatusBadRequest, "PDF extraction failed: "+err.Error())
		}
		return
	}

	_, span := s.tracer.Start(r.Context(), "pdf.extract")
	defer span.End()
	span.SetAttributes(attribute.Int("sliderx.bytes", len(data)))

	resp, err := extractSlides(data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		logger.Info("PDF extraction failed", zap.Error(err))
		writeError(w, http.StatusBadRequest, "PDF extraction failed: "+err.Error())
		return
	}
	span.SetAttributes(attribute.Int("sliderx.pages", resp.PageCount))

	writeJSON(w, http.StatusOK, resp)
}

// readUpload returns the contents of the multipart field "file".
func readUpload(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, err
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// extractSlides reads every page's text. Page texts are trimmed and the
// full text joins them with blank lines.
func extractSlides(data []byte) (extractResponse, error) {
	rd, err := reader.New(data)
	if err != nil {
		return extractResponse{}, err
	}
	texts, err := rd.PageTexts()
	if err != nil {
		return extractResponse{}, err
	}

	resp := extractResponse{
		Success:   true,
		PageCount: len(texts),
		Slides:    make([]extractedSlide, len(texts)),
	}
	for i, text := range texts {
		texts[i] = strings.TrimSpace(text)
		resp.Slides[i] = extractedSlide{Number: i + 1, Text: texts[i]}
	}
	resp.FullText = strings.Join(texts, "\n\n")
	return resp, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
