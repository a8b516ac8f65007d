package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/hirewise/ai-job-matcher/internal/config"
	"github.com/hirewise/ai-job-matcher/internal/domain"
	"github.com/hirewise/ai-job-matcher/internal/usecase"
	"github.com/hirewise/ai-job-matcher/pkg/textx"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg       config.Config
	Profiles  usecase.ProfileService
	Jobs      usecase.JobService
	Matches   usecase.MatchService
	Results   usecase.ResultService
	Stats     usecase.StatsService
	Letters   usecase.LetterService
	Extractor domain.TextExtractor

	DBCheck     func(ctx context.Context) error
	RedisCheck  func(ctx context.Context) error
	QdrantCheck func(ctx context.Context) error
	TikaCheck   func(ctx context.Context) error
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// acceptsJSON rejects requests whose Accept header excludes JSON.
func acceptsJSON(w http.ResponseWriter, r *http.Request) bool {
	a := r.Header.Get("Accept")
	if a == "" || a == "*/*" || strings.Contains(a, "application/json") {
		return true
	}
	writeJSON(w, http.StatusNotAcceptable, errorEnvelope{Error: apiError{
		Code: "INVALID_ARGUMENT", Message: "not acceptable", Details: map[string]any{"accept": a},
	}})
	return false
}

// allowedExt enforces the resume upload allowlist: .txt, .pdf, .docx.
func allowedExt(name string) bool {
	n := strings.ToLower(name)
	return strings.HasSuffix(n, ".txt") || strings.HasSuffix(n, ".pdf") || strings.HasSuffix(n, ".docx")
}

func allowedMIMEFor(m, filename string) bool {
	m = strings.ToLower(m)
	// Some detectors classify rich .txt resumes as other text subtypes.
	if strings.HasSuffix(strings.ToLower(filename), ".txt") && strings.HasPrefix(m, "text/") {
		return true
	}
	if strings.HasPrefix(m, "text/plain") {
		return true
	}
	return m == "application/pdf" || m == "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

// extractResumeText turns an uploaded resume into sanitized plain text.
// PDF and DOCX go through the Tika extractor via a temp file; plain
// text is sanitized directly.
func extractResumeText(ctx context.Context, extractor domain.TextExtractor, h *multipart.FileHeader, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(h.Filename))
	if ext == ".pdf" || ext == ".docx" {
		if extractor == nil {
			return "", fmt.Errorf("%w: %s requires extractor", domain.ErrInvalidArgument, strings.TrimPrefix(ext, "."))
		}
		tmp, err := os.CreateTemp("", "resume-*")
		if err != nil {
			return "", err
		}
		defer func() { _ = os.Remove(tmp.Name()); _ = tmp.Close() }()
		if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
			return "", err
		}
		return extractor.ExtractPath(ctx, h.Filename, tmp.Name())
	}
	return textx.SanitizeText(string(data)), nil
}

// ProfileHandler ingests a candidate profile. It accepts either a JSON
// body, or multipart/form-data with a "profile" JSON part and an
// optional "resume" file (txt/pdf/docx) whose text backfills the
// summary.
func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		var profile domain.CandidateProfile
		var resumeText string

		switch {
		case strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data"):
			maxBytes := s.Cfg.MaxUploadMB * 1024 * 1024
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			if err := r.ParseMultipartForm(maxBytes); err != nil {
				if strings.Contains(strings.ToLower(err.Error()), "too large") {
					writeJSON(w, http.StatusRequestEntityTooLarge, errorEnvelope{Error: apiError{
						Code: "INVALID_ARGUMENT", Message: "payload too large",
						Details: map[string]any{"max_mb": s.Cfg.MaxUploadMB},
					}})
					return
				}
				writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
				return
			}
			if doc := r.FormValue("profile"); doc != "" {
				if err := json.Unmarshal([]byte(doc), &profile); err != nil {
					writeError(w, r, fmt.Errorf("%w: invalid profile json", domain.ErrInvalidArgument), nil)
					return
				}
			}
			text, ok := s.readResume(w, r)
			if !ok {
				return
			}
			resumeText = text
		default:
			r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
			if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
				writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
				return
			}
		}

		id, err := s.Profiles.Ingest(r.Context(), profile, resumeText)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": id})
	}
}

// readResume pulls the optional "resume" part, enforces the extension
// and MIME allowlists, and extracts its text. Returns ok=false after
// writing an error response.
func (s *Server) readResume(w http.ResponseWriter, r *http.Request) (string, bool) {
	file, header, err := r.FormFile("resume")
	if err != nil {
		return "", true // resume part is optional
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: resume read: %v", domain.ErrInvalidArgument, err), nil)
		return "", false
	}
	if !allowedExt(header.Filename) {
		writeJSON(w, http.StatusUnsupportedMediaType, errorEnvelope{Error: apiError{
			Code: "INVALID_ARGUMENT", Message: "unsupported media type for resume (extension)",
			Details: map[string]any{"filename": header.Filename},
		}})
		return "", false
	}
	m := mimetype.Detect(data)
	if !allowedMIMEFor(m.String(), header.Filename) {
		writeJSON(w, http.StatusUnsupportedMediaType, errorEnvelope{Error: apiError{
			Code: "INVALID_ARGUMENT", Message: "unsupported media type for resume (content)",
			Details: map[string]any{"mime": m.String(), "filename": header.Filename},
		}})
		return "", false
	}
	text, err := extractResumeText(r.Context(), s.Extractor, header, data)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: resume extract: %v", domain.ErrInvalidArgument, err), nil)
		return "", false
	}
	return text, true
}

// JobHandler ingests a job requirement.
func (s *Server) JobHandler() http.HandlerFunc {
	type jobRequest struct {
		Title           string   `json:"title" validate:"required,max=200"`
		Company         string   `json:"company" validate:"max=200"`
		Location        string   `json:"location" validate:"max=200"`
		Description     string   `json:"description" validate:"max=10000"`
		RequiredSkills  []string `json:"required_skills" validate:"required,min=1"`
		PreferredSkills []string `json:"preferred_skills"`
		MinExperience   float64  `json:"min_experience_years" validate:"gte=0"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		var req jobRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), validationDetails(err))
			return
		}
		id, err := s.Jobs.Ingest(r.Context(), domain.JobRequirement{
			Title:           req.Title,
			Company:         req.Company,
			Location:        req.Location,
			Description:     req.Description,
			RequiredSkills:  req.RequiredSkills,
			PreferredSkills: req.PreferredSkills,
			MinExperience:   req.MinExperience,
		})
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": id})
	}
}

// MatchHandler enqueues an asynchronous match between a stored profile
// and job. Repeated Idempotency-Key headers return the original id.
func (s *Server) MatchHandler() http.HandlerFunc {
	type matchRequest struct {
		ProfileID          string `json:"profile_id" validate:"required"`
		JobID              string `json:"job_id" validate:"required"`
		IncludeCoverLetter bool   `json:"include_cover_letter"`
		IncludeSkillGaps   bool   `json:"include_skill_gaps"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		var req matchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), validationDetails(err))
			return
		}
		id, err := s.Matches.Enqueue(r.Context(), req.ProfileID, req.JobID, r.Header.Get("Idempotency-Key"), usecase.MatchOptions{
			IncludeCoverLetter: req.IncludeCoverLetter,
			IncludeSkillGaps:   req.IncludeSkillGaps,
		})
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(domain.MatchQueued)})
	}
}

// ResultHandler returns the match status, or the full result once
// completed, with ETag conditional support.
func (s *Server) ResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		id := chi.URLParam(r, "id")
		if id == "" {
			writeError(w, r, fmt.Errorf("%w: id missing", domain.ErrInvalidArgument), nil)
			return
		}
		status, body, etag, err := s.Results.Fetch(r.Context(), id, r.Header.Get("If-None-Match"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		w.Header().Set("ETag", etag)
		if status == http.StatusNotModified {
			w.WriteHeader(status)
			return
		}
		writeJSON(w, status, body)
	}
}

// CoverLetterHandler composes a standalone cover letter synchronously.
func (s *Server) CoverLetterHandler() http.HandlerFunc {
	type letterRequest struct {
		ProfileID string `json:"profile_id" validate:"required"`
		JobID     string `json:"job_id" validate:"required"`
		MatchID   string `json:"match_id"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		var req letterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), validationDetails(err))
			return
		}
		letter, err := s.Letters.Compose(r.Context(), req.ProfileID, req.JobID, req.MatchID)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"cover_letter": letter})
	}
}

// StatsHandler reports match counts by status and recommendation.
func (s *Server) StatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		stats, err := s.Stats.Snapshot(r.Context())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// ReadyzHandler probes DB, Redis, Qdrant, and Tika.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		probes := []struct {
			name string
			fn   func(context.Context) error
		}{
			{"db", s.DBCheck},
			{"redis", s.RedisCheck},
			{"qdrant", s.QdrantCheck},
			{"tika", s.TikaCheck},
		}
		checks := make([]check, 0, len(probes))
		ok := true
		for _, p := range probes {
			if p.fn == nil {
				continue
			}
			if err := p.fn(ctx); err != nil {
				checks = append(checks, check{Name: p.name, Details: err.Error()})
				ok = false
			} else {
				checks = append(checks, check{Name: p.name, OK: true})
			}
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}

func validationDetails(err error) map[string]string {
	verrs := map[string]string{}
	if ve, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range ve {
			verrs[strings.ToLower(fe.Field())] = fe.Tag()
		}
	}
	return verrs
}
