package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/insight-core/internal/core/domain"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// AnalyzeRequest carries pre-extracted document text
// @Description Pre-extracted document text for analysis
type AnalyzeRequest struct {
	Text     string `json:"text" example:"Q1 revenue was $1.2M, up 15%..."`
	FileName string `json:"file_name,omitempty" example:"report.txt"`
}

// SessionResponse is the lifecycle view of a session
// @Description Session lifecycle and status
type SessionResponse struct {
	ID            string              `json:"id"`
	FileName      string              `json:"file_name"`
	FileType      domain.FileType     `json:"file_type"`
	TextLength    int                 `json:"text_length"`
	State         domain.SessionState `json:"state"`
	FailedStage   string              `json:"failed_stage,omitempty"`
	FailureReason string              `json:"failure_reason,omitempty"`
	CreatedAt     string              `json:"created_at"`
	ExpiresAt     string              `json:"expires_at"`
}

// DashboardResponse is a dashboard recomputed from a stored session
// @Description Computed dashboard for a session
type DashboardResponse struct {
	SessionID string                 `json:"session_id"`
	KPIs      []domain.ComputedKPI   `json:"kpis"`
	Charts    []domain.ComputedChart `json:"charts"`
	Insights  []string               `json:"insights,omitempty"`
	Summary   string                 `json:"summary,omitempty"`
}

// ShareResponse carries a signed read-only dashboard token
// @Description Share token for read-only dashboard access
type ShareResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Analysis endpoints

// handleAnalyze godoc
// @Summary      Analyze document text
// @Description  Runs the full analysis pipeline on pre-extracted text. A document with no dashboard-worthy data returns 200 with has_data=false.
// @Tags         Analysis
// @Accept       json
// @Produce      json
// @Param        request  body      AnalyzeRequest  true  "Document text"
// @Success      200      {object}  domain.AnalysisResult
// @Failure      400      {object}  ErrorResponse  "Invalid request body or empty text"
// @Failure      422      {object}  ErrorResponse  "Model output unusable"
// @Failure      503      {object}  ErrorResponse  "Model credential missing"
// @Router       /analyze [post]
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = "document.txt"
	}

	doc := &domain.ExtractedDocument{
		Text:     req.Text,
		FileName: fileName,
		FileType: fileTypeFromName(fileName),
		Length:   len(req.Text),
	}

	result, err := s.analysisService.Analyze(r.Context(), doc)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleUploadDocument godoc
// @Summary      Upload and analyze a document
// @Description  Accepts a multipart file upload, extracts its text, and runs the full analysis pipeline
// @Tags         Analysis
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Document file (pdf, png, jpg, jpeg, txt, csv; max 10MB)"
// @Success      200   {object}  domain.AnalysisResult
// @Failure      400   {object}  ErrorResponse  "Missing file, unsupported format, or unreadable content"
// @Failure      413   {object}  ErrorResponse  "File too large"
// @Failure      503   {object}  ErrorResponse  "Model credential missing"
// @Router       /documents [post]
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile(uploadFieldName)
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	doc, err := s.extractor.Extract(r.Context(), header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnsupportedFormat):
			writeError(w, http.StatusBadRequest, "unsupported file format")
		case errors.Is(err, domain.ErrNoReadableContent):
			writeError(w, http.StatusBadRequest, "no readable content in file")
		default:
			writeError(w, http.StatusInternalServerError, "text extraction failed")
		}
		return
	}

	result, err := s.analysisService.Analyze(r.Context(), doc)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Session endpoints

// handleGetSession godoc
// @Summary      Get session status
// @Description  Returns the lifecycle state of an analysis session
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  SessionResponse
// @Failure      404  {object}  ErrorResponse  "Session not found or expired"
// @Router       /sessions/{id} [get]
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessionService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

// handleDeleteSession godoc
// @Summary      Delete a session
// @Description  Removes a session and its stored results before expiry
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  StatusResponse
// @Router       /sessions/{id} [delete]
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessionService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetSessionData godoc
// @Summary      Get extracted data
// @Description  Returns the structured records and schema extracted for a session
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  domain.ExtractionResult
// @Failure      404  {object}  ErrorResponse  "Session not found or no extracted data"
// @Router       /sessions/{id}/data [get]
func (s *Server) handleGetSessionData(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessionService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	if session.State == domain.StateNoData {
		reason := ""
		if session.Verdict != nil {
			reason = session.Verdict.Reason
		}
		writeJSON(w, http.StatusOK, map[string]any{"has_data": false, "reason": reason})
		return
	}

	if session.Extraction == nil {
		writeError(w, http.StatusNotFound, "no extracted data for session")
		return
	}

	writeJSON(w, http.StatusOK, session.Extraction)
}

// handleGetSessionDashboard godoc
// @Summary      Get computed dashboard
// @Description  Recomputes KPIs and charts from the stored session data
// @Tags         Sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  DashboardResponse
// @Failure      404  {object}  ErrorResponse  "Session not found or dashboard not ready"
// @Router       /sessions/{id}/dashboard [get]
func (s *Server) handleGetSessionDashboard(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessionService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	s.writeDashboard(w, session)
}

// Share endpoints

// handleShareSession godoc
// @Summary      Create a share token
// @Description  Issues a signed read-only token for a session's dashboard, valid until the session expires
// @Tags         Sharing
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      201  {object}  ShareResponse
// @Failure      404  {object}  ErrorResponse  "Session not found"
// @Failure      409  {object}  ErrorResponse  "Dashboard not ready"
// @Router       /sessions/{id}/share [post]
func (s *Server) handleShareSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.sessionService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	if session.State != domain.StateReady {
		writeError(w, http.StatusConflict, "dashboard not ready")
		return
	}

	// Token lifetime is capped at the session's own expiry
	token, err := s.shareSigner.Sign(session.ID, session.ExpiresAt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create share token")
		return
	}

	writeJSON(w, http.StatusCreated, ShareResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt.Format(timeFormat),
	})
}

// handleGetShared godoc
// @Summary      Get a shared dashboard
// @Description  Resolves a share token and returns the computed dashboard it grants access to
// @Tags         Sharing
// @Produce      json
// @Param        token  path      string  true  "Share token"
// @Success      200    {object}  DashboardResponse
// @Failure      404    {object}  ErrorResponse  "Invalid or expired token, or session gone"
// @Router       /shared/{token} [get]
func (s *Server) handleGetShared(w http.ResponseWriter, r *http.Request) {
	// Invalid and expired tokens get the same answer as a missing session,
	// so the endpoint leaks nothing to probing
	sessionID, err := s.shareSigner.Verify(r.PathValue("token"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	session, err := s.sessionService.Get(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	s.writeDashboard(w, session)
}

// writeDashboard recomputes and writes the dashboard view of a session
func (s *Server) writeDashboard(w http.ResponseWriter, session *domain.Session) {
	if session.State != domain.StateReady || session.Extraction == nil || session.Dashboard == nil {
		writeError(w, http.StatusNotFound, "dashboard not ready")
		return
	}

	writeJSON(w, http.StatusOK, DashboardResponse{
		SessionID: session.ID,
		KPIs:      s.dashboardService.ComputeKPIs(session.Extraction.Data, session.Dashboard.KPIs),
		Charts:    s.dashboardService.ComputeCharts(session.Extraction.Data, session.Dashboard.Charts),
		Insights:  session.Dashboard.Insights,
		Summary:   session.Dashboard.Summary,
	})
}

// writeAnalysisError maps pipeline errors onto HTTP statuses
func writeAnalysisError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCredentialMissing):
		writeError(w, http.StatusServiceUnavailable, "model credential not configured")
	case errors.Is(err, domain.ErrInsufficientData):
		writeError(w, http.StatusUnprocessableEntity, "document contains too few extractable records")
	case errors.Is(err, domain.ErrInvalidPayload):
		writeError(w, http.StatusUnprocessableEntity, "model returned unusable output")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid input")
	default:
		writeError(w, http.StatusInternalServerError, "analysis failed")
	}
}

const timeFormat = "2006-01-02T15:04:05Z07:00"

func toSessionResponse(session *domain.Session) SessionResponse {
	return SessionResponse{
		ID:            session.ID,
		FileName:      session.FileName,
		FileType:      session.FileType,
		TextLength:    session.TextLength,
		State:         session.State,
		FailedStage:   session.FailedStage,
		FailureReason: session.FailureReason,
		CreatedAt:     session.CreatedAt.Format(timeFormat),
		ExpiresAt:     session.ExpiresAt.Format(timeFormat),
	}
}

// fileTypeFromName maps a file name's extension onto a FileType, defaulting
// to txt for the JSON text path
func fileTypeFromName(fileName string) domain.FileType {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), ".")) {
	case "pdf":
		return domain.FileTypePDF
	case "png":
		return domain.FileTypePNG
	case "jpg":
		return domain.FileTypeJPG
	case "jpeg":
		return domain.FileTypeJPEG
	case "csv":
		return domain.FileTypeCSV
	default:
		return domain.FileTypeTXT
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
