package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jonathan/interview-agent/internal/types"
)

// CreateSessionRequest represents the request body for POST /sessions
type CreateSessionRequest struct {
	PositionID string `json:"position_id"`
	CVText     string `json:"cv_text,omitempty"`
}

// CreateSessionResponse represents the response for POST /sessions
type CreateSessionResponse struct {
	SessionID  string `json:"session_id"`
	PositionID string `json:"position_id"`
}

// handleCreateSession creates a session bound to a position
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.PositionID == "" {
		s.errorResponse(w, http.StatusBadRequest, "position_id is required")
		return
	}

	// The position must exist before a candidate can interview for it
	if _, err := s.db.GetPosition(r.Context(), req.PositionID); err != nil {
		s.handleError(w, err)
		return
	}

	sessionID, err := s.db.CreateSession(r.Context(), req.PositionID, req.CVText)
	if err != nil {
		s.handleError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, CreateSessionResponse{
		SessionID:  sessionID,
		PositionID: req.PositionID,
	})
}

// handleStartInterview opens the case interview for a session
func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	opening, caseID, err := s.sessions.StartInterview(r.Context(), sessionID)
	if err != nil {
		s.handleError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.StartInterviewResponse{
		SessionID: sessionID,
		CaseID:    caseID,
		Message:   opening,
	})
}

// handleSendMessage routes one candidate turn through the interview
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	var req types.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "text must be 1-20000 characters")
		return
	}

	reply, finished, err := s.sessions.SendMessage(r.Context(), sessionID, req.Text)
	if err != nil {
		s.handleError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.SendMessageResponse{
		SessionID: sessionID,
		Reply:     reply,
		Finished:  finished,
	})
}

// handleInterviewState returns a read-only interview snapshot
func (s *Server) handleInterviewState(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	state, err := s.sessions.GetState(r.Context(), sessionID)
	if err != nil {
		s.handleError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.InterviewStateResponse{
		Finished:           state.Finished,
		RemainingQuestions: state.RemainingQuestions,
		HistoryLen:         state.HistoryLen,
		Conversation:       state.Conversation,
	})
}

// handleComputeSkillRelevance recomputes skill relevance scores on demand.
// The computation is idempotent: rescoring overwrites the previous result.
func (s *Server) handleComputeSkillRelevance(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Session ID is required")
		return
	}

	if err := s.scorer.ComputeAndSave(r.Context(), sessionID); err != nil {
		s.handleError(w, err)
		return
	}

	s.writeSkillRelevance(w, r, sessionID)
}

// handleGetSkillRelevance returns previously computed skill relevance scores
func (s *Server) handleGetSkillRelevance(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Session ID is required")
		return
	}
	s.writeSkillRelevance(w, r, sessionID)
}

func (s *Server) writeSkillRelevance(w http.ResponseWriter, r *http.Request, sessionID string) {
	raw, err := s.db.GetStageOutput(r.Context(), sessionID, types.StageSkillRelevance)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if raw == nil {
		s.errorResponse(w, http.StatusNotFound, "Skill relevance not computed for this session")
		return
	}

	var collection types.SkillScoreCollection
	if err := json.Unmarshal(raw, &collection); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Stored skill relevance is unreadable")
		return
	}
	s.jsonResponse(w, http.StatusOK, collection)
}

// handleUpsertPosition stores a position definition document
func (s *Server) handleUpsertPosition(w http.ResponseWriter, r *http.Request) {
	var position types.Position
	if err := json.NewDecoder(r.Body).Decode(&position); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if position.ID == "" {
		s.errorResponse(w, http.StatusBadRequest, "position id is required")
		return
	}
	if len(position.AllCases.Cases) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "position must define at least one case")
		return
	}

	if err := s.db.UpsertPosition(r.Context(), &position); err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"id": position.ID, "status": "stored"})
}

// handleGetPosition returns a stored position definition
func (s *Server) handleGetPosition(w http.ResponseWriter, r *http.Request) {
	positionID := r.PathValue("id")
	if positionID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Position ID is required")
		return
	}

	position, err := s.db.GetPosition(r.Context(), positionID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, position)
}

// handleListPositions returns the IDs of all stored positions
func (s *Server) handleListPositions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.db.ListPositionIDs(r.Context())
	if err != nil {
		s.handleError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.jsonResponse(w, http.StatusOK, map[string][]string{"positions": ids})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleError maps domain errors to HTTP responses
func (s *Server) handleError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
		s.errorResponse(w, status, "Internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
