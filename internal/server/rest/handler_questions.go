package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/qaboard/internal/server/models"
)

type questionRequest struct {
	Content string `json:"content"`
}

type questionResponse struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

func questionList(list []*models.Question) []questionResponse {
	out := make([]questionResponse, 0, len(list))
	for _, q := range list {
		out = append(out, questionResponse{ID: q.UUID, Content: q.Content})
	}
	return out
}

func (s *RESTServer) handleQuestionCreate(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "INP-001", Message: "malformed request body"})
		return
	}

	q, err := s.questions.Create(r.Context(), bearerToken(r), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":     q.UUID,
		"status": "QUESTION CREATED",
	})
}

func (s *RESTServer) handleQuestionAll(w http.ResponseWriter, r *http.Request) {
	list, err := s.questions.All(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questionList(list))
}

func (s *RESTServer) handleQuestionAllByUser(w http.ResponseWriter, r *http.Request) {
	list, err := s.questions.AllByUser(r.Context(), bearerToken(r), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questionList(list))
}

func (s *RESTServer) handleQuestionEdit(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "INP-001", Message: "malformed request body"})
		return
	}

	q, err := s.questions.Edit(r.Context(), bearerToken(r), chi.URLParam(r, "questionId"), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":     q.UUID,
		"status": "QUESTION EDITED",
	})
}

func (s *RESTServer) handleQuestionDelete(w http.ResponseWriter, r *http.Request) {
	q, err := s.questions.Delete(r.Context(), bearerToken(r), chi.URLParam(r, "questionId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":     q.UUID,
		"status": "QUESTION DELETED",
	})
}
