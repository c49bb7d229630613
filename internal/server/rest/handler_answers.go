package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type answerRequest struct {
	Content string `json:"content"`
}

type answerResponse struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

func (s *RESTServer) handleAnswerCreate(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "INP-001", Message: "malformed request body"})
		return
	}

	a, err := s.answers.Create(r.Context(), bearerToken(r), chi.URLParam(r, "questionId"), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":     a.UUID,
		"status": "ANSWER CREATED",
	})
}

func (s *RESTServer) handleAnswerEdit(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "INP-001", Message: "malformed request body"})
		return
	}

	a, err := s.answers.Edit(r.Context(), bearerToken(r), chi.URLParam(r, "answerId"), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":     a.UUID,
		"status": "ANSWER EDITED",
	})
}

func (s *RESTServer) handleAnswerDelete(w http.ResponseWriter, r *http.Request) {
	a, err := s.answers.Delete(r.Context(), bearerToken(r), chi.URLParam(r, "answerId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":     a.UUID,
		"status": "ANSWER DELETED",
	})
}

func (s *RESTServer) handleAnswerAllForQuestion(w http.ResponseWriter, r *http.Request) {
	list, err := s.answers.AllForQuestion(r.Context(), bearerToken(r), chi.URLParam(r, "questionId"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]answerResponse, 0, len(list))
	for _, a := range list {
		out = append(out, answerResponse{ID: a.UUID, Content: a.Content})
	}
	writeJSON(w, http.StatusOK, out)
}
