package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/qaboard/internal/server/models"
)

type signupRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	UserName      string `json:"userName"`
	Email         string `json:"emailAddress"`
	Password      string `json:"password"`
	Country       string `json:"country"`
	AboutMe       string `json:"aboutMe"`
	DOB           string `json:"dob"`
	ContactNumber string `json:"contactNumber"`
}

func (s *RESTServer) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "INP-001", Message: "malformed request body"})
		return
	}

	user := &models.User{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		UserName:      req.UserName,
		Email:         req.Email,
		Country:       req.Country,
		AboutMe:       req.AboutMe,
		DOB:           req.DOB,
		ContactNumber: req.ContactNumber,
	}

	created, err := s.users.SignUp(r.Context(), user, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "user registered", "username", created.UserName)
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":     created.UUID,
		"status": "USER SUCCESSFULLY REGISTERED",
	})
}

func (s *RESTServer) handleSignin(w http.ResponseWriter, r *http.Request) {
	username, password, err := basicCredentials(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "INP-001", Message: "malformed authorization header"})
		return
	}

	session, err := s.tokens.Authenticate(r.Context(), username, password)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("access-token", session.Token)
	writeJSON(w, http.StatusOK, map[string]string{
		"id":      session.Subject.UUID,
		"message": "SIGNED IN SUCCESSFULLY",
	})
}

func (s *RESTServer) handleSignout(w http.ResponseWriter, r *http.Request) {
	session, err := s.tokens.Revoke(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":      session.Subject.UUID,
		"message": "SIGNED OUT SUCCESSFULLY",
	})
}

type userProfileResponse struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	UserName      string `json:"userName"`
	Email         string `json:"emailAddress"`
	Country       string `json:"country"`
	AboutMe       string `json:"aboutMe"`
	DOB           string `json:"dob"`
	ContactNumber string `json:"contactNumber"`
}

func (s *RESTServer) handleUserProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetUserProfile(r.Context(), bearerToken(r), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userProfileResponse{
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		UserName:      user.UserName,
		Email:         user.Email,
		Country:       user.Country,
		AboutMe:       user.AboutMe,
		DOB:           user.DOB,
		ContactNumber: user.ContactNumber,
	})
}

func (s *RESTServer) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.DeleteUser(r.Context(), bearerToken(r), chi.URLParam(r, "userId"))
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info(r.Context(), "user deleted", "uuid", user.UUID)
	writeJSON(w, http.StatusOK, map[string]string{
		"id":     user.UUID,
		"status": "USER SUCCESSFULLY DELETED",
	})
}
