package api

import (
	"encoding/json"
	"net/http"

	"shareit/internal/models"
	"shareit/internal/service"
)

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var body createUserRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeErrorMsg(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		user, err := s.users.Create(r.Context(), body.Name, body.Email)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)

	case http.MethodGet:
		users, err := s.users.GetAll(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if users == nil {
			users = []*models.User{}
		}
		writeJSON(w, http.StatusOK, users)

	default:
		writeErrorMsg(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleUserByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r.URL.Path, "/users/")
	if err != nil {
		writeError(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		user, err := s.users.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)

	case http.MethodPatch:
		var body updateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeErrorMsg(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		user, err := s.users.Update(r.Context(), id, service.UserUpdate{Name: body.Name, Email: body.Email})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)

	case http.MethodDelete:
		if err := s.users.Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)

	default:
		writeErrorMsg(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
