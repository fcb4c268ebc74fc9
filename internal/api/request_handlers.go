package api

import (
	"encoding/json"
	"net/http"

	"shareit/internal/models"
)

func (s *Server) handleRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var body createItemRequestRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeErrorMsg(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		view, err := s.requests.Create(r.Context(), userID, body.Description)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)

	case http.MethodGet:
		views, err := s.requests.ForUser(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		if views == nil {
			views = []*models.ItemRequestView{}
		}
		writeJSON(w, http.StatusOK, views)

	default:
		writeErrorMsg(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleRequestsAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorMsg(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := parsePage(r)
	if err != nil {
		writeError(w, err)
		return
	}

	views, err := s.requests.FromOthers(r.Context(), userID, page)
	if err != nil {
		writeError(w, err)
		return
	}
	if views == nil {
		views = []*models.ItemRequestView{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleRequestByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorMsg(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	requestID, err := pathID(r.URL.Path, "/requests/")
	if err != nil {
		writeError(w, err)
		return
	}

	view, err := s.requests.ByID(r.Context(), requestID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
