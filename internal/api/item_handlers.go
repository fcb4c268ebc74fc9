package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"shareit/internal/models"
	"shareit/internal/service"
)

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var body createItemRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeErrorMsg(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		input := service.ItemInput{
			Name:        body.Name,
			Description: body.Description,
			RequestID:   body.RequestID,
		}
		if body.Available != nil {
			input.Available = *body.Available
		}

		item, err := s.items.Create(r.Context(), userID, input)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)

	case http.MethodGet:
		page, err := parsePage(r)
		if err != nil {
			writeError(w, err)
			return
		}

		views, err := s.items.ItemsForOwner(r.Context(), userID, page)
		if err != nil {
			writeError(w, err)
			return
		}
		if views == nil {
			views = []*models.ItemView{}
		}
		writeJSON(w, http.StatusOK, views)

	default:
		writeErrorMsg(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleItemSearch(w http.ResponseWriter, r *http.Request) {
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

	items, err := s.items.Search(r.Context(), userID, r.URL.Query().Get("text"), page)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []*models.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleItemByID(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/items/")

	if strings.HasSuffix(rest, "/comment") {
		s.handleCreateComment(w, r, userID, strings.TrimSuffix(rest, "/comment"))
		return
	}

	itemID, err := pathID(r.URL.Path, "/items/")
	if err != nil {
		writeError(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		view, err := s.items.GetByID(r.Context(), itemID, userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)

	case http.MethodPatch:
		var body updateItemRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeErrorMsg(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		upd := service.ItemUpdate{
			Name:        body.Name,
			Description: body.Description,
			Available:   body.Available,
		}
		item, err := s.items.Update(r.Context(), itemID, userID, upd)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)

	default:
		writeErrorMsg(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request, userID int64, rawItemID string) {
	if r.Method != http.MethodPost {
		writeErrorMsg(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	itemID, err := strconv.ParseInt(rawItemID, 10, 64)
	if err != nil {
		writeErrorMsg(w, http.StatusNotFound, "not found")
		return
	}

	var body createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	comment, err := s.items.CreateComment(r.Context(), userID, itemID, body.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}
