package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"shareit/internal/models"
)

func (s *Server) handleBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var body createBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeErrorMsg(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		view, err := s.bookings.Create(r.Context(), userID, body.ItemID, body.Start, body.End)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)

	case http.MethodGet:
		s.listBookings(w, r, userID, false)

	default:
		writeErrorMsg(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleBookingsOwner(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErrorMsg(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ownerID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	s.listBookings(w, r, ownerID, true)
}

func (s *Server) listBookings(w http.ResponseWriter, r *http.Request, userID int64, asOwner bool) {
	state, err := models.ParseBookingState(r.URL.Query().Get("state"))
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := parsePage(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var views []*models.BookingView
	if asOwner {
		views, err = s.bookings.ListForOwner(r.Context(), state, userID, page)
	} else {
		views, err = s.bookings.ListForBooker(r.Context(), state, userID, page)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if views == nil {
		views = []*models.BookingView{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	bookingID, err := pathID(r.URL.Path, "/bookings/")
	if err != nil {
		writeError(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		view, err := s.bookings.GetForOwnerOrBooker(r.Context(), bookingID, userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)

	case http.MethodPatch:
		approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
		if err != nil {
			writeErrorMsg(w, http.StatusBadRequest, "approved parameter is required")
			return
		}

		view, err := s.bookings.Reply(r.Context(), userID, bookingID, approved)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)

	default:
		writeErrorMsg(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
