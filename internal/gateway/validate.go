package gateway

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/models"
)

type bookingBody struct {
	ItemID int64      `json:"item_id"`
	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end"`
}

type userBody struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type itemBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type textBody struct {
	Text string `json:"text"`
}

type requestBody struct {
	Description string `json:"description"`
}

// validate applies edge checks so malformed requests never reach the
// application server. Anything it cannot judge is forwarded as-is and
// decided by the server.
func validate(method, path string, query url.Values, body []byte) error {
	if err := validatePage(query); err != nil {
		return err
	}

	switch {
	case method == "POST" && path == "/users":
		return validateCreateUser(body)
	case method == "PATCH" && strings.HasPrefix(path, "/users/"):
		return validateUpdateUser(body)
	case method == "POST" && path == "/items":
		return validateCreateItem(body)
	case method == "POST" && strings.HasSuffix(path, "/comment") && strings.HasPrefix(path, "/items/"):
		return validateComment(body)
	case method == "POST" && path == "/bookings":
		return validateCreateBooking(body)
	case method == "PATCH" && strings.HasPrefix(path, "/bookings/"):
		if _, err := strconv.ParseBool(query.Get("approved")); err != nil {
			return apperr.BadRequest("approved parameter is required")
		}
		return nil
	case method == "GET" && (path == "/bookings" || path == "/bookings/owner"):
		_, err := models.ParseBookingState(query.Get("state"))
		return err
	case method == "POST" && path == "/requests":
		var req requestBody
		if err := decodeBody(body, &req); err != nil {
			return err
		}
		if strings.TrimSpace(req.Description) == "" {
			return apperr.BadRequest("request description must not be blank")
		}
		return nil
	}
	return nil
}

func validateCreateUser(body []byte) error {
	var user userBody
	if err := decodeBody(body, &user); err != nil {
		return err
	}
	if user.Name == nil || strings.TrimSpace(*user.Name) == "" {
		return apperr.BadRequest("user name must not be blank")
	}
	return validateEmail(user.Email, true)
}

func validateUpdateUser(body []byte) error {
	var user userBody
	if err := decodeBody(body, &user); err != nil {
		return err
	}
	return validateEmail(user.Email, false)
}

func validateEmail(email *string, required bool) error {
	if email == nil {
		if required {
			return apperr.BadRequest("user email must not be blank")
		}
		return nil
	}
	trimmed := strings.TrimSpace(*email)
	if trimmed == "" || !strings.Contains(trimmed, "@") {
		return apperr.BadRequest("user email is invalid")
	}
	return nil
}

func validateCreateItem(body []byte) error {
	var item itemBody
	if err := decodeBody(body, &item); err != nil {
		return err
	}
	if item.Name == nil || strings.TrimSpace(*item.Name) == "" {
		return apperr.BadRequest("item name must not be blank")
	}
	if item.Description == nil || strings.TrimSpace(*item.Description) == "" {
		return apperr.BadRequest("item description must not be blank")
	}
	if item.Available == nil {
		return apperr.BadRequest("item availability must be set")
	}
	return nil
}

func validateComment(body []byte) error {
	var comment textBody
	if err := decodeBody(body, &comment); err != nil {
		return err
	}
	if strings.TrimSpace(comment.Text) == "" {
		return apperr.BadRequest("empty comment")
	}
	return nil
}

func validateCreateBooking(body []byte) error {
	var booking bookingBody
	if err := decodeBody(body, &booking); err != nil {
		return err
	}
	if booking.ItemID <= 0 {
		return apperr.BadRequest("item id must be positive")
	}
	if booking.Start == nil || booking.End == nil {
		return apperr.BadRequest("rental period must be set")
	}
	now := time.Now()
	if booking.Start.Before(now) || !booking.Start.Before(*booking.End) {
		return apperr.BadRequest("incorrect rental time")
	}
	return nil
}

// validatePage bound-checks whichever of from/size is present. An absent
// parameter is left for the server to interpret, matching its treatment of a
// missing "from" as an unpaged request.
func validatePage(query url.Values) error {
	if raw := query.Get("from"); raw != "" {
		from, err := strconv.Atoi(raw)
		if err != nil {
			return apperr.BadRequest("invalid pagination parameters")
		}
		if from < 0 {
			return apperr.BadRequest("invalid pagination bounds")
		}
	}

	if raw := query.Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return apperr.BadRequest("invalid pagination parameters")
		}
		if size <= 0 {
			return apperr.BadRequest("invalid pagination bounds")
		}
	}
	return nil
}

func decodeBody(body []byte, out any) error {
	if len(body) == 0 {
		return apperr.BadRequest("request body is required")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperr.BadRequest("malformed request body")
	}
	return nil
}
