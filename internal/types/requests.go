package types

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateReservationRequest is the public reservation form. Fields are
// checked by the reservation service so the first failing rule can be
// reported; any status sent by the client is ignored.
type CreateReservationRequest struct {
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Phone  string      `json:"phone"`
	Date   string      `json:"date"`
	Time   string      `json:"time"`
	Guests NumberInput `json:"guests"`
	Notes  string      `json:"notes"`
}

// NumberInput keeps a numeric form field as sent, quoted or not, so a
// malformed value reaches validation instead of failing to decode.
type NumberInput string

func (n *NumberInput) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = NumberInput(s)
		return nil
	}
	*n = NumberInput(data)
	return nil
}

// Float64 parses the value as a JSON number literal.
func (n NumberInput) Float64() (float64, error) {
	var f float64
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(n))), &f); err != nil {
		return 0, err
	}
	return f, nil
}

type UpdateReservationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ReservationOptions describes the choices offered by the reservation form.
type ReservationOptions struct {
	TimeSlots     []string `json:"time_slots"`
	GuestOptions  []int    `json:"guest_options"`
	DefaultGuests int      `json:"default_guests"`
	MinDate       string   `json:"min_date"`
}

type CategoryRequest struct {
	Label     string `json:"label" binding:"required,max=100"`
	SortOrder int    `json:"sort_order"`
	IsActive  *bool  `json:"is_active"`
}

type MenuItemRequest struct {
	Category    string   `json:"category" binding:"required"`
	Name        string   `json:"name" binding:"required,max=150"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"image_url"`
	SortOrder   int      `json:"sort_order"`
	IsActive    *bool    `json:"is_active"`
}

type GalleryImageRequest struct {
	ImageURL string `json:"image_url"`
	AltText  string `json:"alt_text"`
	IsActive *bool  `json:"is_active"`
}

type UpdateGalleryImageRequest struct {
	AltText   *string `json:"alt_text"`
	SortOrder *int    `json:"sort_order"`
	IsActive  *bool   `json:"is_active"`
}

type UpdateSettingsRequest struct {
	Values map[string]string `json:"values" binding:"required"`
}

type CredentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" binding:"required"`
}

type PasswordResetConfirmRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AccountResponse struct {
	ID      uuid.UUID `json:"id"`
	Email   string    `json:"email"`
	IsAdmin bool      `json:"is_admin"`
}

type AuthResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   AccountResponse `json:"account"`
}

// SessionResponse tells the client which console state it is in and where
// to navigate when it is not allowed in.
type SessionResponse struct {
	Account  AccountResponse `json:"account"`
	State    AccessState     `json:"state"`
	Redirect string          `json:"redirect,omitempty"`
}
