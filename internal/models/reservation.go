package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReservationStatus is the moderation state of a table reservation.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// reservationTransitions lists, for every status, the statuses an admin may move it to.
// Statuses with no entries are terminal.
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted},
	StatusCancelled: {},
	StatusCompleted: {},
}

// IsValid reports whether s is a known status.
func (s ReservationStatus) IsValid() bool {
	_, ok := reservationTransitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func (s ReservationStatus) IsTerminal() bool {
	return s.IsValid() && len(reservationTransitions[s]) == 0
}

// AllowedTransitions returns the statuses reachable from s in one step.
func (s ReservationStatus) AllowedTransitions() []ReservationStatus {
	next := reservationTransitions[s]
	out := make([]ReservationStatus, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether moving from s to next is permitted.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Reservation is a table request submitted from the public site.
// Date is stored as YYYY-MM-DD and Time as HH:MM so both sort lexically.
type Reservation struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string            `gorm:"size:100;not null" json:"name"`
	Email     string            `gorm:"size:255;not null" json:"email"`
	Phone     string            `gorm:"size:30;not null" json:"phone"`
	Date      string            `gorm:"type:varchar(10);not null;index:idx_reservations_schedule,priority:1" json:"date"`
	Time      string            `gorm:"type:varchar(5);not null;index:idx_reservations_schedule,priority:2" json:"time"`
	Guests    int               `gorm:"not null" json:"guests"`
	Notes     *string           `gorm:"type:text" json:"notes"`
	Status    ReservationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}

// TableName returns the table name for the Reservation model
func (Reservation) TableName() string {
	return "reservations"
}
