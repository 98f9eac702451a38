package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/logger"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/models"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/types"
)

const (
	dateLayout    = "2006-01-02"
	DefaultGuests = 2
	MinGuests     = 1
	MaxGuests     = 20
	minNameLength = 2
	maxNameLength = 100
	minPhoneChars = 9
	maxPhoneChars = 30
	maxEmailChars = 255

	// StatusFilterAll lists reservations in every status.
	StatusFilterAll = "all"
)

// Messages shown on the reservation form.
const (
	MsgNameTooShort      = "Nombre muy corto"
	MsgNameTooLong       = "Nombre muy largo"
	MsgInvalidEmail      = "Email inválido"
	MsgInvalidPhone      = "Teléfono inválido"
	MsgMissingDate       = "Selecciona una fecha"
	MsgDateInPast        = "La fecha no puede ser anterior a hoy"
	MsgMissingTime       = "Selecciona una hora"
	MsgInvalidGuests     = "Número de comensales inválido"
	MsgSubmissionFailed  = "Error al enviar la reserva. Inténtalo de nuevo."
	MsgSubmissionSuccess = "¡Reserva enviada! Te confirmaremos pronto."
)

// TimeSlots are the service times a table can be booked for.
var TimeSlots = []string{
	"12:00", "12:30", "13:00", "13:30", "14:00", "14:30",
	"20:00", "20:30", "21:00", "21:30", "22:00", "22:30",
}

// GuestOptions are the party sizes offered by the form.
var GuestOptions = []int{1, 2, 3, 4, 5, 6, 7, 8, 10, 12, 15, 20}

var validate = validator.New()

// ValidateReservation checks a submission against the form rules and
// returns the first one that fails. today is the submission date.
func ValidateReservation(req *types.CreateReservationRequest, today time.Time) error {
	name := strings.TrimSpace(req.Name)
	switch n := utf8.RuneCountInString(name); {
	case n < minNameLength:
		return newValidationError("name", MsgNameTooShort)
	case n > maxNameLength:
		return newValidationError("name", MsgNameTooLong)
	}

	if !validEmail(req.Email) {
		return newValidationError("email", MsgInvalidEmail)
	}

	if !validPhone(req.Phone) {
		return newValidationError("phone", MsgInvalidPhone)
	}

	date := strings.TrimSpace(req.Date)
	if date == "" {
		return newValidationError("date", MsgMissingDate)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return newValidationError("date", MsgMissingDate)
	}
	if date < today.Format(dateLayout) {
		return newValidationError("date", MsgDateInPast)
	}

	if !isTimeSlot(strings.TrimSpace(req.Time)) {
		return newValidationError("time", MsgMissingTime)
	}

	if _, ok := parseGuests(req.Guests); !ok {
		return newValidationError("guests", MsgInvalidGuests)
	}

	return nil
}

func validEmail(email string) bool {
	return validate.Var(strings.TrimSpace(email), fmt.Sprintf("required,email,max=%d", maxEmailChars)) == nil
}

func validPhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if n := utf8.RuneCountInString(phone); n < minPhoneChars || n > maxPhoneChars {
		return false
	}
	for _, r := range phone {
		if (r < '0' || r > '9') && !strings.ContainsRune(" +-().", r) {
			return false
		}
	}
	return true
}

func isTimeSlot(value string) bool {
	for _, slot := range TimeSlots {
		if slot == value {
			return true
		}
	}
	return false
}

// parseGuests accepts whole numbers in [MinGuests, MaxGuests].
func parseGuests(n types.NumberInput) (int, bool) {
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < MinGuests || f > MaxGuests {
		return 0, false
	}
	return int(f), true
}

// optionalText trims s and maps the empty string to NULL.
func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

type ReservationService struct {
	db           *gorm.DB
	emailService IEmailService
	now          func() time.Time
}

func NewReservationService(db *gorm.DB, emailService IEmailService) *ReservationService {
	return &ReservationService{
		db:           db,
		emailService: emailService,
		now:          time.Now,
	}
}

// WithClock replaces the clock used to decide what "today" is.
func (s *ReservationService) WithClock(now func() time.Time) *ReservationService {
	s.now = now
	return s
}

// Create validates and stores a reservation. Nothing is written when
// validation fails, and a stored reservation always starts as pending.
func (s *ReservationService) Create(ctx context.Context, req *types.CreateReservationRequest) (*models.Reservation, error) {
	if err := ValidateReservation(req, s.now()); err != nil {
		return nil, err
	}

	guests, _ := parseGuests(req.Guests)
	reservation := &models.Reservation{
		Name:   strings.TrimSpace(req.Name),
		Email:  strings.TrimSpace(req.Email),
		Phone:  strings.TrimSpace(req.Phone),
		Date:   strings.TrimSpace(req.Date),
		Time:   strings.TrimSpace(req.Time),
		Guests: guests,
		Notes:  optionalText(req.Notes),
		Status: models.StatusPending,
	}

	if err := s.db.WithContext(ctx).Create(reservation).Error; err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	if s.emailService != nil {
		if err := s.emailService.SendReservationNotification(reservation); err != nil {
			logger.ErrorLogger.WithError(err).WithField("reservation_id", reservation.ID).
				Error("failed to send reservation notification")
		}
	}

	return reservation, nil
}

// List returns reservations ordered by date then time, optionally narrowed to one status.
func (s *ReservationService) List(ctx context.Context, statusFilter string) ([]*models.Reservation, error) {
	statusFilter = strings.TrimSpace(statusFilter)
	filter := models.ReservationStatus(statusFilter)
	if statusFilter != "" && statusFilter != StatusFilterAll && !filter.IsValid() {
		return nil, newValidationError("status", fmt.Sprintf("unknown status filter %q", statusFilter))
	}

	var reservations []*models.Reservation
	err := s.db.WithContext(ctx).
		Order("date ASC").
		Order("time ASC").
		Order("created_at ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	if statusFilter == "" || statusFilter == StatusFilterAll {
		return reservations, nil
	}

	filtered := make([]*models.Reservation, 0, len(reservations))
	for _, r := range reservations {
		if r.Status == filter {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (s *ReservationService) Get(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := s.db.WithContext(ctx).First(&reservation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reservation %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return &reservation, nil
}

// UpdateStatus moves a reservation to next if the transition is allowed.
// The write is conditional on the status read, so a concurrent change makes
// it fail instead of overwriting.
func (s *ReservationService) UpdateStatus(ctx context.Context, id uuid.UUID, next models.ReservationStatus) (*models.Reservation, error) {
	if !next.IsValid() {
		return nil, newValidationError("status", fmt.Sprintf("unknown status %q", next))
	}

	reservation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !reservation.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, reservation.Status, next)
	}

	result := s.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ? AND status = ?", id, reservation.Status).
		Update("status", next)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update reservation status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("reservation %s: %w", id, ErrConflict)
	}

	reservation.Status = next
	return reservation, nil
}

// Delete removes a reservation permanently.
func (s *ReservationService) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Reservation{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete reservation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("reservation %s: %w", id, ErrNotFound)
	}
	return nil
}

// Options returns what the public form may offer; the earliest date is today.
func (s *ReservationService) Options() *types.ReservationOptions {
	slots := make([]string, len(TimeSlots))
	copy(slots, TimeSlots)
	guests := make([]int, len(GuestOptions))
	copy(guests, GuestOptions)

	return &types.ReservationOptions{
		TimeSlots:     slots,
		GuestOptions:  guests,
		DefaultGuests: DefaultGuests,
		MinDate:       s.now().Format(dateLayout),
	}
}
