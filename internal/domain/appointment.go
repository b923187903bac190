package domain

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusPending    AppointmentStatus = "pending"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
)

// statusTransitions — закрытая таблица переходов жизненного цикла заявки.
// Переход в тот же статус разрешён как no-op.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:    {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed:  {AppointmentStatusInProgress, AppointmentStatusCancelled},
	AppointmentStatusInProgress: {AppointmentStatusCompleted, AppointmentStatusCancelled},
	AppointmentStatusCompleted:  {},
	AppointmentStatusCancelled:  {},
}

func (s AppointmentStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// Terminal сообщает, что из статуса нет исходящих переходов.
func (s AppointmentStatus) Terminal() bool {
	return len(statusTransitions[s]) == 0 && s.Valid()
}

func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment — заявка на обслуживание одного автомобиля.
type Appointment struct {
	ID                 int64             `json:"id"`
	Make               string            `json:"make"`
	Model              string            `json:"model"`
	Year               int               `json:"year"`
	CarNumberPlate     string            `json:"car_number_plate"`
	Mileage            int               `json:"mileage"`
	ServiceTypeID      int64             `json:"service_type_id"`
	AppointmentDate    time.Time         `json:"appointment_date"`
	AppointmentTime    string            `json:"appointment_time"`
	Notes              string            `json:"notes"`
	ClientID           int64             `json:"client_id"`
	WorkerID           *int64            `json:"worker_id"`
	Status             AppointmentStatus `json:"status"`
	IsAcceptedByWorker bool              `json:"is_accepted_by_worker"`
	Checklist          map[string]bool   `json:"checklist"`
	AdditionalIssues   string            `json:"additional_issues"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`

	ClientName      string `json:"client_name,omitempty"`
	WorkerName      string `json:"worker_name,omitempty"`
	ServiceTypeName string `json:"service_type_name,omitempty"`
}

type CreateAppointmentDTO struct {
	Make            string `json:"make" binding:"required"`
	Model           string `json:"model" binding:"required"`
	Year            int    `json:"year" binding:"required"`
	CarNumberPlate  string `json:"car_number_plate" binding:"required"`
	Mileage         int    `json:"mileage" binding:"min=0"`
	ServiceTypeID   int64  `json:"service_type_id" binding:"required"`
	AppointmentDate string `json:"appointment_date" binding:"required"`
	AppointmentTime string `json:"appointment_time" binding:"required"`
	Notes           string `json:"notes"`
}

type UpdateAppointmentDTO struct {
	Make             *string            `json:"make"`
	Model            *string            `json:"model"`
	Year             *int               `json:"year"`
	CarNumberPlate   *string            `json:"car_number_plate"`
	Mileage          *int               `json:"mileage" binding:"omitempty,min=0"`
	ServiceTypeID    *int64             `json:"service_type_id"`
	AppointmentDate  *string            `json:"appointment_date"`
	AppointmentTime  *string            `json:"appointment_time"`
	Notes            *string            `json:"notes"`
	Status           *AppointmentStatus `json:"status" binding:"omitempty,oneof=pending confirmed in_progress completed cancelled"`
	Checklist        *map[string]bool   `json:"checklist"`
	AdditionalIssues *string            `json:"additional_issues"`
}

type AssignWorkerDTO struct {
	WorkerID int64 `json:"worker_id" binding:"required"`
}

type AppointmentFilter struct {
	ClientID      *int64             `json:"client_id"`
	WorkerID      *int64             `json:"worker_id"`
	Status        *AppointmentStatus `json:"status"`
	ExcludeStatus *AppointmentStatus `json:"exclude_status"`
	StartDate     *time.Time         `json:"start_date"`
	EndDate       *time.Time         `json:"end_date"`
	Limit         int                `json:"limit"`
	Offset        int                `json:"offset"`
}

// ActiveStatuses — статусы, в которых заявка занимает слот механика и
// учитывается в его загрузке.
var ActiveStatuses = []AppointmentStatus{
	AppointmentStatusConfirmed,
	AppointmentStatusInProgress,
}
