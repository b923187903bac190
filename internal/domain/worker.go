package domain

import (
	"time"
)

type WorkerStatus string

const (
	WorkerStatusAvailable WorkerStatus = "available"
	WorkerStatusBusy      WorkerStatus = "busy"
)

// Worker — механик автосервиса. Workload, Status и TaskIDs не хранятся в БД,
// а выводятся при чтении из активных (confirmed | in_progress) заявок механика,
// поэтому рассинхронизация счётчика и списка задач невозможна.
type Worker struct {
	ID                    int64        `json:"id"`
	UserID                *int64       `json:"user_id"`
	FullName              string       `json:"full_name"`
	Email                 string       `json:"email"`
	PhoneNumber           string       `json:"phone_number"`
	Address               string       `json:"address"`
	PrimarySpecialization string       `json:"primary_specialization"`
	Skills                []string     `json:"skills"`
	Certifications        []string     `json:"certifications"`
	HireDate              time.Time    `json:"hire_date"`
	WeeklyAvailability    []string     `json:"weekly_availability"`
	HourlyRate            float64      `json:"hourly_rate"`
	AdditionalNotes       string       `json:"additional_notes"`
	PhotoURL              *string      `json:"photo_url"`
	Workload              int          `json:"workload"`
	Status                WorkerStatus `json:"status"`
	TaskIDs               []int64      `json:"task_ids"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

type CreateWorkerDTO struct {
	UserID                *int64   `json:"user_id"`
	FullName              string   `json:"full_name" binding:"required"`
	Email                 string   `json:"email" binding:"required,email"`
	PhoneNumber           string   `json:"phone_number" binding:"required"`
	Address               string   `json:"address"`
	PrimarySpecialization string   `json:"primary_specialization" binding:"required"`
	Skills                []string `json:"skills"`
	Certifications        []string `json:"certifications"`
	HireDate              string   `json:"hire_date" binding:"required"`
	WeeklyAvailability    []string `json:"weekly_availability"`
	HourlyRate            float64  `json:"hourly_rate" binding:"min=0"`
	AdditionalNotes       string   `json:"additional_notes"`
}

type UpdateWorkerDTO struct {
	FullName              *string   `json:"full_name"`
	Email                 *string   `json:"email" binding:"omitempty,email"`
	PhoneNumber           *string   `json:"phone_number"`
	Address               *string   `json:"address"`
	PrimarySpecialization *string   `json:"primary_specialization"`
	Skills                *[]string `json:"skills"`
	Certifications        *[]string `json:"certifications"`
	WeeklyAvailability    *[]string `json:"weekly_availability"`
	HourlyRate            *float64  `json:"hourly_rate" binding:"omitempty,min=0"`
	AdditionalNotes       *string   `json:"additional_notes"`
}
