package domain

import "testing"

func TestAppointmentStatusValid(t *testing.T) {
	valid := []AppointmentStatus{
		AppointmentStatusPending,
		AppointmentStatusConfirmed,
		AppointmentStatusInProgress,
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
	}
	for _, status := range valid {
		if !status.Valid() {
			t.Errorf("status %q must be valid", status)
		}
	}

	if AppointmentStatus("rescheduled").Valid() {
		t.Error("unknown status must be invalid")
	}
	if AppointmentStatus("").Valid() {
		t.Error("empty status must be invalid")
	}
}

func TestAppointmentStatusTerminal(t *testing.T) {
	if !AppointmentStatusCompleted.Terminal() {
		t.Error("completed must be terminal")
	}
	if !AppointmentStatusCancelled.Terminal() {
		t.Error("cancelled must be terminal")
	}
	if AppointmentStatusConfirmed.Terminal() {
		t.Error("confirmed must not be terminal")
	}
	if AppointmentStatus("unknown").Terminal() {
		t.Error("unknown status must not be terminal")
	}
}

func TestCanTransitionTo(t *testing.T) {
	allowed := []struct {
		from, to AppointmentStatus
	}{
		{AppointmentStatusPending, AppointmentStatusConfirmed},
		{AppointmentStatusPending, AppointmentStatusCancelled},
		{AppointmentStatusConfirmed, AppointmentStatusInProgress},
		{AppointmentStatusConfirmed, AppointmentStatusCancelled},
		{AppointmentStatusInProgress, AppointmentStatusCompleted},
		{AppointmentStatusInProgress, AppointmentStatusCancelled},
	}
	for _, tt := range allowed {
		if !tt.from.CanTransitionTo(tt.to) {
			t.Errorf("transition %s -> %s must be allowed", tt.from, tt.to)
		}
	}

	forbidden := []struct {
		from, to AppointmentStatus
	}{
		{AppointmentStatusPending, AppointmentStatusInProgress},
		{AppointmentStatusPending, AppointmentStatusCompleted},
		{AppointmentStatusConfirmed, AppointmentStatusPending},
		{AppointmentStatusConfirmed, AppointmentStatusCompleted},
		{AppointmentStatusInProgress, AppointmentStatusPending},
		{AppointmentStatusInProgress, AppointmentStatusConfirmed},
		{AppointmentStatusCompleted, AppointmentStatusCancelled},
		{AppointmentStatusCompleted, AppointmentStatusConfirmed},
		{AppointmentStatusCancelled, AppointmentStatusConfirmed},
		{AppointmentStatusCancelled, AppointmentStatusCompleted},
	}
	for _, tt := range forbidden {
		if tt.from.CanTransitionTo(tt.to) {
			t.Errorf("transition %s -> %s must be forbidden", tt.from, tt.to)
		}
	}
}

func TestCanTransitionToSameStatus(t *testing.T) {
	statuses := []AppointmentStatus{
		AppointmentStatusPending,
		AppointmentStatusConfirmed,
		AppointmentStatusInProgress,
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
	}
	for _, status := range statuses {
		if !status.CanTransitionTo(status) {
			t.Errorf("transition %s -> %s must be a no-op", status, status)
		}
	}
}

func TestCanTransitionToUnknownStatus(t *testing.T) {
	if AppointmentStatusConfirmed.CanTransitionTo("rescheduled") {
		t.Error("transition to unknown status must be forbidden")
	}
	if AppointmentStatus("rescheduled").CanTransitionTo(AppointmentStatusConfirmed) {
		t.Error("transition from unknown status must be forbidden")
	}
}
