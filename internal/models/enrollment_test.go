package models

import "testing"

func TestNextEnrollmentStatus(t *testing.T) {
	tests := []struct {
		name    string
		current EnrollmentStatus
		event   EnrollmentEvent
		want    EnrollmentStatus
		wantErr bool
	}{
		{name: "active can complete", current: EnrollmentActive, event: EnrollmentEventComplete, want: EnrollmentCompleted},
		{name: "active can pause", current: EnrollmentActive, event: EnrollmentEventPause, want: EnrollmentPaused},
		{name: "active can cancel", current: EnrollmentActive, event: EnrollmentEventCancel, want: EnrollmentCancelled},
		{name: "active cannot reactivate", current: EnrollmentActive, event: EnrollmentEventReactivate, wantErr: true},

		{name: "paused can reactivate", current: EnrollmentPaused, event: EnrollmentEventReactivate, want: EnrollmentActive},
		{name: "paused can cancel", current: EnrollmentPaused, event: EnrollmentEventCancel, want: EnrollmentCancelled},
		{name: "paused cannot complete", current: EnrollmentPaused, event: EnrollmentEventComplete, wantErr: true},
		{name: "paused cannot pause again", current: EnrollmentPaused, event: EnrollmentEventPause, wantErr: true},

		{name: "cancelled can reactivate", current: EnrollmentCancelled, event: EnrollmentEventReactivate, want: EnrollmentActive},
		{name: "cancelled cannot complete", current: EnrollmentCancelled, event: EnrollmentEventComplete, wantErr: true},
		{name: "cancelled cannot pause", current: EnrollmentCancelled, event: EnrollmentEventPause, wantErr: true},
		{name: "cancelled cannot cancel again", current: EnrollmentCancelled, event: EnrollmentEventCancel, wantErr: true},

		{name: "completed is terminal for complete", current: EnrollmentCompleted, event: EnrollmentEventComplete, wantErr: true},
		{name: "completed is terminal for pause", current: EnrollmentCompleted, event: EnrollmentEventPause, wantErr: true},
		{name: "completed is terminal for cancel", current: EnrollmentCompleted, event: EnrollmentEventCancel, wantErr: true},
		{name: "completed is terminal for reactivate", current: EnrollmentCompleted, event: EnrollmentEventReactivate, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextEnrollmentStatus(tt.current, tt.event)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
