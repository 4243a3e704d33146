package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestTopicForEvent(t *testing.T) {
	tests := []struct {
		eventType string
		want      string
	}{
		{EventTeacherCreated, "matricula.teacher"},
		{EventTeacherUpdated, "matricula.teacher"},
		{EventTeacherDeleted, "matricula.teacher"},
		{EventStudentCreated, "matricula.student"},
		{EventEnrollmentExported, "matricula.enrollment"},
		{EventDepositRegistered, "matricula.payment"},
		{"undotted", "matricula.undotted"},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			if got := TopicForEvent(tt.eventType); got != tt.want {
				t.Errorf("TopicForEvent(%q) = %q, want %q", tt.eventType, got, tt.want)
			}
		})
	}
}

func TestNewEvent(t *testing.T) {
	before := time.Now().UTC()
	event := NewEvent(EventTeacherCreated, TeacherCreatedEvent{TeacherID: 7, PersonID: 3})
	after := time.Now().UTC()

	if event.ID == "" {
		t.Error("expected a generated event ID")
	}
	if event.Type != EventTeacherCreated {
		t.Errorf("Type = %q, want %q", event.Type, EventTeacherCreated)
	}
	if event.Source != "matricula-service" {
		t.Errorf("Source = %q", event.Source)
	}
	if event.Version != "1.0" {
		t.Errorf("Version = %q", event.Version)
	}
	if event.Timestamp.Before(before) || event.Timestamp.After(after) {
		t.Errorf("Timestamp %v outside [%v, %v]", event.Timestamp, before, after)
	}
}

func TestGoChannelEventPublisher(t *testing.T) {
	publisher := NewGoChannelEventPublisher(testLogger())
	defer publisher.Close()

	ctx := context.Background()
	messages, err := publisher.Subscribe(ctx, TopicForEvent(EventTeacherCreated))
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	event := NewEvent(EventTeacherCreated, TeacherCreatedEvent{TeacherID: 11, PersonID: 4})
	publishErr := make(chan error, 1)
	go func() {
		publishErr <- publisher.Publish(ctx, event)
	}()

	select {
	case msg := <-messages:
		var received Event
		if err := json.Unmarshal(msg.Payload, &received); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if received.ID != event.ID || received.Type != event.Type {
			t.Errorf("received %+v, want id=%s type=%s", received, event.ID, event.Type)
		}
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published message")
	}

	if err := <-publishErr; err != nil {
		t.Fatalf("publish failed: %v", err)
	}
}

func TestMockEventPublisher(t *testing.T) {
	publisher := NewMockEventPublisher(testLogger())

	ctx := context.Background()
	_ = publisher.Publish(ctx, NewEvent(EventStudentCreated, StudentCreatedEvent{StudentID: 1}))
	_ = publisher.Publish(ctx, NewEvent(EventTeacherDeleted, TeacherDeletedEvent{TeacherID: 2}))

	published := publisher.GetPublishedEvents()
	if len(published) != 2 {
		t.Fatalf("expected 2 recorded events, got %d", len(published))
	}
	if published[0].Type != EventStudentCreated || published[1].Type != EventTeacherDeleted {
		t.Errorf("unexpected event order: %+v", published)
	}

	publisher.ClearEvents()
	if len(publisher.GetPublishedEvents()) != 0 {
		t.Error("expected no events after clear")
	}
}
