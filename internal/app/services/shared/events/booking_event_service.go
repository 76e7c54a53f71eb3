package events

import (
	"context"
	"fmt"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"sync"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// BookingConfirmedMessage is the payload published for every successful
// booking so downstream notification workers can fan out.
type BookingConfirmedMessage struct {
	RequestID     string `json:"request_id,omitempty"`
	AppointmentID string `json:"appointment_id,omitempty"`
	DoctorID      string `json:"doctor_id"`
	HospitalID    string `json:"hospital_id"`
	PatientID     string `json:"patient_id,omitempty"`
	PatientName   string `json:"patient_name,omitempty"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Status        string `json:"status"`
	PublishedAt   string `json:"published_at"`
}

// publishChannel is the slice of amqp.Channel the publisher needs.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type bookingEventService struct {
	ch        publishChannel
	queueName string
	log       *zap.Logger
	confirms  chan amqp.Confirmation
	mu        sync.Mutex
}

// NewBookingEventService declares the durable queue, enables publisher
// confirms on its channel and registers the confirmations listener.
func NewBookingEventService(conn *amqp.Connection, queueName string, log *zap.Logger) (contracts.BookingEventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // autoDelete
		false,     // exclusive
		false,     // noWait
		nil,       // args
	)
	if err != nil {
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		return nil, err
	}

	return &bookingEventService{
		ch:        ch,
		queueName: queueName,
		log:       log,
		confirms:  ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
	}, nil
}

func (s *bookingEventService) PublishBookingConfirmed(ctx context.Context, result *responses.BookingResult, request *requests.CreateBookingRequest) error {
	message := BookingConfirmedMessage{
		RequestID:     utils.RequestIDFromContext(ctx),
		AppointmentID: result.AppointmentID,
		DoctorID:      request.DoctorID,
		HospitalID:    request.HospitalID,
		PatientID:     request.PatientID,
		PatientName:   request.PatientName,
		Date:          request.Date,
		Time:          request.Time,
		Status:        result.Status,
		PublishedAt:   time.Now().Format(time.RFC3339),
	}

	body, err := json.Marshal(message)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.ch.PublishWithContext(ctx,
		"",          // exchange
		s.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  constvars.MIMEApplicationJSON,
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		s.log.Error("bookingEventService.PublishBookingConfirmed publish failed",
			zap.String(constvars.LoggingAppointmentIDKey, result.AppointmentID),
			zap.Error(err),
		)
		return exceptions.ErrPublishBookingEvent(err)
	}

	select {
	case confirmed := <-s.confirms:
		if !confirmed.Ack {
			s.log.Error("bookingEventService.PublishBookingConfirmed message not confirmed",
				zap.String(constvars.LoggingAppointmentIDKey, result.AppointmentID),
			)
			return exceptions.ErrPublishBookingEvent(fmt.Errorf("message not confirmed"))
		}
	case <-ctx.Done():
		return exceptions.ErrPublishBookingEvent(ctx.Err())
	}

	return nil
}
