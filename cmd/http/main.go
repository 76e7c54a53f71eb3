package main

import (
	"context"
	"medibook-service/internal/app/config"
	"medibook-service/internal/app/delivery/http/controllers"
	"medibook-service/internal/app/delivery/http/middlewares"
	"medibook-service/internal/app/delivery/http/routers"
	"medibook-service/internal/app/drivers/database"
	"medibook-service/internal/app/drivers/logger"
	"medibook-service/internal/app/drivers/messaging"
	"medibook-service/internal/app/services/core/booking"
	"medibook-service/internal/app/services/shared/events"
	"medibook-service/internal/app/services/shared/redis"
	"medibook-service/internal/app/services/shared/session"
	"medibook-service/internal/app/services/upstream/appointments"
	"medibook-service/internal/app/services/upstream/doctors"
	"medibook-service/internal/app/services/upstream/hospitals"
	"medibook-service/internal/app/services/upstream/patients"
	"medibook-service/internal/app/services/upstream/slots"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	logger.InitBootstrapLogger(internalConfig)
	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)
	defer zapLogger.Sync()

	location, err := time.LoadLocation(internalConfig.App.Timezone)
	if err != nil {
		logrus.Fatalf("Error loading location: %v", err)
	}
	time.Local = location

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQ,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}
	bootstrapingTheApp(bootstrap)

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logrus.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		logrus.Printf("Error closing drivers: %v", err)
	}

	logrus.Println("Server exiting")
}

func bootstrapingTheApp(bootstrap config.Bootstrap) {
	// Redis
	redisRepository := redis.NewRedisRepository(bootstrap.Redis)
	sessionService := session.NewSessionService(redisRepository)

	// Middlewares
	appMiddlewares := &middlewares.Middlewares{
		Log:            bootstrap.Logger,
		SessionService: sessionService,
		InternalConfig: bootstrap.InternalConfig,
	}

	// Upstream clients
	upstreamBaseUrl := bootstrap.InternalConfig.Upstream.BaseUrl
	hospitalClient := hospitals.NewHospitalClient(upstreamBaseUrl, bootstrap.Logger)
	doctorClient := doctors.NewDoctorClient(upstreamBaseUrl, bootstrap.Logger)
	slotClient := slots.NewSlotClient(upstreamBaseUrl, bootstrap.Logger)
	patientClient := patients.NewPatientClient(upstreamBaseUrl, bootstrap.Logger)
	appointmentClient := appointments.NewAppointmentClient(upstreamBaseUrl, bootstrap.Logger)

	// Booking
	bookingAuditRepository := booking.NewBookingMongoRepository(
		bootstrap.MongoDB,
		bootstrap.DriverConfig.MongoDB.DbName,
	)
	bookingEventPublisher, err := events.NewBookingEventService(
		bootstrap.RabbitMQ,
		bootstrap.InternalConfig.App.BookingEventQueue,
		bootstrap.Logger,
	)
	if err != nil {
		logrus.Fatalf("Failed to initialize booking event publisher: %v", err)
	}

	bookingUsecase := booking.NewBookingUsecase(
		hospitalClient,
		doctorClient,
		slotClient,
		patientClient,
		appointmentClient,
		redisRepository,
		bookingAuditRepository,
		bookingEventPublisher,
		booking.BookingUsecaseOptions{
			AvailabilityCacheTTL: time.Second * time.Duration(bootstrap.InternalConfig.App.AvailabilityCacheTTLInSec),
		},
		bootstrap.Logger,
	)
	bookingController := controllers.NewBookingController(bootstrap.Logger, bookingUsecase)

	// Health
	healthController := controllers.NewHealthController(bootstrap.Logger, bootstrap.MongoDB, bootstrap.Redis)

	routers.SetupRoutes(bootstrap.Router, bootstrap.InternalConfig, appMiddlewares, bookingController, healthController)
}
