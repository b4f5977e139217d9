package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/telehealth-api/api"
	"github.com/linesmerrill/telehealth-api/api/scheduler"
	"github.com/linesmerrill/telehealth-api/config"
	"github.com/linesmerrill/telehealth-api/databases"
	"github.com/linesmerrill/telehealth-api/events"
	"github.com/linesmerrill/telehealth-api/notify"
	"github.com/linesmerrill/telehealth-api/propagation"
	"github.com/linesmerrill/telehealth-api/storage"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Service   *propagation.Service
	Hub       *notify.Hub
	Publisher events.Publisher
	Scheduler *scheduler.Scheduler

	client   databases.ClientHelper
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewAccountDatabase(a.dbHelper), Secret: []byte(a.Config.JWTSecret)}
	m.SetupGoGuardian()

	p := Profile{
		Service:  a.Service,
		Patients: databases.NewPatientDatabase(a.dbHelper),
		Doctors:  databases.NewDoctorDatabase(a.dbHelper),
	}
	appt := Appointment{Service: a.Service}
	up := Upload{Service: a.Service, MaxMemory: defaultMaxMemory}
	pay := Payment{Service: a.Service}
	admin := Admin{DB: databases.NewAdminDatabase(a.dbHelper)}
	metrics := MetricsHandler{}

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware)

	// healthchex
	r.HandleFunc("/health", api.HealthCheckHandler).Methods("GET")
	r.Handle("/ws/notifications", api.Middleware(http.HandlerFunc(a.Hub.ServeWS))).Methods("GET")

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(a.Config.RequestTimeout))

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(m.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/patients/{user_id}/profile", api.Middleware(http.HandlerFunc(p.SavePatientProfileHandler))).Methods("POST")
	apiCreate.Handle("/patients/{user_id}/payment/primary", api.Middleware(http.HandlerFunc(pay.SetPrimaryPaymentHandler))).Methods("POST")
	apiCreate.Handle("/patients/{user_id}", api.Middleware(http.HandlerFunc(p.PatientHandler))).Methods("GET")
	apiCreate.Handle("/doctors/{user_id}/profile", api.Middleware(http.HandlerFunc(p.SaveDoctorProfileHandler))).Methods("POST")
	apiCreate.Handle("/doctors/{user_id}", api.Middleware(http.HandlerFunc(p.DoctorHandler))).Methods("GET")

	apiCreate.Handle("/appointments", api.Middleware(http.HandlerFunc(appt.BookHandler))).Methods("POST")
	apiCreate.Handle("/appointments/{doctorpatinetId}/reschedule", api.Middleware(http.HandlerFunc(appt.RescheduleHandler))).Methods("POST")
	apiCreate.Handle("/appointments/{doctorpatinetId}/cancel", api.Middleware(http.HandlerFunc(appt.CancelHandler))).Methods("POST")
	apiCreate.Handle("/appointments/{doctorpatinetId}/prescription", api.Middleware(http.HandlerFunc(appt.PrescriptionHandler))).Methods("POST")

	apiCreate.Handle("/uploads", api.Middleware(http.HandlerFunc(up.UploadHandler))).Methods("POST")
	apiCreate.Handle("/files/{path:.*}", api.Middleware(http.HandlerFunc(up.FileHandler))).Methods("GET")

	apiCreate.Handle("/admin/mirror", api.Middleware(http.HandlerFunc(admin.MirrorSummaryHandler))).Methods("GET")

	apiCreate.Handle("/metrics/summary", api.Middleware(http.HandlerFunc(metrics.SummaryHandler))).Methods("GET")
	apiCreate.Handle("/metrics/routes", api.Middleware(http.HandlerFunc(metrics.RoutesHandler))).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().Errorw("failed to create new client", "error", err)
		return err
	}
	a.client = client

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err = client.Connect(ctx); err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().Errorw("failed to connect to database", "error", err)
		return err
	}
	a.dbHelper = databases.NewDatabase(&a.Config, client)
	zap.S().Info("telehealth-api has connected to the database")

	patients := databases.NewPatientDatabase(a.dbHelper)
	doctors := databases.NewDoctorDatabase(a.dbHelper)
	admin := databases.NewAdminDatabase(a.dbHelper)
	if err = patients.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure patient indexes: %w", err)
	}
	if err = doctors.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure doctor indexes: %w", err)
	}
	if err = admin.EnsureMirror(ctx); err != nil {
		return fmt.Errorf("ensure admin mirror: %w", err)
	}

	store, err := storage.New(a.Config.Storage)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	a.Publisher = events.Publisher(events.Nop{})
	if a.Config.KafkaBrokers != "" {
		producer, err := events.NewProducer(a.Config.KafkaBrokers, a.Config.KafkaTopic)
		if err != nil {
			return fmt.Errorf("init kafka producer: %w", err)
		}
		a.Publisher = producer
	}

	a.Hub = notify.NewHub()
	var mailer *notify.Mailer
	if a.Config.SendgridAPIKey != "" {
		mailer = notify.NewMailer(a.Config.SendgridAPIKey, a.Config.MailFrom)
	}

	a.Service = propagation.NewService(propagation.Deps{
		Patients: patients,
		Doctors:  doctors,
		Admin:    admin,
		Accounts: databases.NewAccountDatabase(a.dbHelper),
		Storage:  store,
		Recorder: api.StepRecorder{},
		Reporter: a.Publisher,
		Notifier: notify.NewDispatcher(mailer, a.Hub),
	}, propagation.Options{
		EnforcePendingTransitions: a.Config.EnforcePendingTransitions,
		EnforceDoctorAvailability: a.Config.EnforceDoctorAvailability,
		AppendAdminProfiles:       a.Config.AdminMirrorAppendProfiles,
	})

	if a.Config.AuditSchedule != "" {
		a.Scheduler = scheduler.NewScheduler(a.Config.AuditSchedule, patients, doctors, admin,
			databases.NewSchedulerLockDatabase(a.dbHelper), a.Publisher)
		if err = a.Scheduler.Start(); err != nil {
			return err
		}
	}

	// initialize api router
	a.initializeRoutes()
	return nil
}

// Close stops background work and releases the database and broker connections
func (a *App) Close(ctx context.Context) {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Publisher != nil {
		if err := a.Publisher.Close(); err != nil {
			zap.S().Warnw("failed to close event publisher", "error", err)
		}
	}
	if a.client != nil {
		if err := a.client.Disconnect(ctx); err != nil {
			zap.S().Warnw("failed to disconnect from database", "error", err)
		}
	}
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}
