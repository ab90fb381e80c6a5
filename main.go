package main

import (
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/jhansigoday/bookbridge/config"
	"github.com/jhansigoday/bookbridge/handlers"
	"github.com/jhansigoday/bookbridge/logger"
	"github.com/jhansigoday/bookbridge/middleware"
	"github.com/jhansigoday/bookbridge/store"
	"github.com/jhansigoday/bookbridge/utils"
	"github.com/jhansigoday/bookbridge/workers"
)

func main() {
	// .env is optional, real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.GetConfig()

	st, err := store.NewMySQLStore(cfg.DSN())
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to database")
	}
	defer st.Close()

	if err := st.InitSchema(); err != nil {
		logger.Log.WithError(err).Fatal("failed to initialize schema")
	}
	logger.Log.Info("connected to MySQL database")

	hub := utils.NewHub()
	go hub.Run()

	geocoder := utils.NewReverseGeocoder(cfg.Geocode)

	authHandler := handlers.NewAuthHandler(st)
	bookHandler := handlers.NewBookHandler(st, hub)
	requestHandler := handlers.NewRequestHandler(st, hub)
	exchangeHandler := handlers.NewExchangeHandler(st, hub)
	notifHandler := handlers.NewNotificationHandler(st, hub)
	categoryHandler := handlers.NewCategoryHandler()
	geocodeHandler := handlers.NewGeocodeHandler(geocoder)
	wsHandler := handlers.NewWSHandler(hub)

	reminder := workers.NewReminder(st, cfg.Worker.ReminderInterval, cfg.Worker.PendingAge)
	reminder.Start()

	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.Logging)

	// Public routes
	api.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/books", bookHandler.Browse).Methods(http.MethodGet)
	api.HandleFunc("/books/free", bookHandler.FreeToRead).Methods(http.MethodGet)
	api.HandleFunc("/categories", categoryHandler.GetCategories).Methods(http.MethodGet)
	api.HandleFunc("/geocode/reverse", geocodeHandler.Reverse).Methods(http.MethodGet)

	// Authenticated routes
	authed := api.NewRoute().Subrouter()
	authed.Use(middleware.Auth)

	authed.HandleFunc("/profile", authHandler.Profile).Methods(http.MethodGet)
	authed.HandleFunc("/profile", authHandler.UpdateProfile).Methods(http.MethodPut)

	authed.HandleFunc("/books", bookHandler.Donate).Methods(http.MethodPost)
	authed.HandleFunc("/books/mine", bookHandler.MyDonations).Methods(http.MethodGet)
	authed.HandleFunc("/books/{id}", bookHandler.Delete).Methods(http.MethodDelete)

	authed.HandleFunc("/requests", requestHandler.Create).Methods(http.MethodPost)
	authed.HandleFunc("/requests/sent", requestHandler.Sent).Methods(http.MethodGet)
	authed.HandleFunc("/requests/received", requestHandler.Received).Methods(http.MethodGet)
	authed.HandleFunc("/requests/badge", requestHandler.Badge).Methods(http.MethodGet)
	authed.HandleFunc("/requests/seen", requestHandler.Seen).Methods(http.MethodPost)
	authed.HandleFunc("/requests/{id}/accept", requestHandler.Accept).Methods(http.MethodPost)
	authed.HandleFunc("/requests/{id}/reject", requestHandler.Reject).Methods(http.MethodPost)
	authed.HandleFunc("/requests/{id}", requestHandler.Delete).Methods(http.MethodDelete)

	authed.HandleFunc("/exchanges/{requestID}", exchangeHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/exchanges/{requestID}/share", exchangeHandler.Share).Methods(http.MethodPost)
	authed.HandleFunc("/exchanges/{requestID}/complete", exchangeHandler.Complete).Methods(http.MethodPost)

	authed.HandleFunc("/notifications", notifHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/notifications", notifHandler.Create).Methods(http.MethodPost)
	authed.HandleFunc("/notifications/unread", notifHandler.UnreadCount).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/read-all", notifHandler.MarkAllRead).Methods(http.MethodPost)
	authed.HandleFunc("/notifications/{id}/read", notifHandler.MarkRead).Methods(http.MethodPost)
	authed.HandleFunc("/notifications/{id}", notifHandler.Delete).Methods(http.MethodDelete)

	// Websocket lives outside the /api subrouter so the logging wrapper
	// never interferes with the hijacked connection.
	router.Handle("/ws", middleware.Auth(http.HandlerFunc(wsHandler.Subscribe)))

	addr := net.JoinHostPort(cfg.Listen.BindIP, cfg.Listen.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// Only the header read is bounded; write timeouts would kill
		// long-lived websocket connections.
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Log.Infof("server running on %s", addr)
	logger.Log.Fatal(srv.ListenAndServe())
}
