package main

import (
	"log"
	"strings"

	"github.com/brainrotbuster/buster-go/api"
	"github.com/brainrotbuster/buster-go/classifier"
	defaults "github.com/brainrotbuster/buster-go/config"
	"github.com/brainrotbuster/buster-go/email"
	"github.com/brainrotbuster/buster-go/engine"
	"github.com/brainrotbuster/buster-go/messaging"
	"github.com/brainrotbuster/buster-go/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found -- config defaults will be used")
	}

	// Open the persistent store; a failure degrades to in-memory state for
	// this process lifetime rather than refusing to start.
	var st store.Store
	dbStore, err := store.NewDBStore()
	if err != nil {
		log.Printf("WARNING: persistent store unavailable (%v), falling back to in-memory state", err)
		st = store.NewMemoryStore()
	} else {
		log.Printf("Store backend: %s", dbStore.ConnectionInfo())
		st = dbStore
	}
	store.GlobalInstance = st

	// Display broadcaster pushes interventions and morning gates to tabs.
	messaging.GlobalInstance = messaging.NewDisplayBroadcaster()
	go messaging.GlobalInstance.Run()

	// Email is optional; the email intervention silently degrades without it.
	var mailer engine.NudgeMailer
	if client, err := email.NewClient(); err != nil {
		log.Printf("Email client disabled: %v", err)
	} else {
		mailer = client
	}

	engine.GlobalInstance = engine.NewEngine(engine.Config{
		Store:      st,
		Classifier: classifier.NewKeywordClassifier(),
		Mailer:     mailer,
		Display:    messaging.GlobalInstance.Push,
		OnSnapshot: api.BroadcastSnapshot,
	})
	engine.GlobalInstance.StartEvaluationLoop(defaults.EvaluationInterval)
	log.Println("Engagement engine initialized")

	r := gin.Default()
	r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	// The extension background script and dashboard are the only callers.
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://[::1]:3000",
		},
		AllowOriginFunc: func(origin string) bool {
			return strings.HasPrefix(origin, "chrome-extension://") ||
				strings.HasPrefix(origin, "moz-extension://")
		},
		AllowMethods: []string{
			"GET", "POST", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"Cache-Control", // for SSE
		},
		AllowCredentials: true,
		ExposeHeaders: []string{
			"Content-Type", "Cache-Control", "Connection",
		},
	}))

	// Authentication and system routes
	r.POST("/api/v1/auth/login", api.LoginHandler)
	r.GET("/api/v1/auth/sse", api.SseHandler)
	r.GET("/api/v1/db/status", api.DBStatusHandler)

	v1 := r.Group("/api/v1")
	{
		events := v1.Group("/events")
		{
			events.POST("/tab-activated", api.TabActivatedHandler)
			events.POST("/tab-updated", api.TabUpdatedHandler)
			events.POST("/idle", api.IdleHandler)
			events.POST("/content", api.ContentHandler)
		}

		v1.GET("/session", api.SessionHandler)
		v1.POST("/intervention/respond", api.InterventionResponseHandler)
		v1.POST("/morning/respond", api.MorningResponseHandler)

		v1.GET("/display/ws/:tabId", api.DisplayWsHandler)

		settings := v1.Group("/settings", api.RequireAuth())
		{
			settings.GET("", api.GetSettingsHandler)
			settings.POST("", api.UpdateSettingsHandler)
		}
	}

	log.Println("Starting server on :" + defaults.Port)
	if err := r.Run(":" + defaults.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
