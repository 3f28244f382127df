// This is the main entry point of the blog API.
// It is responsible for loading configuration, connecting to the document
// store, constructing services and handlers, setting up the HTTP router and
// middleware, and starting the server with graceful shutdown.
//
// @title Blog API
// @version 1.0
// @description Minimal blogging backend: password authentication, bearer tokens, and author-scoped post CRUD.
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/blogapi-go/apperror"
	"github.com/user/blogapi-go/auth"
	"github.com/user/blogapi-go/config"
	"github.com/user/blogapi-go/db"
	_ "github.com/user/blogapi-go/docs" // Generated Swagger docs
	"github.com/user/blogapi-go/posts"
)

func main() {
	// .env is a development convenience; in production the variables are
	// set directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to the document store and verify the connection.
	client, database, err := db.Connect(cfg.Mongo)
	if err != nil {
		log.Fatalf("Failed to connect to document store: %v", err)
	}
	defer func() {
		if err := db.Disconnect(client); err != nil {
			log.Printf("Warning: error disconnecting from document store: %v", err)
		}
	}()

	if err := db.EnsureIndexes(database); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Construct stores, services and handlers. Dependencies are injected
	// explicitly through the constructors.
	userStore := auth.NewMongoUserStore(database)
	authService := auth.NewAuthService(userStore, *cfg.Auth)
	authHandlers := auth.NewHandlers(authService)

	postStore := posts.NewMongoPostStore(database)
	postService := posts.NewPostService(postStore)
	postHandlers := posts.NewPostHandlers(postService)

	r := chi.NewRouter()

	// Global middleware. Chi requires all middleware to be registered
	// before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StripSlashes) // /users/me/ and /users/me are equivalent
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS for the local frontends the API serves.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost", "http://localhost:3000", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panic recovery that renders through the apperror system.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Printf("Panic: %+v", rvr)
					writeError(ww, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Authenticated welcome endpoint at the root.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(authService))
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			auth.WriteJSON(w, http.StatusOK, map[string]string{"message": "Welcome to your post!"})
		})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandlers.HandleRegister())
		r.Get("/check-username", authHandlers.HandleCheckUsername())
		r.Post("/token", authHandlers.HandleToken())

		// Post routes. Reads are public; mutations require an
		// authenticated caller and are further restricted to the author
		// inside the service.
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postHandlers.HandleList())
			r.Get("/{postID}", postHandlers.HandleGet())

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireUser(authService))
				r.Post("/", postHandlers.HandleCreate())
				r.Put("/{postID}", postHandlers.HandleUpdate())
				r.Delete("/{postID}", postHandlers.HandleDelete())
			})
		})
	})

	// Current user route (protected)
	r.Route("/users", func(r chi.Router) {
		r.Use(auth.RequireUser(authService))
		r.Get("/me", authHandlers.HandleMe())
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the server in a goroutine so the main goroutine can wait for
	// shutdown signals.
	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// writeError is a local helper for the panic recovery middleware; kept here
// to avoid routing panics through half-written responses.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"error":"failed to encode error response"}`, http.StatusInternalServerError)
	}
}
