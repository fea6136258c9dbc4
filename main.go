package main

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"registro/auth"
	"registro/config"
	"registro/database"
	"registro/handlers"
	"registro/service"
)

//go:embed templates/*
var templateFiles embed.FS

//go:embed static/*
var staticFiles embed.FS

func main() {
	// Load environment variables and parse CLI flags
	config.ParseFlags()

	logFile, err := setupLogging(config.Settings.LogFilePath)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	// Configure log format
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("System starting up...")

	// Initialize directory database
	if err := database.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Resolve the session signing secret (config or persisted)
	if err := auth.InitSecret(); err != nil {
		log.Fatalf("Failed to initialize session secret: %v", err)
	}

	// Initialize services
	service.InitServices(database.DB)

	// Set Gin mode
	if config.Settings.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Direct Gin logs to the configured log file
	gin.DefaultWriter = log.Writer()
	gin.DefaultErrorWriter = log.Writer()

	// Disable Gin color logs to avoid ANSI issues on Windows terminals
	gin.DisableConsoleColor()

	// Create router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Embedded templates and static assets
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFiles, "templates/*.html")))
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatalf("Failed to create static file system: %v", err)
	}
	r.StaticFS("/static", http.FS(staticFS))

	// Public routes
	r.GET("/register", handlers.ShowRegister)
	r.POST("/register", handlers.Register)
	r.GET("/login", handlers.ShowLogin)
	r.POST("/login", handlers.Login)
	r.GET("/logout", handlers.Logout)

	// Company-data routes behind the session gate
	protected := r.Group("/", handlers.RequireSession())
	{
		protected.GET("/", handlers.Index)
		protected.GET("/agregar", handlers.ShowAddRecord)
		protected.POST("/agregar", handlers.AddRecord)
		protected.GET("/editar/:id", handlers.ShowEditRecord)
		protected.POST("/editar/:id", handlers.EditRecord)
		protected.GET("/manage", handlers.Manage)
		protected.POST("/campos/add", handlers.AddField)
		protected.POST("/campos/delete/:id", handlers.DeleteField)
		protected.POST("/registros/delete/:id", handlers.DeleteRecord)
	}

	// Health and metrics routes
	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/metrics", handlers.GetMetrics)
	}

	// Find an available port
	port := findAvailablePort(config.Settings.Port)
	if port != config.Settings.Port {
		log.Printf("Default port %d is busy. Switched to %d", config.Settings.Port, port)
	}

	// Create HTTP server
	addr := fmt.Sprintf("0.0.0.0:%d", port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on http://127.0.0.1:%d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for OS interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Received interrupt signal")

	log.Println("System shutting down...")

	// Close directory database connection
	if err := database.CloseDB(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	// Gracefully shut down HTTP server
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// findAvailablePort searches for an available port
func findAvailablePort(startPort int) int {
	for port := startPort; port < startPort+100; port++ {
		addr := fmt.Sprintf("0.0.0.0:%d", port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			listener.Close()
			return port
		}
	}
	log.Fatal("No available ports found")
	return startPort
}
