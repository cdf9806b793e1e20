package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"lukechampine.com/frand"

	docs "github.com/simratima/VidStegX/docs"
	"github.com/simratima/VidStegX/handlers"
	"github.com/simratima/VidStegX/service"
)

// maxUploadBytes bounds multipart request bodies. Lossless video is big;
// reading past this limit fails when a handler parses the multipart form.
const maxUploadBytes = 500 * 1024 * 1024

type config struct {
	port        string
	corsOrigins []string
	ffmpegPath  string
	ffprobePath string
}

func loadConfig() config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config{
		port:        envOr("PORT", "8080"),
		ffmpegPath:  envOr("FFMPEG_PATH", "ffmpeg"),
		ffprobePath: envOr("FFPROBE_PATH", "ffprobe"),
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.corsOrigins = strings.Split(origins, ",")
	} else {
		cfg.corsOrigins = []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// checkCodecTools fails fast when the external lossless codec is missing.
// Every embed and extract request shells out to these binaries, so a broken
// PATH should stop the server at startup, not surface as per-request 500s.
func checkCodecTools(cfg config) {
	for _, bin := range []string{cfg.ffmpegPath, cfg.ffprobePath} {
		path, err := exec.LookPath(bin)
		if err != nil {
			log.Fatalf("[ERROR] codec tool %q not found: %v (set FFMPEG_PATH/FFPROBE_PATH to override)", bin, err)
		}
		log.Printf("[INFO] codec tool %s resolved to %s", bin, path)
	}
}

// @BasePath /api/v1

func main() {
	cfg := loadConfig()
	checkCodecTools(cfg)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())
	r.Use(cors.New(corsPolicy(cfg.corsOrigins)))
	r.Use(traceIDs())
	r.Use(uploadLimit(maxUploadBytes))

	h := handlers.NewHandlers(
		service.NewSteganographyService(),
		service.NewVideoService(),
	)

	docs.SwaggerInfo.BasePath = "/api/v1"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", h.HealthHandler)
		v1.POST("/capacity", h.CalculateCapacityHandler)
		v1.POST("/embed", h.EmbedHandler)
		v1.POST("/extract", h.ExtractHandler)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.port,
		Handler: r,
		// Decoding and re-encoding a full video takes a while.
		ReadTimeout:    2 * time.Minute,
		WriteTimeout:   2 * time.Minute,
		IdleTimeout:    time.Minute,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Starting server on port %s (swagger at /swagger/index.html)", cfg.port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// requestLogger writes one tagged access-log line per request.
func requestLogger() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(p gin.LogFormatterParams) string {
		return fmt.Sprintf("[HTTP] %s %s -> %d in %s (client %s) %s\n",
			p.Method, p.Path, p.StatusCode, p.Latency, p.ClientIP, p.ErrorMessage)
	})
}

func corsPolicy(origins []string) cors.Config {
	return cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Content-Length", "X-Trace-Id"},
		ExposeHeaders: []string{
			"Content-Disposition",
			"X-PSNR-Value",
			"X-Embedding-Method",
			"X-Extraction-Method",
			"X-Secret-Size",
			"X-Processing-Time",
			"X-Trace-Id",
		},
		MaxAge: 12 * time.Hour,
	}
}

// traceIDs honours an incoming X-Trace-Id or mints a random one, so stego
// operations can be correlated across the handler logs.
func traceIDs() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Trace-Id")
		if id == "" {
			id = hex.EncodeToString(frand.Bytes(8))
		}
		c.Header("X-Trace-Id", id)
		c.Set("trace_id", id)
		c.Next()
	}
}

func uploadLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.ContentType() == "multipart/form-data" {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
