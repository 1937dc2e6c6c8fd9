package middleware

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"GroundCheck/Models"

	"github.com/gofiber/fiber/v2"
)

// LogConfig holds configuration for the request logging middleware
type LogConfig struct {
	// Enable console logging
	Console bool
	// Enable file logging
	File bool
	// Log file path
	LogFilePath string
	// Skip logging for specific paths
	SkipPaths []string
}

// LogData contains the information logged per request
type LogData struct {
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	URL       string        `json:"url"`
	Status    int           `json:"status"`
	Latency   time.Duration `json:"latency"`
	IP        string        `json:"ip"`
	UserAgent string        `json:"user_agent"`
	Error     string        `json:"error,omitempty"`
	UserID    interface{}   `json:"user_id,omitempty"`
	Username  string        `json:"username,omitempty"`
}

// LoggingMiddleware creates a request logging middleware with the given configuration
func LoggingMiddleware(cfg LogConfig) fiber.Handler {
	if cfg.File {
		if err := os.MkdirAll("logs", 0755); err != nil {
			log.Printf("Error creating logs directory: %v\n", err)
		}
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()

		for _, skipPath := range cfg.SkipPaths {
			if c.Path() == skipPath {
				return c.Next()
			}
		}

		err := c.Next()

		logData := LogData{
			Timestamp: start,
			Method:    c.Method(),
			Path:      c.Path(),
			URL:       c.OriginalURL(),
			Status:    c.Response().StatusCode(),
			Latency:   time.Since(start),
			IP:        c.IP(),
			UserAgent: c.Get("User-Agent"),
		}

		// Verify runs before this returns, so the session user is available here
		if user, ok := c.Locals("user").(Models.User); ok {
			logData.UserID = user.ID
			logData.Username = user.Username
		}

		if err != nil {
			logData.Error = err.Error()
		}

		logRequest(cfg, logData)

		return err
	}
}

// RequestLogger creates a middleware that logs request information as JSON
func RequestLogger() fiber.Handler {
	return LoggingMiddleware(LogConfig{
		Console:     true,
		File:        true,
		LogFilePath: "logs/requests.log",
		SkipPaths:   []string{"/health", "/metrics"},
	})
}

func logRequest(cfg LogConfig, data LogData) {
	jsonData, _ := json.Marshal(data)
	message := string(jsonData)

	if cfg.Console {
		log.Println(message)
	}
	if cfg.File {
		logToFile(cfg.LogFilePath, message)
	}
}

func logToFile(filePath, message string) {
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Error opening log file: %v\n", err)
		return
	}
	defer file.Close()

	if _, err := file.WriteString(message + "\n"); err != nil {
		log.Printf("Error writing to log file: %v\n", err)
	}
}
