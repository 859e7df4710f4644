package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/iota-uz/utils/fs"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/simple-lms/console/pkg/logging"
)

const Production = "production"

const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

var singleton = sync.OnceValue(func() *Configuration {
	c, err := Load([]string{".env", ".env.local"})
	if err != nil {
		panic(err)
	}
	return c
})

// LoadEnv loads the given env files. Files missing from the working directory
// are looked up in the nearest ancestor directory holding a go.mod.
func LoadEnv(envFiles []string) (int, error) {
	root := moduleRoot()
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		switch {
		case fs.FileExists(file):
			existingFiles = append(existingFiles, file)
		case root != "" && fs.FileExists(filepath.Join(root, file)):
			existingFiles = append(existingFiles, filepath.Join(root, file))
		}
	}

	if len(existingFiles) == 0 {
		return 0, nil
	}

	return len(existingFiles), godotenv.Load(existingFiles...)
}

func moduleRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if fs.FileExists(filepath.Join(dir, "go.mod")) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

type StoreOptions struct {
	Backend     string `env:"STORE_BACKEND" envDefault:"memory"` // memory, sqlite or postgres
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"./data/console.db"`
	DatabaseURL string `env:"DATABASE_URL"`
	SeedPath    string `env:"SEED_PATH"`
}

func (s *StoreOptions) Validate() error {
	switch s.Backend {
	case StoreMemory:
	case StoreSQLite:
		if strings.TrimSpace(s.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORE_BACKEND is 'sqlite'")
		}
	case StorePostgres:
		if strings.TrimSpace(s.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND is 'postgres'")
		}
	default:
		return fmt.Errorf("invalid STORE_BACKEND=%q (expected memory|sqlite|postgres)", s.Backend)
	}
	return nil
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/debug/prometheus"`
}

type RateLimitOptions struct {
	Enabled   bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	GlobalRPS int    `env:"RATE_LIMIT_GLOBAL_RPS" envDefault:"1000"`
	RedisURL  string `env:"RATE_LIMIT_REDIS_URL"`
}

type TracingOptions struct {
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"simple-lms-console"`
}

// Validate checks the rate limit configuration for errors
func (r *RateLimitOptions) Validate() error {
	if r.GlobalRPS < 0 {
		return fmt.Errorf("rate limit GlobalRPS must be non-negative, got %d", r.GlobalRPS)
	}
	if r.GlobalRPS > 1000000 {
		return fmt.Errorf("rate limit GlobalRPS too high, maximum is 1,000,000, got %d", r.GlobalRPS)
	}
	return nil
}

type OrgChartOptions struct {
	PDFLinesPerPage int `env:"ORGCHART_PDF_LINES_PER_PAGE" envDefault:"40"`
	MaxRenderDepth  int `env:"ORGCHART_MAX_RENDER_DEPTH" envDefault:"64"`
}

type Configuration struct {
	Store      StoreOptions
	Prometheus PrometheusOptions
	RateLimit  RateLimitOptions
	OrgChart   OrgChartOptions
	Tracing    TracingOptions

	AuthzMode          string        `env:"AUTHZ_MODE" envDefault:"shadow"`
	ServerPort         int           `env:"PORT" envDefault:"3200"`
	GoAppEnvironment   string        `env:"GO_APP_ENV" envDefault:"development"`
	SocketAddress      string        `env:"-"`
	Domain             string        `env:"DOMAIN" envDefault:"localhost"`
	Origin             string        `env:"ORIGIN" envDefault:"http://localhost:3200"`
	CorsAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"error"`
	LogPath            string        `env:"LOG_PATH" envDefault:"./logs/app.log"`
	DefaultLanguage    string        `env:"DEFAULT_LANGUAGE" envDefault:"en"`
	// The SDK looks for this header in the request and generates a uuidv4 when absent.
	RequestIDHeader string `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`
	// Asserted actor id. Authentication is handled upstream.
	ActorHeader string `env:"ACTOR_HEADER" envDefault:"X-Actor-ID"`

	logFile *os.File
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	return logging.ParseLevel(c.LogLevel)
}

func (c *Configuration) Scheme() string {
	if c.GoAppEnvironment == Production { // assume 'https' on production mode
		return "https"
	}
	return "http"
}

func Use() *Configuration {
	return singleton()
}

// Load parses the environment (after loading envFiles) into a fresh Configuration.
func Load(envFiles []string) (*Configuration, error) {
	c := &Configuration{}
	if err := c.load(envFiles); err != nil {
		c.Unload()
		return nil, err
	}
	return c, nil
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}

	if err := c.RateLimit.Validate(); err != nil {
		return fmt.Errorf("rate limit configuration error: %w", err)
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.validateAuthz(); err != nil {
		return err
	}
	if err := c.validateOrgChart(); err != nil {
		return err
	}

	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger

	if c.GoAppEnvironment == Production {
		c.SocketAddress = fmt.Sprintf(":%d", c.ServerPort)
	} else {
		c.SocketAddress = fmt.Sprintf("localhost:%d", c.ServerPort)
	}

	if os.Getenv("ORIGIN") == "" {
		// Only include the port for development; other environments sit behind 80/443.
		if c.GoAppEnvironment == "development" {
			c.Origin = fmt.Sprintf("%s://%s:%d", c.Scheme(), c.Domain, c.ServerPort)
		} else {
			c.Origin = fmt.Sprintf("%s://%s", c.Scheme(), c.Domain)
		}
	}

	return nil
}

func (c *Configuration) validateAuthz() error {
	mode := strings.ToLower(strings.TrimSpace(c.AuthzMode))
	if mode == "" {
		mode = "shadow"
	}
	switch mode {
	case "disabled", "shadow", "enforce":
	default:
		return fmt.Errorf("invalid AUTHZ_MODE=%q (expected disabled|shadow|enforce)", c.AuthzMode)
	}
	c.AuthzMode = mode
	return nil
}

func (c *Configuration) validateOrgChart() error {
	if c.OrgChart.PDFLinesPerPage <= 0 {
		return fmt.Errorf("ORGCHART_PDF_LINES_PER_PAGE must be positive, got %d", c.OrgChart.PDFLinesPerPage)
	}
	if c.OrgChart.MaxRenderDepth <= 0 {
		return fmt.Errorf("ORGCHART_MAX_RENDER_DEPTH must be positive, got %d", c.OrgChart.MaxRenderDepth)
	}
	return nil
}

// Unload closes the log file.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
	}
}
