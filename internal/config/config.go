package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
	} `yaml:"server"`

	Workers struct {
		PoolSize   int           `yaml:"pool_size" default:"10"`
		QueueSize  int           `yaml:"queue_size" default:"100"`
		RateLimit  int           `yaml:"rate_limit" default:"60"` // requests per minute
		Timeout    time.Duration `yaml:"timeout" default:"300s"`
		MaxRetries int           `yaml:"max_retries" default:"3"`
	} `yaml:"workers"`

	BackgroundTasks struct {
		MaxConcurrentTasks int           `yaml:"max_concurrent_tasks" default:"50"`
		TaskTimeout        time.Duration `yaml:"task_timeout" default:"600s"`
		CleanupInterval    time.Duration `yaml:"cleanup_interval" default:"1h"`
		MaxTaskAge         time.Duration `yaml:"max_task_age" default:"24h"`
	} `yaml:"background_tasks"`

	Scraper struct {
		UserAgent      string        `yaml:"user_agent"`
		MaxRetries     int           `yaml:"max_retries" default:"3"`
		RequestTimeout time.Duration `yaml:"request_timeout" default:"30s"`
		HeadlessMode   bool          `yaml:"headless_mode" default:"true"`
		StealthMode    bool          `yaml:"stealth_mode" default:"true"`

		Google struct {
			MaxJobs          int           `yaml:"max_jobs" default:"100"`
			MinContentBytes  int           `yaml:"min_content_bytes" default:"50000"`
			BlockSignatures  []string      `yaml:"block_signatures"`
			MaxScrollRounds  int           `yaml:"max_scroll_rounds" default:"10"`
			StallThreshold   int           `yaml:"stall_threshold" default:"3"`
			ScrollSettle     time.Duration `yaml:"scroll_settle" default:"1500ms"`
			InitialWait      time.Duration `yaml:"initial_wait" default:"3s"`
			URLGroupGap      int           `yaml:"url_group_gap" default:"1000"`
			PolitenessDelay  time.Duration `yaml:"politeness_delay" default:"2s"`
			NavigateTimeout  time.Duration `yaml:"navigate_timeout" default:"60s"`
		} `yaml:"google"`

		Captcha struct {
			Provider        string        `yaml:"provider" default:"2captcha"`
			APIKey          string        `yaml:"api_key"`
			Timeout         time.Duration `yaml:"timeout" default:"120s"`
			EnableAutoSolve bool          `yaml:"enable_auto_solve" default:"false"`
		} `yaml:"captcha"`
	} `yaml:"scraper"`

	Proxy struct {
		Enabled  bool     `yaml:"enabled" default:"false"`
		Host     string   `yaml:"host" default:"gw.dataimpulse.com"`
		Port     int      `yaml:"port" default:"823"`
		Login    string   `yaml:"login"`
		Password string   `yaml:"password"`
		// Static proxy URLs used round-robin when session rotation is disabled
		Static []string `yaml:"static"`
	} `yaml:"proxy"`

	JobSpy struct {
		BaseURL    string        `yaml:"base_url" default:"http://localhost:8000"`
		Timeout    time.Duration `yaml:"timeout" default:"120s"`
		MaxRetries int           `yaml:"max_retries" default:"2"`
	} `yaml:"jobspy"`

	Export struct {
		Dir     string   `yaml:"dir" default:"exports"`
		Formats []string `yaml:"formats"`
	} `yaml:"export"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`

	Redis struct {
		URL      string        `yaml:"url" default:"redis://localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db" default:"0"`
		Timeout  time.Duration `yaml:"timeout" default:"5s"`
		Enabled  bool          `yaml:"enabled" default:"false"`
	} `yaml:"redis"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	// Expand ${VAR} syntax
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1] // Remove ${ and }
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if env var not found
	})

	// Expand $VAR syntax (but avoid replacing ${VAR} that was already processed)
	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:] // Remove $
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if env var not found
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.Workers.PoolSize = 10
	config.Workers.QueueSize = 100
	config.Workers.RateLimit = 60
	config.Workers.Timeout = 300 * time.Second
	config.Workers.MaxRetries = 3

	config.BackgroundTasks.MaxConcurrentTasks = 50
	config.BackgroundTasks.TaskTimeout = 600 * time.Second
	config.BackgroundTasks.CleanupInterval = 1 * time.Hour
	config.BackgroundTasks.MaxTaskAge = 24 * time.Hour

	config.Scraper.MaxRetries = 3
	config.Scraper.RequestTimeout = 30 * time.Second
	config.Scraper.HeadlessMode = true
	config.Scraper.StealthMode = true
	config.Scraper.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	config.Scraper.Google.MaxJobs = 100
	config.Scraper.Google.MinContentBytes = 50000
	config.Scraper.Google.BlockSignatures = []string{"unusual traffic", "captcha"}
	config.Scraper.Google.MaxScrollRounds = 10
	config.Scraper.Google.StallThreshold = 3
	config.Scraper.Google.ScrollSettle = 1500 * time.Millisecond
	config.Scraper.Google.InitialWait = 3 * time.Second
	config.Scraper.Google.URLGroupGap = 1000
	config.Scraper.Google.PolitenessDelay = 2 * time.Second
	config.Scraper.Google.NavigateTimeout = 60 * time.Second

	config.Scraper.Captcha.Provider = "2captcha"
	config.Scraper.Captcha.Timeout = 120 * time.Second
	config.Scraper.Captcha.EnableAutoSolve = false

	config.Proxy.Host = "gw.dataimpulse.com"
	config.Proxy.Port = 823

	config.JobSpy.BaseURL = "http://localhost:8000"
	config.JobSpy.Timeout = 120 * time.Second
	config.JobSpy.MaxRetries = 2

	config.Export.Dir = "exports"
	config.Export.Formats = []string{"csv", "json"}

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			// Expand environment variables in the YAML content
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if captchaAPIKey := os.Getenv("CAPTCHA_API_KEY"); captchaAPIKey != "" {
		c.Scraper.Captcha.APIKey = captchaAPIKey
	}

	// Also support 2CAPTCHA_API_KEY for compatibility
	if captchaAPIKey := os.Getenv("2CAPTCHA_API_KEY"); captchaAPIKey != "" {
		c.Scraper.Captcha.APIKey = captchaAPIKey
	}

	if proxyLogin := os.Getenv("DATAIMPULSE_LOGIN"); proxyLogin != "" {
		c.Proxy.Login = proxyLogin
		c.Proxy.Enabled = true
	}

	if proxyPassword := os.Getenv("DATAIMPULSE_PASSWORD"); proxyPassword != "" {
		c.Proxy.Password = proxyPassword
	}

	if proxyHost := os.Getenv("DATAIMPULSE_HOST"); proxyHost != "" {
		c.Proxy.Host = proxyHost
	}

	if proxyPort := os.Getenv("DATAIMPULSE_PORT"); proxyPort != "" {
		if p, err := strconv.Atoi(proxyPort); err == nil {
			c.Proxy.Port = p
		}
	}

	if jobspyURL := os.Getenv("JOBSPY_BASE_URL"); jobspyURL != "" {
		c.JobSpy.BaseURL = jobspyURL
	}

	if jobspyTimeout := os.Getenv("JOBSPY_TIMEOUT"); jobspyTimeout != "" {
		if timeout, err := time.ParseDuration(jobspyTimeout); err == nil {
			c.JobSpy.Timeout = timeout
		}
	}

	if exportDir := os.Getenv("EXPORT_DIR"); exportDir != "" {
		c.Export.Dir = exportDir
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
		c.Redis.Enabled = true
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if redisTimeout := os.Getenv("REDIS_TIMEOUT"); redisTimeout != "" {
		if timeout, err := time.ParseDuration(redisTimeout); err == nil {
			c.Redis.Timeout = timeout
		}
	}

	if maxJobs := os.Getenv("GOOGLE_MAX_JOBS"); maxJobs != "" {
		if n, err := strconv.Atoi(maxJobs); err == nil {
			c.Scraper.Google.MaxJobs = n
		}
	}

	if maxRetries := os.Getenv("SCRAPER_MAX_RETRIES"); maxRetries != "" {
		if n, err := strconv.Atoi(maxRetries); err == nil {
			c.Scraper.MaxRetries = n
		}
	}
}
