package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/billing"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/eligibility"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/league"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/team"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/logging"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/resilience"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service. It is loaded once
// at startup and immutable during a request.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	LogLevel       logging.Level

	DBURL string

	CORSAllowedOrigins []string

	// Registration rules.
	Pricing           billing.Pricing
	MaxTeamsPerClient int
	MaxMembersPerTeam int
	EducationAgeTable map[team.EducationLevel]eligibility.AgeRange
	Leagues           []league.League
	BlockedWords      []string

	// Phone verification.
	OTPLength         int
	OTPTTL            time.Duration
	OTPResendCooldown time.Duration

	// Receipt intake.
	ReceiptDir      string
	ReceiptMaxBytes int64

	// Collaborators.
	InternalAPIToken string

	SessionBaseURL string
	SessionTimeout time.Duration
	SessionCircuit resilience.CircuitBreakerConfig

	SMSBaseURL     string
	SMSAPIKey      string
	SMSSender      string
	SMSTimeout     time.Duration
	SMSCircuit     resilience.CircuitBreakerConfig
	NotifyWorkers  int

	// Observability.
	UptraceEnabled   bool
	UptraceDSN       string
	PyroscopeEnabled bool
	PyroscopeAddr    string
	PyroscopeAppName string
	PprofEnabled     bool
	PprofAddr        string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := getEnvAsDuration("APP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsDuration("APP_WRITE_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}

	feePerMember, err := getEnvAsInt64("FEE_PER_MEMBER", 9_500_000)
	if err != nil {
		return Config{}, err
	}
	teamFee, err := getEnvAsInt64("FEE_TEAM", 4_500_000)
	if err != nil {
		return Config{}, err
	}
	discount, err := getEnvAsInt("LEAGUE_TWO_DISCOUNT_PERCENT", 20)
	if err != nil {
		return Config{}, err
	}
	pricing := billing.Pricing{
		FeePerMember:         feePerMember,
		TeamFee:              teamFee,
		SecondLeagueDiscount: discount,
	}
	if err := pricing.Validate(); err != nil {
		return Config{}, err
	}

	maxTeams, err := getEnvAsInt("MAX_TEAMS_PER_CLIENT", 3)
	if err != nil {
		return Config{}, err
	}
	if maxTeams < 1 {
		return Config{}, fmt.Errorf("MAX_TEAMS_PER_CLIENT must be >= 1")
	}
	maxMembers, err := getEnvAsInt("MAX_MEMBERS_PER_TEAM", 6)
	if err != nil {
		return Config{}, err
	}
	if maxMembers < 1 {
		return Config{}, fmt.Errorf("MAX_MEMBERS_PER_TEAM must be >= 1")
	}

	ageTable, err := parseAgeTable(getEnv("EDUCATION_AGE_TABLE", defaultAgeTable))
	if err != nil {
		return Config{}, fmt.Errorf("parse EDUCATION_AGE_TABLE: %w", err)
	}
	leagues, err := parseLeagueCatalog(getEnv("LEAGUE_CATALOG", defaultLeagueCatalog))
	if err != nil {
		return Config{}, fmt.Errorf("parse LEAGUE_CATALOG: %w", err)
	}

	otpLength, err := getEnvAsInt("OTP_LENGTH", 6)
	if err != nil {
		return Config{}, err
	}
	if otpLength < 4 || otpLength > 10 {
		return Config{}, fmt.Errorf("OTP_LENGTH must be 4-10")
	}
	otpTTL, err := getEnvAsDuration("OTP_TTL", "5m")
	if err != nil {
		return Config{}, err
	}
	otpCooldown, err := getEnvAsDuration("OTP_RESEND_COOLDOWN", "90s")
	if err != nil {
		return Config{}, err
	}

	receiptMaxBytes, err := getEnvAsInt64("RECEIPT_MAX_BYTES", 5<<20)
	if err != nil {
		return Config{}, err
	}
	if receiptMaxBytes <= 0 {
		return Config{}, fmt.Errorf("RECEIPT_MAX_BYTES must be > 0")
	}

	sessionTimeout, err := getEnvAsDuration("SESSION_TIMEOUT", "3s")
	if err != nil {
		return Config{}, err
	}
	sessionCircuit, err := parseCircuit("SESSION")
	if err != nil {
		return Config{}, err
	}

	smsTimeout, err := getEnvAsDuration("SMS_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	smsCircuit, err := parseCircuit("SMS")
	if err != nil {
		return Config{}, err
	}
	notifyWorkers, err := getEnvAsInt("NOTIFY_WORKERS", 4)
	if err != nil {
		return Config{}, err
	}
	if notifyWorkers < 1 {
		return Config{}, fmt.Errorf("NOTIFY_WORKERS must be >= 1")
	}

	uptraceEnabled, err := getEnvAsBool("UPTRACE_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := getEnvAsBool("PYROSCOPE_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	pyroscopeAddr := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeAddr == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}

	pprofEnabled, err := getEnvAsBool("PPROF_ENABLED", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "airocup-registration-api"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		LogLevel:       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		DBURL: getEnv("DB_URL", ""),

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		Pricing:           pricing,
		MaxTeamsPerClient: maxTeams,
		MaxMembersPerTeam: maxMembers,
		EducationAgeTable: ageTable,
		Leagues:           leagues,
		BlockedWords:      splitCSV(getEnv("BLOCKED_WORDS", "")),

		OTPLength:         otpLength,
		OTPTTL:            otpTTL,
		OTPResendCooldown: otpCooldown,

		ReceiptDir:      getEnv("RECEIPT_DIR", "data/receipts"),
		ReceiptMaxBytes: receiptMaxBytes,

		InternalAPIToken: strings.TrimSpace(getEnv("INTERNAL_API_TOKEN", "")),

		SessionBaseURL: getEnv("SESSION_BASE_URL", "http://localhost:8081"),
		SessionTimeout: sessionTimeout,
		SessionCircuit: sessionCircuit,

		SMSBaseURL:    getEnv("SMS_BASE_URL", "https://api.kavenegar.com/v1"),
		SMSAPIKey:     strings.TrimSpace(getEnv("SMS_API_KEY", "")),
		SMSSender:     getEnv("SMS_SENDER", "airocup"),
		SMSTimeout:    smsTimeout,
		SMSCircuit:    smsCircuit,
		NotifyWorkers: notifyWorkers,

		UptraceEnabled:   uptraceEnabled,
		UptraceDSN:       uptraceDSN,
		PyroscopeEnabled: pyroscopeEnabled,
		PyroscopeAddr:    pyroscopeAddr,
		PyroscopeAppName: getEnv("PYROSCOPE_APP_NAME", getEnv("APP_SERVICE_NAME", "airocup-registration-api")),
		PprofEnabled:     pprofEnabled,
		PprofAddr:        getEnv("PPROF_ADDR", ":6060"),
	}

	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if len(cfg.Leagues) == 0 {
		return Config{}, fmt.Errorf("LEAGUE_CATALOG cannot be empty")
	}

	return cfg, nil
}

const defaultAgeTable = "elementary:7-13,junior_high:12-16,senior_high:15-19,university:17-,open:-"

const defaultLeagueCatalog = "soccer-sim=Soccer Simulation;" +
	"rescue=Rescue Robot;" +
	"line-follower=Line Follower;" +
	"drone=Autonomous Drone;" +
	"maze=Micromouse Maze;" +
	"ai-challenge=AI Challenge"

// parseAgeTable reads "level:min-max" items; an absent min or max leaves
// that side unbounded ("17-", "-13", "-").
func parseAgeTable(raw string) (map[team.EducationLevel]eligibility.AgeRange, error) {
	out := make(map[team.EducationLevel]eligibility.AgeRange)
	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		segments := strings.SplitN(item, ":", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid item %q, expected level:min-max", item)
		}

		level := team.EducationLevel(strings.TrimSpace(segments[0]))
		if _, ok := team.AllEducationLevels[level]; !ok {
			return nil, fmt.Errorf("unknown education level %q", segments[0])
		}

		bounds := strings.SplitN(strings.TrimSpace(segments[1]), "-", 2)
		if len(bounds) != 2 {
			return nil, fmt.Errorf("invalid bounds in item %q", item)
		}

		var rng eligibility.AgeRange
		if v := strings.TrimSpace(bounds[0]); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid min age in item %q", item)
			}
			rng.Min = &n
		}
		if v := strings.TrimSpace(bounds[1]); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid max age in item %q", item)
			}
			rng.Max = &n
		}
		if rng.Min != nil && rng.Max != nil && *rng.Min > *rng.Max {
			return nil, fmt.Errorf("min exceeds max in item %q", item)
		}

		out[level] = rng
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("age table cannot be empty")
	}

	return out, nil
}

// parseLeagueCatalog reads semicolon-separated "id=Display Name" pairs.
func parseLeagueCatalog(raw string) ([]league.League, error) {
	seen := make(map[string]struct{})
	var out []league.League
	for _, part := range strings.Split(raw, ";") {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		segments := strings.SplitN(item, "=", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid item %q, expected id=name", item)
		}

		l := league.League{
			ID:   strings.TrimSpace(segments[0]),
			Name: strings.TrimSpace(segments[1]),
		}
		if err := l.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[l.ID]; dup {
			return nil, fmt.Errorf("duplicate league id %q", l.ID)
		}
		seen[l.ID] = struct{}{}
		out = append(out, l)
	}

	return out, nil
}

func parseCircuit(prefix string) (resilience.CircuitBreakerConfig, error) {
	enabled, err := getEnvAsBool(prefix+"_CIRCUIT_ENABLED", true)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, err
	}
	failures, err := getEnvAsInt(prefix+"_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, err
	}
	openTimeout, err := getEnvAsDuration(prefix+"_CIRCUIT_OPEN_TIMEOUT", "15s")
	if err != nil {
		return resilience.CircuitBreakerConfig{}, err
	}
	halfOpen, err := getEnvAsInt(prefix+"_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, err
	}

	return resilience.NormalizeCircuitBreakerConfig(resilience.CircuitBreakerConfig{
		Enabled:          enabled,
		FailureThreshold: failures,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpen,
	}), nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	return out, nil
}

func getEnvAsInt64(key string, fallback int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	return out, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}

	return out, nil
}

func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
