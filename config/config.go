package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"registro/version"
)

// Config holds registro runtime configuration.
type Config struct {
	LogLevel    string
	LogFilePath string
	Port        int

	// DataDir holds the directory database and every company store file.
	DataDir           string
	UsersDBName       string
	SessionSecret     string
	SessionTTLMinutes int

	// DefaultFields seeds every freshly provisioned company store,
	// format "name:type,name:type".
	DefaultFields string

	SQLitePragmasEnabled bool
	SQLiteBusyTimeoutMS  int
	SQLiteJournalMode    string
	SQLiteSynchronous    string
	SQLiteForeignKeys    bool
	SQLiteMaxOpenConns   int
	SQLiteMaxIdleConns   int
	SQLiteConnMaxIdleSec int
	SQLiteConnMaxLifeSec int
}

// Settings is the global configuration instance populated from environment variables and flags.
var Settings *Config

func init() {
	// .env is optional; a real environment variable always wins.
	_ = godotenv.Load()

	Settings = &Config{
		LogLevel:          getEnv("LOG_LEVEL", "INFO"),
		LogFilePath:       getEnv("LOG_FILE", "./registro.log"),
		Port:              getEnvInt("PORT", 5000),
		DataDir:           getEnv("DATA_DIR", "./data"),
		UsersDBName:       getEnv("USERS_DB_NAME", "users.db"),
		SessionSecret:     getEnv("SESSION_SECRET", ""),
		SessionTTLMinutes: getEnvInt("SESSION_TTL_MINUTES", 0),
		DefaultFields:     getEnv("DEFAULT_FIELDS", "descripcion:text,comprador:text,costo:number"),

		SQLitePragmasEnabled: getEnvBool("SQLITE_PRAGMAS_ENABLED", true),
		SQLiteBusyTimeoutMS:  getEnvInt("SQLITE_BUSY_TIMEOUT_MS", 5000),
		SQLiteJournalMode:    getEnv("SQLITE_JOURNAL_MODE", "WAL"),
		SQLiteSynchronous:    getEnv("SQLITE_SYNCHRONOUS", "NORMAL"),
		SQLiteForeignKeys:    getEnvBool("SQLITE_FOREIGN_KEYS", true),
		SQLiteMaxOpenConns:   getEnvInt("SQLITE_MAX_OPEN_CONNS", 1),
		SQLiteMaxIdleConns:   getEnvInt("SQLITE_MAX_IDLE_CONNS", 1),
		SQLiteConnMaxIdleSec: getEnvInt("SQLITE_CONN_MAX_IDLE_SECONDS", 300),
		SQLiteConnMaxLifeSec: getEnvInt("SQLITE_CONN_MAX_LIFETIME_SECONDS", 0),
	}
}

// ParseFlags parses command-line flags, applies any overrides to the package-level Settings, and updates configuration accordingly.
// It also provides a custom usage message and handles --help (prints usage and exits) and --version (prints build info and exits).
func ParseFlags() {
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Registro - multi-tenant record keeper\n\n")
		fmt.Fprintf(out, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintln(out, "Options:")
		flag.PrintDefaults()
		fmt.Fprintln(out, "\nEnvironment variables:")
		fmt.Fprintln(out, "  LOG_LEVEL                         Log level (DEBUG, INFO, WARN, ERROR)")
		fmt.Fprintln(out, "  LOG_FILE                          Log file path (default ./registro.log)")
		fmt.Fprintln(out, "  PORT                              HTTP server port (default 5000)")
		fmt.Fprintln(out, "  DATA_DIR                          Directory for the users database and company stores (default ./data)")
		fmt.Fprintln(out, "  USERS_DB_NAME                     Directory database filename (default users.db)")
		fmt.Fprintln(out, "  SESSION_SECRET                    HMAC secret for session cookies (generated and persisted when empty)")
		fmt.Fprintln(out, "  SESSION_TTL_MINUTES               Session lifetime in minutes, 0 = no expiry (default 0)")
		fmt.Fprintln(out, "  DEFAULT_FIELDS                    Fields seeded into new company stores, name:type pairs")
		fmt.Fprintln(out, "  SQLITE_PRAGMAS_ENABLED            Enable SQLite PRAGMAs (true/false, default true)")
		fmt.Fprintln(out, "  SQLITE_BUSY_TIMEOUT_MS            SQLite busy_timeout in milliseconds (default 5000)")
		fmt.Fprintln(out, "  SQLITE_JOURNAL_MODE               SQLite journal_mode (default WAL)")
		fmt.Fprintln(out, "  SQLITE_SYNCHRONOUS                SQLite synchronous (default NORMAL)")
		fmt.Fprintln(out, "  SQLITE_FOREIGN_KEYS               Enable SQLite foreign_keys (true/false, default true)")
		fmt.Fprintln(out, "  SQLITE_MAX_OPEN_CONNS             SQLite MaxOpenConns (default 1)")
		fmt.Fprintln(out, "  SQLITE_MAX_IDLE_CONNS             SQLite MaxIdleConns (default 1)")
		fmt.Fprintln(out, "  SQLITE_CONN_MAX_IDLE_SECONDS      SQLite ConnMaxIdleTime in seconds (default 300)")
		fmt.Fprintln(out, "  SQLITE_CONN_MAX_LIFETIME_SECONDS  SQLite ConnMaxLifetime in seconds (default 0)")
	}

	port := flag.Int("port", Settings.Port, "HTTP server port (overrides PORT)")
	dataDir := flag.String("data-dir", Settings.DataDir, "Data directory (overrides DATA_DIR)")
	sessionSecret := flag.String("session-secret", Settings.SessionSecret, "Session cookie secret (overrides SESSION_SECRET)")
	sessionTTL := flag.Int("session-ttl-minutes", Settings.SessionTTLMinutes, "Session TTL in minutes, 0 = no expiry (overrides SESSION_TTL_MINUTES)")
	defaultFields := flag.String("default-fields", Settings.DefaultFields, "Seed fields for new company stores (overrides DEFAULT_FIELDS)")
	logLevel := flag.String("log-level", Settings.LogLevel, "Log level: DEBUG, INFO, WARN, ERROR (overrides LOG_LEVEL)")
	logFile := flag.String("log-file", Settings.LogFilePath, "Log file path (overrides LOG_FILE)")
	sqlitePragmasEnabled := flag.Bool("sqlite-pragmas", Settings.SQLitePragmasEnabled, "Enable SQLite PRAGMAs (overrides SQLITE_PRAGMAS_ENABLED)")
	sqliteBusyTimeoutMS := flag.Int("sqlite-busy-timeout-ms", Settings.SQLiteBusyTimeoutMS, "SQLite busy_timeout in milliseconds (overrides SQLITE_BUSY_TIMEOUT_MS)")
	sqliteJournalMode := flag.String("sqlite-journal-mode", Settings.SQLiteJournalMode, "SQLite journal_mode (overrides SQLITE_JOURNAL_MODE)")
	sqliteSynchronous := flag.String("sqlite-synchronous", Settings.SQLiteSynchronous, "SQLite synchronous (overrides SQLITE_SYNCHRONOUS)")
	sqliteForeignKeys := flag.Bool("sqlite-foreign-keys", Settings.SQLiteForeignKeys, "Enable SQLite foreign_keys PRAGMA (overrides SQLITE_FOREIGN_KEYS)")

	showHelp := flag.Bool("help", false, "Show help and exit")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetBuildInfo())
		os.Exit(0)
	}

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	Settings.Port = *port
	Settings.DataDir = *dataDir
	Settings.SessionSecret = *sessionSecret
	Settings.SessionTTLMinutes = *sessionTTL
	Settings.DefaultFields = *defaultFields
	Settings.LogLevel = *logLevel
	Settings.LogFilePath = *logFile
	Settings.SQLitePragmasEnabled = *sqlitePragmasEnabled
	Settings.SQLiteBusyTimeoutMS = *sqliteBusyTimeoutMS
	Settings.SQLiteJournalMode = *sqliteJournalMode
	Settings.SQLiteSynchronous = *sqliteSynchronous
	Settings.SQLiteForeignKeys = *sqliteForeignKeys
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
