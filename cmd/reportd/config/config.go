package config

import (
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"sklad-report/internal/report"
	"sklad-report/internal/report/data/database"
	"sklad-report/internal/report/moysklad"
	"sklad-report/internal/report/pipeline"
	"sklad-report/internal/report/sinks/sheetsink"
)

const (
	serverAddressFlag      = "a"
	serverAddressEnv       = "RUN_ADDRESS"
	serverAddressDefault   = "localhost:8080"
	skladAddressFlag       = "m"
	skladAddressEnv        = "MOYSKLAD_ADDRESS"
	skladAddressDefault    = "https://api.moysklad.ru/api/remap/1.2"
	skladTokenEnv          = "MOYSKLAD_TOKEN"
	dbConnectionStringFlag = "d"
	dbConnectionStringEnv  = "DATABASE_URI"
	credentialsFileFlag    = "c"
	credentialsFileEnv     = "GOOGLE_CREDENTIALS_FILE"
	spreadsheetIDFlag      = "s"
	spreadsheetIDEnv       = "SPREADSHEET_ID"
	csvOutputDirFlag       = "o"
	csvOutputDirEnv        = "CSV_OUTPUT_DIR"
)

const (
	requestTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second
	workersCount    = 4
)

type Config struct {
	Server          report.Config
	Sklad           moysklad.Config
	DB              database.Config
	Sheets          sheetsink.Config
	CSVOutputDir    string
	Pipeline        pipeline.Config
	ShutdownTimeout time.Duration
}

func Load() (*Config, error) {
	// A local .env is optional; flags and real env vars win over it.
	_ = godotenv.Load()

	serverAddress := flag.String(
		serverAddressFlag,
		serverAddressDefault,
		"Server address host:port",
	)

	skladAddress := flag.String(
		skladAddressFlag,
		skladAddressDefault,
		"MoySklad API base URL",
	)

	dbConnectionString := flag.String(
		dbConnectionStringFlag,
		"",
		"PostgreSQL connection string (empty disables the DB sink)",
	)

	credentialsFile := flag.String(
		credentialsFileFlag,
		"",
		"Google service account credentials file",
	)

	spreadsheetID := flag.String(
		spreadsheetIDFlag,
		"",
		"Google spreadsheet id (empty disables the Sheets sink)",
	)

	csvOutputDir := flag.String(
		csvOutputDirFlag,
		"",
		"Directory for CSV copies of the report (empty disables them)",
	)

	flag.Parse()

	if valStr, ok := os.LookupEnv(serverAddressEnv); ok {
		*serverAddress = valStr
	}

	if valStr, ok := os.LookupEnv(skladAddressEnv); ok {
		*skladAddress = valStr
	}

	if valStr, ok := os.LookupEnv(dbConnectionStringEnv); ok {
		*dbConnectionString = valStr
	}

	if valStr, ok := os.LookupEnv(credentialsFileEnv); ok {
		*credentialsFile = valStr
	}

	if valStr, ok := os.LookupEnv(spreadsheetIDEnv); ok {
		*spreadsheetID = valStr
	}

	if valStr, ok := os.LookupEnv(csvOutputDirEnv); ok {
		*csvOutputDir = valStr
	}

	return &Config{
		Server: report.Config{
			ServerAddress:   *serverAddress,
			ShutdownTimeout: shutdownTimeout,
		},
		Sklad: moysklad.Config{
			BaseURL:        *skladAddress,
			Token:          os.Getenv(skladTokenEnv),
			RequestTimeout: requestTimeout,
		},
		DB: database.Config{
			ConnectionString: *dbConnectionString,
		},
		Sheets: sheetsink.Config{
			CredentialsFile: *credentialsFile,
			SpreadsheetID:   *spreadsheetID,
		},
		CSVOutputDir: *csvOutputDir,
		Pipeline: pipeline.Config{
			WorkersCount: workersCount,
		},
		ShutdownTimeout: shutdownTimeout,
	}, nil
}
