package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/vvka-141/fxload/internal/logging"
	"github.com/vvka-141/fxload/internal/sheets"
	"github.com/vvka-141/fxload/internal/storage"
	"github.com/vvka-141/fxload/internal/warehouse"
	"github.com/vvka-141/fxload/pkg/fxload"
)

// Config is the validated pipeline configuration. Build it with Resolve or
// Load; do not mutate it afterwards.
type Config struct {
	PipelineName string
	LogLevel     logging.Level
	Mode         fxload.AggregationMode
	Timeout      time.Duration

	SheetsSource      string
	SpreadsheetID     string
	ServiceAccount    *GoogleServiceAccount
	SheetsConcurrency int

	StorageURI         string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	S3Endpoint         string

	WarehouseDSN       string
	TargetTable        string
	WarehouseDialect   string
	WarehouseAuth      fxload.AuthMethod
	RedshiftIAMRole    string
	WarehouseAWSRegion string
	AzureTenantID      string
	AzureClientID      string
	AzureClientSecret  string
	GoogleInstance     string
}

// Resolve parses raw settings, applies defaults and validates the result.
// All problems are returned together as a *fxload.ConfigError.
func Resolve(s Settings) (Config, error) {
	cfgErr := &fxload.ConfigError{}
	invalid := func(env string, err error) {
		cfgErr.Invalid = append(cfgErr.Invalid, fmt.Sprintf("%s: %v", env, err))
	}

	cfg := Config{
		PipelineName:       strings.TrimSpace(s.PipelineName),
		SheetsSource:       strings.ToLower(strings.TrimSpace(s.SheetsSource)),
		SpreadsheetID:      strings.TrimSpace(s.SheetID),
		StorageURI:         strings.TrimSpace(s.S3URI),
		AWSAccessKeyID:     strings.TrimSpace(s.AWSAccessKeyID),
		AWSSecretAccessKey: s.AWSSecretAccessKey,
		AWSRegion:          strings.TrimSpace(s.AWSRegion),
		S3Endpoint:         strings.TrimSpace(s.S3Endpoint),
		WarehouseDSN:       strings.TrimSpace(s.RedshiftDSN),
		TargetTable:        strings.TrimSpace(s.RedshiftTable),
		WarehouseDialect:   strings.ToLower(strings.TrimSpace(s.WarehouseDialect)),
		RedshiftIAMRole:    strings.TrimSpace(s.RedshiftIAMRole),
		WarehouseAWSRegion: strings.TrimSpace(s.WarehouseAWSRegion),
		AzureTenantID:      strings.TrimSpace(s.AzureTenantID),
		AzureClientID:      strings.TrimSpace(s.AzureClientID),
		AzureClientSecret:  s.AzureClientSecret,
		GoogleInstance:     strings.TrimSpace(s.GoogleInstance),
		SheetsConcurrency:  1,
		Timeout:            fxload.DefaultTimeout,
		LogLevel:           logging.LevelInfo,
	}

	if cfg.PipelineName == "" {
		cfg.PipelineName = fxload.DefaultPipelineName
	}
	if cfg.SheetsSource == "" {
		cfg.SheetsSource = sheets.KindGoogle
	}
	if cfg.AWSRegion == "" {
		cfg.AWSRegion = fxload.DefaultAWSRegion
	}
	if cfg.WarehouseDialect == "" {
		cfg.WarehouseDialect = fxload.DialectRedshift
	}

	if s.LogLevel != "" {
		level, err := logging.ParseLevel(s.LogLevel)
		if err != nil {
			invalid(EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}

	mode, err := fxload.ParseAggregationMode(s.Mode)
	if err != nil {
		invalid(EnvMode, err)
	}
	cfg.Mode = mode

	if s.Timeout != "" {
		d, err := time.ParseDuration(strings.TrimSpace(s.Timeout))
		switch {
		case err != nil:
			invalid(EnvTimeout, err)
		case d <= 0:
			invalid(EnvTimeout, errors.New("must be positive"))
		default:
			cfg.Timeout = d
		}
	}

	if s.SheetsConcurrency != "" {
		n, err := strconv.Atoi(strings.TrimSpace(s.SheetsConcurrency))
		switch {
		case err != nil:
			invalid(EnvSheetsConcurrency, err)
		case n < 1:
			invalid(EnvSheetsConcurrency, errors.New("must be at least 1"))
		default:
			cfg.SheetsConcurrency = n
		}
	}

	auth, err := fxload.ParseAuthMethod(s.WarehouseAuth)
	if err != nil {
		invalid(EnvWarehouseAuth, err)
	}
	cfg.WarehouseAuth = auth

	if cfg.SheetsSource == sheets.KindGoogle {
		saJSON, err := serviceAccountJSON(s)
		if err != nil {
			invalid(EnvServiceAccountFile, err)
		}
		if len(saJSON) > 0 {
			sa, err := ParseGoogleServiceAccount(saJSON)
			if err != nil {
				invalid(EnvServiceAccount, err)
			} else {
				cfg.ServiceAccount = sa
			}
		}
	}

	cfg.validate(cfgErr, s.ServiceAccount != "" || s.ServiceAccountFile != "")

	if !cfgErr.Empty() {
		return cfg, cfgErr
	}
	return cfg, nil
}

// Validate reports every missing or malformed field of an already built Config.
func (c Config) Validate() error {
	cfgErr := &fxload.ConfigError{}
	c.validate(cfgErr, c.ServiceAccount != nil)
	if !cfgErr.Empty() {
		return cfgErr
	}
	return nil
}

// validate checks required fields and cross-field rules. hasServiceAccount
// reports whether a key was supplied at all, so that a malformed key is
// reported once as invalid rather than also as missing.
func (c Config) validate(cfgErr *fxload.ConfigError, hasServiceAccount bool) {
	missing := func(env string) { cfgErr.Missing = append(cfgErr.Missing, env) }
	invalid := func(env, msg string) {
		cfgErr.Invalid = append(cfgErr.Invalid, fmt.Sprintf("%s: %s", env, msg))
	}

	if c.SpreadsheetID == "" {
		missing(EnvSheetID)
	}
	switch c.SheetsSource {
	case sheets.KindGoogle:
		if !hasServiceAccount {
			missing(EnvServiceAccount)
		}
	case sheets.KindXLSX:
	default:
		invalid(EnvSheetsSource, fmt.Sprintf("unknown source %q (want %s or %s)", c.SheetsSource, sheets.KindGoogle, sheets.KindXLSX))
	}

	if c.StorageURI == "" {
		missing(EnvS3URI)
	} else {
		switch storage.Scheme(c.StorageURI) {
		case storage.SchemeS3:
			if c.AWSAccessKeyID == "" {
				missing(EnvAWSAccessKeyID)
			}
			if c.AWSSecretAccessKey == "" {
				missing(EnvAWSSecretAccessKey)
			}
			if _, err := storage.ParseLocator(c.StorageURI); err != nil {
				invalid(EnvS3URI, err.Error())
			}
		case storage.SchemeFile:
			if _, err := storage.ParseLocator(c.StorageURI); err != nil {
				invalid(EnvS3URI, err.Error())
			}
		default:
			invalid(EnvS3URI, "want an s3:// or file:// URI")
		}
	}

	if c.WarehouseDSN == "" {
		missing(EnvRedshiftDSN)
	}
	if c.TargetTable == "" {
		missing(EnvRedshiftTable)
	} else if _, err := warehouse.ParseTable(c.TargetTable); err != nil {
		invalid(EnvRedshiftTable, err.Error())
	}

	switch c.WarehouseDialect {
	case fxload.DialectRedshift:
		if storage.Scheme(c.StorageURI) == storage.SchemeFile {
			invalid(EnvWarehouseDialect, "redshift cannot load file:// artifacts")
		}
	case fxload.DialectPostgres:
		if storage.Scheme(c.StorageURI) == storage.SchemeS3 {
			invalid(EnvWarehouseDialect, "postgres cannot load s3:// artifacts")
		}
	default:
		invalid(EnvWarehouseDialect, fmt.Sprintf("unknown dialect %q", c.WarehouseDialect))
	}

	switch c.WarehouseAuth {
	case fxload.AuthMethodAWSIAM:
		if c.WarehouseAWSRegion == "" {
			missing(EnvWarehouseAWSRegion)
		}
	case fxload.AuthMethodGoogleIAM:
		if c.GoogleInstance == "" {
			missing(EnvWarehouseGoogleInstance)
		}
	}
}

func serviceAccountJSON(s Settings) ([]byte, error) {
	if s.ServiceAccount != "" {
		return []byte(s.ServiceAccount), nil
	}
	if s.ServiceAccountFile != "" {
		data, err := os.ReadFile(s.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read service account file: %w", err)
		}
		return data, nil
	}
	return nil, nil
}

// LoadOptions controls Load.
type LoadOptions struct {
	// File is an explicit config file path. When empty, DefaultFileName is
	// used if it exists.
	File string

	// Flags are command line overrides, applied last.
	Flags Settings

	// Lookup reads the environment. Defaults to os.LookupEnv.
	Lookup func(string) (string, bool)

	// SkipDotEnv disables loading .env from the working directory.
	SkipDotEnv bool
}

// Load builds the Config from file, environment and flags.
func Load(opts LoadOptions) (Config, error) {
	if !opts.SkipDotEnv {
		_ = godotenv.Load()
	}
	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var base Settings
	path := opts.File
	if path == "" {
		path = DefaultFileName
	}
	file, err := LoadFile(path)
	switch {
	case err == nil:
		base = file.Settings()
	case errors.Is(err, ErrConfigNotFound) && opts.File == "":
	case errors.Is(err, ErrConfigNotFound):
		return Config{}, &fxload.ConfigError{Invalid: []string{fmt.Sprintf("--config: %s does not exist", opts.File)}}
	default:
		return Config{}, &fxload.ConfigError{Invalid: []string{err.Error()}}
	}

	merged := base.Merge(FromEnv(lookup)).Merge(opts.Flags)
	return Resolve(merged)
}
