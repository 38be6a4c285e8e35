package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// DefaultFileName is looked up in the working directory when no --config is given.
const DefaultFileName = "fxload.yaml"

// FileConfig is the YAML file layout. It carries no secrets.
type FileConfig struct {
	Pipeline  PipelineSection  `yaml:"pipeline"`
	Sheets    SheetsSection    `yaml:"sheets"`
	Storage   StorageSection   `yaml:"storage"`
	Warehouse WarehouseSection `yaml:"warehouse"`
}

type PipelineSection struct {
	Name     string `yaml:"name"`
	LogLevel string `yaml:"log_level"`
	Mode     string `yaml:"mode"`
	Timeout  string `yaml:"timeout"`
}

type SheetsSection struct {
	Source             string `yaml:"source"`
	SpreadsheetID      string `yaml:"spreadsheet_id"`
	ServiceAccountFile string `yaml:"service_account_file,omitempty"`
	Concurrency        int    `yaml:"concurrency,omitempty"`
}

type StorageSection struct {
	URI      string `yaml:"uri"`
	Region   string `yaml:"region,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

type WarehouseSection struct {
	DSN            string `yaml:"dsn"`
	Table          string `yaml:"table"`
	Dialect        string `yaml:"dialect,omitempty"`
	Auth           string `yaml:"auth,omitempty"`
	IAMRole        string `yaml:"iam_role,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

// LoadFile reads a YAML config file.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Settings flattens the file into the layer representation.
func (f *FileConfig) Settings() Settings {
	s := Settings{
		PipelineName:       f.Pipeline.Name,
		LogLevel:           f.Pipeline.LogLevel,
		Mode:               f.Pipeline.Mode,
		Timeout:            f.Pipeline.Timeout,
		SheetID:            f.Sheets.SpreadsheetID,
		ServiceAccountFile: f.Sheets.ServiceAccountFile,
		SheetsSource:       f.Sheets.Source,
		S3URI:              f.Storage.URI,
		AWSRegion:          f.Storage.Region,
		S3Endpoint:         f.Storage.Endpoint,
		RedshiftDSN:        f.Warehouse.DSN,
		RedshiftTable:      f.Warehouse.Table,
		RedshiftIAMRole:    f.Warehouse.IAMRole,
		WarehouseDialect:   f.Warehouse.Dialect,
		WarehouseAuth:      f.Warehouse.Auth,
		WarehouseAWSRegion: f.Warehouse.AWSRegion,
		AzureTenantID:      f.Warehouse.AzureTenantID,
		AzureClientID:      f.Warehouse.AzureClientID,
		GoogleInstance:     f.Warehouse.GoogleInstance,
	}
	if f.Sheets.Concurrency > 0 {
		s.SheetsConcurrency = fmt.Sprint(f.Sheets.Concurrency)
	}
	return s
}
