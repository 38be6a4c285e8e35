package pipeline

import (
	"context"
	"fmt"

	"github.com/vvka-141/fxload/internal/config"
	"github.com/vvka-141/fxload/internal/sheets"
	"github.com/vvka-141/fxload/internal/storage"
	"github.com/vvka-141/fxload/internal/warehouse"
	"github.com/vvka-141/fxload/pkg/fxload"
)

// Collaborators are the external systems a run talks to.
type Collaborators struct {
	Source    fxload.SpreadsheetSource
	Store     fxload.ObjectStore
	Connector fxload.Connector
	Dialect   warehouse.Dialect
}

// CollaboratorFactory builds the collaborators for a validated config.
type CollaboratorFactory func(ctx context.Context, cfg config.Config, logger fxload.Logger) (Collaborators, error)

// DefaultCollaborators wires the real Google Sheets or xlsx source, S3 or
// file storage, and the configured warehouse connector and dialect.
func DefaultCollaborators(ctx context.Context, cfg config.Config, logger fxload.Logger) (Collaborators, error) {
	var saJSON []byte
	if cfg.ServiceAccount != nil {
		saJSON = cfg.ServiceAccount.JSON()
	}
	source, err := sheets.NewSource(ctx, cfg.SheetsSource, saJSON)
	if err != nil {
		return Collaborators{}, fmt.Errorf("spreadsheet source: %w", err)
	}

	store, err := storage.New(ctx, cfg.StorageURI, storage.S3Config{
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		Region:          cfg.AWSRegion,
		Endpoint:        cfg.S3Endpoint,
	})
	if err != nil {
		return Collaborators{}, fmt.Errorf("object store: %w", err)
	}

	connector, err := warehouse.NewConnector(warehouse.ConnectorConfig{
		DSN:               cfg.WarehouseDSN,
		Auth:              cfg.WarehouseAuth,
		AWSRegion:         cfg.WarehouseAWSRegion,
		AzureTenantID:     cfg.AzureTenantID,
		AzureClientID:     cfg.AzureClientID,
		AzureClientSecret: cfg.AzureClientSecret,
		GoogleInstance:    cfg.GoogleInstance,
	}, logger)
	if err != nil {
		return Collaborators{}, fmt.Errorf("warehouse connector: %w", err)
	}

	dialect, err := warehouse.NewDialect(cfg.WarehouseDialect, warehouse.RedshiftOptions{
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		IAMRole:         cfg.RedshiftIAMRole,
	})
	if err != nil {
		return Collaborators{}, fmt.Errorf("warehouse dialect: %w", err)
	}

	return Collaborators{Source: source, Store: store, Connector: connector, Dialect: dialect}, nil
}
