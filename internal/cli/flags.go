package cli

import (
	"github.com/spf13/cobra"

	"github.com/vvka-141/fxload/internal/config"
	"github.com/vvka-141/fxload/internal/logging"
)

// settingsFlagValues holds the flag overrides shared by run and validate.
// Secrets are not accepted as flags; they are read from the environment.
type settingsFlagValues struct {
	pipelineName       string
	logLevel           string
	mode               string
	timeout            string
	sheetsSource       string
	sheetID            string
	serviceAccountFile string
	concurrency        string
	storageURI         string
	awsRegion          string
	s3Endpoint         string
	dsn                string
	table              string
	dialect            string
	auth               string
	redshiftIAMRole    string
	warehouseAWSRegion string
	azureTenantID      string
	azureClientID      string
	googleInstance     string
}

var settingsFlags settingsFlagValues

func addSettingsFlags(cmd *cobra.Command, v *settingsFlagValues) {
	f := cmd.Flags()

	f.StringVar(&v.pipelineName, "pipeline-name", "", "Pipeline name shown in logs (overrides $"+config.EnvPipelineName+")")
	f.StringVar(&v.logLevel, "log-level", "", "CRITICAL|ERROR|WARNING|INFO|DEBUG|NOTSET (default INFO)")
	f.StringVar(&v.mode, "mode", "",
		"Aggregation mode: consolidated|per-pair (default consolidated)\n"+
			"per-pair stages one <FROM>_<TO>.csv per worksheet under --storage-uri")
	f.StringVar(&v.timeout, "timeout", "", "Upper bound for the whole run, e.g. 90s or 10m (default 10m)")

	f.StringVar(&v.sheetsSource, "sheets-source", "", "Spreadsheet source: google|xlsx (default google)")
	f.StringVar(&v.sheetID, "sheet-id", "", "Google spreadsheet ID, or the workbook path for xlsx")
	f.StringVar(&v.serviceAccountFile, "service-account-file", "", "Path to a Google service account JSON key")
	f.StringVar(&v.concurrency, "concurrency", "", "Worksheets read in parallel (default 1)")

	f.StringVar(&v.storageURI, "storage-uri", "",
		"Artifact location: s3://bucket/key or file:///abs/path\n"+
			"In per-pair mode this is a prefix")
	f.StringVar(&v.awsRegion, "aws-region", "", "S3 region (default us-east-1)")
	f.StringVar(&v.s3Endpoint, "s3-endpoint", "", "Custom S3 endpoint, e.g. http://localhost:9000")

	f.StringVar(&v.dsn, "dsn", "",
		"Warehouse connection string\n"+
			"Prefer $"+config.EnvRedshiftDSN+" when it carries a password")
	f.StringVar(&v.table, "table", "", "Target table, optionally schema-qualified (stage is <table>_stage)")
	f.StringVar(&v.dialect, "dialect", "", "Warehouse dialect: redshift|postgres (default redshift)")
	f.StringVar(&v.auth, "auth", "", "Warehouse auth: standard|aws-iam|azure|google (default standard)")
	f.StringVar(&v.redshiftIAMRole, "redshift-iam-role", "", "IAM role Redshift assumes to read S3")
	f.StringVar(&v.warehouseAWSRegion, "warehouse-aws-region", "", "Region for --auth aws-iam tokens")
	f.StringVar(&v.azureTenantID, "azure-tenant-id", "", "Azure tenant ID for --auth azure")
	f.StringVar(&v.azureClientID, "azure-client-id", "", "Azure client ID for --auth azure")
	f.StringVar(&v.googleInstance, "google-instance", "", "Cloud SQL instance (project:region:instance) for --auth google")

	_ = cmd.RegisterFlagCompletionFunc("log-level", completeFrom(logLevelNames))
	_ = cmd.RegisterFlagCompletionFunc("mode", completeFrom(modeNames))
	_ = cmd.RegisterFlagCompletionFunc("sheets-source", completeFrom(sheetsSourceNames))
	_ = cmd.RegisterFlagCompletionFunc("dialect", completeFrom(dialectNames))
	_ = cmd.RegisterFlagCompletionFunc("auth", completeFrom(authNames))
}

// toSettings converts the flag values into the highest-precedence layer.
func (v settingsFlagValues) toSettings(verbose bool) config.Settings {
	s := config.Settings{
		PipelineName:       v.pipelineName,
		LogLevel:           v.logLevel,
		Mode:               v.mode,
		Timeout:            v.timeout,
		SheetsSource:       v.sheetsSource,
		SheetID:            v.sheetID,
		ServiceAccountFile: v.serviceAccountFile,
		SheetsConcurrency:  v.concurrency,
		S3URI:              v.storageURI,
		AWSRegion:          v.awsRegion,
		S3Endpoint:         v.s3Endpoint,
		RedshiftDSN:        v.dsn,
		RedshiftTable:      v.table,
		WarehouseDialect:   v.dialect,
		WarehouseAuth:      v.auth,
		RedshiftIAMRole:    v.redshiftIAMRole,
		WarehouseAWSRegion: v.warehouseAWSRegion,
		AzureTenantID:      v.azureTenantID,
		AzureClientID:      v.azureClientID,
		GoogleInstance:     v.googleInstance,
	}
	if verbose {
		s.LogLevel = logging.LevelDebug.String()
	}
	return s
}

// loadConfig builds the effective configuration for cmd.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	return config.Load(config.LoadOptions{
		File:  getConfigFlag(cmd),
		Flags: settingsFlags.toSettings(getVerboseFlag(cmd)),
	})
}
