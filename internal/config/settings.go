package config

// Environment variable names.
const (
	EnvPipelineName            = "PIPELINE_NAME"
	EnvLogLevel                = "PIPELINE_LOG_LEVEL"
	EnvMode                    = "PIPELINE_MODE"
	EnvTimeout                 = "PIPELINE_TIMEOUT"
	EnvSheetID                 = "PIPELINE_GOOGLE_SHEET_ID"
	EnvServiceAccount          = "PIPELINE_GOOGLE_SERVICE_ACCOUNT"
	EnvServiceAccountFile      = "PIPELINE_GOOGLE_SERVICE_ACCOUNT_FILE"
	EnvSheetsSource            = "PIPELINE_SHEETS_SOURCE"
	EnvSheetsConcurrency       = "PIPELINE_SHEETS_CONCURRENCY"
	EnvS3URI                   = "PIPELINE_AWS_S3_URI"
	EnvAWSAccessKeyID          = "PIPELINE_AWS_ACCESS_KEY_ID"
	EnvAWSSecretAccessKey      = "PIPELINE_AWS_SECRET_ACCESS_KEY"
	EnvAWSRegion               = "PIPELINE_AWS_REGION"
	EnvS3Endpoint              = "PIPELINE_AWS_S3_ENDPOINT"
	EnvRedshiftDSN             = "PIPELINE_AWS_REDSHIFT_DSN"
	EnvRedshiftTable           = "PIPELINE_AWS_REDSHIFT_TABLE"
	EnvRedshiftIAMRole         = "PIPELINE_AWS_REDSHIFT_IAM_ROLE"
	EnvWarehouseDialect        = "PIPELINE_WAREHOUSE_DIALECT"
	EnvWarehouseAuth           = "PIPELINE_WAREHOUSE_AUTH"
	EnvWarehouseAWSRegion      = "PIPELINE_WAREHOUSE_AWS_REGION"
	EnvAzureTenantID           = "PIPELINE_WAREHOUSE_AZURE_TENANT_ID"
	EnvAzureClientID           = "PIPELINE_WAREHOUSE_AZURE_CLIENT_ID"
	EnvAzureClientSecret       = "PIPELINE_WAREHOUSE_AZURE_CLIENT_SECRET"
	EnvWarehouseGoogleInstance = "PIPELINE_WAREHOUSE_GOOGLE_INSTANCE"
)

// Settings holds raw, unparsed configuration values. Every layer produces
// a Settings; later layers override earlier ones field by field.
type Settings struct {
	PipelineName       string
	LogLevel           string
	Mode               string
	Timeout            string
	SheetID            string
	ServiceAccount     string
	ServiceAccountFile string
	SheetsSource       string
	SheetsConcurrency  string
	S3URI              string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	S3Endpoint         string
	RedshiftDSN        string
	RedshiftTable      string
	RedshiftIAMRole    string
	WarehouseDialect   string
	WarehouseAuth      string
	WarehouseAWSRegion string
	AzureTenantID      string
	AzureClientID      string
	AzureClientSecret  string
	GoogleInstance     string
}

type binding struct {
	env   string
	field func(*Settings) *string
}

var bindings = []binding{
	{EnvPipelineName, func(s *Settings) *string { return &s.PipelineName }},
	{EnvLogLevel, func(s *Settings) *string { return &s.LogLevel }},
	{EnvMode, func(s *Settings) *string { return &s.Mode }},
	{EnvTimeout, func(s *Settings) *string { return &s.Timeout }},
	{EnvSheetID, func(s *Settings) *string { return &s.SheetID }},
	{EnvServiceAccount, func(s *Settings) *string { return &s.ServiceAccount }},
	{EnvServiceAccountFile, func(s *Settings) *string { return &s.ServiceAccountFile }},
	{EnvSheetsSource, func(s *Settings) *string { return &s.SheetsSource }},
	{EnvSheetsConcurrency, func(s *Settings) *string { return &s.SheetsConcurrency }},
	{EnvS3URI, func(s *Settings) *string { return &s.S3URI }},
	{EnvAWSAccessKeyID, func(s *Settings) *string { return &s.AWSAccessKeyID }},
	{EnvAWSSecretAccessKey, func(s *Settings) *string { return &s.AWSSecretAccessKey }},
	{EnvAWSRegion, func(s *Settings) *string { return &s.AWSRegion }},
	{EnvS3Endpoint, func(s *Settings) *string { return &s.S3Endpoint }},
	{EnvRedshiftDSN, func(s *Settings) *string { return &s.RedshiftDSN }},
	{EnvRedshiftTable, func(s *Settings) *string { return &s.RedshiftTable }},
	{EnvRedshiftIAMRole, func(s *Settings) *string { return &s.RedshiftIAMRole }},
	{EnvWarehouseDialect, func(s *Settings) *string { return &s.WarehouseDialect }},
	{EnvWarehouseAuth, func(s *Settings) *string { return &s.WarehouseAuth }},
	{EnvWarehouseAWSRegion, func(s *Settings) *string { return &s.WarehouseAWSRegion }},
	{EnvAzureTenantID, func(s *Settings) *string { return &s.AzureTenantID }},
	{EnvAzureClientID, func(s *Settings) *string { return &s.AzureClientID }},
	{EnvAzureClientSecret, func(s *Settings) *string { return &s.AzureClientSecret }},
	{EnvWarehouseGoogleInstance, func(s *Settings) *string { return &s.GoogleInstance }},
}

// FromEnv reads every PIPELINE_* variable through lookup (os.LookupEnv in
// production). Empty values count as unset.
func FromEnv(lookup func(string) (string, bool)) Settings {
	var s Settings
	for _, b := range bindings {
		if v, ok := lookup(b.env); ok {
			*b.field(&s) = v
		}
	}
	return s
}

// Merge returns s with every non-empty field of over applied on top.
func (s Settings) Merge(over Settings) Settings {
	for _, b := range bindings {
		if v := *b.field(&over); v != "" {
			*b.field(&s) = v
		}
	}
	return s
}
