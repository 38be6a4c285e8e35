package config

import (
	"fmt"
	"regexp"
	"strings"
)

var dsnPassword = regexp.MustCompile(`(://[^:/@]+:)[^@]*(@)|(password=)\S+`)

// Field is one line of a configuration summary.
type Field struct {
	Name  string
	Value string
}

// Summary lists the effective configuration with secrets masked.
func (c Config) Summary() []Field {
	sa := "(none)"
	if c.ServiceAccount != nil {
		sa = c.ServiceAccount.String()
	}
	return []Field{
		{"pipeline", c.PipelineName},
		{"log level", c.LogLevel.String()},
		{"mode", c.Mode.String()},
		{"timeout", c.Timeout.String()},
		{"sheets source", c.SheetsSource},
		{"spreadsheet", c.SpreadsheetID},
		{"service account", sa},
		{"sheets concurrency", fmt.Sprint(c.SheetsConcurrency)},
		{"storage uri", c.StorageURI},
		{"aws access key id", mask(c.AWSAccessKeyID)},
		{"aws region", c.AWSRegion},
		{"s3 endpoint", orNone(c.S3Endpoint)},
		{"warehouse dsn", RedactDSN(c.WarehouseDSN)},
		{"target table", c.TargetTable},
		{"warehouse dialect", c.WarehouseDialect},
		{"warehouse auth", c.WarehouseAuth.String()},
		{"redshift iam role", orNone(c.RedshiftIAMRole)},
	}
}

// RedactDSN hides the password of a URL or keyword/value connection string.
func RedactDSN(dsn string) string {
	return dsnPassword.ReplaceAllStringFunc(dsn, func(m string) string {
		if strings.HasPrefix(m, "password=") {
			return "password=****"
		}
		return dsnPassword.ReplaceAllString(m, "${1}****${2}")
	})
}

func mask(s string) string {
	if s == "" {
		return "(none)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
