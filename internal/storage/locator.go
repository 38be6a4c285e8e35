package storage

import (
	"fmt"
	"net/url"
	"strings"
)

// Supported locator schemes.
const (
	SchemeS3   = "s3"
	SchemeFile = "file"
	SchemeMem  = "mem"
)

// Locator is a parsed artifact URI.
type Locator struct {
	Scheme string
	// Bucket is the S3 bucket, empty for file locators.
	Bucket string
	// Key is the object key for S3, or the absolute path for file locators.
	Key string
}

func (l Locator) String() string {
	switch l.Scheme {
	case SchemeFile:
		return SchemeFile + "://" + l.Key
	default:
		return l.Scheme + "://" + l.Bucket + "/" + l.Key
	}
}

// ParseLocator parses and validates an artifact URI.
func ParseLocator(raw string) (Locator, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Locator{}, fmt.Errorf("invalid locator %q: %w", raw, err)
	}

	switch strings.ToLower(u.Scheme) {
	case SchemeS3, SchemeMem:
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return Locator{}, fmt.Errorf("invalid locator %q: want %s://bucket/key", raw, u.Scheme)
		}
		return Locator{Scheme: strings.ToLower(u.Scheme), Bucket: u.Host, Key: key}, nil
	case SchemeFile:
		if u.Host != "" && u.Host != "localhost" {
			return Locator{}, fmt.Errorf("invalid locator %q: file locators must not name a host", raw)
		}
		if !strings.HasPrefix(u.Path, "/") {
			return Locator{}, fmt.Errorf("invalid locator %q: file path must be absolute", raw)
		}
		return Locator{Scheme: SchemeFile, Key: u.Path}, nil
	case "":
		return Locator{}, fmt.Errorf("invalid locator %q: missing scheme", raw)
	default:
		return Locator{}, fmt.Errorf("invalid locator %q: unsupported scheme %q", raw, u.Scheme)
	}
}

// Scheme returns the lower-cased scheme of raw, or "" if it has none.
func Scheme(raw string) string {
	scheme, _, found := strings.Cut(raw, "://")
	if !found {
		return ""
	}
	return strings.ToLower(scheme)
}
