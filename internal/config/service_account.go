package config

import (
	"encoding/json"
	"fmt"
)

// GoogleServiceAccount is a parsed Google service-account key. The raw JSON
// is kept for the Sheets client, which needs it verbatim.
type GoogleServiceAccount struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	ClientID     string `json:"client_id"`
	TokenURI     string `json:"token_uri"`

	raw []byte
}

// ParseGoogleServiceAccount parses and checks a service-account key.
func ParseGoogleServiceAccount(data []byte) (*GoogleServiceAccount, error) {
	var sa GoogleServiceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, fmt.Errorf("not valid JSON: %w", err)
	}
	if sa.Type != "service_account" {
		return nil, fmt.Errorf("type is %q, want \"service_account\"", sa.Type)
	}
	if sa.ClientEmail == "" {
		return nil, fmt.Errorf("client_email is empty")
	}
	if sa.PrivateKey == "" {
		return nil, fmt.Errorf("private_key is empty")
	}
	sa.raw = append([]byte(nil), data...)
	return &sa, nil
}

// JSON returns the original key document.
func (sa *GoogleServiceAccount) JSON() []byte {
	return append([]byte(nil), sa.raw...)
}

// String identifies the account without exposing the key.
func (sa *GoogleServiceAccount) String() string {
	return fmt.Sprintf("%s (project %s)", sa.ClientEmail, sa.ProjectID)
}
