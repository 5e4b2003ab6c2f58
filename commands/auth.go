package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/context"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ozon-tools/ozon-app-sheets/log"
)

// CredentialError is returned for a missing, unreadable or invalid Google credentials file.
type CredentialError struct {
	Path string
	Err  error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("invalid Google credentials '%v' (%v)", e.Path, e.Err)
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

// authorize returns an HTTP client for the Google APIs. The credentials file is either a service account key
// or an OAuth2 client ID, in which case the OAuth2 token is cached in <credentials>.tokens alongside it.
func authorize(ctx context.Context, credentials, scope string) (*http.Client, error) {
	if strings.TrimSpace(credentials) == "" {
		return nil, &CredentialError{Path: credentials, Err: errors.New("credentials file not configured")}
	}

	b, err := os.ReadFile(credentials)
	if err != nil {
		return nil, &CredentialError{Path: credentials, Err: err}
	}

	var key struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(b, &key); err != nil {
		return nil, &CredentialError{Path: credentials, Err: err}
	}

	if key.Type == "service_account" {
		config, err := google.JWTConfigFromJSON(b, scope)
		if err != nil {
			return nil, &CredentialError{Path: credentials, Err: err}
		}

		log.Debugf("Using service account %v", config.Email)

		return config.Client(ctx), nil
	}

	config, err := google.ConfigFromJSON(b, scope)
	if err != nil {
		return nil, &CredentialError{Path: credentials, Err: err}
	}

	dir, file := filepath.Split(credentials)
	name := strings.TrimSuffix(file, filepath.Ext(file))
	tokens := filepath.Join(dir, fmt.Sprintf("%s.tokens", name))

	token, err := tokenFromFile(tokens)
	if err != nil {
		if token, err = getTokenFromWeb(ctx, config); err != nil {
			return nil, &CredentialError{Path: credentials, Err: err}
		}

		if err := saveToken(tokens, token); err != nil {
			log.Warnf("Unable to cache OAuth2 token (%v)", err)
		}
	}

	return config.Client(ctx, token), nil
}

// Request a token from the web, then returns the retrieved token.
func getTokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the "+
		"authorization code: \n%v\n", authURL)

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		return nil, fmt.Errorf("unable to read authorization code (%w)", err)
	}

	token, err := config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web (%w)", err)
	}

	return token, nil
}

// Retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(token)

	return token, err
}

// Saves a token to a file path.
func saveToken(path string, token *oauth2.Token) error {
	log.Infof("Saving OAuth2 token to %s", path)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}
