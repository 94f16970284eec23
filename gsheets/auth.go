package gsheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/garygangwu/cohosting-test/config"
)

const SHEETS = "https://www.googleapis.com/auth/spreadsheets"

var ErrNoCredentials = errors.New("missing Google credentials")

// Authorize returns an HTTP client that authenticates with a short-lived
// access token obtained (and renewed) from a long-lived refresh token.
//
// The client ID/secret/refresh token triple takes precedence. Otherwise the
// OAuth2 client is read from a 'credentials.json' file (as downloaded from the
// Google Cloud console) and paired with the configured refresh token or, if
// there is none, with the token file. The token file is a JSON encoded
// oauth2.Token, e.g. {"refresh_token":"1//0g..."}, and defaults to
// <workdir>/.google/<credentials>.sheets.
func Authorize(ctx context.Context, conf config.Google, workdir string) (*http.Client, error) {
	if conf.ClientID != "" && conf.ClientSecret != "" && conf.RefreshToken != "" {
		oauth := oauth2.Config{
			ClientID:     conf.ClientID,
			ClientSecret: conf.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{SHEETS},
		}

		token := oauth2.Token{
			RefreshToken: conf.RefreshToken,
		}

		return oauth.Client(ctx, &token), nil
	}

	if strings.TrimSpace(conf.Credentials) == "" {
		return nil, ErrNoCredentials
	}

	b, err := os.ReadFile(conf.Credentials)
	if err != nil {
		return nil, err
	}

	oauth, err := google.ConfigFromJSON(b, SHEETS)
	if err != nil {
		return nil, err
	}

	if conf.RefreshToken != "" {
		return oauth.Client(ctx, &oauth2.Token{RefreshToken: conf.RefreshToken}), nil
	}

	tokens := conf.Tokens
	if tokens == "" {
		tokens = tokensFile(conf.Credentials, workdir)
	}

	token, err := tokenFromFile(tokens)
	if err != nil {
		return nil, fmt.Errorf("no saved OAuth2 token in %v (%w)", tokens, err)
	}

	if token.RefreshToken == "" {
		return nil, fmt.Errorf("saved OAuth2 token in %v has no refresh token", tokens)
	}

	return oauth.Client(ctx, token), nil
}

func tokensFile(credentials, workdir string) string {
	_, file := filepath.Split(credentials)
	name := strings.TrimSuffix(file, filepath.Ext(file))

	return filepath.Join(workdir, ".google", fmt.Sprintf("%s.sheets", name))
}

// Retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)

	return tok, err
}
