package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

var (
	ErrNoSpreadsheet = errors.New("missing spreadsheet")
	ErrNoGroups      = errors.New("no sheet groups configured")
)

// Google contains the OAuth2 client used to access the spreadsheet. Either
// the client ID/secret/refresh token triple or a 'credentials.json' file must
// be supplied. A 'credentials.json' file is paired with the refresh token if
// there is one and otherwise with the JSON token file in 'tokens'.
type Google struct {
	ClientID     string `toml:"client-id"`
	ClientSecret string `toml:"client-secret"`
	RefreshToken string `toml:"refresh-token"`
	Credentials  string `toml:"credentials"`
	Tokens       string `toml:"tokens"`
}

// Airbnb contains the reservations API connection settings.
type Airbnb struct {
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
	Rate    float64  `toml:"rate"`
}

// Group maps a worksheet tab to the cohosts whose accounts feed it.
type Group struct {
	Sheet   string   `toml:"sheet"`
	Cohosts []string `toml:"cohosts"`
}

type Metrics struct {
	Textfile string `toml:"textfile"`
}

type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

type Config struct {
	Workdir       string              `toml:"workdir"`
	Spreadsheet   string              `toml:"spreadsheet"`
	TimestampCell string              `toml:"timestamp-cell"`
	HeaderRows    int                 `toml:"header-rows"`
	Google        Google              `toml:"google"`
	Airbnb        Airbnb              `toml:"airbnb"`
	Tokens        map[string]string   `toml:"tokens"`
	Cohosts       map[string][]string `toml:"cohosts"`
	Groups        []Group             `toml:"group"`
	Metrics       Metrics             `toml:"metrics"`
	Logging       Logging             `toml:"logging"`
}

// Duration decodes TOML strings like "20s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}

	d.Duration = v

	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func NewConfig() *Config {
	return &Config{
		Workdir:       DefaultWorkdir,
		TimestampCell: "J1",
		HeaderRows:    1,
		Airbnb: Airbnb{
			URL:     "https://api.airbnb.com",
			Timeout: Duration{20 * time.Second},
			Rate:    1.0,
		},
		Tokens:  map[string]string{},
		Cohosts: map[string][]string{},
		Logging: Logging{
			Format: "auto",
			Level:  "info",
		},
	}
}

// Load reads the TOML configuration file, then applies the secrets from an
// optional '.env' file next to it and from the environment.
func (c *Config) Load(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("missing configuration file path")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := c.Parse(b); err != nil {
		return fmt.Errorf("invalid configuration file %v (%w)", path, err)
	}

	env := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(env); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading %v (%w)", env, err)
	}

	c.applyEnv()

	return nil
}

func (c *Config) Parse(b []byte) error {
	return toml.Unmarshal(b, c)
}

func (c *Config) applyEnv() {
	vars := map[string]*string{
		"COHOSTING_CLIENT_ID":     &c.Google.ClientID,
		"COHOSTING_CLIENT_SECRET": &c.Google.ClientSecret,
		"COHOSTING_REFRESH_TOKEN": &c.Google.RefreshToken,
		"COHOSTING_SPREADSHEET":   &c.Spreadsheet,
	}

	for k, p := range vars {
		if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
			*p = strings.TrimSpace(v)
		}
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Spreadsheet) == "" {
		return ErrNoSpreadsheet
	}

	if _, err := c.SpreadsheetID(); err != nil {
		return err
	}

	if len(c.Groups) == 0 {
		return ErrNoGroups
	}

	if c.HeaderRows < 1 {
		return fmt.Errorf("invalid header-rows %v - the header row is required", c.HeaderRows)
	}

	if !regexp.MustCompile(`^[A-Za-z]+[0-9]+$`).MatchString(c.TimestampCell) {
		return fmt.Errorf("invalid timestamp-cell '%v' - expected something like 'J1'", c.TimestampCell)
	}

	for i, g := range c.Groups {
		if strings.TrimSpace(g.Sheet) == "" {
			return fmt.Errorf("group %d: missing sheet title", i+1)
		}

		for _, cohost := range g.Cohosts {
			if _, ok := c.Cohosts[cohost]; !ok {
				return fmt.Errorf("group '%v': unknown cohost '%v'", g.Sheet, cohost)
			}
		}
	}

	return nil
}

// SpreadsheetID accepts either a bare spreadsheet ID or a Google Sheets URL.
func (c *Config) SpreadsheetID() (string, error) {
	v := strings.TrimSpace(c.Spreadsheet)

	if strings.HasPrefix(v, "https://") {
		match := regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`).FindStringSubmatch(v)
		if len(match) < 2 || match[1] == "" {
			return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
		}

		return match[1], nil
	}

	if v == "" {
		return "", ErrNoSpreadsheet
	}

	return v, nil
}

// Accounts returns the upstream accounts that feed a group: the owners of
// each of the group's cohosts, in configuration order, without duplicates.
func (c *Config) Accounts(g Group) []string {
	accounts := []string{}
	seen := map[string]bool{}

	for _, cohost := range g.Cohosts {
		for _, owner := range c.Cohosts[cohost] {
			if owner = strings.TrimSpace(owner); owner != "" && !seen[owner] {
				seen[owner] = true
				accounts = append(accounts, owner)
			}
		}
	}

	return accounts
}

func (c *Config) LockFile() string {
	return filepath.Join(c.Workdir, "cohosting-sheets.lock")
}
