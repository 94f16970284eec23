package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/garygangwu/cohosting-test/airbnb"
	"github.com/garygangwu/cohosting-test/bookings"
	"github.com/garygangwu/cohosting-test/config"
	"github.com/garygangwu/cohosting-test/gsheets"
	"github.com/garygangwu/cohosting-test/logging"
	"github.com/garygangwu/cohosting-test/populate"
)

type Options struct {
	Config string
	Debug  bool
}

// setup loads the configuration file and creates the logger used by every
// command.
func setup(options *Options) (*config.Config, zerolog.Logger, error) {
	conf := config.NewConfig()
	if err := conf.Load(options.Config); err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("could not load configuration (%w)", err)
	}

	log := logging.New(os.Stdout, conf.Logging.Format, conf.Logging.Level, options.Debug)

	return conf, log, nil
}

func spreadsheet(ctx context.Context, conf *config.Config) (*gsheets.Spreadsheet, error) {
	id, err := conf.SpreadsheetID()
	if err != nil {
		return nil, err
	}

	client, err := gsheets.Authorize(ctx, conf.Google, conf.Workdir)
	if err != nil {
		return nil, fmt.Errorf("authentication/authorization error (%w)", err)
	}

	return gsheets.NewSpreadsheet(ctx, client, id)
}

func upstream(conf *config.Config) (*airbnb.Client, error) {
	return airbnb.New(conf.Airbnb.URL, conf.Tokens, conf.Airbnb.Timeout.Duration, conf.Airbnb.Rate)
}

// workbook adapts a Google Sheets spreadsheet to the sync's worksheet
// interface.
type workbook struct {
	*gsheets.Spreadsheet
}

func (w workbook) Worksheets(ctx context.Context) ([]populate.Worksheet, error) {
	worksheets, err := w.Spreadsheet.Worksheets(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]populate.Worksheet, 0, len(worksheets))
	for _, v := range worksheets {
		list = append(list, v)
	}

	return list, nil
}

// writeTSV writes to a temporary file alongside the target first so that an
// existing file is only ever replaced by a complete one.
func writeTSV(file string, header []string, rows [][]any) error {
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+APP+"-*.tsv")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := bookings.MakeTSV(tmp, header, rows); err != nil {
		return fmt.Errorf("error creating TSV file (%w)", err)
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), file)
}

func helpOptions(flagset *flag.FlagSet) {
	count := 0
	flagset.VisitAll(func(f *flag.Flag) {
		count++
	})

	if count > 0 {
		fmt.Println("  Options:")
		flagset.VisitAll(func(f *flag.Flag) {
			fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
		})
	}
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("--%v is a required option", name)
	}

	return nil
}
