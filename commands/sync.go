package commands

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/garygangwu/cohosting-test/bookings"
	"github.com/garygangwu/cohosting-test/metrics"
	"github.com/garygangwu/cohosting-test/populate"
)

var SyncCmd = Sync{
	dryrun: false,
	file:   "",
}

type Sync struct {
	dryrun bool
	file   string
}

func (cmd *Sync) Name() string {
	return "sync"
}

func (cmd *Sync) Description() string {
	return "Updates the configured worksheets with the current Airbnb reservations"
}

func (cmd *Sync) Usage() string {
	return "[--dryrun] [--file <file>]"
}

func (cmd *Sync) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] sync [--dryrun] [--file <file>]\n", APP)
	fmt.Println()
	fmt.Println("  Retrieves the reservations for each configured worksheet group, merges them with")
	fmt.Println("  the rows already in the worksheet and rewrites the worksheet sorted by check-in date.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s sync\n", APP)
	fmt.Printf("    %s --debug sync --dryrun --file \"bookings.tsv\"\n", APP)
	fmt.Println()
}

func (cmd *Sync) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("sync", flag.ExitOnError)

	flagset.BoolVar(&cmd.dryrun, "dryrun", cmd.dryrun, "Reconciles the reservations without updating the worksheets")
	flagset.StringVar(&cmd.file, "file", cmd.file, "Optional TSV file for the reconciled rows. Multiple sheets are written to '<file>-<sheet>.tsv'")

	return flagset
}

func (cmd *Sync) Execute(args ...any) error {
	options := args[0].(*Options)

	conf, log, err := setup(options)
	if err != nil {
		return err
	}

	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid configuration (%w)", err)
	}

	ctx := context.Background()

	client, err := upstream(conf)
	if err != nil {
		return err
	}

	google, err := spreadsheet(ctx, conf)
	if err != nil {
		return err
	}

	log.Debug().Str("spreadsheet", google.ID()).Msg("opened spreadsheet")

	m := metrics.New()
	p := populate.New(conf, client, workbook{google}, log, m)
	p.DryRun = cmd.dryrun

	summaries, err := p.Run(ctx)

	if textfile := conf.Metrics.Textfile; textfile != "" {
		if err := m.WriteTextfile(textfile); err != nil {
			log.Warn().Err(err).Str("file", textfile).Msg("error writing metrics")
		}
	}

	if len(summaries) > 0 {
		fmt.Println(renderSummary(summaries))
	}

	if err != nil {
		return err
	}

	if strings.TrimSpace(cmd.file) != "" {
		synced := []populate.Summary{}
		for _, s := range summaries {
			if !s.Skipped {
				synced = append(synced, s)
			}
		}

		for _, s := range synced {
			file := exportFile(cmd.file, s.Sheet, len(synced))
			if err := writeTSV(file, bookings.Headers(), s.Data); err != nil {
				return err
			}

			log.Info().Str("sheet", s.Sheet).Str("file", file).Msg("exported reconciled rows")
		}
	}

	return nil
}

// exportFile returns the TSV file for a sheet. A single sheet is written to
// the file as given, multiple sheets each get their own file with the sheet
// title appended to the base name.
func exportFile(file, sheet string, sheets int) string {
	if sheets <= 1 {
		return file
	}

	ext := filepath.Ext(file)
	base := strings.TrimSuffix(file, ext)
	if ext == "" {
		ext = ".tsv"
	}

	suffix := regexp.MustCompile(`[^A-Za-z0-9_.-]+`).ReplaceAllString(strings.TrimSpace(sheet), "_")

	return fmt.Sprintf("%v-%v%v", base, suffix, ext)
}
