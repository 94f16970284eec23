package commands

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/garygangwu/cohosting-test/bookings"
)

var PutCmd = Put{
	sheet: "",
	file:  "",
}

// Put restores the data rows of a bookings worksheet from a TSV file, e.g. one
// retrieved earlier with 'get'. The worksheet header rows are left as is.
type Put struct {
	sheet string
	file  string
}

func (c *Put) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("put", flag.ExitOnError)

	flagset.StringVar(&c.sheet, "sheet", c.sheet, "Worksheet title e.g. 'Mission'")
	flagset.StringVar(&c.file, "file", c.file, "TSV file")

	return flagset
}

func (c *Put) Execute(args ...any) error {
	options := args[0].(*Options)

	if err := required("sheet", c.sheet); err != nil {
		return err
	}

	if err := required("file", c.file); err != nil {
		return err
	}

	f, err := os.Open(c.file)
	if err != nil {
		return err
	}

	defer f.Close()

	header, rows, err := bookings.ReadTSV(f)
	if err != nil {
		return fmt.Errorf("invalid TSV file %v (%w)", c.file, err)
	}

	// ... reject files that the next sync would choke on
	if _, err := bookings.NormalizeRows(append([][]any{{header[0]}}, rows...), 1); err != nil {
		return fmt.Errorf("invalid TSV file %v (%w)", c.file, err)
	}

	conf, log, err := setup(options)
	if err != nil {
		return err
	}

	ctx := context.Background()

	google, err := spreadsheet(ctx, conf)
	if err != nil {
		return err
	}

	worksheets, err := google.Worksheets(ctx)
	if err != nil {
		return err
	}

	for _, w := range worksheets {
		if w.Title() != c.sheet {
			continue
		}

		first := conf.HeaderRows + 1

		w.Truncate(first)
		w.ClearRows(first)
		w.UpdateCells(first, 1, rows)

		if err := w.Save(ctx); err != nil {
			return fmt.Errorf("worksheet may be left cleared (%w)", err)
		}

		log.Info().Str("sheet", c.sheet).Str("file", c.file).Int("rows", len(rows)).Msg("uploaded TSV file")

		return nil
	}

	return fmt.Errorf("no worksheet '%v' in spreadsheet", c.sheet)
}

func (c *Put) Name() string {
	return "put"
}

func (c *Put) Description() string {
	return "Restores a bookings worksheet from a TSV file"
}

func (c *Put) Usage() string {
	return "--sheet <title> --file <file>"
}

func (c *Put) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] put --sheet <title> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Replaces the rows of a bookings worksheet with the rows from a TSV file. The")
	fmt.Println("  header row of the TSV file is validated but not written.")
	fmt.Println()

	helpOptions(c.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s put --sheet \"Mission\" --file \"mission.tsv\"\n", APP)
	fmt.Println()
}
