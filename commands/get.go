package commands

import (
	"context"
	"flag"
	"fmt"
	"time"
)

var GetCmd = Get{
	sheet: "",
	file:  time.Now().Format("2006-01-02T150405.tsv"),
}

type Get struct {
	sheet string
	file  string
}

func (cmd *Get) Name() string {
	return "get"
}

func (cmd *Get) Description() string {
	return "Retrieves a bookings worksheet and stores it to a local file"
}

func (cmd *Get) Usage() string {
	return "--sheet <title> --file <file>"
}

func (cmd *Get) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] get --sheet <title> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Downloads a bookings worksheet to a TSV file")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s get --sheet \"Mission\" --file \"mission.tsv\"\n", APP)
	fmt.Println()
}

func (cmd *Get) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("get", flag.ExitOnError)

	flagset.StringVar(&cmd.sheet, "sheet", cmd.sheet, "Worksheet title e.g. 'Mission'")
	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file name. Defaults to '<yyyy-mm-ddTHHmmss>.tsv'")

	return flagset
}

func (cmd *Get) Execute(args ...any) error {
	options := args[0].(*Options)

	if err := required("sheet", cmd.sheet); err != nil {
		return err
	}

	if err := required("file", cmd.file); err != nil {
		return err
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
		if w.Title() != cmd.sheet {
			continue
		}

		rows, err := w.Rows(ctx)
		if err != nil {
			return err
		} else if len(rows) == 0 {
			return fmt.Errorf("no data in worksheet '%v'", cmd.sheet)
		}

		header := []string{}
		for _, v := range rows[0] {
			header = append(header, fmt.Sprintf("%v", v))
		}

		if err := writeTSV(cmd.file, header, rows[1:]); err != nil {
			return err
		}

		log.Info().Str("sheet", cmd.sheet).Str("file", cmd.file).Int("rows", len(rows)-1).Msg("retrieved worksheet")

		return nil
	}

	return fmt.Errorf("no worksheet '%v' in spreadsheet", cmd.sheet)
}
