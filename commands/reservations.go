package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/garygangwu/cohosting-test/bookings"
)

var ReservationsCmd = Reservations{
	account: "",
}

type Reservations struct {
	account string
}

func (cmd *Reservations) Name() string {
	return "reservations"
}

func (cmd *Reservations) Description() string {
	return "Lists the current Airbnb reservations for an account"
}

func (cmd *Reservations) Usage() string {
	return "--account <id>"
}

func (cmd *Reservations) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] reservations --account <id>\n", APP)
	fmt.Println()
	fmt.Println("  Retrieves the reservations for a single host account and displays them in")
	fmt.Println("  check-in order. The worksheets are not accessed.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s reservations --account 2529228\n", APP)
	fmt.Println()
}

func (cmd *Reservations) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("reservations", flag.ExitOnError)

	flagset.StringVar(&cmd.account, "account", cmd.account, "Airbnb host account ID")

	return flagset
}

func (cmd *Reservations) Execute(args ...any) error {
	options := args[0].(*Options)

	if err := required("account", cmd.account); err != nil {
		return err
	}

	conf, log, err := setup(options)
	if err != nil {
		return err
	}

	client, err := upstream(conf)
	if err != nil {
		return err
	}

	payload, err := client.Fetch(context.Background(), cmd.account)
	if err != nil {
		return err
	} else if payload == nil {
		return fmt.Errorf("no access token configured for account %v", cmd.account)
	}

	reservations, err := bookings.NormalizePayload(payload)
	if err != nil {
		return err
	}

	log.Debug().Str("account", cmd.account).Int("reservations", reservations.Len()).Msg("fetched reservations")

	rows := bookings.Serialize(bookings.Reconcile(reservations, nil))
	if len(rows) == 0 {
		fmt.Printf("No reservations for account %v\n", cmd.account)
		return nil
	}

	fmt.Println(renderRows(bookings.Headers(), rows))

	return nil
}
