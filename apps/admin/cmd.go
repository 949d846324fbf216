package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mentora/backend/core"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf *core.Config
	db   *sqlx.DB
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate up|down|status [ARGS] - run database migrations")
	fmt.Println("  seed [-week YYYY-MM-DD]       - load demo lessons and a week of slots")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	seedWeek := seedCmd.String("week", "", "Monday of the week to seed slots for; defaults to the current week.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.seed(*seedWeek)
	default:
		cli.printUsage()
		return errHelp
	}
}
