package main

import (
	"fmt"
	"os"

	"ward-calendar-api/config"
	"ward-calendar-api/internal/database"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"
)

type CLI struct {
	Debug       bool            `arg:"--debug" help:"debugging output"`
	LoadWards   *LoadWardsCmd   `arg:"subcommand:load-wards" help:"insert the twelve Akinyele wards if missing"`
	CreateAdmin *CreateAdminCmd `arg:"subcommand:create-admin" help:"create a console administrator"`
	Migrate     *MigrateCmd     `arg:"subcommand:migrate" help:"create or update the database schema"`
}

func (CLI) Description() string {
	return "manage: operator commands for the ward calendar API"
}

func main() {
	_ = godotenv.Load()

	args := &CLI{}
	parser, err := parseArgs(args, os.Args[1:])
	abort(parser, err)

	cfg := config.LoadConfig()
	cfg.Debug = cfg.Debug || args.Debug
	logger := config.ConfigureLogger(cfg.Debug)

	if parser.Subcommand() == nil {
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}

	db, err := database.Open(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	env := &Env{DB: db, In: os.Stdin, Out: os.Stdout, Prompt: promptPassword}
	abort(parser, run(args, env))
}

func parseArgs(args *CLI, argv []string) (*arg.Parser, error) {
	parser, err := arg.NewParser(arg.Config{Program: "manage"}, args)
	if err != nil {
		return nil, err
	}
	return parser, parser.Parse(argv)
}

func run(args *CLI, env *Env) error {
	switch {
	case args.LoadWards != nil:
		return args.LoadWards.Run(env)
	case args.CreateAdmin != nil:
		return args.CreateAdmin.Run(env)
	case args.Migrate != nil:
		return args.Migrate.Run(env)
	}
	return nil
}

func abort(parser *arg.Parser, err error) {
	switch err {
	case nil:
		return
	case arg.ErrHelp:
		parser.WriteHelp(os.Stderr)
		os.Exit(0)
	default:
		fmt.Fprint(os.Stderr, err, "\n")
		os.Exit(1)
	}
}
