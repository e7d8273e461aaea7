package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"ward-calendar-api/internal/auth"
	"ward-calendar-api/internal/logs"
	"ward-calendar-api/internal/ward"

	"golang.org/x/term"
	"gorm.io/gorm"
)

const minPasswordLength = 8

// Env carries what the subcommands touch, so tests can swap stdin and the
// terminal prompt.
type Env struct {
	DB     *gorm.DB
	In     io.Reader
	Out    io.Writer
	Prompt func(label string) (string, error)
}

type LoadWardsCmd struct{}

func (LoadWardsCmd) Run(env *Env) error {
	res, err := (&ward.WardService{DB: env.DB}).LoadWards(env.Out)
	if err != nil {
		return err
	}
	if len(res.Created) == 0 {
		return nil
	}

	ls := &logs.LogService{DB: env.DB}
	if err := ls.Log(res.AuditEntry(), nil); err != nil {
		fmt.Fprintf(env.Out, "Failed to insert log: %v\n", err)
	}
	return nil
}

type CreateAdminCmd struct {
	Username      string `arg:"--username,required" help:"login name"`
	PasswordStdin bool   `arg:"--password-stdin" help:"read the password from the first line of stdin"`
}

func (cmd CreateAdminCmd) Run(env *Env) error {
	password, err := cmd.readPassword(env)
	if err != nil {
		return err
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	admin, err := (&auth.AuthService{DB: env.DB}).CreateAdmin(cmd.Username, password)
	if err != nil {
		return err
	}

	ls := &logs.LogService{DB: env.DB}
	entry := logs.SystemLog{
		Level:   logs.LevelInfo,
		Service: "auth",
		Action:  "CREATE_ADMIN",
		Message: fmt.Sprintf("Admin account created from the command line: %s", admin.Username),
	}
	if err := ls.Log(entry, map[string]interface{}{"id": admin.ID, "username": admin.Username}); err != nil {
		fmt.Fprintf(env.Out, "Failed to insert log: %v\n", err)
	}

	fmt.Fprintf(env.Out, "Admin created: %s (id %d)\n", admin.Username, admin.ID)
	return nil
}

func (cmd CreateAdminCmd) readPassword(env *Env) (string, error) {
	if cmd.PasswordStdin {
		line, err := bufio.NewReader(env.In).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	password, err := env.Prompt("Password: ")
	if err != nil {
		return "", err
	}
	confirm, err := env.Prompt("Password (again): ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", errors.New("passwords do not match")
	}
	return password, nil
}

type MigrateCmd struct{}

// Run is a no-op beyond the migration main already performed.
func (MigrateCmd) Run(env *Env) error {
	fmt.Fprintln(env.Out, "Migrations applied")
	return nil
}

// promptPassword reads without echo from the controlling terminal.
func promptPassword(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal, use --password-stdin")
	}

	fmt.Fprint(os.Stderr, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}
