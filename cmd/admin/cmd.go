package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	appRepos "github.com/yigit/ais/internal/app/repositories"
	"github.com/yigit/ais/internal/seed"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	users   appRepos.IUserRepository
	migrate func(ctx context.Context) error
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  createadmin -username USERNAME   - create an administrator, the password is prompted")
	fmt.Fprintln(cli.out, "  resetpassword -username USERNAME - reset a user's password, the password is prompted")
	fmt.Fprintln(cli.out, "  migrate                          - apply pending SQL migrations")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "createadmin":
		username, password, err := cli.credentials("createadmin", args[2:])
		if err != nil {
			return err
		}
		id, err := seed.CreateAdmin(ctx, cli.users, username, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "administrator %q created with id %d\n", username, id)
		return nil
	case "resetpassword":
		username, password, err := cli.credentials("resetpassword", args[2:])
		if err != nil {
			return err
		}
		if err := seed.ResetPassword(ctx, cli.users, username, password); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "password of %q updated\n", username)
		return nil
	case "migrate":
		return cli.migrate(ctx)
	default:
		cli.printUsage()
		return errHelp
	}
}

// credentials parses -username and prompts for the password
func (cli *commandLine) credentials(name string, args []string) (string, string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	username := fs.String("username", "", "The user's username. The password will be prompted next.")
	if err := fs.Parse(args); err != nil {
		return "", "", err
	}
	if *username == "" {
		fs.Usage()
		return "", "", errHelp
	}

	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", "", err
	}
	if len(pwd) == 0 {
		fs.Usage()
		return "", "", errHelp
	}
	return *username, string(pwd), nil
}
