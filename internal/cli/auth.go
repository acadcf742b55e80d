package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/Likhith-Bhargav/talent-link/internal/models"
	"github.com/Likhith-Bhargav/talent-link/internal/session"
)

func loginCommand(d **deps) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in and store the session token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "username or email"},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "password (prompted when omitted)"},
		},
		Action: func(c *cli.Context) error {
			username := c.String("username")
			if username == "" {
				username = prompt("Email or username: ")
			}
			password := c.String("password")
			if password == "" {
				var err error
				password, err = promptSecret("Password: ")
				if err != nil {
					return err
				}
			}

			result := (*d).session.Login(c.Context, session.Credentials{
				Username: username,
				Password: password,
			})
			if !result.Success {
				return cli.Exit(result.Error, 1)
			}
			fmt.Fprintf(c.App.Writer, "Signed in as %s\n", result.User.DisplayName())
			return nil
		},
	}
}

func logoutCommand(d **deps) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "sign out and clear the stored token",
		Action: func(c *cli.Context) error {
			(*d).session.Logout(c.Context)
			fmt.Fprintln(c.App.Writer, "Signed out")
			return nil
		},
	}
}

func registerCommand(d **deps) *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "create an account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Required: true},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "first-name"},
			&cli.StringFlag{Name: "last-name"},
			&cli.StringFlag{Name: "type", Value: "job_seeker", Usage: "job_seeker, employer, recruiter or company"},
		},
		Action: func(c *cli.Context) error {
			password, err := promptSecret("Password: ")
			if err != nil {
				return err
			}
			confirm, err := promptSecret("Confirm password: ")
			if err != nil {
				return err
			}

			result := (*d).session.Register(c.Context, session.Registration{
				Username:  c.String("username"),
				Email:     c.String("email"),
				Password1: password,
				Password2: confirm,
				FirstName: c.String("first-name"),
				LastName:  c.String("last-name"),
				UserType:  models.UserType(c.String("type")),
			})
			if !result.Success {
				return cli.Exit(result.Error, 1)
			}
			fmt.Fprintln(c.App.Writer, result.Message)
			return nil
		},
	}
}

func whoamiCommand(d **deps) *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the signed-in account",
		Action: func(c *cli.Context) error {
			if err := requireAuth(c, *d); err != nil {
				return err
			}
			user := (*d).session.CurrentUser()
			fmt.Fprintf(c.App.Writer, "%s <%s> (%s)\n", user.Username, user.Email, user.UserType)
			return nil
		},
	}
}

func prompt(label string) string {
	fmt.Fprint(os.Stderr, label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptSecret(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}
