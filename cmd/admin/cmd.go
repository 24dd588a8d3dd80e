package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/noah-isme/internship-api/internal/models"
	"github.com/noah-isme/internship-api/internal/repository"
	"github.com/noah-isme/internship-api/internal/service"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type userStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateRole(ctx context.Context, id string, role models.UserRole) error
}

type tokenIssuer interface {
	IssueToken(user *models.User) (string, time.Time, error)
}

type commandLine struct {
	users   userStore
	tokens  tokenIssuer
	migrate func(ctx context.Context, command string, args ...string) error
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  adduser -email EMAIL -name NAME -role ROLE [-nidn NIDN] - create a local account, password is prompted")
	fmt.Fprintln(cli.out, "  role -email EMAIL -role ROLE                            - change a user's role")
	fmt.Fprintln(cli.out, "  list -role ROLE                                         - list active users with a role")
	fmt.Fprintln(cli.out, "  token -email EMAIL                                      - issue an access token")
	fmt.Fprintln(cli.out, "  migrate [up|down|redo|status|version|up-to N|down-to N] - manage the database schema")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	rest := args[2:]

	switch args[1] {
	case "adduser":
		return cli.addUser(ctx, rest)
	case "role":
		return cli.setRole(ctx, rest)
	case "list":
		return cli.listUsers(ctx, rest)
	case "token":
		return cli.issueToken(ctx, rest)
	case "migrate":
		command := "up"
		if len(rest) > 0 {
			command, rest = rest[0], rest[1:]
		}
		return cli.migrate(ctx, command, rest...)
	default:
		cli.printUsage()
		return errHelp
	}
}

func parseRole(raw string) (models.UserRole, error) {
	role := models.UserRole(strings.ToLower(strings.TrimSpace(raw)))
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

func (cli *commandLine) addUser(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	cmd.SetOutput(cli.out)
	email := cmd.String("email", "", "account email")
	name := cmd.String("name", "", "full name")
	roleFlag := cmd.String("role", string(models.RoleAdmin), "admin, supervisor or student")
	nidn := cmd.String("nidn", "", "lecturer id for supervisors")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		cmd.Usage()
		return errHelp
	}
	role, err := parseRole(*roleFlag)
	if err != nil {
		return err
	}

	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(cli.out)
	if err != nil {
		return err
	}
	if len(pwd) == 0 {
		cmd.Usage()
		return errHelp
	}
	hash, err := service.HashPassword(string(pwd))
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ExternalID:   "local:" + uuid.NewString(),
		Email:        service.NormalizeEmail(*email),
		FullName:     strings.TrimSpace(*name),
		Role:         role,
		PasswordHash: &hash,
		Active:       true,
	}
	if *nidn != "" {
		user.NIDN = nidn
	}
	if err := cli.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return fmt.Errorf("a user with email %s already exists", user.Email)
		}
		return err
	}
	fmt.Fprintf(cli.out, "created %s %s (%s)\n", user.Role, user.Email, user.ID)
	return nil
}

func (cli *commandLine) setRole(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("role", flag.ContinueOnError)
	cmd.SetOutput(cli.out)
	email := cmd.String("email", "", "account email")
	roleFlag := cmd.String("role", "", "new role")
	if err := cmd.Parse(args); err != nil {
		return err
	}

	role, err := parseRole(*roleFlag)
	if err != nil {
		return err
	}
	user, err := cli.findByEmail(ctx, *email)
	if err != nil {
		return err
	}
	if err := cli.users.UpdateRole(ctx, user.ID, role); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s is now %s\n", user.Email, role)
	return nil
}

func (cli *commandLine) listUsers(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("list", flag.ContinueOnError)
	cmd.SetOutput(cli.out)
	roleFlag := cmd.String("role", string(models.RoleSupervisor), "role to list")
	if err := cmd.Parse(args); err != nil {
		return err
	}

	role, err := parseRole(*roleFlag)
	if err != nil {
		return err
	}
	list, err := cli.users.ListByRole(ctx, role)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME")
	for _, u := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\n", u.ID, u.Email, u.FullName)
	}
	return w.Flush()
}

func (cli *commandLine) issueToken(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("token", flag.ContinueOnError)
	cmd.SetOutput(cli.out)
	email := cmd.String("email", "", "account email")
	if err := cmd.Parse(args); err != nil {
		return err
	}

	user, err := cli.findByEmail(ctx, *email)
	if err != nil {
		return err
	}
	token, expiresAt, err := cli.tokens.IssueToken(user)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s\nexpires %s\n", token, expiresAt.Format(time.RFC3339))
	return nil
}

func (cli *commandLine) findByEmail(ctx context.Context, email string) (*models.User, error) {
	email = service.NormalizeEmail(email)
	if email == "" {
		return nil, errors.New("-email is required")
	}
	user, err := cli.users.FindByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no user with email %s", email)
	}
	return user, err
}
