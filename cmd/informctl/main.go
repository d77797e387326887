// informctl is an operator tool that talks to the database directly. It
// bootstraps the first administrator account and creates users without going
// through the HTTP API, which is useful before the server has any admin to
// log in as.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/ddanilovs/inform/internal/server/auth"
	"github.com/ddanilovs/inform/internal/server/models"
	"github.com/ddanilovs/inform/internal/server/repositories/repomanager"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: informctl <seed-admin|create-user> [flags]")
	fmt.Fprintln(os.Stderr, "  seed-admin   create the default administrator account if missing")
	fmt.Fprintln(os.Stderr, "  create-user  create a user account with a temporary password")
}

func main() {

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx := context.Background()

	var err error
	switch os.Args[1] {
	case "seed-admin":
		err = runSeedAdmin(ctx, os.Args[2:])
	case "create-user":
		err = runCreateUser(ctx, os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func openManager(dsn string) (repomanager.RepositoryManager, error) {
	if dsn == "" {
		dsn = os.Getenv("DATABASE_DSN")
	}
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is required (-d flag or DATABASE_DSN)")
	}
	return repomanager.NewPostgresRepositoryManager(dsn)
}

func getSimpleText(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Println(prompt)
	text, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func getPassword(prompt string) (string, error) {
	fmt.Println(prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", err
	}
	return string(password), nil
}

func runSeedAdmin(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("seed-admin", flag.ExitOnError)
	dsn := fs.String("d", "", "database DSN")
	email := fs.String("email", "", "administrator email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rm, err := openManager(*dsn)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	if *email == "" {
		if *email, err = getSimpleText(reader, "Enter admin email"); err != nil {
			return err
		}
	}

	if _, err := rm.Users().GetByEmail(ctx, *email); err == nil {
		fmt.Println("Admin already exists, nothing to do")
		return nil
	}

	password, err := getPassword("Enter admin password")
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = rm.Users().Create(ctx, &models.User{
		Name:         "System Admin",
		Email:        *email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	})
	if err != nil {
		return err
	}

	fmt.Println("Admin account created. The first login will require a password change.")
	return nil
}

func runCreateUser(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("create-user", flag.ExitOnError)
	dsn := fs.String("d", "", "database DSN")
	role := fs.String("role", models.RoleUser, "account role (admin or user)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *role != models.RoleAdmin && *role != models.RoleUser {
		return fmt.Errorf("unknown role: %s", *role)
	}

	rm, err := openManager(*dsn)
	if err != nil {
		return err
	}

	reader := bufio.NewReader(os.Stdin)

	name, err := getSimpleText(reader, "Enter full name")
	if err != nil {
		return err
	}

	email, err := getSimpleText(reader, "Enter email")
	if err != nil {
		return err
	}

	password, err := getPassword("Enter temporary password")
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user, err := rm.Users().Create(ctx, &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         *role,
		IsActive:     true,
	})
	if err != nil {
		return err
	}

	fmt.Printf("User %s created. The first login will require a password change.\n", user.Email)
	return nil
}
