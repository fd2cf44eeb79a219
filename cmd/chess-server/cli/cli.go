// Package cli implements the `chess-server db` administration commands for
// the account database.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"dragchess/internal/server/storage"

	"github.com/google/uuid"
	"github.com/lixenwraith/auth"
	"golang.org/x/term"
)

const minPasswordLength = 8

// readPassword prompts on the terminal; replaced in tests
var readPassword = func(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	return string(pw), err
}

// Run is the entry point for the CLI mini-app
func Run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, user")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:], out)
	case "delete":
		return runDelete(args[1:], out)
	case "user":
		if len(args) < 2 {
			return fmt.Errorf("user subcommand required: add, delete, set-password, list")
		}
		return runUser(args[1], args[2:], out)
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// parseWithPath parses a subcommand's flags and opens the database at -path
func parseWithPath(fs *flag.FlagSet, args []string) (*storage.Store, error) {
	path := fs.String("path", "", "Database file path (required)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *path == "" {
		return nil, fmt.Errorf("database path required")
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return store, nil
}

func runInit(args []string, out io.Writer) error {
	store, err := parseWithPath(flag.NewFlagSet("init", flag.ContinueOnError), args)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Fprintln(out, "Database initialized")
	return nil
}

func runDelete(args []string, out io.Writer) error {
	store, err := parseWithPath(flag.NewFlagSet("delete", flag.ContinueOnError), args)
	if err != nil {
		return err
	}

	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Fprintln(out, "Database deleted")
	return nil
}

func runUser(subcommand string, args []string, out io.Writer) error {
	switch subcommand {
	case "add":
		return runUserAdd(args, out)
	case "delete":
		return runUserDelete(args, out)
	case "set-password":
		return runUserSetPassword(args, out)
	case "list":
		return runUserList(args, out)
	default:
		return fmt.Errorf("unknown user subcommand: %s", subcommand)
	}
}

// resolvePasswordHash turns -password, -hash or -interactive into a PHC hash
func resolvePasswordHash(password, hash string, interactive bool) (string, error) {
	set := 0
	for _, given := range []bool{password != "", hash != "", interactive} {
		if given {
			set++
		}
	}
	if set == 0 {
		return "", fmt.Errorf("password required: use -password, -hash, or -interactive")
	}
	if set > 1 {
		return "", fmt.Errorf("use only one of -password, -hash, -interactive")
	}

	if hash != "" {
		if err := auth.ValidatePHCHashFormat(hash); err != nil {
			return "", fmt.Errorf("invalid password hash: %w", err)
		}
		return hash, nil
	}

	if interactive {
		var err error
		if password, err = readPassword("Enter password: "); err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
	}
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return passwordHash, nil
}

func runUserAdd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("user add", flag.ContinueOnError)
	username := fs.String("username", "", "Username (required)")
	email := fs.String("email", "", "Email address (optional)")
	password := fs.String("password", "", "Password")
	hash := fs.String("hash", "", "Pre-computed PHC password hash")
	interactive := fs.Bool("interactive", false, "Interactive password prompt")
	temp := fs.Bool("temp", false, "Create as temporary user (24h TTL, default: permanent)")

	store, err := parseWithPath(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if *username == "" {
		return fmt.Errorf("username required")
	}

	passwordHash, err := resolvePasswordHash(*password, *hash, *interactive)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	record := storage.UserRecord{
		UserID:       uuid.New().String(),
		Username:     strings.ToLower(*username),
		Email:        strings.ToLower(*email),
		PasswordHash: passwordHash,
		AccountType:  storage.AccountPermanent,
		CreatedAt:    now,
	}
	if *temp {
		expiry := now.Add(24 * time.Hour)
		record.AccountType = storage.AccountTemp
		record.ExpiresAt = &expiry
	}

	if err := store.CreateUser(record); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(out, "User created: %s (%s, %s)\n", record.Username, record.UserID, record.AccountType)
	return nil
}

func runUserDelete(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("user delete", flag.ContinueOnError)
	username := fs.String("username", "", "Username to delete")
	userID := fs.String("id", "", "User ID to delete")

	store, err := parseWithPath(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if (*username == "") == (*userID == "") {
		return fmt.Errorf("exactly one of -username or -id required")
	}

	targetID := *userID
	if *username != "" {
		user, err := store.GetUserByUsername(strings.ToLower(*username))
		if err != nil {
			return fmt.Errorf("user not found: %s", *username)
		}
		targetID = user.UserID
	}

	if err := store.DeleteUserByID(targetID); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", targetID, err)
	}

	fmt.Fprintf(out, "User deleted: %s\n", targetID)
	return nil
}

func runUserSetPassword(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("user set-password", flag.ContinueOnError)
	username := fs.String("username", "", "Username (required)")
	password := fs.String("password", "", "New password")
	hash := fs.String("hash", "", "Pre-computed PHC password hash")
	interactive := fs.Bool("interactive", false, "Interactive password prompt")

	store, err := parseWithPath(fs, args)
	if err != nil {
		return err
	}
	defer store.Close()

	if *username == "" {
		return fmt.Errorf("username required")
	}

	user, err := store.GetUserByUsername(strings.ToLower(*username))
	if err != nil {
		return fmt.Errorf("user not found: %s", *username)
	}

	passwordHash, err := resolvePasswordHash(*password, *hash, *interactive)
	if err != nil {
		return err
	}

	if err := store.UpdateUserPassword(user.UserID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	fmt.Fprintf(out, "Password updated for user: %s\n", user.Username)
	return nil
}

func runUserList(args []string, out io.Writer) error {
	store, err := parseWithPath(flag.NewFlagSet("user list", flag.ContinueOnError), args)
	if err != nil {
		return err
	}
	defer store.Close()

	users, err := store.GetAllUsers()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		fmt.Fprintln(out, "No users found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Username\tEmail\tType\tCreated\tLast Login")
	for _, u := range users {
		lastLogin := "never"
		if u.LastLoginAt != nil {
			lastLogin = u.LastLoginAt.Format("2006-01-02 15:04")
		}
		email := u.Email
		if email == "" {
			email = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			u.Username, email, u.AccountType,
			u.CreatedAt.Format("2006-01-02 15:04"), lastLogin)
	}
	w.Flush()

	total, permanent, temp, err := store.GetUserCounts()
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	fmt.Fprintf(out, "\n%d user(s): %d permanent, %d temporary\n", total, permanent, temp)
	return nil
}
