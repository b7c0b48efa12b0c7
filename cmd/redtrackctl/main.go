// redtrackctl - административная утилита для работы с базой сервера
// напрямую, без запуска HTTP API. Используется для первоначального
// создания пользователей и смены забытых паролей.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/iudanet/redtrack/internal/crypto"
	"github.com/iudanet/redtrack/internal/models"
	"github.com/iudanet/redtrack/internal/server/config"
	"github.com/iudanet/redtrack/internal/server/storage"
	"github.com/iudanet/redtrack/internal/server/storage/boltdb"
	"github.com/iudanet/redtrack/internal/server/storage/sqlite"
	"github.com/iudanet/redtrack/internal/validation"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	driver := flag.String("driver", config.DriverSQLite, "Storage driver: sqlite or bolt")
	dbPath := flag.String("db", "redtrack.db", "Path to database file")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(*driver, *dbPath, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(driver, dbPath string, args []string) error {
	if len(args) < 1 {
		printUsage()
		return fmt.Errorf("command required")
	}

	ctx := context.Background()

	store, err := openStorage(ctx, driver, dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	switch args[0] {
	case "create-user":
		if len(args) != 2 {
			return fmt.Errorf("usage: redtrackctl create-user <username>")
		}
		return createUser(ctx, store, args[1])
	case "reset-password":
		if len(args) != 2 {
			return fmt.Errorf("usage: redtrackctl reset-password <username>")
		}
		return resetPassword(ctx, store, args[1])
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func createUser(ctx context.Context, store storage.Storage, username string) error {
	if err := validation.ValidateUsername(username); err != nil {
		return err
	}

	password, err := promptNewPassword()
	if err != nil {
		return err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := store.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	fmt.Printf("User %q created (id: %s)\n", username, user.ID)
	return nil
}

func resetPassword(ctx context.Context, store storage.Storage, username string) error {
	user, err := store.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}

	password, err := promptNewPassword()
	if err != nil {
		return err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := store.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	// Сбрасываем активные сессии пользователя
	if _, err := store.DeleteUserTokens(ctx, user.ID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	fmt.Printf("Password for %q updated, sessions revoked\n", username)
	return nil
}

// promptNewPassword запрашивает пароль дважды без отображения на экране
func promptNewPassword() (string, error) {
	password, err := readPassword("New password: ")
	if err != nil {
		return "", err
	}

	if err := validation.ValidatePassword(password); err != nil {
		return "", err
	}

	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return "", err
	}

	if password != confirm {
		return "", fmt.Errorf("passwords do not match")
	}

	return password, nil
}

// readPassword читает пароль без отображения на экране
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // Переход на новую строку после ввода пароля
	if err != nil {
		return "", err
	}
	return string(passwordBytes), nil
}

func openStorage(ctx context.Context, driver, dbPath string) (storage.Storage, error) {
	switch driver {
	case config.DriverSQLite:
		return sqlite.New(ctx, dbPath)
	case config.DriverBolt:
		return boltdb.New(ctx, dbPath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: redtrackctl [flags] <command>

Commands:
  create-user <username>     Create a new user
  reset-password <username>  Set a new password and revoke sessions

Flags:
`)
	flag.PrintDefaults()
}

func printVersion() {
	fmt.Printf("RedTrack Control\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
