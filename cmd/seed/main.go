// Command seed creates the initial administrator account. It applies
// pending migrations, prompts for an email and a password (no echo) and
// inserts the user with the admin flag set.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"

	"github.com/dmitrijs2005/stremhub/internal/common"
	"github.com/dmitrijs2005/stremhub/internal/server/auth"
	"github.com/dmitrijs2005/stremhub/internal/server/config"
	"github.com/dmitrijs2005/stremhub/internal/server/models"
	"github.com/dmitrijs2005/stremhub/internal/server/repositories/repomanager"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func promptLine(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, "Password: "); err != nil {
		return "", err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func seed(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager, email, password string) error {

	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	user, err := rm.Users(db).Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      true,
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return fmt.Errorf("user %s already exists", email)
		}
		return err
	}

	fmt.Printf("created admin user %s (id=%d)\n", user.Email, user.ID)
	return nil
}

func main() {

	defaults := &config.Config{}
	defaults.LoadDefaults()

	dsn := flag.String("d", defaults.DatabaseDSN, "PostgreSQL DSN")
	flag.Parse()
	if v := os.Getenv("DATABASE_DSN"); v != "" && *dsn == defaults.DatabaseDSN {
		*dsn = v
	}

	ctx := context.Background()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	reader := bufio.NewReader(os.Stdin)
	email, err := promptLine(reader, "Admin email: ", os.Stdout)
	if err != nil {
		log.Fatalf("error reading email: %v", err)
	}
	if email == "" {
		log.Fatal("email must not be empty")
	}

	password, err := promptPassword(os.Stdout)
	if err != nil {
		log.Fatalf("error reading password: %v", err)
	}
	if password == "" {
		log.Fatal("password must not be empty")
	}

	if err := seed(ctx, db, repomanager.NewPostgresRepositoryManager(), email, password); err != nil {
		log.Fatalf("%v", err)
	}
}
