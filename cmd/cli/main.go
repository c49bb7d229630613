// Command cli bootstraps an admin account. Signup over the API always
// creates nonadmin users and roles never change afterwards, so the first
// admin has to be inserted directly.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"

	"github.com/dmitrijs2005/qaboard/internal/server/config"
	"github.com/dmitrijs2005/qaboard/internal/server/models"
	"github.com/dmitrijs2005/qaboard/internal/server/password"
	"github.com/dmitrijs2005/qaboard/internal/server/repositories/repomanager"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func main() {
	username := flag.String("username", "", "admin username")
	email := flag.String("email", "", "admin email address")
	dsn := flag.String("d", "", "database DSN (defaults to server config)")
	flag.Parse()

	if err := run(context.Background(), *username, *email, *dsn); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, username, email, dsn string) error {

	reader := bufio.NewReader(os.Stdin)

	if username == "" {
		fmt.Println("Enter admin username")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		username = strings.TrimSpace(line)
	}
	if email == "" {
		fmt.Println("Enter admin email")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		email = strings.TrimSpace(line)
	}
	if username == "" || email == "" {
		return fmt.Errorf("username and email are required")
	}

	fmt.Println("Enter password")
	plaintext, err := readPassword(int(os.Stdin.Fd()))
	if err != nil {
		return err
	}

	if dsn == "" {
		cfg := &config.Config{}
		cfg.LoadDefaults()
		dsn = cfg.DatabaseDSN
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	hasher := password.NewHasher()
	salt := hasher.NewSalt()
	digest, err := hasher.Hash(string(plaintext), salt)
	if err != nil {
		return err
	}

	user := &models.User{
		UUID:         uuid.NewString(),
		UserName:     username,
		Email:        email,
		PasswordHash: digest,
		Salt:         salt,
		Role:         models.RoleAdmin,
	}

	created, err := rm.Users(db).Create(ctx, user)
	if err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}

	fmt.Printf("Admin created: uuid=%s\n", created.UUID)
	return nil
}
