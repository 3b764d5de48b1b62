// Command cli bootstraps the first administrator account. It applies
// migrations, prompts for a password and creates the user with the
// administrator role assigned.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"

	"github.com/mkalvans/userhub/internal/server/config"
	"github.com/mkalvans/userhub/internal/server/repositories/repomanager"
	"github.com/mkalvans/userhub/internal/server/services"
)

const adminRoleName = "Administrator"

func main() {

	defaults := &config.Config{}
	defaults.LoadDefaults()

	dsn := flag.String("d", defaults.DatabaseDSN, "database DSN")
	username := flag.String("u", "admin", "administrator username")
	email := flag.String("e", "", "administrator email")
	flag.Parse()

	if *email == "" {
		log.Fatal("email is required (-e)")
	}

	password, err := readPassword()
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	role, err := repos.Roles(db).GetByName(ctx, adminRoleName)
	if err != nil {
		log.Fatalf("role lookup error: %v", err)
	}

	users := services.NewUserService(db, repos, repos.Pictures(db))
	created, err := users.Create(ctx, services.CreateUserParams{
		Username: *username,
		Email:    *email,
		Password: password,
		RoleIDs:  []int64{role.ID},
	})
	if err != nil {
		log.Fatalf("create error: %v", err)
	}

	fmt.Printf("administrator %q created (id %d)\n", created.Username, created.ID)

}

func readPassword() (string, error) {
	fmt.Print("Password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("password read error: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("password must not be empty")
	}
	return string(raw), nil
}
