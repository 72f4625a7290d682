package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/alextreichler/meatpoint/internal/auth"
	"github.com/alextreichler/meatpoint/internal/models"
	"github.com/alextreichler/meatpoint/internal/store"
	"github.com/alextreichler/meatpoint/internal/validate"
)

const usage = "expected 'add-user' or 'seed-items' subcommand"

type seedItem struct {
	Name        string
	Description string
	PriceCents  int
}

var defaultItems = []seedItem{
	{Name: "Chicken Curry Cut (500g)", Description: "Fresh cut chicken", PriceCents: 24900},
	{Name: "Chicken Breast Boneless (500g)", Description: "Boneless breast", PriceCents: 29900},
	{Name: "Mutton Curry Cut (500g)", Description: "Fresh mutton", PriceCents: 54900},
	{Name: "Fish Rohu (500g)", Description: "Fresh rohu fish", PriceCents: 22900},
}

func main() {
	addUserCmd := flag.NewFlagSet("add-user", flag.ExitOnError)
	email := addUserCmd.String("email", os.Getenv("ADMIN_EMAIL"), "Email for the admin user (env ADMIN_EMAIL)")
	password := addUserCmd.String("password", os.Getenv("ADMIN_PASSWORD"), "Password for the admin user (env ADMIN_PASSWORD)")

	seedCmd := flag.NewFlagSet("seed-items", flag.ExitOnError)

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "add-user":
		addUserCmd.Parse(os.Args[2:])
		creds := auth.Credentials{Email: strings.ToLower(strings.TrimSpace(*email)), Password: *password}
		if err := validate.Struct(creds); err != nil {
			fmt.Println(err)
			addUserCmd.PrintDefaults()
			os.Exit(1)
		}
		createUser(ctx, creds)
	case "seed-items":
		seedCmd.Parse(os.Args[2:])
		seedItems(ctx)
	default:
		fmt.Println(usage)
		os.Exit(1)
	}
}

func openStore(ctx context.Context) *store.Store {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./meatpoint.db"
	}

	db, err := store.NewStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	// Ensure tables exist if running cli before server
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	return db
}

func createUser(ctx context.Context, creds auth.Credentials) {
	db := openStore(ctx)
	defer db.Close()

	hashedPassword, err := auth.HashPassword(creds.Password, bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		ID:        uuid.NewString(),
		Email:     creds.Email,
		Password:  hashedPassword,
		Role:      models.RoleAdmin,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.UpsertUser(ctx, user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("Admin '%s' is ready.\n", creds.Email)
}

func seedItems(ctx context.Context) {
	db := openStore(ctx)
	defer db.Close()

	for _, s := range defaultItems {
		desc := s.Description
		item := &models.Item{
			ID:          uuid.NewString(),
			Name:        s.Name,
			Description: &desc,
			PriceCents:  s.PriceCents,
			CreatedAt:   time.Now().UTC(),
		}
		if err := db.UpsertItemByName(ctx, item); err != nil {
			log.Fatalf("Failed to seed %q: %v", s.Name, err)
		}
		fmt.Printf("Seeded %s\n", s.Name)
	}
}
