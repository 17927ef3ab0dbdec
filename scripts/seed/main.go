package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/italyna/reservations-api/internal/models"
	"github.com/italyna/reservations-api/pkg/config"
	"github.com/italyna/reservations-api/pkg/database"
)

// Seeds the database with the default opening hours, table capacity and an
// initial admin account so a fresh environment can take reservations
// immediately.
func main() {
	var (
		adminEmail    string
		adminPassword string
		adminName     string
	)

	flag.StringVar(&adminEmail, "admin-email", "admin@italyna.example", "Initial admin email")
	flag.StringVar(&adminPassword, "admin-password", "", "Initial admin password (required)")
	flag.StringVar(&adminName, "admin-name", "Administrator", "Initial admin display name")
	flag.Parse()

	if adminPassword == "" {
		log.Fatal("-admin-password is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hours := models.OpeningHours{
		"monday":    {Open: "17:00", Close: "22:00"},
		"tuesday":   {Open: "17:00", Close: "22:00"},
		"wednesday": {Open: "17:00", Close: "22:00"},
		"thursday":  {Open: "17:00", Close: "22:00"},
		"friday":    {Open: "12:00", Close: "23:00"},
		"saturday":  {Open: "12:00", Close: "23:00"},
		"sunday":    {Open: "12:00", Close: "21:00"},
	}
	capacity := models.TableCapacity{
		TotalSeats:   50,
		MaxPartySize: 8,
	}

	if err := upsertSetting(ctx, db, models.SettingOpeningHours, hours); err != nil {
		log.Fatalf("failed to seed opening hours: %v", err)
	}
	if err := upsertSetting(ctx, db, models.SettingTableCapacity, capacity); err != nil {
		log.Fatalf("failed to seed table capacity: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash admin password: %v", err)
	}

	const userQuery = `INSERT INTO admin_users (id, email, password_hash, full_name, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, NOW(), NOW())
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash, updated_at = NOW()`
	if _, err := db.ExecContext(ctx, userQuery, uuid.NewString(), adminEmail, string(hash), adminName, string(models.RoleAdmin)); err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}

	log.Printf("seeded settings and admin user %s", adminEmail)
}

func upsertSetting(ctx context.Context, db *sqlx.DB, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	const query = `INSERT INTO restaurant_settings (setting_key, setting_value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (setting_key) DO UPDATE SET setting_value = EXCLUDED.setting_value, updated_at = NOW()`
	_, err = db.ExecContext(ctx, query, key, raw)
	return err
}
