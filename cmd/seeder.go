package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample roles and users for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		db, err := initGorm(sqlxDB)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			clearTables(db)
		}

		roles := []struct {
			Name        string
			Desc        string
			Permissions string
		}{
			{"admin", "full administrator", `["*"]`},
			{"manager", "reviews staff actions and monitors the audit trail", `["approvals.*", "audit.view", "notifications.manage"]`},
			{"staff", "submits property mutations for approval", `["approvals.submit"]`},
			{"tenant", "receives notifications only", `[]`},
		}

		for _, r := range roles {
			var rid int64
			row := db.Raw("SELECT id FROM roles WHERE name = ?", r.Name).Row()
			if err := row.Scan(&rid); err == nil {
				continue
			}
			if err := db.Exec("INSERT INTO roles (name, description, permissions, created_at, updated_at) VALUES (?, ?, ?, now(), now())",
				r.Name, r.Desc, r.Permissions).Error; err != nil {
				log.Fatalf("failed to insert role %s: %v", r.Name, err)
			}
			fmt.Println("Seeded role:", r.Name)
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		users := []struct {
			Email string
			Name  string
			Role  string
		}{
			{"admin@rumahkita.id", "Admin Rumah Kita", "admin"},
			{"manajer@rumahkita.id", "Sari Manajer", "manager"},
			{"staf@rumahkita.id", "Budi Staf", "staff"},
			{"penyewa@rumahkita.id", "Dewi Penyewa", "tenant"},
		}

		for _, u := range users {
			var exists int
			row := db.Raw("SELECT 1 FROM users WHERE email = ?", u.Email).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Println("user already exists:", u.Email)
				continue
			}

			var roleID int64
			if err := db.Raw("SELECT id FROM roles WHERE name = ?", u.Role).Row().Scan(&roleID); err != nil {
				log.Fatalf("role not found %s: %v", u.Role, err)
			}

			if err := db.Exec("INSERT INTO users (email, name, password_hash, role_id, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now())",
				u.Email, u.Name, string(hash), roleID).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email)
		}

		fmt.Println("Seeding complete. Default password for all seeded users:", password)
	},
}

func clearTables(db *gorm.DB) {
	// child tables first so foreign keys stay happy
	tables := []string{
		"notifications",
		"scheduled_notifications",
		"audit_logs",
		"staff_action_approvals",
		"invoices",
		"leases",
		"users",
		"roles",
	}
	for _, t := range tables {
		if err := db.Exec("DELETE FROM " + t).Error; err != nil {
			log.Fatalf("failed to clear table %s: %v", t, err)
		}
	}
	fmt.Println("Cleared existing data")
}
