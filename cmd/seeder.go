package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/google/uuid"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"payment_attempts", "shift_definitions", "audit_entries", "salary_periods", "employee_documents", "employees"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing employee data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		operators := []struct {
			Email string
			Name  string
		}{
			{"ops@travelspirit.com.bd", "Operations"},
			{"hr@travelspirit.com.bd", "HR Admin"},
		}

		for _, op := range operators {
			var exists int
			row := db.Raw("SELECT 1 FROM users WHERE email = ?", op.Email).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Println("operator already exists:", op.Email)
				continue
			}
			if err := db.Exec("INSERT INTO users (email, name, password_hash, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())", op.Email, op.Name, string(hash)).Error; err != nil {
				log.Fatalf("failed to insert operator %s: %v", op.Email, err)
			}
			fmt.Println("Seeded operator:", op.Email)
		}

		employees := []struct {
			Name       string
			Phone      string
			Type       string
			Salary     string
			JoinedDays int
		}{
			{"Rahim Uddin", "+8801711000001", "full_time", "45000.00", 420},
			{"Shahana Akter", "+8801711000002", "full_time", "52000.00", 300},
			{"Tanvir Hasan", "+8801711000003", "part_time", "18000.00", 90},
			{"Mitu Chowdhury", "+8801711000004", "contract", "30000.00", 30},
		}

		for _, e := range employees {
			var exists int
			row := db.Raw("SELECT 1 FROM employees WHERE phone = ?", e.Phone).Row()
			if err := row.Scan(&exists); err == nil {
				continue
			}

			id := uuid.New().String()
			joined := time.Now().AddDate(0, 0, -e.JoinedDays).Format("2006-01-02")
			if err := db.Exec(`INSERT INTO employees
				(id, name, phone, status, employment_type, currency, salary, date_of_joining, is_deleted, payroll_started, created_at, updated_at)
				VALUES (?, ?, ?, 'active', ?, ?, ?, ?, false, false, now(), now())`,
				id, e.Name, e.Phone, e.Type, cfg.Payroll.DefaultCurrency, e.Salary, joined).Error; err != nil {
				log.Fatalf("failed to insert employee %s: %v", e.Name, err)
			}

			if err := db.Exec(`INSERT INTO salary_periods
				(id, employee_id, amount, currency, effective_from, effective_to, reason, created_at)
				VALUES (?, ?, ?, ?, ?, NULL, 'initial compensation', now())`,
				uuid.New().String(), id, e.Salary, cfg.Payroll.DefaultCurrency, joined).Error; err != nil {
				log.Fatalf("failed to insert salary period for %s: %v", e.Name, err)
			}

			if err := db.Exec(`INSERT INTO audit_entries
				(employee_id, action, actor_id, actor_kind, created_at)
				VALUES (?, 'created', 'system', 'system', now())`, id).Error; err != nil {
				log.Fatalf("failed to insert audit entry for %s: %v", e.Name, err)
			}

			fmt.Println("Seeded employee:", e.Name)
		}

		fmt.Println("Seed data loaded successfully")
	},
}
