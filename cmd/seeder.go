package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
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

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			for _, table := range []string{"weekly_updates", "project_weekly_reports", "applicants", "jobs", "question_bank", "projects", "users"} {
				if _, err := db.Exec("DELETE FROM " + table); err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		seedUsers := []struct {
			Username string
			Name     string
			Email    string
			Role     string
		}{
			{"svetlana", "Svetlana Super", "svetlana@portal.local", "super"},
			{"andi", "Andi Admin", "andi@portal.local", "admin"},
			{"emma", "Emma Employee", "emma@portal.local", "employee"},
		}

		for _, u := range seedUsers {
			var exists int
			if err := db.QueryRow("SELECT 1 FROM users WHERE username = $1", u.Username).Scan(&exists); err == nil {
				fmt.Println("user already exists:", u.Username)
				continue
			}
			_, err := db.Exec(
				`INSERT INTO users (username, name, email, role, password_hash, is_active, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, $5, true, now(), now())`,
				u.Username, u.Name, u.Email, u.Role, string(hash))
			if err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Username, err)
			}
			fmt.Println("Seeded user:", u.Username, "role:", u.Role)
		}

		projectID := uuid.New().String()
		var exists int
		if err := db.QueryRow("SELECT 1 FROM projects WHERE name = $1", "Portal Revamp").Scan(&exists); err != nil {
			_, err := db.Exec(
				`INSERT INTO projects (project_id, name, description, owner_username, status, budget_total, budget_consumed, created_at, updated_at)
				 VALUES ($1, 'Portal Revamp', 'Internal portal rebuild', 'andi', 'active', 120000, 15000, now(), now())`,
				projectID)
			if err != nil {
				log.Fatalf("failed to insert project: %v", err)
			}
			fmt.Println("Seeded project: Portal Revamp")
		}

		bank := map[string]interface{}{
			"general": []map[string]interface{}{
				{"id": "g-motivation", "label": "Why do you want to work here?", "type": "textarea", "required": true},
				{"id": "g-notice", "label": "Notice period", "type": "select", "required": true, "options": []string{"2 weeks", "1 month", "2 months"}},
			},
			"personal": []map[string]interface{}{
				{"id": "p-location", "label": "Current location", "type": "text", "required": false},
			},
		}
		bankDoc, _ := json.Marshal(bank)
		_, err = db.Exec(
			`INSERT INTO question_bank (id, document, updated_at) VALUES (1, $1, now())
			 ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = now()`,
			bankDoc)
		if err != nil {
			log.Fatalf("failed to seed question bank: %v", err)
		}
		fmt.Println("Seeded question bank")

		jobID := uuid.New().String()
		if err := db.QueryRow("SELECT 1 FROM jobs WHERE title = $1", "Backend Engineer").Scan(&exists); err != nil {
			tags, _ := json.Marshal([]string{"go", "postgres"})
			generalIDs, _ := json.Marshal([]string{"g-motivation", "g-notice"})
			personalIDs, _ := json.Marshal([]string{"p-location"})
			roleQuestions, _ := json.Marshal([]map[string]interface{}{
				{"id": "r-scaling", "label": "Describe a system you scaled", "type": "textarea", "required": true},
			})
			_, err := db.Exec(
				`INSERT INTO jobs (job_id, title, team, location, description, tags, status, general_question_ids, personal_question_ids, role_questions, created_at, updated_at)
				 VALUES ($1, 'Backend Engineer', 'Platform', 'Remote', 'Build portal services', $2, 'enabled', $3, $4, $5, now(), now())`,
				jobID, tags, generalIDs, personalIDs, roleQuestions)
			if err != nil {
				log.Fatalf("failed to insert job: %v", err)
			}
			fmt.Println("Seeded job: Backend Engineer")
		}

		fmt.Println("Seeding complete. Login with any seeded username and password:", password)
	},
}
