package main

import (
	"log"
	"os"
	"strings"

	"goltrip/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

// migrationModels lists every model in dependency order: referenced tables
// migrate before the tables holding foreign keys to them. Roles migrate
// separately before users so their FK can be applied safely.
var migrationModels = []struct {
	name  string
	model any
}{
	{"users", &models.User{}},
	{"profiles", &models.Profile{}},
	{"refresh_tokens", &models.RefreshToken{}},
	{"uploads", &models.Upload{}},
	{"feed_posts", &models.FeedPost{}},
	{"feed_comments", &models.FeedComment{}},
	{"post_likes", &models.PostLike{}},
	{"post_media", &models.PostMedia{}},
	{"scorecards", &models.Scorecard{}},
	{"scorecard_tees", &models.ScorecardTee{}},
	{"scorecard_players", &models.ScorecardPlayer{}},
	{"scorecard_holes", &models.ScorecardHole{}},
}

func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true). Any permission errors will be logged and ignored.
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	// Ensure the roles master table exists first and seed it so users FK can be applied safely.
	if shouldMigrate {
		if err := db.AutoMigrate(&models.Role{}); err != nil {
			log.Printf("migration warning (roles): %v", err)
		}
	}
	seedRoles()

	// Now migrate the rest (users will get FK to roles)
	if shouldMigrate {
		// Migrate models individually so a failure on one doesn't block others
		for _, m := range migrationModels {
			if err := db.AutoMigrate(m.model); err != nil {
				log.Printf("migration warning (%s): %v", m.name, err)
			}
		}
	}

	seedDB()
}

func seedRoles() {
	roles := []models.Role{{Name: "administrator", Description: "full access"}, {Name: "member", Description: "regular member"}}
	for _, r := range roles {
		var cnt int64
		db.Model(&models.Role{}).Where("name = ?", r.Name).Count(&cnt)
		if cnt == 0 {
			db.Create(&r)
		}
	}
}

func seedDB() {
	seedRoles()

	// Check if admin user exists
	var count int64
	db.Model(&models.User{}).Where("email = ?", "admin@goltrip.local").Count(&count)
	if count == 0 {
		var role models.Role
		if err := db.Where("name = ?", "administrator").First(&role).Error; err != nil {
			log.Printf("failed to find administrator role: %v", err)
		}
		rid := role.ID
		admin := models.User{
			Email:  "admin@goltrip.local",
			RoleID: &rid,
		}
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		admin.HashedPassword = hashedPassword
		db.Create(&admin)
		log.Println("Seeded admin user: email=admin@goltrip.local, password=admin123")
	}
	// Ensure admin has a one-to-one profile
	var admin models.User
	if err := db.Where("email = ?", "admin@goltrip.local").First(&admin).Error; err != nil {
		log.Printf("failed to find admin user after seeding: %v", err)
		return
	}
	var pcount int64
	db.Model(&models.Profile{}).Where("user_id = ?", admin.ID).Count(&pcount)
	if pcount == 0 {
		profile := models.Profile{UserID: admin.ID, FirstName: "Administrator"}
		if err := db.Create(&profile).Error; err != nil {
			log.Printf("failed to create profile for admin: %v", err)
		} else {
			log.Println("Seeded admin profile for user id:", admin.ID)
		}
	}
	// Ensure media directory exists
	ensureUploadBase()
}

// ensureUploadBase creates the base media directory.
func ensureUploadBase() {
	base := uploadBaseDir()
	if err := os.MkdirAll(base, 0755); err != nil {
		log.Printf("failed to create upload base dir %s: %v", base, err)
	}
}

// uploadBaseDir returns the base directory for stored media (configurable via UPLOAD_BASE env)
func uploadBaseDir() string {
	if v := os.Getenv("UPLOAD_BASE"); v != "" {
		return v
	}
	return "media"
}

// publicURL maps a store path (relative to the media base) to the URL the
// blob is served at after upload.
func publicURL(storePath string) string {
	return "/media/" + storePath
}
