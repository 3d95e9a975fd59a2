package main

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"canopy/internal/config"
	"canopy/internal/db"
	"canopy/internal/model"
)

var speciesCatalogue = []model.TreeSpecies{
	{Name: "Oak", TimberYielding: true},
	{Name: "Teak", TimberYielding: true},
	{Name: "Mahogany", TimberYielding: true},
	{Name: "Neem", TimberYielding: false},
	{Name: "Banyan", TimberYielding: false},
	{Name: "Mango", TimberYielding: false},
	{Name: "Pine", TimberYielding: true},
	{Name: "Eucalyptus", TimberYielding: true},
	{Name: "Maple", TimberYielding: false},
	{Name: "Willow", TimberYielding: false},
	{Name: "Peepal", TimberYielding: false},
	{Name: "Gulmohar", TimberYielding: false},
}

var plantingReasons = []model.PlantingReason{
	{Reason: "Reforestation"},
	{Reason: "Urban greening"},
	{Reason: "Memorial"},
	{Reason: "Fruit production"},
	{Reason: "Shade and shelter"},
	{Reason: "Community event"},
}

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.TreeSpecies{},
		&model.PlantingReason{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	if err := seedRoles(gormDB); err != nil {
		log.Fatalf("Failed to seed roles: %v", err)
	}
	if err := seedSpecies(gormDB); err != nil {
		log.Fatalf("Failed to seed species: %v", err)
	}
	if err := seedReasons(gormDB); err != nil {
		log.Fatalf("Failed to seed planting reasons: %v", err)
	}
	if err := seedAdmin(gormDB); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	log.Println("Seed completed successfully!")
}

// seedRoles inserts the three fixed roles with their well-known IDs.
func seedRoles(gormDB *gorm.DB) error {
	roles := []model.Role{
		{ID: model.RoleIDAdmin, Name: model.RoleAdmin},
		{ID: model.RoleIDEnvironmentalist, Name: model.RoleEnvironmentalist},
		{ID: model.RoleIDUser, Name: model.RoleUser},
	}
	for _, role := range roles {
		var existing model.Role
		err := gormDB.First(&existing, role.ID).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := gormDB.Create(&role).Error; err != nil {
			return err
		}
		log.Printf("  - Created role %s", role.Name)
	}
	return nil
}

func seedSpecies(gormDB *gorm.DB) error {
	created := 0
	for _, species := range speciesCatalogue {
		var existing model.TreeSpecies
		err := gormDB.Where("name = ?", species.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := gormDB.Create(&species).Error; err != nil {
			return err
		}
		created++
	}
	log.Printf("  - New species created: %d", created)
	return nil
}

func seedReasons(gormDB *gorm.DB) error {
	created := 0
	for _, reason := range plantingReasons {
		var existing model.PlantingReason
		err := gormDB.Where("reason = ?", reason.Reason).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := gormDB.Create(&reason).Error; err != nil {
			return err
		}
		created++
	}
	log.Printf("  - New planting reasons created: %d", created)
	return nil
}

// seedAdmin creates the initial administrator account. Credentials come from
// ADMIN_EMAIL and ADMIN_PASSWORD, with development defaults.
func seedAdmin(gormDB *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@canopy.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin12345"
	}

	var existing model.User
	err := gormDB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Printf("  - Admin user %s already exists", email)
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Canopy",
		LastName:     "Admin",
		RoleID:       model.RoleIDAdmin,
	}
	if err := gormDB.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("  - Created admin user %s", email)
	return nil
}
