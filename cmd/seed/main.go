package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"estateportal/internal/config"
	"estateportal/internal/database"
	"estateportal/internal/domain/auth"
	"estateportal/internal/domain/content"
	"estateportal/internal/domain/document"
	"estateportal/internal/domain/image"
	"estateportal/internal/domain/property"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&auth.User{},
		&property.Property{},
		&image.PropertyImage{},
		&document.PropertyDocument{},
		&content.Page{},
		&content.Section{},
		&content.ServiceItem{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (child tables first to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM property_images")
	db.Exec("DELETE FROM property_documents")
	db.Exec("DELETE FROM properties")
	db.Exec("DELETE FROM sections")
	db.Exec("DELETE FROM pages")
	db.Exec("DELETE FROM service_items")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, err := auth.HashPassword("admin123")
	if err != nil {
		log.Fatal("password hash failed:", err)
	}
	admin := auth.User{
		Email:        "admin@estateportal.bg",
		PasswordHash: adminHash,
		Role:         auth.RoleAdmin,
		Name:         "Administrator",
	}
	db.Create(&admin)
	log.Println("Admin created: admin@estateportal.bg / admin123")

	editorHash, err := auth.HashPassword("editor123")
	if err != nil {
		log.Fatal("password hash failed:", err)
	}
	editor := auth.User{
		Email:        "editor@estateportal.bg",
		PasswordHash: editorHash,
		Role:         auth.RoleEditor,
		Name:         "Content Editor",
	}
	db.Create(&editor)
	log.Println("Editor created: editor@estateportal.bg / editor123")

	// ================== PROPERTIES ==================
	log.Println("Creating properties...")

	floorThree := 3
	floorFive := 5
	properties := []property.Property{
		{
			Code:            "AP-1001",
			Title:           "Two-bedroom apartment in Lozenets",
			Description:     "Bright south-facing apartment close to the park, with a renovated kitchen and a garage spot.",
			Price:           189000,
			Currency:        property.CurrencyEUR,
			TransactionType: property.TransactionSale,
			PropertyType:    "apartment",
			CityRegion:      "Sofia",
			District:        "Lozenets",
			Address:         "12 Krichim St",
			Area:            96,
			Bedrooms:        2,
			Bathrooms:       1,
			FloorNumber:     &floorThree,
			HasParking:      true,
			HasElevator:     true,
			HasHeating:      true,
			Featured:        true,
			Active:          true,
			SortOrder:       1,
		},
		{
			Code:            "AP-1002",
			Title:           "Studio near the Medical University",
			Description:     "Compact furnished studio, ideal for rental investment.",
			Price:           78000,
			Currency:        property.CurrencyEUR,
			TransactionType: property.TransactionSale,
			PropertyType:    "studio",
			CityRegion:      "Plovdiv",
			District:        "Center",
			Area:            38,
			Bedrooms:        0,
			Bathrooms:       1,
			FloorNumber:     &floorFive,
			HasElevator:     true,
			Furnished:       true,
			HasAC:           true,
			Active:          true,
			SortOrder:       2,
		},
		{
			Code:            "HS-2001",
			Title:           "House with garden in Boyana",
			Description:     "Three-floor family house with a landscaped garden and mountain view.",
			Price:           465000,
			Currency:        property.CurrencyEUR,
			TransactionType: property.TransactionSale,
			PropertyType:    "house",
			CityRegion:      "Sofia",
			District:        "Boyana",
			Area:            280,
			Bedrooms:        4,
			Bathrooms:       3,
			Floors:          3,
			HasParking:      true,
			HasGarden:       true,
			HasHeating:      true,
			Featured:        true,
			Active:          true,
			SortOrder:       3,
		},
		{
			Code:            "OF-3001",
			Title:           "Office floor on Tsarigradsko Shose",
			Description:     "Open-plan office space in a class A building, available immediately.",
			Price:           4200,
			Currency:        property.CurrencyEUR,
			TransactionType: property.TransactionRent,
			PropertyType:    "office",
			CityRegion:      "Sofia",
			District:        "7th Kilometer",
			Area:            340,
			HasParking:      true,
			HasElevator:     true,
			HasAC:           true,
			Active:          true,
			SortOrder:       4,
		},
		{
			Code:            "PL-4001",
			Title:           "Regulated plot near Varna",
			Description:     "Plot with building permit for a single-family house, 15 minutes from the beach.",
			Price:           95000,
			Currency:        property.CurrencyEUR,
			TransactionType: property.TransactionSale,
			PropertyType:    "plot",
			CityRegion:      "Varna",
			Area:            820,
			Active:          true,
			SortOrder:       5,
		},
		{
			Code:            "AP-1003",
			Title:           "Maisonette under construction (draft)",
			Description:     "Top-floor maisonette, act 14. Listing pending photos.",
			Price:           240000,
			Currency:        property.CurrencyEUR,
			TransactionType: property.TransactionSale,
			PropertyType:    "maisonette",
			CityRegion:      "Sofia",
			District:        "Manastirski Livadi",
			Area:            142,
			Bedrooms:        3,
			Bathrooms:       2,
			Active:          false,
			SortOrder:       6,
		},
	}

	for i := range properties {
		if err := db.Create(&properties[i]).Error; err != nil {
			log.Fatalf("failed to seed property %s: %v", properties[i].Code, err)
		}
	}
	log.Printf("Created %d properties", len(properties))

	// ================== CONTENT ==================
	log.Println("Creating content...")

	about := content.Page{
		Slug:      "about",
		Title:     "About us",
		Body:      "We have been connecting buyers and sellers across Bulgaria since 2009.",
		Published: true,
	}
	db.Create(&about)
	db.Create(&content.Section{PageID: about.ID, Title: "Our team", Body: "Fifteen licensed agents in three cities.", SortOrder: 1})
	db.Create(&content.Section{PageID: about.ID, Title: "Our offices", Body: "Sofia, Plovdiv and Varna.", SortOrder: 2})

	db.Create(&content.Page{
		Slug:      "buyers-guide",
		Title:     "Buyer's guide",
		Body:      "Draft of the step-by-step purchase guide.",
		Published: false,
	})

	services := []content.ServiceItem{
		{Title: "Property valuation", Description: "Market valuation within 48 hours.", Icon: "chart", SortOrder: 1, Active: true},
		{Title: "Property management", Description: "Full rental management for absentee owners.", Icon: "key", SortOrder: 2, Active: true},
		{Title: "Legal assistance", Description: "Contract review and escrow handling.", Icon: "scale", SortOrder: 3, Active: true},
	}
	for i := range services {
		db.Create(&services[i])
	}

	fmt.Println()
	log.Println("Seed completed.")
}
