package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"estateportal/internal/config"
	"estateportal/internal/database"
	"estateportal/internal/domain/image"
)

// Scans the image store for metadata/file drift and optionally repairs it.
// Run with -repair to delete orphaned rows and rows whose file is gone;
// main-flag problems are only reported, never fixed automatically.
func main() {
	repair := flag.Bool("repair", false, "delete orphaned and file-less image records")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	svc := image.NewService(image.NewRepository(db), nil, cfg.UploadDir)
	ctx := context.Background()

	if *repair {
		report, result, err := svc.Repair(ctx)
		if err != nil {
			log.Fatalf("repair failed: %v", err)
		}
		log.Printf("repair completed: orphaned_removed=%d missing_file_removed=%d multi_main=%d no_main=%d",
			result.OrphanedRemoved, result.MissingFileRemoved, len(report.MultiMain), len(report.NoMain))
		if len(report.MultiMain) > 0 || len(report.NoMain) > 0 {
			log.Printf("main-flag problems need manual attention: multi_main=%v no_main=%v",
				report.MultiMain, report.NoMain)
		}
		return
	}

	report, err := svc.Scan(ctx)
	if err != nil {
		log.Fatalf("scan failed: %v", err)
	}
	if report.Clean() {
		log.Println("image store is consistent")
		return
	}
	log.Printf("scan found problems: orphaned=%d missing_file=%d multi_main=%v no_main=%v",
		len(report.Orphaned), len(report.MissingFile), report.MultiMain, report.NoMain)
	log.Println("run with -repair to delete orphaned and file-less records")
}
