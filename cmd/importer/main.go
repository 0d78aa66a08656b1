package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"linkedin-importer/internal/browser"
	"linkedin-importer/internal/config"
	"linkedin-importer/internal/crawler"
	"linkedin-importer/internal/database"
	"linkedin-importer/internal/jobs"
	"linkedin-importer/internal/logging"
	"linkedin-importer/internal/orchestrator"
	"linkedin-importer/internal/storage"
	"linkedin-importer/internal/utils"
)

func main() {
	var (
		userID = flag.Int64("user-id", 0, "Account id to attach the profile to (created from --email when 0)")
		email  = flag.String("email", "", "Account email (used when --user-id is not given)")
		rawURL = flag.String("url", "", "LinkedIn profile URL to import")
	)
	flag.Parse()

	if *rawURL == "" || (*userID == 0 && *email == "") {
		log.Fatal("usage: --url <profile url> and one of --user-id / --email")
	}

	cfg := config.Load()
	logger := logging.NewLogger(cfg.LogLevel)

	db, err := database.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	id := *userID
	if id == 0 {
		users := database.NewUserRepository(db)
		id, err = users.Create(*email)
		if err != nil {
			log.Fatalf("creating user: %v", err)
		}
		fmt.Printf("Created user %d for %s\n", id, *email)
	}

	orch := orchestrator.New(
		browser.New(cfg, logger),
		crawler.New(cfg, logger),
		storage.NewProfileStore(db),
		logger,
	)
	runner := jobs.NewRunner(orch, jobs.NewMemoryStore(), cfg.MaxJobs, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	utils.SetupSignalHandling(cancel)

	startTime := time.Now()
	jobID := runner.Submit(ctx, id, *rawURL)
	fmt.Printf("Submitted scrape job %s\n", jobID)

	runner.Wait()
	duration := time.Since(startTime)

	status, ok := runner.Status(jobID)
	if !ok || status.Outcome == nil {
		log.Fatal("job finished without an outcome")
	}

	if !status.Outcome.Success {
		fmt.Fprintf(os.Stderr, "Import failed after %s:\n%s\n", utils.FormatDuration(duration), status.Outcome.Error)
		os.Exit(1)
	}

	data := status.Outcome.Data
	fmt.Printf("Imported profile for user %d in %s\n", id, utils.FormatDuration(duration))
	fmt.Printf("  Name:     %s\n", data.FullName)
	fmt.Printf("  Headline: %s\n", data.Headline)
	fmt.Printf("  Position: %s @ %s\n", data.CurrentPosition, data.Company)
	fmt.Printf("  Location: %s\n", data.Location)
	fmt.Printf("  Skills:   %d, Experience: %d\n", len(data.Skills), len(data.Experience))
}
