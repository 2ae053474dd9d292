package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"jobboard-backend/internal/config"
	"jobboard-backend/internal/db"
	"jobboard-backend/internal/models"
	"jobboard-backend/internal/repositories"
	"jobboard-backend/internal/timeutil"
)

// Dev helper: wipes activity_logs and optionally seeds sample entries
// spread across the last 30 KST days.
func main() {
	configPath := flag.String("config", "", "Path to config file")
	seed := flag.Int("seed", 0, "Number of sample entries to insert after the reset")
	yes := flag.Bool("yes", false, "Skip the confirmation prompt")
	flag.Parse()

	fmt.Println("========================================")
	fmt.Println("   Reset Activity Logs")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("WARNING: this deletes every row in activity_logs.")
	fmt.Println()

	if !*yes {
		fmt.Print("Type 'yes' to confirm: ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" {
			fmt.Println("Reset cancelled.")
			return
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, "TRUNCATE TABLE activity_logs"); err != nil {
		log.Fatalf("Failed to truncate activity_logs: %v\n", err)
	}
	fmt.Println("  ✓ Cleared activity_logs")

	if *seed <= 0 {
		return
	}

	repo := repositories.NewActivityLogRepository(pool)
	now := timeutil.Now()
	admin := "admin@example.com"
	for i := 0; i < *seed; i++ {
		req := sampleEntry(i, now, admin)
		if _, err := repo.Create(ctx, req); err != nil {
			log.Fatalf("Failed to insert sample entry %d: %v\n", i, err)
		}
	}
	fmt.Printf("  ✓ Inserted %d sample entries\n", *seed)
}

func sampleEntry(i int, now time.Time, admin string) *models.CreateLogRequest {
	logType := models.LogTypes[i%len(models.LogTypes)]
	at := models.TimestampOf(now.Add(-time.Duration(i) * 7 * time.Hour))
	desc := fmt.Sprintf("sample %s entry #%d", logType, i+1)

	req := &models.CreateLogRequest{
		Type:        logType,
		Action:      fmt.Sprintf("sample_%s", logType),
		Description: &desc,
		Timestamp:   &at,
	}
	if logType != models.LogTypeSystem {
		req.AdminEmail = &admin
	}
	if logType == models.LogTypeContentChange {
		id := fmt.Sprintf("job-%04d", i)
		req.ContentID = &id
		req.Changes = map[string]any{"status": map[string]any{"from": "draft", "to": "published"}}
	}
	return req
}
