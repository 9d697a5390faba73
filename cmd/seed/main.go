// Package main provides a tool to seed the database with sample timetable
// records for local development.
//
// Usage:
//
//	DATA_PATH=~/CampusGrid/data go run ./cmd/seed
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/campusgrid/timetable-server/internal/service"
	"github.com/campusgrid/timetable-server/internal/store/sqlite"
)

var generations = flag.Int("generations", 2, "How many generations to create per branch/division")

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/CampusGrid/data")
	}
	if err := os.MkdirAll(dataPath, 0o750); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataPath, "timetable.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	st, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	svc := service.NewTimetableService(st, logger)
	ctx := context.Background()

	type class struct {
		branch   string
		division string
	}
	classes := []class{
		{"CSE", "A"},
		{"CSE", "B"},
		{"ECE", "A"},
	}

	base := time.Now().UTC().Add(-time.Duration(*generations) * 24 * time.Hour)
	total := 0
	for _, c := range classes {
		for gen := 0; gen < *generations; gen++ {
			filename := fmt.Sprintf("%s_%s_v%d.json", c.branch, c.division, gen+1)
			req := sampleRecord(filename, c.branch, c.division)
			req.GeneratedAt = base.Add(time.Duration(gen) * 24 * time.Hour)

			if _, err := svc.ImportRecord(ctx, req); err != nil {
				log.Fatalf("Failed to import %s: %v", filename, err)
			}
			total++
		}
	}

	fmt.Printf("Seeded %d records\n", total)
}

// sampleRecord builds a raw record the way generated timetable exports look:
// day cells carry the "**" emphasis marker and lunch rows use the ALL/LUNCH
// sentinels.
func sampleRecord(filename, branch, division string) service.ImportRecordRequest {
	return service.ImportRecordRequest{
		Filename: filename,
		Branch:   branch,
		Division: division,
		Year:     "2026",
		Headers:  []string{"Day", "Time", "Class/Batch", "Course Name", "Faculty", "Venue"},
		Rows: [][]string{
			{"**Monday**", "9:00-10:00", division + "1", "Data Structures", "Dr. Rao", "Room 101"},
			{"**Monday**", "10:00-11:00", division + "2", "Discrete Mathematics", "Dr. Menon", "Room 102"},
			{"ALL", "12:00-1:00", "", "LUNCH", "", ""},
			{"**Tuesday**", "9:00-10:00", division + "1", "Computer Networks", "Dr. Pillai", "Room 201"},
			{"**Tuesday**", "2:00-3:00", division + "1", "Computer Networks Lab", "Dr. Pillai", "Lab 2"},
			{"**Wednesday**", "11:00-12:00", division + "2", "Operating Systems", "Dr. Iyer", "Room 103"},
			{"**Thursday**", "1:00-2:00", division + "1", "Database Systems", "Dr. Nair", "Room 104"},
			{"**Friday**", "3:00-4:00", division + "2", "Software Engineering", "Dr. Das", "Room 105"},
			{"**Friday**", "4:00-5:00", "", "", "", ""},
		},
	}
}
