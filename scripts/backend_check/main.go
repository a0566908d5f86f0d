package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/noah-isme/sma-adp-admin/internal/models"
	"github.com/noah-isme/sma-adp-admin/internal/repository"
	"github.com/noah-isme/sma-adp-admin/pkg/config"
)

type probe struct {
	Kind     models.Kind
	Count    int
	Invalid  int
	Duration time.Duration
	Error    error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var (
		base        string
		teacherPath string
		studentPath string
		timeout     time.Duration
	)

	flag.StringVar(&base, "backend", cfg.Backend.BaseURL, "Record backend base URL")
	flag.StringVar(&teacherPath, "teacher-path", cfg.Backend.TeacherPath, "Teacher collection path")
	flag.StringVar(&studentPath, "student-path", cfg.Backend.StudentPath, "Student collection path")
	flag.DurationVar(&timeout, "timeout", cfg.Backend.Timeout, "HTTP client timeout")
	flag.Parse()

	client := repository.NewBackendClient(base, timeout)
	kinds := []models.Kind{models.TeacherKind(teacherPath), models.StudentKind(studentPath)}

	var (
		probes  []probe
		failing int
	)
	for _, kind := range kinds {
		p := probeKind(repository.NewRecordRepository(client, kind, nil, nil), kind)
		if p.Error != nil {
			failing++
		}
		probes = append(probes, p)
	}

	printReport(base, probes)

	fmt.Printf("Failing collections: %d\n", failing)
	if failing > 0 {
		os.Exit(1)
	}
}

func probeKind(repo *repository.RecordRepository, kind models.Kind) probe {
	p := probe{Kind: kind}
	start := time.Now()
	records, err := repo.List(context.Background())
	p.Duration = time.Since(start)
	if err != nil {
		p.Error = err
		return p
	}
	p.Count = len(records)
	for _, r := range records {
		if !r.Persisted() || r.FirstName == "" || r.LastName == "" || !kind.AllowsCategory(r.Category) {
			p.Invalid++
		}
	}
	return p
}

func printReport(base string, results []probe) {
	fmt.Println("Backend Check Report")
	fmt.Println("====================")
	fmt.Printf("Backend: %s\n", base)
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if res.Invalid > 0 {
			status = "WARN"
		}
		fmt.Printf("[%s] GET %s (%s)\n", status, res.Kind.CollectionPath, res.Duration)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  %s: %d | incomplete or unknown %s: %d\n", res.Kind.Plural, res.Count, res.Kind.CategoryField, res.Invalid)
	}
}
