// One-shot runner: loads the three sources, runs the full analysis once
// and prints the report bundle as JSON to stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"crashlens/adapters/tabular"
	"crashlens/app"
	"crashlens/internal/observability"
	"crashlens/internal/report"
)

func main() {
	primary := flag.String("primary", "data/accidents.csv", "primary accident table (csv or xlsx)")
	supplemental := flag.String("supplemental", "data/supplemental.csv", "supplemental accident table (csv or xlsx)")
	authority := flag.String("authority", "data/authorities.csv", "authority reference table")
	markdown := flag.Bool("markdown", false, "print the insights report instead of JSON")
	flag.Parse()

	_ = godotenv.Load()

	service := app.NewAnalysisService(
		tabular.NewDataReader(*primary),
		tabular.NewDataReader(*supplemental),
		tabular.NewDataReader(*authority),
		observability.NewMetrics(),
		nil,
	)

	rep, err := service.Run(context.Background())
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	if *markdown {
		fmt.Print(report.Generate(rep))
		return
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rep); err != nil {
		log.Fatalf("Failed to encode report: %v", err)
	}
}
