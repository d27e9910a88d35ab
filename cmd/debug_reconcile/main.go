package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"country-pipeline/core/config"
	"country-pipeline/feature/countries"

	"go.uber.org/zap"
)

// Prints how every country was joined. Arguments restrict the output to
// the given cca3 codes.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}
	cfg.Normalize()

	svc, err := countries.NewService(cfg.Countries, cfg.SQL, cfg.Storage, nil, zap.NewNop())
	if err != nil {
		log.Fatal(err)
	}

	result, err := svc.LoadAndReconcile(context.Background(), cfg.Countries.APISnapshotPath(), cfg.Countries.WebSnapshotPath())
	if err != nil {
		log.Fatal(err)
	}

	only := make(map[string]bool, len(os.Args)-1)
	for _, a := range os.Args[1:] {
		only[a] = true
	}

	fmt.Println("=== Join trace ===")
	for _, r := range result.Records {
		cca3 := deref(r.CCA3)
		if len(only) > 0 && !only[cca3] {
			continue
		}
		fmt.Printf("%-4s %-9s name=%q capital=%q web=%s\n",
			cca3, r.Match, deref(r.NameCommon), r.CapitalText(), quoteOrNull(r.CapitalFromWeb))
	}

	s := result.Summary
	fmt.Println("\n=== Summary ===")
	fmt.Printf("total=%d primary=%d fallback=%d unmatched=%d\n", s.Total, s.Primary, s.Fallback, s.Unmatched)
	fmt.Printf("api skipped=%d coerced=%d web skipped=%d coerced=%d duplicates=%v\n",
		result.APIReport.Skipped, result.APIReport.Coerced, result.WebReport.Skipped, result.WebReport.Coerced, result.Duplicates)

	if len(s.Ambiguities) > 0 {
		fmt.Println("\n=== Ambiguous keys (first row wins) ===")
		for _, a := range s.Ambiguities {
			fmt.Printf("%-9s %q candidates=%d\n", a.Strategy, a.Key, a.Candidates)
		}
	}

	if s.Unmatched > 0 {
		os.Exit(2)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func quoteOrNull(s *string) string {
	if s == nil {
		return "NULL"
	}
	return fmt.Sprintf("%q", *s)
}
