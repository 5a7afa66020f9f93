package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/statement-parser/internal/config"
	"github.com/dvloznov/statement-parser/internal/export"
	"github.com/dvloznov/statement-parser/internal/extractor"
	"github.com/dvloznov/statement-parser/internal/logger"
	"github.com/dvloznov/statement-parser/internal/pipeline"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "parse":
		runParse(log)
	case "extract":
		runExtract(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Statement Parser CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  parse     Parse a credit card statement PDF into structured data")
	fmt.Println("  extract   Extract raw text and tables from a PDF (no model call)")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runParse(log zerolog.Logger) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	filePath := fs.String("file", "", "Path to the statement PDF")
	jsonPath := fs.String("json", "", "Write the normalized statement JSON to this path")
	csvPath := fs.String("csv", "", "Write the transactions CSV to this path")
	fs.Parse(os.Args[2:])

	if *filePath == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	parser, err := pipeline.NewGeminiParser(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Configuration required")
	}

	pdfBytes, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatal().Err(err).Str("file", *filePath).Msg("Failed to read PDF")
	}

	log.Info().Str("file", *filePath).Str("model", cfg.GeminiModel).Msg("Parsing statement")

	result, doc, err := pipeline.ParseStatementPDF(ctx, parser, pdfBytes)
	if err != nil {
		log.Fatal().Err(err).Msg("Parsing failed")
	}

	printSummary(result, doc)

	if *jsonPath != "" {
		out, err := export.MarshalStatementJSON(result.Data)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to marshal statement JSON")
		}
		if err := os.WriteFile(*jsonPath, out, 0o644); err != nil {
			log.Fatal().Err(err).Str("path", *jsonPath).Msg("Failed to write JSON")
		}
		fmt.Printf("Wrote JSON to %s\n", *jsonPath)
	}

	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *csvPath).Msg("Failed to create CSV file")
		}
		transactions, _ := result.Data[pipeline.FieldTransactions].([]interface{})
		if err := export.WriteTransactionsCSV(f, transactions); err != nil {
			f.Close()
			log.Fatal().Err(err).Msg("Failed to write CSV")
		}
		if err := f.Close(); err != nil {
			log.Fatal().Err(err).Msg("Failed to close CSV file")
		}
		fmt.Printf("Wrote CSV to %s\n", *csvPath)
	}
}

func runExtract(log zerolog.Logger) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	filePath := fs.String("file", "", "Path to the PDF")
	fs.Parse(os.Args[2:])

	if *filePath == "" {
		log.Fatal().Msg("Error: --file is required")
	}

	pdfBytes, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatal().Err(err).Str("file", *filePath).Msg("Failed to read PDF")
	}

	doc, err := extractor.Extract(pdfBytes)
	if err != nil {
		log.Fatal().Err(err).Msg("Extraction failed")
	}

	fmt.Printf("=== Pages: %d, Tables: %d ===\n\n", doc.PageCount, len(doc.Tables))
	fmt.Println(doc.FullText)

	for i, table := range doc.Tables {
		fmt.Printf("\n=== Table %d (page %d, %d rows) ===\n", i+1, table.Page, len(table.Rows))
		for _, row := range table.Rows {
			fmt.Println(row)
		}
	}
}

func printSummary(result *pipeline.ValidationResult, doc *extractor.ExtractedDocument) {
	fmt.Println("\n=== Statement ===")
	printField(result.Data, pipeline.FieldCardIssuer, "Issuer")
	printField(result.Data, pipeline.FieldCardVariant, "Variant")
	printField(result.Data, pipeline.FieldCardLast4, "Card")
	printField(result.Data, pipeline.FieldBillingCycleStart, "Cycle start")
	printField(result.Data, pipeline.FieldBillingCycleEnd, "Cycle end")
	printField(result.Data, pipeline.FieldPaymentDueDate, "Due date")
	printField(result.Data, pipeline.FieldTotalBalance, "Total balance")
	printField(result.Data, pipeline.FieldMinimumPayment, "Minimum payment")
	printField(result.Data, pipeline.FieldCreditLimit, "Credit limit")
	fmt.Printf("Pages:           %d\n", doc.PageCount)

	transactions, _ := result.Data[pipeline.FieldTransactions].([]interface{})
	stats := export.ComputeStats(transactions)

	fmt.Printf("\n=== Transactions (%d) ===\n", stats.Count)
	for i, raw := range transactions {
		txn, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		fmt.Printf("%3d. %v", i+1, txn[pipeline.FieldTxnDescription])
		if date, ok := txn[pipeline.FieldTxnDate]; ok {
			fmt.Printf("  (%v)", date)
		}
		if amount, ok := txn[pipeline.FieldTxnAmount].(float64); ok {
			fmt.Printf("  %.2f", amount)
		}
		fmt.Println()
	}

	if stats.Count > 0 {
		fmt.Printf("\nTotal spent:   %.2f\n", stats.TotalSpent)
		fmt.Printf("Total credits: %.2f\n", stats.TotalCredits)
		fmt.Printf("Average:       %.2f\n", stats.AvgTransaction)
	}

	if len(result.Warnings) > 0 {
		fmt.Printf("\n=== Warnings (%d) ===\n", len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
	fmt.Println()
}

func printField(data map[string]interface{}, key, label string) {
	if v, ok := data[key]; ok && v != nil {
		fmt.Printf("%-16s %v\n", label+":", v)
	}
}
