// Package main provides a performance benchmarking tool for the typegate CLI.
// It measures parse and diff times across synthetic checker outputs of
// different sizes, running each test multiple times, treating the first run
// as cold and averaging the rest as warm, generating CSV output for
// performance analysis and documentation.
//
// Prerequisites:
// - typegate binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where synthetic inputs and reports are generated
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Scenario string
	Command  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir   string
	Timeout   time.Duration
	Runs      int
	Scenarios map[string]int // Scenario name to number of diagnostic lines
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir: os.Args[1],
		Timeout: 2 * time.Minute,
		Runs:    5,
		Scenarios: map[string]int{
			"small":  1_000,
			"medium": 50_000,
			"large":  500_000,
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the typegate binary and work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("typegate"); err != nil {
		return fmt.Errorf("typegate binary not found in PATH")
	}
	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work directory %s: %w", config.WorkDir, err)
	}
	return nil
}

// runBenchmarks executes parse and diff benchmarks for every scenario
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d scenarios, %v timeout, %d runs each\n",
		len(config.Scenarios), config.Timeout, config.Runs)

	for _, scenario := range []string{"small", "medium", "large"} {
		lines := config.Scenarios[scenario]
		fmt.Printf("Benchmarking %s (%d diagnostic lines)\n", scenario, lines)

		inputPath, oldReport, newReport, err := generateInputs(config.WorkDir, scenario, lines)
		if err != nil {
			fmt.Printf("  Failed to generate inputs: %v\n", err)
			continue
		}

		results = append(results, runBenchmarkSuite(config, scenario, "parse", inputPath, ""))
		results = append(results, runBenchmarkSuite(config, scenario, "diff", oldReport, newReport))
	}

	return results
}

// generateInputs writes a synthetic checker output file plus two drifted
// reports derived from it, and returns their paths.
func generateInputs(workDir, scenario string, lines int) (inputPath, oldReport, newReport string, err error) {
	rng := rand.New(rand.NewSource(42))
	messages := []string{
		"Incompatible types in assignment",
		"Missing return statement",
		`Argument 1 to "run" has incompatible type "int"`,
		`Unsupported operand types for + ("int" and "str")`,
		`Name "config" is not defined`,
	}

	var raw strings.Builder
	for i := 0; i < lines; i++ {
		file := fmt.Sprintf("pkg%d/module%d.py", rng.Intn(50), rng.Intn(200))
		msg := messages[rng.Intn(len(messages))]
		fmt.Fprintf(&raw, "%s:%d: error: %s\n", file, rng.Intn(2000)+1, msg)
	}

	inputPath = filepath.Join(workDir, scenario+"_input.txt")
	if err = os.WriteFile(inputPath, []byte(raw.String()), 0o644); err != nil {
		return
	}

	oldReport = filepath.Join(workDir, scenario+"_old.json")
	if err = runToFile("typegate", []string{"parse", inputPath}, oldReport); err != nil {
		return
	}

	// Drift the input slightly so diff has real work to do
	drifted := raw.String() + "pkg0/module0.py:1: error: Missing return statement\n"
	driftedPath := filepath.Join(workDir, scenario+"_drifted.txt")
	if err = os.WriteFile(driftedPath, []byte(drifted), 0o644); err != nil {
		return
	}
	newReport = filepath.Join(workDir, scenario+"_new.json")
	err = runToFile("typegate", []string{"parse", driftedPath}, newReport)
	return
}

// runToFile runs a command and writes its stdout to a file.
func runToFile(name string, args []string, outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()
	cmd := exec.Command(name, args...)
	cmd.Stdout = out
	return cmd.Run()
}

// runBenchmarkSuite runs all timed iterations for one command and scenario
func runBenchmarkSuite(config BenchmarkConfig, scenario, command, arg1, arg2 string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, scenario)

	var args []string
	switch command {
	case "parse":
		args = []string{"parse", arg1, "--snapshot-backend", "none"}
	case "diff":
		args = []string{"diff", arg1, arg2, "--fail-on", "none", "--snapshot-backend", "none"}
	}

	coldTime, warmTimes := runBenchmark(config, args)

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	warmAvg := "TIMEOUT"
	if len(warmTimes) > 0 {
		var sum float64
		for _, t := range warmTimes {
			sum += t
		}
		warmAvg = fmt.Sprintf("%.3fs", sum/float64(len(warmTimes)))
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldTimeStr, warmAvg)

	return BenchmarkResult{
		Scenario: scenario,
		Command:  command,
		ColdTime: coldTimeStr,
		WarmTime: warmAvg,
	}
}

// runBenchmark executes a typegate command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, args []string) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("typegate", args...)
		cmd.Stdout = nil

		done := make(chan bool)
		var cmdErr error

		go func() {
			cmdErr = cmd.Run()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes the benchmark results to a CSV file
func saveResults(results []BenchmarkResult) error {
	file, err := os.Create("benchmark_results.csv")
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"scenario", "command", "cold_time", "warm_time"}); err != nil {
		return err
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Scenario, r.Command, r.ColdTime, r.WarmTime}); err != nil {
			return err
		}
	}
	return nil
}

// printSummary prints a human-readable summary of all results
func printSummary(results []BenchmarkResult) {
	fmt.Println("\nBenchmark summary:")
	for _, r := range results {
		fmt.Printf("  %-8s %-6s cold=%s warm=%s\n", r.Scenario, r.Command, r.ColdTime, r.WarmTime)
	}
	fmt.Println("Results written to benchmark_results.csv")
}
