package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"

	"ward-lab/domain"
	"ward-lab/infrastructure/search"
	"ward-lab/infrastructure/sidecar"
	"ward-lab/internal"
	"ward-lab/retrieval"
	"ward-lab/runtime"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and centralizes error reporting, so
// that defers (database cleanup) execute before the process exits and
// the wiring stays testable apart from the entry point.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Request (file argument or stdin)
	req, err := readRequest(os.Args[1:])
	if err != nil {
		return err
	}
	if err = sniffInputs(log, req); err != nil {
		return err
	}

	// 3. Evidence store (BadgerDB, read-only: the indexer owns writes)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("evidence store opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	engine := search.NewEngine(config.BlugeFilepath, db, log)

	// 4. Collaborators: the reasoner is mandatory, ASR and vision are
	// wired only when a command is configured.
	reasoner := &sidecar.Reasoner{
		Cmd: sidecar.Command{BinPath: config.ReasonerCmd, Timeout: config.ReasonerTimeout},
		Log: log,
	}
	orchestrator, err := runtime.NewOrchestrator(log, reasoner,
		transcriberFrom(config, log), analyzerFrom(config, log), engine,
		runtime.Config{
			TopK: config.EvidenceTopK,
			Budget: retrieval.ContextBudget{
				PerItemChars: config.EvidenceItemChars,
				TotalChars:   config.EvidenceTotalChars,
			}.Clamp(),
		})
	if err != nil {
		return fmt.Errorf("orchestrator setup failed: %w", err)
	}

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Run one assessment
	result, err := orchestrator.Run(ctx, req, progressPrinter{})
	if err != nil {
		return err
	}

	// 7. Report: JSON on stdout, human tables on stderr
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("result encoding failed: %w", err)
	}
	fmt.Println(string(out))
	renderTrace(result)
	renderGaps(result)

	log.Info("Assessment finished",
		"assessment_id", result.AssessmentID,
		"basis", result.Meta.PrimaryBasis,
		"gaps", len(result.Gaps))
	return nil
}

func readRequest(args []string) (domain.AssessmentRequest, error) {
	var req domain.AssessmentRequest

	var (
		raw []byte
		err error
	)
	if len(args) > 0 && args[0] != "-" {
		raw, err = os.ReadFile(args[0])
	} else {
		raw, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return req, fmt.Errorf("request reading failed: %w", err)
	}
	if err = json.Unmarshal(raw, &req); err != nil {
		return req, fmt.Errorf("request is not valid JSON: %w", err)
	}
	return req, nil
}

// sniffInputs checks the media references before the run starts, so an
// obviously wrong file (an image handed as audio) is refused early.
// Unresolvable references are left to the collaborators to report.
func sniffInputs(log *slog.Logger, req domain.AssessmentRequest) error {
	check := func(ref, wantPrefix string) error {
		if ref == "" {
			return nil
		}
		mime, err := mimetype.DetectFile(ref)
		if err != nil {
			log.Debug("Could not sniff media reference", "ref", ref, "err", err)
			return nil
		}
		if !strings.HasPrefix(mime.String(), wantPrefix) {
			return fmt.Errorf("media reference %s is %s, expected %s*",
				ref, mime.String(), wantPrefix)
		}
		return nil
	}
	if err := check(req.AudioRef, "audio/"); err != nil {
		return err
	}
	return check(req.ImageRef, "image/")
}

func transcriberFrom(config internal.Config, log *slog.Logger) *sidecar.Transcriber {
	if config.AsrCmd == "" {
		return nil
	}
	return &sidecar.Transcriber{
		Cmd: sidecar.Command{BinPath: config.AsrCmd, Timeout: config.AsrTimeout},
		Log: log,
	}
}

func analyzerFrom(config internal.Config, log *slog.Logger) *sidecar.Analyzer {
	if config.VisionCmd == "" {
		return nil
	}
	return &sidecar.Analyzer{
		Cmd: sidecar.Command{BinPath: config.VisionCmd, Timeout: config.VisionTimeout},
		Log: log,
	}
}

// progressPrinter mirrors stage progress to the terminal.
type progressPrinter struct{}

func (progressPrinter) Notify(fraction float64, description string) error {
	line := fmt.Sprintf("[%3.0f%%] %s", fraction*100, description)
	fmt.Fprintln(os.Stderr, color.Gray.Render(line))
	return nil
}

func renderTrace(result *domain.AssessmentResult) {
	table := tablewriter.NewWriter(os.Stderr)
	table.SetHeader([]string{"Step", "Status", "Latency (ms)", "Summary"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, rec := range result.Trace {
		status := string(rec.Status)
		if rec.Status == domain.StatusFailed {
			status = color.Red.Render(status)
		}
		table.Append([]string{
			rec.Step, status, fmt.Sprintf("%d", rec.LatencyMS), rec.Summary,
		})
	}
	table.Render()
}

func renderGaps(result *domain.AssessmentResult) {
	if len(result.Gaps) == 0 {
		return
	}
	table := tablewriter.NewWriter(os.Stderr)
	table.SetHeader([]string{"Gap", "Severity", "Message"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)

	for _, gap := range result.Gaps {
		severity := string(gap.Severity)
		if gap.Severity == domain.SeverityHigh {
			severity = color.Red.Render(severity)
		}
		table.Append([]string{gap.ID, severity, gap.Message})
	}
	table.Render()
}
