// Package runtime sequences one assessment run: modality collaborators,
// quality gating, evidence retrieval, gap rules and the reasoning
// stages. It orchestrates without containing the scoring or ranking
// rules themselves.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"ward-lab/contract"
	"ward-lab/domain"
	apperrors "ward-lab/errors"
	"ward-lab/fusion"
	"ward-lab/gaps"
	"ward-lab/observability"
	"ward-lab/prompts"
	"ward-lab/quality"
	"ward-lab/retrieval"
)

const (
	DefaultTopK = 6

	diagnosisTokens = 384
	auditTokens     = 256
	reverseTokens   = 256
)

// Config tunes one orchestrator instance.
type Config struct {
	TopK   int
	Budget retrieval.ContextBudget
}

// Orchestrator runs the assessment pipeline. The reasoning model is
// required; transcriber, analyzer and retrieval engine are optional and
// their absence degrades the run instead of failing it.
type Orchestrator struct {
	log         *slog.Logger
	reasoner    contract.ReasoningModel
	transcriber contract.Transcriber
	analyzer    contract.ImageAnalyzer
	searcher    *retrieval.Searcher
	validate    *validator.Validate
	cfg         Config
}

func NewOrchestrator(log *slog.Logger, reasoner contract.ReasoningModel,
	transcriber contract.Transcriber, analyzer contract.ImageAnalyzer,
	engine contract.RetrievalEngine, cfg Config) (*Orchestrator, error) {
	if reasoner == nil {
		return nil, fmt.Errorf("reasoning model is required")
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.Budget == (retrieval.ContextBudget{}) {
		cfg.Budget = retrieval.DefaultBudget
	}

	var searcher *retrieval.Searcher
	if engine != nil {
		ranker, err := retrieval.NewRanker()
		if err != nil {
			return nil, fmt.Errorf("build ranker: %w", err)
		}
		searcher = retrieval.NewSearcher(engine, ranker, log)
	}

	return &Orchestrator{
		log:         log,
		reasoner:    reasoner,
		transcriber: transcriber,
		analyzer:    analyzer,
		searcher:    searcher,
		validate:    validator.New(),
		cfg:         cfg,
	}, nil
}

// Run executes one assessment. Collaborator failures never surface as
// errors: each is converted into a trace record and, where defined, a
// gap, and a well-formed result is always assembled. The only error
// returned is an invalid request, which is a programming mistake.
func (o *Orchestrator) Run(ctx context.Context, req domain.AssessmentRequest,
	notifier contract.ProgressNotifier) (*domain.AssessmentResult, error) {
	if err := o.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid assessment request: %w", err)
	}

	assessmentID := strings.ReplaceAll(uuid.NewString(), "-", "")
	avail := domain.Availability(req)
	locale := gaps.DetectLocale(strings.TrimSpace(req.Chief + " " + req.History))
	rc := newRunContext(req.ViewMode, locale)

	o.log.Info("Assessment run started",
		"assessment_id", assessmentID, "mode", req.ViewMode, "route", avail.RouteTag)

	transcript := o.runAudio(ctx, rc, req, avail, notifier)
	audioQuality := quality.AssessAudio(transcript)

	findings := o.runVision(ctx, rc, req, avail, notifier)
	imageQuality := quality.AssessImage(findings)

	evidence, evidenceText := o.runRetrieval(ctx, rc, req, transcript, notifier)
	ragUsed := evidenceText != ""

	basisStart := time.Now()
	basis := fusion.PickPrimaryBasis(avail.HasAudio, avail.HasImage,
		audioQuality.Score, imageQuality.Score, ragUsed)
	rc.step("basis", basisStart, true, domain.StatusOK,
		"Primary basis: "+string(basis), "", nil)

	fusionStart := time.Now()
	fused := fusion.BuildSummary(fusion.SummaryInput{
		Availability: avail,
		Transcript:   transcript,
		Findings:     findings,
		AudioQuality: audioQuality,
		ImageQuality: imageQuality,
		RagUsed:      ragUsed,
		Basis:        basis,
	})
	rc.step("fusion", fusionStart, true, domain.StatusOK,
		"Fusion summary built", "",
		map[string]any{"conflicts": len(fusion.DetectConflicts(transcript, findings))})

	rulesStart := time.Now()
	gaps.Evaluate(rc.reg, gaps.Input{
		Request:      req,
		Transcript:   transcript,
		Availability: avail,
		AudioQuality: audioQuality,
		ImageQuality: imageQuality,
	})
	rc.step("gap_rules", rulesStart, true, domain.StatusOK,
		fmt.Sprintf("Gap rules evaluated, gaps=%d", len(rc.reg.Gaps())), "", nil)

	diagnosis, diagFailed := o.runDiagnosis(ctx, rc, prompts.DiagnosisInput{
		Request:      req,
		Availability: avail,
		Transcript:   transcript,
		FusedSummary: fused,
		Findings:     findings,
		EvidenceText: evidenceText,
	}, notifier)

	result := &domain.AssessmentResult{
		Mode: req.ViewMode,
		Meta: domain.Meta{
			RouteTag:          avail.RouteTag,
			HasAudio:          avail.HasAudio,
			HasImage:          avail.HasImage,
			AudioQualityScore: audioQuality.Score,
			AudioIssues:       issuesOrEmpty(audioQuality.Issues),
			ImageQualityScore: imageQuality.Score,
			ImageIssues:       issuesOrEmpty(imageQuality.Issues),
			RagUsed:           ragUsed,
			PrimaryBasis:      basis,
		},
		Diagnosis:       diagnosis,
		ImageFindings:   findings,
		AudioTranscript: transcript,
		FusedSummary:    fused,
		Evidence:        retrieval.Snippets(evidence),
		AssessmentID:    assessmentID,
		PatientID:       req.PatientID,
	}

	if req.ViewMode == domain.ViewModePatient {
		o.assemble(rc, result, "Patient result assembled")
		return result, nil
	}

	result.Audit = o.runSecondary(ctx, rc, secondaryStage{
		name:     "audit",
		display:  "Audit",
		checkpt:  0.55,
		progress: "Meta-cognition: Auditing response...",
		gapID:    "audit_failed",
		prompt:   prompts.BuildAuditPrompt(req, diagnosis),
		tokens:   auditTokens,
	}, diagFailed, notifier)

	result.Reverse = o.runSecondary(ctx, rc, secondaryStage{
		name:     "reverse",
		display:  "Reverse diagnosis",
		checkpt:  0.75,
		progress: "Routing: Running differential diagnosis...",
		gapID:    "reverse_failed",
		prompt:   prompts.BuildReversePrompt(req, diagnosis),
		tokens:   reverseTokens,
	}, diagFailed, notifier)

	o.notify(notifier, 0.9, "Rendering report...")
	o.assemble(rc, result, "Doctor result assembled")
	return result, nil
}

func (o *Orchestrator) runAudio(ctx context.Context, rc *runContext,
	req domain.AssessmentRequest, avail domain.ModalityAvailability,
	notifier contract.ProgressNotifier) string {
	start := time.Now()
	switch {
	case avail.HasAudio && o.transcriber != nil:
		o.notify(notifier, 0.05, "Audio: Transcribing...")
		text, err := o.transcriber.Transcribe(ctx, req.AudioRef)
		if err != nil {
			rc.step("asr", start, false, domain.StatusFailed, "ASR failed", err.Error(), nil)
			rc.reg.Add("asr_failed")
			return "[ASR error] " + err.Error()
		}
		rc.step("asr", start, true, domain.StatusOK,
			fmt.Sprintf("ASR ok, transcript_len=%d", len(text)), "", nil)
		return text
	case avail.HasAudio:
		rc.step("asr", start, false, domain.StatusFailed, "ASR unavailable",
			apperrors.ErrTranscriberMissing.Error(), nil)
		rc.reg.Add("asr_unavailable")
		return ""
	default:
		rc.step("asr", start, true, domain.StatusSkipped, "ASR skipped (no audio)", "", nil)
		return ""
	}
}

func (o *Orchestrator) runVision(ctx context.Context, rc *runContext,
	req domain.AssessmentRequest, avail domain.ModalityAvailability,
	notifier contract.ProgressNotifier) *domain.ImageFindings {
	start := time.Now()
	switch {
	case avail.HasImage && o.analyzer != nil:
		o.notify(notifier, 0.1, "Vision: Analyzing scan...")
		findings, err := o.analyzer.Analyze(ctx, req.ImageRef)
		if err != nil {
			rc.step("vision", start, false, domain.StatusFailed, "Vision failed", err.Error(), nil)
			rc.reg.Add("vision_failed")
			return domain.FailedFindings(err.Error())
		}
		rc.step("vision", start, true, domain.StatusOK,
			"Vision ok, primary="+findings.PrimaryFinding, "",
			map[string]any{
				"model":         findings.Model,
				"mode":          findings.Mode,
				"confidence":    findings.Confidence,
				"interpretable": findings.Interpretable,
			})
		return findings
	case avail.HasImage:
		rc.step("vision", start, false, domain.StatusFailed, "Vision unavailable",
			apperrors.ErrAnalyzerMissing.Error(), nil)
		rc.reg.Add("vision_unavailable")
		return nil
	default:
		rc.step("vision", start, true, domain.StatusSkipped, "Vision skipped (no image)", "", nil)
		return nil
	}
}

func (o *Orchestrator) runRetrieval(ctx context.Context, rc *runContext,
	req domain.AssessmentRequest, transcript string,
	notifier contract.ProgressNotifier) ([]domain.EvidenceItem, string) {
	o.notify(notifier, 0.25, "RAG: Retrieving evidence...")
	start := time.Now()

	// The fused summary does not exist yet at retrieval time; the
	// query carries whatever is known so far.
	query := retrieval.ComposeQuery(req, transcript, "")

	var (
		evidence     []domain.EvidenceItem
		evidenceText string
		ragErr       error
	)
	switch {
	case o.searcher == nil:
		ragErr = apperrors.ErrEngineMissing
	case query == "":
		ragErr = apperrors.ErrEmptyQuery
	default:
		evidence, ragErr = o.searcher.Search(ctx, query, o.cfg.TopK)
		if ragErr == nil {
			evidenceText = retrieval.BuildContext(evidence, o.cfg.Budget)
		}
	}

	if strings.TrimSpace(evidenceText) != "" {
		rc.step("rag", start, true, domain.StatusOK,
			fmt.Sprintf("RAG ok, evidence=%d", len(evidence)), "",
			map[string]any{"top_k": len(evidence)})
		return evidence, evidenceText
	}

	errText := apperrors.ErrNoEvidence.Error()
	if ragErr != nil {
		errText = ragErr.Error()
	}
	rc.step("rag", start, false, domain.StatusFailed, "RAG unavailable", errText, nil)
	rc.reg.Add("rag_unavailable")
	return nil, ""
}

// runDiagnosis always attempts the first reasoning call. It returns the
// diagnosis payload and whether it carries a failure marker.
func (o *Orchestrator) runDiagnosis(ctx context.Context, rc *runContext,
	in prompts.DiagnosisInput, notifier contract.ProgressNotifier) (map[string]any, bool) {
	o.notify(notifier, 0.35, "Cognitive: Generating initial diagnosis...")
	prompt := prompts.BuildDiagnosisPrompt(in)
	snapshot := observability.Snapshot(o.log)
	start := time.Now()

	imageRef := ""
	if in.Availability.HasImage {
		imageRef = in.Request.ImageRef
	}

	diagnosis, err := o.reasoner.Run(ctx, prompt, imageRef, diagnosisTokens)
	diagErrText := ""
	switch {
	case err != nil:
		diagErrText = err.Error()
		diagnosis = map[string]any{
			"error":          diagErrText,
			"gentle_summary": "Error in processing.",
		}
		rc.step("diagnosis", start, false, domain.StatusFailed,
			"Diagnosis failed", diagErrText, snapshot.Artifacts())
	case hasErrorKey(diagnosis):
		diagErrText = fmt.Sprint(diagnosis["error"])
		rc.step("diagnosis", start, false, domain.StatusFailed,
			"Diagnosis error", diagErrText, snapshot.Artifacts())
	default:
		rc.step("diagnosis", start, true, domain.StatusOK,
			"Diagnosis ok", "", snapshot.Artifacts())
	}

	if diagErrText != "" {
		rc.reg.Add("diagnosis_failed")
		if strings.Contains(strings.ToLower(diagErrText), "out of memory") {
			rc.reg.Add("gpu_oom")
		}
	}
	return diagnosis, diagErrText != ""
}

type secondaryStage struct {
	name     string
	display  string
	checkpt  float64
	progress string
	gapID    string
	prompt   string
	tokens   int
}

// runSecondary handles audit and reverse: skipped with a placeholder
// failure marker when the diagnosis already failed, otherwise attempted
// with a low-severity gap on failure. Neither blocks assembly.
func (o *Orchestrator) runSecondary(ctx context.Context, rc *runContext,
	stage secondaryStage, diagFailed bool, notifier contract.ProgressNotifier) map[string]any {
	if diagFailed {
		rc.step(stage.name, time.Now(), true, domain.StatusSkipped,
			stage.display+" skipped due to diagnosis failure", "", nil)
		return map[string]any{"error": "skipped_due_to_diagnosis_failure"}
	}

	o.notify(notifier, stage.checkpt, stage.progress)
	start := time.Now()
	payload, err := o.reasoner.Run(ctx, stage.prompt, "", stage.tokens)
	switch {
	case err != nil:
		payload = map[string]any{"error": err.Error()}
		rc.step(stage.name, start, false, domain.StatusFailed,
			stage.display+" failed", err.Error(), nil)
		rc.reg.Add(stage.gapID)
	case hasErrorKey(payload):
		rc.step(stage.name, start, false, domain.StatusFailed,
			stage.display+" error", fmt.Sprint(payload["error"]), nil)
		rc.reg.Add(stage.gapID)
	default:
		rc.step(stage.name, start, true, domain.StatusOK, stage.display+" ok", "", nil)
	}
	return payload
}

func (o *Orchestrator) assemble(rc *runContext, result *domain.AssessmentResult, summary string) {
	start := time.Now()
	rc.step("assemble", start, true, domain.StatusOK, summary, "", nil)
	result.Trace = rc.trace.Records()
	result.Gaps = rc.reg.Gaps()
	result.ErrorSummary = rc.trace.ErrorSummary()
	if result.Evidence == nil {
		result.Evidence = []domain.EvidenceItem{}
	}
	if result.ErrorSummary == nil {
		result.ErrorSummary = []string{}
	}
}

// notify is the single no-throw guard around the optional progress
// callback: errors and panics are logged and never interrupt the run.
func (o *Orchestrator) notify(n contract.ProgressNotifier, fraction float64, desc string) {
	if n == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			o.log.Debug("Progress notifier panicked", "reason", r)
		}
	}()
	if err := n.Notify(fraction, desc); err != nil {
		o.log.Debug("Progress notifier failed", "err", err)
	}
}

func hasErrorKey(payload map[string]any) bool {
	_, ok := payload["error"]
	return ok
}

func issuesOrEmpty(issues []string) []string {
	if issues == nil {
		return []string{}
	}
	return issues
}
