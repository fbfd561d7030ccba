// Package engine turns cabinet specs into scenes. It runs the part
// calculator and scene builder with logging and metrics around them, and
// evaluates the Lisp spec language in a zygomys sandbox.
package engine

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/carcass/pkg/cabinet"
	"github.com/chazu/carcass/pkg/scene"
	"github.com/chazu/carcass/pkg/style"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// BuildResult is the output of one cabinet build.
type BuildResult struct {
	Spec     cabinet.Spec
	Layout   *cabinet.Layout
	Scene    *scene.Scene
	Warnings []scene.ValidationError
}

// Engine builds cabinets and evaluates spec source. It is safe for
// concurrent use; every build and evaluation works on its own state.
type Engine struct {
	logger      *log.Logger
	preset      style.Presentation
	evalTimeout time.Duration
	eval        evalFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithPreset sets the presentation style attached to every scene node.
func WithPreset(p style.Presentation) Option {
	return func(e *Engine) { e.preset = p }
}

// WithEvalTimeout sets the limit for one evaluation. The default is
// EvalTimeout; non-positive values are ignored.
func WithEvalTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.evalTimeout = d
		}
	}
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{logger: log.Default(), preset: style.Default, evalTimeout: EvalTimeout, eval: evaluate}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Build derives the parts for spec and assembles its scene. Nothing is
// returned unless the whole build succeeds.
func (e *Engine) Build(spec cabinet.Spec) (*BuildResult, error) {
	start := time.Now()

	layout, err := cabinet.Calculate(spec)
	if err != nil {
		status := statusError
		var invalid cabinet.ValidationErrors
		if errors.As(err, &invalid) {
			status = statusInvalid
		}
		buildsTotal.WithLabelValues(requestedStyle(spec).String(), status).Inc()
		e.logger.Debug("build rejected", "cabinet", spec.Name, "err", err)
		return nil, fmt.Errorf("engine: build %q: %w", spec.Name, err)
	}

	env := layout.Envelope
	if layout.FellBack() {
		styleFallbacks.WithLabelValues(string(layout.Fallback)).Inc()
		e.logger.Warn("unknown cabinet style, using default",
			"cabinet", spec.Name, "requested", layout.RequestedStyle,
			"reason", layout.Fallback, "style", env.Style)
	}

	sc, err := scene.BuildCabinet(layout, e.preset)
	if err != nil {
		buildsTotal.WithLabelValues(env.Style.String(), statusError).Inc()
		return nil, fmt.Errorf("engine: build %q: %w", spec.Name, err)
	}

	var warnings []scene.ValidationError
	for _, f := range scene.Validate(sc) {
		if f.Severity == scene.SeverityError {
			buildsTotal.WithLabelValues(env.Style.String(), statusError).Inc()
			return nil, fmt.Errorf("engine: build %q: invalid scene: %w", spec.Name, f)
		}
		warnings = append(warnings, f)
	}

	buildsTotal.WithLabelValues(env.Style.String(), statusOK).Inc()
	buildDuration.Observe(time.Since(start).Seconds())
	partsPerBuild.Observe(float64(len(layout.Parts)))
	e.logger.Debug("built cabinet",
		"build", sc.ID, "cabinet", env.Name, "style", env.Style,
		"parts", len(layout.Parts), "bounds", sc.Bounds().Size())

	return &BuildResult{Spec: spec, Layout: layout, Scene: sc, Warnings: warnings}, nil
}

// BuildAll builds every spec in order and stops at the first failure.
func (e *Engine) BuildAll(specs []cabinet.Spec) ([]*BuildResult, error) {
	out := make([]*BuildResult, 0, len(specs))
	for _, spec := range specs {
		r, err := e.Build(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// BuildSource evaluates source and builds every cabinet it declares.
// Evaluation errors are joined into the returned error.
func (e *Engine) BuildSource(source string) ([]*BuildResult, error) {
	specs, evalErrs, err := e.Evaluate(source)
	if err != nil {
		return nil, err
	}
	if len(evalErrs) > 0 {
		msgs := make([]string, len(evalErrs))
		for i, ee := range evalErrs {
			msgs[i] = ee.Error()
		}
		return nil, fmt.Errorf("engine: evaluate: %s", strings.Join(msgs, "; "))
	}
	return e.BuildAll(specs)
}

// requestedStyle is the style a spec will be built with, for labelling
// builds that fail before the style is resolved.
func requestedStyle(spec cabinet.Spec) cabinet.Style {
	if s, ok := cabinet.ParseStyle(spec.Style); ok {
		return s
	}
	return cabinet.Base
}

// ---------------------------------------------------------------------------
// Evaluation
// ---------------------------------------------------------------------------

// Evaluate runs spec source and returns the cabinets it declares, in
// declaration order. Each call creates a fresh zygomys sandbox.
//
// Return semantics:
//   - On success: returns specs + nil errors + nil error
//   - On parse/eval failure: returns nil specs + eval errors + nil error
//   - On fatal failure (timeout, panic, cancellation): returns nil + nil + error
func (e *Engine) Evaluate(source string) ([]cabinet.Spec, []EvalError, error) {
	return e.EvaluateContext(context.Background(), source)
}

// EvaluateContext is Evaluate bounded by ctx as well as the engine's
// evaluation timeout.
func (e *Engine) EvaluateContext(ctx context.Context, source string) ([]cabinet.Spec, []EvalError, error) {
	ctx, cancel := context.WithTimeout(ctx, e.evalTimeout)
	defer cancel()

	specs, evalErrs, err := startEval(e.eval, source).wait(ctx, e.evalTimeout)
	if err != nil {
		e.logger.Error("evaluation failed", "err", err)
		return nil, nil, fmt.Errorf("engine: %w", err)
	}
	e.logger.Debug("evaluated source", "cabinets", len(specs), "errors", len(evalErrs))
	return specs, evalErrs, nil
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func evaluate(source string) ([]cabinet.Spec, []EvalError, error) {
	// Empty source is a valid program that declares nothing.
	if strings.TrimSpace(source) == "" {
		return nil, nil, nil
	}

	// Sandbox mode keeps user code away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	var specs []cabinet.Spec
	registerBuiltins(env, &specs)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return specs, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into EvalError values,
// extracting a line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
