package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dshills/selectword/internal/engine"
)

// Step kinds.
const (
	StepSelect = "select"
	StepShrink = "shrink"
)

// Step is one applied selection command and the span it produced.
// Lines and columns are 1-based.
type Step struct {
	Index       int    `json:"step"`
	Kind        string `json:"kind"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
	Text        string `json:"text"`
}

func newStep(index int, kind string, span engine.Span) Step {
	start, end := span.StartPosition(), span.EndPosition()
	return Step{
		Index:       index,
		Kind:        kind,
		Start:       span.Start(),
		End:         span.End(),
		StartLine:   start.Line + 1,
		StartColumn: start.Column + 1,
		EndLine:     end.Line + 1,
		EndColumn:   end.Column + 1,
		Text:        span.Text(),
	}
}

// String formats the step as a text output line.
func (s Step) String() string {
	return fmt.Sprintf("%d %s %d %d %d:%d-%d:%d %q",
		s.Index, s.Kind, s.Start, s.End,
		s.StartLine, s.StartColumn, s.EndLine, s.EndColumn, s.Text)
}

// runSteps applies opts.Expand select commands and then opts.Shrink shrink
// commands. A selection that stops growing ends the expansion and a
// selection too short to shrink ends the shrinking; neither is an error.
func (app *App) runSteps(ctx context.Context) ([]Step, error) {
	eng := app.doc.Engine
	steps := make([]Step, 0, app.opts.Expand+app.opts.Shrink)

	for i := 0; i < app.opts.Expand; i++ {
		if err := ctx.Err(); err != nil {
			return steps, app.stepError(StepSelect, len(steps), err)
		}
		span, err := eng.Select()
		app.metrics.RecordCommand(err)
		if errors.Is(err, engine.ErrNoChange) {
			app.logger.Info("selection stopped growing after %d steps", len(steps))
			break
		}
		if err != nil {
			return steps, app.stepError(StepSelect, len(steps), err)
		}
		steps = append(steps, newStep(len(steps)+1, StepSelect, span))
	}

	for i := 0; i < app.opts.Shrink; i++ {
		if err := ctx.Err(); err != nil {
			return steps, app.stepError(StepShrink, len(steps), err)
		}
		span, err := eng.Shrink()
		app.metrics.RecordCommand(err)
		if errors.Is(err, engine.ErrSelectionTooShort) || errors.Is(err, engine.ErrNoSelection) {
			app.logger.Info("shrink stopped: %v", err)
			break
		}
		if err != nil {
			return steps, app.stepError(StepShrink, len(steps), err)
		}
		steps = append(steps, newStep(len(steps)+1, StepShrink, span))
	}

	return steps, nil
}

// stepError reports a failed or interrupted step. done is the number of
// steps already taken.
func (app *App) stepError(kind string, done int, err error) error {
	return NewOperationError(kind, app.doc.Name, err).
		WithContext(fmt.Sprintf("step %d", done+1))
}

// writeSteps prints steps in the requested format.
func writeSteps(w io.Writer, format Format, steps []Step) error {
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if steps == nil {
			steps = []Step{}
		}
		return enc.Encode(steps)
	}

	for _, s := range steps {
		if _, err := fmt.Fprintln(w, s.String()); err != nil {
			return err
		}
	}
	return nil
}
