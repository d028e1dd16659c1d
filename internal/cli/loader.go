package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/propkit/internal/catalog"
	"github.com/roach88/propkit/internal/metrics"
	"github.com/roach88/propkit/internal/registry"
	"github.com/roach88/propkit/internal/schema"
)

// Error code constants shared by all commands. Schema validation failures
// report the schema package's own codes instead.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeNotFound     = "E005" // Schema or class not found
	ErrCodeCatalog      = "E010" // Catalog database error
	ErrCodeResolve      = "E020" // Class registry could not be built
	ErrCodeValues       = "E030" // Values file unreadable
	ErrCodeMissingInput = "E040" // Neither schema path nor --db given
)

// source is where a command reads classes from: a schema file or a
// catalog database.
type source struct {
	Schema   *schema.Schema
	Provider registry.Provider // nil means each class's declared table
	close    func() error
}

func (s *source) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// openSource loads path, or the catalog at db when path is empty.
func openSource(ctx context.Context, path, db string) (*source, error) {
	switch {
	case path != "":
		s, err := schema.Load(path)
		if err != nil {
			return nil, err
		}
		return &source{Schema: s}, nil
	case db != "":
		cat, err := catalog.Open(db)
		if err != nil {
			return nil, &schema.Error{Code: ErrCodeCatalog, Message: err.Error()}
		}
		s, err := cat.ReadSchema(ctx)
		if err != nil {
			cat.Close()
			return nil, err
		}
		return &source{Schema: s, Provider: cat, close: cat.Close}, nil
	default:
		return nil, &schema.Error{Code: ErrCodeMissingInput, Message: "a schema path or --db is required"}
	}
}

// newRegistry builds a registry over src whose diagnostics go both to rec
// and to logger.
func newRegistry(src *source, rec *registry.Recorder, logger *slog.Logger) *registry.Registry {
	opts := []registry.Option{
		registry.WithSink(registry.Tee{rec, registry.SlogSink{Logger: logger}}),
		registry.WithLogger(logger),
		registry.WithMetrics(metrics.Default),
	}
	if src.Provider != nil {
		opts = append(opts, registry.WithProvider(src.Provider))
	}
	return registry.New(opts...)
}

// errorCode picks the CLI error code for err.
func errorCode(err error) string {
	var se *schema.Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeGeneric
}

// fail reports err through the formatter and returns the matching
// ExitError. An empty code is derived from err.
func fail(f *OutputFormatter, exit int, code, message string, err error) error {
	if code == "" {
		code = errorCode(err)
	}
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %v", message, err)
	}
	if outErr := f.Error(code, msg, nil); outErr != nil {
		return outErr
	}
	return WrapExitError(exit, message, err)
}
