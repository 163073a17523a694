package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/climate-query-service/internal/domain"
	"github.com/couchcryptid/climate-query-service/internal/service"
)

// QueryTransformer implements Transformer by running each source message
// through the interpretation service.
type QueryTransformer struct {
	interpreter *service.Interpreter
	logger      *slog.Logger
}

// NewTransformer creates a QueryTransformer.
func NewTransformer(interpreter *service.Interpreter, logger *slog.Logger) *QueryTransformer {
	return &QueryTransformer{
		interpreter: interpreter,
		logger:      logger,
	}
}

func (t *QueryTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	msg, err := domain.ParseQueryMessage(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	in, err := t.interpreter.Interpret(ctx, msg.Query)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	return domain.SerializeInterpretation(in)
}
