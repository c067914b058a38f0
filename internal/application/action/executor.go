// Package action runs single data operations behind a fail-safe contract.
//
// Every operation follows the same steps: check the payload against the
// entity schema, acquire the shared session, run exactly one operation,
// normalise the result into typed values, signal cache invalidation after a
// successful write, and return an envelope. No error escapes; failures are
// logged with full detail and reported with a fixed message.
package action

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Haleralex/jobportal/internal/application/ports"
	domainerrors "github.com/Haleralex/jobportal/internal/domain/errors"
	"github.com/Haleralex/jobportal/internal/pkg/logger"
	"github.com/Haleralex/jobportal/internal/pkg/metrics"
)

const tracerName = "github.com/Haleralex/jobportal/internal/application/action"

// Schema is the part of an entity schema the executor relies on.
type Schema interface {
	Collection() string
	Sanitize(in map[string]any) (map[string]any, []string)
	Normalize(doc map[string]any) (map[string]any, error)
}

// Operation describes one action.
type Operation struct {
	Name    string // stable identifier used in logs, metrics and spans
	Kind    Kind
	Schema  Schema
	Filter  ports.Filter
	Payload ports.Document // create document or update patch, before sanitising
	Path    string         // invalidated after a successful write; empty means none
	Message string         // failure text shown to callers
}

func (op Operation) collection() string {
	if op.Schema == nil {
		return ""
	}
	return op.Schema.Collection()
}

// Executor runs operations against the shared session.
type Executor struct {
	conns       ports.ConnectionProvider
	invalidator ports.Invalidator
	logger      *slog.Logger
	tracer      trace.Tracer
}

// NewExecutor creates an executor. A nil invalidator disables invalidation.
func NewExecutor(conns ports.ConnectionProvider, invalidator ports.Invalidator, log *slog.Logger) *Executor {
	if invalidator == nil {
		invalidator = ports.InvalidatorFunc(func(context.Context, string) {})
	}
	if log == nil {
		log = slog.Default()
	}
	return &Executor{
		conns:       conns,
		invalidator: invalidator,
		logger:      log.With(slog.String("component", "action")),
		tracer:      otel.Tracer(tracerName),
	}
}

// ============================================
// Operations
// ============================================

// Create inserts op.Payload and returns the stored record.
func Create[T any](ctx context.Context, e *Executor, op Operation) Result[*T] {
	op.Kind = KindCreate
	return run[*T](ctx, e, op, func(ctx context.Context, c ports.Collection, payload ports.Document) (*T, int64, error) {
		doc, err := c.InsertOne(ctx, payload)
		if err != nil {
			return nil, 0, err
		}
		rec, err := normalize[T](doc)
		return rec, 1, err
	})
}

// FindOne returns the first record matching op.Filter, or nil when none does.
func FindOne[T any](ctx context.Context, e *Executor, op Operation) Result[*T] {
	op.Kind = KindFindOne
	return run[*T](ctx, e, op, func(ctx context.Context, c ports.Collection, _ ports.Document) (*T, int64, error) {
		doc, err := c.FindOne(ctx, op.Filter)
		if domainerrors.IsNotFound(err) {
			return nil, 0, nil
		}
		if err != nil {
			return nil, 0, err
		}
		rec, err := normalize[T](doc)
		return rec, 1, err
	})
}

// FindMany returns every record matching op.Filter. No match is an empty slice.
func FindMany[T any](ctx context.Context, e *Executor, op Operation) Result[[]T] {
	op.Kind = KindFindMany
	return run[[]T](ctx, e, op, func(ctx context.Context, c ports.Collection, _ ports.Document) ([]T, int64, error) {
		docs, err := c.Find(ctx, op.Filter)
		if err != nil {
			return nil, 0, err
		}
		out := make([]T, 0, len(docs))
		for _, doc := range docs {
			rec, err := normalize[T](doc)
			if err != nil {
				return nil, 0, err
			}
			out = append(out, *rec)
		}
		return out, int64(len(out)), nil
	})
}

// FindOneAndUpdate applies op.Payload to the first record matching op.Filter.
// Zero matches is still a success: Data is nil and Matched is 0.
func FindOneAndUpdate[T any](ctx context.Context, e *Executor, op Operation) Result[*T] {
	op.Kind = KindFindOneAndUpdate
	return run[*T](ctx, e, op, func(ctx context.Context, c ports.Collection, patch ports.Document) (*T, int64, error) {
		doc, err := c.FindOneAndUpdate(ctx, op.Filter, patch)
		if domainerrors.IsNotFound(err) {
			return nil, 0, nil
		}
		if err != nil {
			return nil, 0, err
		}
		rec, err := normalize[T](doc)
		return rec, 1, err
	})
}

// Call runs fn, a call to an external collaborator, under the same contract:
// no connection is acquired and nothing is invalidated.
func Call[T any](ctx context.Context, e *Executor, name, message string, fn func(ctx context.Context) (T, error)) (res Result[T]) {
	op := Operation{Name: name, Kind: KindExternal, Message: message}

	ctx, span := e.startSpan(ctx, op)
	defer span.End()

	start := time.Now()
	outcome := metrics.OutcomeSuccess
	defer func() { metrics.RecordAction(op.Name, string(op.Kind), outcome, time.Since(start)) }()
	defer func() {
		if r := recover(); r != nil {
			outcome = metrics.OutcomeFailure
			res = fail[T](ctx, e, span, op, fmt.Errorf("panic: %v", r))
		}
	}()

	data, err := fn(ctx)
	if err != nil {
		outcome = metrics.OutcomeFailure
		return fail[T](ctx, e, span, op, err)
	}
	return Ok(data)
}

// ============================================
// Pipeline
// ============================================

type operationFunc[T any] func(ctx context.Context, c ports.Collection, payload ports.Document) (T, int64, error)

func run[T any](ctx context.Context, e *Executor, op Operation, do operationFunc[T]) (res Result[T]) {
	ctx, span := e.startSpan(ctx, op)
	defer span.End()

	start := time.Now()
	outcome := metrics.OutcomeSuccess
	defer func() { metrics.RecordAction(op.Name, string(op.Kind), outcome, time.Since(start)) }()

	if op.Schema == nil {
		outcome = metrics.OutcomeFailure
		return fail[T](ctx, e, span, op, fmt.Errorf("operation %s has no schema", op.Name))
	}

	payload, err := e.prepare(ctx, op)
	if err != nil {
		outcome = metrics.OutcomeFailure
		return fail[T](ctx, e, span, op, err)
	}

	session, err := e.conns.Acquire(ctx)
	if err != nil {
		outcome = metrics.OutcomeFailure
		return fail[T](ctx, e, span, op, err)
	}

	defer func() {
		if r := recover(); r != nil {
			outcome = metrics.OutcomeFailure
			res = fail[T](ctx, e, span, op, fmt.Errorf("panic: %v", r))
		}
	}()

	data, matched, err := do(ctx, session.Collection(op.collection()), payload)
	if err != nil {
		outcome = metrics.OutcomeFailure
		return fail[T](ctx, e, span, op, domainerrors.NewOperationError(op.Name, op.collection(), err))
	}

	if op.Kind.Mutates() && op.Path != "" {
		e.invalidate(ctx, op)
	}

	span.SetAttributes(attribute.Int64("db.matched", matched))
	res = Ok(data)
	switch op.Kind {
	case KindFindOneAndUpdate:
		res.Matched = &matched
		if matched == 0 {
			outcome = metrics.OutcomeNotFound
			e.logger.WarnContext(ctx, "Update matched no record",
				slog.String("action", op.Name),
				slog.String("collection", op.collection()),
			)
		}
	case KindFindOne:
		if matched == 0 {
			outcome = metrics.OutcomeNotFound
		}
	}
	return res
}

// invalidate signals op.Path once the write is committed. A panicking sink is
// logged and the write still reports success.
func (e *Executor) invalidate(ctx context.Context, op Operation) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.ErrorContext(ctx, "Invalidation panicked",
				slog.String("action", op.Name),
				slog.String("path", op.Path),
				slog.Any("panic", r),
			)
		}
	}()
	e.invalidator.Invalidate(ctx, op.Path)
}

// prepare sanitises and validates the payload of writes. An update without a
// lookup filter is rejected so it can never touch an arbitrary record.
func (e *Executor) prepare(ctx context.Context, op Operation) (ports.Document, error) {
	if !op.Kind.Mutates() {
		return nil, nil
	}
	if op.Kind == KindFindOneAndUpdate && len(op.Filter) == 0 {
		return nil, domainerrors.ErrMissingLookupKey
	}

	payload, dropped := op.Schema.Sanitize(op.Payload)
	if len(dropped) > 0 {
		e.logger.DebugContext(ctx, "Dropped fields outside the schema",
			slog.String("action", op.Name),
			slog.String("collection", op.collection()),
			slog.Any("fields", dropped),
		)
	}
	return op.Schema.Normalize(payload)
}

func (e *Executor) startSpan(ctx context.Context, op Operation) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, "action."+op.Name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("action.kind", string(op.Kind)),
			attribute.String("db.collection", op.collection()),
		),
	)
}

func fail[T any](ctx context.Context, e *Executor, span trace.Span, op Operation, err error) Result[T] {
	class := domainerrors.Classify(err)

	span.RecordError(err)
	span.SetStatus(codes.Error, class)

	e.logger.ErrorContext(ctx, "Action failed",
		slog.String("action", op.Name),
		slog.String("collection", op.collection()),
		slog.String("kind", string(op.Kind)),
		slog.String("error_class", class),
		logger.Err(err),
	)

	res := Fail[T](MessageFor(op, err))
	if class == domainerrors.ClassConfig {
		res.configErr = err
	}
	return res
}

// normalize turns a stored document into a plain typed value.
func normalize[T any](doc ports.Document) (*T, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var rec T
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &rec, nil
}
