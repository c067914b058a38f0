// Package entities contains the records stored by the job portal and the
// explicit per-collection schemas that guard what may be written.
//
// Records are persisted as documents. A Schema is the single place that
// decides which fields a caller may set, at any depth, and how a stored
// document is turned back into a typed record.
package entities

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/Haleralex/jobportal/internal/domain/errors"
)

// Reserved document keys managed by the store.
const (
	FieldID        = "_id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Schema describes one collection: its name, the fields callers may write,
// and the record type documents decode into.
type Schema[T any] struct {
	collection string
	fields     map[string]struct{}
	order      []string
}

// NewSchema creates a schema for collection with the given writable fields.
func NewSchema[T any](collection string, fields ...string) *Schema[T] {
	s := &Schema[T]{
		collection: collection,
		fields:     make(map[string]struct{}, len(fields)),
	}
	for _, f := range fields {
		if _, dup := s.fields[f]; dup {
			continue
		}
		s.fields[f] = struct{}{}
		s.order = append(s.order, f)
	}
	return s
}

// Collection returns the backing collection name.
func (s *Schema[T]) Collection() string { return s.collection }

// Fields returns the writable fields in declaration order.
func (s *Schema[T]) Fields() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Allows reports whether field may be written.
func (s *Schema[T]) Allows(field string) bool {
	_, ok := s.fields[field]
	return ok
}

// Sanitize copies the allowed fields of in into a new map. Everything else,
// including reserved keys such as _id, is dropped. The dropped keys are
// returned sorted so callers can log them deterministically.
func (s *Schema[T]) Sanitize(in map[string]any) (map[string]any, []string) {
	out := make(map[string]any, len(in))
	var dropped []string
	for k, v := range in {
		if s.Allows(k) {
			out[k] = v
			continue
		}
		dropped = append(dropped, k)
	}
	sort.Strings(dropped)
	return out, dropped
}

// Validate checks a sanitized document against the record type: values must
// decode into T and satisfy its validate tags. Absent fields are not checked,
// so the same rules apply to create payloads and update patches.
func (s *Schema[T]) Validate(doc map[string]any) error {
	_, err := s.check(doc)
	return err
}

// Normalize validates doc and filters every object or array value through
// the decoded record, so keys unknown to nested types (candidateInfo,
// likes[], applicants[]) are dropped as well. Only keys the caller sent are
// kept; scalar values and nulls are stored as sent.
func (s *Schema[T]) Normalize(doc map[string]any) (map[string]any, error) {
	record, err := s.check(doc)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode %s record: %w", s.collection, err)
	}
	var typed map[string]any
	if err := json.Unmarshal(raw, &typed); err != nil {
		return nil, fmt.Errorf("decode %s record: %w", s.collection, err)
	}

	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = prune(v, typed[k])
	}
	return out, nil
}

// prune keeps the parts of sent that also exist in typed.
func prune(sent, typed any) any {
	if !composite(sent) {
		return sent
	}

	sentJSON, err := json.Marshal(sent)
	if err != nil {
		return typed
	}
	var generic any
	if err := json.Unmarshal(sentJSON, &generic); err != nil {
		return typed
	}

	switch sv := generic.(type) {
	case map[string]any:
		tv, ok := typed.(map[string]any)
		if !ok {
			return typed
		}
		out := make(map[string]any, len(sv))
		for k, v := range sv {
			if t, known := tv[k]; known {
				out[k] = prune(v, t)
			}
		}
		return out
	case []any:
		tv, ok := typed.([]any)
		if !ok || len(tv) != len(sv) {
			return typed
		}
		out := make([]any, len(sv))
		for i := range sv {
			out[i] = prune(sv[i], tv[i])
		}
		return out
	default:
		return typed
	}
}

func composite(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		return true
	default:
		return false
	}
}

func (s *Schema[T]) check(doc map[string]any) (T, error) {
	record, err := s.Decode(doc)
	if err != nil {
		return record, domainerrors.ValidationErrors{{Field: s.collection, Message: err.Error()}}
	}

	err = structValidator().Struct(record)
	if err == nil {
		return record, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return record, err
	}

	var out domainerrors.ValidationErrors
	for _, fe := range fieldErrs {
		out.Add(fe.Field(), describe(fe))
	}
	return record, out
}

// Decode converts a stored document into T.
func (s *Schema[T]) Decode(doc map[string]any) (T, error) {
	var record T
	raw, err := json.Marshal(doc)
	if err != nil {
		return record, fmt.Errorf("encode %s document: %w", s.collection, err)
	}
	if err := json.Unmarshal(raw, &record); err != nil {
		return record, fmt.Errorf("decode %s document: %w", s.collection, err)
	}
	return record, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return "must be a valid email"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "url":
		return "must be a valid URL"
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}
