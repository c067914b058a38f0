// Package ports определяет интерфейсы (порты) для внешних зависимостей.
// Эти интерфейсы реализуются в Infrastructure Layer.
//
// Pattern: Ports & Adapters (Hexagonal Architecture)
package ports

import "context"

// Document - запись коллекции в виде "плоского" JSON-совместимого значения.
// Ключи "_id", "createdAt", "updatedAt" заполняет хранилище.
type Document = map[string]any

// Operator - вид условия фильтра.
type Operator string

const (
	// OpEq - точное совпадение значения поля.
	OpEq Operator = "eq"
	// OpIn - совпадение с любым из значений. Если поле - массив,
	// достаточно пересечения хотя бы по одному элементу.
	OpIn Operator = "in"
)

// Condition - одно условие фильтра.
type Condition struct {
	Field  string
	Op     Operator
	Values []string
}

// Filter - набор условий, объединённых через AND. Пустой фильтр совпадает со всеми записями.
type Filter []Condition

// Eq создаёт условие точного совпадения.
func Eq(field, value string) Condition {
	return Condition{Field: field, Op: OpEq, Values: []string{value}}
}

// In создаёт условие принадлежности множеству.
func In(field string, values ...string) Condition {
	return Condition{Field: field, Op: OpIn, Values: values}
}

// Collection - операции над одной коллекцией документов.
//
// Контракт:
// - FindOne и FindOneAndUpdate возвращают errors.ErrEntityNotFound, если совпадений нет
// - Find возвращает пустой (не nil) срез, если совпадений нет
// - FindOneAndUpdate применяет patch поверх верхнего уровня документа и возвращает новую версию
type Collection interface {
	InsertOne(ctx context.Context, doc Document) (Document, error)
	FindOne(ctx context.Context, filter Filter) (Document, error)
	Find(ctx context.Context, filter Filter) ([]Document, error)
	FindOneAndUpdate(ctx context.Context, filter Filter, patch Document) (Document, error)
}

// Session - установленное соединение с хранилищем.
// Одна Session разделяется всеми запросами процесса.
type Session interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Driver() string
	Close() error
}
