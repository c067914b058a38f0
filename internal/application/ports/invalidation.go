package ports

import "context"

// Invalidator сигнализирует, что данные, отображаемые по пути path, устарели.
//
// Вызов fire-and-forget: ошибки доставки логируются реализацией и не
// влияют на результат мутации. path передаётся без изменений.
type Invalidator interface {
	Invalidate(ctx context.Context, path string)
}

// InvalidatorFunc адаптирует функцию к Invalidator.
type InvalidatorFunc func(ctx context.Context, path string)

// Invalidate вызывает f(ctx, path).
func (f InvalidatorFunc) Invalidate(ctx context.Context, path string) {
	f(ctx, path)
}
