package ports

import "context"

// ConnectionProvider выдаёт разделяемую Session.
//
// Behaviour:
// - первый вызов устанавливает соединение, конкурентные вызовы ждут ту же попытку
// - последующие вызовы возвращают кешированную Session без I/O
// - после неудачи следующий вызов начинает новую попытку
type ConnectionProvider interface {
	Acquire(ctx context.Context) (Session, error)
}
