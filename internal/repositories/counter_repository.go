package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// FirstPermitNumber — стартовое значение счётчика; самый первый вызов
// возвращает именно его.
const FirstPermitNumber = 100

// CounterRepository — единственный разделяемый изменяемый ресурс:
// счётчик номеров нарядов, общий для всех конкурентных отправок.
type CounterRepository struct {
	DB *sql.DB
}

func NewCounterRepository(db *sql.DB) *CounterRepository {
	return &CounterRepository{DB: db}
}

// Next — read-increment-write одним атомарным оператором, никогда
// не читаем и не пишем раздельно. Два конкурентных вызова не могут
// получить одно значение: upsert сериализуется на строке id=1.
func (r *CounterRepository) Next(ctx context.Context) (int, error) {
	const q = `
		INSERT INTO permit_counter (id, last_number)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE
		SET last_number = permit_counter.last_number + 1
		RETURNING last_number
	`
	var n int
	if err := r.DB.QueryRowContext(ctx, q, FirstPermitNumber).Scan(&n); err != nil {
		return 0, fmt.Errorf("permit counter next: %w", err)
	}
	return n, nil
}
