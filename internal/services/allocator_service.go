package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/lib/pq"
)

const maxAllocateRetries = 5

// SequenceSource — атомарный инкремент общего счётчика.
type SequenceSource interface {
	Next(ctx context.Context) (int, error)
}

// AllocatorService — выделение строго возрастающих номеров нарядов.
// Пропуски от неудачных отправок не заполняются: счётчик только растёт.
type AllocatorService struct {
	Counter SequenceSource
}

func NewAllocatorService(counter SequenceSource) *AllocatorService {
	return &AllocatorService{Counter: counter}
}

// Allocate — повторяет весь read-increment-write при конфликте
// сериализации; после maxAllocateRetries — ErrAllocation.
func (s *AllocatorService) Allocate(ctx context.Context) (int, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAllocateRetries; attempt++ {
		n, err := s.Counter.Next(ctx)
		if err == nil {
			return n, nil
		}
		lastErr = err
		if !isRetryableTxError(err) {
			break
		}
		log.Printf("[allocator] tx conflict, retry %d/%d: %v", attempt, maxAllocateRetries, err)
	}
	return 0, fmt.Errorf("%w: %v", ErrAllocation, lastErr)
}

// serialization_failure / deadlock_detected
func isRetryableTxError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

// FormatPermitNumber — {год}-{site}-{model}-{номер}. site/model —
// свободный текст из формы, глобальную уникальность даёт номер.
func FormatPermitNumber(year int, site, model string, seq int) string {
	return fmt.Sprintf("%d-%s-%s-%d", year, site, model, seq)
}
