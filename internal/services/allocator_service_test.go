package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	mu   sync.Mutex
	last int

	failWith  error
	failTimes int
}

func (f *fakeCounter) Next(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTimes > 0 {
		f.failTimes--
		return 0, f.failWith
	}
	f.last++
	return f.last, nil
}

func TestAllocatorService_SequentialValues(t *testing.T) {
	alloc := NewAllocatorService(&fakeCounter{last: 99})

	for want := 100; want <= 105; want++ {
		got, err := alloc.Allocate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

// N конкурентных запросов получают N различных последовательных номеров.
func TestAllocatorService_ConcurrentUnique(t *testing.T) {
	const n = 50
	alloc := NewAllocatorService(&fakeCounter{last: 99})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []int
		errs    []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := alloc.Allocate(context.Background())
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			results = append(results, got)
		}()
	}
	wg.Wait()

	require.Empty(t, errs)

	require.Len(t, results, n)
	sort.Ints(results)
	for i, v := range results {
		assert.Equal(t, 100+i, v, "values must be consecutive without gaps or duplicates")
	}
}

func TestAllocatorService_RetriesSerializationFailure(t *testing.T) {
	counter := &fakeCounter{
		last:      99,
		failWith:  &pq.Error{Code: "40001"},
		failTimes: 2,
	}
	alloc := NewAllocatorService(counter)

	got, err := alloc.Allocate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100, got)
}

func TestAllocatorService_ExhaustsRetries(t *testing.T) {
	counter := &fakeCounter{
		failWith:  &pq.Error{Code: "40P01"},
		failTimes: maxAllocateRetries + 1,
	}
	alloc := NewAllocatorService(counter)

	_, err := alloc.Allocate(context.Background())
	assert.ErrorIs(t, err, ErrAllocation)
}

func TestAllocatorService_NonRetryableFailsFast(t *testing.T) {
	counter := &fakeCounter{
		failWith:  errors.New("connection refused"),
		failTimes: 10,
	}
	alloc := NewAllocatorService(counter)

	_, err := alloc.Allocate(context.Background())
	assert.ErrorIs(t, err, ErrAllocation)
	// несериализационная ошибка не жжёт все попытки
	assert.Equal(t, 9, counter.failTimes)
}

func TestFormatPermitNumber(t *testing.T) {
	assert.Equal(t, "2024-CBE-X1-101", FormatPermitNumber(2024, "CBE", "X1", 101))
	assert.Equal(t, "2026-Lake Bonney-MM92-100", FormatPermitNumber(2026, "Lake Bonney", "MM92", 100))
}
