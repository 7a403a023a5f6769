package stats

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"

	_ "github.com/lib/pq"
	"github.com/pulselabs/community-pulse-go/internal/domain"
	"github.com/pulselabs/community-pulse-go/pkg/errors"
	"go.uber.org/zap"
)

// unreachableRepo opens a pool that is never dialed; queries fail at
// connection acquisition, which is enough to exercise error wrapping.
func unreachableRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := sql.Open("postgres", "host=localhost port=5432 dbname=never user=never")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &Repository{db: db, logger: zap.NewNop()}
}

func TestQueriesWrapDatabaseFailures(t *testing.T) {
	repo := unreachableRepo(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.MessageCount(ctx, "community-1", 7)
	if err == nil {
		t.Fatal("expected error from cancelled query")
	}

	var svcErr *errors.ServiceError
	if !stderrors.As(err, &svcErr) {
		t.Fatalf("expected ServiceError, got %T: %v", err, err)
	}
	if svcErr.Service != "postgres" || svcErr.Operation != "message_count" {
		t.Fatalf("unexpected service/operation: %s/%s", svcErr.Service, svcErr.Operation)
	}
	if errors.IsValidationError(err) {
		t.Fatal("database failure must not classify as validation error")
	}
}

func TestRecordMessageWrapsDatabaseFailures(t *testing.T) {
	repo := unreachableRepo(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.RecordMessage(ctx, "community-1", "general", "user-1", startOfDay(windowStart(1)))
	var svcErr *errors.ServiceError
	if !stderrors.As(err, &svcErr) {
		t.Fatalf("expected ServiceError, got %T: %v", err, err)
	}
}

func TestPeakHoursFromHistogramOrdering(t *testing.T) {
	stats, err := domain.NewWindowStats(60, 12, []domain.HourCount{
		{Hour: 20, Count: 30},
		{Hour: 14, Count: 20},
		{Hour: 9, Count: 10},
	})
	if err != nil {
		t.Fatalf("NewWindowStats: %v", err)
	}

	hours := peakHoursFrom(stats)
	if len(hours) != 3 || hours[0] != 20 || hours[1] != 14 || hours[2] != 9 {
		t.Fatalf("expected [20 14 9], got %v", hours)
	}
}

func TestPeakHoursFromEmptyHistogram(t *testing.T) {
	stats, err := domain.NewWindowStats(0, 0, nil)
	if err != nil {
		t.Fatalf("NewWindowStats: %v", err)
	}
	if hours := peakHoursFrom(stats); len(hours) != 0 {
		t.Fatalf("expected no peak hours, got %v", hours)
	}
}
