package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/apperr"
	"github.com/ivankudzin/truecompanions/backend/internal/domain/model"
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert payment: %w", &pgconn.PgError{Code: "23505", ConstraintName: constraintPaymentReference})

	constraint, ok := isUniqueViolation(err)
	if !ok || constraint != constraintPaymentReference {
		t.Fatalf("expected unique violation on %s, got %q %v", constraintPaymentReference, constraint, ok)
	}
	if _, ok := isUniqueViolation(&pgconn.PgError{Code: "23503"}); ok {
		t.Fatalf("foreign key violation must not count as unique violation")
	}
	if _, ok := isUniqueViolation(errors.New("boom")); ok {
		t.Fatalf("plain error must not count as unique violation")
	}
}

func TestUnlockRepoRequiresPool(t *testing.T) {
	repo := NewUnlockRepo(nil)
	if _, err := repo.Approve(context.Background(), "5f0c9d3e-8a47-4b1e-9a1c-2d6f1b0e4c11", time.Now()); err == nil {
		t.Fatalf("expected error without pool")
	}
	if err := repo.DeleteOwned(context.Background(), "a@example.com", "5f0c9d3e-8a47-4b1e-9a1c-2d6f1b0e4c11"); err == nil {
		t.Fatalf("expected error without pool")
	}
	if _, err := repo.HasApproved(context.Background(), "a@example.com", 1); err == nil {
		t.Fatalf("expected error without pool")
	}
}

func TestCreateWithPaymentRequiresPool(t *testing.T) {
	repo := NewUnlockRepo(nil)
	_, err := repo.CreateWithPayment(context.Background(), model.ContactUnlockRequest{RequesterID: "a@example.com", TargetSequenceID: 1}, model.Payment{})
	if err == nil || errors.Is(err, apperr.ErrDuplicateRequest) {
		t.Fatalf("expected pool error, got %v", err)
	}
}
