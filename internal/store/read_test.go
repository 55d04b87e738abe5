package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/roach88/peano/internal/ir"
)

func TestReadEvaluation_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	want := createTestEvaluation("eval-1", "session-a", "1 + 2", 1)
	if err := s.WriteEvaluation(ctx, want); err != nil {
		t.Fatalf("WriteEvaluation() failed: %v", err)
	}

	got, err := s.ReadEvaluation(ctx, "eval-1")
	if err != nil {
		t.Fatalf("ReadEvaluation() failed: %v", err)
	}
	if got != want {
		t.Errorf("ReadEvaluation() = %+v, want %+v", got, want)
	}
}

func TestReadEvaluation_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadEvaluation(context.Background(), "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("ReadEvaluation(missing) error = %v, want sql.ErrNoRows", err)
	}
}

func TestReadSession_OrderedBySeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Written out of order, read back in seq order.
	for _, e := range []ir.Evaluation{
		createTestEvaluation("c", "session-a", "3", 3),
		createTestEvaluation("a", "session-a", "1", 1),
		createTestEvaluation("x", "session-b", "9", 2),
		createTestEvaluation("b", "session-a", "2", 2),
	} {
		if err := s.WriteEvaluation(ctx, e); err != nil {
			t.Fatalf("WriteEvaluation(%s) failed: %v", e.ID, err)
		}
	}

	got, err := s.ReadSession(ctx, "session-a")
	if err != nil {
		t.Fatalf("ReadSession() failed: %v", err)
	}

	wantIDs := []string{"a", "b", "c"}
	if len(got) != len(wantIDs) {
		t.Fatalf("len = %d, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestReadSession_TiesBrokenByID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"b", "B", "a"} {
		if err := s.WriteEvaluation(ctx, createTestEvaluation(id, "session-a", "1", 1)); err != nil {
			t.Fatalf("WriteEvaluation(%s) failed: %v", id, err)
		}
	}

	got, err := s.ReadSession(ctx, "session-a")
	if err != nil {
		t.Fatalf("ReadSession() failed: %v", err)
	}

	// BINARY collation: uppercase sorts before lowercase.
	wantIDs := []string{"B", "a", "b"}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestReadSession_Empty(t *testing.T) {
	s := createTestStore(t)

	got, err := s.ReadSession(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ReadSession() failed: %v", err)
	}
	if got == nil {
		t.Error("ReadSession() = nil, want empty slice")
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestReadAll_InterleavesSessions(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, e := range []ir.Evaluation{
		createTestEvaluation("b2", "session-b", "1", 2),
		createTestEvaluation("a1", "session-a", "1", 1),
		createTestEvaluation("b1", "session-b", "1", 1),
	} {
		if err := s.WriteEvaluation(ctx, e); err != nil {
			t.Fatalf("WriteEvaluation(%s) failed: %v", e.ID, err)
		}
	}

	got, err := s.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll() failed: %v", err)
	}

	wantIDs := []string{"a1", "b1", "b2"}
	if len(got) != len(wantIDs) {
		t.Fatalf("len = %d, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestReadFailures(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	ok := createTestEvaluation("ok", "session-a", "1", 1)
	div := createTestEvaluation("div", "session-a", "1 % 0", 2)
	div.Outcome, div.Result, div.ErrorCode = ir.OutcomeError, "", "DIVISION_BY_ZERO"
	syn := createTestEvaluation("syn", "session-a", "1 +", 3)
	syn.Outcome, syn.Result, syn.ErrorCode = ir.OutcomeError, "", "SYNTAX"

	for _, e := range []ir.Evaluation{ok, div, syn} {
		if err := s.WriteEvaluation(ctx, e); err != nil {
			t.Fatalf("WriteEvaluation(%s) failed: %v", e.ID, err)
		}
	}

	all, err := s.ReadFailures(ctx, "")
	if err != nil {
		t.Fatalf("ReadFailures() failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all failures = %d, want 2", len(all))
	}

	byCode, err := s.ReadFailures(ctx, "SYNTAX")
	if err != nil {
		t.Fatalf("ReadFailures(SYNTAX) failed: %v", err)
	}
	if len(byCode) != 1 || byCode[0].ID != "syn" {
		t.Errorf("ReadFailures(SYNTAX) = %+v, want [syn]", byCode)
	}
}

func TestReadDefinitions_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadDefinitions(context.Background(), "missing")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("ReadDefinitions(missing) error = %v, want sql.ErrNoRows", err)
	}
}
