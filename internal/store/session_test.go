package store

import (
	"context"
	"testing"

	"github.com/roach88/peano/internal/ir"
)

func TestListSessions(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	failed := createTestEvaluation("a3", "session-a", "1 % 0", 3)
	failed.Outcome, failed.Result, failed.ErrorCode = ir.OutcomeError, "", "DIVISION_BY_ZERO"
	failed.DefinitionsHash = "newer-hash"

	for _, e := range []ir.Evaluation{
		createTestEvaluation("a1", "session-a", "1", 1),
		createTestEvaluation("a2", "session-a", "2", 2),
		failed,
		createTestEvaluation("b5", "session-b", "1", 5),
	} {
		if err := s.WriteEvaluation(ctx, e); err != nil {
			t.Fatalf("WriteEvaluation(%s) failed: %v", e.ID, err)
		}
	}

	sessions, err := s.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("len = %d, want 2", len(sessions))
	}

	a := sessions[0]
	want := SessionSummary{Token: "session-a", Count: 3, Failures: 1, FirstSeq: 1, LastSeq: 3, DefinitionsHash: "newer-hash"}
	if a != want {
		t.Errorf("sessions[0] = %+v, want %+v", a, want)
	}
	if sessions[1].Token != "session-b" || sessions[1].FirstSeq != 5 {
		t.Errorf("sessions[1] = %+v", sessions[1])
	}
}

func TestListSessions_Empty(t *testing.T) {
	s := createTestStore(t)

	sessions, err := s.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions() failed: %v", err)
	}
	if sessions == nil || len(sessions) != 0 {
		t.Errorf("ListSessions() = %v, want empty slice", sessions)
	}
}

func TestMaxSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seq, err := s.MaxSeq(ctx, "session-a")
	if err != nil {
		t.Fatalf("MaxSeq() failed: %v", err)
	}
	if seq != 0 {
		t.Errorf("MaxSeq(empty) = %d, want 0", seq)
	}

	for _, e := range []ir.Evaluation{
		createTestEvaluation("a1", "session-a", "1", 1),
		createTestEvaluation("a4", "session-a", "1", 4),
		createTestEvaluation("b9", "session-b", "1", 9),
	} {
		if err := s.WriteEvaluation(ctx, e); err != nil {
			t.Fatalf("WriteEvaluation(%s) failed: %v", e.ID, err)
		}
	}

	seq, err = s.MaxSeq(ctx, "session-a")
	if err != nil {
		t.Fatalf("MaxSeq() failed: %v", err)
	}
	if seq != 4 {
		t.Errorf("MaxSeq(session-a) = %d, want 4", seq)
	}
}
