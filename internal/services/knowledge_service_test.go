package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmcruz/go-helpdesk-backend/internal/domain"
	"github.com/dmcruz/go-helpdesk-backend/internal/repo"
)

func TestParsePhrases(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"single", "Opening Hours", []string{"opening hours"}},
		{"multi", "a; B ;c", []string{"a", "b", "c"}},
		{"dedupe after folding", "Hi;hi; HI ", []string{"hi"}},
		{"empties dropped", ";; ; x ;", []string{"x"}},
		{"all empty", " ; ;", nil},
	}
	for _, tc := range cases {
		got := ParsePhrases(tc.raw)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
			}
		}
	}
}

func TestTeach_CreatesEntryWithPhrases(t *testing.T) {
	db := newServiceDB(t)
	svc := &KnowledgeService{DB: db}

	entry, err := svc.Teach(context.Background(), "Opening Hours; horário", "9-18 Mon-Fri", "")
	if err != nil {
		t.Fatalf("Teach: %v", err)
	}
	if entry.Answer != "9-18 Mon-Fri" {
		t.Fatalf("answer = %q", entry.Answer)
	}

	entries, err := svc.List(context.Background(), 0, 50)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || len(entries[0].Phrases) != 2 {
		t.Fatalf("expected 1 entry with 2 phrases, got %+v", entries)
	}
	for _, p := range entries[0].Phrases {
		if p.Phrase != "opening hours" && p.Phrase != "horário" {
			t.Fatalf("phrase not normalized: %q", p.Phrase)
		}
	}
}

func TestTeach_RejectsEmptyInputs(t *testing.T) {
	db := newServiceDB(t)
	svc := &KnowledgeService{DB: db}

	if _, err := svc.Teach(context.Background(), " ; ; ", "an answer", ""); err != ErrNoPhrases {
		t.Fatalf("empty phrases: err = %v, want ErrNoPhrases", err)
	}
	if _, err := svc.Teach(context.Background(), "a phrase", "   ", ""); err != ErrEmptyAnswer {
		t.Fatalf("empty answer: err = %v, want ErrEmptyAnswer", err)
	}
}

func TestTeach_DuplicatePhraseRejectsWholeSubmission(t *testing.T) {
	db := newServiceDB(t)
	svc := &KnowledgeService{DB: db}

	if _, err := svc.Teach(context.Background(), "known phrase", "first answer", ""); err != nil {
		t.Fatalf("seed teach: %v", err)
	}

	// One colliding phrase poisons the whole submission, including the
	// brand-new phrase riding along with it.
	_, err := svc.Teach(context.Background(), "brand new; Known Phrase", "second answer", "")
	var dup *DuplicatePhraseError
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want DuplicatePhraseError", err)
	}
	if len(dup.Phrases) != 1 || dup.Phrases[0] != "known phrase" {
		t.Fatalf("duplicate report = %v", dup.Phrases)
	}

	entries, err := svc.List(context.Background(), 0, 50)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("rejected submission must write nothing, got %d entries", len(entries))
	}
	existing, err := repo.ExistingPhrases(db, []string{"brand new"})
	if err != nil {
		t.Fatalf("ExistingPhrases: %v", err)
	}
	if len(existing) != 0 {
		t.Fatalf("the non-colliding phrase must not be persisted either")
	}
}

func TestTeach_AcceptsLinkedRequestAtomically(t *testing.T) {
	db := newServiceDB(t)
	user := seedUser(t, db, "asker", domain.RoleUser)
	req, err := repo.CreateTeachingRequest(context.Background(), db, user.ID, "what are your hours?")
	if err != nil {
		t.Fatalf("CreateTeachingRequest: %v", err)
	}

	svc := &KnowledgeService{DB: db}
	if _, err := svc.Teach(context.Background(), "your hours", "9-18", req.ID); err != nil {
		t.Fatalf("Teach: %v", err)
	}

	got, err := repo.GetTeachingRequest(context.Background(), db, req.ID)
	if err != nil {
		t.Fatalf("GetTeachingRequest: %v", err)
	}
	if got.Status != domain.RequestAccepted {
		t.Fatalf("request status = %q, want accepted", got.Status)
	}
}

func TestTeach_MissingRequestIsNoOp(t *testing.T) {
	db := newServiceDB(t)
	svc := &KnowledgeService{DB: db}

	if _, err := svc.Teach(context.Background(), "some phrase", "answer", "no-such-request"); err != nil {
		t.Fatalf("Teach with missing request id must still succeed: %v", err)
	}
}

func TestKnowledgeDelete_RemovesPhrases(t *testing.T) {
	db := newServiceDB(t)
	svc := &KnowledgeService{DB: db}

	entry, err := svc.Teach(context.Background(), "p1; p2", "a", "")
	if err != nil {
		t.Fatalf("Teach: %v", err)
	}
	if err := svc.Delete(context.Background(), entry.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	existing, err := repo.ExistingPhrases(db, []string{"p1", "p2"})
	if err != nil {
		t.Fatalf("ExistingPhrases: %v", err)
	}
	if len(existing) != 0 {
		t.Fatalf("phrases must go with their entry, still present: %v", existing)
	}

	// Freed phrases are teachable again.
	if _, err := svc.Teach(context.Background(), "p1", "new answer", ""); err != nil {
		t.Fatalf("re-teach after delete: %v", err)
	}

	// Deleting again is a silent no-op.
	if err := svc.Delete(context.Background(), entry.ID); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
}
