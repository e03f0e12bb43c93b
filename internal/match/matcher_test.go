package match

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  Hello World  ": "hello world",
		"HORÁRIO":         "horário",
		"":                "",
		"  ":              "",
		"already lower":   "already lower",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBestMatch_Empty(t *testing.T) {
	var m TokenSetMatcher
	best, score := m.BestMatch("anything", nil)
	if best != "" || score != 0 {
		t.Fatalf("empty candidate set must yield no match, got (%q, %d)", best, score)
	}
	best, score = m.BestMatch("anything", []string{""})
	if best != "" || score != 0 {
		t.Fatalf("blank candidates must be skipped, got (%q, %d)", best, score)
	}
}

func TestBestMatch_ExactWins(t *testing.T) {
	var m TokenSetMatcher
	cands := []string{"opening hours", "refund policy", "shipping costs"}
	best, score := m.BestMatch("refund policy", cands)
	if best != "refund policy" {
		t.Fatalf("expected exact candidate to win, got %q (score %d)", best, score)
	}
	if score != 100 {
		t.Fatalf("identical strings must score 100, got %d", score)
	}
}

func TestBestMatch_WordOrderInsensitive(t *testing.T) {
	var m TokenSetMatcher
	best, score := m.BestMatch("policy refund", []string{"refund policy", "shipping costs"})
	if best != "refund policy" {
		t.Fatalf("token-set scoring should ignore word order, got %q", best)
	}
	if score != 100 {
		t.Fatalf("reordered identical tokens must score 100, got %d", score)
	}
}
