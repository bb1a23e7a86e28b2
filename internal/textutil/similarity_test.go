package textutil

import "testing"

func TestCosineSimilarityIdentical(t *testing.T) {
	a := NewFingerprint("The Legend of Zelda")
	b := NewFingerprint("the legend OF zelda")
	if sim := CosineSimilarity(a, b); sim < 0.999 {
		t.Fatalf("expected identical titles to score ~1.0, got %f", sim)
	}
}

func TestCosineSimilarityRanksCloserTitleHigher(t *testing.T) {
	query := NewFingerprint("mario kart")
	close := NewFingerprint("Super Mario Kart")
	far := NewFingerprint("Final Fantasy VII")

	if CosineSimilarity(query, close) <= CosineSimilarity(query, far) {
		t.Fatal("expected closer title to score higher")
	}
}

func TestCosineSimilarityNil(t *testing.T) {
	if sim := CosineSimilarity(nil, NewFingerprint("anything")); sim != 0 {
		t.Fatalf("expected 0 for nil fingerprint, got %f", sim)
	}
	if fp := NewFingerprint("!"); fp != nil {
		t.Fatalf("expected nil fingerprint for token-free input, got %v", fp)
	}
}

func TestTokenizeKeepsShortGameTokens(t *testing.T) {
	tokens := Tokenize("Final Fantasy IV")
	want := []string{"final", "fantasy", "iv"}
	if len(tokens) != len(want) {
		t.Fatalf("Tokenize returned %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("Tokenize returned %v, want %v", tokens, want)
		}
	}
}
