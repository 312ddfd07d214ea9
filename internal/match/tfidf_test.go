package match

import (
	"math"
	"testing"
)

func TestVectorizerIdenticalDocuments(t *testing.T) {
	docs := []string{
		"satellite communications research program",
		"satellite communications research program",
	}
	vectors := NewVectorizer().FitTransform(docs)

	sim := Cosine(vectors[0], vectors[1])
	if math.Abs(sim-1.0) > 1e-9 {
		t.Errorf("similarity of identical documents = %f, want 1.0", sim)
	}
}

func TestVectorizerDisjointDocuments(t *testing.T) {
	docs := []string{
		"satellite orbital telemetry",
		"genomics pharmaceutical clinical",
	}
	vectors := NewVectorizer().FitTransform(docs)

	if sim := Cosine(vectors[0], vectors[1]); sim != 0 {
		t.Errorf("similarity of disjoint documents = %f, want 0", sim)
	}
}

func TestVectorizerStopWordsIgnored(t *testing.T) {
	v := NewVectorizer()
	v.Fit([]string{"the satellite is in the sky", "a satellite"})

	if _, ok := v.vocab["the"]; ok {
		t.Error("stop word made it into the vocabulary")
	}
	if _, ok := v.vocab["satellite"]; !ok {
		t.Error("content word missing from the vocabulary")
	}
}

func TestVectorizerEmptyCorpus(t *testing.T) {
	v := NewVectorizer()
	vectors := v.FitTransform(nil)
	if len(vectors) != 0 {
		t.Errorf("expected no vectors for an empty corpus, got %d", len(vectors))
	}

	// transforming against an empty vocabulary must not panic
	vec := v.Transform("anything at all")
	if len(vec) != 0 {
		t.Errorf("expected an empty vector, got length %d", len(vec))
	}
	if sim := Cosine(vec, vec); sim != 0 {
		t.Errorf("cosine of empty vectors = %f, want 0", sim)
	}
}

func TestVectorizerMaxFeatures(t *testing.T) {
	v := NewVectorizer()
	v.MaxFeatures = 3
	v.Fit([]string{
		"alpha alpha alpha beta beta gamma delta epsilon",
	})

	if len(v.vocab) != 3 {
		t.Fatalf("vocabulary size = %d, want 3", len(v.vocab))
	}
	// frequency first, then the alphabetical tie-break among the singletons
	for _, term := range []string{"alpha", "beta", "delta"} {
		if _, ok := v.vocab[term]; !ok {
			t.Errorf("expected frequent term %q in capped vocabulary", term)
		}
	}
}

func TestVectorizerDeterministicVectors(t *testing.T) {
	docs := []string{
		"quantum sensing for climate research",
		"climate modelling with quantum annealing",
	}

	a := NewVectorizer().FitTransform(docs)
	b := NewVectorizer().FitTransform(docs)

	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				t.Fatalf("vector %d differs between runs at component %d", i, j)
			}
		}
	}
}

func TestCosineRange(t *testing.T) {
	docs := []string{
		"satellite orbital research",
		"satellite ground stations",
		"completely unrelated cooking recipes",
	}
	vectors := NewVectorizer().FitTransform(docs)

	for i := range vectors {
		for j := range vectors {
			sim := Cosine(vectors[i], vectors[j])
			if sim < -1e-9 || sim > 1+1e-9 {
				t.Errorf("Cosine(%d,%d) = %f, out of [0,1]", i, j, sim)
			}
		}
	}
}
