package discover

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractKeywordsCategoryTags(t *testing.T) {
	text := "A machine learning grant for satellite telemetry analysis."
	keywords := ExtractKeywords(text)

	var hasML, hasSat bool
	for _, kw := range keywords {
		if kw == "ai_ml:machine learning" {
			hasML = true
		}
		if kw == "space_technology:satellite" {
			hasSat = true
		}
	}
	if !hasML || !hasSat {
		t.Errorf("keywords = %v, want category-tagged hits for machine learning and satellite", keywords)
	}
}

func TestExtractKeywordsDeterministic(t *testing.T) {
	text := "Funding for quantum computing research, quantum sensing experiments and workforce training programs."

	first := ExtractKeywords(text)
	for i := 0; i < 5; i++ {
		if got := ExtractKeywords(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %v vs %v", i, got, first)
		}
	}
}

func TestExtractKeywordsCap(t *testing.T) {
	var b strings.Builder
	for i := 'a'; i <= 'z'; i++ {
		b.WriteString(strings.Repeat(string(i), 5))
		b.WriteString(" ")
	}
	b.WriteString("satellite spacecraft orbital aerospace mission rocket launch astronaut")

	keywords := ExtractKeywords(b.String())
	if len(keywords) > maxKeywords {
		t.Errorf("got %d keywords, cap is %d", len(keywords), maxKeywords)
	}
}

func TestExtractKeywordsEmptyText(t *testing.T) {
	if keywords := ExtractKeywords(""); len(keywords) != 0 {
		t.Errorf("keywords for empty text = %v, want none", keywords)
	}
}
