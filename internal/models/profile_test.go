package models

import (
	"strings"
	"testing"
)

func TestProfileText(t *testing.T) {
	p := ConsumerProfile{
		Skills:            []string{"machine learning", "go"},
		Experience:        "5 years in aerospace software",
		Education:         "MSc Computer Science",
		ResearchInterests: []string{"satellite imagery"},
		Technologies:      []string{"pytorch"},
	}

	text := p.Text()
	for _, want := range []string{"machine learning", "aerospace", "MSc", "satellite imagery", "pytorch"} {
		if !strings.Contains(text, want) {
			t.Errorf("profile text missing %q: %s", want, text)
		}
	}
}

func TestProfileTextEmpty(t *testing.T) {
	if text := (ConsumerProfile{}).Text(); text != "" {
		t.Errorf("empty profile text = %q, want empty string", text)
	}
}
