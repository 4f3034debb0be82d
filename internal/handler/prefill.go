package handler

import (
	"regexp"
	"strings"
)

// Amount patterns, most specific first.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s*cr[eé]ditos`),
	regexp.MustCompile(`\bcargar\s+(\d+)`),
	regexp.MustCompile(`\brecargar\s+(\d+)`),
	regexp.MustCompile(`\b(?:necesito|quiero)\s+(\d+)`),
	regexp.MustCompile(`\b(\d+)\b`),
}

// ExtractAmount pulls a credit amount out of free-form text.
func ExtractAmount(text string) (string, bool) {
	text = strings.ToLower(text)
	for _, re := range amountPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

type courtKeywords struct {
	category string
	words    []string
}

var courtGroups = []courtKeywords{
	{"tenis", []string{"tenis", "tennis"}},
	{"futbol", []string{"futbol", "fútbol"}},
	{"basquet", []string{"basquet", "básquet", "basketball"}},
	{"padel", []string{"padel", "pádel", "paddle"}},
}

// InferCourtType finds the first court category mentioned in text.
func InferCourtType(text string) (string, bool) {
	text = strings.ToLower(text)
	for _, g := range courtGroups {
		for _, w := range g.words {
			if strings.Contains(text, w) {
				return g.category, true
			}
		}
	}
	return "", false
}
