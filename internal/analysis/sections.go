// Package analysis routes document text into labeled sections and summarizes each one.
package analysis

import (
	"strings"
	"unicode"
)

// Bucket names a section of a financial filing.
type Bucket string

const (
	GrowthProspects Bucket = "growth_prospects"
	BusinessChanges Bucket = "business_changes"
	KeyTriggers     Bucket = "key_triggers"
	MaterialEffects Bucket = "material_effects"
)

// Buckets lists every bucket in classification priority order.
var Buckets = []Bucket{GrowthProspects, BusinessChanges, KeyTriggers, MaterialEffects}

var bucketKeywords = map[Bucket][]string{
	GrowthProspects: {"growth", "prospect"},
	BusinessChanges: {"change", "restructure", "business model"},
	KeyTriggers:     {"trigger", "driver"},
	MaterialEffects: {"impact", "effect", "earnings"},
}

// Sections maps each bucket to the fragments routed into it, in document order.
type Sections map[Bucket][]string

// Normalize collapses every run of whitespace or control characters, page breaks included,
// into a single space and trims both ends.
func Normalize(text string) string {
	return strings.Join(strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}), " ")
}

// Classify splits text on periods and assigns each fragment to the first bucket whose
// keywords it contains. Fragments matching no bucket are dropped.
func Classify(text string) Sections {
	sections := make(Sections, len(Buckets))
	for _, fragment := range strings.Split(text, ".") {
		bucket, ok := bucketFor(strings.ToLower(fragment))
		if !ok {
			continue
		}
		sections[bucket] = append(sections[bucket], strings.TrimSpace(fragment))
	}
	return sections
}

func bucketFor(lower string) (Bucket, bool) {
	for _, b := range Buckets {
		for _, kw := range bucketKeywords[b] {
			if strings.Contains(lower, kw) {
				return b, true
			}
		}
	}
	return "", false
}
