// Package dataset builds synthetic business descriptions for fine-tuning the
// domain-name model.
package dataset

import (
	"math/rand/v2"
	"strings"
)

// Complexity tiers a record can be drawn from
const (
	ComplexitySimple  = "simple"
	ComplexityMedium  = "medium"
	ComplexityComplex = "complex"
)

// Categories are the business areas descriptions are generated for
var Categories = []string{
	"tech", "food", "fashion", "legal", "health",
	"finance", "education", "entertainment", "beauty", "real estate",
}

// ComplexityLevels lists the tiers in selection order
var ComplexityLevels = []string{ComplexitySimple, ComplexityMedium, ComplexityComplex}

// Templates holds two description templates per tier; {category} is replaced
var Templates = map[string][]string{
	ComplexitySimple: {
		"A {category} company.",
		"A business focused on {category}.",
	},
	ComplexityMedium: {
		"A {category} startup aiming to innovate in its domain.",
		"A growing {category} company serving urban customers.",
	},
	ComplexityComplex: {
		"A {category} platform providing AI-powered solutions for enterprises worldwide.",
		"A {category} business specializing in personalized services and global logistics integration.",
	},
}

const categoryPlaceholder = "{category}"

// Record is one synthetic training example
type Record struct {
	BusinessDescription string `json:"business_description"`
	Category            string `json:"category"`
	ComplexityLevel     string `json:"complexity_level"`
}

// Generator draws records uniformly over categories, tiers and templates.
// It is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator using rng, or a randomly seeded source if nil
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{rng: rng}
}

// NewSeededGenerator returns a generator whose output is reproducible for seed
func NewSeededGenerator(seed uint64) *Generator {
	return NewGenerator(rand.New(rand.NewPCG(seed, seed)))
}

// Generate returns count records. Duplicates are expected.
func (g *Generator) Generate(count int) []Record {
	records := make([]Record, 0, max(count, 0))
	for i := 0; i < count; i++ {
		records = append(records, g.next())
	}
	return records
}

func (g *Generator) next() Record {
	category := Categories[g.rng.IntN(len(Categories))]
	level := ComplexityLevels[g.rng.IntN(len(ComplexityLevels))]
	templates := Templates[level]
	template := templates[g.rng.IntN(len(templates))]

	return Record{
		BusinessDescription: strings.ReplaceAll(template, categoryPlaceholder, category),
		Category:            category,
		ComplexityLevel:     level,
	}
}
