// Package parse extracts fitness-class records from rendered schedule
// markup. The site's markup shape is not guaranteed across revisions,
// so extraction runs through an ordered strategy chain: the first
// strategy yielding at least one record wins, and later strategies are
// not consulted even if the winner's output looks sparse.
package parse

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/denverfit/recsched/pkg/models"
)

// Strategy is one extraction procedure over a parsed document.
type Strategy interface {
	Name() string
	Extract(doc *goquery.Document) []models.ClassRecord
}

// Parser runs the strategy chain in fixed priority order.
type Parser struct {
	strategies []Strategy
}

// New creates a Parser with the standard chain: structural table rows
// first, then attribute-keyed items. Records missing a location get
// defaultLocation, the single facility this pipeline targets.
func New(defaultLocation string) *Parser {
	return &Parser{
		strategies: []Strategy{
			&tableStrategy{defaultLocation: defaultLocation},
			newAttrStrategy(defaultLocation),
		},
	}
}

// Parse extracts records from raw markup. A document no strategy
// recognizes yields an empty slice, not an error; the runner treats
// that as a retryable outcome.
func (p *Parser) Parse(markup string) ([]models.ClassRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	for _, s := range p.strategies {
		records := s.Extract(doc)
		if len(records) > 0 {
			log.Debug().
				Str("strategy", s.Name()).
				Int("records", len(records)).
				Msg("Extraction strategy matched")
			return records, nil
		}
		log.Debug().Str("strategy", s.Name()).Msg("Extraction strategy yielded nothing")
	}

	log.Warn().Msg("No extraction strategy matched, no classes found")
	return []models.ClassRecord{}, nil
}

// Yields runs every strategy over the markup and reports each one's
// record count by name. Diagnostic only; Parse remains first-match.
func (p *Parser) Yields(markup string) (map[string]int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}

	yields := make(map[string]int, len(p.strategies))
	for _, s := range p.strategies {
		yields[s.Name()] = len(s.Extract(doc))
	}
	return yields, nil
}
