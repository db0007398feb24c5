// Package routing owns the intent to model table and turns classified
// queries into routing decisions.
package routing

import (
	"fmt"

	"github.com/nulzo/intent-router/internal/intent"
)

// Decision is the routing answer handed back to the caller.
type Decision struct {
	Intent     intent.Intent `json:"intent"`
	Config     ModelConfig   `json:"config"`
	Confidence float64       `json:"confidence"`
}

// Router combines a classifier with a read-only routing table.
type Router struct {
	classifier *intent.Classifier
	table      Table
}

// NewRouter validates the table once and keeps a private copy of it.
func NewRouter(classifier *intent.Classifier, table Table) (*Router, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if classifier == nil {
		classifier = intent.NewClassifier(intent.DefaultPatterns())
	}
	return &Router{
		classifier: classifier,
		table:      Table{}.Merge(table),
	}, nil
}

// Classifier exposes the classifier the router was built with.
func (r *Router) Classifier() *intent.Classifier {
	return r.classifier
}

// GetRouting looks up the model configuration for i.
func (r *Router) GetRouting(i intent.Intent) (Decision, error) {
	cfg, ok := r.table[i]
	if !ok {
		return Decision{}, fmt.Errorf("%w: no route for intent %q", ErrConfigurationDefect, i)
	}
	return Decision{
		Intent:     i,
		Config:     cfg,
		Confidence: r.classifier.Confidence(),
	}, nil
}

// Route classifies query and resolves its routing decision.
func (r *Router) Route(query string) (Decision, error) {
	return r.GetRouting(r.classifier.Classify(query))
}

// Table returns a copy of the routing table.
func (r *Router) Table() Table {
	return Table{}.Merge(r.table)
}
