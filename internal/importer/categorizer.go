package importer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultCategory = "Sermons & Teachings"

// Rule assigns Category to any title containing one of Keywords.
type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// RulesFile is the category_rules.yaml structure.
type RulesFile struct {
	Default string `yaml:"default"`
	Rules   []Rule `yaml:"rules"`
}

// Categorizer evaluates rules in order; the first rule with a keyword found in the
// lower-cased title wins.
type Categorizer struct {
	rules    []Rule
	fallback string
}

func DefaultRules() []Rule {
	return []Rule{
		{Category: "Healing & Deliverance", Keywords: []string{
			"deliverance", "unmask", "soul ties", "curse", "spiritual warfare", "python",
			"evil covenant", "healing", "trauma", "rejection", "emotional", "reconciliation",
		}},
		{Category: "Parenting", Keywords: []string{"parenting", "children", "child"}},
		{Category: "Family", Keywords: []string{"family", "marriage", "husband", "wife", "firewalling"}},
		{Category: "Worship", Keywords: []string{"worship", "proskuneo", "praise"}},
		{Category: "Church", Keywords: []string{"church", "congregation", "message to the church"}},
	}
}

func NewCategorizer(rules []Rule, fallback string) *Categorizer {
	if fallback == "" {
		fallback = DefaultCategory
	}
	normalized := make([]Rule, 0, len(rules))
	for _, r := range rules {
		kw := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				kw = append(kw, k)
			}
		}
		normalized = append(normalized, Rule{Category: r.Category, Keywords: kw})
	}
	return &Categorizer{rules: normalized, fallback: fallback}
}

func NewDefaultCategorizer() *Categorizer {
	return NewCategorizer(DefaultRules(), DefaultCategory)
}

// LoadCategorizer reads rules from a YAML file.
func LoadCategorizer(path string) (*Categorizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read category rules: %w", err)
	}

	var f RulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse category rules: %w", err)
	}
	for i, r := range f.Rules {
		if r.Category == "" {
			return nil, fmt.Errorf("category rules: rule %d has no category", i)
		}
	}
	return NewCategorizer(f.Rules, f.Default), nil
}

func (c *Categorizer) Categorize(title string) string {
	lower := strings.ToLower(title)
	for _, r := range c.rules {
		for _, k := range r.Keywords {
			if strings.Contains(lower, k) {
				return r.Category
			}
		}
	}
	return c.fallback
}
