package main

import "strings"

// Category is the execution strategy bucket for a command line.
type Category string

const (
	CategoryTest    Category = "test"
	CategoryBuild   Category = "build"
	CategoryLong    Category = "long"
	CategoryComplex Category = "complex"
	CategoryQuick   Category = "quick"
)

// Background reports whether the category routes to the background
// launcher by default.
func (c Category) Background() bool {
	return c == CategoryTest || c == CategoryBuild || c == CategoryLong
}

func defaultTestKeywords() []string {
	return []string{"test", "junit", "pytest", "jest", "mocha", "rspec"}
}

func defaultBuildKeywords() []string {
	return []string{"build", "compile", "make", "gradle", "maven", "npm run build"}
}

func defaultLongKeywords() []string {
	return []string{"install", "download", "sync", "clone", "pull", "push"}
}

const complexTokenThreshold = 5

type Classifier struct {
	testWords  []string
	buildWords []string
	longWords  []string
}

func newClassifier(cfg KeywordConfig) *Classifier {
	c := &Classifier{
		testWords:  defaultTestKeywords(),
		buildWords: defaultBuildKeywords(),
		longWords:  defaultLongKeywords(),
	}
	if len(cfg.Test) > 0 {
		c.testWords = cfg.Test
	}
	if len(cfg.Build) > 0 {
		c.buildWords = cfg.Build
	}
	if len(cfg.Long) > 0 {
		c.longWords = cfg.Long
	}
	return c
}

// Classify maps a command line to a category. Matching is
// case-insensitive substring matching over the whole line, so a keyword
// inside an unrelated argument still triggers its category; that false
// positive routes to the safer background path on purpose.
func (c *Classifier) Classify(command string) Category {
	lowered := strings.ToLower(command)

	switch {
	case containsAny(lowered, c.testWords):
		return CategoryTest
	case containsAny(lowered, c.buildWords):
		return CategoryBuild
	case containsAny(lowered, c.longWords):
		return CategoryLong
	}

	if len(strings.Fields(command)) > complexTokenThreshold {
		return CategoryComplex
	}
	return CategoryQuick
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(text, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
