package main

import "testing"

func TestClassify(t *testing.T) {
	c := newClassifier(KeywordConfig{})

	tests := []struct {
		name    string
		command string
		want    Category
	}{
		{"test keyword", "npm test", CategoryTest},
		{"test keyword uppercase", "PYTEST -x", CategoryTest},
		{"test keyword inside argument", "cat latest-results", CategoryTest},
		{"build keyword", "make all", CategoryBuild},
		{"build keyword in phrase", "npm run build", CategoryBuild},
		{"long keyword", "pip install requests", CategoryLong},
		{"long keyword git", "git clone https://example.com/repo.git", CategoryLong},
		{"complex token count", "echo a b c d e f", CategoryComplex},
		{"quick short command", "ls -la", CategoryQuick},
		{"quick single word", "pwd", CategoryQuick},
		{"test wins over token count", "run the whole suite with pytest now please", CategoryTest},
		{"build wins over long", "make download-deps", CategoryBuild},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.command); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.command, got, tt.want)
			}
		})
	}
}

func TestClassifyOverrides(t *testing.T) {
	c := newClassifier(KeywordConfig{Test: []string{"speck"}})

	if got := c.Classify("run speck now"); got != CategoryTest {
		t.Errorf("expected override keyword to classify as test, got %s", got)
	}
	// Built-in test keywords are replaced, so "pytest" no longer matches
	// the test bucket and falls through to quick.
	if got := c.Classify("pytest"); got != CategoryQuick {
		t.Errorf("expected quick after override, got %s", got)
	}
}

func TestCategoryBackground(t *testing.T) {
	for _, c := range []Category{CategoryTest, CategoryBuild, CategoryLong} {
		if !c.Background() {
			t.Errorf("expected %s to route to background", c)
		}
	}
	for _, c := range []Category{CategoryComplex, CategoryQuick} {
		if c.Background() {
			t.Errorf("expected %s to route to bounded", c)
		}
	}
}
