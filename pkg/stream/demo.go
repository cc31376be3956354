package stream

import (
	"strings"
	"time"
)

// DemoSpecs is the canned demo conversation: math spans, a highlighted go
// fence and a mermaid flowchart, each finished off by a feedback marker
func DemoSpecs(tokenInterval, markerDelay time.Duration) []Spec {
	base := Spec{
		TokenInterval: tokenInterval,
		MarkerDelay:   markerDelay,
	}

	math := base
	math.Tokens = tokensOf(`Energy and mass relate as $E = mc^2$, and for any right triangle $a^2 + b^2 = c^2$. In the limit, $\sum_{i} x_i \to \infty$.`)

	code := base
	code.Tokens = tokensOf("Here is a minimal Go program:")
	code.Fences = []Fence{{
		Lang: "go",
		Source: `package main

import "fmt"

func main() {
	fmt.Println("hello")
}`,
	}}

	diagram := base
	diagram.Tokens = tokensOf("The pipeline looks like this:")
	diagram.Fences = []Fence{{
		Lang: "mermaid",
		Source: `graph TD
A[Tokens] --> B[Scan]
B -->|stable| C[Render]
B -->|changing| B`,
	}}

	return []Spec{math, code, diagram}
}

// tokensOf splits prose into word-sized streaming tokens
func tokensOf(text string) []string {
	return strings.SplitAfter(text, " ")
}
