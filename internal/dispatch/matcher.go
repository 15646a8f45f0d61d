// Package dispatch selects workers for tasks and drives the dispatch
// transition against the ledger.
package dispatch

import (
	"path"
	"sort"
	"strings"

	"github.com/aurda012/cursor10x/internal/models"
)

// Rule kinds, in rank order. Path rules outrank keyword rules within the
// same precedence class.
const (
	kindPath = iota
	kindKeyword
)

type candidate struct {
	worker     string
	precedence int
	kind       int
	order      int
}

// Match ranks the workers whose capability rules match the descriptor.
// Matching is pure and deterministic: candidates are ordered by precedence
// class, then rule kind (path before keyword), then registration order.
// Each worker appears at most once, ranked by its best matching rule. When
// no rule matches, the fallback worker (if any) is the sole candidate.
func Match(desc models.TaskDescriptor, workers []models.WorkerProfile, fallback string) []string {
	text := strings.ToLower(desc.Title + " " + desc.Prompt)

	var candidates []candidate
	for i, w := range workers {
		best, ok := bestRule(desc.File, text, w.Rules)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{
			worker:     w.ID,
			precedence: best.Precedence,
			kind:       ruleKind(best),
			order:      i,
		})
	}

	if len(candidates) == 0 {
		if fallback == "" {
			return nil
		}
		return []string{fallback}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.precedence != b.precedence {
			return a.precedence < b.precedence
		}
		if a.kind != b.kind {
			return a.kind < b.kind
		}
		return a.order < b.order
	})

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.worker
	}
	return out
}

// bestRule returns the strongest rule that matches, ranked the same way
// candidates are.
func bestRule(file, text string, rules []models.CapabilityRule) (models.CapabilityRule, bool) {
	var best models.CapabilityRule
	found := false

	for _, rule := range rules {
		if !ruleMatches(file, text, rule) {
			continue
		}
		if !found || stronger(rule, best) {
			best = rule
			found = true
		}
	}
	return best, found
}

func stronger(a, b models.CapabilityRule) bool {
	if a.Precedence != b.Precedence {
		return a.Precedence < b.Precedence
	}
	return ruleKind(a) < ruleKind(b)
}

func ruleKind(r models.CapabilityRule) int {
	if r.PathPattern != "" {
		return kindPath
	}
	return kindKeyword
}

func ruleMatches(file, text string, rule models.CapabilityRule) bool {
	if rule.PathPattern != "" {
		return pathMatches(rule.PathPattern, file)
	}
	for _, keyword := range rule.Keywords {
		if containsWord(text, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// pathMatches applies a glob pattern to the task's target file. Patterns
// without a separator match the base name; patterns ending in /** match
// any file under that directory.
func pathMatches(pattern, file string) bool {
	if file == "" {
		return false
	}
	file = strings.ReplaceAll(file, "\\", "/")

	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		return file == prefix || strings.HasPrefix(file, prefix+"/")
	}
	if !strings.Contains(pattern, "/") {
		matched, err := path.Match(pattern, path.Base(file))
		return err == nil && matched
	}
	matched, err := path.Match(pattern, file)
	return err == nil && matched
}

// containsWord checks if text contains keyword as a whole word.
func containsWord(text, keyword string) bool {
	// Multi-word keywords use simple substring matching.
	if strings.Contains(keyword, " ") {
		return strings.Contains(text, keyword)
	}

	for _, word := range strings.Fields(text) {
		cleaned := strings.Trim(word, ".,;:!?\"'()[]{}")
		if cleaned == keyword {
			return true
		}
	}
	return false
}
