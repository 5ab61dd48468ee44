// Package reply turns a model's free-form answer into structured fields.
//
// The reply layout is a convention the prompts ask for, not a contract the
// model honours, so every section is extracted on its own and falls back to a
// usable default instead of failing. Sections that fell back are listed in
// PartialRecord.Degraded.
package reply

import (
	"encoding/json"
	"regexp"
	"strings"
)

const (
	PlaceholderCode        = "// No code found in response"
	DefaultTimeComplexity  = "O(n) - Linear time complexity"
	DefaultSpaceComplexity = "O(n) - Linear space complexity"
)

// Section names reported in PartialRecord.Degraded.
const (
	SectionCode            = "code"
	SectionThoughts        = "thoughts"
	SectionTimeComplexity  = "timeComplexity"
	SectionSpaceComplexity = "spaceComplexity"
)

type PartialRecord struct {
	Problem         string
	Constraints     string
	Examples        string
	Code            string
	CodeLanguage    string
	Thoughts        []string
	TimeComplexity  string
	SpaceComplexity string
	Issues          []string
	Improvements    []string
	Degraded        []string
}

// IsDegraded reports whether section used its fallback.
func (p PartialRecord) IsDegraded(section string) bool {
	for _, s := range p.Degraded {
		if s == section {
			return true
		}
	}
	return false
}

// Parse extracts every known section from text. It never fails.
func Parse(text string) PartialRecord {
	text = unwrapMarkdown(strings.ReplaceAll(text, "\r\n", "\n"))
	blocks, prose := splitFences(text)
	sections := splitSections(prose)

	var rec PartialRecord
	rec.Problem = firstSection(sections, "problem")
	rec.Constraints = firstSection(sections, "constraints")
	rec.Examples = firstSection(sections, "examples")
	rec.Issues = bullets(firstSection(sections, "issues"))
	rec.Improvements = bullets(firstSection(sections, "improvements"))

	thoughtsBlock, codeBlock := pickBlocks(blocks)

	if codeBlock != nil && strings.TrimSpace(codeBlock.body) != "" {
		rec.Code = codeBlock.body
		rec.CodeLanguage = codeBlock.lang
		if !codeBlock.closed {
			rec.Degraded = append(rec.Degraded, SectionCode)
		}
	} else {
		rec.Code = PlaceholderCode
		rec.Degraded = append(rec.Degraded, SectionCode)
	}

	thoughts, ok := parseThoughts(thoughtsBlock, sections)
	rec.Thoughts = thoughts
	if !ok {
		rec.Degraded = append(rec.Degraded, SectionThoughts)
	}

	if v := matchComplexity(timeComplexityRe, prose); v != "" {
		rec.TimeComplexity = v
	} else {
		rec.TimeComplexity = DefaultTimeComplexity
		rec.Degraded = append(rec.Degraded, SectionTimeComplexity)
	}
	if v := matchComplexity(spaceComplexityRe, prose); v != "" {
		rec.SpaceComplexity = v
	} else {
		rec.SpaceComplexity = DefaultSpaceComplexity
		rec.Degraded = append(rec.Degraded, SectionSpaceComplexity)
	}
	return rec
}

type fence struct {
	lang   string
	body   string
	closed bool
}

var fenceOpenRe = regexp.MustCompile("^\\s*(`{3,}|~{3,})\\s*([^\\s`]*)")

// splitFences separates fenced blocks from the surrounding prose. An
// unterminated fence runs to the end of the text.
func splitFences(text string) ([]fence, string) {
	lines := strings.Split(text, "\n")
	var blocks []fence
	var prose []string

	for i := 0; i < len(lines); i++ {
		m := fenceOpenRe.FindStringSubmatch(lines[i])
		if m == nil {
			prose = append(prose, lines[i])
			continue
		}
		marker := m[1]
		f := fence{lang: strings.ToLower(strings.TrimSpace(m[2]))}
		var body []string
		j := i + 1
		for ; j < len(lines); j++ {
			if isFenceClose(lines[j], marker) {
				f.closed = true
				break
			}
			body = append(body, lines[j])
		}
		f.body = strings.Join(body, "\n")
		blocks = append(blocks, f)
		i = j
	}
	return blocks, strings.Join(prose, "\n")
}

// unwrapMarkdown strips a markdown fence wrapped around the whole reply so
// the blocks inside it are parsed normally. The outer closing fence is only
// dropped when the fence lines inside are unbalanced.
func unwrapMarkdown(text string) string {
	first, rest, ok := strings.Cut(strings.TrimLeft(text, " \t\n"), "\n")
	if !ok {
		return text
	}
	m := fenceOpenRe.FindStringSubmatch(first)
	if m == nil {
		return text
	}
	if lang := strings.ToLower(m[2]); lang != "markdown" && lang != "md" {
		return text
	}

	lines := strings.Split(strings.TrimRight(rest, " \t\n"), "\n")
	fences := 0
	for _, line := range lines {
		if fenceOpenRe.MatchString(line) {
			fences++
		}
	}
	if last := len(lines) - 1; fences%2 == 1 && isFenceClose(lines[last], m[1]) {
		lines = lines[:last]
	}
	return strings.Join(lines, "\n")
}

func isFenceClose(line, marker string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < len(marker) {
		return false
	}
	return strings.Trim(trimmed, marker[:1]) == "" && trimmed[0] == marker[0]
}

// pickBlocks chooses the thoughts block (first json block, or an unlabelled
// block holding JSON) and the code block (first other block).
func pickBlocks(blocks []fence) (*fence, *fence) {
	var thoughts, code *fence
	for i := range blocks {
		b := &blocks[i]
		isJSON := b.lang == "json" || (b.lang == "" && looksLikeJSON(b.body))
		switch {
		case isJSON && thoughts == nil:
			thoughts = b
		case !isJSON && code == nil:
			code = b
		}
	}
	return thoughts, code
}

func looksLikeJSON(body string) bool {
	t := strings.TrimSpace(body)
	if t == "" {
		return false
	}
	if t[0] != '{' && t[0] != '[' {
		return false
	}
	return json.Valid([]byte(t))
}

type thoughtsDoc struct {
	Thoughts []string `json:"thoughts"`
}

// parseThoughts returns the thoughts list and whether it came from the
// expected structured form (a JSON block or a Thoughts section).
func parseThoughts(block *fence, sections map[string][]string) ([]string, bool) {
	if block != nil {
		body := strings.TrimSpace(block.body)
		var doc thoughtsDoc
		if err := json.Unmarshal([]byte(body), &doc); err == nil && doc.Thoughts != nil {
			return doc.Thoughts, true
		}
		var list []string
		if err := json.Unmarshal([]byte(body), &list); err == nil {
			return list, true
		}
		return flatBullets(body), false
	}
	if inline := findInlineThoughts(sections); inline != nil {
		return inline, true
	}
	if items := bullets(firstSection(sections, "thoughts")); len(items) > 0 {
		return items, true
	}
	return []string{}, false
}

// findInlineThoughts looks for an unfenced {"thoughts": [...]} object inside
// the thoughts section.
func findInlineThoughts(sections map[string][]string) []string {
	text := firstSection(sections, "thoughts")
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil
	}
	var doc thoughtsDoc
	if err := json.Unmarshal([]byte(text[start:end+1]), &doc); err != nil {
		return nil
	}
	return doc.Thoughts
}

var sectionAliases = map[string]string{
	"problem":                "problem",
	"problem statement":      "problem",
	"constraints":            "constraints",
	"example":                "examples",
	"examples":               "examples",
	"thoughts":               "thoughts",
	"my thoughts":            "thoughts",
	"approach":               "thoughts",
	"key insights":           "thoughts",
	"code":                   "code",
	"solution":               "code",
	"complexity":             "complexity",
	"time complexity":        "complexity",
	"space complexity":       "complexity",
	"issues":                 "issues",
	"issues identified":      "issues",
	"improvements":           "improvements",
	"specific improvements":  "improvements",
	"suggested improvements": "improvements",
}

var headingRe = regexp.MustCompile(`(?i)^\s*(?:#{1,6}\s*)?(?:\*\*)?\s*([a-z][a-z ]*?)\s*(?:\*\*)?\s*(?::\s*(?:\*\*)?\s*(.*?)\s*$|$)`)

// splitSections groups prose lines under the most recent known heading.
func splitSections(prose string) map[string][]string {
	sections := make(map[string][]string)
	current := ""
	for _, line := range strings.Split(prose, "\n") {
		if m := headingRe.FindStringSubmatch(line); m != nil {
			if name, ok := sectionAliases[strings.ToLower(strings.TrimSpace(m[1]))]; ok {
				current = name
				if _, seen := sections[current]; !seen {
					sections[current] = nil
				}
				if rest := strings.TrimSpace(m[2]); rest != "" {
					sections[current] = append(sections[current], rest)
				}
				continue
			}
		}
		if current != "" {
			sections[current] = append(sections[current], line)
		}
	}
	return sections
}

func firstSection(sections map[string][]string, name string) string {
	return strings.TrimSpace(strings.Join(sections[name], "\n"))
}

var bulletPrefixRe = regexp.MustCompile(`^(?:[-*•+]|\d+[.)])\s+`)

// bullets splits a section into items, one per non-empty line.
func bullets(text string) []string {
	items := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(bulletPrefixRe.ReplaceAllString(line, ""))
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}

var jsonKeyRe = regexp.MustCompile(`^"[^"]*"\s*:\s*`)

// flatBullets recovers list items from a JSON-ish block that failed to parse.
func flatBullets(body string) []string {
	items := []string{}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		line = jsonKeyRe.ReplaceAllString(line, "")
		line = strings.Trim(line, "{}[], \t")
		line = strings.TrimSpace(strings.Trim(line, `"`))
		line = strings.TrimSpace(bulletPrefixRe.ReplaceAllString(line, ""))
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}

var (
	timeComplexityRe  = regexp.MustCompile(`(?im)^[ \t>*#\-]*(?:\*\*)?time[ \t]+complexity(?:\*\*)?[ \t]*[:\-–][ \t]*(.+)$`)
	spaceComplexityRe = regexp.MustCompile(`(?im)^[ \t>*#\-]*(?:\*\*)?space[ \t]+complexity(?:\*\*)?[ \t]*[:\-–][ \t]*(.+)$`)
)

func matchComplexity(re *regexp.Regexp, prose string) string {
	m := re.FindStringSubmatch(prose)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(m[1]), "*"))
}
