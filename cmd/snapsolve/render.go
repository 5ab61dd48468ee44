package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"snapsolve/internal/models"
)

var styles = struct {
	ok    lipgloss.Style
	muted lipgloss.Style
	warn  lipgloss.Style
}{
	ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	muted: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
}

func printMarkdown(w io.Writer, md string) error {
	if noColor {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func bulletList(b *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func codeBlock(b *strings.Builder, language, code string) {
	fmt.Fprintf(b, "```%s\n%s\n```\n\n", language, strings.TrimRight(code, "\n"))
}

func degradedNote(b *strings.Builder, degraded []string) {
	if len(degraded) > 0 {
		fmt.Fprintf(b, "_Partial reply, defaults used for: %s_\n", strings.Join(degraded, ", "))
	}
}

func solutionMarkdown(r *models.SolutionRecord) string {
	var b strings.Builder
	if r.Problem != "" {
		fmt.Fprintf(&b, "# Problem\n\n%s\n\n", r.Problem)
	}
	if len(r.Thoughts) > 0 {
		b.WriteString("## Thoughts\n\n")
		bulletList(&b, r.Thoughts)
	}
	b.WriteString("## Solution\n\n")
	codeBlock(&b, r.Language, r.Code)
	fmt.Fprintf(&b, "**Time:** %s  \n**Space:** %s\n\n", r.TimeComplexity, r.SpaceComplexity)
	degradedNote(&b, r.Degraded)
	return b.String()
}

func debugMarkdown(r *models.DebugRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Revision %d\n\n", r.Attempt)
	if len(r.Issues) > 0 {
		b.WriteString("## Issues\n\n")
		bulletList(&b, r.Issues)
	}
	if len(r.Improvements) > 0 {
		b.WriteString("## Improvements\n\n")
		bulletList(&b, r.Improvements)
	}
	if len(r.Thoughts) > 0 {
		b.WriteString("## Thoughts\n\n")
		bulletList(&b, r.Thoughts)
	}
	b.WriteString("## Code\n\n")
	codeBlock(&b, r.Language, r.Code)
	fmt.Fprintf(&b, "**Time:** %s  \n**Space:** %s\n\n", r.TimeComplexity, r.SpaceComplexity)
	degradedNote(&b, r.Degraded)
	return b.String()
}

func pagesMarkdown(res models.PagesResult) string {
	var b strings.Builder
	if len(res.Pages) == 0 {
		return "_No pages found._\n"
	}
	for _, p := range res.Pages {
		image := ""
		if p.Image != nil {
			image = " (image)"
		}
		fmt.Fprintf(&b, "## %s%s\n\n%s\n\n", p.Name, image, strings.TrimSpace(p.Content))
	}
	return b.String()
}
