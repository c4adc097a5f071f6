package interpretation

import (
	"bytes"
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"cosmonumero/internal/numerology"
)

//go:embed prompt.yaml
var defaultPromptYAML []byte

type sectionSpec struct {
	Field   string `yaml:"field"`
	Heading string `yaml:"heading"`
}

type promptFile struct {
	System   string        `yaml:"system"`
	User     string        `yaml:"user"`
	Sections []sectionSpec `yaml:"sections"`
}

type section struct {
	field   string
	pattern *regexp.Regexp
}

// Prompt renders chat messages for a subject and parses the model's answer
// back into a Narrative.
type Prompt struct {
	system   string
	user     *template.Template
	sections []section
}

type promptData struct {
	FullName     string
	BirthDate    string
	CurrentDate  string
	LifePath     int
	Destiny      int
	PersonalYear int
}

// DefaultPrompt is the embedded Portuguese prompt.
func DefaultPrompt() (*Prompt, error) {
	return ParsePrompt(defaultPromptYAML)
}

// ParsePrompt loads a prompt definition. Every narrative field needs a section.
func ParsePrompt(raw []byte) (*Prompt, error) {
	var pf promptFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return nil, fmt.Errorf("decode prompt: %w", err)
	}
	if strings.TrimSpace(pf.System) == "" || strings.TrimSpace(pf.User) == "" {
		return nil, fmt.Errorf("prompt needs system and user templates")
	}
	tmpl, err := template.New("user").Option("missingkey=error").Parse(pf.User)
	if err != nil {
		return nil, fmt.Errorf("parse user template: %w", err)
	}

	p := &Prompt{system: strings.TrimSpace(pf.System), user: tmpl}
	var probe Narrative
	seen := map[string]bool{}
	for _, s := range pf.Sections {
		if probe.field(s.Field) == nil {
			return nil, fmt.Errorf("unknown section field %q", s.Field)
		}
		if s.Heading == "" {
			return nil, fmt.Errorf("section %q has no heading", s.Field)
		}
		seen[s.Field] = true
		p.sections = append(p.sections, section{field: s.Field, pattern: headingPattern(s.Heading)})
	}
	if len(seen) != len(probe.fields()) {
		return nil, fmt.Errorf("prompt defines %d of %d sections", len(seen), len(probe.fields()))
	}
	return p, nil
}

// headingPattern matches "Heading:" with optional numbering, markdown
// emphasis or header marks before it.
func headingPattern(heading string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^[\d.\s#*_]*` + regexp.QuoteMeta(heading) + `[*_\s]*:[*_\s]*`)
}

// System is the system message.
func (p *Prompt) System() string { return p.system }

// User renders the user message for a subject.
func (p *Prompt) User(subject Subject, r numerology.Result) (string, error) {
	data := promptData{
		FullName:     subject.FullName,
		BirthDate:    subject.BirthDate.String(),
		CurrentDate:  subject.CurrentDate.Format("2006-01-02"),
		LifePath:     r.LifePathNumber,
		Destiny:      r.DestinyNumber,
		PersonalYear: r.PersonalYearNumber,
	}
	var buf bytes.Buffer
	if err := p.user.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// Parse splits a model answer on blank lines. A paragraph starting with a
// known heading opens that section; other paragraphs continue the current one.
func (p *Prompt) Parse(text string) Narrative {
	var n Narrative
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var current *string
	for _, para := range splitParagraphs(text) {
		if field, rest, ok := p.matchHeading(para); ok {
			current = n.field(field)
			*current = rest
			continue
		}
		if current == nil {
			continue
		}
		if *current == "" {
			*current = para
		} else {
			*current += "\n\n" + para
		}
	}
	for _, f := range n.fields() {
		*f = strings.TrimSpace(*f)
	}
	return n
}

func (p *Prompt) matchHeading(para string) (string, string, bool) {
	for _, s := range p.sections {
		if loc := s.pattern.FindStringIndex(para); loc != nil {
			return s.field, strings.TrimSpace(para[loc[1]:]), true
		}
	}
	return "", "", false
}

var blankLine = regexp.MustCompile(`\n[ \t]*\n`)

func splitParagraphs(text string) []string {
	var out []string
	for _, part := range blankLine.Split(text, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
