// Package security scans skill files for credentials before they are uploaded.
// Findings are advisory; the scan never blocks an upload.
package security

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Severity ranks a finding.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityHigh    Severity = "high"
)

// SensitivePattern represents a pattern to detect sensitive data
type SensitivePattern struct {
	Name        string
	Pattern     *regexp.Regexp
	Description string
	Severity    Severity
}

// Detector performs sensitive data detection with configurable patterns.
type Detector struct {
	patterns []SensitivePattern
}

// DefaultPatterns returns the built-in sensitive data patterns.
func DefaultPatterns() []SensitivePattern {
	return []SensitivePattern{
		{
			Name:        "Anthropic API Key",
			Pattern:     regexp.MustCompile(`sk-ant-[a-zA-Z0-9_\-]{20,}`),
			Description: "Anthropic API key detected",
			Severity:    SeverityHigh,
		},
		{
			Name:        "API Key",
			Pattern:     regexp.MustCompile(`(?i)(api[_-]?key|apikey)\s*[:=]\s*['"]?[a-zA-Z0-9_\-]{16,}['"]?`),
			Description: "API key pattern detected",
			Severity:    SeverityWarning,
		},
		{
			Name:        "Token",
			Pattern:     regexp.MustCompile(`(?i)(token|access[_-]?token|auth[_-]?token)\s*[:=]\s*['"]?[a-zA-Z0-9_\-\.]{16,}['"]?`),
			Description: "Authentication token pattern detected",
			Severity:    SeverityWarning,
		},
		{
			Name:        "Password",
			Pattern:     regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[:=]\s*['"]?[a-zA-Z0-9_\-@!#$%^&*()]{8,}['"]?`),
			Description: "Password pattern detected",
			Severity:    SeverityWarning,
		},
		{
			Name:        "AWS Access Key",
			Pattern:     regexp.MustCompile(`AKIA[A-Z0-9]{16}`),
			Description: "AWS access key detected",
			Severity:    SeverityHigh,
		},
		{
			Name:        "AWS Secret Key",
			Pattern:     regexp.MustCompile(`(?i)(aws[_-]?secret[_-]?access[_-]?key|aws[_-]?secret)\s*[:=]\s*['"]?[a-zA-Z0-9/+]{40}['"]?`),
			Description: "AWS secret key detected",
			Severity:    SeverityHigh,
		},
		{
			Name:        "GitHub Token",
			Pattern:     regexp.MustCompile(`gh[pousr]_[a-zA-Z0-9]{36,}`),
			Description: "GitHub token detected",
			Severity:    SeverityHigh,
		},
		{
			Name:        "Private Key",
			Pattern:     regexp.MustCompile(`-----BEGIN\s+(RSA\s+|EC\s+|OPENSSH\s+)?PRIVATE\s+KEY-----`),
			Description: "Private key detected",
			Severity:    SeverityHigh,
		},
		{
			Name:        "Bearer Token",
			Pattern:     regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9_\-\.]{20,}`),
			Description: "Bearer token detected",
			Severity:    SeverityWarning,
		},
		{
			Name:        "Connection String",
			Pattern:     regexp.MustCompile(`(?i)(postgres|postgresql|mysql|mongodb|redis|amqp)://[^:\s]+:[^@\s]+@`),
			Description: "Connection string with credentials detected",
			Severity:    SeverityHigh,
		},
	}
}

// NewDetector creates a new detector with the given patterns.
// If patterns is nil or empty, uses DefaultPatterns().
func NewDetector(patterns []SensitivePattern) *Detector {
	if len(patterns) == 0 {
		patterns = DefaultPatterns()
	}
	return &Detector{patterns: patterns}
}

// Finding is one match of a sensitive pattern.
type Finding struct {
	File        string
	Line        int
	Column      int
	Pattern     string
	Severity    Severity
	Description string
	Excerpt     string
}

// String formats the finding as "<file>:<line>: <description>".
func (f Finding) String() string {
	if f.File == "" {
		return fmt.Sprintf("line %d: %s", f.Line, f.Description)
	}
	return fmt.Sprintf("%s:%d: %s", f.File, f.Line, f.Description)
}

// ScanContent scans one file's content. Each line reports at most one
// finding per pattern.
func (d *Detector) ScanContent(file, content string) []Finding {
	if content == "" {
		return nil
	}

	var findings []Finding
	for i, line := range strings.Split(content, "\n") {
		if isFalsePositive(line) {
			continue
		}
		for _, p := range d.patterns {
			loc := p.Pattern.FindStringIndex(line)
			if loc == nil {
				continue
			}
			findings = append(findings, Finding{
				File:        file,
				Line:        i + 1,
				Column:      loc[0] + 1,
				Pattern:     p.Name,
				Severity:    p.Severity,
				Description: p.Description,
				Excerpt:     truncateLine(line, 80),
			})
		}
	}
	return findings
}

// ScanFiles scans a set of files keyed by path. Entries whose content starts
// with skipPrefix (encoded binaries) are ignored. Findings are ordered by
// file and line.
func (d *Detector) ScanFiles(files map[string]string, skipPrefix string) []Finding {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var findings []Finding
	for _, name := range names {
		content := files[name]
		if skipPrefix != "" && strings.HasPrefix(content, skipPrefix) {
			continue
		}
		findings = append(findings, d.ScanContent(name, content)...)
	}
	return findings
}

// isFalsePositive checks if a line is likely a false positive
func isFalsePositive(line string) bool {
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, "#") ||
		strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*") {
		return true
	}

	idx := strings.IndexAny(trimmed, ":=")
	if idx == -1 {
		return false
	}
	value := strings.ToLower(strings.TrimSpace(trimmed[idx+1:]))
	value = strings.Trim(value, `"'`)

	return strings.Contains(value, "your_") ||
		strings.Contains(value, "<your") ||
		strings.Contains(value, "placeholder") ||
		strings.Contains(value, "example_") ||
		strings.HasPrefix(value, "xxx") ||
		strings.HasPrefix(value, "$")
}

// truncateLine trims a line and cuts it to maxLen display columns.
func truncateLine(line string, maxLen int) string {
	return runewidth.Truncate(strings.TrimSpace(line), maxLen, "...")
}

// ScanFiles scans files with the default patterns.
func ScanFiles(files map[string]string, skipPrefix string) []Finding {
	return NewDetector(nil).ScanFiles(files, skipPrefix)
}
