package ui

import (
	"testing"
)

func TestColorToggle(t *testing.T) {
	initial := IsColorEnabled()
	defer func() {
		if initial {
			EnableColors()
		} else {
			DisableColors()
		}
	}()

	DisableColors()
	if IsColorEnabled() {
		t.Error("expected colors to be disabled")
	}

	EnableColors()
	if !IsColorEnabled() {
		t.Error("expected colors to be enabled")
	}
}

func TestSetColorMode(t *testing.T) {
	initial := IsColorEnabled()
	defer func() {
		if initial {
			EnableColors()
		} else {
			DisableColors()
		}
	}()

	tests := map[string]struct {
		start   bool
		mode    string
		want    bool
		wantErr bool
	}{
		"always":         {start: false, mode: "always", want: true},
		"never":          {start: true, mode: "never", want: false},
		"auto keeps on":  {start: true, mode: "auto", want: true},
		"auto keeps off": {start: false, mode: "auto", want: false},
		"empty is auto":  {start: true, mode: "", want: true},
		"case folded":    {start: true, mode: " NEVER ", want: false},
		"invalid":        {start: true, mode: "sometimes", want: true, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if tt.start {
				EnableColors()
			} else {
				DisableColors()
			}

			err := SetColorMode(tt.mode)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SetColorMode(%q) error = %v, wantErr %v", tt.mode, err, tt.wantErr)
			}
			if IsColorEnabled() != tt.want {
				t.Errorf("IsColorEnabled() = %v, want %v", IsColorEnabled(), tt.want)
			}
		})
	}
}

func TestColorFunctions(t *testing.T) {
	DisableColors()
	defer EnableColors()

	// When colors are disabled, these should return the plain text
	fns := map[string]func(a ...interface{}) string{
		"Success": Success,
		"Error":   Error,
		"Warning": Warning,
		"Info":    Info,
		"Bold":    Bold,
		"Dim":     Dim,
		"Header":  Header,
	}
	for name, fn := range fns {
		if got := fn("test"); got != "test" {
			t.Errorf("%s() = %q, want %q", name, got, "test")
		}
	}
}

func TestPrefixedLines(t *testing.T) {
	DisableColors()
	defer EnableColors()

	if got := Warningf("%s:%d: %s", "SKILL.md", 3, "API key pattern detected"); got != "Warning: SKILL.md:3: API key pattern detected" {
		t.Errorf("Warningf() = %q", got)
	}
	if got := Errorf("Skill name %q is bad", "x"); got != `Error: Skill name "x" is bad` {
		t.Errorf("Errorf() = %q", got)
	}
}
