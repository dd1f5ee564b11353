package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{"version: ", "commit: ", "built: "} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestTemplate(t *testing.T) {
	if got := Template(); !strings.HasPrefix(got, "{{.Name}} version ") {
		t.Errorf("Template() = %q", got)
	}
}

func TestUserAgent(t *testing.T) {
	if got := UserAgent(); got != "dxfsvg/"+Get().Version {
		t.Errorf("UserAgent() = %q", got)
	}
}
