package sanitize_test

import (
	"testing"

	"github.com/dalemusser/gatehouse/internal/app/system/sanitize"
)

func TestText_PlainText(t *testing.T) {
	got := sanitize.Text("Sam Smith")
	if got != "Sam Smith" {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestText_Empty(t *testing.T) {
	if got := sanitize.Text(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestText_RemovesScript(t *testing.T) {
	got := sanitize.Text("Delivery<script>alert('xss')</script>")
	if got != "Delivery" {
		t.Errorf("expected script removed, got %q", got)
	}
}

func TestText_StripsTagsKeepsContent(t *testing.T) {
	got := sanitize.Text("<b>Meeting</b> with staff")
	if got != "Meeting with staff" {
		t.Errorf("expected tags stripped, got %q", got)
	}
}

func TestText_RoundTripsEntities(t *testing.T) {
	got := sanitize.Text("Repairs & maintenance")
	if got != "Repairs & maintenance" {
		t.Errorf("expected ampersand preserved, got %q", got)
	}
}

func TestText_TrimsWhitespace(t *testing.T) {
	got := sanitize.Text("  front desk  ")
	if got != "front desk" {
		t.Errorf("expected trimmed, got %q", got)
	}
}
