package render

import (
	"strings"
	"sync"
	"testing"
)

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{name: "heading", input: "# Fever", contains: []string{"Fever"}},
		{name: "bold", input: "drink **water**", contains: []string{"water"}},
		{name: "list", input: "- rest\n- fluids", contains: []string{"rest", "fluids"}},
		{name: "burmese", input: "ရေများများ သောက်ပါ", contains: []string{"ရေများများ"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Markdown(tt.input, DefaultOptions().WithStyle(ThemeNoTTY))
			if err != nil {
				t.Fatalf("Markdown() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output %q does not contain %q", out, want)
				}
			}
		})
	}
}

func TestReply(t *testing.T) {
	opts := DefaultOptions().WithStyle(ThemeNoTTY)

	if got := Reply("", opts); got != "" {
		t.Errorf("Reply(\"\") = %q", got)
	}
	if got := Reply("  ", opts); got != "  " {
		t.Errorf("Reply(blank) = %q", got)
	}

	got := Reply("**partial", opts)
	if !strings.Contains(got, "partial") {
		t.Errorf("Reply() = %q", got)
	}
	if strings.HasPrefix(got, "\n") || strings.HasSuffix(got, "\n") {
		t.Errorf("Reply() should be trimmed: %q", got)
	}
}

func TestMarkdown_Concurrent(t *testing.T) {
	ClearCache()
	opts := DefaultOptions().WithStyle(ThemeASCII)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Markdown("*hi*", opts); err != nil {
				t.Errorf("Markdown() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if CacheSize() != 1 {
		t.Errorf("CacheSize() = %d, want 1", CacheSize())
	}
}

func TestOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.Width != 80 || opts.Style != ThemeDark {
		t.Errorf("DefaultOptions() = %+v", opts)
	}
	if got := opts.WithWidth(5).Width; got != minWidth {
		t.Errorf("WithWidth(5) = %d, want %d", got, minWidth)
	}
	if got := opts.WithStyle("").Style; got != ThemeDark {
		t.Errorf("WithStyle(\"\") = %q", got)
	}
	if opts.WithWidth(100).key() == opts.key() {
		t.Error("keys should differ by width")
	}
}
