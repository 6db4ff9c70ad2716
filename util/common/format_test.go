package common

import "testing"

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "hello", "hello"},
		{"trims whitespace", "  hello  ", "hello"},
		{"escapes html", "<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"strips backslashes", `a\'b`, "a&#39;b"},
		{"quotes escaped", `he said "hi"`, "he said &#34;hi&#34;"},
		{"trim before escape", "  <b>  ", "&lt;b&gt;"},
		{"ampersand", "fish & chips", "fish &amp; chips"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeInput(tt.in)
			if got != tt.want {
				t.Errorf("SanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeInputIdempotentOnClean(t *testing.T) {
	in := "already clean text"
	if SanitizeInput(SanitizeInput(in)) != SanitizeInput(in) {
		t.Error("sanitizing clean text twice should not change it")
	}
}

func TestCombine(t *testing.T) {
	if err := Combine(nil, nil); err != nil {
		t.Errorf("Combine(nil, nil) = %v, want nil", err)
	}
	err := Combine(nil, NewError("boom"))
	if err == nil {
		t.Fatal("Combine with one error should not be nil")
	}
}
