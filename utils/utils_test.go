package utils

import "testing"

func TestFormatPence(t *testing.T) {
	tests := []struct {
		pence int64
		want  string
	}{
		{500, "£5.00"},
		{1050, "£10.50"},
		{50, "£0.50"},
		{256000, "£2560.00"},
		{0, "£0.00"},
	}

	for _, tt := range tests {
		if got := FormatPence(tt.pence); got != tt.want {
			t.Fatalf("FormatPence(%d) = %q, want %q", tt.pence, got, tt.want)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"alice@example.com", "bob.smith+tag@tea.co.uk"}
	for _, e := range valid {
		if !ValidateEmail(e) {
			t.Fatalf("expected %q to be valid", e)
		}
	}

	invalid := []string{"", "no-at-sign", "@missing.local", "trailing@dot."}
	for _, e := range invalid {
		if ValidateEmail(e) {
			t.Fatalf("expected %q to be invalid", e)
		}
	}
}

func TestValidateUsername(t *testing.T) {
	if !ValidateUsername("tea_lover42") {
		t.Fatal("expected tea_lover42 to be valid")
	}
	if ValidateUsername("ab") {
		t.Fatal("expected two character username to be invalid")
	}
	if ValidateUsername("has space") {
		t.Fatal("expected username with space to be invalid")
	}
}
