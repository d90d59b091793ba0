package usecase

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+7 (912) 345-67-89", "79123456789"},
		{"8 912 345 67 89", "89123456789"},
		{"no digits", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizePhone(tc.in); got != tc.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateSlug(t *testing.T) {
	valid := []string{"pizza", "pizza-24", "a", "sushi-bar-7"}
	for _, slug := range valid {
		if !ValidateSlug(slug) {
			t.Errorf("ValidateSlug(%q) = false, want true", slug)
		}
	}
	invalid := []string{"", "-pizza", "pizza-", "pizza--bar", "Pizza", "pizza bar", "пицца"}
	for _, slug := range invalid {
		if ValidateSlug(slug) {
			t.Errorf("ValidateSlug(%q) = true, want false", slug)
		}
	}
}
