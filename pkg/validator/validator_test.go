package validator

import (
	"strings"
	"testing"

	"github.com/Amanyadav207/sheetguard/internal/domain"
)

func TestEmail(t *testing.T) {
	cases := []struct {
		name  string
		value string
		valid bool
	}{
		{"simple", "alice@example.com", true},
		{"plus tag", "alice+tag@example.com", true},
		{"subdomain", "bob@mail.example.co.uk", true},
		{"empty", "", false},
		{"no at sign", "alice.example.com", false},
		{"no tld", "alice@example", false},
		{"single letter tld", "alice@example.c", false},
		{"spaces", "alice smith@example.com", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := Email(tc.value)
			if ok != tc.valid {
				t.Fatalf("Email(%q) = %v (%s), want %v", tc.value, ok, reason, tc.valid)
			}
			if !ok && reason == "" {
				t.Fatalf("invalid email %q returned empty reason", tc.value)
			}
		})
	}
}

func TestEmailTooLong(t *testing.T) {
	value := strings.Repeat("a", 250) + "@example.com"
	ok, reason := Email(value)
	if ok {
		t.Fatalf("expected over-length email to fail")
	}
	if !strings.Contains(reason, "255") {
		t.Fatalf("expected length reason, got %q", reason)
	}
}

func TestName(t *testing.T) {
	cases := []struct {
		name  string
		value string
		valid bool
	}{
		{"simple", "Alice Smith", true},
		{"hyphenated", "Mary-Jane Watson", true},
		{"apostrophe", "O'Brien", true},
		{"unicode", "José García", true},
		{"empty", "", false},
		{"single char", "A", false},
		{"digits", "Alice2", false},
		{"symbols", "Alice@Smith", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := Name(tc.value)
			if ok != tc.valid {
				t.Fatalf("Name(%q) = %v (%s), want %v", tc.value, ok, reason, tc.valid)
			}
		})
	}
}

func TestYearRange(t *testing.T) {
	for _, year := range []int{1, 2, 3, 4} {
		y := year
		if ok, reason := Year(&y, ""); !ok {
			t.Fatalf("Year(%d) rejected: %s", year, reason)
		}
	}
	for _, year := range []int{0, 5, -1, 10} {
		y := year
		ok, reason := Year(&y, "")
		if ok {
			t.Fatalf("Year(%d) accepted, want rejection", year)
		}
		if !strings.Contains(reason, "between 1 and 4") {
			t.Fatalf("Year(%d) reason = %q, want range message", year, reason)
		}
	}
}

func TestYearMissingIsValid(t *testing.T) {
	if ok, reason := Year(nil, ""); !ok {
		t.Fatalf("missing year rejected: %s", reason)
	}
}

func TestYearUncoercedRawFails(t *testing.T) {
	ok, reason := Year(nil, "1.5")
	if ok {
		t.Fatalf("expected uncoerced year to fail")
	}
	if reason != "year must be a valid integer, got: 1.5" {
		t.Fatalf("unexpected reason: %q", reason)
	}
}

func TestPhone(t *testing.T) {
	valid := []string{
		"+1 (555) 123-4567",
		"5551234567",
		"555 123 4567",
	}
	for _, v := range valid {
		value := v
		if ok, reason := Phone(&value); !ok {
			t.Fatalf("Phone(%q) rejected: %s", v, reason)
		}
	}

	invalid := []struct {
		value  string
		reason string
	}{
		{"555-1234", "at least 10 digits"},
		{"phone: 5551234567", "invalid characters"},
		{"+1 (555) 123-4567 ext 89", "invalid characters"},
	}
	for _, tc := range invalid {
		value := tc.value
		ok, reason := Phone(&value)
		if ok {
			t.Fatalf("Phone(%q) accepted, want rejection", tc.value)
		}
		if !strings.Contains(reason, tc.reason) {
			t.Fatalf("Phone(%q) reason = %q, want substring %q", tc.value, reason, tc.reason)
		}
	}
}

func TestPhoneMissingIsValid(t *testing.T) {
	if ok, _ := Phone(nil); !ok {
		t.Fatalf("missing phone rejected")
	}
	empty := ""
	if ok, _ := Phone(&empty); !ok {
		t.Fatalf("empty phone rejected")
	}
}

func TestDepartment(t *testing.T) {
	valid := []string{"Computer Science", "Physics", "Economics 101"}
	for _, v := range valid {
		value := v
		if ok, reason := Department(&value); !ok {
			t.Fatalf("Department(%q) rejected: %s", v, reason)
		}
	}

	invalid := []string{"X", "Comp/Sci", "Dept."}
	for _, v := range invalid {
		value := v
		if ok, _ := Department(&value); ok {
			t.Fatalf("Department(%q) accepted, want rejection", v)
		}
	}
}

func TestRecordFieldOrder(t *testing.T) {
	// Email and name are both bad; the email failure must win.
	bad := domain.CanonicalRecord{Email: "not-an-email", Name: "X"}
	ok, reason := Record(bad)
	if ok {
		t.Fatalf("expected record rejection")
	}
	if !strings.HasPrefix(reason, "email") {
		t.Fatalf("expected email failure to win, got %q", reason)
	}
}

func TestRecordSingleReason(t *testing.T) {
	year := 9
	phone := "123"
	rec := domain.CanonicalRecord{
		Email: "alice@example.com",
		Name:  "Alice Smith",
		Year:  &year,
		Phone: &phone,
	}
	ok, reason := Record(rec)
	if ok {
		t.Fatalf("expected record rejection")
	}
	if !strings.HasPrefix(reason, "year") {
		t.Fatalf("expected year failure first, got %q", reason)
	}
	if strings.Contains(reason, "phone") {
		t.Fatalf("reason should carry only the first failure, got %q", reason)
	}
}

func TestRecordValid(t *testing.T) {
	year := 2
	phone := "+1 555 123 4567"
	dept := "Computer Science"
	rec := domain.CanonicalRecord{
		Email:      "alice@example.com",
		Name:       "Alice Smith",
		Year:       &year,
		Phone:      &phone,
		Department: &dept,
	}
	if ok, reason := Record(rec); !ok {
		t.Fatalf("valid record rejected: %s", reason)
	}
}
