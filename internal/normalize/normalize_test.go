package normalize

import "testing"

func TestLine_StripsTrailingMarks(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Some text RELEASE IN PART B5,B6", "Some text"},
		{"RELEASE IN PART B5,B6", ""},
		{"RELEASE IN FULL", ""},
		{"Subject: meeting notes B6", "Subject: meeting notes"},
		{"Sent: Monday B7(C),B7(E)", "Sent: Monday"},
		{"From: someone B5, B6", "From: someone"},
		{"Attachment list PART", "Attachment list"},
		{"text RELEASE IN", "text"},
		{"B6", ""},
		{"PART", ""},
	}
	for _, tc := range cases {
		if got := Line(tc.in); got != tc.want {
			t.Errorf("Line(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLine_LeavesBodyTextAlone(t *testing.T) {
	cases := []string{
		"",
		"Ordinary sentence with no marks.",
		"The tank is FULL of water today",
		"This was HELPFUL",
		"Counterpart",
		"Room B6 is upstairs",
		"Unit AB6",
		"Version B66 is not a code",
		"RELEASE INFO",
	}
	for _, in := range cases {
		if got := Line(in); got != in {
			t.Errorf("Line(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestLine_Idempotent(t *testing.T) {
	inputs := []string{
		"Some text RELEASE IN PART B5,B6",
		"Body RELEASE IN FULL",
		"Body PART B6",
		"Body B7(C),B7(E),B6",
		"Body",
		"",
	}
	for _, in := range inputs {
		once := Line(in)
		if twice := Line(once); twice != once {
			t.Errorf("Line not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
