package domain

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		err  error
	}{
		{in: "doctor", want: RoleDoctor},
		{in: " Patient ", want: RolePatient},
		{in: "nurse", err: ErrInvalidRole},
		{in: "", err: ErrInvalidRole},
	}
	for _, c := range cases {
		got, err := ParseRole(c.in)
		if !errors.Is(err, c.err) {
			t.Fatalf("ParseRole(%q) error = %v, want %v", c.in, err, c.err)
		}
		if got != c.want {
			t.Fatalf("ParseRole(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRoleLanguages(t *testing.T) {
	src, dst := RoleDoctor.Languages()
	if src != LangEnglish || dst != LangSpanish {
		t.Fatalf("doctor expected en->es, got %s->%s", src, dst)
	}
	src, dst = RolePatient.Languages()
	if src != LangSpanish || dst != LangEnglish {
		t.Fatalf("patient expected es->en, got %s->%s", src, dst)
	}
}
