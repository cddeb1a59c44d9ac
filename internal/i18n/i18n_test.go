package i18n

import (
	"context"
	"strings"
	"testing"
)

func TestInitAndTranslate(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	ctx := WithLocalizer(context.Background(), NewLocalizer("en"))
	if got := T(ctx, "no_curriculum"); got == "" || got == "no_curriculum" {
		t.Errorf("T(no_curriculum) = %q", got)
	}

	got := Td(ctx, "course_complete", map[string]any{"Total": 7})
	if !strings.Contains(got, "7") {
		t.Errorf("Td(course_complete) = %q, want the day count interpolated", got)
	}
}

func TestRussianLocale(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	ctx := WithLocalizer(context.Background(), NewLocalizer("ru"))
	got := T(ctx, "no_curriculum")
	if got == "" || got == "no_curriculum" {
		t.Fatalf("T(no_curriculum) = %q", got)
	}
	en := T(WithLocalizer(context.Background(), NewLocalizer("en")), "no_curriculum")
	if got == en {
		t.Errorf("ru translation identical to en: %q", got)
	}
}

func TestMissingIDFallsBackToID(t *testing.T) {
	if err := Init("en"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	ctx := WithLocalizer(context.Background(), NewLocalizer("en"))
	if got := T(ctx, "definitely_not_a_message"); got != "definitely_not_a_message" {
		t.Errorf("missing id = %q", got)
	}
}

func TestInitRejectsBadLanguage(t *testing.T) {
	if err := Init("not a tag!"); err == nil {
		t.Error("expected error for malformed language tag")
	}
}
