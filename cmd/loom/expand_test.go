package main

import (
	"reflect"
	"testing"
)

func TestParseParams(t *testing.T) {
	got, err := parseParams([]string{"title=Hello", "count=3", "on=true", "ratio=0.5"})
	if err != nil {
		t.Fatalf("parseParams() failed: %v", err)
	}

	want := map[string]any{
		"title": "Hello",
		"count": 3,
		"on":    true,
		"ratio": 0.5,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseParams() = %#v, want %#v", got, want)
	}
}

func TestParseParams_Invalid(t *testing.T) {
	if _, err := parseParams([]string{"novalue"}); err == nil {
		t.Error("parseParams(novalue) succeeded, want error")
	}
	if _, err := parseParams([]string{"=x"}); err == nil {
		t.Error("parseParams(=x) succeeded, want error")
	}
}

func TestParseParams_Empty(t *testing.T) {
	got, err := parseParams(nil)
	if err != nil {
		t.Fatalf("parseParams(nil) failed: %v", err)
	}
	if got != nil {
		t.Errorf("parseParams(nil) = %v, want nil", got)
	}
}
