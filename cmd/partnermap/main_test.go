package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runFixture(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"PARTNERMAP_MODE", "PARTNERMAP_REDIS_ADDR", "PARTNERMAP_HTTP_TIMEOUT", "PARTNERMAP_CACHE_TTL"} {
		t.Setenv(k, "")
	}
	var out bytes.Buffer
	err := run(context.Background(), args, &out)
	return out.String(), err
}

func TestRun_Search(t *testing.T) {
	out, err := runFixture(t, "search", "-category", "food_basic_needs")
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if !strings.HasPrefix(out, "Found 3 partners\n") {
		t.Errorf("search output:\n%s", out)
	}
	if lines := strings.Count(out, "PTR-"); lines != 3 {
		t.Errorf("printed %d partners, want 3", lines)
	}

	out, err = runFixture(t, "search", "-limit", "2")
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if !strings.HasPrefix(out, "Found 12 partners\n") || strings.Count(out, "PTR-") != 2 {
		t.Errorf("limited search output:\n%s", out)
	}

	if _, err := runFixture(t, "search", "-category", "snacks"); err == nil || !strings.Contains(err.Error(), "unknown service category") {
		t.Errorf("bad category error = %v", err)
	}
}

func TestRun_Nearby(t *testing.T) {
	out, err := runFixture(t, "nearby", "-lat", "37.7749", "-lng", "-122.4194")
	if err != nil {
		t.Fatalf("nearby error: %v", err)
	}
	if !strings.Contains(out, "within 5.0 miles of (37.7749, -122.4194)") {
		t.Errorf("nearby output:\n%s", out)
	}

	out, err = runFixture(t, "nearby", "-lat", "37.7749", "-lng", "-122.4194", "-radius", "0")
	if err != nil {
		t.Fatalf("nearby error: %v", err)
	}
	if !strings.HasPrefix(out, "0 partners within 0.0 miles") {
		t.Errorf("explicit zero radius output:\n%s", out)
	}

	if _, err := runFixture(t, "nearby", "-lat", "37.7"); err == nil {
		t.Error("nearby without -lng succeeded")
	}
	if _, err := runFixture(t, "nearby", "-lat", "north", "-lng", "1"); err == nil || !strings.Contains(err.Error(), "invalid -lat") {
		t.Errorf("bad lat error = %v", err)
	}
}

func TestRun_Export(t *testing.T) {
	out, err := runFixture(t, "export", "directory", "-category", "food_basic_needs")
	if err != nil {
		t.Fatalf("export error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if !strings.HasPrefix(lines[0], "partner_id,organization_name") {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 4 {
		t.Errorf("rows = %d, want header plus 3", len(lines))
	}

	path := filepath.Join(t.TempDir(), "directory.json")
	if _, err := runFixture(t, "export", "directory", "-format", "json", "-o", path); err != nil {
		t.Fatalf("export to file error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		t.Errorf("json export = %.40s", data)
	}

	if _, err := runFixture(t, "export", "usage"); err == nil || !strings.Contains(err.Error(), "unknown report type") {
		t.Errorf("unknown report error = %v", err)
	}
	if _, err := runFixture(t, "export", "directory", "-format", "xml"); err == nil {
		t.Error("xml format accepted")
	}
	if _, err := runFixture(t, "export"); !errors.Is(err, errUsage) {
		t.Errorf("export without type error = %v, want usage", err)
	}
}

func TestRun_Usage(t *testing.T) {
	if _, err := runFixture(t); !errors.Is(err, errUsage) {
		t.Errorf("no args error = %v", err)
	}
	if _, err := runFixture(t, "identity", "add"); !errors.Is(err, errUsage) {
		t.Errorf("unknown command error = %v", err)
	}
	out, err := runFixture(t, "version")
	if err != nil || !strings.HasPrefix(out, "partnermap "+Version) {
		t.Errorf("version = %q, %v", out, err)
	}
}
