package store

import (
	"reflect"
	"testing"
)

func TestUnderPrefix(t *testing.T) {
	tests := []struct {
		key, prefix string
		want        bool
	}{
		{"partners/list", "partners", true},
		{"partners", "partners", true},
		{"partnership", "partners", false},
		{"search/partners", "partners", false},
		{"network/partner/2/connections", "network/partner/2", true},
		{"anything", "", true},
	}

	for _, tt := range tests {
		if got := UnderPrefix(tt.key, tt.prefix); got != tt.want {
			t.Errorf("UnderPrefix(%q, %q) = %v, want %v", tt.key, tt.prefix, got, tt.want)
		}
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := NewMemoryStore()
	v := []byte("abc")
	s.Set("k", v)
	v[0] = 'x'

	got, _ := s.Get("k")
	if string(got) != "abc" {
		t.Errorf("Get() = %s, want abc", got)
	}
	got[1] = 'y'
	again, _ := s.Get("k")
	if string(again) != "abc" {
		t.Errorf("stored value mutated through Get: %s", again)
	}
}

func TestAncestors(t *testing.T) {
	tests := []struct {
		key  string
		want []string
	}{
		{"", []string{""}},
		{"partners", []string{"", "partners"}},
		{"network/partner/2/connections", []string{"", "network", "network/partner", "network/partner/2", "network/partner/2/connections"}},
	}
	for _, tt := range tests {
		if got := Ancestors(tt.key); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Ancestors(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
