package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_KnownTitles(t *testing.T) {
	c := Default()
	tests := []struct {
		level int
		text  string
		want  bool
	}{
		{1, "Introducción", true},
		{1, "introduccion", true},
		{1, "12. Introducción", true},
		{2, "Análisis FODA", true},
		{2, "ANALISIS  FODA", true},
		{3, "01. Plan de formación integral del estudiante", true},
		{3, "Plan de formación integral del estudiante", true},
		{1, "Análisis FODA", false},
		{2, "Sección inventada", false},
		{4, "Introducción", false},
		{0, "Introducción", false},
	}
	for _, tt := range tests {
		if got := c.Allowed(tt.level, tt.text); got != tt.want {
			t.Errorf("Allowed(%d, %q) = %v, want %v", tt.level, tt.text, got, tt.want)
		}
	}
}

func TestLoad_OverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := "level1:\n  - Resumen Ejecutivo\nlevel2:\n  - Contexto\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write catalog file: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Allowed(1, "resumen ejecutivo") {
		t.Error("expected loaded level1 title to be allowed")
	}
	if !c.Allowed(2, "Contexto") {
		t.Error("expected loaded level2 title to be allowed")
	}
	if c.Allowed(1, "Introducción") {
		t.Error("default titles should not leak into a loaded catalogue")
	}
	if c.Allowed(3, "Contexto") {
		t.Error("expected empty level3 list to reject everything")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing catalogue file")
	}
}

func TestParse_Malformed(t *testing.T) {
	if _, err := Parse([]byte("level1: {not: [a, list")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
