package resolver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolvePath_SearchOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	os.WriteFile(filepath.Join(second, "LICENSE.txt"), []byte("second"), 0644)

	path, err := ResolvePath("LICENSE.txt", []string{"", first, second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != filepath.Join(second, "LICENSE.txt") {
		t.Errorf("expected file from second dir, got %q", path)
	}

	os.WriteFile(filepath.Join(first, "LICENSE.txt"), []byte("first"), 0644)
	path, _ = ResolvePath("LICENSE.txt", []string{first, second})
	if path != filepath.Join(first, "LICENSE.txt") {
		t.Errorf("expected earlier dir to win, got %q", path)
	}
}

func TestResolvePath_NotFound(t *testing.T) {
	_, err := ResolvePath("missing.txt", []string{t.TempDir()})
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestResolvePath_Absolute(t *testing.T) {
	path, err := ResolvePath("/abs/LICENSE", nil)
	if err != nil || path != "/abs/LICENSE" {
		t.Errorf("expected absolute path returned as-is, got %q, %v", path, err)
	}
}

func TestResolveDocDir_Explicit(t *testing.T) {
	dir, err := ResolveDocDir("docs", []string{filepath.Join("..", "testdata")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(dir) != "docs" {
		t.Errorf("expected docs dir, got %q", dir)
	}
}

func TestResolveDocDir_EnvVar(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(DocPathEnv, tmp)

	dir, err := ResolveDocDir("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != tmp {
		t.Errorf("expected %q, got %q", tmp, dir)
	}
}

func TestResolveDocDir_EnvVarNotFound(t *testing.T) {
	t.Setenv(DocPathEnv, "/nonexistent/docs")
	if _, err := ResolveDocDir("", nil); err == nil {
		t.Error("expected error for nonexistent env path")
	}
}

func TestResolveDocDir_None(t *testing.T) {
	t.Setenv(DocPathEnv, "")
	dir, err := ResolveDocDir("", nil)
	if err != nil || dir != "" {
		t.Errorf("expected no doc dir, got %q, %v", dir, err)
	}
}

func TestResolveDocDir_FlagTakesPrecedence(t *testing.T) {
	flagDir := t.TempDir()
	t.Setenv(DocPathEnv, t.TempDir())

	dir, err := ResolveDocDir(flagDir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != flagDir {
		t.Errorf("expected flag path %q, got %q", flagDir, dir)
	}
}

func TestResolveDocDir_NotADirectory(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "docs")
	os.WriteFile(file, []byte("x"), 0644)
	if _, err := ResolveDocDir(file, nil); err == nil {
		t.Error("expected error for file given as doc dir")
	}
}

func TestReadLicense(t *testing.T) {
	text, err := ReadLicense("LICENSE.txt", []string{filepath.Join("..", "testdata")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(text, "// Copyright (c) 2006 - 2010 the Open Toolkit library.") {
		t.Errorf("expected verbatim license text, got %q", text)
	}

	text, err = ReadLicense("", nil)
	if err != nil || text != "" {
		t.Errorf("expected empty license for empty path, got %q, %v", text, err)
	}
}
