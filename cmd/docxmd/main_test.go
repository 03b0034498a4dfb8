package main

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/docxmd/internal/parser"
)

const document = `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>
<w:p><w:r><w:rPr><w:i/></w:rPr><w:t>Draft</w:t></w:r><w:ins w:id="1"><w:r><w:t xml:space="preserve"> v2</w:t></w:r></w:ins></w:p>
</w:body></w:document>`

const want = "*Draft*{+ v2+}\n"

func writeDocx(t *testing.T, dir string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(w, document); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "draft.docx")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_Stdout(t *testing.T) {
	input := writeDocx(t, t.TempDir())
	for _, output := range []string{"-", "", "  "} {
		var stdout bytes.Buffer
		cli := &CLI{Input: input, Output: output}
		if err := run(cli, &stdout, quiet()); err != nil {
			t.Fatalf("output %q: unexpected error: %v", output, err)
		}
		if stdout.String() != want {
			t.Errorf("output %q: expected %q, got %q", output, want, stdout.String())
		}
	}
}

func TestRun_WritesFile(t *testing.T) {
	dir := t.TempDir()
	input := writeDocx(t, dir)
	output := filepath.Join(dir, "nested", "deeper", "draft.md")

	var stdout bytes.Buffer
	if err := run(&CLI{Input: input, Output: output}, &stdout, quiet()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("expected nothing on stdout, got %q", stdout.String())
	}

	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(got) != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	info, err := os.Stat(output)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm&0o644 != 0o644 {
		t.Errorf("expected file readable by all, got %v", perm)
	}
}

func TestRun_HTML(t *testing.T) {
	input := writeDocx(t, t.TempDir())
	var stdout bytes.Buffer
	if err := run(&CLI{Input: input, Output: "-", HTML: true}, &stdout, quiet()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "<title>draft</title>") || !strings.Contains(out, "<em>Draft</em>") {
		t.Errorf("unexpected page:\n%s", out)
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()

	err := run(&CLI{Input: filepath.Join(dir, "missing.docx")}, io.Discard, quiet())
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected missing input error, got %v", err)
	}

	bad := filepath.Join(dir, "bad.docx")
	if err := os.WriteFile(bad, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}
	err = run(&CLI{Input: bad}, io.Discard, quiet())
	if !errors.Is(err, parser.ErrMalformedContainer) {
		t.Errorf("expected ErrMalformedContainer, got %v", err)
	}

	err = run(&CLI{Input: bad, Labels: "fr"}, io.Discard, quiet())
	if err == nil {
		t.Error("expected unknown labels to fail")
	}
}
