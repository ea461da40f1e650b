package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"jdparse-engine/internal/extract"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	writeFile(t, path, "app:\n  port: 9000\nvocabulary:\n  skills: [Zig]\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Default()
	want.App.Port = 9000
	want.Vocabulary.Skills = []string{"Zig"}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v", err)
	}
	bad := filepath.Join(dir, "bad.yml")
	writeFile(t, bad, "app: [\n")
	if _, err := Load(bad); err == nil {
		t.Error("expected parse error")
	}
}

func TestNormalizeAndValidate(t *testing.T) {
	cfg := Default()
	cfg.Vocabulary.Skills = []string{" Zig ", "zig", "", "Rust"}
	cfg.Vocabulary.Languages = []string{"rust"}

	out, res := NormalizeAndValidate(cfg)
	if !res.OK() {
		t.Fatalf("errors = %v", res.Errors)
	}
	if diff := cmp.Diff([]string{"Zig", "Rust"}, out.Vocabulary.Skills); diff != "" {
		t.Errorf("skills (-want +got):\n%s", diff)
	}
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %v, want one overlap warning", res.Warnings)
	}

	cfg = Default()
	cfg.App.Port = 0
	cfg.Parser.MaxInputBytes = 0
	_, res = NormalizeAndValidate(cfg)
	if len(res.Errors) != 2 {
		t.Errorf("errors = %v", res.Errors)
	}
	if err := Validate(cfg); !errors.Is(err, ErrInvalid) {
		t.Errorf("Validate err = %v, want ErrInvalid", err)
	}
	if err := Validate(Default()); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSaveAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yml")

	if err := SaveAtomic(path, Default()); err != nil {
		t.Fatal(err)
	}
	next := Default()
	next.App.Port = 9000
	if err := SaveAtomic(path, next); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.App.Port != 9000 {
		t.Errorf("port = %d", got.App.Port)
	}
	bak, err := Load(path + ".bak")
	if err != nil {
		t.Fatal(err)
	}
	if bak.App.Port != 38471 {
		t.Errorf("backup port = %d", bak.App.Port)
	}

	bad := Default()
	bad.App.Port = -1
	if err := SaveAtomic(path, bad); !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
	if got, _ := Load(path); got.App.Port != 9000 {
		t.Error("invalid save replaced the file")
	}
}

func TestEnsureUserConfig(t *testing.T) {
	t.Run("from defaults", func(t *testing.T) {
		dir := t.TempDir()
		path, err := EnsureUserConfig(dir, filepath.Join(dir, "nope.yml"))
		if err != nil {
			t.Fatal(err)
		}
		got, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(Default(), got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("copies template once", func(t *testing.T) {
		dir := t.TempDir()
		tmpl := filepath.Join(dir, "template.yml")
		writeFile(t, tmpl, "app:\n  port: 7000\n")

		path, err := EnsureUserConfig(dir, tmpl)
		if err != nil {
			t.Fatal(err)
		}
		writeFile(t, tmpl, "app:\n  port: 7001\n")
		if _, err := EnsureUserConfig(dir, tmpl); err != nil {
			t.Fatal(err)
		}
		got, _ := Load(path)
		if got.App.Port != 7000 {
			t.Errorf("port = %d, want the first copy kept", got.App.Port)
		}
	})
}

func TestConfigVocabulary(t *testing.T) {
	cfg := Default()
	cfg.Vocabulary.Skills = []string{"Zig"}
	p, err := extract.NewParser(extract.Options{Vocabulary: cfg.ParserVocabulary()})
	if err != nil {
		t.Fatal(err)
	}
	skills := p.Parse("Requirements:\n- Zig").Requirements.Skills
	if len(skills) != 1 || skills[0].Name != "Zig" {
		t.Errorf("skills = %+v", skills)
	}

	if cfg.ParserVocabulary().ClauseWindows {
		t.Error("clause windows on by default")
	}
	cfg.Parser.ClauseWindows = true
	if !cfg.ParserVocabulary().ClauseWindows {
		t.Error("parser.clause_windows not carried into the vocabulary")
	}
}
