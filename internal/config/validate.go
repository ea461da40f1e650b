package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// Err is nil when there are no errors, else an error wrapping ErrInvalid.
func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return fmt.Errorf("%w:\n- %s", ErrInvalid, strings.Join(v.Errors, "\n- "))
}

// NormalizeAndValidate returns a copy with vocabulary lists trimmed and
// de-duplicated, plus the problems found in it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Vocabulary.Skills = trimList(out.Vocabulary.Skills)
	out.Vocabulary.Languages = trimList(out.Vocabulary.Languages)
	out.Vocabulary.Certifications = trimList(out.Vocabulary.Certifications)
	out.Vocabulary.Keywords = trimList(out.Vocabulary.Keywords)

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}
	if out.App.ReloadSeconds < 0 {
		res.addErr("app.reload_seconds must be >= 0")
	}

	if out.Parser.MaxInputBytes <= 0 {
		res.addErr("parser.max_input_bytes must be > 0")
	} else if out.Parser.MaxInputBytes < 4096 {
		res.addWarn("parser.max_input_bytes is very low (%d); most postings will be rejected.", out.Parser.MaxInputBytes)
	}
	if out.Parser.BatchLimit < 0 {
		res.addErr("parser.batch_limit must be >= 0")
	}

	if out.HTTP.RatePerSec < 0 {
		res.addErr("http.rate_per_sec must be >= 0")
	}
	if out.HTTP.RatePerSec > 0 && out.HTTP.Burst <= 0 {
		res.addErr("http.burst must be > 0 when http.rate_per_sec is set")
	}
	if out.HTTP.RatePerSec == 0 {
		res.addWarn("http.rate_per_sec is 0; rate limiting is disabled.")
	}

	seen := map[string]string{}
	for _, l := range []struct {
		name  string
		terms []string
	}{
		{"skills", out.Vocabulary.Skills},
		{"languages", out.Vocabulary.Languages},
		{"certifications", out.Vocabulary.Certifications},
	} {
		for _, t := range l.terms {
			k := strings.ToLower(t)
			if other, ok := seen[k]; ok {
				res.addWarn("vocabulary term %q appears in both %s and %s", t, other, l.name)
				continue
			}
			seen[k] = l.name
		}
	}

	return out, res
}

func Validate(cfg Config) error {
	_, res := NormalizeAndValidate(cfg)
	return res.Err()
}
