package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"

	"jdparse-engine/internal/config"
	"jdparse-engine/internal/extract"
)

func buildParser(cfg config.Config, log *slog.Logger) (*extract.Parser, error) {
	p, err := extract.NewParser(extract.Options{
		Vocabulary: cfg.ParserVocabulary(),
		Concurrent: cfg.Parser.Concurrent,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("build parser: %w", err)
	}
	return p, nil
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
