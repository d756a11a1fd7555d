package utils

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

type sample struct {
	Driver   string `validate:"oneof=mysql postgres"`
	MaxConns int    `validate:"gte=1"`
	Host     string `validate:"required"`
}

func TestValidateStruct(t *testing.T) {
	if err := ValidateStruct(sample{Driver: "mysql", MaxConns: 1, Host: "h"}); err != nil {
		t.Fatalf("valid struct rejected: %v", err)
	}

	err := ValidateStruct(sample{Driver: "oracle"})
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{
		"sample.Driver must be one of [mysql postgres]",
		"sample.MaxConns must be greater than or equal to 1",
		"sample.Host is required",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestValidateVar(t *testing.T) {
	if err := ValidateVar(int64(3), "gte=1"); err != nil {
		t.Errorf("3 rejected: %v", err)
	}
	if err := ValidateVar(int64(0), "gte=1"); err == nil {
		t.Error("0 accepted")
	}
}

func TestInitLogger(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	InitLogger(LoggerOptions{Level: "debug", Mode: "release", File: filepath.Join(t.TempDir(), "app.log")})

	if Log.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", Log.GetLevel())
	}
	if _, ok := Log.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("formatter = %T, want JSON in release mode", Log.Formatter)
	}

	InitLogger(LoggerOptions{Level: "nonsense"})
	if Log.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %v, want info fallback", Log.GetLevel())
	}
}
