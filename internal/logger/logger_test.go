package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/brc-lang/brc/internal/errors"
	"github.com/brc-lang/brc/internal/lexer"
)

func TestStatusGatedByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelErrors)
	l.Status("parsing %s", "geo.brc")
	if buf.Len() != 0 {
		t.Fatalf("Status printed at LevelErrors: %q", buf.String())
	}

	buf.Reset()
	l = New(&buf, LevelStatus)
	l.Status("parsing %s", "geo.brc")
	if !strings.Contains(buf.String(), "🔍") || !strings.Contains(buf.String(), "geo.brc") {
		t.Errorf("Status output = %q, want it to contain 🔍 and geo.brc", buf.String())
	}
}

func TestTimingGatedByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelStatus)
	l.Timing("parse", 2*time.Millisecond)
	if buf.Len() != 0 {
		t.Fatalf("Timing printed at LevelStatus: %q", buf.String())
	}

	buf.Reset()
	l = New(&buf, LevelTiming)
	l.Timing("parse", 2*time.Millisecond)
	if !strings.Contains(buf.String(), "⏱️") {
		t.Errorf("Timing output = %q, want it to contain ⏱️", buf.String())
	}
}

func TestDiagnosticsAlwaysPrint(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelErrors)
	var list errors.List
	list.Add(errors.Semantic(lexer.Location{File: "a.brc", Line: 1, Column: 1}, "undefined name %q", "zzz"))
	l.Diagnostics(&list)
	if !strings.Contains(buf.String(), "zzz") {
		t.Errorf("Diagnostics output = %q, want it to mention zzz", buf.String())
	}
}

func TestTokensGatedByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelTiming)
	l.Tokens([]lexer.Token{{Type: lexer.IDENTIFIER, Lexeme: "x"}})
	if buf.Len() != 0 {
		t.Fatalf("Tokens printed below LevelDumping: %q", buf.String())
	}

	buf.Reset()
	l = New(&buf, LevelDumping)
	l.Tokens([]lexer.Token{{Type: lexer.IDENTIFIER, Lexeme: "x"}})
	if !strings.Contains(buf.String(), "x") {
		t.Errorf("Tokens output = %q, want it to contain the lexeme", buf.String())
	}
}
