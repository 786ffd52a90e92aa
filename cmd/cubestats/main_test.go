package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func writeSample(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "export.json")
	if _, err := execute(t, "sample", "-o", path, "--sessions", "2", "--solves", "150", "--seed", "5"); err != nil {
		t.Fatalf("sample failed: %v", err)
	}
	return path
}

func TestSummaryCommand(t *testing.T) {
	path := writeSample(t)
	out, err := execute(t, "summary", path, "--tz", "UTC")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	for _, want := range []string{"Solves: 300", "Session 1", "Session 2", "Highlights", "Time Spent"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestExportCommandWritesJSON(t *testing.T) {
	path := writeSample(t)
	outPath := filepath.Join(t.TempDir(), "out", "report.json")
	if _, err := execute(t, "export", path, "--tz", "UTC", "--windows", "5,12", "-o", outPath); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var doc struct {
		Windows  []int `json:"windows"`
		Sessions []struct {
			Solves int `json:"solves"`
		} `json:"sessions"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(doc.Windows) != 2 || len(doc.Sessions) != 2 || doc.Sessions[0].Solves != 150 {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestConfigFileAppliesUnlessFlagSet(t *testing.T) {
	path := writeSample(t)
	cfgDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "cubestats")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	body := "[stats]\ngap-seconds = 3600\ntimezone = \"UTC\"\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := execute(t, "periods", path)
	if err != nil {
		t.Fatalf("periods failed: %v", err)
	}
	if !strings.Contains(out, "gap 1h0m0s") {
		t.Fatalf("expected config gap in output:\n%s", out)
	}

	out, err = execute(t, "periods", path, "--gap", "5m")
	if err != nil {
		t.Fatalf("periods failed: %v", err)
	}
	if !strings.Contains(out, "gap 5m0s") {
		t.Fatalf("expected flag gap in output:\n%s", out)
	}
}

func TestPBsCommand(t *testing.T) {
	path := writeSample(t)
	out, err := execute(t, "pbs", path, "--tz", "UTC", "--session", "2", "--window", "12")
	if err != nil {
		t.Fatalf("pbs failed: %v", err)
	}
	if !strings.Contains(out, "Session 2 ao12 PBs") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "Session 1") {
		t.Fatalf("expected only the selected session:\n%s", out)
	}
}

func TestCommandErrors(t *testing.T) {
	path := writeSample(t)
	cases := [][]string{
		{"summary", filepath.Join(t.TempDir(), "missing.json")},
		{"summary", path, "--tz", "Nowhere/City"},
		{"summary", path, "--since", "yesterday"},
		{"summary", path, "--session", "nope"},
		{"summary", path, "--windows", "0"},
		{"pbs", path, "--window", "0"},
		{"sample", "--sessions", "0"},
	}
	for _, args := range cases {
		if _, err := execute(t, args...); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestEnsureConfigFileWritesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cubestats", "config.toml")
	if err := ensureConfigFile(path); err != nil {
		t.Fatalf("ensureConfigFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "# gap-seconds = 1200") {
		t.Fatalf("unexpected template:\n%s", data)
	}
}
