package roboscan

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var binPath string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "roboscan-e2e")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	binPath = filepath.Join(dir, "roboscan")
	build := exec.Command("go", "build", "-o", binPath, ".")
	build.Dir = filepath.Clean(filepath.Join("..", ".."))
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "build:", err)
		os.Exit(1)
	}
	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

const vault = `pragma solidity ^0.8.0;

contract Vault {
    address owner;

    // function old() public { selfdestruct(payable(owner)); }
    function withdraw(uint amt) public {
        (bool ok, ) = msg.sender.call{value: amt}("");
        require(ok);
    }

    function kill() public {
        selfdestruct(payable(owner));
    }

    function guarded() public {
        require(tx.origin == owner);
    }
}
`

// runCLI runs the built binary in dir and returns stdout, stderr and the exit code.
func runCLI(t *testing.T, dir string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(binPath, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "NO_COLOR=1", "XDG_CONFIG_HOME="+t.TempDir())
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	code := 0
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		code = ee.ExitCode()
	} else if err != nil {
		t.Fatalf("execute: %v", err)
	}
	return out.String(), errb.String(), code
}

func writeVault(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "contracts"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "contracts", "Vault.sol"), []byte(vault), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestCLI_JSON_Shape(t *testing.T) {
	dir := writeVault(t)
	out, _, code := runCLI(t, dir, "scan", "--json", "--no-html", ".")
	if code != 0 {
		t.Fatalf("expected exit 0 without fail policy, got %d", code)
	}
	var doc struct {
		Target  string         `json:"target"`
		Summary map[string]int `json:"summary"`
		Issues  []struct {
			Filename string `json:"filename"`
			Severity string `json:"severity"`
			Line     int    `json:"line"`
		} `json:"issues"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("json unmarshal: %v\n%s", err, out)
	}
	if doc.Summary["CRITICAL"] != 1 || doc.Summary["HIGH"] != 1 || doc.Summary["MEDIUM"] != 1 || doc.Summary["TOTAL"] != 3 {
		t.Fatalf("unexpected summary: %v", doc.Summary)
	}
	if doc.Issues[0].Filename != "contracts/Vault.sol" || doc.Issues[0].Line != 12 {
		t.Fatalf("unexpected first issue: %+v", doc.Issues[0])
	}
	if _, err := os.Stat(filepath.Join(dir, defaultHTMLReport)); !os.IsNotExist(err) {
		t.Fatalf("--no-html should not write a report")
	}
}

func TestCLI_FailOnCritical_ExitCodes(t *testing.T) {
	dir := writeVault(t)
	_, stderr, code := runCLI(t, dir, "scan", "--fail-on-critical", "contracts")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d; stderr=%s", code, stderr)
	}
	if !strings.Contains(stderr, "FAILED: Found 1 CRITICAL vulnerabilities.") {
		t.Fatalf("missing verdict: %s", stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, defaultHTMLReport)); err != nil {
		t.Fatalf("expected HTML report: %v", err)
	}

	_, stderr, code = runCLI(t, dir, "scan", "--fail-on-critical", "--disable", "access_control", "contracts")
	if code != 0 || !strings.Contains(stderr, "PASSED: No critical issues found.") {
		t.Fatalf("expected pass with access_control disabled, got %d; stderr=%s", code, stderr)
	}

	_, _, code = runCLI(t, dir, "scan", "--fail-on", "medium", "--disable", "access_control,reentrancy", "contracts")
	if code != 1 {
		t.Fatalf("expected --fail-on medium to trip on phishing finding, got %d", code)
	}
}

func TestCLI_NoSources(t *testing.T) {
	dir := t.TempDir()
	_, stderr, code := runCLI(t, dir, "scan", ".")
	if code != 1 || !strings.Contains(stderr, "No .sol files found!") {
		t.Fatalf("expected exit 1 with message, got %d; stderr=%s", code, stderr)
	}
	_, _, code = runCLI(t, dir, "scan", "missing-dir")
	if code != 1 {
		t.Fatalf("expected exit 1 for missing target, got %d", code)
	}
}

func TestCLI_UsageErrors(t *testing.T) {
	dir := writeVault(t)
	if _, _, code := runCLI(t, dir, "scan", "--fail-on", "sometimes", "."); code != 2 {
		t.Fatalf("expected exit 2 for bad --fail-on, got %d", code)
	}
	if _, _, code := runCLI(t, dir, "scan", "--enable", "nope", "."); code != 2 {
		t.Fatalf("expected exit 2 for unknown rule, got %d", code)
	}
	if _, _, code := runCLI(t, dir, "scan", "--bogus"); code != 2 {
		t.Fatalf("expected exit 2 for unknown flag, got %d", code)
	}
}

func TestCLI_SARIF_Shape(t *testing.T) {
	dir := writeVault(t)
	out, _, _ := runCLI(t, dir, "scan", "--sarif", "--no-html", ".")
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("sarif json: %v\n%s", err, out)
	}
	if doc["version"] != "2.1.0" {
		t.Fatalf("expected SARIF 2.1.0")
	}
}

func TestCLI_BaselineHidesAcceptedFindings(t *testing.T) {
	dir := writeVault(t)
	if _, stderr, code := runCLI(t, dir, "baseline", "update", "."); code != 0 {
		t.Fatalf("baseline update failed: %d %s", code, stderr)
	}
	out, _, code := runCLI(t, dir, "scan", "--json", "--no-html", "--fail-on-critical", ".")
	if code != 0 {
		t.Fatalf("expected baselined critical finding not to fail, got %d", code)
	}
	if !strings.Contains(out, `"TOTAL": 0`) {
		t.Fatalf("expected no new findings; got %s", out)
	}
}

func TestCLI_ConfigMaxBytesApplies(t *testing.T) {
	dir := writeVault(t)
	if err := os.WriteFile(filepath.Join(dir, ".roboscan.yml"), []byte("max_bytes: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, stderr, code := runCLI(t, dir, "scan", "--no-html", "--no-cache", "--text", ".")
	if code != 1 || !strings.Contains(stderr, "No .sol files found") {
		t.Fatalf("expected max_bytes from config to skip the file, got %d; stderr=%s", code, stderr)
	}
	// an explicit flag still wins over the file
	if _, stderr, code := runCLI(t, dir, "scan", "--no-html", "--no-cache", "--text", "--max-bytes", "100000", "."); code != 0 {
		t.Fatalf("expected --max-bytes to override config, got %d; stderr=%s", code, stderr)
	}
}

func TestCLI_BaselineUsesProjectConfig(t *testing.T) {
	dir := writeVault(t)
	if err := os.WriteFile(filepath.Join(dir, "contracts", "Guard.vy"), []byte("assert tx.origin == self.owner\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".roboscan.yml"), []byte("extensions: .sol,.vy\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, stderr, code := runCLI(t, dir, "baseline", "update", "."); code != 0 {
		t.Fatalf("baseline update failed: %d %s", code, stderr)
	}
	out, _, code := runCLI(t, dir, "scan", "--json", "--no-html", ".")
	if code != 0 || !strings.Contains(out, `"TOTAL": 0`) {
		t.Fatalf("expected the .vy finding to be baselined too: %d %s", code, out)
	}
}

func TestCLI_ChangedSingleFileUnchanged(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := writeVault(t)
	for _, args := range [][]string{
		{"init", "-q"},
		{"-c", "user.email=ci@example.com", "-c", "user.name=ci", "add", "."},
		{"-c", "user.email=ci@example.com", "-c", "user.name=ci", "commit", "-q", "-m", "init"},
	} {
		c := exec.Command("git", args...)
		c.Dir = dir
		if out, err := c.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v %s", args, err, out)
		}
	}
	out, stderr, code := runCLI(t, dir, "scan", "--changed", "--no-html", filepath.Join("contracts", "Vault.sol"))
	if code != 0 || !strings.Contains(stderr, "No changed source files.") || strings.Contains(out, "CRITICAL") {
		t.Fatalf("expected committed file to be skipped with --changed, got %d; stdout=%s stderr=%s", code, out, stderr)
	}
}

func TestCLI_AuditHistoryAndLastReport(t *testing.T) {
	dir := writeVault(t)
	if _, _, code := runCLI(t, dir, "scan", "--audit", "--no-html", "."); code != 0 {
		t.Fatalf("scan failed: %d", code)
	}
	out, _, code := runCLI(t, dir, "history", "--json", ".")
	if code != 0 {
		t.Fatalf("history failed: %d", code)
	}
	var recs []map[string]any
	if err := json.Unmarshal([]byte(out), &recs); err != nil || len(recs) != 1 {
		t.Fatalf("expected one audit record: %v %s", err, out)
	}
	if recs[0]["total_findings"].(float64) != 3 {
		t.Fatalf("unexpected record: %v", recs[0])
	}

	out, _, code = runCLI(t, dir, "report", "--json", ".")
	if code != 0 || !strings.Contains(out, `"TOTAL": 3`) {
		t.Fatalf("report from last scan failed: %d %s", code, out)
	}
}

func TestCLI_StripAndTestRule(t *testing.T) {
	dir := writeVault(t)
	out, _, code := runCLI(t, dir, "strip", filepath.Join("contracts", "Vault.sol"))
	if code != 0 {
		t.Fatalf("strip failed: %d", code)
	}
	if strings.Contains(out, "function old()") || strings.Count(out, "\n") != strings.Count(vault, "\n") {
		t.Fatalf("unexpected strip output:\n%s", out)
	}

	cmd := exec.Command(binPath, "test-rule", "phishing")
	cmd.Stdin = strings.NewReader("x;\nrequire(tx.origin == o);\n")
	cmd.Env = append(os.Environ(), "NO_COLOR=1")
	b, err := cmd.Output()
	if err != nil {
		t.Fatalf("test-rule: %v", err)
	}
	if !strings.Contains(string(b), "Phishing Risk") {
		t.Fatalf("expected phishing finding; got %s", b)
	}

	if _, _, code := runCLI(t, dir, "test-rule", "nope"); code != 2 {
		t.Fatalf("expected exit 2 for unknown rule, got %d", code)
	}
}

func TestCLI_RulesList(t *testing.T) {
	out, _, code := runCLI(t, t.TempDir(), "rules")
	if code != 0 {
		t.Fatalf("rules failed: %d", code)
	}
	for _, id := range []string{"access_control", "reentrancy", "phishing"} {
		if !strings.Contains(out, id) {
			t.Fatalf("missing %s in:\n%s", id, out)
		}
	}
}

func TestCLI_ConfigInitIsPickedUp(t *testing.T) {
	dir := writeVault(t)
	if _, stderr, code := runCLI(t, dir, "config", "init", "--gitignore", "--fail-on", "medium", "--disable", "access_control,reentrancy"); code != 0 {
		t.Fatalf("config init failed: %d %s", code, stderr)
	}
	gi, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil || !strings.Contains(string(gi), "audit_report.html") {
		t.Fatalf("expected generated files in .gitignore: %v %q", err, gi)
	}
	if _, _, code := runCLI(t, dir, "config", "init"); code != 2 {
		t.Fatalf("expected refusal to overwrite, got %d", code)
	}
	// fail_on: medium from the config trips on the phishing finding
	if _, stderr, code := runCLI(t, dir, "scan", "--no-html", "."); code != 1 {
		t.Fatalf("expected config fail_on to apply, got %d; stderr=%s", code, stderr)
	}
}
