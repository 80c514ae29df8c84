package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/coachlab/coachlab/internal/api"
	"github.com/coachlab/coachlab/pkg/config"
	"github.com/coachlab/coachlab/pkg/reply"
	"github.com/coachlab/coachlab/pkg/scoring"
)

// runCLI executes the root command with args and stdin, returning stdout.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("COACHLAB_CONFIG", "")

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func TestScoreCmdFlags(t *testing.T) {
	cmd := newScoreCmd(new(string))
	f := cmd.Flags()

	// Test default output format
	outputFmt, _ := f.GetString("output")
	if outputFmt != "text" {
		t.Errorf("default output = %q, want text", outputFmt)
	}
}

func TestCoachCmdFlags(t *testing.T) {
	cmd := newCoachCmd(new(string))
	f := cmd.Flags()

	scenario, _ := f.GetString("scenario")
	if scenario != "default" {
		t.Errorf("default scenario = %q, want default", scenario)
	}

	for _, flag := range []string{"scenario", "seed", "enrich", "output"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestServeCmdFlags(t *testing.T) {
	f := newServeCmd(new(string)).Flags()
	for _, flag := range []string{"port", "static-dir"} {
		if f.Lookup(flag) == nil {
			t.Errorf("missing flag: %s", flag)
		}
	}
}

func TestScoreCmd_JSONFromArgs(t *testing.T) {
	out, err := runCLI(t, "", "score", "--output", "json", "Call", "me", "tomorrow.")
	if err != nil {
		t.Fatalf("score: %v", err)
	}

	var fb scoring.FeedbackResult
	if err := json.Unmarshal([]byte(out), &fb); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if fb.Score != 13 {
		t.Errorf("score = %d, want 13", fb.Score)
	}
	if fb.Badge != scoring.BadgeNeedsWork {
		t.Errorf("badge = %q, want %q", fb.Badge, scoring.BadgeNeedsWork)
	}
}

func TestScoreCmd_Stdin(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	out, err := runCLI(t, "I understand.\n", "score")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if !strings.Contains(out, "Coaching score 20: Needs work") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestScoreCmd_UnknownOutput(t *testing.T) {
	if _, err := runCLI(t, "", "score", "--output", "xml", "hi"); err == nil {
		t.Error("expected error for unknown output format")
	}
}

func TestCoachCmd_SeedPinsReply(t *testing.T) {
	args := []string{"coach", "--seed", "42", "--output", "json", "I understand.", "How", "can", "I", "help?"}

	first, err := runCLI(t, "", args...)
	if err != nil {
		t.Fatalf("coach: %v", err)
	}
	second, err := runCLI(t, "", args...)
	if err != nil {
		t.Fatalf("coach: %v", err)
	}

	var a, b struct {
		CSRReply string `json:"csrReply"`
		Feedback struct {
			Score int `json:"score"`
		} `json:"feedback"`
	}
	if err := json.Unmarshal([]byte(first), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := json.Unmarshal([]byte(second), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a.CSRReply != b.CSRReply {
		t.Errorf("seeded replies differ: %q vs %q", a.CSRReply, b.CSRReply)
	}

	tier := reply.TierFromScore(a.Feedback.Score)
	found := false
	for _, tmpl := range reply.Templates[tier] {
		if strings.HasPrefix(a.CSRReply, tmpl) {
			found = true
		}
	}
	if !found {
		t.Errorf("reply %q is not a %s-tier template", a.CSRReply, tier)
	}
}

func TestScenariosCmd(t *testing.T) {
	out, err := runCLI(t, "", "scenarios")
	if err != nil {
		t.Fatalf("scenarios: %v", err)
	}
	for _, id := range []string{"default", "noAnswer", "promisedMissed"} {
		if !strings.Contains(out, id) {
			t.Errorf("expected scenario %q in output", id)
		}
	}
}

func TestLocalHandler_CoachAndArchive(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Storage.LocalPath = t.TempDir()

	h, err := newLocalHandler(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("newLocalHandler: %v", err)
	}
	srv := httptest.NewServer(api.NewRouter(h, api.RouterOptions{}))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/coach", "application/json",
		strings.NewReader(`{"managerMessage":"I understand. How can we follow up tomorrow? I will check."}`))
	if err != nil {
		t.Fatalf("POST /api/coach: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.SessionID == "" {
		t.Fatal("expected a session id from the local archive")
	}

	got, err := http.Get(srv.URL + "/api/sessions/" + body.SessionID)
	if err != nil {
		t.Fatalf("GET session: %v", err)
	}
	defer got.Body.Close()
	if got.StatusCode != http.StatusOK {
		t.Errorf("session status = %d, want 200", got.StatusCode)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"a", "b", "c"}, "a"},
		{[]string{"", "b", "c"}, "b"},
		{[]string{"", "", ""}, ""},
	}

	for _, tt := range tests {
		got := firstNonEmpty(tt.args...)
		if got != tt.want {
			t.Errorf("firstNonEmpty(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}
