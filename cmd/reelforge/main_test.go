package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	body := fmt.Sprintf(`[paths]
assets_dir = %q
videos_dir = %q
composed_dir = %q
final_dir = %q
log_dir = %q
`,
		filepath.Join(base, "assets"),
		filepath.Join(base, "assets", "videos"),
		filepath.Join(base, "composed"),
		filepath.Join(base, "final"),
		filepath.Join(base, "logs"),
	)
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{baseDir: base, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestConfigInitCommand(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestPlanCommandWithoutScenes(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"plan"}, env.configPath)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, out, "No scenes found")
}

func TestPlanCommandSchedulesClips(t *testing.T) {
	env := setupCLITestEnv(t)

	videosDir := filepath.Join(env.baseDir, "assets", "videos")
	if err := os.MkdirAll(videosDir, 0o755); err != nil {
		t.Fatalf("mkdir videos: %v", err)
	}
	if err := os.WriteFile(filepath.Join(videosDir, "scene_1.mp4"), []byte("video"), 0o644); err != nil {
		t.Fatalf("write scene video: %v", err)
	}
	clip := filepath.Join(env.baseDir, "assets", "s1_line1.mp3")
	if err := os.WriteFile(clip, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write clip: %v", err)
	}
	manifest := fmt.Sprintf(`[{"scene_id":1,"audio_files":[{"path":%q,"character":"kai","order":1}]}]`, clip)
	if err := os.WriteFile(filepath.Join(env.baseDir, "assets", "audio_paths.json"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write audio manifest: %v", err)
	}

	out, _, err := runCLI(t, []string{"plan"}, env.configPath)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, out, "Kai")
	requireContains(t, out, "s1_line1.mp3")
	requireContains(t, out, "1 scenes")
}

func TestStatusCommandWithEmptyLedger(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "No runs recorded yet")
}
