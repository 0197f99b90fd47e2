package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperr "github.com/matzehuels/cardforge/pkg/errors"
)

// runCLI executes the root command with an isolated environment and
// returns what it printed.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("CARDFORGE_CONFIG", "")
	t.Setenv("CARDFORGE_SERVER_URL", "")

	buf := discardOutput(t)
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// fakeCardService answers both endpoints and records the last form fields.
func fakeCardService(t *testing.T) (*httptest.Server, *map[string]string) {
	t.Helper()
	fields := map[string]string{}
	mux := http.NewServeMux()
	mux.HandleFunc("/generate-card", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for k, v := range r.MultipartForm.Value {
			fields[k] = v[0]
		}
		if fields["prompt"] == "nsfw" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"error": "Inappropriate content", "nsfw_detected": true})
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("\x89PNGcard"))
	})
	mux.HandleFunc("/improve-prompt", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"improved_prompt": "better " + body["prompt"]})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &fields
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"generate", "improve", "wizard", "preview", "probe", "config", "cache", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestGenerate(t *testing.T) {
	srv, fields := fakeCardService(t)
	dir := t.TempDir()
	logo := writePNG(t, dir, "logo.png", 200, 100)
	out := filepath.Join(dir, "card.png")

	stdout, err := runCLI(t, "", "generate", "--server", srv.URL,
		"-l", logo, "-p", "calm sea", "-s", "anime", "--position", "top-left", "--scale", "100", "-o", out)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil || string(data) != "\x89PNGcard" {
		t.Fatalf("card file = %q, %v", data, err)
	}
	f := *fields
	if f["mode"] != "generate" || f["prompt"] != "calm sea" || f["style"] != "ANIME" || f["logoScale"] != "1.0000" {
		t.Errorf("fields = %v", f)
	}
	// 1032x648 card, base 258x129, margin 0.04*648.
	if f["logoX"] != "0.1501" || f["logoY"] != "0.1395" {
		t.Errorf("placement = %s, %s", f["logoX"], f["logoY"])
	}
	if !strings.Contains(stdout, out) {
		t.Errorf("output does not mention %s:\n%s", out, stdout)
	}
}

func TestGenerateUploadWithImprove(t *testing.T) {
	srv, fields := fakeCardService(t)
	dir := t.TempDir()
	logo := writePNG(t, dir, "logo.png", 100, 100)
	bg := writePNG(t, dir, "bg.png", 1032, 648)

	_, err := runCLI(t, "", "generate", "--server", srv.URL, "-l", logo, "-b", bg,
		"--x", "0.25", "--y", "0.75", "-o", filepath.Join(dir, "out.png"))
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	f := *fields
	if f["mode"] != "upload" || f["logoX"] != "0.2500" || f["logoY"] != "0.7500" || f["logoScale"] != "0.5000" {
		t.Errorf("fields = %v", f)
	}
	if _, ok := f["prompt"]; ok {
		t.Error("prompt sent in upload mode")
	}

	_, err = runCLI(t, "", "generate", "--server", srv.URL, "-l", logo, "-p", "forest", "--improve",
		"-o", filepath.Join(dir, "out2.png"))
	if err != nil {
		t.Fatal(err)
	}
	if (*fields)["prompt"] != "better forest" {
		t.Errorf("prompt = %q, want improved", (*fields)["prompt"])
	}
}

func TestGenerateDryRun(t *testing.T) {
	dir := t.TempDir()
	logo := writePNG(t, dir, "logo.png", 200, 100)
	out := filepath.Join(dir, "card.png")

	stdout, err := runCLI(t, "", "generate", "--server", "http://127.0.0.1:1", "-l", logo, "-p", "x", "-o", out, "--dry-run")
	if err != nil {
		t.Fatalf("dry run error: %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("dry run wrote a card")
	}
	for _, want := range []string{"0.5000", "logoScale"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestGenerateErrors(t *testing.T) {
	srv, _ := fakeCardService(t)
	dir := t.TempDir()
	logo := writePNG(t, dir, "logo.png", 10, 10)
	text := filepath.Join(dir, "notes.png")
	os.WriteFile(text, []byte("not an image"), 0o644)

	tests := []struct {
		name string
		args []string
		code apperr.Code
	}{
		{"missing prompt", []string{"-l", logo}, apperr.ErrCodeMissingPrompt},
		{"fake png", []string{"-l", text, "-p", "x"}, apperr.ErrCodeUnsupportedType},
		{"bad style", []string{"-l", logo, "-p", "x", "-s", "anmie"}, apperr.ErrCodeInvalidStyle},
		{"bad scale", []string{"-l", logo, "-p", "x", "--scale", "0"}, apperr.ErrCodeInvalidPosition},
		{"bad position", []string{"-l", logo, "-p", "x", "--position", "middle"}, apperr.ErrCodeInvalidPosition},
		{"x out of range", []string{"-l", logo, "-p", "x", "--x", "1.5"}, apperr.ErrCodeInvalidPosition},
		{"nsfw", []string{"-l", logo, "-p", "nsfw"}, apperr.ErrCodeContentRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"generate", "--server", srv.URL, "-o", filepath.Join(dir, "o.png")}, tt.args...)
			_, err := runCLI(t, "", args...)
			if !apperr.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestImproveFromStdin(t *testing.T) {
	srv, _ := fakeCardService(t)
	stdout, err := runCLI(t, "  mountains \n", "improve", "--server", srv.URL)
	if err != nil {
		t.Fatalf("improve error: %v", err)
	}
	if strings.TrimSpace(stdout) != "better mountains" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestImproveArgs(t *testing.T) {
	srv, _ := fakeCardService(t)
	stdout, err := runCLI(t, "", "improve", "--server", srv.URL, "--no-cache", "blue", "waves")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(stdout) != "better blue waves" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestPreview(t *testing.T) {
	dir := t.TempDir()
	logo := writePNG(t, dir, "logo.png", 40, 20)
	bg := writePNG(t, dir, "bg.png", 100, 60)
	out := filepath.Join(dir, "preview.png")

	stdout, err := runCLI(t, "", "preview", "-l", logo, "-b", bg, "--position", "bottom-right", "-o", out)
	if err != nil {
		t.Fatalf("preview error: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 1032 || cfg.Height != 648 {
		t.Errorf("preview size = %dx%d", cfg.Width, cfg.Height)
	}
	if !strings.Contains(stdout, "cardforge generate") {
		t.Errorf("missing next step hint:\n%s", stdout)
	}
}

func TestPreviewRejectsSVG(t *testing.T) {
	dir := t.TempDir()
	logo := filepath.Join(dir, "logo.svg")
	os.WriteFile(logo, []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"></svg>`), 0o644)

	_, err := runCLI(t, "", "preview", "-l", logo, "-o", filepath.Join(dir, "p.png"))
	if !apperr.Is(err, apperr.ErrCodeUnsupportedType) {
		t.Errorf("error = %v, want UNSUPPORTED_TYPE", err)
	}
}

func TestProbe(t *testing.T) {
	dir := t.TempDir()
	logo := writePNG(t, dir, "logo.png", 300, 150)

	stdout, err := runCLI(t, "", "probe", logo)
	if err != nil {
		t.Fatalf("probe error: %v", err)
	}
	for _, want := range []string{"image/png", "300 × 150", "129 × 64"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}

	_, err = runCLI(t, "", "probe", "--role", "background", logo, filepath.Join(dir, "missing.png"))
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("probe error = %v, want 1 of 2 rejected", err)
	}
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.toml")

	if _, err := runCLI(t, "", "config", "init", "--config", path, "--server", "https://cards.example.com"); err != nil {
		t.Fatalf("config init error: %v", err)
	}
	if _, err := runCLI(t, "", "config", "init", "--config", path); err == nil {
		t.Error("config init over an existing file should fail")
	}

	stdout, err := runCLI(t, "", "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("config show error: %v", err)
	}
	for _, want := range []string{`url = "https://cards.example.com"`, `timeout = "5m0s"`, "width = 1032"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("config show missing %q:\n%s", want, stdout)
		}
	}

	stdout, err = runCLI(t, "", "config", "path", "--config", path)
	if err != nil || strings.TrimSpace(stdout) != path {
		t.Errorf("config path = %q, %v", stdout, err)
	}
}

func TestConfigMissingExplicitFile(t *testing.T) {
	_, err := runCLI(t, "", "config", "show", "--config", filepath.Join(t.TempDir(), "none.toml"))
	if !apperr.Is(err, apperr.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestCompletion(t *testing.T) {
	stdout, err := runCLI(t, "", "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "cardforge") {
		t.Error("bash completion does not mention cardforge")
	}
}

func TestErrorMessage(t *testing.T) {
	err := apperr.New(apperr.ErrCodeMissingFile, "please upload a company logo")
	if got := errorMessage(err); got != "please upload a company logo" {
		t.Errorf("errorMessage() = %q", got)
	}
}
