package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-snake/internal/config"
)

func TestLocalPlayer(t *testing.T) {
	a := &app{cfg: config.Default()}

	p := a.localPlayer("Ada")
	if p.Name != "Ada" || p.ID != "local:ada" {
		t.Errorf("flag player = %+v", p)
	}

	a.cfg.Player = config.PlayerConfig{ID: "fixed-id", Name: "Grace"}
	p = a.localPlayer("")
	if p.Name != "Grace" || p.ID != "fixed-id" {
		t.Errorf("config player = %+v", p)
	}
}

func TestNewAppOpensStore(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "snake.yaml")
	data := "storage:\n  path: " + filepath.Join(dir, "scores.db") + "\nlog:\n  level: debug\n  file: " + filepath.Join(dir, "snake.log") + "\n"
	if err := os.WriteFile(cfgPath, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	flagConfig = cfgPath
	t.Cleanup(func() { flagConfig = "" })

	a, err := newApp(logToFile)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.close()

	if a.board.Online() {
		t.Error("remote is disabled by default")
	}
	if _, err := os.Stat(filepath.Join(dir, "scores.db")); err != nil {
		t.Errorf("database not created: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "snake.log")); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 16); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("averyveryverylongname", 8); got != "averyve." {
		t.Errorf("truncate = %q", got)
	}
}
