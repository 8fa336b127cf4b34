package term

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hkteamnoob/naeonm/internal/config"
)

func TestConfigure(t *testing.T) {
	t.Cleanup(func() { Configure(config.ColorNever) })

	Configure(config.ColorAlways)
	if !Enabled() || Red == "" {
		t.Error("ColorAlways should enable colors")
	}
	Configure(config.ColorNever)
	if Enabled() || Green != "" {
		t.Error("ColorNever should clear colors")
	}
}

func TestResolve_AutoRespectsNoColor(t *testing.T) {
	env := map[string]string{"NO_COLOR": "1"}
	getenv := func(k string) string { return env[k] }
	if resolve(config.ColorAuto, getenv) {
		t.Error("NO_COLOR should disable auto colors")
	}
	if !resolve(config.ColorAlways, getenv) {
		t.Error("ColorAlways ignores NO_COLOR")
	}
}

func TestIsTerminal_RegularFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.log"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTerminal(f) {
		t.Error("regular file reported as terminal")
	}
	if IsTerminal(nil) {
		t.Error("nil file reported as terminal")
	}
}
