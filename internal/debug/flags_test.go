package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

func runSetup(t *testing.T, args ...string) error {
	t.Helper()
	root := log.Root()
	t.Cleanup(func() {
		Exit()
		log.SetDefault(root)
	})
	app := cli.NewApp()
	app.Flags = Flags
	app.Action = Setup
	return app.Run(append([]string{"ethtx"}, args...))
}

func TestSetupLogFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "ethtx.log")
	if err := runSetup(t, "--log.format", "logfmt", "--log.file", file, "--verbosity", "4"); err != nil {
		t.Fatal(err)
	}
	log.Debug("Decoded transaction", "type", "eip1559")
	Exit()

	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Logging configured", "Decoded transaction", "type=eip1559"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("log file missing %q:\n%s", want, content)
		}
	}
}

func TestSetupVerbosity(t *testing.T) {
	file := filepath.Join(t.TempDir(), "ethtx.log")
	if err := runSetup(t, "--log.format", "json", "--log.file", file, "--verbosity", "1"); err != nil {
		t.Fatal(err)
	}
	log.Warn("Filtered out")
	log.Error("Kept")
	Exit()

	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(content), "Filtered out") || !strings.Contains(string(content), `"msg":"Kept"`) {
		t.Fatalf("unexpected log content:\n%s", content)
	}
}

func TestSetupErrors(t *testing.T) {
	if err := runSetup(t, "--log.format", "xml"); err == nil || !strings.Contains(err.Error(), "unknown log format") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
	if err := runSetup(t, "--log.vmodule", "core/types=x"); err == nil {
		t.Fatal("expected vmodule error")
	}
}
