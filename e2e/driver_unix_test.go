//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
)

var binPath = "bam_e2e"

// Key sequences as a terminal sends them
const (
	KeyEnter     = "\r"
	KeyCtrlC     = "\x03"
	KeyEsc       = "\x1b"
	KeyBackspace = "\x7f"
	KeyDown      = "\x1b[B"
)

// ansiRe matches the escape sequences stripped before comparing plain text
var ansiRe = regexp.MustCompile(
	`(?:\x1b\[[0-9;?]*[ -/]*[@-~])|` + // CSI sequences
		`(?:\x1b\][^\x07]*\x07)|` + // OSC sequences
		`(?:\x1b[\(\)][A-Za-z])|` + // charset sequences
		`(?:\x1b=|\x1b>)|` + // keypad mode sequences
		`\r`,
)

// TUITestFramework runs bam in a PTY and records everything it draws
type TUITestFramework struct {
	t         *testing.T
	pty       *os.File
	tty       *os.File
	cmd       *exec.Cmd
	workspace string

	mu     sync.Mutex
	output []byte
	done   chan struct{}
}

// NewTUITest creates a new TUI test framework instance
func NewTUITest(t *testing.T) *TUITestFramework {
	return &TUITestFramework{t: t, workspace: t.TempDir()}
}

// CreateApp adds an app directory containing marker under the workspace apps dir
func (tf *TUITestFramework) CreateApp(name, marker string) error {
	dir := filepath.Join(tf.workspace, "apps", name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, marker), []byte("web: ./run\n"), 0644)
}

// WriteConfig writes the bam config used by StartApp
func (tf *TUITestFramework) WriteConfig(extra string) (string, error) {
	path := filepath.Join(tf.workspace, "config.toml")
	content := fmt.Sprintf("apps_dir = '%s'\n%s", filepath.Join(tf.workspace, "apps"), extra)
	return path, os.WriteFile(path, []byte(content), 0644)
}

// StartApp launches bam with args in a PTY
func (tf *TUITestFramework) StartApp(args ...string) error {
	tf.cmd = exec.Command(binPath, args...)
	tf.cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"LC_ALL=C",
		"LANG=C",
		"HOME="+tf.workspace,
		"BAM_CONFIG_DIR="+tf.workspace,
	)

	ptyFile, tty, err := pty.Open()
	if err != nil {
		return fmt.Errorf("failed to open pty: %w", err)
	}
	if err := pty.Setsize(ptyFile, &pty.Winsize{Rows: 40, Cols: 120}); err != nil {
		ptyFile.Close()
		tty.Close()
		return fmt.Errorf("failed to set pty size: %w", err)
	}

	tf.pty = ptyFile
	tf.tty = tty
	tf.cmd.Stdout = tty
	tf.cmd.Stdin = tty
	tf.cmd.Stderr = tty

	if err := tf.cmd.Start(); err != nil {
		ptyFile.Close()
		tty.Close()
		return fmt.Errorf("failed to start command: %w", err)
	}

	tf.done = make(chan struct{})
	go tf.read()
	return nil
}

func (tf *TUITestFramework) read() {
	defer close(tf.done)
	buf := make([]byte, 8192)
	for {
		n, err := tf.pty.Read(buf)
		if n > 0 {
			tf.mu.Lock()
			tf.output = append(tf.output, buf[:n]...)
			tf.mu.Unlock()
		}
		if err != nil {
			return
		}
	}
}

// SendKeys sends keystrokes to the application
func (tf *TUITestFramework) SendKeys(keys string) error {
	tf.t.Helper()
	_, err := tf.pty.Write([]byte(keys))
	return err
}

// Type sends text one character at a time so each keystroke is its own event
func (tf *TUITestFramework) Type(text string) error {
	tf.t.Helper()
	for _, r := range text {
		if err := tf.SendKeys(string(r)); err != nil {
			return err
		}
		time.Sleep(30 * time.Millisecond)
	}
	return nil
}

// Mark returns the current output length, for use with OutputSince
func (tf *TUITestFramework) Mark() int {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return len(tf.output)
}

// OutputSince returns the plain output written after mark
func (tf *TUITestFramework) OutputSince(mark int) string {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return ansiRe.ReplaceAllString(string(tf.output[mark:]), "")
}

// SnapshotPlain returns everything written so far with ANSI sequences removed
func (tf *TUITestFramework) SnapshotPlain() string {
	return tf.OutputSince(0)
}

// WaitFor polls the plain output written after mark until pred holds
func (tf *TUITestFramework) WaitFor(mark int, pred func(string) bool, timeout time.Duration) bool {
	tf.t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if pred(tf.OutputSince(mark)) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(25 * time.Millisecond)
	}
}

// SeePlain waits for text to appear anywhere in the plain output
func (tf *TUITestFramework) SeePlain(text string) bool {
	tf.t.Helper()
	return tf.WaitFor(0, func(s string) bool { return strings.Contains(s, text) }, 5*time.Second)
}

// WaitExit waits for the process to exit
func (tf *TUITestFramework) WaitExit(timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() { errCh <- tf.cmd.Wait() }()
	select {
	case err := <-errCh:
		// Let the reader drain what the process wrote last.
		_ = tf.tty.Close()
		select {
		case <-tf.done:
		case <-time.After(time.Second):
		}
		return err
	case <-time.After(timeout):
		return fmt.Errorf("process did not exit within %s", timeout)
	}
}

// Cleanup closes the PTY and terminates the application
func (tf *TUITestFramework) Cleanup() {
	if tf.pty != nil {
		_ = tf.pty.Close()
		tf.pty = nil
	}
	if tf.tty != nil {
		_ = tf.tty.Close()
		tf.tty = nil
	}
	if tf.cmd != nil && tf.cmd.Process != nil && tf.cmd.ProcessState == nil {
		_ = tf.cmd.Process.Kill()
		_, _ = tf.cmd.Process.Wait()
	}
	tf.cmd = nil
}
