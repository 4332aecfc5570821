package nvim

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/neovim/go-client/nvim"
	"go.uber.org/zap"
)

// Manager handles the connection and interaction with a Neovim instance.
// It satisfies apply.Writer and apply.RenameObserver, so open buffers follow
// the files iconfix rewrites and renames.
type Manager struct {
	nvim          *nvim.Nvim
	isSelfStarted bool
	cmd           *exec.Cmd
	socketPath    string
	log           *zap.Logger
}

// New connects to the Neovim listening on addr, or on $NVIM_LISTEN_ADDRESS
// when addr is empty, and starts a headless instance if neither answers.
func New(addr string, log *zap.Logger) (*Manager, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if addr == "" {
		addr = os.Getenv("NVIM_LISTEN_ADDRESS")
	}
	if addr != "" {
		v, err := nvim.Dial(addr)
		if err == nil {
			log.Debug("connected to neovim", zap.String("addr", addr))
			return &Manager{nvim: v, log: log}, nil
		}
		log.Warn("could not reach neovim, starting a headless instance", zap.String("addr", addr), zap.Error(err))
	}

	tmpDir, err := os.MkdirTemp("", "iconfix-nvim-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir for nvim: %w", err)
	}
	socketPath := filepath.Join(tmpDir, "nvim.sock")

	cmd := exec.Command("nvim", "--headless", "--clean", "--listen", socketPath)
	if err := cmd.Start(); err != nil {
		os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("failed to start headless nvim: %w. Is 'nvim' in your PATH?", err)
	}

	// Wait for the socket file to appear.
	for i := 0; i < 20; i++ {
		if _, err := os.Stat(socketPath); err == nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	v, err := nvim.Dial(socketPath)
	if err != nil {
		cmd.Process.Kill()
		cmd.Wait()
		os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("failed to connect to headless nvim: %w", err)
	}

	m := &Manager{
		nvim:          v,
		isSelfStarted: true,
		cmd:           cmd,
		socketPath:    socketPath,
		log:           log,
	}
	if err := m.nvim.Command("set noswapfile"); err != nil {
		log.Debug("could not disable swap files", zap.Error(err))
	}
	return m, nil
}

// Close refreshes buffers, disconnects from Neovim and cleans up if it was self-started.
func (m *Manager) Close() {
	if m.nvim != nil {
		if !m.isSelfStarted {
			if err := m.nvim.Command("checktime"); err != nil {
				m.log.Debug("checktime failed", zap.Error(err))
			}
		}
		m.nvim.Close()
	}
	if m.isSelfStarted && m.cmd != nil && m.cmd.Process != nil {
		if err := m.cmd.Process.Kill(); err == nil {
			m.cmd.Wait()
			os.RemoveAll(filepath.Dir(m.socketPath))
		}
	}
}

// WriteFile loads path into a buffer, replaces its lines and writes it.
func (m *Manager) WriteFile(path, content string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	lines, eol := splitLines(content)
	byteContent := make([][]byte, len(lines))
	for i, s := range lines {
		byteContent[i] = []byte(s)
	}

	b := m.nvim.NewBatch()
	b.Command("edit! " + escapePath(absPath))
	b.SetBufferLines(0, 0, -1, true, byteContent)
	if eol {
		b.Command("setlocal eol fixeol")
	} else {
		b.Command("setlocal noeol nofixeol")
	}
	b.Command("write!")
	if err := b.Execute(); err != nil {
		return fmt.Errorf("nvim write %s: %w", path, err)
	}
	return nil
}

// Renamed points any buffer showing oldPath at newPath.
func (m *Manager) Renamed(oldPath, newPath string) {
	oldAbs, err := filepath.Abs(oldPath)
	if err != nil {
		return
	}
	newAbs, err := filepath.Abs(newPath)
	if err != nil {
		return
	}

	buffers, err := m.nvim.Buffers()
	if err != nil {
		m.log.Debug("could not list buffers", zap.Error(err))
		return
	}
	for _, buf := range buffers {
		name, err := m.nvim.BufferName(buf)
		if err != nil || name != oldAbs {
			continue
		}
		if err := m.nvim.SetBufferName(buf, newAbs); err != nil {
			m.log.Debug("could not rename buffer", zap.String("path", oldAbs), zap.Error(err))
		}
	}
}

// splitLines turns file content into buffer lines, reporting whether the
// content ended in a newline.
func splitLines(content string) ([]string, bool) {
	if content == "" {
		return []string{""}, false
	}
	eol := strings.HasSuffix(content, "\n")
	return strings.Split(strings.TrimSuffix(content, "\n"), "\n"), eol
}

func escapePath(path string) string {
	r := strings.NewReplacer(" ", `\ `, "%", `\%`, "#", `\#`, "|", `\|`)
	return r.Replace(path)
}
