package terminal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"storymap/projectfile"
)

// findEditor returns the user's editor command.
func findEditor() (string, error) {
	if cmd := os.Getenv("EDITOR"); cmd != "" {
		return cmd, nil
	}
	if cmd := os.Getenv("VISUAL"); cmd != "" {
		return cmd, nil
	}
	for _, name := range []string{"vim", "nano", "vi"} {
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", errors.New("no editor found. Please set $EDITOR environment variable")
}

// editExternally opens the project document in the user's $EDITOR and loads
// it back if it was changed.
func (a *App) editExternally() error {
	editorCmd, err := findEditor()
	if err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp("", "storymap-edit-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpFileName := tmpFile.Name()
	defer os.Remove(tmpFileName)

	if err := projectfile.Encode(tmpFile, a.ctl.Project().Document()); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	originalStat, err := os.Stat(tmpFileName)
	if err != nil {
		return fmt.Errorf("failed to stat temp file: %w", err)
	}

	if err := a.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to release terminal: %w", err)
	}
	cmd := exec.Command(editorCmd, tmpFileName)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	runErr := cmd.Run()
	if err := a.screen.Resume(); err != nil {
		return fmt.Errorf("failed to re-setup terminal: %w", err)
	}
	if runErr != nil {
		return fmt.Errorf("editor failed: %w", runErr)
	}

	newStat, err := os.Stat(tmpFileName)
	if err != nil {
		return fmt.Errorf("failed to stat edited file: %w", err)
	}
	if originalStat.ModTime().Equal(newStat.ModTime()) {
		return nil
	}

	data, err := os.ReadFile(tmpFileName)
	if err != nil {
		return fmt.Errorf("failed to read edited file: %w", err)
	}
	data = bytes.TrimSpace(data)
	// an emptied file means the user gave up
	if len(data) == 0 {
		return nil
	}

	return a.applyEdited(data)
}

// applyEdited decodes an edited document and makes it the current project.
// Undecodable input is kept in the temp dir for the user to recover.
func (a *App) applyEdited(data []byte) error {
	doc, err := projectfile.Decode(bytes.NewReader(data))
	if err != nil {
		debugFile := filepath.Join(os.TempDir(), "storymap-invalid.json")
		_ = os.WriteFile(debugFile, data, 0644)

		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			line, col := position(data, syntaxErr.Offset)
			return fmt.Errorf("JSON syntax error at line %d, column %d (saved to %s)", line, col, debugFile)
		}
		return fmt.Errorf("%w (saved to %s)", err, debugFile)
	}

	if err := a.ctl.Replace(doc); err != nil {
		return err
	}
	a.status = "project updated from editor"
	return nil
}

// position converts a byte offset to a 1-based line and column.
func position(data []byte, offset int64) (int, int) {
	offset = min(offset, int64(len(data)))
	before := data[:offset]
	line := bytes.Count(before, []byte("\n")) + 1
	col := len(before) - bytes.LastIndexByte(before, '\n')
	return line, col
}
