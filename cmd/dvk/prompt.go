package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

var errPromptAborted = errors.New("prompt aborted")

// promptSectionTitles asks for one section title per directory. A blank
// answer uses the directory name.
func promptSectionTitles(dirs []string) ([]string, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	titles := make([]string, 0, len(dirs))
	for i, dir := range dirs {
		fallback := filepath.Base(dir)
		answer, err := line.Prompt(fmt.Sprintf("Section %d of %d [%s]: ", i+1, len(dirs), fallback))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil, errPromptAborted
			}
			return nil, fmt.Errorf("read section title: %w", err)
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			answer = fallback
		}
		line.AppendHistory(answer)
		titles = append(titles, answer)
	}
	return titles, nil
}

// promptTitle asks for the sequence title.
func promptTitle() (string, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		answer, err := line.Prompt("Sequence title: ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return "", errPromptAborted
			}
			return "", fmt.Errorf("read sequence title: %w", err)
		}
		if answer = strings.TrimSpace(answer); answer != "" {
			return answer, nil
		}
	}
}
