package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(flag, value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
	}
}

func enabledFor(mode uiMode, f *os.File) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(f)
	}
}

// useColor resolves the persistent --color flag for output going to f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	mode, err := readUIMode("color", value)
	if err != nil {
		return false, err
	}
	return enabledFor(mode, f), nil
}

// useProgress resolves --progress; the view draws on stderr.
func useProgress(cmd *cobra.Command) (bool, error) {
	value, err := cmd.Flags().GetString("progress")
	if err != nil {
		return false, err
	}
	mode, err := readUIMode("progress", value)
	if err != nil {
		return false, err
	}
	return enabledFor(mode, os.Stderr), nil
}
