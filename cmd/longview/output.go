package main

import (
	"io"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const (
	ansiBold  = "\033[1m"
	ansiBlue  = "\033[34m"
	ansiReset = "\033[0m"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if _, err := out.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(out, "\n")
	return err
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func heading(writer io.Writer, title string) string {
	rule := strings.Repeat("-", len(title))
	if shouldColorize(writer) {
		return ansiBold + ansiBlue + title + ansiReset + "\n" + ansiBlue + rule + ansiReset + "\n"
	}
	return title + "\n" + rule + "\n"
}
