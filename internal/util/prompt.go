package util

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// MonthPrompt 基准年月输入提示
const MonthPrompt = "Enter the standard year and month (YYYY-MM): "

// IsInteractive stdin 是否为终端
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// PromptLine 输出提示（interactive 时）并读取一行
func PromptLine(in io.Reader, out io.Writer, prompt string, interactive bool) (string, error) {
	if interactive {
		fmt.Fprint(out, prompt)
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
