package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

var stdinReader = bufio.NewReader(os.Stdin)

func confirm(question string) bool {
	fmt.Printf("\n%s (y/N): ", question)

	response, err := stdinReader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func waitForEnter(prompt string) {
	fmt.Printf("\n%s", prompt)
	_, _ = stdinReader.ReadString('\n')
}
