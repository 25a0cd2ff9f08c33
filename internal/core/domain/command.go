package domain

import (
	"strings"
)

// CommandDescriptor is what gets declared to the chat backend for one command.
type CommandDescriptor struct {
	Name        string
	Description string
	Argument    *ArgumentDescriptor
}

// ArgumentDescriptor describes the single free-text argument a command may take.
type ArgumentDescriptor struct {
	Name        string
	Description string
	Required    bool
}

// ParseCommand returns the command name of a text message such as "/forecast@mybot Paris",
// without the leading slash and bot mention.
func ParseCommand(text string) string {
	command := strings.Fields(text)
	if len(command) == 0 {
		return ""
	}

	name := strings.TrimPrefix(command[0], "/")
	name, _, _ = strings.Cut(name, "@")

	return name
}

// ParseCommandArgs returns everything after the first word of a text message.
func ParseCommandArgs(text string) string {
	command := strings.Fields(text)
	if len(command) < 2 {
		return ""
	}

	return strings.Join(command[1:], " ")
}
