// Package consts contains constants for the bot domain
package consts

// Command represents a bot command
type Command struct {
	Name        string
	Description string
}

// Bot commands
var (
	CommandStart = Command{Name: "start", Description: "Start the bot"}
	CommandHelp  = Command{Name: "help", Description: "Show help message"}
	CommandStop  = Command{Name: "stop", Description: "Cancel the current upload or broadcast setup"}
	CommandAdmin = Command{Name: "admin", Description: "Open the operator menu"}
)

// AllCommands contains all available bot commands for menu registration
var AllCommands = []Command{
	CommandStart,
	CommandHelp,
	CommandStop,
	CommandAdmin,
}

// Slash returns the command as typed by users
func (c Command) Slash() string {
	return "/" + c.Name
}
