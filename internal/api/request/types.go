package request

// CommandRequest is the request body for applying a command to a session.
// Command accepts either a command name or a key binding name.
type CommandRequest struct {
	Command string `json:"command"`
}

// TickRequest is the request body for advancing a session manually
type TickRequest struct {
	Count int `json:"count"`
}
