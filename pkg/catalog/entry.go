package catalog

// Entry is implemented by every normalized catalog entry
type Entry interface {
	EntryName() string
	EntryDescription() string
	EntryRaw() string
}

// AgentEntry is the normalized form of one agent document
type AgentEntry struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Model       string   `json:"model" yaml:"model"`
	Tools       []string `json:"tools" yaml:"tools"`
	Raw         string   `json:"raw" yaml:"raw"`
}

// EntryName returns the agent name
func (e AgentEntry) EntryName() string { return e.Name }

// EntryDescription returns the agent description
func (e AgentEntry) EntryDescription() string { return e.Description }

// EntryRaw returns the original file content
func (e AgentEntry) EntryRaw() string { return e.Raw }

// CommandEntry is the normalized form of one command document
type CommandEntry struct {
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description" yaml:"description"`
	AllowedTools []string `json:"allowedTools" yaml:"allowedTools"`
	Raw          string   `json:"raw" yaml:"raw"`
}

// EntryName returns the command name, including its leading slash
func (e CommandEntry) EntryName() string { return e.Name }

// EntryDescription returns the command description
func (e CommandEntry) EntryDescription() string { return e.Description }

// EntryRaw returns the original file content
func (e CommandEntry) EntryRaw() string { return e.Raw }

// Usage returns how the command is invoked
func (e CommandEntry) Usage() string { return e.Name }
