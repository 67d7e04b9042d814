package models

// Payload is the decrypted content of a vault managed from the command
// line: secret names mapped to JSON values.
type Payload map[string]any
