package chat

// FormatMessage renders an outbound chat line.
func FormatMessage(name string, text []byte) []byte {
	out := make([]byte, 0, len(name)+2+len(text))
	out = append(out, name...)
	out = append(out, ": "...)
	return append(out, text...)
}
