package preflight

import "strings"

// families are well-known model family names, in suggestion preference order.
var families = []string{
	"gpt-oss", "llama", "qwen", "mistral", "mixtral", "gemma", "phi", "deepseek", "granite", "command-r",
}

// stripTag removes a trailing ":tag" from a model name.
func stripTag(name string) string {
	if i := strings.LastIndex(name, ":"); i > 0 {
		return name[:i]
	}
	return name
}

// findInstalled matches want against installed names, exactly or ignoring a trailing tag.
func findInstalled(installed []string, want string) (string, bool) {
	for _, name := range installed {
		if name == want {
			return name, true
		}
	}
	for _, name := range installed {
		if stripTag(name) == want || name == stripTag(want) {
			return name, true
		}
	}
	return "", false
}

func familyOf(name string) string {
	lower := strings.ToLower(name)
	for _, f := range families {
		if strings.Contains(lower, f) {
			return f
		}
	}
	return ""
}

// suggestModel picks an installed model to offer instead of want: one from
// the same family when possible, otherwise the first from a well-known family.
func suggestModel(installed []string, want string) (string, bool) {
	if f := familyOf(want); f != "" {
		for _, name := range installed {
			if familyOf(name) == f {
				return name, true
			}
		}
	}
	for _, f := range families {
		for _, name := range installed {
			if familyOf(name) == f {
				return name, true
			}
		}
	}
	return "", false
}
