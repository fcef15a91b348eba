package importer

import "strings"

// FileName converts a character name to a stable snake_case document file
// name. An empty name yields "character.yaml".
//
// Postcondition: the stem is lowercase and contains only [a-z0-9_].
func FileName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == ' ' || r == '-' || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		}
	}
	stem := strings.TrimSuffix(b.String(), "_")
	if stem == "" {
		stem = "character"
	}
	return stem + ".yaml"
}
