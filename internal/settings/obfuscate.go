package settings

// Placeholder masks the hidden portion of an obfuscated value.
const Placeholder = "••••"

// Obfuscate renders a sensitive value safe for logs and the
// configuration UI: everything but the last few characters is masked.
// Values of four characters or fewer are masked entirely.
func Obfuscate(value string) string {
	if value == "" {
		return ""
	}

	visible := len(value) - 4
	if visible > 4 {
		visible = 4
	}
	if visible <= 0 {
		return Placeholder
	}

	return Placeholder + " " + value[len(value)-visible:]
}
