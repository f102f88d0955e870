package config

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// decode turns the stored bytes into a Configuration. Unknown keys are
// ignored and bad values fall back to their defaults, so decode never fails.
func decode(data []byte) Configuration {
	cfg := DefaultConfiguration()
	for key, value := range scanLines(data) {
		switch key {
		case KeyAPIKey:
			cfg.APIKey = value
		case KeyModel:
			if value != "" {
				cfg.SelectedModel = value
			}
		case KeyTemperature:
			if t, err := strconv.ParseFloat(value, 64); err == nil && validTemperature(t) {
				cfg.Temperature = t
			}
		case KeyMaxTokens:
			if n, err := strconv.Atoi(value); err == nil && validMaxTokens(n) {
				cfg.MaxTokens = n
			}
		}
	}
	return cfg
}

// scanLines reads KEY=VALUE lines. Lines without '=' are skipped. Unquoted
// values are taken literally, so '$' and '#' are plain characters.
func scanLines(data []byte) map[string]string {
	values := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		values[key] = parseValue(key, strings.TrimSpace(value))
	}
	return values
}

// parseValue unquotes one raw value. Double-quoted values are decoded by
// godotenv, which undoes the escaping encode applies.
func parseValue(key, raw string) string {
	if strings.HasPrefix(raw, `"`) {
		if env, err := godotenv.Unmarshal(key + "=" + raw); err == nil {
			if v, ok := env[key]; ok {
				return v
			}
		}
	}
	return unquote(raw)
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// encode writes the four keys in a fixed order, one per line.
func encode(cfg Configuration) []byte {
	var buf bytes.Buffer
	writeLine(&buf, KeyAPIKey, cfg.APIKey)
	writeLine(&buf, KeyModel, cfg.SelectedModel)
	writeLine(&buf, KeyTemperature, strconv.FormatFloat(cfg.Temperature, 'f', -1, 64))
	writeLine(&buf, KeyMaxTokens, strconv.Itoa(cfg.MaxTokens))
	return buf.Bytes()
}

func writeLine(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteByte('=')
	if isPlain(value) {
		buf.WriteString(value)
	} else {
		buf.WriteByte('"')
		buf.WriteString(escapeDoubleQuoted(value))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}

// isPlain reports whether value survives an unquoted round trip through
// godotenv.
func isPlain(value string) bool {
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '-', r == '_', r == '/', r == ':', r == '+':
		default:
			return false
		}
	}
	return true
}

// escapeDoubleQuoted mirrors the escaping godotenv.Marshal applies.
func escapeDoubleQuoted(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch r {
		case '\\', '"', '!', '$', '`':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
