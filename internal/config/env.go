package config

import (
	"os"
	"sort"
	"strings"
)

// DefaultTerminalVars are always passed through to a sandboxed container,
// per §4.5 environment resolution source 1.
var DefaultTerminalVars = []string{"TERM", "COLORTERM", "FORCE_COLOR", "NO_COLOR"}

// EnvSource groups the per-session inputs to ResolveEnvironment, mirroring
// the four sources listed in §4.5 ("Environment resolution"), merged in
// order with later sources overriding earlier ones.
type EnvSource struct {
	// SandboxKeys are host env var names to forward, from the resolved
	// Config's sandbox.environment list.
	SandboxKeys []string

	// ExtraKeys are session-local extra_env_keys, forwarded the same way.
	ExtraKeys []string

	// Values are explicit key=value entries from config environment_values
	// and session-local extra_env_values. Each value may be a reference:
	// "$VAR" resolves from the host environment, "$$" is a literal "$",
	// anything else is literal.
	Values map[string]string

	// HostEnv is consulted for key-forwarding and $VAR resolution. Callers
	// pass a map built from os.Environ() (or a stub, in tests).
	HostEnv map[string]string
}

// ResolveEnvironment merges the four §4.5 sources into the final env map
// handed to the container-creation argv or exec command.
func ResolveEnvironment(src EnvSource) map[string]string {
	out := make(map[string]string)

	for _, k := range DefaultTerminalVars {
		if v, ok := src.HostEnv[k]; ok {
			out[k] = v
		}
	}
	for _, k := range src.SandboxKeys {
		if v, ok := src.HostEnv[k]; ok {
			out[k] = v
		}
	}
	for _, k := range src.ExtraKeys {
		if v, ok := src.HostEnv[k]; ok {
			out[k] = v
		}
	}
	for _, k := range sortedKeys(src.Values) {
		resolved, ok := ResolveEnvValue(src.Values[k], src.HostEnv)
		if ok {
			out[k] = resolved
		}
	}

	return out
}

// ResolveEnvValue implements the per-value reference rules from §4.5 and
// §8 ("resolve_env_value"), matching the original's resolve_env_value
// (session/instance.rs): the "$$" escape is a prefix check, not an exact
// match, so it must be tried before the single-"$" reference case.
//
//	"$$..."    -> literal "$" + the rest, unchanged
//	"$VAR"     -> host env value of VAR; ok=false if VAR is unset
//	anything   -> literal value, unchanged
func ResolveEnvValue(raw string, hostEnv map[string]string) (string, bool) {
	if strings.HasPrefix(raw, "$$") {
		return "$" + raw[2:], true
	}
	if strings.HasPrefix(raw, "$") && raw != "$" {
		name := raw[1:]
		v, ok := hostEnv[name]
		if !ok {
			return "", false
		}
		return v, true
	}
	return raw, true
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ShellQuote returns a shell-safe quoted string for interpolation into a
// single-quoted shell word. Values containing special characters are
// wrapped in single quotes with embedded quotes escaped via the '\'' idiom.
func ShellQuote(s string) string {
	needsQuoting := false
	for _, c := range s {
		switch c {
		case ' ', '\t', '\n', '"', '\'', '`', '$', '\\', '!', '*', '?',
			'[', ']', '{', '}', '(', ')', '<', '>', '|', '&', ';', '#':
			needsQuoting = true
		}
		if needsQuoting {
			break
		}
	}
	if !needsQuoting {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// DoubleQuoteEscape implements the §4.5 escaping used when interpolating an
// env value into a shell command string built for `docker exec -e
// KEY="$VAL"`: the value is wrapped in double quotes with `\`, `"`, `$`,
// the backtick, and newlines/carriage-returns escaped. Unlike ShellQuote,
// this always produces a double-quoted result, since the caller embeds it
// inside an already-double-quoted KEY="..." slot (§8 S6).
func DoubleQuoteEscape(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\', '"', '$', '`':
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
	b.WriteByte('"')
	return b.String()
}

// ExportPrefix builds a deterministic "export K=V K2=V2 && " prefix for
// shell commands, keys sorted for reproducibility.
func ExportPrefix(env map[string]string) string {
	if len(env) == 0 {
		return ""
	}
	keys := sortedKeys(env)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+ShellQuote(env[k]))
	}
	return "export " + strings.Join(parts, " ") + " && "
}

// PrependEnv prepends an export statement for the given vars to command.
func PrependEnv(command string, env map[string]string) string {
	return ExportPrefix(env) + command
}

// MergeEnv merges multiple environment maps, later maps taking precedence.
func MergeEnv(maps ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			result[k] = v
		}
	}
	return result
}

// HostEnviron returns the current process environment as a map, suitable
// for EnvSource.HostEnv.
func HostEnviron() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i >= 0 {
			out[kv[:i]] = kv[i+1:]
		}
	}
	return out
}
