package keyword

import (
	"sort"
	"strings"

	"github.com/vultra/vshaderc/vserr"
)

// EngineKeywordsFile is the parsed contents of an external `.vkw` file: declarations
// plus a name→raw-string value map. Values are kept unparsed until resolved against a
// specific declaration (e.g. during variant resolution).
type EngineKeywordsFile struct {
	Decls  []Decl
	Values map[string]string
}

// ParseEngineKeywordsFile parses the `.vkw` grammar: `#`-comment lines, `keyword
// <dispatch> [<scope>] <NAME>[=<rhs>]` declarations (identical semantics to the
// `#pragma keyword` directive), and `set <NAME>=<raw>` raw value assignments. path is
// used only for error messages.
func ParseEngineKeywordsFile(path string, text string) (EngineKeywordsFile, error) {
	file := EngineKeywordsFile{Values: make(map[string]string)}

	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		lineNum := i + 1
		line := stripComment(raw)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "keyword":
			decl, err := parseKeywordDirective(fields[1:], path, lineNum)
			if err != nil {
				return EngineKeywordsFile{}, err
			}
			file.Decls = append(file.Decls, decl)
		case "set":
			rest := strings.TrimSpace(strings.TrimPrefix(line, "set"))
			name, value, ok := strings.Cut(rest, "=")
			if !ok || name == "" {
				return EngineKeywordsFile{}, vserr.AtLine(vserr.ParseError, path, lineNum, "malformed set directive %q", line)
			}
			file.Values[strings.TrimSpace(name)] = strings.TrimSpace(value)
		default:
			return EngineKeywordsFile{}, vserr.AtLine(vserr.ParseError, path, lineNum, "unknown directive %q", fields[0])
		}
	}
	return file, nil
}

// stripComment trims a trailing `#`-introduced line comment.
func stripComment(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		return line[:idx]
	}
	return line
}

// parseKeywordDirective parses the fields following the `keyword` token, shared by
// both the `.vkw` grammar and the `#pragma keyword` grammar — both specify identical
// field syntax: `<dispatch> [<scope>] <NAME>[=<rhs>] [only_if(<expr>)]`.
func parseKeywordDirective(fields []string, path string, lineNum int) (Decl, error) {
	if len(fields) == 0 {
		return Decl{}, vserr.AtLine(vserr.ParseError, path, lineNum, "missing keyword directive payload")
	}

	dispatch, ok := ParseDispatch(fields[0])
	if !ok {
		return Decl{}, vserr.AtLine(vserr.ParseError, path, lineNum, "unknown keyword dispatch %q", fields[0])
	}
	rest := fields[1:]

	scope := ScopeShaderLocal
	if len(rest) > 0 {
		if s, ok := ParseScope(rest[0]); ok {
			scope = s
			rest = rest[1:]
		}
	}

	if len(rest) == 0 {
		return Decl{}, vserr.AtLine(vserr.ParseError, path, lineNum, "missing keyword name")
	}

	var constraint string
	// only_if(...) may be the final token and must contain no whitespace: only the last
	// field is checked, so a constraint split across fields is rejected as malformed.
	if idx := len(rest) - 1; idx >= 0 && strings.HasPrefix(rest[idx], "only_if(") {
		token := strings.Join(rest[idx:], " ")
		if !strings.HasSuffix(token, ")") {
			return Decl{}, vserr.AtLine(vserr.ParseError, path, lineNum, "malformed only_if constraint")
		}
		constraint = strings.TrimSuffix(strings.TrimPrefix(token, "only_if("), ")")
		rest = rest[:idx]
	}

	if len(rest) != 1 {
		return Decl{}, vserr.AtLine(vserr.ParseError, path, lineNum, "malformed keyword directive")
	}

	namePart := rest[0]
	name, rhs, hasRHS := strings.Cut(namePart, "=")
	if name == "" {
		return Decl{}, vserr.AtLine(vserr.ParseError, path, lineNum, "empty keyword name")
	}

	decl := Decl{Name: name, Dispatch: dispatch, Scope: scope, Constraint: constraint}
	if !hasRHS {
		decl.Kind = KindBool
		decl.DefaultValue = 0
	} else if rhs == "0" || rhs == "1" {
		decl.Kind = KindBool
		if rhs == "1" {
			decl.DefaultValue = 1
		}
	} else {
		decl.Kind = KindEnum
		decl.Enumerants = strings.Split(rhs, "|")
		decl.DefaultValue = 0
	}

	if err := decl.Validate(); err != nil {
		return Decl{}, vserr.AtLine(vserr.ParseError, path, lineNum, "%s", err.Error())
	}
	return decl, nil
}

// ParseKeywordPragma parses the fields following "#pragma keyword" (i.e. with the
// leading "#pragma" and "keyword" tokens already stripped), for use by the metadata
// package's #pragma scanner. It is the exact same grammar as the `.vkw` file's
// `keyword` directive.
func ParseKeywordPragma(fields []string, path string, lineNum int) (Decl, error) {
	return parseKeywordDirective(fields, path, lineNum)
}

// MergeEngineKeywordsFiles combines base with override: declarations and set-values
// present in override win on name collision; declarations present only in base are
// kept. Grounded on the original engine_keywords.cpp's merge routine.
func MergeEngineKeywordsFiles(base, override EngineKeywordsFile) (EngineKeywordsFile, error) {
	merged := EngineKeywordsFile{Values: make(map[string]string, len(base.Values)+len(override.Values))}

	byName := make(map[string]Decl, len(base.Decls)+len(override.Decls))
	order := make([]string, 0, len(base.Decls)+len(override.Decls))
	for _, d := range base.Decls {
		if _, seen := byName[d.Name]; !seen {
			order = append(order, d.Name)
		}
		byName[d.Name] = d
	}
	for _, d := range override.Decls {
		if _, seen := byName[d.Name]; !seen {
			order = append(order, d.Name)
		}
		byName[d.Name] = d
	}
	for _, name := range order {
		merged.Decls = append(merged.Decls, byName[name])
	}

	for k, v := range base.Values {
		merged.Values[k] = v
	}
	for k, v := range override.Values {
		merged.Values[k] = v
	}
	return merged, nil
}

// SortedValueNames returns the engine keywords file's set-value names in lexical
// order, used wherever deterministic iteration is required (e.g. diagnostics).
func (f EngineKeywordsFile) SortedValueNames() []string {
	names := make([]string, 0, len(f.Values))
	for k := range f.Values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

var dispatchCanonicalToken = map[Dispatch]string{
	DispatchPermutation:   "permute",
	DispatchRuntime:       "runtime",
	DispatchSpecialization: "specialization",
}

var scopeCanonicalToken = map[Scope]string{
	ScopeGlobal:   "global",
	ScopeMaterial: "material",
	ScopePass:     "pass",
}

// format renders a single declaration back into the `keyword <dispatch> [<scope>]
// <NAME>[=<rhs>] [only_if(<expr>)]` grammar it was parsed from.
func (d Decl) format() string {
	var b strings.Builder
	b.WriteString("keyword ")
	b.WriteString(dispatchCanonicalToken[d.Dispatch])
	if tok, ok := scopeCanonicalToken[d.Scope]; ok {
		b.WriteByte(' ')
		b.WriteString(tok)
	}
	b.WriteByte(' ')
	b.WriteString(d.Name)
	switch d.Kind {
	case KindBool:
		if d.DefaultValue != 0 {
			b.WriteString("=1")
		}
	case KindEnum:
		b.WriteByte('=')
		b.WriteString(strings.Join(d.Enumerants, "|"))
	}
	if d.Constraint != "" {
		b.WriteString(" only_if(")
		b.WriteString(d.Constraint)
		b.WriteByte(')')
	}
	return b.String()
}

// Format renders f back into `.vkw` grammar text (the inverse of
// ParseEngineKeywordsFile), used by the CLI's mergekw verb to persist a merged
// manifest. Declarations are emitted in f.Decls' order; set-values are emitted
// sorted by name for a deterministic, diffable file.
func (f EngineKeywordsFile) Format() string {
	var b strings.Builder
	for _, d := range f.Decls {
		b.WriteString(d.format())
		b.WriteByte('\n')
	}
	for _, name := range f.SortedValueNames() {
		b.WriteString("set ")
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(f.Values[name])
		b.WriteByte('\n')
	}
	return b.String()
}
