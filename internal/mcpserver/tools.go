package mcpserver

import "slices"

// Tool names.
const (
	ToolListPages    = "list_pages"
	ToolGetPage      = "get_page"
	ToolSearchPages  = "search_pages"
	ToolGetLinks     = "get_links"
	ToolGetBacklinks = "get_backlinks"
	ToolCreatePage   = "create_page"
	ToolUpdatePage   = "update_page"
	ToolInsertLines  = "insert_lines"
	ToolDeletePage   = "delete_page"
	ToolTextStats    = "text_stats"
)

// AllTools lists every tool the server knows, in registration order.
var AllTools = []string{
	ToolListPages,
	ToolGetPage,
	ToolSearchPages,
	ToolGetLinks,
	ToolGetBacklinks,
	ToolCreatePage,
	ToolUpdatePage,
	ToolInsertLines,
	ToolDeletePage,
	ToolTextStats,
}

// Tool presets.
const (
	PresetMinimal  = "minimal"
	PresetReadonly = "readonly"
	PresetFull     = "full"
)

var presets = map[string][]string{
	PresetMinimal: {ToolListPages, ToolGetPage},
	PresetReadonly: {
		ToolListPages, ToolGetPage, ToolSearchPages, ToolGetLinks, ToolGetBacklinks,
		ToolTextStats,
	},
	PresetFull: {
		ToolListPages, ToolGetPage, ToolSearchPages, ToolGetLinks, ToolGetBacklinks,
		ToolCreatePage, ToolUpdatePage, ToolInsertLines, ToolDeletePage,
		ToolTextStats,
	},
}

// Presets returns the preset names.
func Presets() []string {
	return []string{PresetMinimal, PresetReadonly, PresetFull}
}

// ResolveTools returns the tools to register. A list with at least one non-blank
// name wins over the preset; an unknown preset falls back to full. delete_page is
// dropped unless enableDelete is set. The result is never nil.
func ResolveTools(preset string, explicit []string, enableDelete bool) []string {
	tools := []string{}
	for _, name := range explicit {
		if name != "" && !slices.Contains(tools, name) {
			tools = append(tools, name)
		}
	}
	if len(tools) == 0 {
		p, ok := presets[preset]
		if !ok {
			p = presets[PresetFull]
		}
		tools = append(tools, p...)
	}

	if !enableDelete {
		tools = slices.DeleteFunc(tools, func(name string) bool { return name == ToolDeletePage })
	}
	return tools
}

// allowlist builds the registration set. A nil result allows everything.
func allowlist(tools []string) map[string]bool {
	if tools == nil {
		return nil
	}
	m := make(map[string]bool, len(tools))
	for _, name := range tools {
		m[name] = true
	}
	return m
}

// shouldRegister reports whether name is allowed. A nil allowlist allows all.
func shouldRegister(name string, allow map[string]bool) bool {
	if allow == nil {
		return true
	}
	return allow[name]
}
