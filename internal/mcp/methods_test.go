// ABOUTME: Tests for method resolution, aliases, and the gating table
// ABOUTME: Both spellings of every method resolve to the same canonical method

package mcp

import "testing"

func TestResolveMethod_BothSpellings(t *testing.T) {
	pairs := map[string]string{
		"initialize":                "mcp/initialize",
		"tools/list":                "mcp/tools/list",
		"tools/call":                "mcp/tools/call",
		"resources/list":            "mcp/resources/list",
		"resources/read":            "mcp/resources/read",
		"notifications/initialized": "mcp/notifications/initialized",
		"handshake":                 "mcp/handshake",
	}

	for bare, prefixed := range pairs {
		m1 := resolveMethod(bare)
		m2 := resolveMethod(prefixed)
		if m1 == methodUnknown {
			t.Errorf("resolveMethod(%q) = unknown", bare)
		}
		if m1 != m2 {
			t.Errorf("resolveMethod(%q) = %v, resolveMethod(%q) = %v; want equal", bare, m1, prefixed, m2)
		}
	}
}

func TestResolveMethod_Unknown(t *testing.T) {
	for _, name := range []string{
		"",
		"foo/bar",
		"Tools/List",
		"TOOLS/CALL",
		"mcp/Initialize",
		" tools/list",
		"tools/list ",
		"mcp/mcp/tools/list",
		"tools",
	} {
		if got := resolveMethod(name); got != methodUnknown {
			t.Errorf("resolveMethod(%q) = %v, want unknown", name, got)
		}
	}
}

func TestMethodGating(t *testing.T) {
	gatedMethods := map[method]bool{
		methodInitialize:    false,
		methodHandshake:     false,
		methodResourcesList: false,
		methodResourcesRead: false,
		methodToolsList:     true,
		methodToolsCall:     true,
		methodInitialized:   true,
	}

	for m, want := range gatedMethods {
		if got := m.gated(); got != want {
			t.Errorf("%v.gated() = %v, want %v", m, got, want)
		}
	}
}

func TestMethodNotification(t *testing.T) {
	if !methodInitialized.notification() {
		t.Error("notifications/initialized must be a notification")
	}
	for _, m := range []method{methodInitialize, methodToolsList, methodToolsCall, methodResourcesList, methodResourcesRead, methodHandshake} {
		if m.notification() {
			t.Errorf("%v.notification() = true, want false", m)
		}
	}
}
