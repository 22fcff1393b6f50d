// ABOUTME: Canonical method enum, alias resolution and the gating table
// ABOUTME: Each logical method accepts a short and an mcp/-prefixed spelling

package mcp

// method is the canonical identifier of a logical MCP method.
type method int

const (
	methodUnknown method = iota
	methodInitialize
	methodToolsList
	methodToolsCall
	methodResourcesList
	methodResourcesRead
	methodInitialized
	methodHandshake
)

// methodAliases maps every accepted method spelling to its canonical
// method. Matching is exact and case-sensitive; there is no
// normalization beyond these literals.
var methodAliases = map[string]method{
	"initialize":                        methodInitialize,
	"mcp/initialize":                    methodInitialize,
	"tools/list":                        methodToolsList,
	"mcp/tools/list":                    methodToolsList,
	"tools/call":                        methodToolsCall,
	"mcp/tools/call":                    methodToolsCall,
	"resources/list":                    methodResourcesList,
	"mcp/resources/list":                methodResourcesList,
	"resources/read":                    methodResourcesRead,
	"mcp/resources/read":                methodResourcesRead,
	"notifications/initialized":         methodInitialized,
	"mcp/notifications/initialized":     methodInitialized,
	"handshake":                         methodHandshake,
	"mcp/handshake":                     methodHandshake,
}

// resolveMethod returns the canonical method for a spelling, or
// methodUnknown if the spelling is not accepted.
func resolveMethod(name string) method {
	return methodAliases[name]
}

// gated reports whether the method exposes tenant-scoped data and so
// requires an enabled tenant configuration before dispatch.
func (m method) gated() bool {
	switch m {
	case methodToolsList, methodToolsCall, methodInitialized:
		return true
	default:
		return false
	}
}

// notification reports whether the method is a notification: it never
// produces a response body, only a status code.
func (m method) notification() bool {
	return m == methodInitialized
}

func (m method) String() string {
	switch m {
	case methodInitialize:
		return "initialize"
	case methodToolsList:
		return "tools/list"
	case methodToolsCall:
		return "tools/call"
	case methodResourcesList:
		return "resources/list"
	case methodResourcesRead:
		return "resources/read"
	case methodInitialized:
		return "notifications/initialized"
	case methodHandshake:
		return "handshake"
	default:
		return "unknown"
	}
}
