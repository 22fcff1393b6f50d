// ABOUTME: End-to-end tests for the MCP HTTP server over httptest
// ABOUTME: Covers envelope rejection, tenant gating, dispatch, and response shapes

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/rag-gateway/internal/rag"
)

type stubConfigStore struct {
	configs map[string]*rag.TenantConfig
	err     error
}

func (s *stubConfigStore) GetConfig(_ context.Context, instance string) (*rag.TenantConfig, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.configs[instance], nil
}

type stubSettingsStore struct {
	settings map[string]any
}

func (s *stubSettingsStore) GetAppSettings(_ context.Context, _ string) (map[string]any, error) {
	return s.settings, nil
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []string
}

func (a *recordingAudit) Log(_, source, _ string, _ map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, source)
}

func (a *recordingAudit) sources() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.entries...)
}

type serverFixture struct {
	ts    *httptest.Server
	store *stubStore
	audit *recordingAudit
}

func newServerFixture(t *testing.T, configs map[string]*rag.TenantConfig) *serverFixture {
	t.Helper()

	docStore := &stubStore{}
	audit := &recordingAudit{}
	server, err := NewServer(Config{
		Documents: docStore,
		Configs:   &stubConfigStore{configs: configs},
		Settings:  &stubSettingsStore{},
		Audit:     audit,
		AppID:     "rag-gateway-test",
	})
	require.NoError(t, err)

	mux := http.NewServeMux()
	server.RegisterRoutes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	return &serverFixture{ts: ts, store: docStore, audit: audit}
}

func defaultConfigs() map[string]*rag.TenantConfig {
	return map[string]*rag.TenantConfig{
		"acme": {Instance: "acme", Enabled: true},
		"off":  {Instance: "off", Enabled: false},
	}
}

// post sends a raw JSON-RPC body and decodes the response envelope.
func (f *serverFixture) post(t *testing.T, path, body string) (int, *Response, string) {
	t.Helper()

	resp, err := http.Post(f.ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if len(bytes.TrimSpace(raw)) == 0 {
		return resp.StatusCode, nil, ""
	}

	var envelope Response
	require.NoError(t, json.Unmarshal(raw, &envelope), "body: %s", raw)
	return resp.StatusCode, &envelope, string(raw)
}

func rpc(method, id, params string) string {
	body := `{"jsonrpc":"2.0","method":"` + method + `"`
	if id != "" {
		body += `,"id":` + id
	}
	if params != "" {
		body += `,"params":` + params
	}
	return body + `}`
}

func TestServer_WrongProtocolVersion(t *testing.T) {
	f := newServerFixture(t, defaultConfigs())

	status, resp, _ := f.post(t, "/_v/rag_server/v1/mcp/acme",
		`{"jsonrpc":"1.0","id":1,"method":"tools/list"}`)

	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeInvalidRequest, resp.Error.Code)
	assert.Equal(t, "Invalid Request", resp.Error.Message)
}

func TestServer_NullID(t *testing.T) {
	f := newServerFixture(t, defaultConfigs())

	status, resp, _ := f.post(t, "/_v/rag_server/v1/mcp/acme",
		`{"jsonrpc":"2.0","id":null,"method":"tools/list"}`)

	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeInvalidRequest, resp.Error.Code)
	assert.Equal(t, "Invalid Request: id is required for requests", resp.Error.Message)
	assert.Equal(t, "null", string(resp.ID))
}

func TestServer_EmptyBody(t *testing.T) {
	f := newServerFixture(t, defaultConfigs())

	status, resp, _ := f.post(t, "/_v/rag_server/v1/mcp/acme", "")

	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeInvalidRequest, resp.Error.Code)
}

func TestServer_UnknownMethod(t *testing.T) {
	f := newServerFixture(t, defaultConfigs())

	for _, name := range []string{"foo/bar", "Tools/List", "tools/list "} {
		status, resp, _ := f.post(t, "/_v/rag_server/v1/mcp/acme", rpc(name, "1", ""))

		assert.Equal(t, http.StatusBadRequest, status, "method %q", name)
		require.NotNil(t, resp.Error, "method %q", name)
		assert.Equal(t, codeMethodNotFound, resp.Error.Code, "method %q", name)
		assert.Equal(t, "Method not found", resp.Error.Message, "method %q", name)
	}
}

func TestServer_TenantGate(t *testing.T) {
	f := newServerFixture(t, defaultConfigs())

	// Unknown instance on a gated method.
	status, resp, _ := f.post(t, "/_v/rag_server/v1/mcp/ghost", rpc("tools/list", "1", ""))
	assert.Equal(t, http.StatusForbidden, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeServerForbidden, resp.Error.Code)
	assert.Equal(t, "RAG server not found", resp.Error.Message)

	// Disabled instance.
	status, resp, _ = f.post(t, "/_v/rag_server/v1/mcp/off", rpc("tools/list", "1", ""))
	assert.Equal(t, http.StatusForbidden, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "RAG server is disabled for this instance", resp.Error.Message)
}

func TestServer_GateBeforeParamValidation(t *testing.T) {
	f := newServerFixture(t, defaultConfigs())

	// tools/call with missing params normally fails -32602; the gate
	// must win for a disabled tenant.
	status, resp, _ := f.post(t, "/_v/rag_server/v1/mcp/off", rpc("tools/call", "1", ""))

	assert.Equal(t, http.StatusForbidden, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeServerForbidden, resp.Error.Code)
}

func TestServer_UngatedMethodsWorkWithoutTenant(t *testing.T) {
	f := newServerFixture(t, defaultConfigs())

	for _, method := range []string{"initialize", "handshake", "resources/list", "resources/read"} {
		params := ""
		if method == "resources/read" {
			params = `{"uri":"rag://documents"}`
		}
		status, resp, _ := f.post(t, "/_v/rag_server/v1/mcp/ghost", rpc(method, "1", params))

		assert.Equal(t, http.StatusOK, status, "method %q", method)
		assert.Nil(t, resp.Error, "method %q", method)
	}
}

func TestServer_Initialize(t *testing.T) {
	f := newServerFixture(t, defaultConfigs())

	status, resp, _ := f.post(t, "/_v/rag_server/v1/mcp/acme", rpc("initialize", "7", "{}"))

	assert.Equal(t, http.StatusOK, status)
	require.Nil(t, resp.Error)
	assert.Equal(t, "7", string(resp.ID))

	result := resp.Result.(map[string]any)
	assert.Equal(t, protocolVersion, result["protocolVersion"])
	serverInfo := result["serverInfo"].(map[string]any)
	assert.Equal(t, serverName, serverInfo["name"])
}

func TestServer_Handshake(t *testing.T) {
	f := newServerFixture(t, defaultConfigs())

	status, resp, _ := f.post(t, "/_v/rag_server/v1/mcp/acme",
		rpc("handshake", "1", `{"version":"1.0.0"}`))
	require.Equal(t, http.StatusOK, status)
	result := resp.Result.(map[string]any)
	assert.Equal(t, true, result["compatible"])
	assert.ElementsMatch(t, []any{"resources", "tools", "logging"}, result["capabilities"])

	// Unknown version is reported incompatible, not rejected.
	status, resp, _ = f.post(t, "/_v/rag_server/v1/mcp/acme",
		rpc("handshake", "2", `{"version":"0.0.1"}`))
	require.Equal(t, http.StatusOK, status)
	result = resp.Result.(map[string]any)
	assert.Equal(t, false, result["compatible"])

	// So are malformed params.
	status, resp, _ = f.post(t, "/_v/rag_server/v1/mcp/acme",
		rpc("handshake", "3", `"not an object"`))
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, resp.Error)
}

func TestServer_ToolsList_BothSpellings(t *testing.T) {
	f := newServerFixture(t, defaultConfigs())

	for _, method := range []string{"tools/list", "mcp/tools/list"} {
		status, resp, _ := f.post(t, "/_v/rag_server/v1/mcp/acme", rpc(method, "1", ""))

		require.Equal(t, http.StatusOK, status, "method %q", method)
		require.Nil(t, resp.Error, "method %q", method)

		result := resp.Result.(map[string]any)
		tools := result["tools"].([]any)
		require.Len(t, tools, 1)
		tool := tools[0].(map[string]any)
		assert.Equal(t, "search_documents", tool["name"])
	}
}

func TestServer_ToolsList_SchemaTracksTenantSettings(t *testing.T) {
	configs := defaultConfigs()
	off := false
	configs["acme"].SearchSettings = &rag.SearchSettings{
		DefaultLimit:       5,
		MaxLimit:           50,
		EnableAuthorFilter: &off,
	}
	f := newServerFixture(t, configs)

	_, resp, _ := f.post(t, "/_v/rag_server/v1/mcp/acme", rpc("tools/list", "1", ""))
	require.Nil(t, resp.Error)

	tool := resp.Result.(map[string]any)["tools"].([]any)[0].(map[string]any)
	properties := tool["inputSchema"].(map[string]any)["properties"].(map[string]any)

	assert.NotContains(t, properties, "author")
	limit := properties["limit"].(map[string]any)
	assert.Equal(t, float64(5), limit["default"])
	assert.Equal(t, float64(50), limit["maximum"])
}

func TestServer_ToolsCall_PolicyNarrowsSearch(t *testing.T) {
	configs := defaultConfigs()
	configs["acme"].SearchSettings = &rag.SearchSettings{MaxLimit: 50}
	configs["acme"].AllowedCategories = []string{"FAQ"}
	f := newServerFixture(t, configs)

	args := `{"name":"search_documents","arguments":{"category":"Internal","limit":500}}`
	status, resp, _ := f.post(t, "/_v/rag_server/v1/mcp/acme", rpc("tools/call", "1", args))

	require.Equal(t, http.StatusOK, status)
	require.Nil(t, resp.Error)

	// The disallowed category never reaches the store and the limit is
	// clamped to the tenant maximum.
	assert.Equal(t, "enabled=true", f.store.lastWhere)

	var payload struct {
		Query map[string]any `json:"query"`
	}
	content := resp.Result.(map[string]any)["content"].([]any)[0].(map[string]any)
	require.NoError(t, json.Unmarshal([]byte(content["text"].(string)), &payload))
	assert.Equal(t, "Internal", payload.Query["category"], "echoed query keeps the requested category")
}

func TestServer_ToolsCall_Validation(t *testing.T) {
	f := newServerFixture(t, defaultConfigs())

	// Missing params entirely.
	status, resp, _ := f.post(t, "/_v/rag_server/v1/mcp/acme", rpc("tools/call", "1", ""))
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeInvalidParams, resp.Error.Code)
	assert.Equal(t, "Invalid params: name and arguments are required", resp.Error.Message)

	// Name without arguments.
	status, resp, _ = f.post(t, "/_v/rag_server/v1/mcp/acme",
		rpc("tools/call", "2", `{"name":"search_documents"}`))
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeInvalidParams, resp.Error.Code)

	// Unknown tool.
	status, resp, _ = f.post(t, "/_v/rag_server/v1/mcp/acme",
		rpc("tools/call", "3", `{"name":"delete_everything","arguments":{}}`))
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeMethodNotFound, resp.Error.Code)
	assert.Equal(t, "Unknown tool: delete_everything", resp.Error.Message)
}

func TestServer_ResourcesRead(t *testing.T) {
	f := newServerFixture(t, defaultConfigs())

	// Missing uri.
	status, resp, _ := f.post(t, "/_v/rag_server/v1/mcp/acme", rpc("resources/read", "1", `{}`))
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Invalid params: uri is required", resp.Error.Message)

	// Unknown resource.
	status, resp, _ = f.post(t, "/_v/rag_server/v1/mcp/acme",
		rpc("resources/read", "2", `{"uri":"rag://nope"}`))
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeMethodNotFound, resp.Error.Code)
	assert.Equal(t, "Resource not found", resp.Error.Message)

	// Known resource.
	status, resp, _ = f.post(t, "/_v/rag_server/v1/mcp/acme",
		rpc("resources/read", "3", `{"uri":"rag://categories"}`))
	assert.Equal(t, http.StatusOK, status)
	require.Nil(t, resp.Error)
	contents := resp.Result.(map[string]any)["contents"].([]any)
	require.Len(t, contents, 1)
}

func TestServer_NotificationInitialized(t *testing.T) {
	f := newServerFixture(t, defaultConfigs())

	// Via the generic router, without an id.
	status, resp, raw := f.post(t, "/_v/rag_server/v1/mcp/acme",
		rpc("notifications/initialized", "", ""))
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, resp)
	assert.Empty(t, raw)

	// Gated like the tool methods.
	status, resp, _ = f.post(t, "/_v/rag_server/v1/mcp/ghost",
		rpc("notifications/initialized", "", ""))
	assert.Equal(t, http.StatusForbidden, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "RAG server not found", resp.Error.Message)
}

func TestServer_NotificationIDForGatedRequestMethod(t *testing.T) {
	f := newServerFixture(t, defaultConfigs())

	// A request method sent without an id is rejected, not silently
	// executed.
	status, resp, _ := f.post(t, "/_v/rag_server/v1/mcp/acme", rpc("tools/list", "", ""))

	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeInvalidRequest, resp.Error.Code)
	assert.Equal(t, "Invalid Request: id is required for requests", resp.Error.Message)
}

func TestServer_PerMethodEndpoints(t *testing.T) {
	f := newServerFixture(t, defaultConfigs())

	// Matching body on the dedicated path.
	status, resp, _ := f.post(t, "/_v/rag_server/v1/mcp/acme/tools/list", rpc("tools/list", "1", ""))
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, resp.Error)

	// The prefixed spelling works there too.
	status, resp, _ = f.post(t, "/_v/rag_server/v1/mcp/acme/tools/list", rpc("mcp/tools/list", "1", ""))
	assert.Equal(t, http.StatusOK, status)
	assert.Nil(t, resp.Error)

	// A different method's spelling does not.
	status, resp, _ = f.post(t, "/_v/rag_server/v1/mcp/acme/tools/list", rpc("resources/list", "1", ""))
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeMethodNotFound, resp.Error.Code)
}

func TestServer_BackendFailureMapped(t *testing.T) {
	f := newServerFixture(t, defaultConfigs())
	f.store.err = assert.AnError

	status, resp, _ := f.post(t, "/_v/rag_server/v1/mcp/acme",
		rpc("tools/call", "1", `{"name":"search_documents","arguments":{"query":"x"}}`))

	assert.Equal(t, http.StatusInternalServerError, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeInternalError, resp.Error.Code)
	assert.Equal(t, "Failed to search documents", resp.Error.Message)
}

func TestServer_Healthz(t *testing.T) {
	f := newServerFixture(t, defaultConfigs())

	resp, err := http.Get(f.ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_AuditTrail(t *testing.T) {
	f := newServerFixture(t, defaultConfigs())

	_, _, _ = f.post(t, "/_v/rag_server/v1/mcp/acme", rpc("tools/list", "1", ""))

	sources := f.audit.sources()
	assert.Contains(t, sources, "auth")
	assert.Contains(t, sources, "mcpToolsList")
}

func TestNewServer_RequiresStores(t *testing.T) {
	_, err := NewServer(Config{Configs: &stubConfigStore{}})
	require.Error(t, err)

	_, err = NewServer(Config{Documents: &stubStore{}})
	require.Error(t, err)
}
