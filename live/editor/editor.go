// Package editor provides a web-based inspector for the live translation index.
//
// The inspector is an optional, embeddable HTTP handler that exposes the
// reverse index built by the live tracker: which rendered texts map to which
// translation keys, with their variables and namespaces. It also serves the
// cached editor client script and lets the host trigger an index refresh.
//
// Features:
//   - Web-based UI for browsing tracked translations
//   - JSON API over the reverse index and current language
//   - Refresh endpoint wired to the tracker's registry
//   - Serves the downloaded editor client script
//   - Embeddable in existing Go web applications
//
// Example:
//
//	inspector := editor.NewHandler(editor.Config{
//	    Tracker: tracker,
//	})
//	http.Handle("/live-editor/", http.StripPrefix("/live-editor", inspector))
//
// Security Note:
// The inspector should only be enabled in development environments or with
// proper authentication and authorization controls in production.
package editor

import (
	"encoding/json"
	"net/http"

	"github.com/kdsmith18542/liveedit/live"
)

// Config configures the inspector behavior and connections.
type Config struct {
	Tracker *live.Tracker // Tracker whose registry is exposed
}

// IndexData is the JSON payload returned by the /api/index endpoint.
type IndexData struct {
	Language string                `json:"language"`
	Size     int                   `json:"size"`
	Entries  map[string]live.Entry `json:"entries"`
}

// NewHandler returns an http.Handler for the live index inspector.
//
// The returned handler serves:
//   - GET / - The inspector UI
//   - GET /api/index - The tracked reverse index as JSON
//   - GET /api/language - The most recently tracked language
//   - POST /api/refresh - Clears the index via the registry refresh hook
//   - GET /script - The cached editor client script
func NewHandler(cfg Config) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", serveInspectorUI)
	mux.HandleFunc("/api/index", cfg.handleIndex)
	mux.HandleFunc("/api/language", cfg.handleLanguage)
	mux.HandleFunc("/api/refresh", cfg.handleRefresh)
	mux.HandleFunc("/script", cfg.handleScript)
	return mux
}

// serveInspectorUI serves the HTML/JS UI for the index inspector.
func serveInspectorUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	if _, err := w.Write([]byte(inspectorHTML)); err != nil {
		// Optionally log the error
	}
}

func (cfg Config) registry() *live.Registry {
	if cfg.Tracker != nil {
		return cfg.Tracker.Registry()
	}
	return live.DefaultRegistry()
}

// handleIndex returns a snapshot of the reverse index.
func (cfg Config) handleIndex(w http.ResponseWriter, r *http.Request) {
	reg := cfg.registry()
	data := IndexData{
		Language: reg.Language(),
		Entries:  map[string]live.Entry{},
	}
	if idx := reg.Index(); idx != nil {
		data.Entries = idx.Entries()
		data.Size = idx.Size()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode index", http.StatusInternalServerError)
		return
	}
}

// handleLanguage returns the most recently tracked language.
func (cfg Config) handleLanguage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"language": cfg.registry().Language()}); err != nil {
		http.Error(w, "Failed to encode language", http.StatusInternalServerError)
		return
	}
}

// handleRefresh triggers the registry refresh hook, emptying the index.
func (cfg Config) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg.registry().Refresh()

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "refreshed"}); err != nil {
		http.Error(w, "Failed to encode status", http.StatusInternalServerError)
		return
	}
}

// handleScript serves the cached editor client script, if it has been
// downloaded.
func (cfg Config) handleScript(w http.ResponseWriter, r *http.Request) {
	script := live.EditorScript()
	if len(script) == 0 {
		http.Error(w, "Editor script not loaded", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/javascript")
	if _, err := w.Write(script); err != nil {
		// Optionally log the error
	}
}

// inspectorHTML contains the embedded HTML/JS/CSS for the inspector UI.
// The UI shows the reverse index as a searchable table with a refresh button.
const inspectorHTML = `
<!DOCTYPE html>
<html>
<head>
  <title>Live Translation Index</title>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <style>
    * { box-sizing: border-box; }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
      margin: 0;
      padding: 20px;
      background: #f5f5f5;
    }
    .container {
      max-width: 1200px;
      margin: 0 auto;
      background: white;
      border-radius: 8px;
      box-shadow: 0 2px 10px rgba(0,0,0,0.1);
      overflow: hidden;
    }
    .header {
      background: #2c3e50;
      color: white;
      padding: 20px;
      display: flex;
      justify-content: space-between;
      align-items: center;
    }
    .header h1 { margin: 0; font-size: 22px; font-weight: 500; }
    .header .lang { font-size: 14px; color: #bdc3c7; }
    .controls {
      padding: 20px;
      border-bottom: 1px solid #eee;
      display: flex;
      gap: 15px;
      align-items: center;
    }
    .search-box { flex: 1; }
    .search-box input {
      width: 100%;
      padding: 8px 12px;
      border: 1px solid #ddd;
      border-radius: 4px;
      font-size: 14px;
    }
    .refresh-btn {
      background: #e67e22;
      color: white;
      border: none;
      padding: 8px 16px;
      border-radius: 4px;
      cursor: pointer;
      font-size: 14px;
      font-weight: 500;
    }
    .refresh-btn:hover { background: #d35400; }
    .table-container { overflow-x: auto; max-height: 70vh; }
    table {
      width: 100%;
      border-collapse: collapse;
      font-size: 14px;
    }
    th {
      background: #f8f9fa;
      padding: 12px 8px;
      text-align: left;
      border-bottom: 2px solid #dee2e6;
      position: sticky;
      top: 0;
    }
    td {
      padding: 8px;
      border-bottom: 1px solid #eee;
      vertical-align: top;
    }
    tr:hover { background: #f8f9fa; }
    .keys, .vars {
      font-family: 'Monaco', 'Menlo', monospace;
      font-size: 13px;
      color: #2c3e50;
    }
    .stats {
      padding: 15px 20px;
      background: #f8f9fa;
      border-top: 1px solid #eee;
      font-size: 14px;
      color: #6c757d;
    }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Live Translation Index</h1>
      <span class="lang" id="language"></span>
    </div>

    <div class="controls">
      <div class="search-box">
        <input type="text" id="searchInput" placeholder="Search rendered text or translation keys...">
      </div>
      <button class="refresh-btn" onclick="refreshIndex()">Refresh</button>
    </div>

    <div class="table-container">
      <table>
        <thead>
          <tr>
            <th>Rendered Text</th>
            <th>Keys</th>
            <th>Namespace</th>
            <th>Variables</th>
          </tr>
        </thead>
        <tbody id="tableBody">
          <tr><td colspan="4">Loading...</td></tr>
        </tbody>
      </table>
    </div>

    <div class="stats" id="stats">Loading...</div>
  </div>

  <script>
    let indexData = null;

    window.onload = function() { loadIndex(); };

    document.getElementById('searchInput').addEventListener('input', function(e) {
      renderTable(e.target.value.toLowerCase());
    });

    async function loadIndex() {
      const response = await fetch('api/index');
      indexData = await response.json();
      document.getElementById('language').textContent =
        indexData.language ? 'language: ' + indexData.language : '';
      renderTable('');
    }

    function renderTable(term) {
      const body = document.getElementById('tableBody');
      body.innerHTML = '';
      let shown = 0;
      const values = Object.keys(indexData.entries).sort();
      values.forEach(value => {
        const entry = indexData.entries[value];
        const keys = (entry.keys || []).join(', ');
        if (term && !value.toLowerCase().includes(term) && !keys.toLowerCase().includes(term)) {
          return;
        }
        shown++;
        const row = document.createElement('tr');
        row.innerHTML =
          '<td>' + escapeHTML(value) + '</td>' +
          '<td class="keys">' + escapeHTML(keys) + '</td>' +
          '<td>' + escapeHTML(entry.namespace || '') + '</td>' +
          '<td class="vars">' + escapeHTML(JSON.stringify(entry.variables || {})) + '</td>';
        body.appendChild(row);
      });
      document.getElementById('stats').textContent =
        'Showing ' + shown + ' of ' + indexData.size + ' tracked values';
    }

    function escapeHTML(s) {
      const div = document.createElement('div');
      div.textContent = s;
      return div.innerHTML;
    }

    async function refreshIndex() {
      await fetch('api/refresh', { method: 'POST' });
      await loadIndex();
    }
  </script>
</body>
</html>
`
