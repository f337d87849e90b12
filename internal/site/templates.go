package site

// pageTemplate is the Go html/template for each site page.
const pageTemplate = `<!DOCTYPE html>
<html lang="en" data-theme="light">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} · {{.SiteTitle}}</title>
  <link rel="stylesheet" href="{{.BasePath}}style.css">
  {{- if .IsCanvas}}
  <link rel="stylesheet" href="{{.BasePath}}canvas.css">
  {{- end}}
</head>
<body{{if .IsCanvas}} class="canvas-body"{{end}} data-base="{{.BasePath}}">
  <nav class="sidebar" id="sidebar">
    <div class="sidebar-header">
      {{if .LogoFile}}<a href="{{.BasePath}}index.html" class="sidebar-logo-link"><img src="{{.BasePath}}{{.LogoFile}}" alt="{{.SiteTitle}}" class="sidebar-logo"></a>{{end}}
      <h2 class="project-title">{{.SiteTitle}}</h2>
      <input type="text" id="search-input" placeholder="Search notes and canvases..." autocomplete="off">
    </div>
    <div class="sidebar-tree" id="sidebar-tree">
      {{.TreeHTML}}
    </div>
  </nav>
  <div class="sidebar-overlay" id="sidebar-overlay"></div>
  <main class="content">
    <div class="top-bar">
      <button class="menu-toggle" id="menu-toggle" aria-label="Toggle sidebar">
        <svg width="24" height="24" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
          <line x1="3" y1="6" x2="21" y2="6"/><line x1="3" y1="12" x2="21" y2="12"/><line x1="3" y1="18" x2="21" y2="18"/>
        </svg>
      </button>
      <h1 class="page-title">{{.Title}}</h1>
      <button class="theme-toggle" id="theme-toggle" aria-label="Toggle theme">
        <svg class="sun-icon" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
          <circle cx="12" cy="12" r="5"/><line x1="12" y1="1" x2="12" y2="3"/><line x1="12" y1="21" x2="12" y2="23"/><line x1="1" y1="12" x2="3" y2="12"/><line x1="21" y1="12" x2="23" y2="12"/>
        </svg>
        <svg class="moon-icon" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
          <path d="M21 12.79A9 9 0 1 1 11.21 3 7 7 0 0 0 21 12.79z"/>
        </svg>
      </button>
    </div>
    <div class="search-results" id="search-results"></div>
    <div class="page-content" id="page-content">
      {{.Content}}
    </div>
  </main>
  <script src="{{.BasePath}}script.js"></script>
  {{- if and .IsCanvas .HasController}}
  <script src="{{.BasePath}}wasm_exec.js"></script>
  <script>canvasdoc.loadController({{.BasePath}} + "canvas.wasm");</script>
  {{- end}}
</body>
</html>`

// cssContent is the base stylesheet shared by every page.
const cssContent = `/* ============ CSS Variables ============ */
:root {
  --bg: #ffffff;
  --bg-secondary: #f8f9fa;
  --bg-sidebar: #f1f3f5;
  --text: #212529;
  --text-secondary: #495057;
  --text-muted: #868e96;
  --border: #dee2e6;
  --accent: #228be6;
  --accent-light: #e7f5ff;
  --code-bg: #f1f3f5;
  --sidebar-width: 280px;
  --content-max-width: 900px;
  --shadow: 0 1px 3px rgba(0,0,0,0.08);
  --shadow-lg: 0 4px 12px rgba(0,0,0,0.1);
}

[data-theme="dark"] {
  --bg: #1a1b26;
  --bg-secondary: #1f2030;
  --bg-sidebar: #16171f;
  --text: #c0caf5;
  --text-secondary: #a9b1d6;
  --text-muted: #565f89;
  --border: #292e42;
  --accent: #7aa2f7;
  --accent-light: #1a1b2e;
  --code-bg: #1f2030;
  --shadow: 0 1px 3px rgba(0,0,0,0.3);
  --shadow-lg: 0 4px 12px rgba(0,0,0,0.4);
}

/* ============ Reset & Base ============ */
*, *::before, *::after {
  box-sizing: border-box;
  margin: 0;
  padding: 0;
}

body {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
  color: var(--text);
  background: var(--bg);
  line-height: 1.7;
  display: flex;
  min-height: 100vh;
}

a { color: var(--accent); text-decoration: none; }
a:hover { text-decoration: underline; }

/* ============ Sidebar ============ */
.sidebar {
  width: var(--sidebar-width);
  background: var(--bg-sidebar);
  border-right: 1px solid var(--border);
  position: fixed;
  top: 0;
  bottom: 0;
  overflow-y: auto;
  z-index: 20;
}

.sidebar-header {
  padding: 1.25rem 1rem 0.75rem;
  border-bottom: 1px solid var(--border);
}

.sidebar-logo { max-width: 120px; margin-bottom: 0.5rem; }

.project-title {
  font-size: 1.1rem;
  margin-bottom: 0.75rem;
}

#search-input {
  width: 100%;
  padding: 0.45rem 0.7rem;
  border: 1px solid var(--border);
  border-radius: 6px;
  background: var(--bg);
  color: var(--text);
  font-size: 0.875rem;
}

.sidebar-tree { padding: 0.75rem 0.5rem; font-size: 0.9rem; }
.sidebar-tree ul { list-style: none; }
.sidebar-tree ul ul { padding-left: 0.9rem; display: none; }
.sidebar-tree > ul > li > ul, .sidebar-tree .dir.expanded > ul { display: block; }
.sidebar-tree li.hidden { display: none; }
.sidebar-tree a { display: block; padding: 0.15rem 0.5rem; border-radius: 4px; color: var(--text-secondary); }
.sidebar-tree a.active { background: var(--accent-light); color: var(--accent); font-weight: 600; }
.sidebar-tree .canvas-file > a::before { content: "\25A6  "; color: var(--text-muted); }
.dir-toggle { cursor: pointer; display: block; padding: 0.15rem 0.5rem; font-weight: 600; }
.dir-toggle::before { content: "\25B8  "; color: var(--text-muted); }
.dir.expanded > .dir-toggle::before { content: "\25BE  "; }

.sidebar-overlay { display: none; }

/* ============ Content ============ */
.content {
  margin-left: var(--sidebar-width);
  flex: 1;
  min-width: 0;
}

.top-bar {
  display: flex;
  align-items: center;
  gap: 0.75rem;
  padding: 0.75rem 2rem;
  border-bottom: 1px solid var(--border);
  position: sticky;
  top: 0;
  background: var(--bg);
  z-index: 10;
}

.page-title { font-size: 1.25rem; flex: 1; }

.menu-toggle, .theme-toggle {
  background: none;
  border: none;
  color: var(--text-secondary);
  cursor: pointer;
  padding: 0.25rem;
}
.menu-toggle { display: none; }
[data-theme="light"] .moon-icon, [data-theme="dark"] .sun-icon { display: none; }

.page-content {
  max-width: var(--content-max-width);
  padding: 2rem;
}
.canvas-body .page-content { max-width: none; padding: 1rem; }

.page-content h1, .page-content h2, .page-content h3 { margin: 1.5rem 0 0.75rem; line-height: 1.3; }
.page-content p, .page-content ul, .page-content ol, .page-content pre, .page-content table { margin-bottom: 1rem; }
.page-content ul, .page-content ol { padding-left: 1.5rem; }
.page-content code { background: var(--code-bg); padding: 0.1rem 0.35rem; border-radius: 4px; font-size: 0.875em; }
.page-content pre { background: var(--code-bg); padding: 1rem; border-radius: 6px; overflow-x: auto; }
.page-content pre code { background: none; padding: 0; }
.page-content table { border-collapse: collapse; }
.page-content th, .page-content td { border: 1px solid var(--border); padding: 0.4rem 0.75rem; }

/* ============ Search results ============ */
.search-results { display: none; padding: 1rem 2rem; border-bottom: 1px solid var(--border); background: var(--bg-secondary); }
.search-results.visible { display: block; }
.search-result { padding: 0.5rem 0; border-bottom: 1px solid var(--border); }
.search-result:last-child { border-bottom: none; }
.search-result-kind { font-size: 0.75rem; color: var(--text-muted); text-transform: uppercase; margin-left: 0.5rem; }
.search-result p { font-size: 0.875rem; color: var(--text-secondary); }

/* ============ Responsive ============ */
@media (max-width: 900px) {
  .sidebar { transform: translateX(-100%); transition: transform 0.2s ease; }
  .sidebar.open { transform: translateX(0); box-shadow: var(--shadow-lg); }
  .sidebar-overlay.visible { display: block; position: fixed; inset: 0; background: rgba(0,0,0,0.3); z-index: 15; }
  .content { margin-left: 0; }
  .menu-toggle { display: block; }
}
`

// canvasCSS styles canvas pages. It is written as a separate file so
// Markdown-only pages do not pay for it.
const canvasCSS = `:root {
  --darkgray: #4a4f57;
  --gray: #a0a4ab;
  --lightgray: #e5e7ea;
  --canvas-bg: var(--bg-secondary);
  --canvas-node-bg: var(--bg);
}

[data-theme="dark"] {
  --darkgray: #c0caf5;
  --gray: #565f89;
  --lightgray: #292e42;
}

.canvas-page { position: relative; }

.canvas-container {
  position: relative;
  height: 75vh;
  min-height: 420px;
  overflow: hidden;
  border: 1px solid var(--border);
  border-radius: 8px;
  background-color: var(--canvas-bg);
  background-image: radial-gradient(var(--lightgray) 1px, transparent 1px);
  background-size: 20px 20px;
  touch-action: none;
  user-select: none;
}
.canvas-container[data-enable-interaction="true"] { cursor: grab; }
.canvas-container[data-enable-interaction="false"] { overflow: auto; touch-action: auto; }

.canvas-container.canvas-fullscreen {
  position: fixed;
  inset: 0;
  height: auto;
  z-index: 1000;
  border: none;
  border-radius: 0;
}

.canvas-viewport {
  position: absolute;
  top: 0;
  left: 0;
  transform-origin: 0 0;
}

.canvas-nodes { position: absolute; top: 0; left: 0; }

.canvas-edges {
  position: absolute;
  top: 0;
  left: 0;
  overflow: visible;
  pointer-events: none;
}
.canvas-edge-label-bg { fill: var(--canvas-bg); }
.canvas-edge-label { fill: var(--darkgray); font-size: 12px; }

/* ============ Nodes ============ */
.canvas-node {
  --canvas-node-color: var(--gray);
  position: absolute;
  display: flex;
  flex-direction: column;
  border: 2px solid var(--canvas-node-color);
  border-radius: 8px;
  background: var(--canvas-node-bg);
  box-shadow: var(--shadow);
  overflow: hidden;
}

.canvas-node-content {
  flex: 1;
  padding: 0.5rem 0.75rem;
  overflow: auto;
  font-size: 0.9rem;
  user-select: text;
  cursor: auto;
}
.canvas-node-content > :first-child { margin-top: 0; }
.canvas-node-content p { margin-bottom: 0.5rem; }

.canvas-file-label, .canvas-link-label {
  padding: 0.25rem 0.75rem;
  font-size: 0.8rem;
  border-bottom: 1px solid var(--border);
  white-space: nowrap;
  overflow: hidden;
  text-overflow: ellipsis;
}
.canvas-file-subpath { color: var(--text-muted); margin-left: 0.25rem; }

.canvas-iframe-wrapper { padding: 0; position: relative; }
.canvas-iframe-wrapper iframe { width: 100%; height: 100%; border: none; }
.canvas-iframe-fallback { display: none; padding: 0.75rem; }
.canvas-iframe-failed .canvas-iframe-fallback { display: block; }

.canvas-node-group {
  background: color-mix(in srgb, var(--canvas-node-color) 8%, transparent);
  box-shadow: none;
  overflow: visible;
}
.canvas-group-label {
  position: absolute;
  top: -1.9rem;
  left: 0;
  padding: 0.15rem 0.6rem;
  border-radius: 6px;
  background: var(--canvas-node-color);
  color: var(--bg);
  font-size: 0.85rem;
  white-space: nowrap;
}
.canvas-group-background {
  position: absolute;
  inset: 0;
  width: 100%;
  height: 100%;
  object-fit: cover;
  pointer-events: none;
  z-index: -1;
}
.canvas-group-bg-ratio .canvas-group-background { object-fit: contain; }
.canvas-group-bg-repeat .canvas-group-background { object-fit: none; object-position: 0 0; }

/* ============ Controls ============ */
.canvas-controls {
  position: absolute;
  top: 0.75rem;
  right: 0.75rem;
  display: flex;
  flex-direction: column;
  gap: 0.4rem;
  z-index: 5;
}
.canvas-controls button {
  display: flex;
  align-items: center;
  justify-content: center;
  width: 32px;
  height: 32px;
  border: 1px solid var(--border);
  border-radius: 6px;
  background: var(--bg);
  color: var(--text-secondary);
  cursor: pointer;
  box-shadow: var(--shadow);
}
.canvas-controls button:hover { color: var(--accent); }
.canvas-zoom-group { display: flex; flex-direction: column; gap: 0.4rem; }
.canvas-fullscreen-icon-collapse { display: none; }
.canvas-fullscreen .canvas-fullscreen-icon-collapse { display: block; }
.canvas-fullscreen .canvas-fullscreen-icon-expand { display: none; }
`

// jsContent is the page script: theme, sidebar and search, plus the glue
// that hosts the canvas controller and live reload.
const jsContent = `(function() {
  "use strict";

  var html = document.documentElement;
  var base = document.body.getAttribute("data-base") || "";

  // ===== Theme toggle =====
  function setTheme(theme) {
    html.setAttribute("data-theme", theme);
    try { localStorage.setItem("canvasdoc-theme", theme); } catch(e) {}
  }

  var stored = null;
  try { stored = localStorage.getItem("canvasdoc-theme"); } catch(e) {}
  if (stored) {
    setTheme(stored);
  } else if (window.matchMedia && window.matchMedia("(prefers-color-scheme: dark)").matches) {
    setTheme("dark");
  }

  var themeToggle = document.getElementById("theme-toggle");
  if (themeToggle) {
    themeToggle.addEventListener("click", function() {
      setTheme(html.getAttribute("data-theme") === "dark" ? "light" : "dark");
    });
  }

  // ===== Sidebar toggle (mobile) =====
  var sidebar = document.getElementById("sidebar");
  var overlay = document.getElementById("sidebar-overlay");
  function toggleSidebar() {
    sidebar.classList.toggle("open");
    overlay.classList.toggle("visible");
  }
  var menuToggle = document.getElementById("menu-toggle");
  if (menuToggle) menuToggle.addEventListener("click", toggleSidebar);
  if (overlay) overlay.addEventListener("click", toggleSidebar);

  document.querySelectorAll(".dir-toggle").forEach(function(toggle) {
    toggle.addEventListener("click", function() {
      this.parentElement.classList.toggle("expanded");
    });
  });

  // ===== Search =====
  var searchInput = document.getElementById("search-input");
  var results = document.getElementById("search-results");
  var searchIndex = null;

  fetch(base + "search-index.json")
    .then(function(r) { return r.json(); })
    .then(function(data) { searchIndex = data || []; })
    .catch(function() { searchIndex = null; });

  function escapeHTML(s) {
    return String(s).replace(/[&<>"']/g, function(c) {
      return {"&": "&amp;", "<": "&lt;", ">": "&gt;", "\"": "&quot;", "'": "&#39;"}[c];
    });
  }

  if (searchInput && results) {
    searchInput.addEventListener("input", function() {
      var query = this.value.toLowerCase().trim();
      if (!query || !searchIndex) {
        results.classList.remove("visible");
        results.innerHTML = "";
        return;
      }
      var hits = searchIndex.filter(function(e) {
        return e.title.toLowerCase().indexOf(query) !== -1 ||
          e.content.toLowerCase().indexOf(query) !== -1;
      }).slice(0, 20);
      results.innerHTML = hits.length === 0
        ? "<p>No results.</p>"
        : hits.map(function(e) {
            return '<div class="search-result"><a href="' + base + escapeHTML(e.path) + '">' +
              escapeHTML(e.title) + '</a><span class="search-result-kind">' + escapeHTML(e.kind) +
              '</span><p>' + escapeHTML(e.summary) + '</p></div>';
          }).join("");
      results.classList.add("visible");
    });
  }

  // ===== Canvas controller host =====
  // The controller registers one teardown per canvas through addCleanup
  // and re-scans the page on every "nav" event.
  var cleanups = [];
  window.addCleanup = function(fn) { cleanups.push(fn); };

  function runCleanups() {
    var pending = cleanups;
    cleanups = [];
    pending.forEach(function(fn) {
      try { fn(); } catch(e) { console.error(e); }
    });
  }

  function navigated() {
    document.dispatchEvent(new CustomEvent("nav"));
  }

  window.canvasdoc = {
    loadController: function(url) {
      if (typeof Go === "undefined" || !WebAssembly.instantiateStreaming) return;
      var go = new Go();
      WebAssembly.instantiateStreaming(fetch(url), go.importObject)
        .then(function(result) { go.run(result.instance); })
        .catch(function(err) { console.error("canvas controller:", err); });
    }
  };

  window.addEventListener("pagehide", runCleanups);

  // ===== Live reload =====
  // Only the dev server answers on /livereload; static hosting ignores it.
  function swapContent() {
    fetch(location.href, {cache: "no-store"})
      .then(function(r) { return r.text(); })
      .then(function(text) {
        var doc = new DOMParser().parseFromString(text, "text/html");
        var fresh = doc.getElementById("page-content");
        var current = document.getElementById("page-content");
        if (!fresh || !current) { location.reload(); return; }
        runCleanups();
        current.innerHTML = fresh.innerHTML;
        navigated();
      })
      .catch(function() { location.reload(); });
  }

  if (location.protocol === "http:" || location.protocol === "https:") {
    var scheme = location.protocol === "https:" ? "wss://" : "ws://";
    try {
      var ws = new WebSocket(scheme + location.host + "/livereload");
      ws.onmessage = function(msg) {
        try {
          var data = JSON.parse(msg.data);
          if (data.type === "reload") swapContent();
        } catch(e) {}
      };
    } catch(e) {}
  }
})();
`
