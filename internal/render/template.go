package render

// canvasTemplate is the page body for a single canvas. Class names are the
// contract with the viewport controller and the site stylesheet.
const canvasTemplate = `{{- if .Empty -}}
<article class="canvas-page popover-hint">
  <p>No canvas data found.</p>
</article>
{{- else -}}
<article class="canvas-page popover-hint">
  <div class="canvas-container{{if .Fullscreen}} canvas-fullscreen{{end}}" data-enable-interaction="{{.Interactive}}" data-initial-zoom="{{.InitialZoom}}" data-min-zoom="{{.MinZoom}}" data-max-zoom="{{.MaxZoom}}" data-default-fullscreen="{{.Fullscreen}}">
    <div class="canvas-controls">
      <button class="canvas-fullscreen-toggle" type="button" aria-label="Toggle fullscreen">{{.Icons.Expand}}{{.Icons.Collapse}}</button>
      {{- if .Interactive}}
      <div class="canvas-zoom-group">
        <button class="canvas-zoom-in" type="button" aria-label="Zoom in">{{.Icons.ZoomIn}}</button>
        <button class="canvas-zoom-out" type="button" aria-label="Zoom out">{{.Icons.ZoomOut}}</button>
      </div>
      <button class="canvas-reset-view" type="button" aria-label="Reset view" style="display:none">{{.Icons.Reset}}</button>
      {{- end}}
    </div>
    <div class="canvas-viewport" style="{{.ViewportSize}}">
      <div class="canvas-nodes" style="{{.NodesTransform}}">
        {{- range .Nodes}}
        {{template "node" .}}
        {{- end}}
      </div>
      <svg class="canvas-edges" width="{{.ViewWidth}}" height="{{.ViewHeight}}" viewBox="{{.ViewBox}}">{{.Edges}}</svg>
    </div>
  </div>
</article>
{{- end}}
{{define "node" -}}
{{- if eq .Type "text" -}}
<div class="canvas-node canvas-node-text" data-node-id="{{.ID}}" style="{{.Style}}">
  {{- if .HTML}}<div class="canvas-node-content">{{.HTML}}</div>{{else}}<div class="canvas-node-content">{{.Text}}</div>{{end -}}
</div>
{{- else if eq .Type "file" -}}
<div class="canvas-node canvas-node-file" data-node-id="{{.ID}}" style="{{.Style}}">
  <div class="canvas-file-label">
    <a href="{{.Href}}" class="canvas-file-link internal" data-slug="{{.Slug}}">{{.Filename}}</a>
    {{- if .Subpath}}<span class="canvas-file-subpath">{{.Subpath}}</span>{{end}}
  </div>
  <div class="canvas-node-content">
    {{- if .Embed}}<div class="canvas-embed-content">{{.Embed}}</div>{{else}}<a href="{{.Href}}" class="canvas-file-link internal" data-slug="{{.Slug}}">{{.Filename}}</a>{{end -}}
  </div>
</div>
{{- else if eq .Type "link" -}}
<div class="canvas-node canvas-node-link" data-node-id="{{.ID}}" style="{{.Style}}">
  <div class="canvas-link-label"><a href="{{.URL}}" class="canvas-link external" target="_blank" rel="noopener noreferrer">{{.Hostname}}</a></div>
  <div class="canvas-node-content canvas-iframe-wrapper">
    <iframe src="{{.URL}}" title="{{.Hostname}}" sandbox="allow-scripts allow-same-origin allow-popups" loading="lazy" referrerpolicy="no-referrer"></iframe>
    <div class="canvas-iframe-fallback"><a href="{{.URL}}" target="_blank" rel="noopener noreferrer">Open {{.Hostname}} in new tab</a></div>
  </div>
</div>
{{- else if eq .Type "group" -}}
<div class="canvas-node canvas-node-group{{if .BackgroundStyle}} canvas-group-bg-{{.BackgroundStyle}}{{end}}" data-node-id="{{.ID}}" style="{{.Style}}">
  {{- if .Background}}<img class="canvas-group-background" src="{{.Background}}" alt="" loading="lazy">{{end}}
  {{- if .Label}}<div class="canvas-group-label">{{.Label}}</div>{{end -}}
</div>
{{- end -}}
{{- end}}`
