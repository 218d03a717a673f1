package server

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/TFMV/colexgraph/render"
)

type indexData struct {
	Options *render.OutputOptions
	Map     template.HTML
}

// baseMap renders the language dots once; the page adds markers itself.
func (s *Server) baseMap() (template.HTML, error) {
	frame := &render.Frame{Model: s.dataset.Model, Lookups: s.dataset.Lookups}
	data, err := (&render.MapRenderer{}).Render(frame, s.cfg.Output)
	if err != nil {
		return "", err
	}
	if i := bytes.Index(data, []byte("<svg")); i > 0 {
		data = data[i:]
	}
	// MapRenderer escapes every language name it writes.
	return template.HTML(data), nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	m, err := s.baseMap()
	if err != nil {
		s.log.Error("rendering map", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, indexData{Options: s.cfg.Output, Map: m}); err != nil {
		s.log.Error("rendering index", "err", err)
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{if .Options.Title}}{{.Options.Title}}{{else}}colexgraph{{end}}</title>
<style>
body { font-family: sans-serif; margin: 1em; }
#graph { border: 1px solid #ddd; cursor: move; }
#side { display: inline-block; vertical-align: top; margin-left: 1em; max-width: 560px; }
#panel table { border-collapse: collapse; font-size: 12px; }
#panel td, #panel th { padding: 2px 6px; text-align: left; }
#status { color: #888; font-size: 12px; }
.node { cursor: pointer; }
.label text { cursor: default; }
</style>
</head>
<body>
<div id="controls">
  <label>Coloring
    <select id="coloring">
      <option value="Family">Family</option>
      <option value="Geolocation">Geolocation</option>
    </select>
  </label>
  <label>Link opacity <input id="opacity" type="range" min="0" max="100" value="100"></label>
  <button data-export="svg">SVG</button>
  <button data-export="png">PNG</button>
  <button data-export="json">JSON</button>
  <button data-export="html">ECharts</button>
  <span id="status">connecting</span>
</div>
<svg id="graph" width="{{.Options.Width}}" height="{{.Options.Height}}"
     data-radius="{{.Options.NodeRadius}}" data-font="{{.Options.FontSize}}">
  <rect id="background" width="100%" height="100%" fill="{{.Options.Background}}"></rect>
  <g id="viewport">
    <g id="links"></g>
    <g id="nodes"></g>
    <g id="labels"></g>
  </g>
</svg>
<div id="side">
  <div id="map">{{.Map}}</div>
  <div id="panel"></div>
</div>
<script>
(function () {
  var NS = "http://www.w3.org/2000/svg";
  var graph = document.getElementById("graph");
  var radius = +graph.dataset.radius || 5;
  var fontSize = +graph.dataset.font || 12;
  var status = document.getElementById("status");
  var panel = document.getElementById("panel");
  var markers = document.querySelector("#map g.markers");
  var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
  var drag = null;
  var last = null;

  function send(msg) {
    if (ws.readyState === WebSocket.OPEN) ws.send(JSON.stringify(msg));
  }

  function el(name, attrs, parent) {
    var e = document.createElementNS(NS, name);
    for (var k in attrs) e.setAttribute(k, attrs[k]);
    if (parent) parent.appendChild(e);
    return e;
  }

  function clear(id) {
    var g = document.getElementById(id);
    while (g.firstChild) g.removeChild(g.firstChild);
    return g;
  }

  function text(s) {
    var d = document.createElement("div");
    d.textContent = s;
    return d.innerHTML;
  }

  function draw(f) {
    last = f;
    var vp = f.context.viewport;
    document.getElementById("viewport").setAttribute("transform",
      "translate(" + vp.translate.X + "," + vp.translate.Y + ") scale(" + (vp.scale || 1) + ")");
    document.getElementById("coloring").value = f.context.coloring;
    document.getElementById("opacity").value = f.context.opacity;

    var links = clear("links");
    f.links.forEach(function (l) {
      var line = el("line", {x1: l.x1, y1: l.y1, x2: l.x2, y2: l.y2,
        stroke: l.stroke, "stroke-width": l.width, "stroke-opacity": l.opacity}, links);
      line.addEventListener("mouseover", function () { send({type: "hover_link", link: l.index}); });
      line.addEventListener("mouseout", function () { send({type: "mouse_out"}); });
    });

    var nodes = clear("nodes");
    f.nodes.forEach(function (n) {
      var c = el("circle", {"class": "node", cx: n.x, cy: n.y, r: radius,
        fill: "#555", stroke: "#FFF", "stroke-width": 3}, nodes);
      c.addEventListener("mousedown", function (e) {
        e.stopPropagation();
        drag = {node: n.index, x: e.clientX, y: e.clientY};
        send({type: "drag_start", node: n.index});
      });
    });

    var labels = clear("labels");
    f.labels.forEach(function (l) {
      var g = el("g", {"class": "label", transform: "translate(" + l.x + "," + l.y + ")"}, labels);
      var t = el("text", {transform: "translate(" + l.dx + "," + l.dy + ")", fill: l.fill,
        "font-size": fontSize, "font-weight": l.bold ? "bold" : "normal"}, g);
      t.textContent = l.text;
      if (l.tooltip) el("title", {}, t).textContent = l.tooltip.join("\n");
      t.addEventListener("mouseover", function () { send({type: "hover_node", node: l.node}); });
      t.addEventListener("mouseout", function () { send({type: "mouse_out"}); });
    });

    while (markers.firstChild) markers.removeChild(markers.firstChild);
    f.markers.forEach(function (m) {
      var c = el("circle", {"class": "marker", cx: m.pos.X, cy: m.pos.Y, r: m.radius, fill: m.fill}, markers);
      el("title", {}, c).textContent = m.language;
    });

    drawPanel(f.panel);
    status.textContent = "frame " + f.frame + (f.running ? " alpha " + f.alpha.toFixed(4) : " settled");
  }

  function drawPanel(p) {
    if (!p) { panel.innerHTML = ""; return; }
    var h = "<p>" + text(p.title) + "</p><table>";
    if (p.kind === 1) {
      h += "<tr><th>Concept</th><th>Community</th><th>Frequency</th></tr>";
      (p.out_edges || []).forEach(function (r) {
        h += "<tr><td><a target=\"_blank\" href=\"" + text(r.registry_url) + "\">" + text(r.target_label) +
          "</a></td><td><a target=\"_blank\" href=\"" + text(r.community_url) + "\">" + text(r.community) +
          "</a></td><td>" + text(r.frequency) + "</td></tr>";
      });
    } else {
      h += "<tr><th>Family</th><th>Language</th><th>Form</th><th>Gloss</th></tr>";
      (p.rows || []).forEach(function (r) {
        h += "<tr><td style=\"background-color: " + text(r.swatch) + "; color: " + text(r.text) + "\">" +
          text(r.family) + "</td><td>" + text(r.language) + "</td><td>" + text(r.form) +
          "</td><td title=\"?" + text(r.word_id) + "\">" + text(r.gloss) + "</td></tr>";
      });
    }
    panel.innerHTML = h + "</table>";
  }

  function download(msg) {
    var bin = atob(msg.content);
    var bytes = new Uint8Array(bin.length);
    for (var i = 0; i < bin.length; i++) bytes[i] = bin.charCodeAt(i);
    var a = document.createElement("a");
    a.href = URL.createObjectURL(new Blob([bytes], {type: msg.mime}));
    a.download = "colexgraph-" + (last ? last.frame : 0) + "." + (msg.format === "html" ? "html" : msg.format);
    a.click();
    URL.revokeObjectURL(a.href);
  }

  ws.onmessage = function (e) {
    var msg = JSON.parse(e.data);
    switch (msg.type) {
    case "hello": status.textContent = "session " + msg.session; break;
    case "frame": draw(msg.frame); break;
    case "export": download(msg); break;
    case "error": status.textContent = msg.error; break;
    }
  };
  ws.onclose = function () { status.textContent = "disconnected"; };

  window.addEventListener("mousemove", function (e) {
    if (!drag) return;
    var scale = (last && last.context.viewport.scale) || 1;
    send({type: "drag_move", node: drag.node, dx: (e.clientX - drag.x) / scale, dy: (e.clientY - drag.y) / scale});
    drag.x = e.clientX;
    drag.y = e.clientY;
  });
  window.addEventListener("mouseup", function () {
    if (!drag) return;
    send({type: "drag_end", node: drag.node});
    drag = null;
  });
  document.getElementById("background").addEventListener("click", function () {
    send({type: "background_click"});
  });
  graph.addEventListener("wheel", function (e) {
    if (!last) return;
    e.preventDefault();
    var vp = last.context.viewport;
    var scale = Math.max(0.1, (vp.scale || 1) * (e.deltaY < 0 ? 1.1 : 1 / 1.1));
    send({type: "viewport", x: vp.translate.X, y: vp.translate.Y, scale: scale});
  });
  document.getElementById("coloring").addEventListener("change", function (e) {
    send({type: "coloring", mode: e.target.value});
  });
  document.getElementById("opacity").addEventListener("input", function (e) {
    send({type: "opacity", percent: +e.target.value});
  });
  document.querySelectorAll("button[data-export]").forEach(function (b) {
    b.addEventListener("click", function () { send({type: "export", format: b.dataset.export}); });
  });
})();
</script>
</body>
</html>
`))
