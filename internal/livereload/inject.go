package livereload

import (
	"bytes"
	"strings"
)

// clientScript connects to the hub, reloads on "reload" and shows an
// overlay on "error". It reconnects with backoff while the server restarts.
const clientScript = `<script data-sparkle-livereload>
(function () {
  var delay = 500;
  function overlay(text) {
    var el = document.getElementById("sparkle-error-overlay");
    if (!el) {
      el = document.createElement("pre");
      el.id = "sparkle-error-overlay";
      el.setAttribute("role", "alert");
      el.style.cssText = "position:fixed;inset:0;z-index:99999;margin:0;padding:2rem;overflow:auto;background:rgba(20,0,0,.92);color:#fecaca;font:14px/1.5 monospace;white-space:pre-wrap";
      el.onclick = function () { el.remove(); };
      document.body.appendChild(el);
    }
    el.textContent = text;
  }
  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + "__PATH__");
    ws.onopen = function () { delay = 500; };
    ws.onmessage = function (ev) {
      var msg;
      try { msg = JSON.parse(ev.data); } catch (e) { return; }
      if (msg.type === "reload") location.reload();
      if (msg.type === "error") overlay(msg.message || "Build failed");
    };
    ws.onclose = function () {
      setTimeout(connect, delay);
      delay = Math.min(delay * 2, 5000);
    };
  }
  connect();
})();
</script>`

// Script is the client snippet injected into previewed pages.
var Script = strings.Replace(clientScript, "__PATH__", Path, 1)

var bodyClose = []byte("</body>")

// Inject inserts Script before the last </body>, or appends it when the
// document has none. Documents that already carry it are returned as is.
func Inject(doc []byte) []byte {
	if bytes.Contains(doc, []byte("data-sparkle-livereload")) {
		return doc
	}
	return InsertBeforeBody(doc, Script)
}

// InsertBeforeBody places snippet before the last </body>, matched
// case-insensitively, or at the end of doc.
func InsertBeforeBody(doc []byte, snippet string) []byte {
	i := lastIndexFold(doc, bodyClose)
	if i < 0 {
		return append(append([]byte{}, doc...), snippet...)
	}
	out := make([]byte, 0, len(doc)+len(snippet))
	out = append(out, doc[:i]...)
	out = append(out, snippet...)
	return append(out, doc[i:]...)
}

func lastIndexFold(s, sep []byte) int {
	for i := len(s) - len(sep); i >= 0; i-- {
		if bytes.EqualFold(s[i:i+len(sep)], sep) {
			return i
		}
	}
	return -1
}
