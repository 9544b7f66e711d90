package chromedp

import (
	"encoding/json"
	"fmt"
)

// ref identifies a node by the lookup that found it. Nodes are resolved
// again on every call, so a detached node surfaces as "not found".
type ref struct {
	Kind   string `json:"k"` // "css" or "xpath"
	Expr   string `json:"x"`
	Index  int    `json:"i"`
	Option int    `json:"o"` // index into the node's <option> list, -1 for the node itself
}

// resolveJS returns the node for a ref, or null.
const resolveJS = `function(r) {
  var nodes = [];
  if (r.k === "css") {
    nodes = Array.prototype.slice.call(document.querySelectorAll(r.x));
  } else {
    var res = document.evaluate(r.x, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
    for (var n = 0; n < res.snapshotLength; n++) nodes.push(res.snapshotItem(n));
  }
  var el = nodes[r.i] || null;
  if (el && r.o >= 0) el = el.querySelectorAll("option")[r.o] || null;
  return el;
}`

// envelope is the JSON shape every evaluation returns, so that thrown
// exceptions and missing nodes can be told apart from driver failures.
type envelope struct {
	V json.RawMessage `json:"v"`
	E string          `json:"e"` // "", "notfound" or "script"
	M string          `json:"m"`
}

// nodeExpr evaluates body with the node bound to el. Elements of args are
// available as args[0..n].
func nodeExpr(r ref, body string, args ...interface{}) string {
	rj, _ := json.Marshal(r)
	aj, _ := json.Marshal(args)
	if args == nil {
		aj = []byte("[]")
	}
	return fmt.Sprintf(`(function() {
  var el = (%s)(%s);
  if (!el) return {e: "notfound"};
  try {
    var v = (function(el, args) { %s })(el, %s);
    return {v: v === undefined ? null : v};
  } catch (e) {
    return {e: "script", m: String(e)};
  }
})()`, resolveJS, rj, body, aj)
}

// pageExpr evaluates a function body at page level. Arguments tagged as
// element refs are resolved to nodes before the call.
func pageExpr(body string, args []interface{}) string {
	aj, _ := json.Marshal(args)
	if args == nil {
		aj = []byte("[]")
	}
	return fmt.Sprintf(`(function() {
  var resolve = %s;
  var args = (%s).map(function(a) { return a && a.__ref ? resolve(a.__ref) : a; });
  try {
    var v = (function() { %s }).apply(null, args);
    return {v: v === undefined ? null : v};
  } catch (e) {
    return {e: "script", m: String(e)};
  }
})()`, resolveJS, aj, body)
}

// countExpr returns the number of nodes matching kind/expr.
func countExpr(kind, expr string) string {
	rj, _ := json.Marshal(ref{Kind: kind, Expr: expr, Option: -1})
	return fmt.Sprintf(`(function() {
  var r = %s;
  try {
    if (r.k === "css") return {v: document.querySelectorAll(r.x).length};
    return {v: document.evaluate("count(" + r.x + ")", document, null, XPathResult.NUMBER_TYPE, null).numberValue};
  } catch (e) {
    return {e: "script", m: String(e)};
  }
})()`, rj)
}

const (
	centerJS = `el.scrollIntoView({block: "center", inline: "center"});
var b = el.getBoundingClientRect();
return {x: b.left + b.width / 2, y: b.top + b.height / 2};`

	focusJS     = `el.focus(); return true;`
	clearJS     = `el.focus(); if ("value" in el) { el.value = ""; el.dispatchEvent(new Event("input", {bubbles: true})); el.dispatchEvent(new Event("change", {bubbles: true})); } return true;`
	textJS      = `return el.innerText !== undefined ? el.innerText : el.textContent;`
	tagJS       = `return el.tagName.toLowerCase();`
	attributeJS = `var v = el.getAttribute(args[0]); return v === null ? null : String(v);`
	displayedJS = `var s = window.getComputedStyle(el);
return s.display !== "none" && s.visibility !== "hidden" && el.getClientRects().length > 0;`
	enabledJS  = `return !el.disabled;`
	selectedJS = `return !!(el.checked || el.selected);`
	optionsJS  = `return el.querySelectorAll("option").length;`

	highlightJS = `var old = el.style.outline;
el.style.outline = "3px solid #f5a623";
setTimeout(function() { el.style.outline = old; }, 400);
return true;`
)
