// File: internal/resolver/script.go
package resolver

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Candidate set for the fuzzy stages: buttons, elements carrying an
// interactive role, submit/button inputs, role="button" links and
// .button-classed links.
const candidateSelector = `button, [role="button"], [role="link"], [role="tab"], [role="menuitem"], input[type="submit"], input[type="button"], a[role="button"], a.button`

// resolveScript implements the ordered matching heuristic as one page-side
// evaluation. Stages, first hit wins:
//
//	1. selector probe (only when the token contains selector syntax)
//	2. exact id match
//	3. id/name attribute equality among interactive candidates
//	4. normalized aria-label / input value equality
//	5. normalized exact visible-text equality
//	6. normalized substring visible-text match
//	7. label association via the label's for attribute
//
// On a hit the script performs the interaction sequence (scroll into center
// view, focus, hover, press, release, click), each step individually
// failure-tolerant, then reports the status string. Any error thrown while
// resolving is captured into an 'error:' status; the script never throws.
const resolveScript = `(function(token){
	try {
		var doc = document;
		var norm = function(s){ return (s || '').replace(/\s+/g, ' ').trim().toLowerCase(); };
		var text = function(el){ return norm(el.innerText || el.textContent); };
		var target = null, strategy = '';

		if (/[.#\[\]>: ]/.test(token)) {
			try {
				var probed = doc.querySelector(token);
				if (probed) { target = probed; strategy = 'selector'; }
			} catch (e) { /* not a valid selector, fall through */ }
		}

		if (!target) {
			var byId = doc.getElementById(token);
			if (byId) { target = byId; strategy = 'id'; }
		}

		var candidates = null;
		var interactive = function(){
			if (!candidates) {
				candidates = Array.prototype.slice.call(doc.querySelectorAll(%s));
			}
			return candidates;
		};

		if (!target) {
			var pool = interactive();
			for (var i = 0; i < pool.length; i++) {
				var el = pool[i];
				if (el.id === token || el.getAttribute('name') === token) {
					target = el; strategy = 'match'; break;
				}
			}
		}

		var wanted = norm(token);
		if (!target && wanted) {
			var pool4 = interactive();
			for (var j = 0; j < pool4.length; j++) {
				var el4 = pool4[j];
				if (norm(el4.getAttribute('aria-label')) === wanted || norm(el4.value) === wanted) {
					target = el4; strategy = 'match'; break;
				}
			}
		}

		if (!target && wanted) {
			var pool5 = interactive();
			for (var k = 0; k < pool5.length; k++) {
				if (text(pool5[k]) === wanted) { target = pool5[k]; strategy = 'match'; break; }
			}
		}

		if (!target && wanted) {
			var pool6 = interactive();
			for (var m = 0; m < pool6.length; m++) {
				if (text(pool6[m]).indexOf(wanted) !== -1) { target = pool6[m]; strategy = 'match'; break; }
			}
		}

		if (!target && wanted) {
			var labels = doc.getElementsByTagName('label');
			for (var n = 0; n < labels.length; n++) {
				var lt = text(labels[n]);
				if (lt === wanted || lt.indexOf(wanted) !== -1) {
					var ref = labels[n].getAttribute('for');
					if (ref) {
						var bound = doc.getElementById(ref);
						if (bound) { target = bound; strategy = 'match'; break; }
					}
				}
			}
		}

		if (!target) { return 'not found'; }

		var rect = { width: 0, height: 0 };
		try { rect = target.getBoundingClientRect(); } catch (e) {}

		try { target.scrollIntoView({ block: 'center', inline: 'center' }); } catch (e) {}
		try { target.focus(); } catch (e) {}
		var fire = function(type){
			try {
				target.dispatchEvent(new MouseEvent(type, { bubbles: true, cancelable: true, view: window }));
			} catch (e) {}
		};
		fire('mouseover');
		fire('mousedown');
		fire('mouseup');
		try { target.click(); } catch (e) { fire('click'); }

		if (!(rect.width > 0 && rect.height > 0)) { return 'clicked:hidden'; }
		return 'clicked:' + strategy;
	} catch (e) {
		return 'error:' + ((e && e.message) ? e.message : String(e));
	}
})(%s);`

// buildScript binds the token into the resolution script. The token is
// JSON-encoded so arbitrary input cannot escape the string literal.
func buildScript(token string) string {
	return fmt.Sprintf(resolveScript, jsonEncode(candidateSelector), jsonEncode(token))
}

// jsonEncode safely encodes a value for injection into page script.
func jsonEncode(v interface{}) string {
	b, err := jsonAPI.Marshal(v)
	if err != nil {
		return `""`
	}
	return string(b)
}
