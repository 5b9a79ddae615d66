// File: internal/snapshot/script.go
package snapshot

// captureScript serializes the current page state to a JSON string. It deep
// clones the document element, flattens open shadow subtrees into the clone
// (a bare clone does not carry shadow content), guarantees a <base href> in
// the cloned head so relative references keep their live resolution
// semantics, walks the fixed resource table, and attempts same-origin access
// to every iframe. Each step is wrapped so the script always returns a JSON
// payload; a thrown error becomes the {"error": ...} variant.
//
// Resource entries carry only the raw attribute value; resolution against
// the base href happens on the Go side where failures can fall back cleanly.
const captureScript = `(function(){
	try {
		var doc = document;
		var clone = doc.documentElement.cloneNode(true);

		// cloneNode skips shadow roots, and querySelectorAll order is the
		// same for the original and the clone, so the trees can be walked in
		// lockstep to inject shadow markup at the right hosts. The walk runs
		// in reverse document order: assigning innerHTML on a host re-parses
		// its subtree and detaches the cloned nodes of any descendant hosts,
		// so descendants must be injected first for the ancestor's
		// re-serialization to pick their shadow markup up.
		var live = doc.documentElement.querySelectorAll('*');
		var cloned = clone.querySelectorAll('*');
		var limit = Math.min(live.length, cloned.length);
		for (var i = limit - 1; i >= 0; i--) {
			var shadow = live[i].shadowRoot;
			if (shadow) {
				try { cloned[i].innerHTML = shadow.innerHTML + cloned[i].innerHTML; } catch (e) {}
			}
		}

		var baseHref = doc.baseURI || String(doc.location.href);
		var head = clone.querySelector('head');
		if (head && !head.querySelector('base')) {
			var base = doc.createElement('base');
			base.setAttribute('href', baseHref);
			head.insertBefore(base, head.firstChild);
		}

		var table = [
			['img', 'src'],
			['script', 'src'],
			['link[rel="stylesheet"]', 'href'],
			['a', 'href'],
			['source', 'src'],
			['video', 'src'],
			['audio', 'src'],
			['iframe', 'src']
		];
		var resources = [];
		for (var t = 0; t < table.length; t++) {
			var nodes = doc.querySelectorAll(table[t][0]);
			for (var r = 0; r < nodes.length; r++) {
				var raw = nodes[r].getAttribute(table[t][1]);
				if (raw) {
					resources.push({
						tag: nodes[r].tagName.toLowerCase(),
						attr: table[t][1],
						value: raw
					});
				}
			}
		}

		var iframes = [];
		var frames = doc.querySelectorAll('iframe');
		for (var f = 0; f < frames.length; f++) {
			var entry = { src: frames[f].getAttribute('src') || '', sameOrigin: false, html: '' };
			try {
				var idoc = frames[f].contentDocument;
				if (idoc && idoc.documentElement) {
					entry.sameOrigin = true;
					entry.html = idoc.documentElement.outerHTML;
				}
			} catch (e) { /* cross-origin access blocked */ }
			iframes.push(entry);
		}

		return JSON.stringify({
			url: String(doc.location.href),
			origin: doc.location.origin || '',
			path: doc.location.pathname || '',
			baseHref: baseHref,
			title: doc.title || '',
			html: '<!DOCTYPE html>' + clone.outerHTML,
			resources: resources,
			iframes: iframes
		});
	} catch (e) {
		return JSON.stringify({ error: (e && e.message) ? e.message : String(e) });
	}
})();`
