package rod

// containerSelectors are tried in order; the first match smaller than the
// body (with positive area) becomes the effective content frame.
const containerSelectors = `[".slide", ".slide-container", ".ppt-slide", ".page", ".card-shadow"]`

// jsMeasure returns the effective content box size so the viewport can be
// refitted before the snapshot is captured.
const jsMeasure = `() => {
	const selectors = ` + containerSelectors + `;
	const body = document.body;
	const bodyRect = body.getBoundingClientRect();
	let content = bodyRect;
	for (const sel of selectors) {
		const el = document.querySelector(sel);
		if (!el) continue;
		const r = el.getBoundingClientRect();
		if (r.width > 0 && r.height > 0 && r.width <= bodyRect.width && r.height <= bodyRect.height) {
			content = r;
			break;
		}
	}
	return JSON.stringify({content: {w: content.width, h: content.height}});
}`

// jsSnapshot serializes the content subtree with computed style and
// border-box geometry relative to the content box origin, plus the frame
// boxes and scroll size the validation checks need.
const jsSnapshot = `() => {
	const PROPS = [
		"display", "visibility",
		"background-color", "background-image",
		"border-top-width", "border-right-width", "border-bottom-width", "border-left-width",
		"border-top-style", "border-right-style", "border-bottom-style", "border-left-style",
		"border-top-color", "border-right-color", "border-bottom-color", "border-left-color",
		"border-radius", "box-shadow",
		"color", "font-size", "font-family", "font-weight", "font-style",
		"text-decoration-line", "text-align", "line-height", "white-space",
		"writing-mode", "transform",
		"padding-top", "padding-right", "padding-bottom", "padding-left",
		"margin-top", "margin-right", "margin-bottom", "margin-left"
	];
	const selectors = ` + containerSelectors + `;

	const body = document.body;
	const bodyRect = body.getBoundingClientRect();
	let container = null;
	for (const sel of selectors) {
		const el = document.querySelector(sel);
		if (!el) continue;
		const r = el.getBoundingClientRect();
		if (r.width > 0 && r.height > 0 && r.width <= bodyRect.width && r.height <= bodyRect.height) {
			container = el;
			break;
		}
	}

	const root = container || body;
	const origin = root.getBoundingClientRect();

	const box = (r) => ({
		x: r.left - origin.left,
		y: r.top - origin.top,
		w: r.width,
		h: r.height
	});

	const snap = (node) => {
		if (node.nodeType === Node.TEXT_NODE) {
			return node.textContent === "" ? null : {tag: "#text", text: node.textContent, box: {x: 0, y: 0, w: 0, h: 0}};
		}
		if (node.nodeType !== Node.ELEMENT_NODE) return null;

		const out = {tag: node.tagName.toLowerCase(), box: box(node.getBoundingClientRect())};

		if (node.attributes.length > 0) {
			const attrs = {};
			for (const a of node.attributes) attrs[a.name] = a.value;
			out.attrs = attrs;
		}

		const cs = getComputedStyle(node);
		const style = {};
		for (const p of PROPS) {
			const v = cs.getPropertyValue(p);
			if (v !== "") style[p] = v;
		}
		out.style = style;

		const children = [];
		for (const c of node.childNodes) {
			const s = snap(c);
			if (s) children.push(s);
		}
		if (children.length > 0) out.children = children;
		return out;
	};

	const abs = (r) => ({x: r.left, y: r.top, w: r.width, h: r.height});
	return JSON.stringify({
		root: snap(root),
		bodyBox: abs(bodyRect),
		containerBox: container ? abs(container.getBoundingClientRect()) : null,
		contentBox: abs(origin),
		scrollWidth: document.documentElement.scrollWidth,
		scrollHeight: document.documentElement.scrollHeight
	});
}`
