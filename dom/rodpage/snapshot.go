package rodpage

// snapshotJS serializes every form into the FormSnapshot JSON shape.
// Label resolution order matches the in-memory implementation:
// label[for] first, then an ancestor <label>, then the first non-empty
// preceding sibling text node.
const snapshotJS = `() => {
	const text = el => (el.textContent || '').trim();

	const fieldLabel = el => {
		if (el.id) {
			const l = document.querySelector('label[for="' + CSS.escape(el.id) + '"]');
			if (l) return text(l);
		}
		const anc = el.closest('label');
		if (anc) return text(anc);
		let sib = el.previousSibling;
		while (sib) {
			if (sib.nodeType === Node.TEXT_NODE && sib.textContent.trim()) {
				return sib.textContent.trim();
			}
			sib = sib.previousSibling;
		}
		return '';
	};

	const fieldType = el => {
		const tag = el.tagName.toLowerCase();
		if (tag === 'input') return el.getAttribute('type') || 'text';
		return tag;
	};

	const formText = form => {
		const parts = [];
		form.querySelectorAll('label, legend, h1, h2, h3, h4, h5, h6, p, span')
			.forEach(el => { const t = text(el); if (t) parts.push(t); });
		for (const attr of ['action', 'class', 'id']) {
			const v = form.getAttribute(attr);
			if (v) parts.push(v);
		}
		return parts.join(' ');
	};

	return [...document.querySelectorAll('form')].map(form => {
		const fields = [...form.querySelectorAll('input, select, textarea')].map(el => ({
			name: el.getAttribute('name') || el.getAttribute('id') || '',
			id: el.getAttribute('id') || '',
			type: fieldType(el),
			placeholder: el.getAttribute('placeholder') || '',
			label: fieldLabel(el),
			value: el.value || '',
			required: el.hasAttribute('required'),
		}));
		return {
			identity: form.getAttribute('id') || form.getAttribute('class') || 'unnamed-form',
			action: form.getAttribute('action') || '',
			method: form.getAttribute('method') || '',
			text: formText(form),
			has_file_input: !!form.querySelector('input[type="file"]'),
			html: form.outerHTML,
			fields: fields,
		};
	});
}`
