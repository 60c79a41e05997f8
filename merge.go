package transync

// MergeCatalogs reconciles the catalog on disk with a freshly extracted one.
//
// The result holds every key of existing and incoming. For a key present in
// incoming, the message is the prefixed incoming message when opts.Override
// is set or the key is new, and the existing message otherwise. The
// description always comes from incoming. A nil existing catalog is treated
// as empty. Neither argument is modified.
func MergeCatalogs(existing, incoming Catalog, opts WriteOptions) Catalog {
	merged := existing.Clone()
	for key, in := range prefixMessages(incoming, opts.MessagePrefix) {
		msg := in.Message
		if old, ok := existing[key]; ok && !opts.Override {
			msg = old.Message
		}
		merged[key] = Message{Message: msg, Description: in.Description}
	}
	return merged
}

// prefixMessages returns a copy of c with prefix prepended to each message.
func prefixMessages(c Catalog, prefix string) Catalog {
	if prefix == "" {
		return c
	}
	out := make(Catalog, len(c))
	for k, m := range c {
		m.Message = prefix + m.Message
		out[k] = m
	}
	return out
}

// OverlayCatalog returns base with every entry of localized layered on top.
// Localized entries replace base entries wholesale.
func OverlayCatalog(base, localized Catalog) Catalog {
	out := base.Clone()
	for k, m := range localized {
		out[k] = m
	}
	return out
}
