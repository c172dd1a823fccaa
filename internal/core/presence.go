package core

import "sort"

// presence tracks which participant names have a live connection. A name can
// be held by several connections; it is connected while any of them is.
type presence struct {
	byConn map[SessionID]string
	byName map[string]map[SessionID]struct{}
}

func newPresence() *presence {
	return &presence{
		byConn: make(map[SessionID]string),
		byName: make(map[string]map[SessionID]struct{}),
	}
}

func (p *presence) nameOf(sid SessionID) (string, bool) {
	name, ok := p.byConn[sid]
	return name, ok
}

// attach binds sid to name. It reports whether the name just came online.
func (p *presence) attach(sid SessionID, name string) bool {
	if prev, ok := p.byConn[sid]; ok {
		if prev == name {
			return false
		}
		p.detach(sid)
	}
	p.byConn[sid] = name
	conns, ok := p.byName[name]
	if !ok {
		conns = make(map[SessionID]struct{})
		p.byName[name] = conns
	}
	conns[sid] = struct{}{}
	return len(conns) == 1
}

// detach unbinds sid. last is true when the name has no connection left.
func (p *presence) detach(sid SessionID) (name string, last bool, ok bool) {
	name, ok = p.byConn[sid]
	if !ok {
		return "", false, false
	}
	delete(p.byConn, sid)
	conns := p.byName[name]
	delete(conns, sid)
	if len(conns) == 0 {
		delete(p.byName, name)
		return name, true, true
	}
	return name, false, true
}

// dropName unbinds every connection of name and returns them.
func (p *presence) dropName(name string) []SessionID {
	conns := p.byName[name]
	out := make([]SessionID, 0, len(conns))
	for sid := range conns {
		delete(p.byConn, sid)
		out = append(out, sid)
	}
	delete(p.byName, name)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (p *presence) connected(name string) bool {
	_, ok := p.byName[name]
	return ok
}

func (p *presence) sessions(name string) []SessionID {
	out := make([]SessionID, 0, len(p.byName[name]))
	for sid := range p.byName[name] {
		out = append(out, sid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (p *presence) all() []SessionID {
	out := make([]SessionID, 0, len(p.byConn))
	for sid := range p.byConn {
		out = append(out, sid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// online returns the connected names, sorted.
func (p *presence) online() []string {
	out := make([]string, 0, len(p.byName))
	for name := range p.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (p *presence) count() int { return len(p.byName) }
