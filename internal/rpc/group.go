package rpc

// Group registers procedures under a shared "<prefix>." namespace.
type Group struct {
	r      *Router
	prefix string
}

func (r *Router) Group(prefix string) *Group {
	return &Group{r: r, prefix: prefix}
}

func (g *Group) add(name string, kind Kind, protected bool, h Handler) {
	g.r.Register(Procedure{Name: g.prefix + "." + name, Kind: kind, Protected: protected, Handler: h})
}

func (g *Group) Query(name string, h Handler)             { g.add(name, Query, false, h) }
func (g *Group) Mutation(name string, h Handler)          { g.add(name, Mutation, false, h) }
func (g *Group) ProtectedQuery(name string, h Handler)    { g.add(name, Query, true, h) }
func (g *Group) ProtectedMutation(name string, h Handler) { g.add(name, Mutation, true, h) }
