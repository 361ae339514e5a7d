package token

// BranchUnlink detaches the conditional directive t from its chain. A
// directive left without neighbours degrades to a plain Cpp directive.
//
// It returns 1 once t is fully detached, 0 when t still has a neighbour
// (call again to detach the other side) and -1 when t is not part of a
// chain.
func BranchUnlink(t *Token) int {
	a := t.arena
	switch t.Kind {
	case CppIf:
		if nx := a.Get(t.Branch.Nx); nx != nil {
			t.Branch.Nx = 0
			nx.Branch.Pv = 0
			if nx.Kind == CppEndif {
				nx.Kind = Cpp
			}
		}
		t.Kind = Cpp
		return 1

	case CppElse, CppEndif:
		if pv := a.Get(t.Branch.Pv); pv != nil {
			t.Branch.Pv = 0
			pv.Branch.Nx = 0
			if pv.Kind == CppIf {
				BranchUnlink(pv)
			}
		} else if nx := a.Get(t.Branch.Nx); nx != nil {
			t.Branch.Nx = 0
			nx.Branch.Pv = 0
			if nx.Kind == CppEndif {
				BranchUnlink(nx)
			}
		}
		if t.Branch.Pv == 0 && t.Branch.Nx == 0 {
			t.Kind = Cpp
			return 1
		}
		return 0
	}
	return -1
}
