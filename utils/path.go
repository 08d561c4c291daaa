package utils

func NewPath(s ...string) Path {
	p := Path{}
	p = append(p, s...)
	return p
}

// Path is an ordered ancestor-ID sequence, root first.
type Path []string

func (p *Path) AddString(s ...string) Path {
	next := make(Path, 0, len(*p)+len(s))
	next = append(next, *p...)
	return append(next, s...)
}

func (p *Path) Export() []string {
	return *p
}

func (p Path) First() (string, bool) {
	if len(p) == 0 {
		return "", false
	}
	return p[0], true
}

func (p Path) Last() (string, bool) {
	if len(p) == 0 {
		return "", false
	}
	return p[len(p)-1], true
}

func (p Path) Next() Path {
	if len(p) == 0 {
		return Path{}
	}
	return p[1:]
}

// CommonPrefix returns the longest shared prefix of two paths; for node
// paths rooted at the same tree this is the path to their lowest common
// ancestor.
func (p Path) CommonPrefix(other Path) Path {
	n := len(p)
	if len(other) < n {
		n = len(other)
	}
	i := 0
	for i < n && p[i] == other[i] {
		i++
	}
	return NewPath(p[:i]...)
}

func (p Path) Reversed() Path {
	r := make(Path, len(p))
	for i, s := range p {
		r[len(p)-1-i] = s
	}
	return r
}
