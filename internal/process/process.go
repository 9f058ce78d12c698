// Package process stops launched browser processes together with the
// helpers they spawn.
package process

import "sync"

// Group is a launched process whose whole tree is killed by Stop.
type Group struct {
	pid      int
	fallback func()
	once     sync.Once
}

// NewGroup tracks pid. fallback, when set, runs after the tree kill; pass
// the launcher's own cleanup so that platforms without process groups
// still release the process.
func NewGroup(pid int, fallback func()) *Group {
	return &Group{pid: pid, fallback: fallback}
}

// Stop kills the process tree once. Later calls do nothing. A non-positive
// pid skips the tree kill.
func (g *Group) Stop() {
	if g == nil {
		return
	}
	g.once.Do(func() {
		if g.pid > 0 {
			KillProcessGroup(g.pid)
		}
		if g.fallback != nil {
			g.fallback()
		}
	})
}
