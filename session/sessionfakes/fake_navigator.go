package sessionfakes

import (
	"sync"

	"github.com/samir7888/hospital-cms-client/session"
)

var _ session.Navigator = (*FakeNavigator)(nil)

type FakeNavigator struct {
	lock   sync.Mutex
	visits []string
}

func NewFakeNavigator() *FakeNavigator {
	return &FakeNavigator{}
}

func (n *FakeNavigator) Replace(route string) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.visits = append(n.visits, route)
}

// Visits returns every route Replace was called with, in order.
func (n *FakeNavigator) Visits() []string {
	n.lock.Lock()
	defer n.lock.Unlock()
	return append([]string(nil), n.visits...)
}

// Current returns the most recent route, or "" when none.
func (n *FakeNavigator) Current() string {
	n.lock.Lock()
	defer n.lock.Unlock()
	if len(n.visits) == 0 {
		return ""
	}
	return n.visits[len(n.visits)-1]
}
