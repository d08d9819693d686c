package sessionfakes

import (
	"sync"

	"github.com/samir7888/hospital-cms-client/session"
)

var _ session.Notifier = (*FakeNotifier)(nil)

type FakeNotifier struct {
	lock      sync.Mutex
	successes []string
	errors    []string
}

func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{}
}

func (n *FakeNotifier) Success(message string) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.successes = append(n.successes, message)
}

func (n *FakeNotifier) Error(message string) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.errors = append(n.errors, message)
}

func (n *FakeNotifier) Successes() []string {
	n.lock.Lock()
	defer n.lock.Unlock()
	return append([]string(nil), n.successes...)
}

func (n *FakeNotifier) Errors() []string {
	n.lock.Lock()
	defer n.lock.Unlock()
	return append([]string(nil), n.errors...)
}
