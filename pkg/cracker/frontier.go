package cracker

import (
	"github.com/ef-ds/deque"
)

// frontier is the FIFO of chains waiting to be expanded. It is owned by one
// search and needs no locking.
type frontier struct {
	q deque.Deque
}

func (f *frontier) Len() int {
	return f.q.Len()
}

func (f *frontier) Push(n *Node) {
	f.q.PushBack(n)
}

func (f *frontier) Pop() (*Node, bool) {
	v, ok := f.q.PopFront()
	if !ok {
		return nil, false
	}
	return v.(*Node), true
}
