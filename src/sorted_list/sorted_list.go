package sorted_list

import (
	"sync"
)

// node holds one value and exclusively owns the rest of the chain.
type node struct {
	value int
	next  *node
}

// SortedList is a singly linked list kept in ascending order.
// One mutex covers the whole chain: every operation holds it for its full
// duration, so compound two-link updates are never observed half done.
// The zero value is an empty list ready to use.
type SortedList struct {
	mu   sync.Mutex
	head *node
}

// New returns an empty list.
func New() *SortedList {
	return &SortedList{}
}

// Insert places value so that the chain stays non-decreasing.
// A value less than or equal to the head becomes the new head; otherwise the
// walk stops at the last node whose successor is missing or >= value.
func (l *SortedList) Insert(value int) {
	n := &node{value: value}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.head == nil || value <= l.head.value {
		n.next = l.head
		l.head = n
		return
	}

	prev := l.head
	for prev.next != nil && prev.next.value < value {
		prev = prev.next
	}
	n.next = prev.next
	prev.next = n
}

// Delete unlinks the first node holding value.
// It reports false, leaving the list untouched, when no node matches.
func (l *SortedList) Delete(value int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.head == nil {
		return false
	}

	if l.head.value == value {
		l.head = l.head.next
		return true
	}

	prev := l.head
	for prev.next != nil && prev.next.value != value {
		prev = prev.next
	}
	if prev.next == nil {
		return false
	}
	prev.next = prev.next.next
	return true
}

// Search reports whether any node holds value.
// Reads take the same exclusive lock as writes.
func (l *SortedList) Search(value int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for n := l.head; n != nil; n = n.next {
		if n.value == value {
			return true
		}
	}
	return false
}

// Values returns a head-to-tail snapshot of the chain.
func (l *SortedList) Values() []int {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]int, 0)
	for n := l.head; n != nil; n = n.next {
		out = append(out, n.value)
	}
	return out
}

// Len counts the nodes in the chain. O(n).
func (l *SortedList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0
	for n := l.head; n != nil; n = n.next {
		count++
	}
	return count
}

// IsSorted walks the chain and checks the ascending order invariant.
func (l *SortedList) IsSorted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for n := l.head; n != nil && n.next != nil; n = n.next {
		if n.next.value < n.value {
			return false
		}
	}
	return true
}
