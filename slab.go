package ucommon

import "unsafe"

const (
	slabSize = 32

	nilNode int32 = -1
)

type node[T any] struct {
	obj        T
	next, prev int32
}

type slab[T any] [slabSize]node[T]

// nodePool owns container nodes. Nodes are addressed by index, come in slabs
// charged to an Allocator and cycle between the free list and the caller's
// lists. They are never freed one at a time.
type nodePool[T any] struct {
	alloc Allocator
	slabs []*slab[T]
	free  int32
	spare int
}

func newNodePool[T any](alloc Allocator) nodePool[T] {
	return nodePool[T]{alloc: alloc, free: nilNode}
}

func (p *nodePool[T]) at(i int32) *node[T] {
	return &p.slabs[i/slabSize][i%slabSize]
}

func (p *nodePool[T]) get() int32 {
	if p.free == nilNode {
		p.grow()
	}
	i := p.free
	n := p.at(i)
	p.free = n.next
	p.spare--
	n.next, n.prev = nilNode, nilNode
	return i
}

func (p *nodePool[T]) put(i int32) {
	var zero T
	n := p.at(i)
	n.obj = zero
	n.prev = nilNode
	n.next = p.free
	p.free = i
	p.spare++
}

func (p *nodePool[T]) grow() {
	s := new(slab[T])
	if p.alloc != nil {
		p.alloc.Hold(s, unsafe.Sizeof(*s))
	}

	base := int32(len(p.slabs)) * slabSize
	p.slabs = append(p.slabs, s)
	for k := slabSize - 1; k >= 0; k-- {
		s[k].prev = nilNode
		s[k].next = p.free
		p.free = base + int32(k)
	}
	p.spare += slabSize
}

// nodeList is a doubly linked list of nodes from one nodePool.
type nodeList struct {
	head, tail int32
	count      int
}

func newNodeList() nodeList {
	return nodeList{head: nilNode, tail: nilNode}
}

func (p *nodePool[T]) pushBack(l *nodeList, i int32) {
	n := p.at(i)
	n.prev, n.next = l.tail, nilNode
	if l.tail == nilNode {
		l.head = i
	} else {
		p.at(l.tail).next = i
	}
	l.tail = i
	l.count++
}

func (p *nodePool[T]) unlink(l *nodeList, i int32) {
	n := p.at(i)
	if n.prev == nilNode {
		l.head = n.next
	} else {
		p.at(n.prev).next = n.next
	}
	if n.next == nilNode {
		l.tail = n.prev
	} else {
		p.at(n.next).prev = n.prev
	}
	n.next, n.prev = nilNode, nilNode
	l.count--
}
