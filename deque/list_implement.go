package deque

type ListDeque[T any] struct {
	head *node[T]
	tail *node[T]

	size     int
	capacity int
}

type node[T any] struct {
	val  T
	pre  *node[T]
	next *node[T]
}

// 工厂方法
func NewListDeque[T any](capacity int) *ListDeque[T] {
	head := &node[T]{}
	tail := &node[T]{}
	head.next = tail
	tail.pre = head

	if capacity < 0 {
		capacity = 0
	}
	return &ListDeque[T]{
		head:     head,
		tail:     tail,
		capacity: capacity,
	}
}

func (ld *ListDeque[T]) Size() int {
	return ld.size
}

func (ld *ListDeque[T]) at(i int) *node[T] {
	if i < 0 || i >= ld.size {
		panic("index out of length")
	}
	// 从离得近的一端开始找
	if i < ld.size/2 {
		iter := ld.head.next
		for k := 0; k < i; k++ {
			iter = iter.next
		}
		return iter
	}
	iter := ld.tail.pre
	for k := ld.size - 1; k > i; k-- {
		iter = iter.pre
	}
	return iter
}

func (ld *ListDeque[T]) Get(i int) T {
	return ld.at(i).val
}

func (ld *ListDeque[T]) Set(i int, v T) {
	ld.at(i).val = v
}

func (ld *ListDeque[T]) Traverse(f func(i int, v T)) {
	k := 0
	for iter := ld.head.next; iter != ld.tail; iter = iter.next {
		f(k, iter.val)
		k++
	}
}

func (ld *ListDeque[T]) TraverseRange(start, end int, f func(i int, v T)) {
	if start < 0 {
		start = 0
	}
	if end > ld.size {
		end = ld.size
	}
	if start >= end {
		return
	}
	iter := ld.at(start)
	for k := start; k < end; k++ {
		f(k, iter.val)
		iter = iter.next
	}
}

func (ld *ListDeque[T]) AddLast(v T) bool {
	if ld.IsFull() {
		return false
	}
	n := &node[T]{val: v, pre: ld.tail.pre, next: ld.tail}
	ld.tail.pre.next = n
	ld.tail.pre = n
	ld.size++
	return true
}

func (ld *ListDeque[T]) RemoveLast() (T, bool) {
	var zero T
	if ld.size == 0 {
		return zero, false
	}
	n := ld.tail.pre
	n.pre.next = ld.tail
	ld.tail.pre = n.pre
	ld.size--
	return n.val, true
}

func (ld *ListDeque[T]) AddFirst(v T) bool {
	if ld.IsFull() {
		return false
	}
	n := &node[T]{val: v, pre: ld.head, next: ld.head.next}
	ld.head.next.pre = n
	ld.head.next = n
	ld.size++
	return true
}

func (ld *ListDeque[T]) RemoveFirst() (T, bool) {
	var zero T
	if ld.size == 0 {
		return zero, false
	}
	n := ld.head.next
	ld.head.next = n.next
	n.next.pre = ld.head
	ld.size--
	return n.val, true
}

func (ld *ListDeque[T]) IsFull() bool {
	return ld.capacity > 0 && ld.size == ld.capacity
}

func (ld *ListDeque[T]) IsEmpty() bool {
	return ld.size == 0
}
