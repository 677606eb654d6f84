package deque

const (
	// 数组大小基数
	base = 8
)

// ArrDeque is a ring buffer. capacity == 0 means unbounded: the backing
// array doubles when it runs out of room.
type ArrDeque[T any] struct {
	arr      []T
	start    int // 首元素在 arr 中的下标
	size     int // 元素个数
	capacity int // 0 表示不限
}

// 工厂方法
func NewArrDeque[T any](capacity int) *ArrDeque[T] {
	if capacity < 0 {
		capacity = 0
	}
	n := base
	if capacity > 0 {
		n = capacity
	}
	return &ArrDeque[T]{
		arr:      make([]T, n),
		capacity: capacity,
	}
}

func (ad *ArrDeque[T]) Size() int {
	return ad.size
}

func (ad *ArrDeque[T]) index(i int) int {
	if i < 0 || i >= ad.size {
		panic("index out of length")
	}
	return (ad.start + i) % len(ad.arr)
}

func (ad *ArrDeque[T]) Get(i int) T {
	return ad.arr[ad.index(i)]
}

func (ad *ArrDeque[T]) Set(i int, v T) {
	ad.arr[ad.index(i)] = v
}

func (ad *ArrDeque[T]) Traverse(f func(i int, v T)) {
	ad.TraverseRange(0, ad.size, f)
}

func (ad *ArrDeque[T]) TraverseRange(start, end int, f func(i int, v T)) {
	if start < 0 {
		start = 0
	}
	if end > ad.size {
		end = ad.size
	}
	n := len(ad.arr)
	for i := start; i < end; i++ {
		f(i, ad.arr[(ad.start+i)%n])
	}
}

func (ad *ArrDeque[T]) AddLast(v T) bool {
	if !ad.grow() {
		return false
	}
	ad.arr[(ad.start+ad.size)%len(ad.arr)] = v
	ad.size++
	return true
}

func (ad *ArrDeque[T]) RemoveLast() (T, bool) {
	var zero T
	if ad.size == 0 {
		return zero, false
	}
	k := (ad.start + ad.size - 1) % len(ad.arr)
	v := ad.arr[k]
	ad.arr[k] = zero // 释放引用
	ad.size--
	return v, true
}

func (ad *ArrDeque[T]) AddFirst(v T) bool {
	if !ad.grow() {
		return false
	}
	ad.start = (ad.start - 1 + len(ad.arr)) % len(ad.arr)
	ad.arr[ad.start] = v
	ad.size++
	return true
}

func (ad *ArrDeque[T]) RemoveFirst() (T, bool) {
	var zero T
	if ad.size == 0 {
		return zero, false
	}
	v := ad.arr[ad.start]
	ad.arr[ad.start] = zero
	ad.start = (ad.start + 1) % len(ad.arr)
	ad.size--
	return v, true
}

func (ad *ArrDeque[T]) IsFull() bool {
	return ad.capacity > 0 && ad.size == ad.capacity
}

func (ad *ArrDeque[T]) IsEmpty() bool {
	return ad.size == 0
}

// grow 保证还能再放入一个元素
func (ad *ArrDeque[T]) grow() bool {
	if ad.IsFull() {
		return false
	}
	if ad.size < len(ad.arr) {
		return true
	}
	// 扩容，元素按顺序搬到新数组开头
	arr := make([]T, len(ad.arr)*2)
	for i := 0; i < ad.size; i++ {
		arr[i] = ad.arr[(ad.start+i)%len(ad.arr)]
	}
	ad.arr = arr
	ad.start = 0
	return true
}
