/**
 *
 * 双端队列，用于保存生长过程中每一步的快照
 * 数组实现具有更好的局部性，遍历历史时优先使用 ArrDeque
 *
 */

package deque

type Deque[T any] interface {
	// 队列的长度
	Size() int

	// 获取队列中对应下标的元素
	Get(i int) T

	// 设定队列中对应下标的元素
	Set(i int, v T)

	// 正向遍历
	Traverse(f func(i int, v T))

	// 遍历 [start, end)
	TraverseRange(start, end int, f func(i int, v T))

	// 在队列结尾增加一个元素，队列已满时返回 false
	AddLast(v T) bool

	// 在队列结尾删除一个元素
	RemoveLast() (T, bool)

	// 在队列头部增加一个元素，队列已满时返回 false
	AddFirst(v T) bool

	// 在队列头部删除一个元素
	RemoveFirst() (T, bool)

	IsFull() bool

	IsEmpty() bool
}
