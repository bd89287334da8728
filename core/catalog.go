package core

// Catalog 是 Pipeline 所需的只读数据集视图。
//
// 实现必须保证番剧表与类别成员矩阵按同一行序构建：At(row) 与 Vector(row) 描述同一部番剧。
// 加载完成后不得再修改，因此可以被任意多个并发请求共享而无需加锁。
type Catalog interface {
	// Len 返回数据集行数
	Len() int

	// At 返回第 row 行的番剧
	At(row int) *Anime

	// Lookup 返回标题对应的第一行；重复标题时按表序取第一个
	Lookup(title string) (int, bool)

	// Vector 返回第 row 行的类别成员向量
	Vector(row int) []uint8

	// Dot 返回第 row 行与 vec 的点积，即共享类别数
	Dot(row int, vec []uint8) int
}
